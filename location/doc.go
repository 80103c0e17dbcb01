// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package location reports a field researcher's position to the survey backend
while their dashboard is open.

# Reporter States

A Reporter is either Inactive or Watching:

	Inactive --SetUser(field researcher)--> Watching
	Watching --SetUser(anyone else)-------> Inactive
	Watching --Close-----------------------> Inactive (final)

Watching holds exactly one Subscription on the Source, requested with
DefaultWatchOptions (high accuracy, 20s timeout, 10s maximum age). Changing
identity ends the old subscription before a new one starts, and samples
still in flight for the old identity are dropped.

# Throttling

At most one sample per ThrottleWindow (30s) is sent. The first sample after
entering Watching is always sent. Samples inside the window are dropped, not
queued. The window is measured on the reporter's clock, never the device
timestamp:

	r := location.NewReporter(source, notifier, location.WithClock(clock.Now))

# Notifying

Accepted samples become a models.GeoPoint carrying the device timestamp and
are handed to a Notifier. RouteNotifier sends them with
UpdateResearcherRoute on its own goroutine, detached from the caller's
cancellation. Failures are logged and never retried.

Position errors from the Source are logged and do not end the subscription.
*/
package location

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP handlers for the researcher dashboard.

# Handler Types

DashboardHandler serves the dashboard page and the small API its tab talks
to. It is created with the page registry, config and the watch options the
tab should request from its positioning API:

	h := handlers.NewDashboardHandler(pages, cfg, location.DefaultWatchOptions)

# Page Lifecycle

GET /dashboard mounts a page for the tab and sets the signed fs_page cookie.
Later requests carrying the cookie reuse the same page, so campaigns and
responses are fetched once per mount. The q query parameter filters the
cards by name. The search box fetches the card section alone and swaps it
in place, so searching never leaves the document.

	GET  /dashboard                 → Show (HTML)
	GET  /dashboard/view            → View (JSON of the same cards)
	GET  /dashboard/cards           → Cards (HTML card section)
	POST /dashboard/unmount?doc=    → Unmount (always 204)

Every render of the page gets a document ID. The tab's pagehide beacon
sends it back, and the page is unmounted only while that document is still
the latest one to render it. A beacon from a replaced document is ignored.

The view carries track_location, and the card section carries it as
data-track-location, so a tab whose identity changes to a field researcher
starts watching on its next refresh.

# Location Reporting

For field researchers the page tells the tab to watch its position. The tab
first reports whether it can, then forwards each sample and error:

	POST /dashboard/capability      → Capability {"geolocation": bool}
	POST /dashboard/positions       → Positions (202)
	POST /dashboard/position-errors → PositionErrors (202)

A 202 only means the sample was queued. Throttling to one route update per
30 seconds happens in the page's location reporter.

# Errors

Tab API calls without a mounted page get 404; a cookie that fails its
signature check gets 403. Error bodies use middleware.ErrorResponse.
*/
package handlers

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package page holds the server-side state of each open dashboard tab.

A Page is mounted once per tab. Mounting starts the one-time load of
campaigns and responses; until it finishes the view reports Loading. The
page keeps the current user and search query and derives its view on demand
with the dashboard package.

Location reporting is created lazily. A tab that reports no positioning
capability never gets a reporter, and so never subscribes to its feed.

Registry maps page IDs to pages. Pages not seen for the idle timeout are
unmounted by Sweep, which Run calls periodically:

	pages := page.NewRegistry(deps, cfg.PageIdleTimeout)
	go pages.Run(ctx)
	defer pages.Close()
*/
package page

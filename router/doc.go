// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the field survey dashboard.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(pages, auth.NewResolver(cfg.SessionSecret), cfg)

# Endpoints

Health:

	GET /health

Dashboard:

	GET  /                          - Redirect to /dashboard
	GET  /dashboard                 - Render the campaign cards (?q= filters)
	GET  /dashboard/view            - Same cards as JSON
	GET  /dashboard/cards           - Card section as HTML, for in-page search
	POST /dashboard/unmount?doc=    - Release the page, if doc still owns it

Location feed (field researchers only, sent by the page's script):

	POST /dashboard/capability      - Whether the tab can watch its position
	POST /dashboard/positions       - One position sample
	POST /dashboard/position-errors - One positioning error

All dashboard routes are wrapped with middleware.WithLogging and
middleware.WithUser, so handlers read the caller from the request context.
*/
package router

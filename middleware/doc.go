// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs one line per request with method, path, status, remote, and duration_ms.

# Session Resolution

Resolve the session once per request and store it on the context:

	mux.HandleFunc("GET /dashboard", middleware.WithLogging(
		middleware.WithUser(resolver, dashboardHandler.Show)))

Handlers read it back with auth.UserFrom and auth.TokenFrom. An invalid
token is logged and treated like no token at all; the dashboard has no
error state of its own.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies (capped at 64 KiB):

	var pos models.Position
	if err := middleware.ParseJSONBody(r, &pos); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the field survey dashboard server.

The server renders the researcher dashboard: the active campaigns assigned to
the signed-in researcher, with response progress toward each campaign's goal.
While a field researcher has the dashboard open, the tab streams its
position and the server forwards it, at most every 30 seconds, to the survey
backend's route endpoint.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	SURVEY_API_URL=http://localhost:8080 SESSION_SECRET=... go run .

Or with flags:

	go run . -p 3320 -api http://localhost:8080 -session-secret ...

A .env file in the working directory (or the file named by ENV_FILE) is
loaded first; real environment variables win over it.

# Configuration

Required settings:

  - SURVEY_API_URL (-api): Base URL of the survey backend
  - SESSION_SECRET (-session-secret): HS256 secret for session tokens and page cookies

Optional settings:

  - PORT (-p): Server port (default: 3320)
  - API_TIMEOUT (-api-timeout): Timeout for each backend read (default: 10s)
  - PAGE_IDLE_TIMEOUT (-idle): Unmount pages idle this long (default: 30m)
  - OTEL_ENDPOINT (-otel): OTLP/HTTP trace endpoint, tracing is off when empty
  - OTEL_SAMPLE_RATIO (-otel-sample): Share of new traces recorded (default: 1)

# Architecture

  - handlers: Dashboard page and tab API
  - router: Route definitions using Go 1.22+ routing
  - middleware: Logging, session resolution, JSON helpers
  - page: Mounted pages and their registry
  - loader: Joint fetch of campaigns and responses
  - dashboard: Filtering and progress derivation
  - location: Location reporter, throttle and route notifier
  - positionfeed: Position source fed by the tab
  - apiclient: Survey backend HTTP client
  - auth: Session tokens and page cookies
  - models: Domain and view types
  - telemetry: OpenTelemetry tracing setup
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main

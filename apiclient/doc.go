// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package apiclient talks to the survey backend over HTTP/JSON. Each call is
// traced and forwards the caller's session token.
package apiclient

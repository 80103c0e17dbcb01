// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth adapts the external auth service to the dashboard.

# Session Tokens

The auth service issues HS256 JWTs (subject = profile ID, role claim). The
dashboard only verifies them:

	resolver := auth.NewResolver(cfg.SessionSecret)
	user, token, err := resolver.Resolve(r)

Tokens are read from the Authorization bearer header first, then from the
fs_session cookie. A request without a token resolves to a nil user.

# Request Context

	ctx = auth.WithUser(ctx, user)
	ctx = auth.WithToken(ctx, token)

The raw token is forwarded to the survey backend by apiclient.

# Page Cookies

A mounted dashboard page is identified by a UUID, signed with HMAC-SHA256
so a tab cannot guess its way into another page:

	value := auth.SignPageID(pageID, secret)
	pageID, err := auth.VerifyPageCookie(value, secret)

The cookie is not bound to a profile. When the session behind a tab changes
identity, the same page sees the new user and its location reporter
switches over.
*/
package auth

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package dashboard derives the researcher's campaign cards.

Visible campaigns are active, assigned to the current profile and contain
the search query in their name, ignoring case. Order follows the backend.

Progress is responses over goal as a percentage, capped at 100. A goal of
zero never counts as met and always shows 0% progress.
*/
package dashboard

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers implements the HTTP request handlers.

# Handlers

  - PollHandler: poll creation and read-only fetches (POST /polls,
    GET /polls, GET /polls/{id})
  - VotingHandler: the vote endpoint (POST /polls/{id}/vote), delegating to
    the vote processor and mapping its error taxonomy to status codes
  - WSHandler: the realtime channel (GET /ws), relaying join/leave messages
    to the hub and pushing an initial tally snapshot on join

# Status mapping for votes

	200 tally            vote admitted
	400 invalid option / malformed body
	403 already voted    (one-shot guard)
	404 poll not found
	429 rate limited     (window guard, retry_after in seconds)
	500 storage failure
*/
package handlers

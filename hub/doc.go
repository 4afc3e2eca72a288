// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package hub fans live tally updates out to poll subscribers.

Membership is keyed by poll ID: a subscriber joins the polls it cares about
and receives every snapshot published for them, in publish order. Groups are
created lazily and removed when empty; Leave and LeaveAll are idempotent.

The hub only knows the Subscriber capability (Send, Close). The websocket
adapter in this package is the one transport currently wired in; tests use
plain in-memory recorders.
*/
package hub

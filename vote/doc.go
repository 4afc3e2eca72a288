// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package vote orchestrates vote acceptance.

Processor.Vote runs the fixed order

	store.Get -> index validation -> guard.Check -> store.ApplyVote
	-> guard.Record -> hub.Publish

and returns the updated tally. Rejections pass through untouched so the
HTTP layer can map them: store.ErrPollNotFound, store.ErrInvalidOption,
guard.ErrAlreadyVoted, *guard.RateLimitedError. Driver-level failures and
store timeouts are wrapped in *StorageError. A failed vote never records an
abuse entry and never broadcasts.
*/
package vote

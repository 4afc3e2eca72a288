// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package guard implements duplicate-vote prevention and per-identity rate
limiting for the vote path.

# Policies

Two independently useful policies, selected at construction:

  - ModeOneShot: an identity may vote on a given poll at most once, ever.
    Rejection: ErrAlreadyVoted.
  - ModeWindow: an identity may vote on a given poll at most once per fixed
    window, and again after it elapses. Rejection: RateLimitedError with
    the remaining wait rounded up to whole seconds.

The policies are deliberately not merged; they have different semantics and
callers pick one.

# Check / Record / Release

Check and Record are separate so that state is never reserved for votes
that fail validation before the guard is consulted. A nil Check marks the
(poll, identity) pair pending, which closes the race where two
near-simultaneous votes both pass Check before either records: the second
Check is rejected while the first vote's store write is in flight. Record
confirms the admission once the write succeeds; Release rolls it back when
the write fails, so a voter whose vote never counted is not blocked.

# Garbage collection

Start launches a fixed-interval background sweep that drops window-mode
entries idle for more than twice the window, bounding memory. Stop ends it.
Guard state is in-memory only and resets on process restart.
*/
package guard

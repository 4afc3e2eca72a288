// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package guard

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Mode selects the anti-abuse policy.
type Mode string

const (
	// ModeOneShot admits at most one vote per (poll, identity), ever.
	ModeOneShot Mode = "oneshot"
	// ModeWindow admits at most one vote per (poll, identity) per window.
	ModeWindow Mode = "window"
)

// ErrAlreadyVoted is the one-shot rejection.
var ErrAlreadyVoted = errors.New("already voted on this poll")

// RateLimitedError is the window-mode rejection. RetryAfter is rounded up
// to whole seconds and is always at least one second.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry in %s", e.RetryAfter)
}

// entry tracks the most recent admitted vote for one (poll, identity) pair.
// While pending is set, a Check has admitted a vote whose store write has
// not finished; Record confirms it and Release rolls it back.
type entry struct {
	last    time.Time
	prev    time.Time
	hasPrev bool
	pending bool
}

// Guard tracks recent vote attempts per (poll, identity) and decides
// admit/reject. All state lives behind its mutex; nothing else in the
// process touches it. State is process-lifetime only and resets on restart.
type Guard struct {
	mode       Mode
	window     time.Duration
	sweepEvery time.Duration

	mu      sync.Mutex
	entries map[string]*entry

	stopOnce sync.Once
	done     chan struct{}
}

// New builds a guard. window is ignored in one-shot mode. sweepEvery
// controls the background garbage-collection interval once Start is called.
func New(mode Mode, window, sweepEvery time.Duration) *Guard {
	return &Guard{
		mode:       mode,
		window:     window,
		sweepEvery: sweepEvery,
		entries:    make(map[string]*entry),
		done:       make(chan struct{}),
	}
}

func key(pollID, identity string) string {
	return pollID + "\x00" + identity
}

// Check decides whether a vote from identity on pollID may proceed. A nil
// return admits the vote and marks the pair pending: a concurrent Check for
// the same pair is rejected until the caller settles the first vote with
// Record (store write succeeded) or Release (it did not). Unknown pairs are
// admitted.
func (g *Guard) Check(pollID, identity string, now time.Time) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	k := key(pollID, identity)
	e, ok := g.entries[k]
	if !ok {
		g.entries[k] = &entry{last: now, pending: true}
		return nil
	}

	if e.pending || g.mode == ModeOneShot {
		if g.mode == ModeOneShot {
			return ErrAlreadyVoted
		}
		return &RateLimitedError{RetryAfter: ceilSeconds(g.window - now.Sub(e.last))}
	}

	if elapsed := now.Sub(e.last); elapsed < g.window {
		return &RateLimitedError{RetryAfter: ceilSeconds(g.window - elapsed)}
	}

	e.prev, e.hasPrev = e.last, true
	e.last = now
	e.pending = true
	return nil
}

// Record confirms a previously admitted vote after its store write
// succeeded. Called at most once per admitted Check.
func (g *Guard) Record(pollID, identity string, now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	k := key(pollID, identity)
	e, ok := g.entries[k]
	if !ok {
		g.entries[k] = &entry{last: now}
		return
	}
	e.last = now
	e.pending = false
	e.hasPrev = false
}

// Release rolls back a pending admission whose store write failed, so the
// voter is not blocked by a vote that never counted. Safe to call for pairs
// that are not pending.
func (g *Guard) Release(pollID, identity string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	k := key(pollID, identity)
	e, ok := g.entries[k]
	if !ok || !e.pending {
		return
	}
	if e.hasPrev {
		e.last = e.prev
		e.pending = false
		e.hasPrev = false
		return
	}
	delete(g.entries, k)
}

// Start launches the background sweep. No-op once Stop has been called.
func (g *Guard) Start() {
	go func() {
		ticker := time.NewTicker(g.sweepEvery)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				removed := g.sweep(now)
				if removed > 0 {
					slog.Debug("guard sweep", "removed", removed)
				}
			case <-g.done:
				return
			}
		}
	}()
}

// Stop terminates the background sweep. Idempotent.
func (g *Guard) Stop() {
	g.stopOnce.Do(func() { close(g.done) })
}

// sweep removes window-mode entries idle for more than twice the window.
// Expired entries behave identically to absent ones for future checks, so
// removal never changes an admit/reject decision. One-shot entries are
// permanent by definition and are never swept.
func (g *Guard) sweep(now time.Time) int {
	if g.mode != ModeWindow {
		return 0
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	removed := 0
	for k, e := range g.entries {
		if !e.pending && now.Sub(e.last) > 2*g.window {
			delete(g.entries, k)
			removed++
		}
	}
	return removed
}

func ceilSeconds(d time.Duration) time.Duration {
	r := d.Truncate(time.Second)
	if r < d {
		r += time.Second
	}
	if r <= 0 {
		r = time.Second
	}
	return r
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ShaikMuktharBasha/realtime-poll-backend/models"
)

// newTestPoll builds an unstored poll fixture.
func newTestPoll(id string, labels ...string) *models.Poll {
	poll := &models.Poll{
		ID:        id,
		Question:  "What should we pick?",
		Options:   make([]models.Option, len(labels)),
		CreatedAt: time.Now().UTC(),
	}
	for i, label := range labels {
		poll.Options[i] = models.Option{Label: label}
	}
	return poll
}

func checkInvariant(t *testing.T, poll *models.Poll) {
	t.Helper()
	var sum int64
	for _, opt := range poll.Options {
		sum += opt.Votes
	}
	if poll.TotalVotes != sum {
		t.Errorf("Invariant broken: total_votes=%d, sum of options=%d", poll.TotalVotes, sum)
	}
}

// runPollStoreTests is the shared contract suite; every backend that can run
// without an external service goes through it.
func runPollStoreTests(t *testing.T, newStore func(t *testing.T) PollStore) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		s := newStore(t)
		want := newTestPoll("poll-1", "A", "B", "C")
		if err := s.Create(ctx, want); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		got, err := s.Get(ctx, "poll-1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.Question != want.Question {
			t.Errorf("Expected question %q, got %q", want.Question, got.Question)
		}
		if len(got.Options) != 3 {
			t.Fatalf("Expected 3 options, got %d", len(got.Options))
		}
		for i, opt := range got.Options {
			if opt.Label != want.Options[i].Label {
				t.Errorf("Option %d: expected label %q, got %q", i, want.Options[i].Label, opt.Label)
			}
			if opt.Votes != 0 {
				t.Errorf("Option %d: expected 0 votes, got %d", i, opt.Votes)
			}
		}
		if got.TotalVotes != 0 {
			t.Errorf("Expected 0 total votes, got %d", got.TotalVotes)
		}
	})

	t.Run("duplicate ID", func(t *testing.T) {
		s := newStore(t)
		if err := s.Create(ctx, newTestPoll("poll-1", "A", "B")); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := s.Create(ctx, newTestPoll("poll-1", "X", "Y")); err != ErrDuplicateID {
			t.Errorf("Expected ErrDuplicateID, got %v", err)
		}
	})

	t.Run("get missing poll", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.Get(ctx, "nope"); err != ErrPollNotFound {
			t.Errorf("Expected ErrPollNotFound, got %v", err)
		}
	})

	t.Run("apply vote", func(t *testing.T) {
		s := newStore(t)
		if err := s.Create(ctx, newTestPoll("poll-1", "A", "B")); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		poll, err := s.ApplyVote(ctx, "poll-1", 0)
		if err != nil {
			t.Fatalf("ApplyVote failed: %v", err)
		}
		if poll.Options[0].Votes != 1 || poll.Options[1].Votes != 0 {
			t.Errorf("Expected votes [1 0], got [%d %d]", poll.Options[0].Votes, poll.Options[1].Votes)
		}
		checkInvariant(t, poll)

		poll, err = s.ApplyVote(ctx, "poll-1", 1)
		if err != nil {
			t.Fatalf("ApplyVote failed: %v", err)
		}
		if poll.TotalVotes != 2 {
			t.Errorf("Expected total 2, got %d", poll.TotalVotes)
		}
		checkInvariant(t, poll)
	})

	t.Run("invalid option index", func(t *testing.T) {
		s := newStore(t)
		if err := s.Create(ctx, newTestPoll("poll-1", "A", "B")); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		for _, idx := range []int{-1, 2, 100} {
			if _, err := s.ApplyVote(ctx, "poll-1", idx); err != ErrInvalidOption {
				t.Errorf("Index %d: expected ErrInvalidOption, got %v", idx, err)
			}
		}

		// Nothing mutated
		poll, err := s.Get(ctx, "poll-1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if poll.TotalVotes != 0 {
			t.Errorf("Rejected votes must not mutate state, total=%d", poll.TotalVotes)
		}
		checkInvariant(t, poll)
	})

	t.Run("vote on missing poll", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.ApplyVote(ctx, "nope", 0); err != ErrPollNotFound {
			t.Errorf("Expected ErrPollNotFound, got %v", err)
		}
	})

	t.Run("list", func(t *testing.T) {
		s := newStore(t)
		first := newTestPoll("poll-a", "A", "B")
		second := newTestPoll("poll-b", "C", "D")
		second.CreatedAt = first.CreatedAt.Add(time.Second)
		if err := s.Create(ctx, first); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := s.Create(ctx, second); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		polls, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(polls) != 2 {
			t.Fatalf("Expected 2 polls, got %d", len(polls))
		}
		if polls[0].ID != "poll-a" || polls[1].ID != "poll-b" {
			t.Errorf("Expected oldest-first order, got %s, %s", polls[0].ID, polls[1].ID)
		}
		if len(polls[0].Options) != 2 {
			t.Errorf("Listed polls should carry options, got %d", len(polls[0].Options))
		}
	})

	t.Run("concurrent votes are all counted", func(t *testing.T) {
		s := newStore(t)
		if err := s.Create(ctx, newTestPoll("poll-1", "A", "B")); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		const voters = 25
		var failures atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < voters; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				if _, err := s.ApplyVote(ctx, "poll-1", n%2); err != nil {
					failures.Add(1)
				}
			}(i)
		}
		wg.Wait()

		if failures.Load() != 0 {
			t.Fatalf("%d concurrent votes failed", failures.Load())
		}

		poll, err := s.Get(ctx, "poll-1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if poll.TotalVotes != voters {
			t.Errorf("Lost updates: expected total %d, got %d", voters, poll.TotalVotes)
		}
		checkInvariant(t, poll)
	})
}

func TestMemoryStore(t *testing.T) {
	runPollStoreTests(t, func(t *testing.T) PollStore {
		return NewMemoryStore()
	})
}

func TestMemoryStoreCopiesState(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	poll := newTestPoll("poll-1", "A", "B")
	if err := s.Create(ctx, poll); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Mutating what Get returned must not leak into the store
	got, _ := s.Get(ctx, "poll-1")
	got.Options[0].Votes = 999
	got.TotalVotes = 999

	fresh, _ := s.Get(ctx, "poll-1")
	if fresh.Options[0].Votes != 0 || fresh.TotalVotes != 0 {
		t.Error("Store state leaked through a returned poll")
	}
}

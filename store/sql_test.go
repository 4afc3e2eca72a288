// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"testing"

	"github.com/ShaikMuktharBasha/realtime-poll-backend/testutil"
)

// The SQL backend runs the shared contract suite against in-memory SQLite;
// the statements are identical for PostgreSQL.
func TestSQLStore(t *testing.T) {
	runPollStoreTests(t, func(t *testing.T) PollStore {
		return NewSQLStore(testutil.SetupTestDB(t))
	})
}

func TestSQLStoreRejectedVoteLeavesNoRows(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := NewSQLStore(conn)
	ctx := context.Background()

	if err := s.Create(ctx, newTestPoll("poll-1", "A", "B")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := s.ApplyVote(ctx, "poll-1", 5); err != ErrInvalidOption {
		t.Fatalf("Expected ErrInvalidOption, got %v", err)
	}

	var total int64
	if err := conn.QueryRow(`SELECT total_votes FROM poll WHERE id = $1`, "poll-1").Scan(&total); err != nil {
		t.Fatalf("Failed to query total: %v", err)
	}
	if total != 0 {
		t.Errorf("Rejected vote must not touch the poll row, total=%d", total)
	}
}

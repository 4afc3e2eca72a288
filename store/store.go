// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"

	"github.com/ShaikMuktharBasha/realtime-poll-backend/models"
)

var (
	ErrPollNotFound  = errors.New("poll not found")
	ErrInvalidOption = errors.New("invalid option index")
	ErrDuplicateID   = errors.New("poll ID already exists")
)

// PollStore owns durable poll state. ApplyVote must be atomic with respect
// to the read-modify-write of the option count and the total count: two
// concurrent calls on the same poll are both reflected and total_votes stays
// the exact sum of option counts. The guarantee comes from the backend's
// update primitive (SQL increment in a transaction, Redis HINCRBY in
// MULTI/EXEC), never from a lock held by callers.
type PollStore interface {
	// Create inserts a new poll. Returns ErrDuplicateID if the ID is taken.
	Create(ctx context.Context, poll *models.Poll) error

	// Get returns the poll with its current tally, or ErrPollNotFound.
	Get(ctx context.Context, pollID string) (*models.Poll, error)

	// List returns all polls, oldest first.
	List(ctx context.Context) ([]models.Poll, error)

	// ApplyVote atomically increments the count for the option at
	// optionIndex and the poll total, and returns the updated poll.
	// An index outside [0, optionCount) returns ErrInvalidOption without
	// mutating anything.
	ApplyVote(ctx context.Context, pollID string, optionIndex int) (*models.Poll, error)
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ShaikMuktharBasha/realtime-poll-backend/models"
)

// SQLStore implements PollStore on database/sql. The same statements run on
// PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite); both drivers accept
// $n placeholders.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Create(ctx context.Context, poll *models.Poll) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO poll (id, question, total_votes, created_at)
		VALUES ($1, $2, 0, $3)
	`, poll.ID, poll.Question, poll.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateID
		}
		return fmt.Errorf("failed to insert poll: %w", err)
	}

	for idx, opt := range poll.Options {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO option (poll_id, idx, label, votes)
			VALUES ($1, $2, $3, 0)
		`, poll.ID, idx, opt.Label)
		if err != nil {
			return fmt.Errorf("failed to insert option %d: %w", idx, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit poll: %w", err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, pollID string) (*models.Poll, error) {
	var poll models.Poll
	err := s.db.QueryRowContext(ctx, `
		SELECT id, question, total_votes, created_at
		FROM poll WHERE id = $1
	`, pollID).Scan(&poll.ID, &poll.Question, &poll.TotalVotes, &poll.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrPollNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query poll: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT label, votes FROM option
		WHERE poll_id = $1 ORDER BY idx
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var opt models.Option
		if err := rows.Scan(&opt.Label, &opt.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		poll.Options = append(poll.Options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read options: %w", err)
	}

	return &poll, nil
}

func (s *SQLStore) List(ctx context.Context) ([]models.Poll, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, question, total_votes, created_at
		FROM poll ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query polls: %w", err)
	}
	defer rows.Close()

	polls := []models.Poll{}
	for rows.Next() {
		var poll models.Poll
		if err := rows.Scan(&poll.ID, &poll.Question, &poll.TotalVotes, &poll.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, poll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read polls: %w", err)
	}

	for i := range polls {
		optRows, err := s.db.QueryContext(ctx, `
			SELECT label, votes FROM option
			WHERE poll_id = $1 ORDER BY idx
		`, polls[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to query options: %w", err)
		}
		for optRows.Next() {
			var opt models.Option
			if err := optRows.Scan(&opt.Label, &opt.Votes); err != nil {
				optRows.Close()
				return nil, fmt.Errorf("failed to scan option: %w", err)
			}
			polls[i].Options = append(polls[i].Options, opt)
		}
		err = optRows.Err()
		optRows.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read options: %w", err)
		}
	}

	return polls, nil
}

func (s *SQLStore) ApplyVote(ctx context.Context, pollID string, optionIndex int) (*models.Poll, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Atomic increment: the database applies votes+1 against the current
	// committed value, so concurrent votes are never lost.
	res, err := tx.ExecContext(ctx, `
		UPDATE option SET votes = votes + 1
		WHERE poll_id = $1 AND idx = $2
	`, pollID, optionIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to increment option count: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		// Nothing mutated; distinguish a missing poll from a bad index.
		var count int
		if err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM poll WHERE id = $1
		`, pollID).Scan(&count); err != nil {
			return nil, fmt.Errorf("failed to check poll existence: %w", err)
		}
		if count == 0 {
			return nil, ErrPollNotFound
		}
		return nil, ErrInvalidOption
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE poll SET total_votes = total_votes + 1
		WHERE id = $1
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to increment total count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit vote: %w", err)
	}

	return s.Get(ctx, pollID)
}

// isUniqueViolation matches the uniqueness-constraint error text of both
// supported drivers.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

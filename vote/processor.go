// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package vote

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ShaikMuktharBasha/realtime-poll-backend/guard"
	"github.com/ShaikMuktharBasha/realtime-poll-backend/models"
	"github.com/ShaikMuktharBasha/realtime-poll-backend/store"
)

// Broadcaster is the slice of the hub the processor needs.
type Broadcaster interface {
	Publish(pollID string, data []byte)
}

// Event describes an admitted vote for downstream consumers.
type Event struct {
	PollID      string    `json:"poll_id"`
	OptionIndex int       `json:"option"`
	TotalVotes  int64     `json:"total_votes"`
	AcceptedAt  time.Time `json:"accepted_at"`
}

// EventSink receives every admitted vote. Sink failures are logged, never
// surfaced: the vote already counted and the tally already went out.
type EventSink interface {
	VoteAccepted(event Event) error
}

// StorageError marks a transient persistence failure. The processor does
// not retry, but callers can tell it apart from the terminal rejections and
// apply their own retry policy.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure: %v", e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Processor orchestrates the vote-acceptance path: validate, consult the
// guard, apply the tally update, then fan the new tally out.
type Processor struct {
	store   store.PollStore
	guard   *guard.Guard
	hub     Broadcaster
	sink    EventSink
	timeout time.Duration
	now     func() time.Time
}

// NewProcessor wires the core path. timeout bounds every individual store
// call; an expired deadline surfaces as StorageError.
func NewProcessor(s store.PollStore, g *guard.Guard, b Broadcaster, timeout time.Duration) *Processor {
	return &Processor{
		store:   s,
		guard:   g,
		hub:     b,
		timeout: timeout,
		now:     time.Now,
	}
}

// UseEventSink attaches an optional sink for admitted votes.
func (p *Processor) UseEventSink(sink EventSink) {
	p.sink = sink
}

// Vote runs the mandatory acceptance order: load, validate index, guard
// check, store write, guard record, broadcast. Recording before the write
// succeeds would permanently block a voter whose vote never counted;
// broadcasting before it succeeds would show phantom updates. Neither
// happens on any failure path.
func (p *Processor) Vote(ctx context.Context, pollID string, optionIndex int, identity string) (models.Tally, error) {
	now := p.now()

	poll, err := p.get(ctx, pollID)
	if err != nil {
		return models.Tally{}, err
	}

	if optionIndex < 0 || optionIndex >= len(poll.Options) {
		slog.Info("vote rejected", "poll_id", pollID, "identity", identity, "reason", "invalid option", "option", optionIndex)
		return models.Tally{}, store.ErrInvalidOption
	}

	if err := p.guard.Check(pollID, identity, now); err != nil {
		slog.Info("vote rejected", "poll_id", pollID, "identity", identity, "reason", err.Error())
		return models.Tally{}, err
	}

	updated, err := p.apply(ctx, pollID, optionIndex)
	if err != nil {
		// The admission never counted; unblock the voter.
		p.guard.Release(pollID, identity)
		return models.Tally{}, err
	}

	p.guard.Record(pollID, identity, now)

	tally := models.TallyOf(updated)
	data, err := json.Marshal(tally)
	if err != nil {
		slog.Error("failed to encode tally", "poll_id", pollID, "error", err)
	} else {
		p.hub.Publish(pollID, data)
	}

	if p.sink != nil {
		event := Event{
			PollID:      pollID,
			OptionIndex: optionIndex,
			TotalVotes:  updated.TotalVotes,
			AcceptedAt:  now,
		}
		if err := p.sink.VoteAccepted(event); err != nil {
			slog.Warn("vote event sink failed", "poll_id", pollID, "error", err)
		}
	}

	slog.Info("vote accepted", "poll_id", pollID, "identity", identity, "option", optionIndex, "total", updated.TotalVotes)
	return tally, nil
}

func (p *Processor) get(ctx context.Context, pollID string) (*models.Poll, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	poll, err := p.store.Get(ctx, pollID)
	if err == store.ErrPollNotFound {
		return nil, err
	}
	if err != nil {
		slog.Error("poll load failed", "poll_id", pollID, "error", err)
		return nil, &StorageError{Err: err}
	}
	return poll, nil
}

func (p *Processor) apply(ctx context.Context, pollID string, optionIndex int) (*models.Poll, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	updated, err := p.store.ApplyVote(ctx, pollID, optionIndex)
	if err == store.ErrPollNotFound || err == store.ErrInvalidOption {
		return nil, err
	}
	if err != nil {
		slog.Error("vote write failed", "poll_id", pollID, "option", optionIndex, "error", err)
		return nil, &StorageError{Err: err}
	}
	return updated, nil
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"sort"
	"sync"

	"github.com/ShaikMuktharBasha/realtime-poll-backend/models"
)

// MemoryStore is a process-local PollStore used by tests and by the "memory"
// backend. Its mutex is the storage-level atomicity primitive here; callers
// still take no lock of their own.
type MemoryStore struct {
	mu    sync.RWMutex
	polls map[string]*models.Poll
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{polls: make(map[string]*models.Poll)}
}

func clonePoll(p *models.Poll) *models.Poll {
	out := *p
	out.Options = make([]models.Option, len(p.Options))
	copy(out.Options, p.Options)
	return &out
}

func (s *MemoryStore) Create(_ context.Context, poll *models.Poll) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.polls[poll.ID]; exists {
		return ErrDuplicateID
	}
	s.polls[poll.ID] = clonePoll(poll)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, pollID string) (*models.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	poll, exists := s.polls[pollID]
	if !exists {
		return nil, ErrPollNotFound
	}
	return clonePoll(poll), nil
}

func (s *MemoryStore) List(_ context.Context) ([]models.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	polls := []models.Poll{}
	for _, p := range s.polls {
		polls = append(polls, *clonePoll(p))
	}
	sort.Slice(polls, func(i, j int) bool {
		if polls[i].CreatedAt.Equal(polls[j].CreatedAt) {
			return polls[i].ID < polls[j].ID
		}
		return polls[i].CreatedAt.Before(polls[j].CreatedAt)
	})
	return polls, nil
}

func (s *MemoryStore) ApplyVote(_ context.Context, pollID string, optionIndex int) (*models.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	poll, exists := s.polls[pollID]
	if !exists {
		return nil, ErrPollNotFound
	}
	if optionIndex < 0 || optionIndex >= len(poll.Options) {
		return nil, ErrInvalidOption
	}

	poll.Options[optionIndex].Votes++
	poll.TotalVotes++
	return clonePoll(poll), nil
}

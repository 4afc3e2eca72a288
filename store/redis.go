// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/ShaikMuktharBasha/realtime-poll-backend/models"
)

const pollIndexKey = "polls"

// RedisStore implements PollStore on Redis. Poll metadata lives in the hash
// poll:{id} (question, labels, created_at, count) and the mutable counts in
// poll:{id}:votes (one field per option index plus "total"). Increments run
// inside MULTI/EXEC so the option count and the total move together.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func pollKey(id string) string  { return "poll:" + id }
func votesKey(id string) string { return "poll:" + id + ":votes" }

func (s *RedisStore) Create(ctx context.Context, poll *models.Poll) error {
	labels := make([]string, len(poll.Options))
	for i, opt := range poll.Options {
		labels[i] = opt.Label
	}
	encoded, err := json.Marshal(labels)
	if err != nil {
		return fmt.Errorf("failed to encode option labels: %w", err)
	}

	// HSetNX on the question field doubles as the uniqueness constraint.
	created, err := s.client.HSetNX(ctx, pollKey(poll.ID), "question", poll.Question).Result()
	if err != nil {
		return fmt.Errorf("failed to reserve poll key: %w", err)
	}
	if !created {
		return ErrDuplicateID
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, pollKey(poll.ID),
		"labels", string(encoded),
		"count", len(poll.Options),
		"created_at", poll.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	pipe.SAdd(ctx, pollIndexKey, poll.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store poll: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, pollID string) (*models.Poll, error) {
	meta, err := s.client.HGetAll(ctx, pollKey(pollID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load poll: %w", err)
	}
	if len(meta) == 0 {
		return nil, ErrPollNotFound
	}

	var labels []string
	if err := json.Unmarshal([]byte(meta["labels"]), &labels); err != nil {
		return nil, fmt.Errorf("failed to decode option labels: %w", err)
	}

	counts, err := s.client.HGetAll(ctx, votesKey(pollID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load vote counts: %w", err)
	}

	poll := &models.Poll{
		ID:       pollID,
		Question: meta["question"],
		Options:  make([]models.Option, len(labels)),
	}
	if raw := meta["created_at"]; raw != "" {
		if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			poll.CreatedAt = ts
		}
	}
	for i, label := range labels {
		votes, _ := strconv.ParseInt(counts[strconv.Itoa(i)], 10, 64)
		poll.Options[i] = models.Option{Label: label, Votes: votes}
	}
	poll.TotalVotes, _ = strconv.ParseInt(counts["total"], 10, 64)

	return poll, nil
}

func (s *RedisStore) List(ctx context.Context) ([]models.Poll, error) {
	ids, err := s.client.SMembers(ctx, pollIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}

	polls := []models.Poll{}
	for _, id := range ids {
		poll, err := s.Get(ctx, id)
		if err == ErrPollNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		polls = append(polls, *poll)
	}
	sort.Slice(polls, func(i, j int) bool {
		if polls[i].CreatedAt.Equal(polls[j].CreatedAt) {
			return polls[i].ID < polls[j].ID
		}
		return polls[i].CreatedAt.Before(polls[j].CreatedAt)
	})
	return polls, nil
}

func (s *RedisStore) ApplyVote(ctx context.Context, pollID string, optionIndex int) (*models.Poll, error) {
	// Option count is immutable after Create, so validating the index before
	// the increment cannot race another writer into an invalid state.
	countStr, err := s.client.HGet(ctx, pollKey(pollID), "count").Result()
	if err == redis.Nil {
		return nil, ErrPollNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load poll: %w", err)
	}
	count, err := strconv.Atoi(countStr)
	if err != nil {
		return nil, fmt.Errorf("corrupt option count for poll %s: %w", pollID, err)
	}
	if optionIndex < 0 || optionIndex >= count {
		return nil, ErrInvalidOption
	}

	pipe := s.client.TxPipeline()
	pipe.HIncrBy(ctx, votesKey(pollID), strconv.Itoa(optionIndex), 1)
	pipe.HIncrBy(ctx, votesKey(pollID), "total", 1)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to increment vote counts: %w", err)
	}

	return s.Get(ctx, pollID)
}

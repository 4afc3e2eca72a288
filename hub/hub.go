// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package hub

import (
	"log/slog"
	"sync"
)

// Subscriber is the capability the transport hands the hub: it can be sent
// a message and it can be closed. The hub never learns what the underlying
// connection is.
type Subscriber interface {
	Send(data []byte) error
	Close() error
}

// Hub maintains one broadcast group per poll and fans tally snapshots out
// to every member. Groups are created lazily on first join and dropped when
// their last member leaves.
type Hub struct {
	mu     sync.Mutex
	groups map[string]map[Subscriber]bool
}

func New() *Hub {
	return &Hub{groups: make(map[string]map[Subscriber]bool)}
}

// Join adds sub to pollID's group. Joining twice is a no-op.
func (h *Hub) Join(pollID string, sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	group, ok := h.groups[pollID]
	if !ok {
		group = make(map[Subscriber]bool)
		h.groups[pollID] = group
	}
	group[sub] = true
}

// Leave removes sub from pollID's group. Safe to call for a subscriber that
// never joined.
func (h *Hub) Leave(pollID string, sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(pollID, sub)
}

// LeaveAll removes sub from every group it belongs to. Called on connection
// teardown.
func (h *Hub) LeaveAll(sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for pollID, group := range h.groups {
		if group[sub] {
			h.removeLocked(pollID, sub)
		}
	}
}

// Publish sends data to every subscriber currently joined to pollID.
// Publishing to a poll with no subscribers is a silent no-op. The group is
// iterated under the hub lock, so a concurrent join/leave can neither drop
// an in-flight publish nor corrupt the iteration, and updates to one poll
// are delivered in publish order. A subscriber whose Send fails is closed
// and evicted from all groups.
func (h *Hub) Publish(pollID string, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var dead []Subscriber
	for sub := range h.groups[pollID] {
		if err := sub.Send(data); err != nil {
			slog.Warn("dropping subscriber", "poll_id", pollID, "error", err)
			dead = append(dead, sub)
		}
	}
	for _, sub := range dead {
		sub.Close()
		for id, group := range h.groups {
			if group[sub] {
				h.removeLocked(id, sub)
			}
		}
	}
}

// Subscribers reports the current size of pollID's group.
func (h *Hub) Subscribers(pollID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.groups[pollID])
}

func (h *Hub) removeLocked(pollID string, sub Subscriber) {
	group, ok := h.groups[pollID]
	if !ok {
		return
	}
	delete(group, sub)
	if len(group) == 0 {
		delete(h.groups, pollID)
	}
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package hub

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

// recorder is an in-memory Subscriber for tests.
type recorder struct {
	mu     sync.Mutex
	msgs   [][]byte
	closed bool
	fail   bool
}

func (r *recorder) Send(data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("send failed")
	}
	r.msgs = append(r.msgs, data)
	return nil
}

func (r *recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *recorder) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.msgs))
	for i, m := range r.msgs {
		out[i] = string(m)
	}
	return out
}

func TestPublishReachesJoinedSubscribers(t *testing.T) {
	h := New()
	a, b := &recorder{}, &recorder{}

	h.Join("p1", a)
	h.Join("p1", b)
	h.Publish("p1", []byte("tally"))

	for name, sub := range map[string]*recorder{"a": a, "b": b} {
		if got := sub.messages(); len(got) != 1 || got[0] != "tally" {
			t.Errorf("Subscriber %s: expected one %q message, got %v", name, "tally", got)
		}
	}
}

func TestPublishIsScopedToPoll(t *testing.T) {
	h := New()
	a, b := &recorder{}, &recorder{}

	h.Join("p1", a)
	h.Join("p2", b)
	h.Publish("p1", []byte("update"))

	if len(a.messages()) != 1 {
		t.Errorf("p1 subscriber should receive the update, got %v", a.messages())
	}
	if len(b.messages()) != 0 {
		t.Errorf("p2 subscriber should receive nothing, got %v", b.messages())
	}
}

func TestLeaveStopsDelivery(t *testing.T) {
	h := New()
	a := &recorder{}

	h.Join("p1", a)
	h.Leave("p1", a)
	h.Publish("p1", []byte("update"))

	if len(a.messages()) != 0 {
		t.Errorf("Subscriber that left should receive nothing, got %v", a.messages())
	}
	if h.Subscribers("p1") != 0 {
		t.Errorf("Empty group should be dropped, got %d members", h.Subscribers("p1"))
	}
}

func TestLeaveIsIdempotent(t *testing.T) {
	h := New()
	a := &recorder{}

	// Never joined, then double leave
	h.Leave("p1", a)
	h.Join("p1", a)
	h.Leave("p1", a)
	h.Leave("p1", a)
}

func TestPublishWithNoSubscribersIsNoop(t *testing.T) {
	h := New()
	h.Publish("ghost", []byte("update"))
}

func TestLeaveAll(t *testing.T) {
	h := New()
	a, b := &recorder{}, &recorder{}

	h.Join("p1", a)
	h.Join("p2", a)
	h.Join("p2", b)
	h.LeaveAll(a)

	h.Publish("p1", []byte("u1"))
	h.Publish("p2", []byte("u2"))

	if len(a.messages()) != 0 {
		t.Errorf("LeaveAll subscriber should receive nothing, got %v", a.messages())
	}
	if got := b.messages(); len(got) != 1 || got[0] != "u2" {
		t.Errorf("Remaining subscriber should still receive p2 updates, got %v", got)
	}
}

func TestFailedSendEvictsSubscriber(t *testing.T) {
	h := New()
	broken := &recorder{fail: true}
	healthy := &recorder{}

	h.Join("p1", broken)
	h.Join("p1", healthy)
	h.Join("p2", broken)

	h.Publish("p1", []byte("update"))

	if !broken.closed {
		t.Error("Failed subscriber should be closed")
	}
	if h.Subscribers("p1") != 1 {
		t.Errorf("Expected 1 remaining p1 subscriber, got %d", h.Subscribers("p1"))
	}
	if h.Subscribers("p2") != 0 {
		t.Errorf("Failed subscriber should be evicted from all groups, got %d", h.Subscribers("p2"))
	}
	if len(healthy.messages()) != 1 {
		t.Errorf("Healthy subscriber should still get the update, got %v", healthy.messages())
	}
}

func TestPublishOrderPreservedPerPoll(t *testing.T) {
	h := New()
	a := &recorder{}
	h.Join("p1", a)

	for i := 0; i < 50; i++ {
		h.Publish("p1", []byte(fmt.Sprintf("update-%d", i)))
	}

	got := a.messages()
	if len(got) != 50 {
		t.Fatalf("Expected 50 updates, got %d", len(got))
	}
	for i, msg := range got {
		if msg != fmt.Sprintf("update-%d", i) {
			t.Fatalf("Update %d out of order: %s", i, msg)
		}
	}
}

// TestConcurrentMembershipAndPublish exercises joins, leaves and publishes
// racing each other; the run is checked by the race detector.
func TestConcurrentMembershipAndPublish(t *testing.T) {
	h := New()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		sub := &recorder{}
		wg.Add(2)
		go func() {
			defer wg.Done()
			h.Join("p1", sub)
			h.Join("p2", sub)
			h.LeaveAll(sub)
		}()
		go func() {
			defer wg.Done()
			h.Publish("p1", []byte("update"))
			h.Publish("p2", []byte("update"))
		}()
	}
	wg.Wait()
}

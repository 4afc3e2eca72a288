// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ShaikMuktharBasha/realtime-poll-backend/cliparse"
	"github.com/ShaikMuktharBasha/realtime-poll-backend/db"
	"github.com/ShaikMuktharBasha/realtime-poll-backend/models"
)

// SetupTestDB creates a fresh in-memory SQLite database with the full
// schema. A single pooled connection keeps every statement on the same
// in-memory database.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          8080,
		StoreBackend:  cliparse.BackendMemory,
		GuardMode:     "window",
		RateWindow:    60 * time.Second,
		SweepInterval: 5 * time.Minute,
		StoreTimeout:  5 * time.Second,
		IdentitySalt:  "test-identity-salt",
		TrustProxy:    true,
	}
}

// NewTestPoll builds an unstored poll with the given options.
func NewTestPoll(id, question string, labels ...string) *models.Poll {
	poll := &models.Poll{
		ID:        id,
		Question:  question,
		Options:   make([]models.Option, len(labels)),
		CreatedAt: time.Now().UTC(),
	}
	for i, label := range labels {
		poll.Options[i] = models.Option{Label: label}
	}
	return poll
}

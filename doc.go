// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the realtime poll API server.

Clients create multiple-choice polls, vote on them, and watch the tally move
live over a websocket channel. Duplicate votes and vote floods from one
address are rejected by a configurable guard.

# Starting the Server

The server reads environment variables (a local .env is honored) or CLI
flags:

	IDENTITY_SALT=... DATABASE_URL=polls.db go run main.go

Or with flags:

	go run main.go -p 8080 -s sqlite -d polls.db -identity-salt dev

# Configuration

Required settings:

  - IDENTITY_SALT (-identity-salt): secret for voter identity hashing

Storage (default: sqlite):

  - STORE_BACKEND (-s): postgres, sqlite, redis or memory
  - DATABASE_URL (-d): SQL connection string / sqlite path
  - REDIS_URL (-r): redis address

Anti-abuse policy (default: window, 60s):

  - GUARD_MODE (-g): oneshot or window
  - RATE_WINDOW_SECONDS (-w): window length

Optional:

  - PORT (-p): server port (default: 8080)
  - RABBITMQ_URL / RABBITMQ_QUEUE: mirror admitted votes onto a queue

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (polls, voting, websocket subscribe)
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: request/response types
  - store: poll state (PostgreSQL, SQLite, Redis or in-memory)
  - guard: duplicate-vote prevention and rate limiting
  - hub: per-poll broadcast groups for live tallies
  - vote: the acceptance pipeline tying guard, store and hub together
  - feed: optional RabbitMQ vote event publisher
  - identity: voter identity from the request's network origin
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration from CLI flags and environment
variables. Flags win; environment variables fill the gaps; hard defaults
come last.

# Settings

  - PORT (-p): server port (default: 8080)
  - STORE_BACKEND (-s): postgres, sqlite, redis or memory (default: sqlite)
  - DATABASE_URL (-d): connection string, required for the SQL backends
  - REDIS_URL (-r): redis address (default: localhost:6379)
  - RABBITMQ_URL: enables the vote event feed when set
  - RABBITMQ_QUEUE: feed queue name (default: votes)
  - GUARD_MODE (-g): oneshot or window (default: window)
  - RATE_WINDOW_SECONDS (-w): window length (default: 60)
  - SWEEP_INTERVAL_SECONDS (-sweep): guard GC interval (default: 300)
  - STORE_TIMEOUT_SECONDS (-store-timeout): per-call store timeout (default: 5)
  - IDENTITY_SALT (-identity-salt): REQUIRED, salts the voter identity hash
  - TRUST_PROXY_HEADERS: "false" stops honoring X-Forwarded-For/X-Real-IP
*/
package cliparse

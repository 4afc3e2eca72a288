// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store provides durable poll state behind the PollStore interface.

# Backends

  - SQLStore: database/sql, runs unchanged on PostgreSQL (lib/pq) and
    SQLite (modernc.org/sqlite)
  - RedisStore: go-redis, counts in a hash updated via HINCRBY in MULTI/EXEC
  - MemoryStore: in-process map, used by tests and the "memory" backend

# Atomicity

ApplyVote is the only mutation of an existing poll. Every backend applies it
as a storage-level increment of the option count and the running total, so
two concurrent votes on the same poll are both reflected and

	total_votes == sum(option votes)

holds at all times. Callers never hold an application-level lock around
store calls.

# Errors

	ErrPollNotFound  - poll absent
	ErrInvalidOption - index outside [0, optionCount), nothing mutated
	ErrDuplicateID   - Create with an ID already taken

Anything else is a wrapped driver error and is treated upstream as a
transient storage failure.
*/
package store

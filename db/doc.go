// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation for the SQL store backends.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - poll: question, running total, creation time
  - option: one row per (poll_id, idx) with label and vote count

# Relationships

	poll 1──* option

The option table's composite primary key (poll_id, idx) is what makes the
option index a stable identifier for the poll's lifetime. Foreign keys use
ON DELETE CASCADE.
*/
package db

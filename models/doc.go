// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreatePollRequest: question, options ([]string, length >= 2)
  - VoteRequest: option (zero-based index)
  - SubscribeRequest: action ("join"/"leave"), poll_id

# Response Types

  - CreatePollResponse: poll
  - PollListResponse: polls
  - Tally: poll_id, options, total_votes (vote responses and live updates)
  - ErrorResponse: error, message, retry_after

# Domain Types

  - Poll: question, ordered options, running total
  - Option: label and vote count, identified by its index

The invariant total_votes == sum(option votes) holds for every Poll the
store hands out; TallyOf copies it into the wire snapshot.
*/
package models

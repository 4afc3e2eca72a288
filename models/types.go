package models

import "time"

// Request types

type CreatePollRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type VoteRequest struct {
	Option int `json:"option"`
}

// SubscribeRequest is the message a websocket client sends to join or
// leave a poll's live tally channel.
type SubscribeRequest struct {
	Action string `json:"action"` // "join" or "leave"
	PollID string `json:"poll_id"`
}

// Response types

type CreatePollResponse struct {
	Poll Poll `json:"poll"`
}

type PollListResponse struct {
	Polls []Poll `json:"polls"`
}

// Domain types

type Poll struct {
	ID         string    `json:"id"`
	Question   string    `json:"question"`
	Options    []Option  `json:"options"`
	TotalVotes int64     `json:"total_votes"`
	CreatedAt  time.Time `json:"created_at"`
}

// Option is a selectable answer. Its position in the poll's option slice is
// its stable identifier for the poll's lifetime.
type Option struct {
	Label string `json:"label"`
	Votes int64  `json:"votes"`
}

// Tally is the snapshot returned from the vote endpoint and pushed to every
// subscriber after an admitted vote.
type Tally struct {
	PollID     string   `json:"poll_id"`
	Options    []Option `json:"options"`
	TotalVotes int64    `json:"total_votes"`
}

// TallyOf builds the broadcastable snapshot for a poll.
func TallyOf(p *Poll) Tally {
	options := make([]Option, len(p.Options))
	copy(options, p.Options)
	return Tally{PollID: p.ID, Options: options, TotalVotes: p.TotalVotes}
}

// Error response

type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message,omitempty"`
	RetryAfter int64  `json:"retry_after,omitempty"` // seconds, rate-limit rejections only
}

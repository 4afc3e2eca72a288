// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ShaikMuktharBasha/realtime-poll-backend/cliparse"
	"github.com/ShaikMuktharBasha/realtime-poll-backend/guard"
	"github.com/ShaikMuktharBasha/realtime-poll-backend/identity"
	"github.com/ShaikMuktharBasha/realtime-poll-backend/middleware"
	"github.com/ShaikMuktharBasha/realtime-poll-backend/models"
	"github.com/ShaikMuktharBasha/realtime-poll-backend/store"
	"github.com/ShaikMuktharBasha/realtime-poll-backend/vote"
)

type VotingHandler struct {
	processor *vote.Processor
	cfg       cliparse.Config
}

func NewVotingHandler(p *vote.Processor, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{processor: p, cfg: cfg}
}

// Vote handles POST /polls/:id/vote
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	voterID := identity.FromRequest(r, h.cfg.IdentitySalt, h.cfg.TrustProxy)

	tally, err := h.processor.Vote(r.Context(), pollID, req.Option, voterID)
	if err != nil {
		var rateLimited *guard.RateLimitedError
		var storageErr *vote.StorageError
		switch {
		case errors.Is(err, store.ErrPollNotFound):
			middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		case errors.Is(err, store.ErrInvalidOption):
			middleware.ErrorResponse(w, http.StatusBadRequest, "option index out of range")
		case errors.Is(err, guard.ErrAlreadyVoted):
			middleware.ErrorResponse(w, http.StatusForbidden, "You have already voted on this poll")
		case errors.As(err, &rateLimited):
			middleware.RateLimitResponse(w, "Too many votes from your address", rateLimited.RetryAfter)
		case errors.As(err, &storageErr):
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		default:
			slog.Error("unexpected vote failure", "poll_id", pollID, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		}
		return
	}

	middleware.JSONResponse(w, http.StatusOK, tally)
}

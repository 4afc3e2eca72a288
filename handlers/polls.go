// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ShaikMuktharBasha/realtime-poll-backend/cliparse"
	"github.com/ShaikMuktharBasha/realtime-poll-backend/middleware"
	"github.com/ShaikMuktharBasha/realtime-poll-backend/models"
	"github.com/ShaikMuktharBasha/realtime-poll-backend/store"
)

type PollHandler struct {
	store store.PollStore
	cfg   cliparse.Config
}

func NewPollHandler(s store.PollStore, cfg cliparse.Config) *PollHandler {
	return &PollHandler{store: s, cfg: cfg}
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	if strings.TrimSpace(req.Question) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question is required")
		return
	}
	if len(req.Options) < 2 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "at least 2 options are required")
		return
	}
	for _, label := range req.Options {
		if strings.TrimSpace(label) == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "option labels must not be empty")
			return
		}
	}

	poll := models.Poll{
		ID:        uuid.NewString(),
		Question:  req.Question,
		Options:   make([]models.Option, len(req.Options)),
		CreatedAt: time.Now().UTC(),
	}
	for i, label := range req.Options {
		poll.Options[i] = models.Option{Label: label}
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.StoreTimeout)
	defer cancel()

	if err := h.store.Create(ctx, &poll); err != nil {
		// Includes the uniqueness constraint firing on an ID collision,
		// which with 128-bit random IDs is not worth a retry path.
		slog.Error("failed to create poll", "poll_id", poll.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	slog.Info("poll created", "poll_id", poll.ID, "options", len(poll.Options))

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{Poll: poll})
}

// GetPoll handles GET /polls/:id
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.StoreTimeout)
	defer cancel()

	poll, err := h.store.Get(ctx, pollID)
	if err == store.ErrPollNotFound {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to load poll", "poll_id", pollID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// ListPolls handles GET /polls
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.StoreTimeout)
	defer cancel()

	polls, err := h.store.List(ctx)
	if err != nil {
		slog.Error("failed to list polls", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PollListResponse{Polls: polls})
}

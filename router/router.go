// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/ShaikMuktharBasha/realtime-poll-backend/cliparse"
	"github.com/ShaikMuktharBasha/realtime-poll-backend/handlers"
	"github.com/ShaikMuktharBasha/realtime-poll-backend/hub"
	"github.com/ShaikMuktharBasha/realtime-poll-backend/middleware"
	"github.com/ShaikMuktharBasha/realtime-poll-backend/store"
	"github.com/ShaikMuktharBasha/realtime-poll-backend/vote"
)

func NewRouter(s store.PollStore, p *vote.Processor, h *hub.Hub, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(s, cfg)
	votingHandler := handlers.NewVotingHandler(p, cfg)
	wsHandler := handlers.NewWSHandler(h, s, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Poll management
	mux.HandleFunc("POST /polls", middleware.WithLogging(pollHandler.CreatePoll))
	mux.HandleFunc("GET /polls", middleware.WithLogging(pollHandler.ListPolls))
	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(pollHandler.GetPoll))

	// Voting
	mux.HandleFunc("POST /polls/{id}/vote", middleware.WithLogging(votingHandler.Vote))

	// Realtime tally channel (long-lived, not wrapped in request logging)
	mux.HandleFunc("GET /ws", wsHandler.Subscribe)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("realtime-poll-backend API v1"))
	})

	return middleware.CORS(mux)
}

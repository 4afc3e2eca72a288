// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ShaikMuktharBasha/realtime-poll-backend/cliparse"
	"github.com/ShaikMuktharBasha/realtime-poll-backend/hub"
	"github.com/ShaikMuktharBasha/realtime-poll-backend/models"
	"github.com/ShaikMuktharBasha/realtime-poll-backend/store"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler upgrades connections and relays join/leave requests to the hub.
type WSHandler struct {
	hub   *hub.Hub
	store store.PollStore
	cfg   cliparse.Config
}

func NewWSHandler(h *hub.Hub, s store.PollStore, cfg cliparse.Config) *WSHandler {
	return &WSHandler{hub: h, store: s, cfg: cfg}
}

// Subscribe handles GET /ws. The client sends SubscribeRequest messages to
// join or leave poll channels; every joined poll's tally updates arrive as
// they happen. Closing the connection leaves all channels.
func (h *WSHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	client := hub.NewWebsocketClient(conn)
	defer func() {
		h.hub.LeaveAll(client)
		client.Close()
	}()

	for {
		var req models.SubscribeRequest
		if err := conn.ReadJSON(&req); err != nil {
			return
		}

		switch req.Action {
		case "join":
			h.join(r.Context(), client, req.PollID)
		case "leave":
			h.hub.Leave(req.PollID, client)
		default:
			h.sendError(client, "unknown action: "+req.Action)
		}
	}
}

func (h *WSHandler) join(ctx context.Context, client hub.Subscriber, pollID string) {
	ctx, cancel := context.WithTimeout(ctx, h.cfg.StoreTimeout)
	defer cancel()

	poll, err := h.store.Get(ctx, pollID)
	if err == store.ErrPollNotFound {
		h.sendError(client, "poll not found: "+pollID)
		return
	}
	if err != nil {
		slog.Error("failed to load poll for subscriber", "poll_id", pollID, "error", err)
		h.sendError(client, "storage error")
		return
	}

	h.hub.Join(pollID, client)

	// Initial snapshot so the client doesn't wait for the next vote
	if data, err := json.Marshal(models.TallyOf(poll)); err == nil {
		if err := client.Send(data); err != nil {
			h.hub.LeaveAll(client)
		}
	}
}

func (h *WSHandler) sendError(client hub.Subscriber, message string) {
	data, err := json.Marshal(models.ErrorResponse{Error: "subscribe failed", Message: message})
	if err != nil {
		return
	}
	client.Send(data)
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package hub

import (
	"sync"

	"github.com/gorilla/websocket"
)

// websocketClient adapts a gorilla/websocket connection to the Subscriber
// interface. Gorilla connections allow only one concurrent writer, so Send
// serializes writes behind its own mutex.
type websocketClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// NewWebsocketClient wraps conn as a hub Subscriber.
func NewWebsocketClient(conn *websocket.Conn) Subscriber {
	return &websocketClient{conn: conn}
}

func (c *websocketClient) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *websocketClient) Close() error {
	return c.conn.Close()
}

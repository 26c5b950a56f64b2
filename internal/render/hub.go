// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package render

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/view360/internal/view"
)

// Command is a UI message sent by a browser over the websocket.
type Command struct {
	Action string  `json:"action"` // strategy, viewport, reset_reference
	Index  int     `json:"index,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// CommandHandler applies UI commands.
type CommandHandler interface {
	HandleCommand(Command) error
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub broadcasts frames as JSON to every connected websocket client and
// forwards their commands to a handler. Slow clients drop frames.
type Hub struct {
	handler  CommandHandler
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*wsClient]struct{}
	last    []byte
}

const clientBuffer = 8

func NewHub(handler CommandHandler) *Hub {
	return &Hub{
		handler: handler,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for local development
			},
		},
		clients: make(map[*wsClient]struct{}),
	}
}

// Render implements view.Sink.
func (h *Hub) Render(f view.Frame) error {
	payload, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("hub: marshal frame: %w", err)
	}

	h.mu.Lock()
	h.last = payload
	h.mu.Unlock()

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			// client is behind; it will catch up on the next frame
		}
	}
	return nil
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the connection and serves one client until it leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("hub: websocket upgrade error: %v", err)
		return
	}

	c := &wsClient{conn: conn, send: make(chan []byte, clientBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	last := h.last
	h.mu.Unlock()
	if last != nil {
		c.send <- last
	}
	log.Printf("hub: client connected from %s", r.RemoteAddr)

	go h.writeLoop(c)
	h.readLoop(c)

	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	close(c.send)
	log.Printf("hub: client %s disconnected", r.RemoteAddr)
}

func (h *Hub) writeLoop(c *wsClient) {
	defer c.conn.Close()
	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("hub: write error: %v", err)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *Hub) readLoop(c *wsClient) {
	for {
		var cmd Command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("hub: read error: %v", err)
			}
			return
		}
		if h.handler == nil {
			continue
		}
		if err := h.handler.HandleCommand(cmd); err != nil {
			log.Printf("hub: command %q rejected: %v", cmd.Action, err)
		}
	}
}

// ViewCommands applies hub commands to a view.
type ViewCommands struct {
	View *view.View
}

func (vc ViewCommands) HandleCommand(cmd Command) error {
	switch cmd.Action {
	case "strategy":
		return vc.View.SelectStrategy(cmd.Index)
	case "viewport":
		if cmd.Width <= 0 || cmd.Height <= 0 {
			return fmt.Errorf("invalid viewport %vx%v", cmd.Width, cmd.Height)
		}
		return vc.View.SetViewport(projectionSize(cmd.Width, cmd.Height))
	case "reset_reference":
		return vc.View.ResetReference()
	default:
		return fmt.Errorf("unknown action %q", cmd.Action)
	}
}

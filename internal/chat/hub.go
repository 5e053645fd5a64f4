// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"designcamp/internal/models"
)

// Frame types sent to websocket clients.
const (
	FrameHistory = "history"
	FrameMessage = "message"
)

type historyFrame struct {
	Type     string               `json:"type"`
	Messages []models.ChatMessage `json:"messages"`
}

type messageFrame struct {
	Type    string             `json:"type"`
	Message models.ChatMessage `json:"message"`
}

// Hub owns the set of connected clients and the shared timeline. A single
// goroutine (Run) registers, unregisters and broadcasts, so the timeline
// order every client sees is the same.
type Hub struct {
	clients    map[*Client]bool
	timeline   *Timeline
	publish    chan models.ChatMessage
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

// NewHub creates a hub backed by timeline.
func NewHub(timeline *Timeline) *Hub {
	if timeline == nil {
		timeline = NewTimeline(HistoryLimit)
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		timeline:   timeline,
		publish:    make(chan models.ChatMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client, 64),
		done:       make(chan struct{}),
	}
}

// Timeline returns the hub's backlog.
func (h *Hub) Timeline() *Timeline { return h.timeline }

// Run processes hub events until ctx is cancelled, then disconnects every
// client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			// The backlog is queued before the client joins so it always
			// precedes live messages.
			data, err := json.Marshal(historyFrame{Type: FrameHistory, Messages: h.timeline.Snapshot()})
			if err != nil {
				slog.Error("chat: encode history", "error", err)
				close(c.send)
				continue
			}
			c.send <- data
			h.mu.Lock()
			h.clients[c] = true
			total := len(h.clients)
			h.mu.Unlock()
			slog.Debug("chat client connected", "clients", total)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			slog.Debug("chat client disconnected", "clients", total)

		case m := <-h.publish:
			if !h.timeline.Add(m) {
				continue
			}
			data, err := json.Marshal(messageFrame{Type: FrameMessage, Message: m})
			if err != nil {
				slog.Error("chat: encode message", "error", err)
				continue
			}
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- data:
				default:
					// Slow client: drop it rather than block everyone else.
					delete(h.clients, c)
					close(c.send)
					slog.Warn("chat client dropped, send buffer full")
				}
			}
			h.mu.Unlock()
		}
	}
}

// Register adds a client. It receives the history frame first. It
// reports false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	if h == nil {
		return false
	}
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	if h == nil {
		return
	}
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish queues a message for every client. Messages already in the
// timeline are dropped by Run.
func (h *Hub) Publish(m models.ChatMessage) {
	if h == nil {
		return
	}
	select {
	case h.publish <- m:
	default:
		slog.Warn("chat publish dropped, hub buffer full", "message_id", m.ID)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

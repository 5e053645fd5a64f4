package chat

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"designcamp/internal/models"
)

// Timeline is the ordered, de-duplicated window of recent messages that
// new websocket clients receive as their backlog.
type Timeline struct {
	mu    sync.Mutex
	items []models.ChatMessage
	ids   map[uuid.UUID]struct{}
	limit int
}

// NewTimeline creates a timeline that keeps at most limit messages.
func NewTimeline(limit int) *Timeline {
	if limit <= 0 {
		limit = HistoryLimit
	}
	return &Timeline{ids: map[uuid.UUID]struct{}{}, limit: limit}
}

// Reset replaces the contents with msgs.
func (t *Timeline) Reset(msgs []models.ChatMessage) {
	t.mu.Lock()
	t.items = nil
	t.ids = map[uuid.UUID]struct{}{}
	t.mu.Unlock()
	for _, m := range msgs {
		t.Add(m)
	}
}

// Add places m in created_at order. A message already present is ignored.
// It reports whether m is in the timeline afterwards as a new entry.
func (t *Timeline) Add(m models.ChatMessage) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, dup := t.ids[m.ID]; dup {
		return false
	}

	n := len(t.items)
	if n == 0 || !m.CreatedAt.Before(t.items[n-1].CreatedAt) {
		t.items = append(t.items, m)
	} else {
		i := sort.Search(n, func(i int) bool { return t.items[i].CreatedAt.After(m.CreatedAt) })
		if n >= t.limit && i == 0 {
			// Older than everything in a full window.
			return false
		}
		t.items = append(t.items, models.ChatMessage{})
		copy(t.items[i+1:], t.items[i:])
		t.items[i] = m
	}
	t.ids[m.ID] = struct{}{}

	for len(t.items) > t.limit {
		delete(t.ids, t.items[0].ID)
		t.items = t.items[1:]
	}
	return true
}

// Snapshot returns a copy of the messages, oldest first.
func (t *Timeline) Snapshot() []models.ChatMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]models.ChatMessage{}, t.items...)
}

// Last returns the newest message.
func (t *Timeline) Last() (models.ChatMessage, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.items) == 0 {
		return models.ChatMessage{}, false
	}
	return t.items[len(t.items)-1], true
}

// Len returns the number of messages held.
func (t *Timeline) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.items)
}

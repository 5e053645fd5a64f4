package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"designcamp/internal/models"
)

// Channel is the Postgres NOTIFY channel fed by the chat_messages trigger.
const Channel = "chat_messages"

const (
	minBackoff = time.Second
	maxBackoff = 30 * time.Second
)

// notifyConn is the slice of *pgx.Conn the listener uses.
type notifyConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	WaitForNotification(ctx context.Context) (*pgconn.Notification, error)
	Close(ctx context.Context) error
}

// notification is the trigger payload.
type notification struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// Listener relays chat inserts from Postgres to the hub. It holds its own
// connection outside the database/sql pool.
type Listener struct {
	dsn     string
	store   Store
	deliver func(models.ChatMessage)
	connect func(ctx context.Context, dsn string) (notifyConn, error)

	minBackoff time.Duration
	maxBackoff time.Duration

	since time.Time
}

// NewListener creates a listener that hands each new message to deliver.
func NewListener(dsn string, store Store, deliver func(models.ChatMessage)) *Listener {
	return &Listener{
		dsn:     dsn,
		store:   store,
		deliver: deliver,
		connect: func(ctx context.Context, dsn string) (notifyConn, error) {
			return pgx.Connect(ctx, dsn)
		},
		minBackoff: minBackoff,
		maxBackoff: maxBackoff,
	}
}

// ResumeFrom sets the created_at of the newest message already delivered,
// so the first connection replays anything from that instant on.
func (l *Listener) ResumeFrom(t time.Time) {
	l.since = t
}

// Run listens until ctx is cancelled, reconnecting with exponential
// backoff. After each reconnect it replays messages stamped at or after
// the last one delivered. The receiver drops repeats by id.
func (l *Listener) Run(ctx context.Context) {
	backoff := l.minBackoff
	for {
		err := l.session(ctx, func() { backoff = l.minBackoff })
		if ctx.Err() != nil {
			slog.Info("chat listener stopped")
			return
		}
		slog.Warn("chat listener disconnected", "error", err, "retry_in", backoff)

		select {
		case <-ctx.Done():
			slog.Info("chat listener stopped")
			return
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, l.maxBackoff)
	}
}

// session runs one connection until it fails. connected is called once
// LISTEN succeeds.
func (l *Listener) session(ctx context.Context, connected func()) error {
	conn, err := l.connect(ctx, l.dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = conn.Close(cctx)
	}()

	if _, err := conn.Exec(ctx, "LISTEN "+Channel); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	connected()
	slog.Info("chat listener connected", "channel", Channel)

	if !l.since.IsZero() {
		if err := l.replay(ctx); err != nil {
			return err
		}
	}

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait: %w", err)
		}
		l.handle(ctx, n.Payload)
	}
}

// replay delivers messages stored while the listener was away.
func (l *Listener) replay(ctx context.Context) error {
	missed, err := l.store.After(ctx, l.since, HistoryLimit)
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	for _, m := range missed {
		l.emit(m)
	}
	if len(missed) > 0 {
		slog.Info("chat listener replayed messages", "count", len(missed))
	}
	return nil
}

// handle resolves the author name for one notification and delivers it.
func (l *Listener) handle(ctx context.Context, payload string) {
	var n notification
	if err := json.Unmarshal([]byte(payload), &n); err != nil || n.ID == uuid.Nil {
		slog.Warn("chat listener: bad payload", "payload", payload, "error", err)
		return
	}
	m, err := l.store.FindByID(ctx, n.ID)
	if err != nil {
		slog.Error("chat listener: lookup failed", "message_id", n.ID, "error", err)
		return
	}
	if m == nil {
		return
	}
	l.emit(*m)
}

func (l *Listener) emit(m models.ChatMessage) {
	if m.CreatedAt.After(l.since) {
		l.since = m.CreatedAt
	}
	l.deliver(m)
}

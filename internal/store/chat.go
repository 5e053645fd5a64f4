// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"designcamp/internal/models"
)

// ChatStore handles chat message persistence. Messages are append-only.
type ChatStore struct {
	db *sql.DB
}

// NewChatStore creates a new ChatStore.
func NewChatStore(db *sql.DB) *ChatStore {
	return &ChatStore{db: db}
}

const chatColumns = `m.id, m.user_id, m.message, m.created_at, COALESCE(p.name, '')`

const chatFrom = ` FROM chat_messages m LEFT JOIN profiles p ON p.user_id = m.user_id`

func scanChatMessage(row scanner) (*models.ChatMessage, error) {
	m := &models.ChatMessage{}
	if err := row.Scan(&m.ID, &m.UserID, &m.Message, &m.CreatedAt, &m.UserName); err != nil {
		return nil, err
	}
	if m.UserName == "" {
		m.UserName = models.DefaultDisplayName
	}
	return m, nil
}

// Insert appends a message and returns the stored row with its author name.
func (s *ChatStore) Insert(ctx context.Context, userID uuid.UUID, message string) (*models.ChatMessage, error) {
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO chat_messages (user_id, message) VALUES ($1, $2) RETURNING id
	`, userID, message).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert chat message: %w", err)
	}
	return s.FindByID(ctx, id)
}

// FindByID returns one message. Returns nil if not found.
func (s *ChatStore) FindByID(ctx context.Context, id uuid.UUID) (*models.ChatMessage, error) {
	m, err := scanChatMessage(s.db.QueryRowContext(ctx,
		`SELECT `+chatColumns+chatFrom+` WHERE m.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find chat message: %w", err)
	}
	return m, nil
}

// Recent returns the newest limit messages in ascending time order.
func (s *ChatStore) Recent(ctx context.Context, limit int) ([]models.ChatMessage, error) {
	return s.list(ctx, "recent chat messages", `
		SELECT * FROM (
			SELECT `+chatColumns+chatFrom+`
			ORDER BY m.created_at DESC, m.id DESC
			LIMIT $1
		) recent
		ORDER BY created_at ASC, id ASC`, limit)
}

// After returns up to limit messages created at or after since, ascending.
// The listener uses it to replay what it missed while reconnecting. The
// bound is inclusive so rows sharing the cursor's timestamp are not lost;
// callers drop the repeats by id.
func (s *ChatStore) After(ctx context.Context, since time.Time, limit int) ([]models.ChatMessage, error) {
	return s.list(ctx, "chat messages after", `
		SELECT `+chatColumns+chatFrom+`
		WHERE m.created_at >= $1
		ORDER BY m.created_at ASC, m.id ASC
		LIMIT $2`, since, limit)
}

func (s *ChatStore) list(ctx context.Context, op, query string, args ...any) ([]models.ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := []models.ChatMessage{}
	for rows.Next() {
		m, err := scanChatMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

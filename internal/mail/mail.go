// Package mail sends transactional email. Bodies are written in Markdown
// and rendered to HTML with goldmark; the Markdown source doubles as the
// plain-text part.
package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"sync"

	"designcamp/internal/markdown"
)

// ErrNoRecipient is returned for a message without a valid To address.
var ErrNoRecipient = errors.New("mail: no recipient")

// Message is one outgoing email.
type Message struct {
	To       string
	ToName   string
	Subject  string
	Markdown string
}

// Rendered holds both bodies of a message.
type Rendered struct {
	Text string
	HTML string
}

// Render validates the recipient and renders the Markdown body.
func (m Message) Render() (Rendered, error) {
	if _, err := mail.ParseAddress(m.To); err != nil {
		return Rendered{}, fmt.Errorf("%w: %q", ErrNoRecipient, m.To)
	}
	html, err := markdown.ToHTML(m.Markdown)
	if err != nil {
		return Rendered{}, fmt.Errorf("mail render: %w", err)
	}
	return Rendered{Text: strings.TrimSpace(m.Markdown), HTML: html}, nil
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes messages to the log instead of sending them. It keeps
// the messages it has seen so tests and local runs can inspect them.
type LogMailer struct {
	mu   sync.Mutex
	sent []Message
}

// NewLogMailer creates a mailer for development.
func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

// Send logs the rendered message.
func (l *LogMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r, err := msg.Render()
	if err != nil {
		return err
	}
	slog.Info("mail (log only)", "to", msg.To, "subject", msg.Subject, "bytes", len(r.HTML))

	l.mu.Lock()
	l.sent = append(l.sent, msg)
	l.mu.Unlock()
	return nil
}

// Sent returns a copy of every message sent so far.
func (l *LogMailer) Sent() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Message(nil), l.sent...)
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package generator turns LLM replies into Design Camp challenges and
// portfolio project briefs. Each generator templates a prompt, calls the
// active provider, extracts the JSON payload from the reply and attaches
// identifiers and timestamps.
package generator

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"designcamp/internal/ai"
)

// Errors surfaced to HTTP handlers. The messages are shown to users.
var (
	ErrRateLimited       = errors.New("Rate limit exceeded. Please try again later.")
	ErrCreditsExhausted  = errors.New("AI credits depleted. Please add credits to continue.")
	ErrMalformedResponse = errors.New("Failed to parse AI response as JSON")
)

// Completer is the slice of *ai.Registry the generators depend on.
type Completer interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// fencePattern matches the first fenced block, with or without a json tag.
var fencePattern = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")

// ExtractJSON returns the contents of the first fenced code block in s, or
// the trimmed reply when it has no fence.
func ExtractJSON(s string) string {
	if m := fencePattern.FindStringSubmatch(s); m != nil {
		if inner := strings.TrimSpace(m[1]); inner != "" {
			return inner
		}
	}
	return strings.TrimSpace(s)
}

// classify maps upstream failures onto the package errors. Anything that
// is not a 429 or 402 is wrapped and returned as is.
func classify(op string, err error) error {
	var apiErr *ai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.IsRateLimited():
			return ErrRateLimited
		case apiErr.IsPaymentRequired():
			return ErrCreditsExhausted
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// utcToday returns midnight UTC of the calendar date of now.
func utcToday(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// orDefault returns s trimmed, or def when s is blank.
func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoProvider is returned when the active provider has no API key.
var ErrNoProvider = errors.New("ai: no provider configured")

// APIError is returned when a provider answers with a non-200 status.
// Callers use errors.As to map upstream rate limits and billing failures.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

// IsRateLimited reports whether the upstream rejected the call with 429.
func (e *APIError) IsRateLimited() bool { return e.StatusCode == http.StatusTooManyRequests }

// IsPaymentRequired reports whether the upstream rejected the call with 402.
func (e *APIError) IsPaymentRequired() bool { return e.StatusCode == http.StatusPaymentRequired }

// IsAuth reports whether the upstream rejected the credentials.
func (e *APIError) IsAuth() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// StatusOf returns the upstream status code carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

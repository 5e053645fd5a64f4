// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"designcamp/internal/session"
	"designcamp/internal/token"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// SessionKey is the context key for the session data.
	SessionKey contextKey = "session"
)

// SessionGetter loads a cookie session. *session.Store satisfies it.
type SessionGetter interface {
	Get(ctx context.Context, r *http.Request) (*session.Data, error)
}

// TokenValidator checks bearer tokens. *token.Service satisfies it.
type TokenValidator interface {
	Validate(tokenString string) (token.Claims, error)
}

// LoadSession resolves the caller's identity and stores it in the request
// context. The session cookie wins; otherwise a valid bearer token is
// turned into a session without 2FA. Downstream handlers read it via
// SessionFromCtx(). This middleware does NOT enforce authentication.
func LoadSession(store SessionGetter, tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var data *session.Data
			if store != nil {
				d, err := store.Get(r.Context(), r)
				if err != nil {
					// Treat as unauthenticated.
					slog.Warn("session lookup failed", "error", err)
				}
				data = d
			}

			if data == nil && tokens != nil {
				if raw, ok := bearerToken(r); ok {
					claims, err := tokens.Validate(raw)
					if err == nil {
						data = &session.Data{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}
					}
				}
			}

			if data != nil {
				r = r.WithContext(context.WithValue(r.Context(), SessionKey, data))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth answers 401 for anonymous callers, with the login path the
// client should send them to.
// Must be applied after LoadSession in the middleware chain.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SessionFromCtx(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, map[string]string{
				"error":    "Authentication required",
				"redirect": LoginRedirect(r.URL.Path),
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Require2FA rejects users who haven't completed 2FA. Must be applied
// after RequireAuth.
func Require2FA(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromCtx(r.Context())
		if sess != nil && !sess.TwoFADone {
			writeError(w, http.StatusForbidden, map[string]string{
				"error":    "Two-factor authentication required",
				"redirect": "/2fa",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAdmin returns 403 if the authenticated user is not an admin.
// Must be applied after RequireAuth and Require2FA.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !SessionFromCtx(r.Context()).IsAdmin() {
			writeError(w, http.StatusForbidden, map[string]string{"error": "Forbidden"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SessionFromCtx extracts the session data from the request context.
// Returns nil if no session is loaded (user is not authenticated).
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}

// WithSession returns ctx carrying data, as LoadSession would.
func WithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, SessionKey, data)
}

// LoginRedirect is the login page URL that returns to the page behind path
// afterwards. API paths map to the page they serve.
func LoginRedirect(path string) string {
	if path == "/api" || strings.HasPrefix(path, "/api/") {
		path = strings.TrimPrefix(path, "/api")
	}
	if path == "" {
		path = "/"
	}
	return "/login?from=" + strings.ReplaceAll(url.QueryEscape(path), "%2F", "/")
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, raw, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

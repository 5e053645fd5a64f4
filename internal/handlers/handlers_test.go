package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"designcamp/internal/middleware"
	"designcamp/internal/session"
)

// jsonRequest builds a request with a JSON body. A nil body sends none.
func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var rd io.Reader = http.NoBody
	if body != nil {
		switch b := body.(type) {
		case string:
			rd = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			if err != nil {
				t.Fatalf("marshal body: %v", err)
			}
			rd = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// asCamper attaches a signed-in camper session.
func asCamper(r *http.Request) (*http.Request, *session.Data) {
	sess := &session.Data{UserID: uuid.New(), Email: "camper@test.local", Role: "camper"}
	return r.WithContext(middleware.WithSession(r.Context(), sess)), sess
}

// asAdmin attaches an admin session with 2FA pending.
func asAdmin(r *http.Request) (*http.Request, *session.Data) {
	sess := &session.Data{UserID: uuid.New(), Email: "admin@test.local", Role: "admin"}
	return r.WithContext(middleware.WithSession(r.Context(), sess)), sess
}

// withURLParam sets a chi URL parameter as the router would.
func withURLParam(r *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decode reads the JSON response body into a generic map.
func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return out
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		ok     bool
		status int
	}{
		{"valid", `{"message":"hi"}`, true, http.StatusOK},
		{"empty body", ``, true, http.StatusOK},
		{"malformed", `{"message":`, false, http.StatusBadRequest},
		{"too large", `{"message":"` + string(bytes.Repeat([]byte("a"), maxJSONBody)) + `"}`, false, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			var dst postMessageRequest
			ok := decodeJSON(rr, jsonRequest(t, http.MethodPost, "/", tt.body), &dst)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok && rr.Code != tt.status {
				t.Errorf("status = %d, want %d", rr.Code, tt.status)
			}
		})
	}
}

func TestPathID(t *testing.T) {
	id := uuid.New()
	rr := httptest.NewRecorder()
	got, ok := pathID(rr, withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", id.String()), "id")
	if !ok || got != id {
		t.Errorf("pathID = %v, %v", got, ok)
	}

	rr = httptest.NewRecorder()
	if _, ok := pathID(rr, withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "nope"), "id"); ok {
		t.Error("malformed id should fail")
	}
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newTestServer creates an httptest.Server that responds with the given
// status code and body.
func newTestServer(t *testing.T, statusCode int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func openAISuccessBody(text string) string {
	b, _ := json.Marshal(openAIResponse{Choices: []openAIChoice{{Message: openAIMessage{Role: "assistant", Content: text}}}})
	return string(b)
}

// captured records the last request seen by a capturing server.
type captured struct {
	path    string
	headers http.Header
	body    []byte
}

func newCapturingServer(t *testing.T, reply string) (*httptest.Server, *captured) {
	t.Helper()
	c := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.path = r.URL.Path
		c.headers = r.Header.Clone()
		c.body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv, c
}

func TestCompatibleProviders(t *testing.T) {
	tests := []struct {
		name    string
		newFunc func(ProviderConfig) Provider
	}{
		{"openai", func(c ProviderConfig) Provider { return newOpenAI(c) }},
		{"gateway", func(c ProviderConfig) Provider { return newGateway(c) }},
		{"mistral", func(c ProviderConfig) Provider { return newMistral(c) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, got := newCapturingServer(t, openAISuccessBody("hi"))
			p := tt.newFunc(ProviderConfig{APIKey: "k-123", Model: "m-1", BaseURL: srv.URL})

			text, err := p.Generate(context.Background(), "system prompt", "user prompt")
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if text != "hi" {
				t.Errorf("text = %q", text)
			}
			if p.Name() != tt.name {
				t.Errorf("Name() = %q", p.Name())
			}
			if got.path != "/chat/completions" {
				t.Errorf("path = %q", got.path)
			}
			if got.headers.Get("Authorization") != "Bearer k-123" {
				t.Errorf("Authorization = %q", got.headers.Get("Authorization"))
			}

			var req openAIRequest
			if err := json.Unmarshal(got.body, &req); err != nil {
				t.Fatalf("decode request: %v", err)
			}
			if req.Model != "m-1" || len(req.Messages) != 2 || req.Messages[0].Role != "system" {
				t.Errorf("request = %+v", req)
			}
		})
	}
}

func TestGatewayDefaults(t *testing.T) {
	p := newGateway(ProviderConfig{APIKey: "k"})
	if p.inner.config.BaseURL != DefaultGatewayBaseURL {
		t.Errorf("BaseURL = %q", p.inner.config.BaseURL)
	}
	if p.inner.config.Model != DefaultGatewayModel {
		t.Errorf("Model = %q", p.inner.config.Model)
	}
}

func TestProvidersReturnAPIError(t *testing.T) {
	tests := []struct {
		name     string
		provider func(base string) Provider
	}{
		{"gateway", func(b string) Provider { return newGateway(ProviderConfig{APIKey: "k", BaseURL: b}) }},
		{"openai", func(b string) Provider { return newOpenAI(ProviderConfig{APIKey: "k", BaseURL: b}) }},
		{"claude", func(b string) Provider { return newClaude(ProviderConfig{APIKey: "k", BaseURL: b}) }},
		{"gemini", func(b string) Provider { return newGemini(ProviderConfig{APIKey: "k", Model: "g", BaseURL: b}) }},
	}
	for _, status := range []int{http.StatusTooManyRequests, http.StatusPaymentRequired, http.StatusInternalServerError} {
		for _, tt := range tests {
			t.Run(tt.name+"/"+http.StatusText(status), func(t *testing.T) {
				srv := newTestServer(t, status, `{"error":"upstream says no"}`)
				_, err := tt.provider(srv.URL).Generate(context.Background(), "s", "u")

				var apiErr *APIError
				if !errors.As(err, &apiErr) {
					t.Fatalf("err = %v, want *APIError", err)
				}
				if apiErr.StatusCode != status || apiErr.Provider != tt.name {
					t.Errorf("APIError = %+v", apiErr)
				}
				if !strings.Contains(err.Error(), "upstream says no") {
					t.Errorf("error should include the body: %v", err)
				}
				if StatusOf(err) != status {
					t.Errorf("StatusOf = %d", StatusOf(err))
				}
			})
		}
	}
}

func TestClaudeGenerate(t *testing.T) {
	srv, got := newCapturingServer(t, `{"content":[{"type":"thinking","text":""},{"type":"text","text":"brief"}]}`)
	p := newClaude(ProviderConfig{APIKey: "ck", Model: "claude-x", BaseURL: srv.URL})

	text, err := p.Generate(context.Background(), "sys", "usr")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "brief" {
		t.Errorf("text = %q", text)
	}
	if got.path != "/v1/messages" || got.headers.Get("x-api-key") != "ck" || got.headers.Get("anthropic-version") == "" {
		t.Errorf("request path %q headers %v", got.path, got.headers)
	}

	var req claudeRequest
	json.Unmarshal(got.body, &req)
	if req.System != "sys" || req.MaxTokens != claudeMaxTokens {
		t.Errorf("request = %+v", req)
	}
}

func TestClaudeGenerate_NoText(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"content":[]}`)
	if _, err := newClaude(ProviderConfig{APIKey: "k", BaseURL: srv.URL}).Generate(context.Background(), "s", "u"); err == nil {
		t.Error("expected error for empty content")
	}
}

func TestGeminiGenerate(t *testing.T) {
	srv, got := newCapturingServer(t, `{"candidates":[{"content":{"parts":[{"text":""},{"text":"ok"}]}}]}`)
	p := newGemini(ProviderConfig{APIKey: "gk", Model: "gemini-2.5-flash", BaseURL: srv.URL})

	text, err := p.Generate(context.Background(), "sys", "usr")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "ok" {
		t.Errorf("text = %q", text)
	}
	if got.path != "/v1beta/models/gemini-2.5-flash:generateContent" {
		t.Errorf("path = %q", got.path)
	}
	if got.headers.Get("x-goog-api-key") != "gk" {
		t.Error("api key header missing")
	}
}

func TestGeminiGenerate_NoCandidates(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"candidates":[]}`)
	if _, err := newGemini(ProviderConfig{APIKey: "k", Model: "g", BaseURL: srv.URL}).Generate(context.Background(), "s", "u"); err == nil {
		t.Error("expected error for no candidates")
	}
}

func TestOpenAIGenerate_MalformedAndEmpty(t *testing.T) {
	for name, body := range map[string]string{
		"malformed": `{not json`,
		"no choices": `{"choices":[]}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := newTestServer(t, http.StatusOK, body)
			_, err := newOpenAI(ProviderConfig{APIKey: "k", BaseURL: srv.URL}).Generate(context.Background(), "s", "u")
			if err == nil {
				t.Fatal("expected error")
			}
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				t.Error("decode failures are not upstream API errors")
			}
		})
	}
}

func TestGenerate_CancelledContext(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, openAISuccessBody("late"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newGateway(ProviderConfig{APIKey: "k", BaseURL: srv.URL}).Generate(ctx, "s", "u"); err == nil {
		t.Error("expected error for cancelled context")
	}
}

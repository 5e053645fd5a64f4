package ai

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"testing"
)

func TestOpenAIModerator(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantSafe bool
		wantCats []string
	}{
		{"clean", `{"results":[{"flagged":false,"categories":{"hate":false}}]}`, true, nil},
		{"no results", `{"results":[]}`, true, nil},
		{"flagged", `{"results":[{"flagged":true,"categories":{"hate/threatening":true,"self_harm":true,"violence":false}}]}`,
			false, []string{"hate (threatening)", "self harm"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, http.StatusOK, tt.body)
			res, err := newOpenAIModerator("k", srv.URL).CheckSafety(context.Background(), "text")
			if err != nil {
				t.Fatalf("CheckSafety: %v", err)
			}
			if res.Safe != tt.wantSafe || !slices.Equal(res.Categories, tt.wantCats) {
				t.Errorf("result = %+v, want safe=%v cats=%v", res, tt.wantSafe, tt.wantCats)
			}
		})
	}
}

func TestMistralModerator(t *testing.T) {
	srv, got := newCapturingServer(t, `{"results":[{"categories":{"sexual":false,"hate_and_discrimination":true}}]}`)

	res, err := newMistralModerator("mk", srv.URL+"/v1").CheckSafety(context.Background(), "text")
	if err != nil {
		t.Fatalf("CheckSafety: %v", err)
	}
	if res.Safe || !slices.Equal(res.Categories, []string{"hate and discrimination"}) {
		t.Errorf("result = %+v", res)
	}
	if got.path != "/v1/moderations" {
		t.Errorf("path = %q, want /v1/moderations", got.path)
	}
}

func TestFallbackModerator(t *testing.T) {
	t.Run("auth error disables primary", func(t *testing.T) {
		primary := &mockModerator{err: &APIError{Provider: "openai moderation", StatusCode: http.StatusUnauthorized}}
		secondary := &mockModerator{}
		m := newFallbackModerator(primary, secondary)

		for range 3 {
			res, err := m.CheckSafety(context.Background(), "hi")
			if err != nil || !res.Safe {
				t.Fatalf("CheckSafety = %+v, %v", res, err)
			}
		}
		if primary.calls != 1 {
			t.Errorf("primary calls = %d, want 1", primary.calls)
		}
		if secondary.calls != 3 {
			t.Errorf("secondary calls = %d, want 3", secondary.calls)
		}
	})

	t.Run("transient error falls back once", func(t *testing.T) {
		primary := &mockModerator{err: errors.New("timeout")}
		secondary := &mockModerator{}
		m := newFallbackModerator(primary, secondary)

		m.CheckSafety(context.Background(), "a")
		m.CheckSafety(context.Background(), "b")
		if primary.calls != 2 {
			t.Errorf("primary should be retried after a transient error, calls = %d", primary.calls)
		}
	})

	t.Run("primary success", func(t *testing.T) {
		primary := &mockModerator{blocked: map[string]bool{"bad": true}}
		secondary := &mockModerator{}
		res, _ := newFallbackModerator(primary, secondary).CheckSafety(context.Background(), "bad")
		if res.Safe || secondary.calls != 0 {
			t.Errorf("result %+v, secondary calls %d", res, secondary.calls)
		}
	})
}

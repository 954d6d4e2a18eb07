package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(h http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(h)
	c := NewClient()
	c.BaseURL = srv.URL
	c.HTTPClient = srv.Client()
	return c, srv
}

func TestComplete_SendsSystemPromptAndAuth(t *testing.T) {
	var got completionRequest
	var auth string
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  a post  "}}]}`))
	})
	defer srv.Close()

	out, err := c.Complete(context.Background(), "write about Go", "gsk_test")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "a post" {
		t.Fatalf("expected trimmed content, got %q", out)
	}
	if auth != "Bearer gsk_test" {
		t.Fatalf("unexpected auth header %q", auth)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" {
		t.Fatalf("expected system+user messages, got %+v", got.Messages)
	}
	if got.Messages[1].Content != "write about Go" {
		t.Fatalf("unexpected user prompt %q", got.Messages[1].Content)
	}
	if got.Temperature != 0.7 || got.MaxTokens != 1024 {
		t.Fatalf("unexpected sampling params: %+v", got)
	}
}

func TestComplete_SurfacesRemoteError(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid API Key"}}`))
	})
	defer srv.Close()

	_, err := c.Complete(context.Background(), "p", "bad")
	if err == nil || err.Error() != "Invalid API Key" {
		t.Fatalf("expected remote error message, got %v", err)
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})
	defer srv.Close()

	if _, err := c.Complete(context.Background(), "p", "k"); err == nil {
		t.Fatal("expected error on empty choices")
	}
}

func TestValidateKey(t *testing.T) {
	var maxTokens int
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		var req completionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		maxTokens = req.MaxTokens
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Hi"}}]}`))
	})
	defer srv.Close()

	if !c.ValidateKey(context.Background(), "good") {
		t.Fatal("expected valid key to pass")
	}
	if c.ValidateKey(context.Background(), "bad") {
		t.Fatal("expected invalid key to fail")
	}
	if maxTokens != 5 {
		t.Fatalf("expected minimal probe request, max_tokens=%d", maxTokens)
	}

	c.BaseURL = "http://127.0.0.1:0"
	if c.ValidateKey(context.Background(), "good") {
		t.Fatal("expected network failure to report false")
	}
}

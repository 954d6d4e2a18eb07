package linkedin

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
	c.APIBaseURL = srv.URL
	c.OAuthBaseURL = srv.URL
	c.HTTPClient = srv.Client()
	return c, srv
}

func TestExchangeCode_SendsForm(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oauth/v2/accessToken" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Fatalf("unexpected content type %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("grant_type") != "authorization_code" {
			t.Fatalf("grant_type = %q", r.PostForm.Get("grant_type"))
		}
		if r.PostForm.Get("redirect_uri") != "https://app.example.com/api/linkedin/callback" {
			t.Fatalf("redirect_uri = %q", r.PostForm.Get("redirect_uri"))
		}
		_, _ = w.Write([]byte(`{"access_token":"li_tok","expires_in":5184000}`))
	})
	defer srv.Close()

	tok, err := c.ExchangeCode(context.Background(), "abc", "id", "secret",
		"https://app.example.com/api/linkedin/callback")
	if err != nil {
		t.Fatalf("ExchangeCode: %v", err)
	}
	if tok.AccessToken != "li_tok" || tok.ExpiresIn != 5184000 {
		t.Fatalf("unexpected token %+v", tok)
	}
}

func TestExchangeCode_ProviderError(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"invalid_request","error_description":"redirect_uri does not match"}`))
	})
	defer srv.Close()

	_, err := c.ExchangeCode(context.Background(), "abc", "id", "secret", "u")
	if err == nil || err.Error() != "redirect_uri does not match" {
		t.Fatalf("expected provider description, got %v", err)
	}
}

func TestExchangeCode_NoToken(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	defer srv.Close()

	_, err := c.ExchangeCode(context.Background(), "abc", "id", "secret", "u")
	if err == nil || err.Error() != "failed to get access token" {
		t.Fatalf("expected missing-token error, got %v", err)
	}
}

func TestFetchUserInfo(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer li_tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"sub":"AbC123","name":"Ada Lovelace","picture":"https://img/p.jpg"}`))
	})
	defer srv.Close()

	info, err := c.FetchUserInfo(context.Background(), "li_tok")
	if err != nil {
		t.Fatalf("FetchUserInfo: %v", err)
	}
	if info.Sub != "AbC123" || info.Name != "Ada Lovelace" {
		t.Fatalf("unexpected userinfo %+v", info)
	}

	if _, err := c.FetchUserInfo(context.Background(), "wrong"); err == nil {
		t.Fatal("expected error for rejected token")
	}
}

func TestPublish_BuildsUGCPayload(t *testing.T) {
	var payload map[string]any
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/ugcPosts" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-Restli-Protocol-Version") != "2.0.0" {
			t.Fatalf("missing Restli version header")
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"urn:li:share:42"}`))
	})
	defer srv.Close()

	id, err := c.Publish(context.Background(), "li_tok", "AbC123", "hello network")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if id != "urn:li:share:42" {
		t.Fatalf("unexpected post id %q", id)
	}
	if payload["author"] != "urn:li:person:AbC123" {
		t.Fatalf("author = %v", payload["author"])
	}
	if payload["lifecycleState"] != "PUBLISHED" {
		t.Fatalf("lifecycleState = %v", payload["lifecycleState"])
	}
	sc := payload["specificContent"].(map[string]any)["com.linkedin.ugc.ShareContent"].(map[string]any)
	if sc["shareCommentary"].(map[string]any)["text"] != "hello network" {
		t.Fatalf("shareCommentary = %v", sc["shareCommentary"])
	}
}

func TestPublish_RemoteError(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"Duplicate post detected"}`))
	})
	defer srv.Close()

	_, err := c.Publish(context.Background(), "t", "p", "text")
	if err == nil || err.Error() != "Duplicate post detected" {
		t.Fatalf("expected remote message, got %v", err)
	}
}

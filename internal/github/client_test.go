package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testClient(srv *httptest.Server) *Client {
	return &Client{
		APIBaseURL:   srv.URL,
		OAuthBaseURL: srv.URL,
		HTTPClient:   srv.Client(),
	}
}

func TestFetchProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/octocat" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte(`{"login":"octocat","name":"The Octocat","public_repos":8,"followers":100,"html_url":"https://github.com/octocat"}`))
	}))
	defer srv.Close()

	p, err := testClient(srv).FetchProfile(context.Background(), "octocat", "tok")
	if err != nil {
		t.Fatalf("FetchProfile: %v", err)
	}
	if p.Login != "octocat" || p.PublicRepos != 8 || p.Followers != 100 {
		t.Fatalf("profile = %+v", p)
	}
}

func TestFetchProfile_RemoteErrorMessageSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not Found"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv).FetchProfile(context.Background(), "ghost", "")
	if err == nil || !strings.Contains(err.Error(), "Not Found") {
		t.Fatalf("err = %v, want remote message", err)
	}
}

func TestFetchRepos_Normalization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("per_page"); got != "30" {
			t.Errorf("per_page = %q", got)
		}
		w.Write([]byte(`[
			{"id":1,"name":"bare","full_name":"octocat/bare","stargazers_count":3,"private":false},
			{"id":2,"name":"rich","full_name":"octocat/rich","description":"a thing","language":"Go","topics":["go","api"]}
		]`))
	}))
	defer srv.Close()

	repos, err := testClient(srv).FetchRepos(context.Background(), "octocat", "", 0)
	if err != nil {
		t.Fatalf("FetchRepos: %v", err)
	}
	if len(repos) != 2 {
		t.Fatalf("len = %d", len(repos))
	}
	if repos[0].Description != "No description" || repos[0].Language != "Unknown" {
		t.Errorf("placeholders not applied: %+v", repos[0])
	}
	if repos[0].LanguageColor != defaultLanguageColor {
		t.Errorf("unknown language should get the default color: %q", repos[0].LanguageColor)
	}
	if repos[0].Topics == nil {
		t.Error("topics should never be nil")
	}
	if repos[1].Language != "Go" || len(repos[1].Topics) != 2 {
		t.Errorf("fields lost: %+v", repos[1])
	}
	if repos[1].LanguageColor != "#00ADD8" {
		t.Errorf("language color not set: %q", repos[1].LanguageColor)
	}
}

func TestExchangeCode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/login/oauth/access_token" || r.Method != http.MethodPost {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"access_token":"gho_abc"}`))
	}))
	defer srv.Close()

	tok, err := testClient(srv).ExchangeCode(context.Background(), "id", "secret", "code123")
	if err != nil {
		t.Fatalf("ExchangeCode: %v", err)
	}
	if tok != "gho_abc" {
		t.Fatalf("token = %q", tok)
	}
}

func TestExchangeCode_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"bad_verification_code","error_description":"The code passed is incorrect or expired."}`))
	}))
	defer srv.Close()

	_, err := testClient(srv).ExchangeCode(context.Background(), "id", "secret", "stale")
	if err == nil || !strings.Contains(err.Error(), "incorrect or expired") {
		t.Fatalf("err = %v, want provider description", err)
	}
}

func TestExchangeCode_NoTokenNoError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := testClient(srv).ExchangeCode(context.Background(), "id", "secret", "code")
	if err == nil {
		t.Fatal("expected error when no token returned")
	}
}

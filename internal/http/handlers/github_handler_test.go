package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/postpilot/go-post-backend/internal/domain"
	"github.com/postpilot/go-post-backend/internal/services"
)

func githubRouter(h *Handlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/github/snapshot", h.GetSnapshot)
	r.GET("/github/status", h.GitHubStatus)
	r.POST("/github/connect", h.ConnectGitHub)
	r.POST("/github/refresh", h.RefreshGitHub)
	r.DELETE("/github", h.DisconnectGitHub)
	r.GET("/github/repos/:name/commits", h.RepoCommits)
	return r
}

func TestGetSnapshot_NotConnected(t *testing.T) {
	h, _, _, _ := newTestHandlers()
	r := githubRouter(h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/github/snapshot", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("no snapshot -> %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/github/status", nil))
	if w.Code != http.StatusOK || w.Body.String() != `{"connected":false}` {
		t.Fatalf("status -> %d %s", w.Code, w.Body.String())
	}
}

func TestConnectGitHub(t *testing.T) {
	h, snap, _, _ := newTestHandlers()
	r := githubRouter(h)

	// Missing username -> 400
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/github/connect", bytes.NewBufferString(`{"token":"t"}`)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing username -> %d", w.Code)
	}

	// Success -> 200 with snapshot
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/github/connect", bytes.NewBufferString(`{"username":"octo"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("connect -> %d body=%s", w.Code, w.Body.String())
	}

	// Upstream failure -> 502
	snap.connect = func(ctx context.Context, u, tok string) (*domain.Snapshot, error) {
		return nil, errors.New("API rate limit exceeded")
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/github/connect", bytes.NewBufferString(`{"username":"octo"}`)))
	if w.Code != http.StatusBadGateway {
		t.Fatalf("upstream failure -> %d", w.Code)
	}
}

func TestDisconnectGitHub(t *testing.T) {
	h, snap, _, _ := newTestHandlers()
	r := githubRouter(h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/github", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("disconnect -> %d", w.Code)
	}
	if !snap.disconnected {
		t.Fatal("service not called")
	}
}

func TestRepoCommits_NotConnected(t *testing.T) {
	h, snap, _, _ := newTestHandlers()
	snap.commits = func(ctx context.Context, name string) ([]domain.CommitRef, error) {
		return nil, services.ErrNotConnected
	}
	r := githubRouter(h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/github/repos/alpha/commits", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("not connected -> %d", w.Code)
	}
}

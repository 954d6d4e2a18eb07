// Package github is a stateless client for the GitHub REST API and OAuth
// token endpoint. Every call is a single request/response with no retry or
// rate-limit handling; a failure surfaces as one error carrying the remote
// message when available.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/postpilot/go-post-backend/internal/domain"
)

const (
	defaultAPIBaseURL   = "https://api.github.com"
	defaultOAuthBaseURL = "https://github.com"
)

// Client talks to the GitHub API. Base URLs are overridable for tests.
type Client struct {
	APIBaseURL   string
	OAuthBaseURL string
	HTTPClient   *http.Client
}

// NewClient returns a Client with production endpoints and a shared transport.
func NewClient() *Client {
	return &Client{
		APIBaseURL:   defaultAPIBaseURL,
		OAuthBaseURL: defaultOAuthBaseURL,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) api() string   { return strings.TrimRight(c.APIBaseURL, "/") }
func (c *Client) oauth() string { return strings.TrimRight(c.OAuthBaseURL, "/") }

// get issues an authenticated (when token is set) GET and decodes the JSON
// body into out. Non-2xx statuses become errors with the remote message.
func (c *Client) get(ctx context.Context, path, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.api()+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Message != "" {
			return fmt.Errorf("github: %s (status %d)", apiErr.Message, resp.StatusCode)
		}
		return fmt.Errorf("github: unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// userResponse mirrors the subset of GET /users/{username} we keep.
type userResponse struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	AvatarURL   string `json:"avatar_url"`
	Bio         string `json:"bio"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
	HTMLURL     string `json:"html_url"`
}

// FetchProfile returns the normalized profile for username.
func (c *Client) FetchProfile(ctx context.Context, username, token string) (*domain.Profile, error) {
	var u userResponse
	if err := c.get(ctx, "/users/"+url.PathEscape(username), token, &u); err != nil {
		return nil, err
	}
	return &domain.Profile{
		Login:       u.Login,
		Name:        u.Name,
		AvatarURL:   u.AvatarURL,
		Bio:         u.Bio,
		PublicRepos: u.PublicRepos,
		Followers:   u.Followers,
		Following:   u.Following,
		URL:         u.HTMLURL,
	}, nil
}

// repoResponse mirrors the subset of the repository wire shape we normalize.
type repoResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Description string    `json:"description"`
	Language    string    `json:"language"`
	Stars       int       `json:"stargazers_count"`
	Forks       int       `json:"forks_count"`
	Watchers    int       `json:"watchers_count"`
	OpenIssues  int       `json:"open_issues_count"`
	Private     bool      `json:"private"`
	HTMLURL     string    `json:"html_url"`
	UpdatedAt   time.Time `json:"updated_at"`
	PushedAt    time.Time `json:"pushed_at"`
	Topics      []string  `json:"topics"`
}

// normalizeRepo maps the wire shape to the fixed snapshot shape, filling the
// description placeholder and "Unknown" language.
func normalizeRepo(r repoResponse) domain.Repo {
	desc := r.Description
	if desc == "" {
		desc = "No description"
	}
	lang := r.Language
	if lang == "" {
		lang = "Unknown"
	}
	topics := r.Topics
	if topics == nil {
		topics = []string{}
	}
	return domain.Repo{
		ID:            r.ID,
		Name:          r.Name,
		FullName:      r.FullName,
		Description:   desc,
		Language:      lang,
		LanguageColor: LanguageColor(lang),
		Stars:         r.Stars,
		Forks:         r.Forks,
		Watchers:      r.Watchers,
		OpenIssues:    r.OpenIssues,
		IsPrivate:     r.Private,
		URL:           r.HTMLURL,
		UpdatedAt:     r.UpdatedAt,
		PushedAt:      r.PushedAt,
		Topics:        topics,
	}
}

// FetchRepos returns up to perPage of the user's repositories, most recently
// updated first, normalized to the snapshot shape.
func (c *Client) FetchRepos(ctx context.Context, username, token string, perPage int) ([]domain.Repo, error) {
	if perPage <= 0 {
		perPage = 30
	}
	var raw []repoResponse
	path := fmt.Sprintf("/users/%s/repos?sort=updated&per_page=%d", url.PathEscape(username), perPage)
	if err := c.get(ctx, path, token, &raw); err != nil {
		return nil, err
	}
	repos := make([]domain.Repo, len(raw))
	for i, r := range raw {
		repos[i] = normalizeRepo(r)
	}
	return repos, nil
}

// FetchRepoCommits returns the most recent commits of a repository as summary
// commit lines.
func (c *Client) FetchRepoCommits(ctx context.Context, username, repoName, token string, perPage int) ([]domain.CommitRef, error) {
	if perPage <= 0 {
		perPage = 10
	}
	var raw []struct {
		Commit struct {
			Message string `json:"message"`
			Author  struct {
				Date time.Time `json:"date"`
			} `json:"author"`
		} `json:"commit"`
	}
	path := fmt.Sprintf("/repos/%s/%s/commits?per_page=%d", url.PathEscape(username), url.PathEscape(repoName), perPage)
	if err := c.get(ctx, path, token, &raw); err != nil {
		return nil, err
	}
	out := make([]domain.CommitRef, len(raw))
	for i, cm := range raw {
		out[i] = domain.CommitRef{
			Message: cm.Commit.Message,
			Repo:    username + "/" + repoName,
			Date:    cm.Commit.Author.Date,
		}
	}
	return out, nil
}

// FetchEvents returns the user's recent public events.
func (c *Client) FetchEvents(ctx context.Context, username string, perPage int) ([]Event, error) {
	if perPage <= 0 {
		perPage = 30
	}
	var events []Event
	path := fmt.Sprintf("/users/%s/events/public?per_page=%d", url.PathEscape(username), perPage)
	if err := c.get(ctx, path, "", &events); err != nil {
		return nil, err
	}
	return events, nil
}

// WeeklyActivitySummary fetches the last 100 public events and folds them into
// a seven-day summary.
func (c *Client) WeeklyActivitySummary(ctx context.Context, username string) (*domain.ActivitySummary, error) {
	events, err := c.FetchEvents(ctx, username, 100)
	if err != nil {
		return nil, err
	}
	summary := SummarizeEvents(events, time.Now().UTC())
	return &summary, nil
}

// ExchangeCode swaps an OAuth authorization code for an access token.
// GitHub's token endpoint takes a JSON body and needs no redirect_uri.
func (c *Client) ExchangeCode(ctx context.Context, clientID, clientSecret, code string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"client_id":     clientID,
		"client_secret": clientSecret,
		"code":          code,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.oauth()+"/login/oauth/access_token", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var data struct {
		AccessToken      string `json:"access_token"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}
	if data.Error != "" {
		msg := data.ErrorDescription
		if msg == "" {
			msg = data.Error
		}
		return "", fmt.Errorf("%s", msg)
	}
	if data.AccessToken == "" {
		return "", fmt.Errorf("failed to get access token")
	}
	return data.AccessToken, nil
}

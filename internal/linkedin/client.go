// Package linkedin wraps the three LinkedIn API calls the backend needs:
// the OAuth code exchange, the OpenID userinfo lookup, and publishing a
// text share through the ugcPosts endpoint.
package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultAPIBaseURL   = "https://api.linkedin.com"
	defaultOAuthBaseURL = "https://www.linkedin.com"
)

// Client talks to the LinkedIn REST and OAuth endpoints. Base URLs are
// overridable for tests.
type Client struct {
	APIBaseURL   string
	OAuthBaseURL string
	HTTPClient   *http.Client
}

// NewClient returns a Client with production endpoints.
func NewClient() *Client {
	return &Client{
		APIBaseURL:   defaultAPIBaseURL,
		OAuthBaseURL: defaultOAuthBaseURL,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Token is the result of a successful authorization-code exchange.
type Token struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// UserInfo is the OpenID Connect profile of the connected member. Sub is the
// member identifier used to build the author URN when publishing.
type UserInfo struct {
	Sub     string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// ExchangeCode trades an authorization code for an access token. redirectURI
// must byte-match the value used on the authorize redirect or LinkedIn
// rejects the exchange.
func (c *Client) ExchangeCode(ctx context.Context, code, clientID, clientSecret, redirectURI string) (*Token, error) {
	form := url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"client_id":     {clientID},
		"client_secret": {clientSecret},
		"redirect_uri":  {redirectURI},
	}
	endpoint := strings.TrimRight(c.OAuthBaseURL, "/") + "/oauth/v2/accessToken"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var data struct {
		Token
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding token response: %w", err)
	}
	if data.Error != "" {
		if data.ErrorDescription != "" {
			return nil, fmt.Errorf("%s", data.ErrorDescription)
		}
		return nil, fmt.Errorf("%s", data.Error)
	}
	if data.AccessToken == "" {
		return nil, fmt.Errorf("failed to get access token")
	}
	return &data.Token, nil
}

// FetchUserInfo returns the OpenID profile for the token's member.
func (c *Client) FetchUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	endpoint := strings.TrimRight(c.APIBaseURL, "/") + "/v2/userinfo"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("userinfo request failed (status %d)", resp.StatusCode)
	}
	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decoding userinfo: %w", err)
	}
	return &info, nil
}

// Publish creates a public text-only share authored by the member identified
// by personID and returns the new post's ID.
func (c *Client) Publish(ctx context.Context, accessToken, personID, text string) (string, error) {
	payload := map[string]any{
		"author":         "urn:li:person:" + personID,
		"lifecycleState": "PUBLISHED",
		"specificContent": map[string]any{
			"com.linkedin.ugc.ShareContent": map[string]any{
				"shareCommentary":    map[string]any{"text": text},
				"shareMediaCategory": "NONE",
			},
		},
		"visibility": map[string]any{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	endpoint := strings.TrimRight(c.APIBaseURL, "/") + "/v2/ugcPosts"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		var remote struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(detail, &remote) == nil && remote.Message != "" {
			return "", fmt.Errorf("%s", remote.Message)
		}
		return "", fmt.Errorf("publish request failed (status %d)", resp.StatusCode)
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding publish response: %w", err)
	}
	return out.ID, nil
}

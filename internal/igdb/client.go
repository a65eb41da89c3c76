package igdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Client queries the IGDB v4 API using Twitch client-credentials auth. The
// access token is fetched lazily and refreshed when close to expiry.
type Client struct {
	baseURL      string
	tokenURL     string
	clientID     string
	clientSecret string
	pageSize     int
	requestDelay time.Duration
	httpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithPageSize overrides the per-request row limit.
func WithPageSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithRequestDelay sets the pause between paginated requests, to stay inside
// the service's rate limit.
func WithRequestDelay(delay time.Duration) Option {
	return func(c *Client) {
		if delay >= 0 {
			c.requestDelay = delay
		}
	}
}

// NewClient creates an IGDB client. clientID and clientSecret are the Twitch
// developer application credentials.
func NewClient(baseURL, tokenURL, clientID, clientSecret string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	tokenURL = strings.TrimSpace(tokenURL)
	if baseURL == "" || tokenURL == "" {
		return nil, errors.New("igdb base url and token url required")
	}
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("igdb client credentials required")
	}
	client := &Client{
		baseURL:      baseURL,
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		pageSize:     500,
		requestDelay: 500 * time.Millisecond,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// token returns a valid access token, requesting a new one when the cached
// token is missing or within a minute of expiry.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-time.Minute)) {
		return c.accessToken, nil
	}

	form := url.Values{
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"grant_type":    {"client_credentials"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if decoded.AccessToken == "" {
		return "", errors.New("token endpoint returned empty access token")
	}

	c.accessToken = decoded.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(decoded.ExpiresIn) * time.Second)
	return c.accessToken, nil
}

// Query posts an Apicalypse query body to one endpoint and decodes the JSON
// array response into out.
func (c *Client) Query(ctx context.Context, endpoint, body string, out any) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("build query request: %w", err)
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("query %s (latency=%v): %w", endpoint, latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s returned %d (latency=%v): %s", endpoint, resp.StatusCode, latency, strings.TrimSpace(string(payload)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// queryPages pulls an endpoint page by page until a short page signals the
// end, invoking handle with each decoded page. The filter clause (without the
// trailing semicolon) may be empty for a full pull.
func queryPages[T any](ctx context.Context, c *Client, endpoint, fields, filter string, handle func([]T) error) error {
	offset := 0
	for {
		var clauses strings.Builder
		fmt.Fprintf(&clauses, "fields %s;", fields)
		if filter != "" {
			fmt.Fprintf(&clauses, " where %s;", filter)
		}
		fmt.Fprintf(&clauses, " sort id asc; limit %d; offset %d;", c.pageSize, offset)

		var page []T
		if err := c.Query(ctx, endpoint, clauses.String(), &page); err != nil {
			return err
		}
		if len(page) > 0 {
			if err := handle(page); err != nil {
				return err
			}
		}
		if len(page) < c.pageSize {
			return nil
		}
		offset += c.pageSize

		if c.requestDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.requestDelay):
			}
		}
	}
}

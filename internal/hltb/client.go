package hltb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gamedex/internal/textutil"
)

// SearchResult is a single game returned by the HowLongToBeat search API,
// with durations converted to hours and the client-side similarity score
// already computed against the search name.
type SearchResult struct {
	GameName string `json:"game_name"`
	// ReleaseYear is the worldwide release year reported by the service.
	ReleaseYear int `json:"release_year"`
	// Similarity is the caseless 0-1 ratio between the search name and
	// GameName, mirroring how the service's own clients score results.
	Similarity float64 `json:"similarity"`
	// Cumulative completion-time tiers, in hours.
	MainHours          float64 `json:"main_hours"`
	MainExtraHours     float64 `json:"main_extra_hours"`
	CompletionistHours float64 `json:"completionist_hours"`
}

// Searcher is the lookup operation the extract step depends on.
type Searcher interface {
	Search(ctx context.Context, name string, hideDLC bool) ([]SearchResult, error)
}

// Client queries the HowLongToBeat web search API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Searcher = (*Client)(nil)

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

// New creates a HowLongToBeat client.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("hltb base url required")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type searchRequest struct {
	SearchType    string        `json:"searchType"`
	SearchTerms   []string      `json:"searchTerms"`
	SearchPage    int           `json:"searchPage"`
	Size          int           `json:"size"`
	SearchOptions searchOptions `json:"searchOptions"`
}

type searchOptions struct {
	Games  gameOptions `json:"games"`
	Users  userOptions `json:"users"`
	Filter string      `json:"filter"`
	Sort   int         `json:"sort"`
}

type gameOptions struct {
	UserID       int    `json:"userId"`
	Platform     string `json:"platform"`
	SortCategory string `json:"sortCategory"`
	// Modifier "hide_dlc" excludes DLC entries from results.
	Modifier string `json:"modifier"`
}

type userOptions struct {
	SortCategory string `json:"sortCategory"`
}

type searchResponse struct {
	Data []struct {
		GameName     string `json:"game_name"`
		ReleaseWorld int    `json:"release_world"`
		// comp_* durations are reported in seconds.
		CompMain int `json:"comp_main"`
		CompPlus int `json:"comp_plus"`
		Comp100  int `json:"comp_100"`
	} `json:"data"`
}

// Search queries the service for the given game name. Similarity is computed
// caselessly against the search name; durations are converted to hours.
func (c *Client) Search(ctx context.Context, name string, hideDLC bool) ([]SearchResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("search name must not be empty")
	}

	payload := searchRequest{
		SearchType:  "games",
		SearchTerms: strings.Fields(name),
		SearchPage:  1,
		Size:        20,
		SearchOptions: searchOptions{
			Games: gameOptions{SortCategory: "popular"},
			Users: userOptions{SortCategory: "postcount"},
		},
	}
	if hideDLC {
		payload.SearchOptions.Games.Modifier = "hide_dlc"
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", c.baseURL+"/")
	req.Header.Set("User-Agent", "gamedex/1.0")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hltb search returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode hltb response: %w", err)
	}

	foldedQuery := textutil.Fold(name)
	results := make([]SearchResult, 0, len(decoded.Data))
	for _, row := range decoded.Data {
		results = append(results, SearchResult{
			GameName:           row.GameName,
			ReleaseYear:        row.ReleaseWorld,
			Similarity:         textutil.UnitRatio(foldedQuery, textutil.Fold(row.GameName)),
			MainHours:          secondsToHours(row.CompMain),
			MainExtraHours:     secondsToHours(row.CompPlus),
			CompletionistHours: secondsToHours(row.Comp100),
		})
	}
	return results, nil
}

func secondsToHours(seconds int) float64 {
	return float64(seconds) / 3600
}

package activities

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SearchClient issues one query to the external search provider and returns
// ranked results or an error.
type SearchClient interface {
	Search(ctx context.Context, query string, maxResults int, depth string) ([]SearchResult, error)
}

type httpSearchClient struct {
	url     string
	secrets SecretProvider
	client  *http.Client
}

// NewHTTPSearchClient returns the provider-backed SearchClient. The API key is
// resolved through the injected SecretProvider on each call (memoization is the
// provider's concern).
func NewHTTPSearchClient(secrets SecretProvider) SearchClient {
	return &httpSearchClient{
		url:     getenv("SEARCH_API_URL", "https://api.tavily.com/search"),
		secrets: secrets,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type searchRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

type searchResponse struct {
	Results []SearchResult `json:"results"`
}

func (c *httpSearchClient) Search(ctx context.Context, query string, maxResults int, depth string) ([]SearchResult, error) {
	apiKey, ok := c.secrets.GetSecret(ctx, "tavily", "api_key")
	if !ok {
		return nil, fmt.Errorf("search api key not configured")
	}

	body, _ := json.Marshal(searchRequest{
		APIKey:      apiKey,
		Query:       query,
		MaxResults:  maxResults,
		SearchDepth: depth,
	})
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search provider status %d: %s", resp.StatusCode, truncateForLog(data))
	}
	var parsed searchResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return parsed.Results, nil
}

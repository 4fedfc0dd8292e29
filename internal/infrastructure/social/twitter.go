package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"CryptoScanner/internal/domain"
	"CryptoScanner/internal/ports"
)

const defaultSearchURL = "https://api.twitter.com/2/tweets/search/recent"

// TwitterSource searches recent tweets for the configured query. The source
// is credential-gated: without a bearer token it yields nothing and reports
// no error, so the pipeline works the same with or without Twitter access.
type TwitterSource struct {
	searchURL   string
	bearerToken string
	query       string
	maxResults  int
	client      *http.Client
}

var _ ports.Source = (*TwitterSource)(nil)

// NewTwitterSource wires credentials and the search query.
func NewTwitterSource(bearerToken, query string, maxResults int, client *http.Client) *TwitterSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if maxResults <= 0 {
		maxResults = 10
	}
	return &TwitterSource{
		searchURL:   defaultSearchURL,
		bearerToken: bearerToken,
		query:       query,
		maxResults:  maxResults,
		client:      client,
	}
}

// Name identifies the source in logs and item provenance.
func (s *TwitterSource) Name() string {
	return "Twitter/X"
}

type searchResponse struct {
	Data []struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

// Fetch runs the recent-search query, excluding retweets and non-English
// tweets as the query suffix dictates.
func (s *TwitterSource) Fetch(ctx context.Context) ([]domain.Item, error) {
	if s.bearerToken == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("query", s.query+" -is:retweet lang:en")
	params.Set("max_results", strconv.Itoa(s.maxResults))
	params.Set("tweet.fields", "created_at,public_metrics")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.bearerToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search tweets: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("twitter returned %s", resp.Status)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	items := make([]domain.Item, 0, len(result.Data))
	for _, tweet := range result.Data {
		items = append(items, domain.Item{
			Source:  s.Name(),
			Title:   fmt.Sprintf("Tweet: %s...", headOf(tweet.Text, 100)),
			Summary: tweet.Text,
			Link:    fmt.Sprintf("https://twitter.com/i/web/status/%s", tweet.ID),
			Type:    domain.TypeSocial,
		})
	}

	return items, nil
}

func headOf(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

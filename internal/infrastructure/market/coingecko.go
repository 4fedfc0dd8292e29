package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"CryptoScanner/internal/domain"
	"CryptoScanner/internal/ports"
)

// CoinGeckoSource surfaces the currently trending assets as synthetic items
// so market momentum reaches the classifier alongside news.
type CoinGeckoSource struct {
	baseURL string
	limit   int
	client  *http.Client
}

var _ ports.Source = (*CoinGeckoSource)(nil)

// NewCoinGeckoSource wires the API base URL and trending cutoff.
func NewCoinGeckoSource(baseURL string, limit int, client *http.Client) *CoinGeckoSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if limit <= 0 {
		limit = 5
	}
	return &CoinGeckoSource{baseURL: baseURL, limit: limit, client: client}
}

// Name identifies the source in logs and item provenance.
func (s *CoinGeckoSource) Name() string {
	return "CoinGecko"
}

type trendingResponse struct {
	Coins []struct {
		Item struct {
			ID            string  `json:"id"`
			Name          string  `json:"name"`
			Symbol        string  `json:"symbol"`
			MarketCapRank int     `json:"market_cap_rank"`
			Score         float64 `json:"score"`
		} `json:"item"`
	} `json:"coins"`
}

// Fetch pulls the trending search snapshot and maps the top coins to items.
func (s *CoinGeckoSource) Fetch(ctx context.Context) ([]domain.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/search/trending", nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch trending: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coingecko returned %s", resp.Status)
	}

	var trending trendingResponse
	if err := json.NewDecoder(resp.Body).Decode(&trending); err != nil {
		return nil, fmt.Errorf("decode trending: %w", err)
	}

	count := len(trending.Coins)
	if count > s.limit {
		count = s.limit
	}

	items := make([]domain.Item, 0, count)
	for _, coin := range trending.Coins[:count] {
		c := coin.Item
		items = append(items, domain.Item{
			Source:  s.Name(),
			Title:   fmt.Sprintf("Trending: %s (%s)", c.Name, c.Symbol),
			Summary: fmt.Sprintf("Market Cap Rank: #%d | Score: %g", c.MarketCapRank, c.Score),
			Link:    fmt.Sprintf("https://www.coingecko.com/en/coins/%s", c.ID),
			Type:    domain.TypeMarketTrend,
		})
	}

	return items, nil
}

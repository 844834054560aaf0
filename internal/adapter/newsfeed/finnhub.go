package newsfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"msme-intel/internal/domain"
)

const finnhubDefaultURL = "https://finnhub.io/api/v1/news"

// FinnhubClient fetches general financial news from the Finnhub API.
// Finnhub has no keyword search on this endpoint; keywords are ignored and
// relevance filtering happens downstream.
type FinnhubClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewFinnhubClient constructs the client. An empty baseURL targets the
// public endpoint.
func NewFinnhubClient(baseURL, apiKey string, client *http.Client) *FinnhubClient {
	if baseURL == "" {
		baseURL = finnhubDefaultURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &FinnhubClient{BaseURL: baseURL, APIKey: apiKey, Client: client}
}

func (c *FinnhubClient) Name() string { return "Finnhub" }

type finnhubArticle struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
	Datetime int64  `json:"datetime"`
	Source   string `json:"source"`
}

// Fetch retrieves the general news feed.
func (c *FinnhubClient) Fetch(ctx context.Context, keywords []string, limit int) ([]domain.Article, error) {
	if c.APIKey == "" {
		return nil, domain.ErrSourceAuthMissing
	}

	params := url.Values{}
	params.Set("token", c.APIKey)
	params.Set("category", "general")

	body, err := doGet(ctx, c.Client, c.BaseURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var payload []finnhubArticle
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceMalformedResponse, err)
	}

	articles := make([]domain.Article, 0, len(payload))
	for _, item := range payload {
		var publishedAt *time.Time
		if item.Datetime > 0 {
			t := time.Unix(item.Datetime, 0).UTC()
			publishedAt = &t
		}
		articles = append(articles, domain.Article{
			Source:      c.Name(),
			SourceName:  item.Source,
			Title:       item.Headline,
			Description: item.Summary,
			Content:     item.Summary,
			URL:         item.URL,
			Category:    "financial",
			PublishedAt: publishedAt,
		})
		if limit > 0 && len(articles) >= limit {
			break
		}
	}
	return articles, nil
}

package newsfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"msme-intel/internal/domain"
)

const (
	marketAuxDefaultURL   = "https://api.marketaux.com/v1/news/all"
	marketAuxDefaultLimit = 10
)

// MarketAuxClient fetches Indian market news from the MarketAux API.
type MarketAuxClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewMarketAuxClient constructs the client. An empty baseURL targets the
// public endpoint.
func NewMarketAuxClient(baseURL, apiKey string, client *http.Client) *MarketAuxClient {
	if baseURL == "" {
		baseURL = marketAuxDefaultURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &MarketAuxClient{BaseURL: baseURL, APIKey: apiKey, Client: client}
}

func (c *MarketAuxClient) Name() string { return "MarketAux" }

type marketAuxResponse struct {
	Data []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Snippet     string `json:"snippet"`
		URL         string `json:"url"`
		PublishedAt string `json:"published_at"`
		Source      string `json:"source"`
	} `json:"data"`
}

// Fetch retrieves market news, optionally narrowed by a keyword search.
func (c *MarketAuxClient) Fetch(ctx context.Context, keywords []string, limit int) ([]domain.Article, error) {
	if c.APIKey == "" {
		return nil, domain.ErrSourceAuthMissing
	}

	size := marketAuxDefaultLimit
	if limit > 0 && limit < size {
		size = limit
	}

	params := url.Values{}
	params.Set("api_token", c.APIKey)
	params.Set("countries", "in")
	params.Set("language", "en")
	params.Set("limit", strconv.Itoa(size))
	if len(keywords) > 0 {
		params.Set("search", strings.Join(keywords, " "))
	}

	body, err := doGet(ctx, c.Client, c.BaseURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var payload marketAuxResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceMalformedResponse, err)
	}

	articles := make([]domain.Article, 0, len(payload.Data))
	for _, item := range payload.Data {
		articles = append(articles, domain.Article{
			Source:      c.Name(),
			SourceName:  item.Source,
			Title:       item.Title,
			Description: item.Description,
			Content:     item.Snippet,
			URL:         item.URL,
			Category:    "market_news",
			PublishedAt: parseTime(item.PublishedAt, time.RFC3339, "2006-01-02T15:04:05.000000Z"),
		})
	}
	return articles, nil
}

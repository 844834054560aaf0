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
	newsDataDefaultURL  = "https://newsdata.io/api/1/news"
	newsDataDefaultSize = 10
	maxQueryKeywords    = 5
)

// NewsDataClient fetches Indian business/technology headlines from the
// NewsData.io API.
type NewsDataClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewNewsDataClient constructs the client. An empty baseURL targets the
// public endpoint.
func NewNewsDataClient(baseURL, apiKey string, client *http.Client) *NewsDataClient {
	if baseURL == "" {
		baseURL = newsDataDefaultURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &NewsDataClient{BaseURL: baseURL, APIKey: apiKey, Client: client}
}

func (c *NewsDataClient) Name() string { return "NewsData.io" }

type newsDataResponse struct {
	Results []struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Content     string   `json:"content"`
		Link        string   `json:"link"`
		PubDate     string   `json:"pubDate"`
		SourceID    string   `json:"source_id"`
		Category    []string `json:"category"`
	} `json:"results"`
}

// Fetch retrieves headlines, optionally narrowed by keywords joined with OR.
func (c *NewsDataClient) Fetch(ctx context.Context, keywords []string, limit int) ([]domain.Article, error) {
	if c.APIKey == "" {
		return nil, domain.ErrSourceAuthMissing
	}

	size := newsDataDefaultSize
	if limit > 0 && limit < size {
		size = limit
	}

	params := url.Values{}
	params.Set("apikey", c.APIKey)
	params.Set("country", "in")
	params.Set("language", "en")
	params.Set("category", "business,technology")
	params.Set("size", strconv.Itoa(size))
	if len(keywords) > 0 {
		capped := keywords
		if len(capped) > maxQueryKeywords {
			capped = capped[:maxQueryKeywords]
		}
		params.Set("q", strings.Join(capped, " OR "))
	}

	body, err := doGet(ctx, c.Client, c.BaseURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var payload newsDataResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceMalformedResponse, err)
	}

	articles := make([]domain.Article, 0, len(payload.Results))
	for _, item := range payload.Results {
		category := "business"
		if len(item.Category) > 0 && item.Category[0] != "" {
			category = item.Category[0]
		}
		articles = append(articles, domain.Article{
			Source:      c.Name(),
			SourceName:  item.SourceID,
			Title:       item.Title,
			Description: item.Description,
			Content:     item.Content,
			URL:         item.Link,
			Category:    category,
			PublishedAt: parseTime(item.PubDate, "2006-01-02 15:04:05", time.RFC3339),
		})
	}
	return articles, nil
}

package newsfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"msme-intel/internal/domain"
)

const (
	alphaVantageDefaultURL = "https://www.alphavantage.co/query"
	alphaVantageMaxItems   = 10
	alphaVantageMaxTopics  = 3
	alphaVantageTimeFormat = "20060102T150405"
)

// AlphaVantageClient fetches news with sentiment from the Alpha Vantage
// NEWS_SENTIMENT endpoint. It is the only provider that supplies sentiment
// labels itself.
type AlphaVantageClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewAlphaVantageClient constructs the client. An empty baseURL targets the
// public endpoint.
func NewAlphaVantageClient(baseURL, apiKey string, client *http.Client) *AlphaVantageClient {
	if baseURL == "" {
		baseURL = alphaVantageDefaultURL
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &AlphaVantageClient{BaseURL: baseURL, APIKey: apiKey, Client: client}
}

func (c *AlphaVantageClient) Name() string { return "Alpha Vantage" }

type alphaVantageResponse struct {
	Feed []struct {
		Title          string  `json:"title"`
		Summary        string  `json:"summary"`
		URL            string  `json:"url"`
		TimePublished  string  `json:"time_published"`
		Source         string  `json:"source"`
		SentimentLabel string  `json:"overall_sentiment_label"`
		SentimentScore float64 `json:"overall_sentiment_score"`
	} `json:"feed"`
}

// Fetch retrieves sentiment-annotated news. Keywords map to topics, capped
// at three; the feed itself is capped at ten items.
func (c *AlphaVantageClient) Fetch(ctx context.Context, keywords []string, limit int) ([]domain.Article, error) {
	if c.APIKey == "" {
		return nil, domain.ErrSourceAuthMissing
	}

	topics := "technology,earnings"
	if len(keywords) > 0 {
		capped := keywords
		if len(capped) > alphaVantageMaxTopics {
			capped = capped[:alphaVantageMaxTopics]
		}
		topics = strings.ToLower(strings.Join(capped, ","))
	}

	params := url.Values{}
	params.Set("function", "NEWS_SENTIMENT")
	params.Set("apikey", c.APIKey)
	params.Set("topics", topics)
	params.Set("limit", "50")

	body, err := doGet(ctx, c.Client, c.BaseURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var payload alphaVantageResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceMalformedResponse, err)
	}

	maxItems := alphaVantageMaxItems
	if limit > 0 && limit < maxItems {
		maxItems = limit
	}

	articles := make([]domain.Article, 0, maxItems)
	for _, item := range payload.Feed {
		if len(articles) >= maxItems {
			break
		}
		sentiment := item.SentimentLabel
		if sentiment == "" {
			sentiment = "neutral"
		}
		articles = append(articles, domain.Article{
			Source:         c.Name(),
			SourceName:     item.Source,
			Title:          item.Title,
			Description:    item.Summary,
			Content:        item.Summary,
			URL:            item.URL,
			Category:       "market_sentiment",
			PublishedAt:    parseTime(item.TimePublished, alphaVantageTimeFormat),
			Sentiment:      strings.ToLower(sentiment),
			SentimentScore: item.SentimentScore,
		})
	}
	return articles, nil
}

package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"msme-intel/internal/domain"

	"github.com/google/uuid"
)

// IngestNewsInput selects what to pull into the index.
type IngestNewsInput struct {
	// Sectors to refresh. Empty means one general fetch.
	Sectors []string
	// PerFetchLimit caps each aggregation call.
	PerFetchLimit int
}

// IngestNewsOutput reports what a refresh run stored.
type IngestNewsOutput struct {
	Fetched  int
	Indexed  int
	Duration time.Duration
}

// IngestNewsUsecase pulls aggregated news and upserts it into the document
// index as type=news entries, so later retrieval can surface recent market
// context alongside company profiles.
type IngestNewsUsecase interface {
	Execute(ctx context.Context, input IngestNewsInput) (*IngestNewsOutput, error)
}

type ingestNewsUsecase struct {
	newsFetcher NewsFetcher
	index       domain.DocumentIndex
	logger      *slog.Logger
}

func NewIngestNewsUsecase(newsFetcher NewsFetcher, index domain.DocumentIndex, logger *slog.Logger) IngestNewsUsecase {
	return &ingestNewsUsecase{newsFetcher: newsFetcher, index: index, logger: logger}
}

func (u *ingestNewsUsecase) Execute(ctx context.Context, input IngestNewsInput) (*IngestNewsOutput, error) {
	startTime := time.Now()

	limit := input.PerFetchLimit
	if limit <= 0 {
		limit = 10
	}

	var articles []domain.Article
	if len(input.Sectors) > 0 {
		seen := make(map[string]bool)
		for _, sector := range input.Sectors {
			for _, article := range u.newsFetcher.FetchForSector(ctx, sector, limit) {
				key := article.NormalizedTitle()
				if seen[key] {
					continue
				}
				seen[key] = true
				articles = append(articles, article)
			}
		}
	} else {
		articles = u.newsFetcher.FetchAll(ctx, nil, limit)
	}

	docs := make([]domain.Document, 0, len(articles))
	for _, article := range articles {
		docs = append(docs, newsDocument(article))
	}

	if err := u.index.Upsert(ctx, docs); err != nil {
		return nil, fmt.Errorf("failed to index news batch: %w", err)
	}

	output := &IngestNewsOutput{
		Fetched:  len(articles),
		Indexed:  len(docs),
		Duration: time.Since(startTime),
	}
	u.logger.Info("news ingestion completed",
		slog.Int("fetched", output.Fetched),
		slog.Int("indexed", output.Indexed),
		slog.Int64("elapsed_ms", output.Duration.Milliseconds()))
	return output, nil
}

// newsDocument flattens an article into index form. The content joins title
// and description so similarity search matches either. IDs are derived from
// the article URL (or title when the provider omits one) so re-ingesting the
// same story overwrites instead of duplicating.
func newsDocument(article domain.Article) domain.Document {
	content := article.Title
	if article.Description != "" {
		content += ". " + article.Description
	}

	idKey := article.URL
	if idKey == "" {
		idKey = article.NormalizedTitle()
	}

	metadata := map[string]string{
		"type":      "news",
		"source":    article.Source,
		"title":     article.Title,
		"url":       article.URL,
		"category":  article.Category,
		"sentiment": article.Sentiment,
		"score":     strconv.FormatFloat(article.SentimentScore, 'f', 4, 64),
	}
	if article.PublishedAt != nil {
		metadata["published_at"] = article.PublishedAt.UTC().Format(time.RFC3339)
	}

	return domain.Document{
		ID:       uuid.NewSHA1(uuid.NameSpaceURL, []byte(idKey)).String(),
		Content:  content,
		Metadata: metadata,
	}
}

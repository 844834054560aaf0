package news

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"msme-intel/internal/domain"

	"golang.org/x/sync/errgroup"
)

const defaultSourceTimeout = 10 * time.Second

// Aggregator fans out to every configured news source concurrently and
// merges the results into one deduplicated, recency-sorted list. A failing
// or throttled source contributes nothing; aggregation itself never fails.
type Aggregator struct {
	sources        []domain.NewsSource
	gate           *SourceGate
	scorer         domain.SentimentScorer
	sectorKeywords map[string][]string
	sourceTimeout  time.Duration
	logger         *slog.Logger
}

// NewAggregator wires the aggregation pipeline. scorer may be nil to skip
// local sentiment scoring; sectorKeywords nil falls back to the default
// sector table.
func NewAggregator(
	sources []domain.NewsSource,
	gate *SourceGate,
	scorer domain.SentimentScorer,
	sectorKeywords map[string][]string,
	sourceTimeout time.Duration,
	logger *slog.Logger,
) *Aggregator {
	if sectorKeywords == nil {
		sectorKeywords = domain.DefaultSectorKeywords()
	}
	if sourceTimeout <= 0 {
		sourceTimeout = defaultSourceTimeout
	}
	return &Aggregator{
		sources:        sources,
		gate:           gate,
		scorer:         scorer,
		sectorKeywords: sectorKeywords,
		sourceTimeout:  sourceTimeout,
		logger:         logger,
	}
}

// FetchAll retrieves general business news from every source. The result
// is deduplicated by normalized title (first occurrence wins), sorted by
// publish time descending with undated articles last, and capped to limit
// only after sorting so late-arriving recent articles are preferred.
func (a *Aggregator) FetchAll(ctx context.Context, keywords []string, limit int) []domain.Article {
	merged := a.fanOut(ctx, keywords)
	return finalize(merged, limit)
}

// FetchForSector retrieves news for one sector and keeps only articles
// mentioning at least one of the sector's keywords.
func (a *Aggregator) FetchForSector(ctx context.Context, sector string, limit int) []domain.Article {
	keywords := a.sectorKeywords[sector]
	merged := a.fanOut(ctx, keywords)

	filtered := merged[:0]
	for _, article := range merged {
		if article.MatchesKeywords(keywords) {
			filtered = append(filtered, article)
		}
	}
	return finalize(filtered, limit)
}

// fanOut issues one call per source concurrently, each under its own
// timeout. Results are collected per source slot and flattened in source
// order so the merge is deterministic for identical source responses.
func (a *Aggregator) fanOut(ctx context.Context, keywords []string) []domain.Article {
	results := make([][]domain.Article, len(a.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, source := range a.sources {
		i, source := i, source
		if a.gate != nil && !a.gate.Allow(source.Name()) {
			a.logger.Warn("news source throttled",
				slog.String("source", source.Name()))
			continue
		}

		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(gctx, a.sourceTimeout)
			defer cancel()

			articles, err := source.Fetch(callCtx, keywords, 0)
			if err != nil {
				a.logger.Warn("news source degraded to empty",
					slog.String("source", source.Name()),
					slog.String("cause", classifySourceError(err).Error()),
					slog.String("error", err.Error()))
				return nil // contained: a failing source never aborts the fan-out
			}
			results[i] = articles
			return nil
		})
	}
	_ = g.Wait()

	var merged []domain.Article
	for _, batch := range results {
		for _, article := range batch {
			if !article.Valid() {
				continue
			}
			merged = append(merged, a.withSentiment(article))
		}
	}
	return merged
}

func (a *Aggregator) withSentiment(article domain.Article) domain.Article {
	if a.scorer == nil || article.Sentiment != "" {
		return article
	}
	text := strings.TrimSpace(article.Title + ". " + article.Description)
	score, label := a.scorer.Score(text)
	article.Sentiment = label
	article.SentimentScore = score
	return article
}

// finalize deduplicates, sorts by recency, and truncates.
func finalize(articles []domain.Article, limit int) []domain.Article {
	seen := make(map[string]bool, len(articles))
	unique := make([]domain.Article, 0, len(articles))
	for _, article := range articles {
		key := article.NormalizedTitle()
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, article)
	}

	// Stable sort keeps the relative fetch order among undated articles.
	sort.SliceStable(unique, func(i, j int) bool {
		ti, tj := unique[i].PublishedAt, unique[j].PublishedAt
		switch {
		case ti == nil:
			return false
		case tj == nil:
			return true
		default:
			return ti.After(*tj)
		}
	})

	if limit > 0 && len(unique) > limit {
		unique = unique[:limit]
	}
	return unique
}

func classifySourceError(err error) error {
	switch {
	case errors.Is(err, domain.ErrSourceTimeout), errors.Is(err, context.DeadlineExceeded):
		return domain.ErrSourceTimeout
	case errors.Is(err, domain.ErrSourceAuthMissing):
		return domain.ErrSourceAuthMissing
	default:
		return domain.ErrSourceMalformedResponse
	}
}

package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"msme-intel/internal/domain"
)

// RetrieveDocumentsInput defines the input parameters for RetrieveDocuments.
type RetrieveDocumentsInput struct {
	Query  string
	Intent domain.QueryIntent
}

// RetrieveDocumentsUsecase fetches company and financial documents from the
// similarity index, steered by the query intent.
type RetrieveDocumentsUsecase interface {
	Execute(ctx context.Context, input RetrieveDocumentsInput) ([]domain.ScoredDocument, error)
}

type retrieveDocumentsUsecase struct {
	index  domain.DocumentIndex
	config RetrievalConfig
	logger *slog.Logger
}

// NewRetrieveDocumentsUsecase creates a new RetrieveDocumentsUsecase.
func NewRetrieveDocumentsUsecase(index domain.DocumentIndex, config RetrievalConfig, logger *slog.Logger) RetrieveDocumentsUsecase {
	return &retrieveDocumentsUsecase{
		index:  index,
		config: config,
		logger: logger,
	}
}

// Execute issues an unfiltered base search, one filtered search per matched
// sector, and a company-filtered financial search when the intent asks for
// financial data. Hits are deduplicated by ID with first-seen precedence
// and capped at MaxDocuments. Individual search failures are logged and
// skipped; the usecase errors only when every search failed.
func (u *retrieveDocumentsUsecase) Execute(ctx context.Context, input RetrieveDocumentsInput) ([]domain.ScoredDocument, error) {
	if input.Query == "" {
		return nil, fmt.Errorf("query is empty")
	}

	type searchCall struct {
		query  string
		limit  int
		filter map[string]string
	}

	calls := []searchCall{
		{query: input.Query, limit: u.config.BaseLimit},
	}
	for _, sector := range input.Intent.Sectors {
		calls = append(calls, searchCall{
			query:  input.Query,
			limit:  u.config.SectorLimit,
			filter: map[string]string{"sector": sector},
		})
	}
	if input.Intent.NeedsFinancial || input.Intent.Type == domain.QueryTypeFinancial {
		calls = append(calls, searchCall{
			query:  input.Query + " financial performance metrics",
			limit:  u.config.FinancialLimit,
			filter: map[string]string{"type": "company"},
		})
	}

	seen := make(map[string]bool)
	var docs []domain.ScoredDocument
	failures := 0

	for _, call := range calls {
		hits, err := u.index.Search(ctx, call.query, call.limit, call.filter)
		if err != nil {
			failures++
			u.logger.Warn("document search degraded",
				slog.Any("filter", call.filter),
				slog.String("error", err.Error()))
			continue
		}
		for _, hit := range hits {
			if seen[hit.ID] {
				continue
			}
			seen[hit.ID] = true
			docs = append(docs, hit)
		}
	}

	if failures == len(calls) {
		return nil, fmt.Errorf("%w: all %d searches failed", domain.ErrRetrievalUnavailable, failures)
	}

	if len(docs) > u.config.MaxDocuments {
		docs = docs[:u.config.MaxDocuments]
	}
	return docs, nil
}

package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"msme-intel/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// QueryPhase tracks where a query is in its lifecycle. Phases only ever
// advance; a query never re-enters a prior phase.
type QueryPhase string

const (
	PhaseReceived           QueryPhase = "received"
	PhaseClassified         QueryPhase = "classified"
	PhaseRetrieving         QueryPhase = "retrieving"
	PhaseAssembling         QueryPhase = "assembling"
	PhaseAwaitingGeneration QueryPhase = "awaiting_generation"
	PhaseCompleted          QueryPhase = "completed"
	PhaseFailed             QueryPhase = "failed"
)

// GenerationApology is returned to the user when generation fails. The
// pipeline up to that point has succeeded and is not discarded.
const GenerationApology = "I apologize, but I encountered an error while processing your request. " +
	"Please try again or rephrase your question."

// NewsFetcher is the slice of the aggregation pipeline the orchestrator
// needs. Both methods degrade internally and never fail.
type NewsFetcher interface {
	FetchAll(ctx context.Context, keywords []string, limit int) []domain.Article
	FetchForSector(ctx context.Context, sector string, limit int) []domain.Article
}

// OrchestratorConfig bounds the per-query pipeline.
type OrchestratorConfig struct {
	// SoftDeadline caps the whole retrieval stage; assembly proceeds with
	// whatever arrived by then.
	SoftDeadline time.Duration
	// SectorNewsLimit is how many articles to request per matched sector.
	SectorNewsLimit int
	// GeneralNewsLimit is how many articles to request when no sector matched.
	GeneralNewsLimit int
	// NewsContextLimit caps the merged article list handed to assembly.
	NewsContextLimit int
	// MaxTokens bounds the generation call.
	MaxTokens int
}

// DefaultOrchestratorConfig returns the corpus defaults.
func DefaultOrchestratorConfig() OrchestratorConfig {
	return OrchestratorConfig{
		SoftDeadline:     20 * time.Second,
		SectorNewsLimit:  5,
		GeneralNewsLimit: 8,
		NewsContextLimit: 10,
		MaxTokens:        1024,
	}
}

// AnswerQueryInput carries one user turn plus its session snapshot.
type AnswerQueryInput struct {
	Query string
	// History is the session snapshot taken before classification. Appending
	// the completed turn is the caller's responsibility so per-session
	// completion ordering stays outside the pipeline.
	History     []domain.ConversationTurn
	IncludeNews bool
}

// AnswerQueryOutput is the completed pipeline result.
type AnswerQueryOutput struct {
	RequestID string
	Answer    string
	Intent    domain.QueryIntent
	Blocks    []domain.ContextBlock
	Articles  []domain.Article
	Fallback  bool
	Phase     QueryPhase
}

// AnswerQueryUsecase coordinates classification, parallel retrieval,
// assembly, and generation for one query.
type AnswerQueryUsecase interface {
	Execute(ctx context.Context, input AnswerQueryInput) (*AnswerQueryOutput, error)
}

type answerQueryUsecase struct {
	classifier    *domain.IntentClassifier
	retrieve      RetrieveDocumentsUsecase
	newsFetcher   NewsFetcher
	assembler     *ContextAssembler
	promptBuilder PromptBuilder
	llmClient     domain.LLMClient
	config        OrchestratorConfig
	logger        *slog.Logger
}

// NewAnswerQueryUsecase wires together the query pipeline.
func NewAnswerQueryUsecase(
	classifier *domain.IntentClassifier,
	retrieve RetrieveDocumentsUsecase,
	newsFetcher NewsFetcher,
	assembler *ContextAssembler,
	promptBuilder PromptBuilder,
	llmClient domain.LLMClient,
	config OrchestratorConfig,
	logger *slog.Logger,
) AnswerQueryUsecase {
	return &answerQueryUsecase{
		classifier:    classifier,
		retrieve:      retrieve,
		newsFetcher:   newsFetcher,
		assembler:     assembler,
		promptBuilder: promptBuilder,
		llmClient:     llmClient,
		config:        config,
		logger:        logger,
	}
}

func (u *answerQueryUsecase) Execute(ctx context.Context, input AnswerQueryInput) (*AnswerQueryOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, fmt.Errorf("query is required")
	}

	requestID := uuid.NewString()
	phase := PhaseReceived
	advance := func(next QueryPhase) {
		phase = next
		u.logger.Debug("query phase",
			slog.String("request_id", requestID),
			slog.String("phase", string(phase)))
	}
	advance(PhaseReceived)

	// Classification is synchronous and never fails.
	intent := u.classifier.Classify(input.Query)
	advance(PhaseClassified)

	// Both retrieval branches run concurrently under the soft deadline;
	// each degrades to an empty contribution on error or timeout.
	advance(PhaseRetrieving)
	retrievalCtx, cancel := context.WithTimeout(ctx, u.config.SoftDeadline)
	defer cancel()

	var docs []domain.ScoredDocument
	var articles []domain.Article

	g, gctx := errgroup.WithContext(retrievalCtx)
	g.Go(func() error {
		retrieved, err := u.retrieve.Execute(gctx, RetrieveDocumentsInput{Query: input.Query, Intent: intent})
		if err != nil {
			u.logger.Warn("document retrieval degraded to empty",
				slog.String("request_id", requestID),
				slog.String("error", err.Error()))
			return nil
		}
		docs = retrieved
		return nil
	})
	g.Go(func() error {
		if !input.IncludeNews || !u.wantsNews(intent) {
			return nil
		}
		articles = u.fetchRelevantNews(gctx, intent)
		return nil
	})
	_ = g.Wait()

	advance(PhaseAssembling)
	blocks, err := u.assembler.Assemble(docs, articles)
	if err != nil {
		// Budget violations are programming defects, not runtime conditions.
		advance(PhaseFailed)
		return nil, err
	}

	advance(PhaseAwaitingGeneration)
	messages := u.promptBuilder.Build(PromptInput{
		Query:   input.Query,
		Intent:  intent,
		Blocks:  blocks,
		History: input.History,
	})

	output := &AnswerQueryOutput{
		RequestID: requestID,
		Intent:    intent,
		Blocks:    blocks,
		Articles:  articles,
	}

	answer, err := u.llmClient.Generate(ctx, messages, u.config.MaxTokens)
	if err != nil || strings.TrimSpace(answer) == "" {
		if err != nil {
			u.logger.Warn("generation failed",
				slog.String("request_id", requestID),
				slog.String("error", err.Error()))
		}
		output.Answer = GenerationApology
		output.Fallback = true
	} else {
		output.Answer = strings.TrimSpace(answer)
	}

	advance(PhaseCompleted)
	output.Phase = phase
	return output, nil
}

// wantsNews mirrors the classifier's needs flags plus the sector heuristic:
// a query naming a sector benefits from that sector's headlines.
func (u *answerQueryUsecase) wantsNews(intent domain.QueryIntent) bool {
	return intent.NeedsNews ||
		intent.Type == domain.QueryTypeNews ||
		intent.Type == domain.QueryTypeTrend ||
		len(intent.Sectors) > 0
}

// fetchRelevantNews pulls sector-specific news for each matched sector, or
// the general feed when no sector matched, then dedups across sectors and
// caps the merged list.
func (u *answerQueryUsecase) fetchRelevantNews(ctx context.Context, intent domain.QueryIntent) []domain.Article {
	var collected []domain.Article
	if len(intent.Sectors) > 0 {
		for _, sector := range intent.Sectors {
			collected = append(collected, u.newsFetcher.FetchForSector(ctx, sector, u.config.SectorNewsLimit)...)
		}
	} else {
		collected = u.newsFetcher.FetchAll(ctx, nil, u.config.GeneralNewsLimit)
	}

	seen := make(map[string]bool, len(collected))
	merged := collected[:0]
	for _, article := range collected {
		key := article.NormalizedTitle()
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, article)
	}

	if len(merged) > u.config.NewsContextLimit {
		merged = merged[:u.config.NewsContextLimit]
	}
	return merged
}

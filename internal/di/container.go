package di

import (
	"log/slog"

	"msme-intel/internal/adapter/llm"
	"msme-intel/internal/adapter/newsfeed"
	"msme-intel/internal/adapter/rest"
	"msme-intel/internal/adapter/sentiment"
	"msme-intel/internal/adapter/vectordb"
	"msme-intel/internal/domain"
	"msme-intel/internal/infra/config"
	"msme-intel/internal/infra/httpclient"
	"msme-intel/internal/session"
	"msme-intel/internal/usecase"
	"msme-intel/internal/usecase/news"
	"msme-intel/internal/worker"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// ApplicationComponents holds all wired dependencies for the application.
type ApplicationComponents struct {
	Index domain.DocumentIndex

	Aggregator      *news.Aggregator
	AnswerUsecase   usecase.AnswerQueryUsecase
	AnalysisUsecase usecase.AnalysisUsecase
	IngestUsecase   usecase.IngestNewsUsecase

	Sessions *session.Registry
	Handler  *rest.Handler
	Worker   *worker.RefreshWorker
}

// NewApplicationComponents wires all dependencies from config.
func NewApplicationComponents(cfg *config.Config, log *slog.Logger) (*ApplicationComponents, error) {
	// Shared HTTP clients with connection pooling
	sourceHTTP := httpclient.NewPooledClient(cfg.SourceTimeout)
	indexHTTP := httpclient.NewPooledClient(cfg.SoftDeadline)

	// External clients
	index := vectordb.NewChromaClient(cfg.ChromaURL, cfg.ChromaCollection, cfg.SoftDeadline, log, indexHTTP)
	generator := llm.NewOpenAIGenerator(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, log)

	sources := []domain.NewsSource{
		newsfeed.NewNewsDataClient("", cfg.NewsDataKey, sourceHTTP),
		newsfeed.NewFinnhubClient("", cfg.FinnhubKey, sourceHTTP),
		newsfeed.NewAlphaVantageClient("", cfg.AlphaVantageKey, sourceHTTP),
		newsfeed.NewMarketAuxClient("", cfg.MarketAuxKey, sourceHTTP),
	}

	// Aggregation pipeline
	gate := news.NewSourceGate(cfg.SourceRateInterval)
	scorer := sentiment.NewVaderScorer()
	aggregator := news.NewAggregator(sources, gate, scorer, nil, cfg.SourceTimeout, log)

	// Query pipeline
	classifier := domain.NewIntentClassifier(nil)
	retrieveUsecase := usecase.NewRetrieveDocumentsUsecase(index, usecase.DefaultRetrievalConfig(), log)

	assemblerConfig := usecase.AssemblerConfig{
		Budget:          cfg.ContextBudget,
		DocumentBudget:  cfg.DocumentBudget,
		DocumentItemCap: cfg.DocumentItemCap,
		NewsItemCap:     cfg.NewsItemCap,
	}
	if err := assemblerConfig.Validate(); err != nil {
		return nil, err
	}
	assembler := usecase.NewContextAssembler(assemblerConfig)

	orchestratorConfig := usecase.DefaultOrchestratorConfig()
	orchestratorConfig.SoftDeadline = cfg.SoftDeadline

	answerUsecase := usecase.NewAnswerQueryUsecase(
		classifier, retrieveUsecase, aggregator, assembler,
		usecase.NewSectionedPromptBuilder(), generator,
		orchestratorConfig, log,
	)

	analysisUsecase := usecase.NewAnalysisUsecase(answerUsecase)

	// Ingestion and background refresh
	ingestUsecase := usecase.NewIngestNewsUsecase(aggregator, index, log)
	refreshWorker := worker.NewRefreshWorker(ingestUsecase, nil, cfg.RefreshInterval, log)

	// HTTP surface
	sessions, err := session.NewRegistry(cfg.SessionCapacity, cfg.HistoryCapacity)
	if err != nil {
		return nil, err
	}
	handler := rest.NewHandler(answerUsecase, aggregator, sessions, Version)

	return &ApplicationComponents{
		Index:           index,
		Aggregator:      aggregator,
		AnswerUsecase:   answerUsecase,
		AnalysisUsecase: analysisUsecase,
		IngestUsecase:   ingestUsecase,
		Sessions:        sessions,
		Handler:         handler,
		Worker:          refreshWorker,
	}, nil
}

package usecase_test

import (
	"context"
	"testing"
	"time"

	"msme-intel/internal/domain"
	"msme-intel/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockRetrieveDocuments
type mockRetrieveDocuments struct {
	mock.Mock
}

func (m *mockRetrieveDocuments) Execute(ctx context.Context, input usecase.RetrieveDocumentsInput) ([]domain.ScoredDocument, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScoredDocument), args.Error(1)
}

// mockLLMClient
type mockLLMClient struct {
	mock.Mock
}

func (m *mockLLMClient) Generate(ctx context.Context, messages []domain.Message, maxTokens int) (string, error) {
	args := m.Called(ctx, messages, maxTokens)
	return args.String(0), args.Error(1)
}

type stubNewsFetcher struct {
	all       []domain.Article
	bySector  map[string][]domain.Article
	sectorLog []string
}

func (s *stubNewsFetcher) FetchAll(ctx context.Context, keywords []string, limit int) []domain.Article {
	if limit > 0 && len(s.all) > limit {
		return s.all[:limit]
	}
	return s.all
}

func (s *stubNewsFetcher) FetchForSector(ctx context.Context, sector string, limit int) []domain.Article {
	s.sectorLog = append(s.sectorLog, sector)
	articles := s.bySector[sector]
	if limit > 0 && len(articles) > limit {
		return articles[:limit]
	}
	return articles
}

func newOrchestrator(retrieve usecase.RetrieveDocumentsUsecase, fetcher usecase.NewsFetcher, llm domain.LLMClient) usecase.AnswerQueryUsecase {
	return usecase.NewAnswerQueryUsecase(
		domain.NewIntentClassifier(nil),
		retrieve,
		fetcher,
		usecase.NewContextAssembler(usecase.DefaultAssemblerConfig()),
		usecase.NewSectionedPromptBuilder(),
		llm,
		usecase.DefaultOrchestratorConfig(),
		discardLogger(),
	)
}

func TestAnswerQuery_Execute_FullPipeline(t *testing.T) {
	retrieve := new(mockRetrieveDocuments)
	llm := new(mockLLMClient)
	fetcher := &stubNewsFetcher{
		bySector: map[string][]domain.Article{
			"Technology": {{Source: "Finnhub", Title: "Chip demand surges"}},
		},
	}
	uc := newOrchestrator(retrieve, fetcher, llm)

	retrieve.On("Execute", mock.Anything, mock.MatchedBy(func(input usecase.RetrieveDocumentsInput) bool {
		return input.Query == "Latest news about software companies" && input.Intent.Type == domain.QueryTypeNews
	})).Return([]domain.ScoredDocument{
		{ID: "c1", Content: "Acme Soft builds platforms", Metadata: map[string]string{"type": "company"}},
	}, nil)
	llm.On("Generate", mock.Anything, mock.Anything, 1024).Return("Here is the latest.", nil)

	output, err := uc.Execute(context.Background(), usecase.AnswerQueryInput{
		Query:       "Latest news about software companies",
		IncludeNews: true,
	})

	require.NoError(t, err)
	assert.Equal(t, "Here is the latest.", output.Answer)
	assert.False(t, output.Fallback)
	assert.Equal(t, usecase.PhaseCompleted, output.Phase)
	assert.Equal(t, domain.QueryTypeNews, output.Intent.Type)
	assert.Equal(t, []string{"Technology"}, fetcher.sectorLog)
	assert.NotEmpty(t, output.RequestID)
	require.Len(t, output.Articles, 1)

	// The prompt carried both tiers.
	messages := llm.Calls[0].Arguments.Get(1).([]domain.Message)
	prompt := messages[len(messages)-1].Content
	assert.Contains(t, prompt, "Acme Soft builds platforms")
	assert.Contains(t, prompt, "Chip demand surges")
}

func TestAnswerQuery_Execute_RetrievalDegradesToEmpty(t *testing.T) {
	retrieve := new(mockRetrieveDocuments)
	llm := new(mockLLMClient)
	uc := newOrchestrator(retrieve, &stubNewsFetcher{}, llm)

	retrieve.On("Execute", mock.Anything, mock.Anything).Return(nil, domain.ErrRetrievalUnavailable)
	llm.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("Answer without data.", nil)

	output, err := uc.Execute(context.Background(), usecase.AnswerQueryInput{
		Query:       "Tell me something",
		IncludeNews: true,
	})

	require.NoError(t, err)
	assert.False(t, output.Fallback)
	require.Len(t, output.Blocks, 1)
	assert.Equal(t, domain.BlockKindMarker, output.Blocks[0].Kind)

	messages := llm.Calls[0].Arguments.Get(1).([]domain.Message)
	assert.Contains(t, messages[len(messages)-1].Content, usecase.NoDataMarker)
}

func TestAnswerQuery_Execute_GenerationFailureIsSoft(t *testing.T) {
	retrieve := new(mockRetrieveDocuments)
	llm := new(mockLLMClient)
	uc := newOrchestrator(retrieve, &stubNewsFetcher{}, llm)

	retrieve.On("Execute", mock.Anything, mock.Anything).Return([]domain.ScoredDocument{
		{ID: "c1", Content: "kept context"},
	}, nil)
	llm.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", domain.ErrGenerationFailure)

	output, err := uc.Execute(context.Background(), usecase.AnswerQueryInput{Query: "any question"})

	require.NoError(t, err)
	assert.True(t, output.Fallback)
	assert.Equal(t, usecase.GenerationApology, output.Answer)
	// The assembled context survives a generation failure.
	require.NotEmpty(t, output.Blocks)
	assert.Contains(t, output.Blocks[0].Text, "kept context")
	assert.Equal(t, usecase.PhaseCompleted, output.Phase)
}

func TestAnswerQuery_Execute_NewsSkippedWhenNotWanted(t *testing.T) {
	retrieve := new(mockRetrieveDocuments)
	llm := new(mockLLMClient)
	fetcher := &stubNewsFetcher{all: []domain.Article{{Title: "should not appear"}}}
	uc := newOrchestrator(retrieve, fetcher, llm)

	retrieve.On("Execute", mock.Anything, mock.Anything).Return([]domain.ScoredDocument{{ID: "c1", Content: "doc"}}, nil)
	llm.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("ok", nil)

	output, err := uc.Execute(context.Background(), usecase.AnswerQueryInput{
		Query:       "Tell me about small enterprises",
		IncludeNews: true,
	})

	require.NoError(t, err)
	assert.Empty(t, output.Articles)
}

func TestAnswerQuery_Execute_CrossSectorDedup(t *testing.T) {
	retrieve := new(mockRetrieveDocuments)
	llm := new(mockLLMClient)
	shared := domain.Article{Source: "NewsData.io", Title: "Factory automation spreads"}
	fetcher := &stubNewsFetcher{
		bySector: map[string][]domain.Article{
			"Manufacturing": {shared},
			"Technology":    {shared, {Source: "Finnhub", Title: "Cloud spending up"}},
		},
	}
	uc := newOrchestrator(retrieve, fetcher, llm)

	retrieve.On("Execute", mock.Anything, mock.Anything).Return(nil, domain.ErrRetrievalUnavailable)
	llm.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("ok", nil)

	output, err := uc.Execute(context.Background(), usecase.AnswerQueryInput{
		Query:       "Compare automation trends in manufacturing and cloud software",
		IncludeNews: true,
	})

	require.NoError(t, err)
	assert.Len(t, output.Articles, 2)
}

func TestAnswerQuery_Execute_EmptyQuery(t *testing.T) {
	uc := newOrchestrator(new(mockRetrieveDocuments), &stubNewsFetcher{}, new(mockLLMClient))

	_, err := uc.Execute(context.Background(), usecase.AnswerQueryInput{Query: "   "})
	assert.Error(t, err)
}

func TestAnswerQuery_Execute_SlowNewsBoundedBySoftDeadline(t *testing.T) {
	retrieve := new(mockRetrieveDocuments)
	llm := new(mockLLMClient)
	uc := usecase.NewAnswerQueryUsecase(
		domain.NewIntentClassifier(nil),
		retrieve,
		slowNewsFetcher{},
		usecase.NewContextAssembler(usecase.DefaultAssemblerConfig()),
		usecase.NewSectionedPromptBuilder(),
		llm,
		usecase.OrchestratorConfig{
			SoftDeadline:     100 * time.Millisecond,
			SectorNewsLimit:  5,
			GeneralNewsLimit: 8,
			NewsContextLimit: 10,
			MaxTokens:        256,
		},
		discardLogger(),
	)

	retrieve.On("Execute", mock.Anything, mock.Anything).Return([]domain.ScoredDocument{{ID: "c1", Content: "doc"}}, nil)
	llm.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("ok", nil)

	start := time.Now()
	output, err := uc.Execute(context.Background(), usecase.AnswerQueryInput{
		Query:       "latest market news",
		IncludeNews: true,
	})

	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Empty(t, output.Articles)
	assert.False(t, output.Fallback)
}

type slowNewsFetcher struct{}

func (slowNewsFetcher) FetchAll(ctx context.Context, keywords []string, limit int) []domain.Article {
	<-ctx.Done()
	return nil
}

func (slowNewsFetcher) FetchForSector(ctx context.Context, sector string, limit int) []domain.Article {
	<-ctx.Done()
	return nil
}

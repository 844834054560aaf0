package usecase_test

import (
	"strings"
	"testing"

	"msme-intel/internal/domain"
	"msme-intel/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionedPromptBuilder_Build(t *testing.T) {
	builder := usecase.NewSectionedPromptBuilder()

	input := usecase.PromptInput{
		Query:  "How did textile exporters perform?",
		Intent: domain.QueryIntent{Type: domain.QueryTypeFinancial},
		Blocks: []domain.ContextBlock{
			{Kind: domain.BlockKindCompany, Text: "Acme Textiles: record year", Tier: domain.TierDocuments},
			{Kind: domain.BlockKindNews, Text: "[Finnhub] Cotton prices fall", Tier: domain.TierNews},
		},
	}

	messages := builder.Build(input)

	require.Len(t, messages, 2)
	assert.Equal(t, domain.RoleSystem, messages[0].Role)
	assert.Contains(t, messages[0].Content, "financial metrics")

	user := messages[1]
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Contains(t, user.Content, "=== COMPANY AND FINANCIAL DATA ===")
	assert.Contains(t, user.Content, "=== RECENT NEWS AND MARKET UPDATES ===")
	assert.Contains(t, user.Content, "Acme Textiles: record year")
	assert.Contains(t, user.Content, "USER QUESTION: How did textile exporters perform?")

	// Tier-1 section must precede tier-2.
	docIdx := strings.Index(user.Content, "COMPANY AND FINANCIAL DATA")
	newsIdx := strings.Index(user.Content, "RECENT NEWS AND MARKET UPDATES")
	assert.Less(t, docIdx, newsIdx)
}

func TestSectionedPromptBuilder_HistoryExcerpt(t *testing.T) {
	builder := usecase.NewSectionedPromptBuilder()

	input := usecase.PromptInput{
		Query:  "And healthcare?",
		Intent: domain.QueryIntent{Type: domain.QueryTypeGeneral},
		Blocks: []domain.ContextBlock{{Kind: domain.BlockKindMarker, Text: usecase.NoDataMarker, Tier: domain.TierDocuments}},
		History: []domain.ConversationTurn{
			{User: "q1", Assistant: "a1"},
			{User: "q2", Assistant: "a2"},
			{User: "q3", Assistant: strings.Repeat("long", 100)},
		},
	}

	messages := builder.Build(input)

	require.Len(t, messages, 3)
	excerpt := messages[1].Content
	assert.Contains(t, excerpt, "Previous conversation context:")
	// Only the last two exchanges ride along.
	assert.NotContains(t, excerpt, "q1")
	assert.Contains(t, excerpt, "q2")
	assert.Contains(t, excerpt, "q3")
	// Long prior answers are truncated.
	assert.Contains(t, excerpt, "...")
}

func TestSectionedPromptBuilder_MarkerSkipsSectionHeader(t *testing.T) {
	builder := usecase.NewSectionedPromptBuilder()

	messages := builder.Build(usecase.PromptInput{
		Query:  "anything",
		Intent: domain.QueryIntent{Type: domain.QueryTypeNews},
		Blocks: []domain.ContextBlock{{Kind: domain.BlockKindMarker, Text: usecase.NoDataMarker, Tier: domain.TierDocuments}},
	})

	require.Len(t, messages, 2)
	assert.NotContains(t, messages[1].Content, "COMPANY AND FINANCIAL DATA")
	assert.Contains(t, messages[1].Content, usecase.NoDataMarker)
}

func TestSystemPromptSpecialization(t *testing.T) {
	builder := usecase.NewSectionedPromptBuilder()

	cases := map[domain.QueryType]string{
		domain.QueryTypeComparison: "comparative analysis",
		domain.QueryTypeTrend:      "forward-looking",
		domain.QueryTypeNews:       "market developments",
		domain.QueryTypeGeneral:    "well-structured responses",
	}
	for queryType, want := range cases {
		messages := builder.Build(usecase.PromptInput{
			Query:  "q",
			Intent: domain.QueryIntent{Type: queryType},
			Blocks: []domain.ContextBlock{{Kind: domain.BlockKindMarker, Text: usecase.NoDataMarker}},
		})
		assert.Contains(t, messages[0].Content, want, "type %s", queryType)
	}
}

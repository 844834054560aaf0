package usecase

import (
	"strings"

	"msme-intel/internal/domain"
)

const basePrompt = "You are an expert MSME (Micro, Small, and Medium Enterprise) market intelligence analyst " +
	"with deep knowledge of Indian business markets, financial analysis, and industry trends. You specialize " +
	"in providing actionable insights for MSME companies across Manufacturing, Food Processing, Technology, " +
	"Healthcare, and Textiles sectors."

// typePrompts specialize the system instructions per query type.
var typePrompts = map[domain.QueryType]string{
	domain.QueryTypeFinancial: " Focus on financial metrics, ratios, performance analysis, and provide specific " +
		"numerical insights. Compare companies when relevant and highlight growth patterns.",
	domain.QueryTypeNews: " Focus on recent market developments, news analysis, and their implications for MSME " +
		"companies. Provide timely insights and trend analysis.",
	domain.QueryTypeComparison: " Provide detailed comparative analysis between companies, sectors, or metrics. " +
		"Use tables or structured comparisons when helpful.",
	domain.QueryTypeTrend: " Focus on identifying patterns, trends, and market movements. Provide forward-looking " +
		"insights and strategic recommendations.",
	domain.QueryTypeGeneral: " Provide comprehensive, well-structured responses that combine company data, " +
		"financial insights, and market intelligence.",
}

// historyExcerptTurns is how many prior exchanges ride along as context.
const historyExcerptTurns = 2

// historyAnswerCap truncates prior assistant answers inside the excerpt.
const historyAnswerCap = 200

// PromptInput carries the pieces that feed into the prompt builder.
type PromptInput struct {
	Query   string
	Intent  domain.QueryIntent
	Blocks  []domain.ContextBlock
	History []domain.ConversationTurn
}

// PromptBuilder renders the ordered message list sent to the chat model.
type PromptBuilder interface {
	Build(input PromptInput) []domain.Message
}

// SectionedPromptBuilder emits a system message specialized to the query
// type, an optional recent-history excerpt, and a user message holding the
// assembled context sections followed by the question.
type SectionedPromptBuilder struct{}

// NewSectionedPromptBuilder creates the default prompt builder.
func NewSectionedPromptBuilder() PromptBuilder {
	return &SectionedPromptBuilder{}
}

// Build renders the messages. The context block order produced by the
// assembler is preserved verbatim.
func (b *SectionedPromptBuilder) Build(input PromptInput) []domain.Message {
	messages := []domain.Message{
		{Role: domain.RoleSystem, Content: systemPrompt(input.Intent.Type)},
	}

	if excerpt := historyExcerpt(input.History); excerpt != "" {
		messages = append(messages, domain.Message{Role: domain.RoleUser, Content: excerpt})
	}

	messages = append(messages, domain.Message{Role: domain.RoleUser, Content: userPrompt(input)})
	return messages
}

func systemPrompt(queryType domain.QueryType) string {
	suffix, ok := typePrompts[queryType]
	if !ok {
		suffix = typePrompts[domain.QueryTypeGeneral]
	}
	return basePrompt + suffix
}

func historyExcerpt(history []domain.ConversationTurn) string {
	if len(history) == 0 {
		return ""
	}
	if len(history) > historyExcerptTurns {
		history = history[len(history)-historyExcerptTurns:]
	}

	var sb strings.Builder
	sb.WriteString("Previous conversation context:\n")
	for _, turn := range history {
		sb.WriteString("User: ")
		sb.WriteString(turn.User)
		sb.WriteString("\nAssistant: ")
		answer := []rune(turn.Assistant)
		if len(answer) > historyAnswerCap {
			sb.WriteString(string(answer[:historyAnswerCap]))
			sb.WriteString("...")
		} else {
			sb.WriteString(turn.Assistant)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func userPrompt(input PromptInput) string {
	var sb strings.Builder
	sb.WriteString("Based on the following context about MSME companies, financial data, and market news, " +
		"please answer the user's question comprehensively.\n\nCONTEXT:\n")

	wroteDocHeader := false
	wroteNewsHeader := false
	for _, block := range input.Blocks {
		switch block.Tier {
		case domain.TierDocuments:
			if !wroteDocHeader && block.Kind != domain.BlockKindMarker {
				sb.WriteString("=== COMPANY AND FINANCIAL DATA ===\n")
				wroteDocHeader = true
			}
		case domain.TierNews:
			if !wroteNewsHeader {
				sb.WriteString("\n=== RECENT NEWS AND MARKET UPDATES ===\n")
				wroteNewsHeader = true
			}
		}
		sb.WriteString("• ")
		sb.WriteString(block.Text)
		sb.WriteString("\n")
	}

	sb.WriteString("\nUSER QUESTION: ")
	sb.WriteString(input.Query)
	sb.WriteString("\n\nPlease provide a detailed, accurate response that:\n" +
		"1. Directly answers the user's question\n" +
		"2. Uses specific data and examples from the context\n" +
		"3. Provides actionable insights where relevant\n" +
		"4. Mentions sources when citing specific information\n" +
		"5. Highlights any important trends or patterns\n")
	return sb.String()
}

// Package llm adapts the OpenAI chat completions API to domain.LLMClient.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"msme-intel/internal/domain"
)

const (
	defaultModel          = openai.GPT3Dot5Turbo
	generationTemperature = 0.3
	requestTimeout        = 60 * time.Second
)

// OpenAIGenerator sends the assembled message list to the chat completions
// endpoint and returns the assistant message.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewOpenAIGenerator constructs a generator. An empty baseURL targets the
// public API; an empty model falls back to gpt-3.5-turbo.
func NewOpenAIGenerator(apiKey, baseURL, model string, logger *slog.Logger) *OpenAIGenerator {
	config := openai.DefaultConfig(apiKey)
	config.HTTPClient = &http.Client{Timeout: requestTimeout}
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if model == "" {
		model = defaultModel
	}
	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(config),
		model:  model,
		logger: logger,
	}
}

// Generate sends the messages and returns the trimmed assistant reply.
func (g *OpenAIGenerator) Generate(ctx context.Context, messages []domain.Message, maxTokens int) (string, error) {
	chatMessages := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		chatMessages[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	startTime := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    chatMessages,
		MaxTokens:   maxTokens,
		Temperature: generationTemperature,
	})
	if err != nil {
		g.logger.Warn("generation_failed",
			slog.String("model", g.model),
			slog.String("error", err.Error()),
			slog.Int64("elapsed_ms", time.Since(startTime).Milliseconds()))
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailure, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: response contained no choices", domain.ErrGenerationFailure)
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	g.logger.Info("generation_completed",
		slog.String("model", g.model),
		slog.String("finish_reason", string(resp.Choices[0].FinishReason)),
		slog.Int64("elapsed_ms", time.Since(startTime).Milliseconds()))

	return answer, nil
}

// ModelName returns the model identifier for logging/debugging.
func (g *OpenAIGenerator) ModelName() string {
	return g.model
}

var _ domain.LLMClient = (*OpenAIGenerator)(nil)

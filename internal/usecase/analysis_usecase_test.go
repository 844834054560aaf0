package usecase_test

import (
	"context"
	"strings"
	"testing"

	"msme-intel/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingAnswer struct {
	input usecase.AnswerQueryInput
}

func (c *capturingAnswer) Execute(_ context.Context, input usecase.AnswerQueryInput) (*usecase.AnswerQueryOutput, error) {
	c.input = input
	return &usecase.AnswerQueryOutput{Answer: "done"}, nil
}

func TestAnalysisUsecase_SectorSummary(t *testing.T) {
	answer := &capturingAnswer{}
	u := usecase.NewAnalysisUsecase(answer)

	output, err := u.SectorSummary(context.Background(), "Textiles")
	require.NoError(t, err)
	assert.Equal(t, "done", output.Answer)
	assert.True(t, strings.Contains(answer.input.Query, "Textiles sector"))
	assert.True(t, answer.input.IncludeNews)
}

func TestAnalysisUsecase_CompanyAnalysis(t *testing.T) {
	answer := &capturingAnswer{}
	u := usecase.NewAnalysisUsecase(answer)

	output, err := u.CompanyAnalysis(context.Background(), "Sharma Textiles")
	require.NoError(t, err)
	assert.Equal(t, "done", output.Answer)
	assert.True(t, strings.Contains(answer.input.Query, "analysis of Sharma Textiles"))
}

func TestAnalysisUsecase_RequiresSubject(t *testing.T) {
	u := usecase.NewAnalysisUsecase(&capturingAnswer{})

	_, err := u.SectorSummary(context.Background(), "  ")
	assert.Error(t, err)

	_, err = u.CompanyAnalysis(context.Background(), "")
	assert.Error(t, err)
}

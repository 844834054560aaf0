package usecase

import (
	"context"
	"fmt"
	"strings"
)

// AnalysisUsecase offers the canned convenience queries: a whole-sector
// summary and a single-company analysis. Both are templated questions
// routed through the normal answer pipeline so they inherit its retrieval,
// budgeting, and degradation behavior.
type AnalysisUsecase interface {
	SectorSummary(ctx context.Context, sector string) (*AnswerQueryOutput, error)
	CompanyAnalysis(ctx context.Context, company string) (*AnswerQueryOutput, error)
}

type analysisUsecase struct {
	answer AnswerQueryUsecase
}

func NewAnalysisUsecase(answer AnswerQueryUsecase) AnalysisUsecase {
	return &analysisUsecase{answer: answer}
}

func (u *analysisUsecase) SectorSummary(ctx context.Context, sector string) (*AnswerQueryOutput, error) {
	sector = strings.TrimSpace(sector)
	if sector == "" {
		return nil, fmt.Errorf("sector is required")
	}
	query := fmt.Sprintf(
		"Provide a summary of the %s sector: overall performance, key companies, recent trends and growth outlook.",
		sector)
	return u.answer.Execute(ctx, AnswerQueryInput{Query: query, IncludeNews: true})
}

func (u *analysisUsecase) CompanyAnalysis(ctx context.Context, company string) (*AnswerQueryOutput, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return nil, fmt.Errorf("company is required")
	}
	query := fmt.Sprintf(
		"Provide a detailed analysis of %s: financial performance, revenue, profit, market position and recent developments.",
		company)
	return u.answer.Execute(ctx, AnswerQueryInput{Query: query, IncludeNews: true})
}

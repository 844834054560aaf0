package usecase

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"msme-intel/internal/domain"
)

// NoDataMarker is admitted as the sole block when every source came back
// empty, so generation always proceeds with an explicit signal instead of
// aborting.
const NoDataMarker = "No supporting company, financial, or news data was found for this query."

// AssemblerConfig holds the size and priority budget for context assembly.
// All sizes are in runes of rendered text.
type AssemblerConfig struct {
	// Budget is the total rendered size across all admitted blocks.
	Budget int
	// DocumentBudget is the tier-1 sub-budget for company/financial blocks.
	DocumentBudget int
	// DocumentItemCap truncates each rendered document before admission.
	DocumentItemCap int
	// NewsItemCap truncates each rendered article before admission.
	NewsItemCap int
}

// DefaultAssemblerConfig mirrors the corpus defaults: roughly ten document
// excerpts and eight news excerpts fit the budget.
func DefaultAssemblerConfig() AssemblerConfig {
	return AssemblerConfig{
		Budget:          6000,
		DocumentBudget:  4200,
		DocumentItemCap: 500,
		NewsItemCap:     300,
	}
}

// Validate checks the budget configuration.
func (c AssemblerConfig) Validate() error {
	if c.Budget <= 0 {
		return fmt.Errorf("budget must be positive, got %d", c.Budget)
	}
	if c.DocumentBudget <= 0 || c.DocumentBudget > c.Budget {
		return fmt.Errorf("document budget must be in (0, %d], got %d", c.Budget, c.DocumentBudget)
	}
	if c.DocumentItemCap <= 0 || c.NewsItemCap <= 0 {
		return fmt.Errorf("item caps must be positive, got %d and %d", c.DocumentItemCap, c.NewsItemCap)
	}
	return nil
}

// ContextAssembler merges retrieved documents and news articles into an
// ordered block list under the configured budget. Documents are tier 1 and
// always admitted first up to their sub-budget; news is tier 2. Within a
// tier the input order is preserved. An item is truncated at its per-item
// cap before admission and skipped whole if it would overflow the total
// budget, so output size is deterministic for any input ordering.
type ContextAssembler struct {
	cfg AssemblerConfig
}

// NewContextAssembler creates an assembler with the given budget config.
func NewContextAssembler(cfg AssemblerConfig) *ContextAssembler {
	return &ContextAssembler{cfg: cfg}
}

// Assemble produces the ordered context blocks. The returned error is
// ErrBudgetViolation only if the admission invariant is broken, which
// indicates a programming defect rather than a runtime condition.
func (a *ContextAssembler) Assemble(docs []domain.ScoredDocument, articles []domain.Article) ([]domain.ContextBlock, error) {
	var blocks []domain.ContextBlock
	total := 0
	docTotal := 0

	for _, doc := range docs {
		text := truncateRunes(renderDocument(doc), a.cfg.DocumentItemCap)
		size := utf8.RuneCountInString(text)
		if docTotal+size > a.cfg.DocumentBudget || total+size > a.cfg.Budget {
			continue
		}
		blocks = append(blocks, domain.ContextBlock{
			Kind: documentKind(doc),
			Text: text,
			Tier: domain.TierDocuments,
		})
		docTotal += size
		total += size
	}

	for _, article := range articles {
		text := truncateRunes(renderArticle(article), a.cfg.NewsItemCap)
		size := utf8.RuneCountInString(text)
		if total+size > a.cfg.Budget {
			continue
		}
		blocks = append(blocks, domain.ContextBlock{
			Kind: domain.BlockKindNews,
			Text: text,
			Tier: domain.TierNews,
		})
		total += size
	}

	if total > a.cfg.Budget {
		return nil, fmt.Errorf("%w: assembled %d runes over budget %d", domain.ErrBudgetViolation, total, a.cfg.Budget)
	}

	if len(blocks) == 0 {
		// Generation always proceeds; the marker makes the absence of
		// supporting data explicit instead of aborting the query.
		blocks = append(blocks, domain.ContextBlock{
			Kind: domain.BlockKindMarker,
			Text: NoDataMarker,
			Tier: domain.TierDocuments,
		})
	}
	return blocks, nil
}

func documentKind(doc domain.ScoredDocument) domain.BlockKind {
	if doc.Metadata["type"] == "financial" {
		return domain.BlockKindFinancial
	}
	return domain.BlockKindCompany
}

func renderDocument(doc domain.ScoredDocument) string {
	var sb strings.Builder
	if name := doc.Metadata["company_name"]; name != "" {
		sb.WriteString(name)
		if sector := doc.Metadata["sector"]; sector != "" {
			sb.WriteString(" (")
			sb.WriteString(sector)
			sb.WriteString(")")
		}
		sb.WriteString(": ")
	}
	sb.WriteString(doc.Content)
	return sb.String()
}

func renderArticle(article domain.Article) string {
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(article.Source)
	sb.WriteString("] ")
	sb.WriteString(article.Title)
	if article.Description != "" {
		sb.WriteString(" - ")
		sb.WriteString(article.Description)
	}
	if article.Sentiment != "" {
		sb.WriteString(" (sentiment: ")
		sb.WriteString(article.Sentiment)
		sb.WriteString(")")
	}
	return sb.String()
}

// truncateRunes cuts at the per-item cap, never at the budget boundary.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

package domain_test

import (
	"testing"

	"msme-intel/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestArticle_NormalizedTitle(t *testing.T) {
	a := domain.Article{Title: "  RBI Cuts Rates "}
	b := domain.Article{Title: "rbi cuts rates"}
	assert.Equal(t, a.NormalizedTitle(), b.NormalizedTitle())
}

func TestArticle_Valid(t *testing.T) {
	assert.False(t, domain.Article{Title: "   "}.Valid())
	assert.True(t, domain.Article{Title: "Budget 2026"}.Valid())
}

func TestArticle_MatchesKeywords(t *testing.T) {
	article := domain.Article{
		Title:       "Dairy exporters see record quarter",
		Description: "Organic produce demand rises",
		Content:     "Cold-chain investments pay off",
	}

	t.Run("Keyword in title", func(t *testing.T) {
		assert.True(t, article.MatchesKeywords([]string{"dairy"}))
	})

	t.Run("Keyword in description", func(t *testing.T) {
		assert.True(t, article.MatchesKeywords([]string{"organic"}))
	})

	t.Run("Keyword in content", func(t *testing.T) {
		assert.True(t, article.MatchesKeywords([]string{"cold-chain"}))
	})

	t.Run("Case-insensitive", func(t *testing.T) {
		assert.True(t, article.MatchesKeywords([]string{"DAIRY"}))
	})

	t.Run("No match", func(t *testing.T) {
		assert.False(t, article.MatchesKeywords([]string{"textile", "garment"}))
	})

	t.Run("Empty keyword never matches", func(t *testing.T) {
		assert.False(t, article.MatchesKeywords([]string{""}))
	})
}

package domain

import (
	"strings"
	"time"
)

// Article is the normalized news item shared by every provider adapter.
// PublishedAt is nil when the provider timestamp could not be parsed;
// such articles are kept but sort after all dated ones.
type Article struct {
	Source         string
	SourceName     string
	Title          string
	Description    string
	Content        string
	URL            string
	Category       string
	PublishedAt    *time.Time
	Sentiment      string
	SentimentScore float64
}

// NormalizedTitle returns the trimmed, lower-cased title used for
// cross-source deduplication.
func (a Article) NormalizedTitle() string {
	return strings.ToLower(strings.TrimSpace(a.Title))
}

// Valid reports whether the article survives normalization. Providers
// occasionally return entries with empty titles; those are dropped.
func (a Article) Valid() bool {
	return strings.TrimSpace(a.Title) != ""
}

// MatchesKeywords reports whether any keyword appears in the article's
// title, description, or content (case-insensitive substring match).
func (a Article) MatchesKeywords(keywords []string) bool {
	title := strings.ToLower(a.Title)
	description := strings.ToLower(a.Description)
	content := strings.ToLower(a.Content)

	for _, kw := range keywords {
		k := strings.ToLower(kw)
		if k == "" {
			continue
		}
		if strings.Contains(title, k) || strings.Contains(description, k) || strings.Contains(content, k) {
			return true
		}
	}
	return false
}

package domain

import (
	"sort"
	"strings"
)

// QueryType classifies what a user query is asking for.
type QueryType string

const (
	QueryTypeGeneral    QueryType = "general"
	QueryTypeComparison QueryType = "comparison"
	QueryTypeTrend      QueryType = "trend_analysis"
	QueryTypeNews       QueryType = "news_inquiry"
	QueryTypeFinancial  QueryType = "financial_analysis"
)

// QueryIntent is the structured classification of one query. It is derived
// purely from the query text and the configured keyword tables; identical
// inputs always produce identical intents.
type QueryIntent struct {
	Type            QueryType
	Sectors         []string
	Metrics         []string
	NeedsNews       bool
	NeedsFinancial  bool
	NeedsComparison bool
}

// intentRule maps a set of trigger phrases to a query type. Rules are
// evaluated in order and the first match wins: comparison triggers must not
// be shadowed by a co-occurring financial term.
type intentRule struct {
	Type     QueryType
	Triggers []string
}

// DefaultSectorKeywords maps each MSME sector to the keyword list used for
// sector extraction and news relevance filtering.
func DefaultSectorKeywords() map[string][]string {
	return map[string][]string{
		"Manufacturing":   {"manufacturing", "industrial", "machinery", "metal", "automotive", "precision", "equipment"},
		"Food Processing": {"food", "beverage", "dairy", "snacks", "organic", "nutrition", "restaurant", "catering"},
		"Technology":      {"software", "it", "tech", "digital", "app", "platform", "ai", "automation", "cloud"},
		"Healthcare":      {"healthcare", "pharmaceutical", "medical", "biotech", "hospital", "clinic", "diagnostic"},
		"Textiles":        {"textile", "garment", "fabric", "apparel", "fashion", "clothing", "cotton", "fiber"},
	}
}

// IntentClassifier maps raw query text to a QueryIntent using an ordered
// trigger-rule table and a configured sector keyword table. It has no side
// effects and always returns a valid, possibly empty, intent.
type IntentClassifier struct {
	rules          []intentRule
	sectorNames    []string
	sectorKeywords map[string][]string
	financialTerms []string
	newsTriggers   []string
}

// NewIntentClassifier builds a classifier over the given sector keyword
// table. Pass nil to use DefaultSectorKeywords.
func NewIntentClassifier(sectorKeywords map[string][]string) *IntentClassifier {
	if sectorKeywords == nil {
		sectorKeywords = DefaultSectorKeywords()
	}
	names := make([]string, 0, len(sectorKeywords))
	for name := range sectorKeywords {
		names = append(names, name)
	}
	sort.Strings(names)

	return &IntentClassifier{
		rules: []intentRule{
			{Type: QueryTypeComparison, Triggers: []string{"compare", "comparison", "vs", "versus", "against"}},
			{Type: QueryTypeTrend, Triggers: []string{"trend", "trends", "growth", "performance"}},
			{Type: QueryTypeNews, Triggers: []string{"news", "latest", "recent", "updates"}},
			{Type: QueryTypeFinancial, Triggers: []string{"financial", "revenue", "profit", "assets"}},
		},
		sectorNames:    names,
		sectorKeywords: sectorKeywords,
		financialTerms: []string{"revenue", "profit", "margin", "assets", "ratio", "growth", "performance"},
		newsTriggers:   []string{"news", "latest", "recent", "market", "trends"},
	}
}

// Classify derives the intent for one query.
func (c *IntentClassifier) Classify(query string) QueryIntent {
	lowered := strings.ToLower(query)
	tokens := tokenSet(lowered)

	intent := QueryIntent{Type: QueryTypeGeneral}

	for _, rule := range c.rules {
		if containsAnyToken(tokens, lowered, rule.Triggers) {
			intent.Type = rule.Type
			break
		}
	}

	switch intent.Type {
	case QueryTypeComparison:
		intent.NeedsComparison = true
	case QueryTypeTrend, QueryTypeFinancial:
		intent.NeedsFinancial = true
	case QueryTypeNews:
		intent.NeedsNews = true
	}

	for _, sector := range c.sectorNames {
		if strings.Contains(lowered, strings.ToLower(sector)) || containsAnyToken(tokens, lowered, c.sectorKeywords[sector]) {
			intent.Sectors = append(intent.Sectors, sector)
		}
	}

	for _, term := range c.financialTerms {
		if tokens[term] {
			intent.Metrics = append(intent.Metrics, term)
		}
	}

	if containsAnyToken(tokens, lowered, c.newsTriggers) {
		intent.NeedsNews = true
	}
	if intent.Type == QueryTypeTrend {
		intent.NeedsNews = true
	}

	return intent
}

// containsAnyToken matches single-word phrases against the token set (so
// "it" does not fire inside "profit") and multi-word phrases as substrings.
func containsAnyToken(tokens map[string]bool, lowered string, phrases []string) bool {
	for _, p := range phrases {
		p = strings.ToLower(p)
		if strings.ContainsRune(p, ' ') {
			if strings.Contains(lowered, p) {
				return true
			}
			continue
		}
		if tokens[p] {
			return true
		}
	}
	return false
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.FieldsFunc(s, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}) {
		set[tok] = true
	}
	return set
}

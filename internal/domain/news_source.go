package domain

import "context"

// NewsSource defines the capability of a single external news provider.
// Fetch returns normalized articles for the given keywords. Keywords may
// be empty, in which case the provider's default feed is returned.
type NewsSource interface {
	// Name identifies the provider in logs and rate-limit bookkeeping.
	Name() string
	Fetch(ctx context.Context, keywords []string, limit int) ([]Article, error)
}

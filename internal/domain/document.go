package domain

import "context"

// Document represents an entry handed to the index for storage.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]string
}

// ScoredDocument represents a single similarity-search hit.
type ScoredDocument struct {
	ID       string
	Content  string
	Metadata map[string]string
	Score    float32
}

// DocumentIndex defines the contract over the external similarity-search
// capability. Search must be idempotent for identical (query, filter)
// against an unchanged index; results are ordered by descending score and
// never exceed limit. Callers deduplicate by ID across repeated calls with
// different filters.
type DocumentIndex interface {
	Search(ctx context.Context, query string, limit int, filter map[string]string) ([]ScoredDocument, error)
	Upsert(ctx context.Context, docs []Document) error
}

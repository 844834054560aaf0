package usecase

import "fmt"

// RetrievalConfig holds tunable parameters for document retrieval.
type RetrievalConfig struct {
	// BaseLimit is the number of hits fetched by the unfiltered search.
	BaseLimit int
	// SectorLimit is the number of hits fetched per matched sector.
	SectorLimit int
	// FinancialLimit is the number of hits fetched by the company-filtered
	// financial search.
	FinancialLimit int
	// MaxDocuments caps the deduplicated result handed to assembly.
	MaxDocuments int
}

// DefaultRetrievalConfig mirrors the corpus defaults: 8 base hits, 5 per
// sector, 5 financial, 15 total.
func DefaultRetrievalConfig() RetrievalConfig {
	return RetrievalConfig{
		BaseLimit:      8,
		SectorLimit:    5,
		FinancialLimit: 5,
		MaxDocuments:   15,
	}
}

// Validate checks if the configuration values are within acceptable ranges.
func (c RetrievalConfig) Validate() error {
	if c.BaseLimit <= 0 {
		return fmt.Errorf("baseLimit must be positive, got %d", c.BaseLimit)
	}
	if c.SectorLimit < 0 {
		return fmt.Errorf("sectorLimit must be non-negative, got %d", c.SectorLimit)
	}
	if c.FinancialLimit < 0 {
		return fmt.Errorf("financialLimit must be non-negative, got %d", c.FinancialLimit)
	}
	if c.MaxDocuments <= 0 {
		return fmt.Errorf("maxDocuments must be positive, got %d", c.MaxDocuments)
	}
	return nil
}

package domain

import "errors"

// Error taxonomy for the retrieval pipeline. Source* errors are contained
// within the news aggregation layer and degrade a single provider to an
// empty contribution. ErrRetrievalUnavailable degrades the document index
// branch. ErrGenerationFailure is the only error that reaches the end user.
// ErrBudgetViolation indicates a programming defect in context assembly and
// must be unreachable.
var (
	ErrSourceTimeout           = errors.New("news source timed out")
	ErrSourceAuthMissing       = errors.New("news source credentials missing")
	ErrSourceMalformedResponse = errors.New("news source returned malformed response")
	ErrRetrievalUnavailable    = errors.New("document index unavailable")
	ErrGenerationFailure       = errors.New("generation failed")
	ErrBudgetViolation         = errors.New("context budget violated")
)

package domain

// BlockKind identifies which source a context block came from.
type BlockKind string

const (
	BlockKindCompany   BlockKind = "company"
	BlockKindFinancial BlockKind = "financial"
	BlockKindNews      BlockKind = "news"
	BlockKindMarker    BlockKind = "marker"
)

// Context block tiers. Company and financial data always precede news when
// the budget is constrained.
const (
	TierDocuments = 1
	TierNews      = 2
)

// ContextBlock is one unit admitted into the assembled generation context.
type ContextBlock struct {
	Kind BlockKind
	Text string
	Tier int
}

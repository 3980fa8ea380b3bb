// Package ports defines the capability interfaces the quotes module consumes
// from its collaborators. The composition root wires concrete implementations.
package ports

import (
	"context"

	catalogrepo "riverhawk_quote_backend/internal/catalog/repository"
	catalogtransport "riverhawk_quote_backend/internal/catalog/transport"
	"riverhawk_quote_backend/internal/quotes/transport"
)

// Matcher scores catalog entries against free-text item descriptions.
type Matcher interface {
	// Search returns ranked candidates for the description, honoring an
	// optional exact part-number hint.
	Search(description, partNumberHint string) []catalogtransport.MatchCandidate
	// ScoreSKU re-scores the description against one specific catalog entry.
	ScoreSKU(description, sku string) (catalogtransport.MatchCandidate, bool)
}

// ProductReader provides exact-SKU catalog lookups for pricing.
type ProductReader interface {
	GetBySKU(sku string) (catalogrepo.Entry, bool)
}

// QuestionAdvisor produces one clarifying question for an item whose catalog
// matches are missing or low-confidence. Implementations may call a language
// model; a failure must be answered with a deterministic fallback by the
// caller, never surfaced as a request error.
type QuestionAdvisor interface {
	Ask(ctx context.Context, item transport.ParsedLineItem, candidates []catalogtransport.MatchCandidate) (string, error)
}

// SummaryMailer delivers a plain-text quote summary.
type SummaryMailer interface {
	SendQuoteSummary(ctx context.Context, to, subject, body string) error
	Enabled() bool
}

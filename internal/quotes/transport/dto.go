package transport

import (
	catalogtransport "riverhawk_quote_backend/internal/catalog/transport"
)

// CustomerTier is the pricing class controlling the discount multiplier.
type CustomerTier string

const (
	TierStandard  CustomerTier = "standard"
	TierPreferred CustomerTier = "preferred"
	TierPremium   CustomerTier = "premium"
)

// Multiplier returns the fixed discount multiplier for the tier.
// Unknown tiers price as standard.
func (t CustomerTier) Multiplier() float64 {
	switch t {
	case TierPreferred:
		return 0.90 // 10% discount
	case TierPremium:
		return 0.85 // 15% discount
	default:
		return 1.00
	}
}

// LineItemStatus is the resolution state of a quote line item.
type LineItemStatus string

const (
	StatusMatched     LineItemStatus = "matched"
	StatusAlternate   LineItemStatus = "alternate"
	StatusNeedsReview LineItemStatus = "needs-review"
)

// SKUNeedsReview is the sentinel SKU for unresolved line items.
const SKUNeedsReview = "NEEDS-REVIEW"

// ParsedLineItem is one structured line-item candidate extracted from raw
// request text. Immutable after parsing; position is significant.
type ParsedLineItem struct {
	Description    string `json:"description" validate:"required"`
	Quantity       int    `json:"quantity" validate:"min=1"`
	Unit           string `json:"unit"`
	PartNumberHint string `json:"partNumberHint"`
	Notes          string `json:"notes"`
}

// QuoteLineItem is one priced line of an assembled quote.
type QuoteLineItem struct {
	LineNumber    int            `json:"lineNumber"`
	Description   string         `json:"description"`
	Quantity      int            `json:"quantity"`
	Unit          string         `json:"unit"`
	SKU           string         `json:"sku"`
	UnitPrice     float64        `json:"unitPrice"`
	ExtendedPrice float64        `json:"extendedPrice"`
	Status        LineItemStatus `json:"status"`
	MatchReason   string         `json:"matchReason,omitempty"`
}

// Quote is a fully assembled, totalled quote.
type Quote struct {
	QuoteNumber string          `json:"quoteNumber"`
	Date        string          `json:"date"`
	LineItems   []QuoteLineItem `json:"lineItems"`
	Subtotal    float64         `json:"subtotal"`
	Tax         float64         `json:"tax"`
	Total       float64         `json:"total"`
}

// ── Requests ──────────────────────────────────────────────────────────────────

// AnalyzeRequest is the request body for analyzing raw request text.
type AnalyzeRequest struct {
	Request      string       `json:"request" validate:"required,min=1"`
	CustomerTier CustomerTier `json:"customerTier" validate:"omitempty,oneof=standard preferred premium"`
}

// GenerateRequest is the request body for generating a quote from confirmed
// selections. SelectedSKUs aligns positionally with ParsedItems; the sentinel
// or an empty string marks an item for manual review.
type GenerateRequest struct {
	ParsedItems  []ParsedLineItem `json:"parsedItems" validate:"required,min=1,dive"`
	SelectedSKUs []string         `json:"selectedSkus" validate:"required"`
	CustomerTier CustomerTier     `json:"customerTier" validate:"omitempty,oneof=standard preferred premium"`
}

// EmailQuoteRequest generates a quote and emails its summary.
type EmailQuoteRequest struct {
	To           string           `json:"to" validate:"required,email"`
	ParsedItems  []ParsedLineItem `json:"parsedItems" validate:"required,min=1,dive"`
	SelectedSKUs []string         `json:"selectedSkus" validate:"required"`
	CustomerTier CustomerTier     `json:"customerTier" validate:"omitempty,oneof=standard preferred premium"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// AnalyzeResponse carries parsed items with their candidate matches, aligned
// by index so positional invariants hold by construction.
type AnalyzeResponse struct {
	ParsedItems         []ParsedLineItem                    `json:"parsedItems"`
	Matches             [][]catalogtransport.MatchCandidate `json:"matches"`
	ClarifyingQuestions []string                            `json:"clarifyingQuestions,omitempty"`
}

// GenerateResponse carries the assembled quote and its email summary text.
type GenerateResponse struct {
	Quote        Quote  `json:"quote"`
	EmailSummary string `json:"emailSummary"`
}

// EmailQuoteResponse reports the generated quote and delivery state.
type EmailQuoteResponse struct {
	Quote        Quote  `json:"quote"`
	EmailSummary string `json:"emailSummary"`
	Sent         bool   `json:"sent"`
	Warning      string `json:"warning,omitempty"`
}

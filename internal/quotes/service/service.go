// Package service implements the request-to-quote pipeline: parsing raw
// request text, matching items against the catalog, pricing confirmed
// selections, and assembling totalled quotes with email summaries.
package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	catalogtransport "riverhawk_quote_backend/internal/catalog/transport"
	"riverhawk_quote_backend/internal/events"
	"riverhawk_quote_backend/internal/quotes/ports"
	"riverhawk_quote_backend/internal/quotes/transport"
	"riverhawk_quote_backend/platform/apperr"
	"riverhawk_quote_backend/platform/logger"
)

const (
	// lowConfidenceScore triggers a clarifying question when the best match
	// scores under it and alternatives exist.
	lowConfidenceScore = 30
	// alternateScoreFloor separates customer-confirmed matches from alternates.
	alternateScoreFloor = 40

	reasonNeedsReview = "No suitable match found - manual review required"
	reasonAlternate   = "Alternate product suggested"
	reasonConfirmed   = "Customer confirmed"

	msgNothingExtracted = "could not extract any items from the request; ensure the input contains product descriptions and quantities"
	msgSelectionMisfit  = "selected SKUs must align one-to-one with parsed items"
)

// Service provides business logic for quote analysis and generation.
type Service struct {
	catalog        ports.ProductReader
	matcher        ports.Matcher
	advisor        ports.QuestionAdvisor
	advisorTimeout time.Duration
	mailer         ports.SummaryMailer
	bus            events.Bus
	log            *logger.Logger
}

// New creates a new quotes service. The advisor may be nil, in which case
// clarifying questions always use the deterministic fallback template.
func New(catalog ports.ProductReader, matcher ports.Matcher, advisor ports.QuestionAdvisor, advisorTimeout time.Duration, log *logger.Logger) *Service {
	return &Service{
		catalog:        catalog,
		matcher:        matcher,
		advisor:        advisor,
		advisorTimeout: advisorTimeout,
		log:            log,
	}
}

// SetEventBus wires the domain event bus.
func (s *Service) SetEventBus(bus events.Bus) {
	s.bus = bus
}

// SetMailer wires the quote summary mailer.
func (s *Service) SetMailer(mailer ports.SummaryMailer) {
	s.mailer = mailer
}

// Analyze parses the raw request and matches each extracted item against the
// catalog. Items with missing or low-confidence matches get a clarifying
// question, generated concurrently through the advisor with the deterministic
// template as the failure fallback.
func (s *Service) Analyze(ctx context.Context, req transport.AnalyzeRequest) (transport.AnalyzeResponse, error) {
	parsedItems := ParseRequest(req.Request)
	if len(parsedItems) == 0 {
		return transport.AnalyzeResponse{}, apperr.Validation(msgNothingExtracted)
	}

	// Matches are index-aligned with parsedItems so positional invariants
	// hold by construction.
	matches := make([][]catalogtransport.MatchCandidate, len(parsedItems))
	for i, item := range parsedItems {
		matches[i] = s.matcher.Search(item.Description, item.PartNumberHint)
	}

	questions := s.clarifyingQuestions(ctx, parsedItems, matches)

	s.log.Info("request analyzed", "items", len(parsedItems), "questions", len(questions))

	return transport.AnalyzeResponse{
		ParsedItems:         parsedItems,
		Matches:             matches,
		ClarifyingQuestions: questions,
	}, nil
}

// clarifyingQuestions asks the advisor for every low-confidence item. Calls
// run concurrently under one bounded timeout; any individual failure degrades
// to the fallback template rather than failing the analysis. There are no
// retries: questions are an enhancement, not a correctness-critical path.
func (s *Service) clarifyingQuestions(ctx context.Context, items []transport.ParsedLineItem, matches [][]catalogtransport.MatchCandidate) []string {
	needed := make([]bool, len(items))
	anyNeeded := false
	for i, candidates := range matches {
		if len(candidates) == 0 || (candidates[0].Score < lowConfidenceScore && len(candidates) > 1) {
			needed[i] = true
			anyNeeded = true
		}
	}
	if !anyNeeded {
		return nil
	}

	byItem := make([]string, len(items))
	advisorCtx, cancel := context.WithTimeout(ctx, s.advisorTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(advisorCtx)
	for i := range items {
		if !needed[i] {
			continue
		}
		g.Go(func() error {
			byItem[i] = s.askOne(gctx, i, items[i], matches[i])
			return nil
		})
	}
	// Workers never return errors; degraded calls already hold fallback text.
	_ = g.Wait()

	questions := make([]string, 0, len(items))
	for i, question := range byItem {
		if question != "" {
			questions = append(questions, fmt.Sprintf("Item %d: %s", i+1, question))
		}
	}
	return questions
}

func (s *Service) askOne(ctx context.Context, index int, item transport.ParsedLineItem, candidates []catalogtransport.MatchCandidate) string {
	if s.advisor == nil {
		return FallbackQuestion(item.Description)
	}
	question, err := s.advisor.Ask(ctx, item, candidates)
	if err != nil || question == "" {
		if err == nil {
			err = fmt.Errorf("advisor returned empty question")
		}
		s.log.AdvisorFallback(index+1, err)
		return FallbackQuestion(item.Description)
	}
	return question
}

// FallbackQuestion is the deterministic clarifying-question template used
// whenever the advisor is absent or fails.
func FallbackQuestion(description string) string {
	return fmt.Sprintf("Could you provide more details about %q? (e.g., size, brand, specifications)", description)
}

// Generate prices the confirmed selections and assembles the final quote
// with its email summary.
func (s *Service) Generate(ctx context.Context, req transport.GenerateRequest) (transport.GenerateResponse, error) {
	if len(req.SelectedSKUs) != len(req.ParsedItems) {
		return transport.GenerateResponse{}, apperr.Validation(msgSelectionMisfit).
			WithDetails(map[string]int{
				"selected_skus": len(req.SelectedSKUs),
				"parsed_items":  len(req.ParsedItems),
			})
	}

	lineItems := make([]transport.QuoteLineItem, 0, len(req.ParsedItems))
	for i, item := range req.ParsedItems {
		lineItems = append(lineItems, s.resolveLineItem(i+1, item, req.SelectedSKUs[i], req.CustomerTier))
	}

	quote := AssembleQuote(lineItems)
	summary := Summarize(quote)

	needsReview := 0
	for _, item := range quote.LineItems {
		if item.Status == transport.StatusNeedsReview {
			needsReview++
		}
	}
	s.log.Info("quote generated", "quoteNumber", quote.QuoteNumber, "items", len(quote.LineItems), "needsReview", needsReview)

	if s.bus != nil {
		s.bus.Publish(ctx, events.QuoteGenerated{
			BaseEvent:   events.NewBaseEvent(),
			QuoteNumber: quote.QuoteNumber,
			ItemCount:   len(quote.LineItems),
			NeedsReview: needsReview,
			Total:       quote.Total,
		})
	}

	return transport.GenerateResponse{Quote: quote, EmailSummary: summary}, nil
}

// resolveLineItem runs the per-line resolution state machine. An empty or
// sentinel selection is terminal: needs-review with zero pricing. A selection
// that is not in the catalog also resolves to needs-review instead of being
// dropped, so the quote always carries one line per parsed item.
func (s *Service) resolveLineItem(lineNumber int, item transport.ParsedLineItem, selectedSKU string, tier transport.CustomerTier) transport.QuoteLineItem {
	if selectedSKU == "" || selectedSKU == transport.SKUNeedsReview {
		return needsReviewLine(lineNumber, item)
	}

	match, ok := s.matcher.ScoreSKU(item.Description, selectedSKU)
	if !ok {
		s.log.Warn("confirmed SKU not in catalog", "line", lineNumber, "sku", selectedSKU)
		return needsReviewLine(lineNumber, item)
	}

	unitPrice, extendedPrice := PriceSKU(s.catalog, selectedSKU, item.Quantity, tier)

	status := transport.StatusMatched
	reason := reasonConfirmed
	if match.Score < alternateScoreFloor {
		status = transport.StatusAlternate
		reason = reasonAlternate
	}

	return transport.QuoteLineItem{
		LineNumber:    lineNumber,
		Description:   match.Name,
		Quantity:      item.Quantity,
		Unit:          match.Unit,
		SKU:           selectedSKU,
		UnitPrice:     unitPrice,
		ExtendedPrice: extendedPrice,
		Status:        status,
		MatchReason:   reason,
	}
}

func needsReviewLine(lineNumber int, item transport.ParsedLineItem) transport.QuoteLineItem {
	return transport.QuoteLineItem{
		LineNumber:    lineNumber,
		Description:   item.Description,
		Quantity:      item.Quantity,
		Unit:          item.Unit,
		SKU:           transport.SKUNeedsReview,
		UnitPrice:     0,
		ExtendedPrice: 0,
		Status:        transport.StatusNeedsReview,
		MatchReason:   reasonNeedsReview,
	}
}

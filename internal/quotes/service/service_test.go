package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	catalogrepo "riverhawk_quote_backend/internal/catalog/repository"
	catalogservice "riverhawk_quote_backend/internal/catalog/service"
	catalogtransport "riverhawk_quote_backend/internal/catalog/transport"
	"riverhawk_quote_backend/internal/events"
	"riverhawk_quote_backend/internal/quotes/ports"
	"riverhawk_quote_backend/internal/quotes/transport"
	"riverhawk_quote_backend/platform/apperr"
	"riverhawk_quote_backend/platform/logger"
)

// advisorFunc adapts a function to ports.QuestionAdvisor.
type advisorFunc func(ctx context.Context, item transport.ParsedLineItem, candidates []catalogtransport.MatchCandidate) (string, error)

func (f advisorFunc) Ask(ctx context.Context, item transport.ParsedLineItem, candidates []catalogtransport.MatchCandidate) (string, error) {
	return f(ctx, item, candidates)
}

func newTestService(t *testing.T, advisor ports.QuestionAdvisor) *Service {
	t.Helper()
	repo, err := catalogrepo.LoadSeed()
	if err != nil {
		t.Fatalf("LoadSeed failed: %v", err)
	}
	log := logger.New("development")
	matcher := catalogservice.New(repo, log)
	return New(repo, matcher, advisor, 2*time.Second, log)
}

func TestAnalyzeMatchesConfidentItem(t *testing.T) {
	svc := newTestService(t, nil)

	resp, err := svc.Analyze(context.Background(), transport.AnalyzeRequest{
		Request: "20 boxes nitrile work gloves, large",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(resp.ParsedItems) != 1 {
		t.Fatalf("expected 1 parsed item, got %d", len(resp.ParsedItems))
	}
	if len(resp.Matches) != 1 {
		t.Fatalf("matches must align with parsed items, got %d", len(resp.Matches))
	}
	if len(resp.Matches[0]) == 0 || resp.Matches[0][0].SKU != "GLV-NIT-100" {
		t.Fatalf("expected GLV-NIT-100 as top match, got %+v", resp.Matches[0])
	}
	if len(resp.ClarifyingQuestions) != 0 {
		t.Fatalf("confident match must not raise questions, got %v", resp.ClarifyingQuestions)
	}
}

func TestAnalyzeGloveRequestEndToEnd(t *testing.T) {
	svc := newTestService(t, nil)

	resp, err := svc.Analyze(context.Background(), transport.AnalyzeRequest{
		Request: "15 pairs of work gloves, large size",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(resp.ParsedItems) != 1 {
		t.Fatalf("expected 1 parsed item, got %d", len(resp.ParsedItems))
	}

	item := resp.ParsedItems[0]
	if item.Quantity != 15 {
		t.Fatalf("expected quantity 15, got %d", item.Quantity)
	}
	if item.Unit != "pair" {
		t.Fatalf("expected unit pair, got %q", item.Unit)
	}
	if !strings.Contains(item.Description, "work gloves, large size") {
		t.Fatalf("description lost product text: %q", item.Description)
	}
	if item.PartNumberHint != "" {
		t.Fatalf("expected no part hint, got %q", item.PartNumberHint)
	}

	candidates := resp.Matches[0]
	if len(candidates) == 0 {
		t.Fatal("expected the glove entry among candidates")
	}
	if candidates[0].SKU != "GLV-NIT-100" {
		t.Fatalf("expected GLV-NIT-100 on top, got %s", candidates[0].SKU)
	}
	if candidates[0].Score <= 15 {
		t.Fatalf("expected score above the relevance floor, got %d", candidates[0].Score)
	}
}

func TestAnalyzeRejectsUnparseableRequest(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.Analyze(context.Background(), transport.AnalyzeRequest{
		Request: "Item Description Qty\nQty: 5",
	})
	if err == nil {
		t.Fatal("expected an error for header-only input")
	}
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAnalyzeFallbackQuestionForUnmatchedItem(t *testing.T) {
	svc := newTestService(t, nil)

	resp, err := svc.Analyze(context.Background(), transport.AnalyzeRequest{
		Request: "500 flux capacitors",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(resp.Matches[0]) != 0 {
		t.Fatalf("expected no matches, got %+v", resp.Matches[0])
	}
	if len(resp.ClarifyingQuestions) != 1 {
		t.Fatalf("expected 1 question, got %v", resp.ClarifyingQuestions)
	}
	want := `Item 1: Could you provide more details about "flux capacitors"? (e.g., size, brand, specifications)`
	if resp.ClarifyingQuestions[0] != want {
		t.Fatalf("question = %q, want %q", resp.ClarifyingQuestions[0], want)
	}
}

func TestAnalyzeUsesAdvisorWhenAvailable(t *testing.T) {
	svc := newTestService(t, advisorFunc(func(ctx context.Context, item transport.ParsedLineItem, candidates []catalogtransport.MatchCandidate) (string, error) {
		return "What voltage rating do you need?", nil
	}))

	resp, err := svc.Analyze(context.Background(), transport.AnalyzeRequest{
		Request: "500 flux capacitors",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(resp.ClarifyingQuestions) != 1 {
		t.Fatalf("expected 1 question, got %v", resp.ClarifyingQuestions)
	}
	if resp.ClarifyingQuestions[0] != "Item 1: What voltage rating do you need?" {
		t.Fatalf("unexpected question %q", resp.ClarifyingQuestions[0])
	}
}

func TestAnalyzeAdvisorFailureDegradesToFallback(t *testing.T) {
	svc := newTestService(t, advisorFunc(func(ctx context.Context, item transport.ParsedLineItem, candidates []catalogtransport.MatchCandidate) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}))
	// Force the timeout quickly.
	svc.advisorTimeout = 50 * time.Millisecond

	resp, err := svc.Analyze(context.Background(), transport.AnalyzeRequest{
		Request: "500 flux capacitors",
	})
	if err != nil {
		t.Fatalf("Analyze must not fail when the advisor does: %v", err)
	}
	if len(resp.ClarifyingQuestions) != 1 {
		t.Fatalf("expected fallback question, got %v", resp.ClarifyingQuestions)
	}
	if !strings.Contains(resp.ClarifyingQuestions[0], "Could you provide more details about") {
		t.Fatalf("expected fallback template, got %q", resp.ClarifyingQuestions[0])
	}
}

func TestAnalyzeRunsAdvisorCallsConcurrently(t *testing.T) {
	// Both advisor calls must be in flight at the same time before either
	// returns. A serialized fan-out never reaches the rendezvous and both
	// items degrade to the fallback template on timeout.
	var arrivals sync.WaitGroup
	arrivals.Add(2)
	ready := make(chan struct{})
	go func() {
		arrivals.Wait()
		close(ready)
	}()

	svc := newTestService(t, advisorFunc(func(ctx context.Context, item transport.ParsedLineItem, candidates []catalogtransport.MatchCandidate) (string, error) {
		arrivals.Done()
		select {
		case <-ready:
			return "What size do you need?", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}))

	resp, err := svc.Analyze(context.Background(), transport.AnalyzeRequest{
		Request: "500 flux capacitors\n9 quantum widgets",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(resp.ClarifyingQuestions) != 2 {
		t.Fatalf("expected 2 questions, got %v", resp.ClarifyingQuestions)
	}
	for _, q := range resp.ClarifyingQuestions {
		if !strings.Contains(q, "What size do you need?") {
			t.Fatalf("advisor call was starved into the fallback: %q", q)
		}
	}
}

func TestAnalyzeQuestionsKeepItemOrder(t *testing.T) {
	svc := newTestService(t, nil)

	resp, err := svc.Analyze(context.Background(), transport.AnalyzeRequest{
		Request: "500 flux capacitors\n20 boxes nitrile work gloves, large\n9 quantum widgets",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(resp.ClarifyingQuestions) != 2 {
		t.Fatalf("expected 2 questions, got %v", resp.ClarifyingQuestions)
	}
	if !strings.HasPrefix(resp.ClarifyingQuestions[0], "Item 1:") {
		t.Fatalf("first question out of order: %q", resp.ClarifyingQuestions[0])
	}
	if !strings.HasPrefix(resp.ClarifyingQuestions[1], "Item 3:") {
		t.Fatalf("second question out of order: %q", resp.ClarifyingQuestions[1])
	}
}

func TestGenerateResolvesLineItemStates(t *testing.T) {
	svc := newTestService(t, nil)

	resp, err := svc.Generate(context.Background(), transport.GenerateRequest{
		ParsedItems: []transport.ParsedLineItem{
			{Description: "nitrile work gloves large", Quantity: 20, Unit: "box"},
			{Description: "shop rags", Quantity: 2, Unit: "box"},
			{Description: "mystery part", Quantity: 1, Unit: "each"},
			{Description: "discontinued widget", Quantity: 3, Unit: "each"},
		},
		SelectedSKUs: []string{"GLV-NIT-100", "RAG-SHP-050", transport.SKUNeedsReview, "ZZZ-GONE-999"},
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	quote := resp.Quote
	if len(quote.LineItems) != 4 {
		t.Fatalf("expected one line per parsed item, got %d", len(quote.LineItems))
	}

	matched := quote.LineItems[0]
	if matched.Status != transport.StatusMatched {
		t.Fatalf("line 1: expected matched, got %s", matched.Status)
	}
	if matched.Description != "Nitrile Work Gloves, Large" || matched.Unit != "pair" {
		t.Fatalf("line 1: expected catalog name and unit, got %q/%q", matched.Description, matched.Unit)
	}
	if matched.UnitPrice != 8.49 || matched.ExtendedPrice != 169.80 {
		t.Fatalf("line 1: unexpected pricing %v/%v", matched.UnitPrice, matched.ExtendedPrice)
	}

	// "shop rags" scores 30 against the shop towels entry: a usable but
	// low-confidence selection.
	alternate := quote.LineItems[1]
	if alternate.Status != transport.StatusAlternate {
		t.Fatalf("line 2: expected alternate, got %s", alternate.Status)
	}
	if alternate.SKU != "RAG-SHP-050" || alternate.ExtendedPrice != 37.00 {
		t.Fatalf("line 2: got %s at %v", alternate.SKU, alternate.ExtendedPrice)
	}

	review := quote.LineItems[2]
	if review.Status != transport.StatusNeedsReview || review.SKU != transport.SKUNeedsReview {
		t.Fatalf("line 3: expected needs-review sentinel, got %s/%s", review.Status, review.SKU)
	}
	if review.UnitPrice != 0 || review.ExtendedPrice != 0 {
		t.Fatalf("line 3: needs-review lines must not be priced, got %v/%v", review.UnitPrice, review.ExtendedPrice)
	}
	if review.Description != "mystery part" {
		t.Fatalf("line 3: expected parsed description, got %q", review.Description)
	}

	// A confirmed SKU that is not in the catalog resolves to review, not a
	// silent drop.
	gone := quote.LineItems[3]
	if gone.Status != transport.StatusNeedsReview || gone.SKU != transport.SKUNeedsReview {
		t.Fatalf("line 4: expected needs-review for unknown SKU, got %s/%s", gone.Status, gone.SKU)
	}

	// 169.80 + 37.00 = 206.80; tax 16.54; total 223.34
	if quote.Subtotal != 206.80 {
		t.Fatalf("expected subtotal 206.80, got %v", quote.Subtotal)
	}
	if quote.Tax != 16.54 {
		t.Fatalf("expected tax 16.54, got %v", quote.Tax)
	}
	if quote.Total != 223.34 {
		t.Fatalf("expected total 223.34, got %v", quote.Total)
	}

	if !strings.Contains(resp.EmailSummary, quote.QuoteNumber) {
		t.Fatalf("summary missing quote number:\n%s", resp.EmailSummary)
	}
	if !strings.Contains(resp.EmailSummary, "Needs Review") {
		t.Fatalf("summary missing needs-review warning:\n%s", resp.EmailSummary)
	}
}

func TestGeneratePublishesQuoteGeneratedEvent(t *testing.T) {
	svc := newTestService(t, nil)
	log := logger.New("development")
	bus := events.NewInMemoryBus(log)

	received := make(chan events.Event, 1)
	bus.Subscribe(events.QuoteGenerated{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		received <- event
		return nil
	}))
	svc.SetEventBus(bus)

	resp, err := svc.Generate(context.Background(), transport.GenerateRequest{
		ParsedItems: []transport.ParsedLineItem{
			{Description: "nitrile work gloves large", Quantity: 20, Unit: "box"},
			{Description: "mystery part", Quantity: 1, Unit: "each"},
		},
		SelectedSKUs: []string{"GLV-NIT-100", transport.SKUNeedsReview},
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	select {
	case event := <-received:
		generated, ok := event.(events.QuoteGenerated)
		if !ok {
			t.Fatalf("expected QuoteGenerated, got %T", event)
		}
		if generated.QuoteNumber != resp.Quote.QuoteNumber {
			t.Fatalf("event quote number %q, want %q", generated.QuoteNumber, resp.Quote.QuoteNumber)
		}
		if generated.ItemCount != 2 || generated.NeedsReview != 1 {
			t.Fatalf("event counts %d/%d, want 2/1", generated.ItemCount, generated.NeedsReview)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("quote generation event never reached the subscriber")
	}
}

func TestGenerateAppliesCustomerTier(t *testing.T) {
	svc := newTestService(t, nil)

	resp, err := svc.Generate(context.Background(), transport.GenerateRequest{
		ParsedItems: []transport.ParsedLineItem{
			{Description: "nitrile work gloves large", Quantity: 20, Unit: "box"},
		},
		SelectedSKUs: []string{"GLV-NIT-100"},
		CustomerTier: transport.TierPreferred,
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	line := resp.Quote.LineItems[0]
	if line.UnitPrice != 7.64 || line.ExtendedPrice != 152.80 {
		t.Fatalf("expected preferred pricing 7.64/152.80, got %v/%v", line.UnitPrice, line.ExtendedPrice)
	}
}

func TestGenerateRejectsMisalignedSelections(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.Generate(context.Background(), transport.GenerateRequest{
		ParsedItems: []transport.ParsedLineItem{
			{Description: "nitrile work gloves large", Quantity: 20},
		},
		SelectedSKUs: []string{"GLV-NIT-100", "RAG-SHP-050"},
	})
	if err == nil {
		t.Fatal("expected an error for misaligned selections")
	}
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Details == nil {
		t.Fatalf("expected count details on the error, got %#v", err)
	}
}

func TestEmailQuoteWithoutMailerWarns(t *testing.T) {
	svc := newTestService(t, nil)

	resp, err := svc.EmailQuote(context.Background(), transport.EmailQuoteRequest{
		To: "buyer@example.com",
		ParsedItems: []transport.ParsedLineItem{
			{Description: "nitrile work gloves large", Quantity: 20, Unit: "box"},
		},
		SelectedSKUs: []string{"GLV-NIT-100"},
	})
	if err != nil {
		t.Fatalf("EmailQuote failed: %v", err)
	}
	if resp.Sent {
		t.Fatal("expected Sent=false without a configured mailer")
	}
	if resp.Warning == "" {
		t.Fatal("expected a warning without a configured mailer")
	}
	if resp.Quote.QuoteNumber == "" {
		t.Fatal("quote must be generated even when email is not configured")
	}
}

type stubMailer struct {
	enabled bool
	sentTo  string
	subject string
	body    string
	err     error
}

func (m *stubMailer) Enabled() bool { return m.enabled }

func (m *stubMailer) SendQuoteSummary(ctx context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sentTo = to
	m.subject = subject
	m.body = body
	return nil
}

func TestEmailQuoteSendsSummary(t *testing.T) {
	svc := newTestService(t, nil)
	mailer := &stubMailer{enabled: true}
	svc.SetMailer(mailer)

	resp, err := svc.EmailQuote(context.Background(), transport.EmailQuoteRequest{
		To: "buyer@example.com",
		ParsedItems: []transport.ParsedLineItem{
			{Description: "nitrile work gloves large", Quantity: 20, Unit: "box"},
		},
		SelectedSKUs: []string{"GLV-NIT-100"},
	})
	if err != nil {
		t.Fatalf("EmailQuote failed: %v", err)
	}
	if !resp.Sent || resp.Warning != "" {
		t.Fatalf("expected successful delivery, got sent=%v warning=%q", resp.Sent, resp.Warning)
	}
	if mailer.sentTo != "buyer@example.com" {
		t.Fatalf("expected delivery to buyer@example.com, got %q", mailer.sentTo)
	}
	if !strings.Contains(mailer.subject, resp.Quote.QuoteNumber) {
		t.Fatalf("subject missing quote number: %q", mailer.subject)
	}
	if mailer.body != resp.EmailSummary {
		t.Fatal("mailer body must be the summary verbatim")
	}
}

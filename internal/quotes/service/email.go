package service

import (
	"context"
	"fmt"

	"riverhawk_quote_backend/internal/events"
	"riverhawk_quote_backend/internal/quotes/transport"
)

const msgEmailNotConfigured = "email delivery is not configured; quote was generated but not sent"

// EmailQuote generates a quote and emails its summary to the recipient.
// Delivery failure does not void the quote: the response carries the quote
// with Sent=false and a warning.
func (s *Service) EmailQuote(ctx context.Context, req transport.EmailQuoteRequest) (transport.EmailQuoteResponse, error) {
	generated, err := s.Generate(ctx, transport.GenerateRequest{
		ParsedItems:  req.ParsedItems,
		SelectedSKUs: req.SelectedSKUs,
		CustomerTier: req.CustomerTier,
	})
	if err != nil {
		return transport.EmailQuoteResponse{}, err
	}

	resp := transport.EmailQuoteResponse{
		Quote:        generated.Quote,
		EmailSummary: generated.EmailSummary,
	}

	if s.mailer == nil || !s.mailer.Enabled() {
		resp.Warning = msgEmailNotConfigured
		return resp, nil
	}

	subject := fmt.Sprintf("Quote %s from Riverhawk Industrial Supply", generated.Quote.QuoteNumber)
	if err := s.mailer.SendQuoteSummary(ctx, req.To, subject, generated.EmailSummary); err != nil {
		s.log.Error("quote email delivery failed", "quoteNumber", generated.Quote.QuoteNumber, "error", err)
		resp.Warning = fmt.Sprintf("email delivery failed: %v", err)
		return resp, nil
	}

	resp.Sent = true
	s.log.Info("quote emailed", "quoteNumber", generated.Quote.QuoteNumber, "to", req.To)

	if s.bus != nil {
		s.bus.Publish(ctx, events.QuoteEmailed{
			BaseEvent:   events.NewBaseEvent(),
			QuoteNumber: generated.Quote.QuoteNumber,
			Recipient:   req.To,
		})
	}

	return resp, nil
}

// Package notification provides event handlers reacting to quote domain
// events. This module subscribes to the bus and inverts the dependency:
// the quotes module publishes what happened without knowing who listens.
package notification

import (
	"context"
	"sync/atomic"

	"riverhawk_quote_backend/internal/events"
	"riverhawk_quote_backend/platform/logger"
)

// Module records quote activity from domain events: a structured audit log
// line per event plus process-local counters for operational visibility.
type Module struct {
	log       *logger.Logger
	generated atomic.Int64
	emailed   atomic.Int64
}

// NewModule creates a new notification module.
func NewModule(log *logger.Logger) *Module {
	return &Module{log: log}
}

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.QuoteGenerated{}.EventName(), m)
	bus.Subscribe(events.QuoteEmailed{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.QuoteGenerated:
		return m.handleQuoteGenerated(ctx, e)
	case events.QuoteEmailed:
		return m.handleQuoteEmailed(ctx, e)
	}
	return nil
}

func (m *Module) handleQuoteGenerated(_ context.Context, e events.QuoteGenerated) error {
	m.generated.Add(1)
	m.log.Info("quote activity",
		"event", e.EventName(),
		"quoteNumber", e.QuoteNumber,
		"items", e.ItemCount,
		"needsReview", e.NeedsReview,
		"total", e.Total,
	)
	return nil
}

func (m *Module) handleQuoteEmailed(_ context.Context, e events.QuoteEmailed) error {
	m.emailed.Add(1)
	m.log.Info("quote activity",
		"event", e.EventName(),
		"quoteNumber", e.QuoteNumber,
		"recipient", e.Recipient,
	)
	return nil
}

// QuotesGenerated reports how many quotes this process has generated.
func (m *Module) QuotesGenerated() int64 {
	return m.generated.Load()
}

// QuotesEmailed reports how many quote summaries this process has emailed.
func (m *Module) QuotesEmailed() int64 {
	return m.emailed.Load()
}

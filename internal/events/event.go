// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"riverhawk_quote_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Quotes Domain Events
// =============================================================================

// QuoteGenerated is published when a quote has been assembled from confirmed
// line items.
type QuoteGenerated struct {
	BaseEvent
	QuoteNumber string  `json:"quoteNumber"`
	ItemCount   int     `json:"itemCount"`
	NeedsReview int     `json:"needsReview"`
	Total       float64 `json:"total"`
}

func (e QuoteGenerated) EventName() string { return "quotes.generated" }

// QuoteEmailed is published when a quote summary email has been sent.
type QuoteEmailed struct {
	BaseEvent
	QuoteNumber string `json:"quoteNumber"`
	Recipient   string `json:"recipient"`
}

func (e QuoteEmailed) EventName() string { return "quotes.emailed" }

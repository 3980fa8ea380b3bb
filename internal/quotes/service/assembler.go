package service

import (
	"fmt"
	"strings"
	"time"

	"riverhawk_quote_backend/internal/quotes/transport"
)

const (
	// taxRate is the fixed sales tax applied to every quote subtotal.
	taxRate = 0.08
	// quoteNumberPrefix starts every generated quote number.
	quoteNumberPrefix = "RH-Q-"
	// summaryItemLimit caps how many line items the email summary spells out.
	summaryItemLimit = 5
)

// AssembleQuote combines resolved line items into a totalled quote.
// Subtotal, tax, and total are each rounded when computed: total is the sum
// of the two already-rounded figures, not an independent re-derivation.
func AssembleQuote(lineItems []transport.QuoteLineItem) transport.Quote {
	var subtotal float64
	for _, item := range lineItems {
		subtotal += item.ExtendedPrice
	}
	subtotal = round2(subtotal)
	tax := round2(subtotal * taxRate)
	total := round2(subtotal + tax)

	now := time.Now()
	return transport.Quote{
		QuoteNumber: newQuoteNumber(now),
		Date:        now.Format("January 2, 2006"),
		LineItems:   lineItems,
		Subtotal:    subtotal,
		Tax:         tax,
		Total:       total,
	}
}

// newQuoteNumber derives a quote number from the timestamp, unique enough
// within a session; collisions across restarts are not a concern here.
func newQuoteNumber(now time.Time) string {
	millis := fmt.Sprintf("%d", now.UnixMilli())
	if len(millis) > 8 {
		millis = millis[len(millis)-8:]
	}
	return quoteNumberPrefix + millis
}

// Summarize renders the plain-text email summary for a quote. The exact
// formatting is part of the contract with the email collaborator, which
// forwards the text verbatim.
func Summarize(quote transport.Quote) string {
	needsReview := 0
	for _, item := range quote.LineItems {
		if item.Status == transport.StatusNeedsReview {
			needsReview++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Quote %s - %s\n\n", quote.QuoteNumber, quote.Date)
	b.WriteString("Thank you for your inquiry. Please find your quote summary below:\n\n")
	fmt.Fprintf(&b, "Total Items: %d\n", len(quote.LineItems))
	fmt.Fprintf(&b, "Subtotal: $%.2f\n", quote.Subtotal)
	fmt.Fprintf(&b, "Tax (8%%): $%.2f\n", quote.Tax)
	fmt.Fprintf(&b, "Total: $%.2f\n\n", quote.Total)

	if needsReview > 0 {
		fmt.Fprintf(&b, "⚠️ %d item(s) marked as \"Needs Review\" - please contact us for clarification.\n\n", needsReview)
	}

	b.WriteString("Key Items:\n")
	for i, item := range quote.LineItems {
		if i == summaryItemLimit {
			break
		}
		fmt.Fprintf(&b, "• %d %s - %s (%s): $%.2f\n", item.Quantity, item.Unit, item.Description, item.SKU, item.ExtendedPrice)
	}
	if len(quote.LineItems) > summaryItemLimit {
		fmt.Fprintf(&b, "... and %d more item(s)\n", len(quote.LineItems)-summaryItemLimit)
	}

	b.WriteString("\nPlease review and let us know if you have any questions.\n\n")
	b.WriteString("Best regards,\nRiverhawk Inside Sales Team")

	return b.String()
}

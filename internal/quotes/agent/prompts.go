package agent

import (
	"fmt"
	"strings"

	catalogtransport "riverhawk_quote_backend/internal/catalog/transport"
	"riverhawk_quote_backend/internal/quotes/transport"
)

func clarifierSystemPrompt() string {
	return "You are an inside sales assistant for an industrial supply distributor. " +
		"When a customer's requested item cannot be matched to the product catalog with confidence, " +
		"you ask exactly one short, specific question that would let a salesperson identify the right product. " +
		"Ask about concrete attributes like size, brand, grade, material, or quantity packaging. " +
		"Output only the question itself: no preamble, no numbering, no markdown."
}

func buildClarifierPrompt(item transport.ParsedLineItem, candidates []catalogtransport.MatchCandidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Customer requested: %q (quantity: %d %s)\n", item.Description, item.Quantity, item.Unit)
	if item.PartNumberHint != "" {
		fmt.Fprintf(&b, "Part number mentioned: %s\n", item.PartNumberHint)
	}
	if item.Notes != "" {
		fmt.Fprintf(&b, "Customer notes: %s\n", item.Notes)
	}

	if len(candidates) == 0 {
		b.WriteString("\nNo catalog products matched this request.\n")
	} else {
		b.WriteString("\nClosest catalog candidates (none confident):\n")
		for _, c := range candidates {
			fmt.Fprintf(&b, "- %s %s (%s, sold per %s)\n", c.SKU, c.Name, c.Brand, c.Unit)
		}
	}

	b.WriteString("\nAsk the customer one clarifying question to pin down which product they need.")
	return b.String()
}

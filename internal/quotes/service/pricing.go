package service

import (
	"math"

	"riverhawk_quote_backend/internal/quotes/ports"
	"riverhawk_quote_backend/internal/quotes/transport"
)

// round2 rounds to the nearest cent. Every monetary value is rounded at the
// point of computation, never deferred to display time, so totals accumulate
// exactly the amounts the caller sees per line.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// PriceSKU computes the unit and extended price for a SKU at the given
// quantity and tier. An unknown SKU prices to zero/zero; the caller treats
// that as "unresolved", not as an error.
func PriceSKU(catalog ports.ProductReader, sku string, quantity int, tier transport.CustomerTier) (unitPrice, extendedPrice float64) {
	entry, ok := catalog.GetBySKU(sku)
	if !ok {
		return 0, 0
	}

	unitPrice = round2(entry.ListPrice * tier.Multiplier())
	// Extended price rounds the already-rounded unit price times quantity,
	// matching the observable per-line totals on the quote.
	extendedPrice = round2(unitPrice * float64(quantity))
	return unitPrice, extendedPrice
}

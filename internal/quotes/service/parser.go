package service

import (
	"regexp"
	"strconv"
	"strings"

	"riverhawk_quote_backend/internal/quotes/transport"
)

const (
	// minLineLength drops fragments too short to hold an item.
	minLineLength = 5
	// minDescriptionLength drops lines that are all structure and no product.
	minDescriptionLength = 3
	defaultUnit          = "each"
)

// unitVocabulary is the fixed set of recognized unit-of-measure words.
// Alternation order matters: earlier entries win when one prefixes another.
const unitVocabulary = `ea|each|box|pc|pcs|pieces|pair|roll|can|bottle|gallon|tube|set|pack|ft|feet`

var (
	headerLineRe = regexp.MustCompile(`(?i)^(item|description|qty|quantity|part)`)
	quantityRe   = regexp.MustCompile(`(?i)(\d+)\s*(` + unitVocabulary + `)?`)
	partHintRe   = regexp.MustCompile(`[A-Z]{2,}-[A-Z0-9]+-\d+|[A-Z0-9]{5,}`)
	notesRe      = regexp.MustCompile(`(?i)or equivalent|substitute ok|similar ok|alternate acceptable`)
	leadingQtyRe = regexp.MustCompile(`^\d+\s*`)
	unitWordRe   = regexp.MustCompile(`(?i)\s*(` + unitVocabulary + `)\s*`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// ParseRequest extracts structured line items from raw free-text request
// text, one candidate per physical line. Malformed lines degrade to
// best-effort extraction (quantity 1, unit "each") instead of failing;
// header-like and too-short lines are dropped. An empty result is the
// caller's signal that nothing usable was extracted.
func ParseRequest(rawText string) []transport.ParsedLineItem {
	items := make([]transport.ParsedLineItem, 0)

	for _, rawLine := range strings.Split(rawText, "\n") {
		line := strings.TrimSpace(rawLine)
		if len(line) < minLineLength || headerLineRe.MatchString(line) {
			continue
		}

		quantity := 1
		unit := defaultUnit
		if m := quantityRe.FindStringSubmatch(line); m != nil {
			if parsed, err := strconv.Atoi(m[1]); err == nil && parsed > 0 {
				quantity = parsed
			}
			if m[2] != "" {
				unit = strings.ToLower(m[2])
			}
		}

		partNumberHint := partHintRe.FindString(line)
		notes := notesRe.FindString(line)

		description := deriveDescription(line, partNumberHint)
		if len(description) <= minDescriptionLength {
			continue // probably a header or noise
		}

		items = append(items, transport.ParsedLineItem{
			Description:    description,
			Quantity:       quantity,
			Unit:           unit,
			PartNumberHint: partNumberHint,
			Notes:          notes,
		})
	}

	return items
}

// deriveDescription strips the leading quantity, recognized unit words, the
// part-number hint, and substitution phrases from the line, leaving the
// free-text product description.
func deriveDescription(line, partNumberHint string) string {
	description := leadingQtyRe.ReplaceAllString(line, "")
	description = unitWordRe.ReplaceAllString(description, " ")
	if partNumberHint != "" {
		description = strings.ReplaceAll(description, partNumberHint, " ")
	}
	description = notesRe.ReplaceAllString(description, " ")
	description = whitespaceRe.ReplaceAllString(description, " ")
	return strings.TrimSpace(description)
}

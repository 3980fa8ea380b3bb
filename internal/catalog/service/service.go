// Package service implements catalog search with deterministic keyword
// scoring. Matching is explainable by construction: identical catalog state
// and input always produce identical ranked output, with no randomness and
// no external calls.
package service

import (
	"fmt"
	"sort"
	"strings"

	"riverhawk_quote_backend/internal/catalog/repository"
	"riverhawk_quote_backend/internal/catalog/transport"
	"riverhawk_quote_backend/platform/apperr"
	"riverhawk_quote_backend/platform/logger"
)

const (
	// maxCandidates caps how many matches a search returns.
	maxCandidates = 5
	// relevanceFloor discards entries scoring at or below it.
	relevanceFloor = 15
	// exactMatchScore is assigned when a part-number hint hits a SKU.
	exactMatchScore = 100

	termScore         = 10
	wholeWordBonus    = 5
	categoryBonus     = 15
	brandBonus        = 10
	minTermLength     = 3
	strongMatchFloor  = 40
	goodMatchFloor    = 25
	reasonExactSKU    = "Exact SKU match"
	reasonStrongMatch = "Strong match"
	reasonGoodMatch   = "Good match"
	reasonPossible    = "Possible match"
)

// Service provides catalog lookup and keyword search.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new catalog service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// ListProducts returns the full catalog in stable order.
func (s *Service) ListProducts() transport.ProductListResponse {
	entries := s.repo.All()
	items := make([]transport.ProductResponse, len(entries))
	for i, entry := range entries {
		items[i] = transport.ProductResponse{
			SKU:       entry.SKU,
			Name:      entry.Name,
			Brand:     entry.Brand,
			Category:  entry.Category,
			Unit:      entry.Unit,
			ListPrice: entry.ListPrice,
			Keywords:  entry.Keywords,
		}
	}
	return transport.ProductListResponse{Items: items, Total: len(items)}
}

// GetProduct returns a single catalog entry by SKU.
func (s *Service) GetProduct(sku string) (transport.ProductResponse, error) {
	entry, ok := s.repo.GetBySKU(sku)
	if !ok {
		return transport.ProductResponse{}, apperr.NotFound(fmt.Sprintf("product %s not found", sku))
	}
	return transport.ProductResponse{
		SKU:       entry.SKU,
		Name:      entry.Name,
		Brand:     entry.Brand,
		Category:  entry.Category,
		Unit:      entry.Unit,
		ListPrice: entry.ListPrice,
		Keywords:  entry.Keywords,
	}, nil
}

// Search scores every catalog entry against the description and returns the
// top candidates, descending by score. A non-empty part-number hint that
// exactly equals a SKU short-circuits scoring with a single perfect match.
func (s *Service) Search(description, partNumberHint string) []transport.MatchCandidate {
	if partNumberHint != "" {
		if entry, ok := s.repo.GetBySKU(partNumberHint); ok {
			return []transport.MatchCandidate{newCandidate(entry, exactMatchScore, reasonExactSKU)}
		}
	}

	terms := searchTerms(description)
	matches := make([]transport.MatchCandidate, 0, maxCandidates)
	for _, entry := range s.repo.All() {
		score := keywordScore(entry, terms)
		if score <= relevanceFloor {
			continue
		}
		matches = append(matches, newCandidate(entry, score, classify(score)))
	}

	// Stable sort keeps catalog order as the tie-break for equal scores.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > maxCandidates {
		matches = matches[:maxCandidates]
	}
	return matches
}

// ScoreSKU re-scores the description against a single catalog entry,
// bypassing the relevance floor and truncation. Used during quote line
// resolution to recover the display name, unit, and confidence for a SKU
// the caller has already confirmed.
func (s *Service) ScoreSKU(description, sku string) (transport.MatchCandidate, bool) {
	entry, ok := s.repo.GetBySKU(sku)
	if !ok {
		return transport.MatchCandidate{}, false
	}
	score := keywordScore(entry, searchTerms(description))
	return newCandidate(entry, score, classify(score)), true
}

func searchTerms(description string) []string {
	fields := strings.Fields(strings.ToLower(description))
	terms := make([]string, 0, len(fields))
	for _, field := range fields {
		if len(field) < minTermLength {
			continue // too noisy to score reliably
		}
		terms = append(terms, field)
	}
	return terms
}

func keywordScore(entry repository.Entry, terms []string) int {
	text := strings.ToLower(entry.Name + " " + entry.Brand + " " + entry.Category + " " + strings.Join(entry.Keywords, " "))
	category := strings.ToLower(entry.Category)
	brand := strings.ToLower(entry.Brand)

	score := 0
	categoryHit := false
	brandHit := false
	for _, term := range terms {
		if strings.Contains(text, term) {
			score += termScore
			// Whole-word hits beat incidental substrings ("bolt" in "bolted").
			if containsWord(text, term) {
				score += wholeWordBonus
			}
		}
		if strings.Contains(category, term) {
			categoryHit = true
		}
		if strings.Contains(brand, term) {
			brandHit = true
		}
	}

	// Flat bonuses, applied once per entry regardless of how many terms hit.
	if categoryHit {
		score += categoryBonus
	}
	if brandHit {
		score += brandBonus
	}
	return score
}

// containsWord reports whether term occurs in text bounded by non-word
// characters (or the text edges) on both sides.
func containsWord(text, term string) bool {
	for start := 0; ; {
		idx := strings.Index(text[start:], term)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(term)
		if (idx == 0 || !isWordChar(text[idx-1])) && (end == len(text) || !isWordChar(text[end])) {
			return true
		}
		start = idx + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

func classify(score int) string {
	switch {
	case score > strongMatchFloor:
		return reasonStrongMatch
	case score > goodMatchFloor:
		return reasonGoodMatch
	default:
		return reasonPossible
	}
}

func newCandidate(entry repository.Entry, score int, reason string) transport.MatchCandidate {
	return transport.MatchCandidate{
		SKU:       entry.SKU,
		Name:      entry.Name,
		Brand:     entry.Brand,
		Unit:      entry.Unit,
		ListPrice: entry.ListPrice,
		Score:     score,
		Reason:    reason,
	}
}

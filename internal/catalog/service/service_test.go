package service

import (
	"testing"

	"riverhawk_quote_backend/internal/catalog/repository"
	"riverhawk_quote_backend/platform/apperr"
	"riverhawk_quote_backend/platform/logger"
)

func testService(t *testing.T) *Service {
	t.Helper()
	repo, err := repository.LoadSeed()
	if err != nil {
		t.Fatalf("LoadSeed failed: %v", err)
	}
	return New(repo, logger.New("development"))
}

func TestGetProductReturnsCatalogEntry(t *testing.T) {
	svc := testService(t)

	product, err := svc.GetProduct("GLV-NIT-100")
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if product.Name != "Nitrile Work Gloves, Large" {
		t.Fatalf("unexpected product name %q", product.Name)
	}
	if product.ListPrice != 8.49 {
		t.Fatalf("unexpected list price %v", product.ListPrice)
	}
}

func TestGetProductUnknownSKUIsNotFound(t *testing.T) {
	svc := testService(t)

	_, err := svc.GetProduct("ZZZ-GONE-999")
	if err == nil {
		t.Fatal("expected an error for an unknown SKU")
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestSearchRanksGloveEntriesByScore(t *testing.T) {
	svc := testService(t)

	matches := svc.Search("work gloves large", "")
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d: %+v", len(matches), matches)
	}

	// Nitrile gloves hit all three terms; leather gloves miss "large".
	if matches[0].SKU != "GLV-NIT-100" {
		t.Fatalf("expected GLV-NIT-100 first, got %s", matches[0].SKU)
	}
	if matches[0].Score != 45 {
		t.Fatalf("expected score 45 for GLV-NIT-100, got %d", matches[0].Score)
	}
	if matches[0].Reason != "Strong match" {
		t.Fatalf("expected Strong match, got %q", matches[0].Reason)
	}

	if matches[1].SKU != "GLV-LTH-200" {
		t.Fatalf("expected GLV-LTH-200 second, got %s", matches[1].SKU)
	}
	if matches[1].Score != 30 {
		t.Fatalf("expected score 30 for GLV-LTH-200, got %d", matches[1].Score)
	}
	if matches[1].Reason != "Good match" {
		t.Fatalf("expected Good match, got %q", matches[1].Reason)
	}
}

func TestSearchIsDeterministic(t *testing.T) {
	svc := testService(t)

	first := svc.Search("hex bolt grade 5 zinc", "")
	for i := 0; i < 10; i++ {
		again := svc.Search("hex bolt grade 5 zinc", "")
		if len(again) != len(first) {
			t.Fatalf("run %d: length %d, want %d", i, len(again), len(first))
		}
		for j := range again {
			if again[j].SKU != first[j].SKU || again[j].Score != first[j].Score {
				t.Fatalf("run %d: result %d = %s/%d, want %s/%d",
					i, j, again[j].SKU, again[j].Score, first[j].SKU, first[j].Score)
			}
		}
	}
}

func TestSearchScoresNonIncreasing(t *testing.T) {
	svc := testService(t)

	matches := svc.Search("zinc plated hex grade fastener", "")
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Fatalf("scores not non-increasing at %d: %d after %d", i, matches[i].Score, matches[i-1].Score)
		}
	}
}

func TestSearchExactSKUHintShortCircuits(t *testing.T) {
	svc := testService(t)

	matches := svc.Search("completely unrelated text", "GLV-NIT-100")
	if len(matches) != 1 {
		t.Fatalf("expected single exact match, got %d", len(matches))
	}
	if matches[0].SKU != "GLV-NIT-100" || matches[0].Score != 100 {
		t.Fatalf("expected GLV-NIT-100/100, got %s/%d", matches[0].SKU, matches[0].Score)
	}
	if matches[0].Reason != "Exact SKU match" {
		t.Fatalf("expected Exact SKU match, got %q", matches[0].Reason)
	}
}

func TestSearchUnknownHintFallsBackToScoring(t *testing.T) {
	svc := testService(t)

	matches := svc.Search("nitrile work gloves", "NO-SUCH-SKU")
	if len(matches) == 0 {
		t.Fatal("expected keyword matches when hint is unknown")
	}
	if matches[0].Score == 100 {
		t.Fatalf("unknown hint must not produce an exact match: %+v", matches[0])
	}
}

func TestSearchDropsScoresAtRelevanceFloor(t *testing.T) {
	svc := testService(t)

	// A single matching term scores exactly 15, which is at the floor and
	// must be excluded.
	matches := svc.Search("gloves", "")
	if len(matches) != 0 {
		t.Fatalf("expected no matches at the relevance floor, got %+v", matches)
	}
}

func TestSearchIgnoresShortTerms(t *testing.T) {
	svc := testService(t)

	// "in" and "x" are under the minimum term length; only real terms score.
	withNoise := svc.Search("in x pvc pipe schedule", "")
	clean := svc.Search("pvc pipe schedule", "")
	if len(withNoise) != len(clean) {
		t.Fatalf("short terms changed result count: %d vs %d", len(withNoise), len(clean))
	}
	for i := range clean {
		if withNoise[i].Score != clean[i].Score {
			t.Fatalf("short terms changed score at %d: %d vs %d", i, withNoise[i].Score, clean[i].Score)
		}
	}
}

func TestSearchCapsCandidates(t *testing.T) {
	entries := make([]repository.Entry, 0, 8)
	for _, sku := range []string{"WID-AAA-001", "WID-AAA-002", "WID-AAA-003", "WID-AAA-004", "WID-AAA-005", "WID-AAA-006", "WID-AAA-007", "WID-AAA-008"} {
		entries = append(entries, repository.Entry{
			SKU:       sku,
			Name:      "Widget Spanner",
			Brand:     "Acme",
			Category:  "Widgets",
			Unit:      "each",
			ListPrice: 2.50,
			Keywords:  []string{"widget", "spanner"},
		})
	}
	repo, err := repository.New(entries)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	svc := New(repo, logger.New("development"))

	matches := svc.Search("widget spanner", "")
	if len(matches) != 5 {
		t.Fatalf("expected results capped at 5, got %d", len(matches))
	}
	// Equal scores keep catalog order.
	if matches[0].SKU != "WID-AAA-001" {
		t.Fatalf("expected stable tie-break, got %s first", matches[0].SKU)
	}
}

func TestScoreSKUBypassesFloor(t *testing.T) {
	svc := testService(t)

	// "shop rags" scores 30 against the shop towels entry: below strong but
	// reported, since the caller already confirmed the SKU.
	match, ok := svc.ScoreSKU("shop rags", "RAG-SHP-050")
	if !ok {
		t.Fatal("expected ScoreSKU to find RAG-SHP-050")
	}
	if match.Score != 30 {
		t.Fatalf("expected score 30, got %d", match.Score)
	}
	if match.Name != "Shop Towels, Blue (50)" {
		t.Fatalf("unexpected name %q", match.Name)
	}

	// Even a zero score is reported.
	match, ok = svc.ScoreSKU("totally unrelated", "RAG-SHP-050")
	if !ok || match.Score != 0 {
		t.Fatalf("expected zero-score match, got ok=%v score=%d", ok, match.Score)
	}
}

func TestScoreSKUUnknownSKU(t *testing.T) {
	svc := testService(t)

	if _, ok := svc.ScoreSKU("anything", "NOPE-000"); ok {
		t.Fatal("expected ok=false for an unknown SKU")
	}
}

func TestContainsWordBoundaries(t *testing.T) {
	cases := []struct {
		text string
		term string
		want bool
	}{
		{"hex bolt grade", "bolt", true},
		{"bolted flange", "bolt", false},
		{"gloves, large", "gloves", true},
		{"a bolt", "bolt", true},
		{"bolt", "bolt", true},
		{"rebolt", "bolt", false},
		{"rebolt and bolt", "bolt", true},
	}
	for _, tc := range cases {
		if got := containsWord(tc.text, tc.term); got != tc.want {
			t.Fatalf("containsWord(%q, %q) = %v, want %v", tc.text, tc.term, got, tc.want)
		}
	}
}

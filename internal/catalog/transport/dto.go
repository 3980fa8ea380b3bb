package transport

// MatchCandidate is one ranked catalog match for a requested item.
// Candidates are recomputed per request and never persisted; ordering is
// descending by score with catalog order breaking ties.
type MatchCandidate struct {
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	Brand     string  `json:"brand"`
	Unit      string  `json:"unit"`
	ListPrice float64 `json:"listPrice"`
	Score     int     `json:"score"`
	Reason    string  `json:"reason"`
}

// ProductResponse is the listing shape for a catalog entry.
type ProductResponse struct {
	SKU       string   `json:"sku"`
	Name      string   `json:"name"`
	Brand     string   `json:"brand"`
	Category  string   `json:"category"`
	Unit      string   `json:"unit"`
	ListPrice float64  `json:"listPrice"`
	Keywords  []string `json:"keywords"`
}

// SearchRequest defines the query parameters for catalog search.
type SearchRequest struct {
	Query string `form:"q" validate:"required,min=1"`
	Hint  string `form:"hint"`
}

// ProductListResponse is the catalog listing payload.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}

// SearchResponse is the catalog search payload.
type SearchResponse struct {
	Matches []MatchCandidate `json:"matches"`
}

package repository

// Entry is a single immutable product record in the catalog.
type Entry struct {
	SKU       string   `yaml:"sku"`
	Name      string   `yaml:"name"`
	Brand     string   `yaml:"brand"`
	Category  string   `yaml:"category"`
	Unit      string   `yaml:"unit"`
	ListPrice float64  `yaml:"listPrice"`
	Keywords  []string `yaml:"keywords"`
}

// Repository is the read-only catalog index. The catalog is loaded once at
// startup and never mutated, so implementations need no locking.
type Repository interface {
	// All returns every entry in stable catalog order. Callers must not
	// modify the returned slice.
	All() []Entry
	// GetBySKU returns the entry with the exact SKU, if present.
	GetBySKU(sku string) (Entry, bool)
	// Len returns the number of entries.
	Len() int
}

// Package repository provides the in-memory product catalog index.
package repository

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedCatalog []byte

// Repo is the in-memory Repository implementation. Entry order is the load
// order of the source file; search tie-breaking depends on it staying stable.
type Repo struct {
	entries []Entry
	bySKU   map[string]int
}

// New builds an index over the given entries.
func New(entries []Entry) (*Repo, error) {
	bySKU := make(map[string]int, len(entries))
	for i, entry := range entries {
		sku := strings.TrimSpace(entry.SKU)
		if sku == "" {
			return nil, fmt.Errorf("catalog entry %d: missing sku", i)
		}
		if entry.Name == "" {
			return nil, fmt.Errorf("catalog entry %q: missing name", sku)
		}
		if entry.ListPrice < 0 {
			return nil, fmt.Errorf("catalog entry %q: negative list price", sku)
		}
		if _, exists := bySKU[sku]; exists {
			return nil, fmt.Errorf("catalog entry %q: duplicate sku", sku)
		}
		bySKU[sku] = i
	}

	return &Repo{entries: entries, bySKU: bySKU}, nil
}

// LoadSeed builds the index from the embedded seed catalog.
func LoadSeed() (*Repo, error) {
	return load(seedCatalog, "embedded seed")
}

// LoadFile builds the index from an external YAML catalog file.
func LoadFile(path string) (*Repo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return load(data, path)
}

func load(data []byte, source string) (*Repo, error) {
	var doc struct {
		Products []Entry `yaml:"products"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", source, err)
	}
	if len(doc.Products) == 0 {
		return nil, fmt.Errorf("catalog %s: no products", source)
	}
	return New(doc.Products)
}

// All returns every entry in stable catalog order.
func (r *Repo) All() []Entry {
	return r.entries
}

// GetBySKU returns the entry with the exact SKU, if present.
func (r *Repo) GetBySKU(sku string) (Entry, bool) {
	idx, ok := r.bySKU[sku]
	if !ok {
		return Entry{}, false
	}
	return r.entries[idx], true
}

// Len returns the number of entries.
func (r *Repo) Len() int {
	return len(r.entries)
}

var _ Repository = (*Repo)(nil)

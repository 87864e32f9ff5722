package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/naruebet/voicecart/agent/contract"
)

// document is the on-disk shape of the catalog file.
type document struct {
	Products []contractx.Product `json:"products"`
}

// FileStore reads products from a JSON file on every query. The file is the
// source of truth; no caching happens here.
type FileStore struct {
	path string
}

// NewFileStore opens (and seeds, if absent) the catalog file at path.
func NewFileStore(path string) (*FileStore, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, errors.New("catalog file path is required")
	}

	s := &FileStore{path: trimmed}
	if err := s.seedIfMissing(); err != nil {
		return nil, fmt.Errorf("seed catalog file: %w", err)
	}
	return s, nil
}

func (s *FileStore) seedIfMissing() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	payload, err := json.MarshalIndent(document{Products: DefaultProducts()}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, payload, 0o644)
}

// All returns every product in catalog order. An unreadable or corrupt file
// degrades to an empty result with a logged error, per the tool-surface
// error policy.
func (s *FileStore) All(ctx context.Context) ([]contractx.Product, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		log.Error().Err(err).Str("path", s.path).Msg("read catalog file")
		return nil, fmt.Errorf("%w: read catalog: %v", contractx.ErrStore, err)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		log.Error().Err(err).Str("path", s.path).Msg("decode catalog file")
		return nil, fmt.Errorf("%w: decode catalog: %v", contractx.ErrStore, err)
	}

	return doc.Products, nil
}

// List returns products satisfying every provided filter, in catalog order.
func (s *FileStore) List(ctx context.Context, f contractx.Filter) ([]contractx.Product, error) {
	products, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	results := Apply(products, f)
	log.Debug().Int("count", len(results)).Msg("filtered products")
	return results, nil
}

// Get looks up a product by exact identifier.
func (s *FileStore) Get(ctx context.Context, id string) (contractx.Product, bool, error) {
	products, err := s.All(ctx)
	if err != nil {
		return contractx.Product{}, false, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, true, nil
		}
	}
	return contractx.Product{}, false, nil
}

// Apply filters products in place of a query engine: all provided constraints
// AND together, order is preserved.
func Apply(products []contractx.Product, f contractx.Filter) []contractx.Product {
	if f.IsZero() {
		return products
	}

	results := make([]contractx.Product, 0, len(products))
	for _, p := range products {
		if matches(p, f) {
			results = append(results, p)
		}
	}
	return results
}

func matches(p contractx.Product, f contractx.Filter) bool {
	if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	if f.Color != "" && !strings.EqualFold(p.Color, f.Color) {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Category), q) {
			return false
		}
	}
	return true
}

// DefaultProducts is the fixed seed catalog written when no catalog file
// exists yet.
func DefaultProducts() []contractx.Product {
	return []contractx.Product{
		{
			ID:       "hoodie-black-01",
			Name:     "Black Warrior Hoodie",
			Price:    1499,
			Currency: "INR",
			Category: "hoodie",
			Color:    "black",
			Sizes:    []string{"S", "M", "L", "XL"},
		},
		{
			ID:       "hoodie-blue-01",
			Name:     "Blue Mystic Hoodie",
			Price:    1299,
			Currency: "INR",
			Category: "hoodie",
			Color:    "blue",
			Sizes:    []string{"M", "L"},
		},
		{
			ID:       "mug-white-01",
			Name:     "Stoneware Coffee Mug",
			Price:    800,
			Currency: "INR",
			Category: "mug",
			Color:    "white",
		},
		{
			ID:       "mug-blue-01",
			Name:     "Midnight Blue Mug",
			Price:    650,
			Currency: "INR",
			Category: "mug",
			Color:    "blue",
		},
	}
}

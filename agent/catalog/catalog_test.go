package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	contractx "github.com/naruebet/voicecart/agent/contract"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "products.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return store
}

func TestFileStoreSeedsDefaultCatalog(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	products, err := store.All(context.Background())
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(products) != 4 {
		t.Fatalf("expected 4 seeded products, got %d", len(products))
	}
	if products[0].ID != "hoodie-black-01" {
		t.Fatalf("unexpected first product: %s", products[0].ID)
	}
}

func TestFileStoreListByCategory(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	mugs, err := store.List(context.Background(), contractx.Filter{Category: "mug"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(mugs) != 2 {
		t.Fatalf("expected 2 mugs, got %d", len(mugs))
	}
	if mugs[0].ID != "mug-white-01" || mugs[1].ID != "mug-blue-01" {
		t.Fatalf("mugs not in catalog order: %s, %s", mugs[0].ID, mugs[1].ID)
	}
}

func TestFileStoreListFiltersCombine(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	maxPrice := int64(1300)

	out, err := store.List(context.Background(), contractx.Filter{
		Category: "hoodie",
		Color:    "blue",
		MaxPrice: &maxPrice,
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(out) != 1 || out[0].ID != "hoodie-blue-01" {
		t.Fatalf("unexpected result: %#v", out)
	}
}

func TestFileStoreListQueryMatchesNameOrCategory(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	byName, err := store.List(context.Background(), contractx.Filter{Query: "mystic"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(byName) != 1 || byName[0].ID != "hoodie-blue-01" {
		t.Fatalf("unexpected query-by-name result: %#v", byName)
	}

	byCategory, err := store.List(context.Background(), contractx.Filter{Query: "HOODIE"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(byCategory) != 2 {
		t.Fatalf("expected 2 hoodies, got %d", len(byCategory))
	}
}

func TestFileStoreListNoFilterReturnsAll(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	out, err := store.List(context.Background(), contractx.Filter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(out) != 4 {
		t.Fatalf("expected full catalog, got %d products", len(out))
	}
}

func TestFileStoreGet(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	p, ok, err := store.Get(context.Background(), "mug-blue-01")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Fatal("expected product to exist")
	}
	if p.Price != 650 {
		t.Fatalf("unexpected price: %d", p.Price)
	}

	_, ok, err = store.Get(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Fatal("expected missing product")
	}
}

func TestFileStoreCorruptFileDegrades(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "products.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt file: %v", err)
	}

	out, err := store.All(context.Background())
	if err == nil {
		t.Fatal("expected error for corrupt catalog")
	}
	if len(out) != 0 {
		t.Fatalf("expected empty result, got %d", len(out))
	}
}

func TestFileStoreDoesNotReseedExistingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "products.json")
	if err := os.WriteFile(path, []byte(`{"products":[{"id":"only-one","name":"Only One","price":1,"currency":"INR","category":"misc","color":"red"}]}`), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	products, err := store.All(context.Background())
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(products) != 1 || products[0].ID != "only-one" {
		t.Fatalf("existing file was overwritten: %#v", products)
	}
}

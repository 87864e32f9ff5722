package contract

import "context"

// CatalogStore reads the persisted product catalog. Implementations re-read
// the backing file on every call; nothing is cached.
type CatalogStore interface {
	All(ctx context.Context) ([]Product, error)
	List(ctx context.Context, f Filter) ([]Product, error)
	Get(ctx context.Context, id string) (Product, bool, error)
}

// OrderStore persists confirmed orders in insertion order.
type OrderStore interface {
	Append(ctx context.Context, o Order) error
	Last(ctx context.Context) (Order, bool, error)
}

// Resolver turns a spoken or typed product reference into a catalog entry.
type Resolver interface {
	Resolve(ref string, candidates []Product) (Product, bool)
}

// Assistant drives one conversational turn end to end.
type Assistant interface {
	HandleMessage(ctx context.Context, text string) (string, error)
}

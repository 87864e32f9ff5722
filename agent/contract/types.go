package contract

import "time"

// Product is one catalog entry. Products are immutable once loaded; the
// catalog file is the source of truth.
type Product struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    int64    `json:"price"`
	Currency string   `json:"currency"`
	Category string   `json:"category"`
	Color    string   `json:"color"`
	Sizes    []string `json:"sizes,omitempty"`
}

// RequiresSize reports whether the product declares a size list. Adding such
// a product to a cart without a size must be refused.
func (p Product) RequiresSize() bool {
	return len(p.Sizes) > 0
}

// CartLine is one (product, quantity, attrs) entry in a session cart.
type CartLine struct {
	ProductID string            `json:"product_id"`
	Quantity  int               `json:"quantity"`
	Attrs     map[string]string `json:"attrs,omitempty"`
}

// Size returns the size attribute, or "" when none was given.
func (l CartLine) Size() string {
	return l.Attrs["size"]
}

// OrderItem is a denormalized snapshot of a cart line at checkout time.
type OrderItem struct {
	ProductID string            `json:"product_id"`
	Name      string            `json:"name"`
	UnitPrice int64             `json:"unit_price"`
	Quantity  int               `json:"quantity"`
	LineTotal int64             `json:"line_total"`
	Attrs     map[string]string `json:"attrs"`
}

// OrderStatusConfirmed is the only status an order ever carries; orders are
// immutable after creation.
const OrderStatusConfirmed = "CONFIRMED"

// Order is an immutable, persisted record of a completed checkout.
type Order struct {
	ID        string      `json:"id"`
	Items     []OrderItem `json:"items"`
	Total     int64       `json:"total"`
	Currency  string      `json:"currency"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

// Filter narrows a catalog listing. All provided fields AND together; zero
// values mean "no constraint".
type Filter struct {
	Query    string `json:"q,omitempty"`
	Category string `json:"category,omitempty"`
	Color    string `json:"color,omitempty"`
	MinPrice *int64 `json:"min_price,omitempty"`
	MaxPrice *int64 `json:"max_price,omitempty"`
}

// IsZero reports whether no constraint is set.
func (f Filter) IsZero() bool {
	return f.Query == "" && f.Category == "" && f.Color == "" && f.MinPrice == nil && f.MaxPrice == nil
}

// ToolRequest is one tool invocation planned by the conversational layer.
type ToolRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolResult carries a tool outcome back across the conversational boundary.
// Result is always spoken-ready text; Error is a natural-language failure
// message, never a structured code.
type ToolResult struct {
	Tool   string `json:"tool"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

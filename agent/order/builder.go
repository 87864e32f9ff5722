package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/naruebet/voicecart/agent/contract"
)

const defaultCurrency = "INR"

// Builder turns cart lines into a persisted order. The transition is atomic
// from the caller's perspective: every line must validate against the
// catalog before anything is written.
type Builder struct {
	catalog contractx.CatalogStore
	orders  contractx.OrderStore

	now   func() time.Time
	newID func() string
}

// NewBuilder wires a builder over the catalog and order stores.
func NewBuilder(catalog contractx.CatalogStore, orders contractx.OrderStore) (*Builder, error) {
	if catalog == nil {
		return nil, fmt.Errorf("%w: catalog store is required", contractx.ErrValidation)
	}
	if orders == nil {
		return nil, fmt.Errorf("%w: order store is required", contractx.ErrValidation)
	}
	return &Builder{
		catalog: catalog,
		orders:  orders,
		now:     time.Now,
		newID:   func() string { return "order-" + uuid.NewString()[:8] },
	}, nil
}

// Build validates every line, computes integer totals, stamps identifier and
// timestamp, and appends the order to the store. A line referencing a
// product absent from the catalog fails the whole build with no write.
func (b *Builder) Build(ctx context.Context, lines []contractx.CartLine, currency string) (contractx.Order, error) {
	if len(lines) == 0 {
		return contractx.Order{}, fmt.Errorf("%w: no cart lines", contractx.ErrValidation)
	}
	if currency == "" {
		currency = defaultCurrency
	}

	items := make([]contractx.OrderItem, 0, len(lines))
	var total int64

	for _, line := range lines {
		qty := line.Quantity
		if qty <= 0 {
			qty = 1
		}

		prod, ok, err := b.catalog.Get(ctx, line.ProductID)
		if err != nil {
			return contractx.Order{}, err
		}
		if !ok {
			return contractx.Order{}, fmt.Errorf("%w: product %s not found", contractx.ErrValidation, line.ProductID)
		}

		lineTotal := prod.Price * int64(qty)
		total += lineTotal

		attrs := line.Attrs
		if attrs == nil {
			attrs = map[string]string{}
		}
		items = append(items, contractx.OrderItem{
			ProductID: line.ProductID,
			Name:      prod.Name,
			UnitPrice: prod.Price,
			Quantity:  qty,
			LineTotal: lineTotal,
			Attrs:     attrs,
		})
	}

	o := contractx.Order{
		ID:        b.newID(),
		Items:     items,
		Total:     total,
		Currency:  currency,
		Status:    contractx.OrderStatusConfirmed,
		CreatedAt: b.now().UTC(),
	}

	if err := b.orders.Append(ctx, o); err != nil {
		return contractx.Order{}, err
	}

	log.Info().Str("order_id", o.ID).Int64("total", o.Total).Int("items", len(o.Items)).Msg("order persisted")
	return o, nil
}

package order

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naruebet/voicecart/agent/catalog"
	contractx "github.com/naruebet/voicecart/agent/contract"
)

func newTestBuilder(t *testing.T) (*Builder, *FileStore) {
	t.Helper()

	dir := t.TempDir()
	cat, err := catalog.NewFileStore(filepath.Join(dir, "products.json"))
	require.NoError(t, err)
	orders, err := NewFileStore(filepath.Join(dir, "orders.json"))
	require.NoError(t, err)

	b, err := NewBuilder(cat, orders)
	require.NoError(t, err)
	b.now = func() time.Time { return time.Date(2025, 11, 3, 10, 30, 0, 0, time.UTC) }
	b.newID = func() string { return "order-feedc0de" }
	return b, orders
}

func TestBuildTwoLineOrder(t *testing.T) {
	t.Parallel()

	b, store := newTestBuilder(t)
	ctx := context.Background()

	lines := []contractx.CartLine{
		{ProductID: "hoodie-black-01", Quantity: 1, Attrs: map[string]string{"size": "M"}},
		{ProductID: "mug-blue-01", Quantity: 2},
	}

	o, err := b.Build(ctx, lines, "INR")
	require.NoError(t, err)

	assert.Equal(t, "order-feedc0de", o.ID)
	assert.Equal(t, int64(1499+2*650), o.Total)
	require.Len(t, o.Items, 2)
	assert.Equal(t, int64(1499), o.Items[0].LineTotal)
	assert.Equal(t, int64(1300), o.Items[1].LineTotal)
	assert.Equal(t, contractx.OrderStatusConfirmed, o.Status)
	assert.Equal(t, "M", o.Items[0].Attrs["size"])

	last, ok, err := store.Last(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, o.ID, last.ID)
}

func TestBuildMissingProductAbortsWithoutWrite(t *testing.T) {
	t.Parallel()

	b, store := newTestBuilder(t)
	ctx := context.Background()

	lines := []contractx.CartLine{
		{ProductID: "hoodie-black-01", Quantity: 1, Attrs: map[string]string{"size": "L"}},
		{ProductID: "ghost-product-01", Quantity: 1},
	}

	_, err := b.Build(ctx, lines, "INR")
	require.Error(t, err)
	assert.ErrorIs(t, err, contractx.ErrValidation)
	assert.Contains(t, err.Error(), "ghost-product-01")

	_, ok, err := store.Last(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "failed build must not persist anything")
}

func TestBuildEmptyCartRejected(t *testing.T) {
	t.Parallel()

	b, _ := newTestBuilder(t)

	_, err := b.Build(context.Background(), nil, "INR")
	require.Error(t, err)
	assert.ErrorIs(t, err, contractx.ErrValidation)
}

func TestBuildDefaultsQuantityAndCurrency(t *testing.T) {
	t.Parallel()

	b, _ := newTestBuilder(t)

	o, err := b.Build(context.Background(), []contractx.CartLine{{ProductID: "mug-white-01"}}, "")
	require.NoError(t, err)
	assert.Equal(t, "INR", o.Currency)
	require.Len(t, o.Items, 1)
	assert.Equal(t, 1, o.Items[0].Quantity)
	assert.Equal(t, int64(800), o.Total)
}

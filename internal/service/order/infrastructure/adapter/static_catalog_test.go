package adapter

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticCatalogKnownProduct(t *testing.T) {
	catalog := NewStaticCatalog()

	item, ok := catalog.Lookup(context.Background(), 8)
	require.True(t, ok)
	assert.Equal(t, int64(8), item.ProductID)
	assert.Equal(t, "IVG Nic Salt - Frozen Cherries 10ml Bottle", item.ProductName)
	assert.True(t, item.UnitPrice.Equal(decimal.NewFromFloat(4.99)))
	assert.Equal(t, 1, item.Quantity)
}

func TestStaticCatalogSnapshotValues(t *testing.T) {
	catalog := NewStaticCatalog()

	tests := []struct {
		id    int64
		name  string
		price string
	}{
		{1, "Drifter Bar - Cola 50/50 100ml Shortfill Eliquid", "6.99"},
		{2, "Drifter Bar - Pineapple Ice 50/50 100ml Shortfill Eliquid", "6.99"},
		{3, "Bar Juice 5000 Nic Salt - Butter Mints", "4.50"},
		{4, "Lost Mary 4 in 1 Prefilled Pod Kit - Fruits Edition", "15.99"},
		{7, "VooPoo Argus Pro 80W Pod Kit", "45.99"},
		{8, "IVG Nic Salt - Frozen Cherries 10ml Bottle", "4.99"},
	}
	for _, tt := range tests {
		item, ok := catalog.Lookup(context.Background(), tt.id)
		require.True(t, ok, "product %d", tt.id)
		assert.Equal(t, tt.name, item.ProductName)
		want, err := decimal.NewFromString(tt.price)
		require.NoError(t, err)
		assert.True(t, item.UnitPrice.Equal(want), "product %d: got %s", tt.id, item.UnitPrice)
		assert.Contains(t, item.ProductImage, "jake-mall-bucket.s3.eu-west-1.amazonaws.com")
	}
}

func TestStaticCatalogUnknownProductFallsBackToDefault(t *testing.T) {
	catalog := NewStaticCatalog()

	item, ok := catalog.Lookup(context.Background(), 999)
	require.True(t, ok)
	assert.Equal(t, int64(1), item.ProductID)
	assert.Equal(t, "Drifter Bar - Cola 50/50 100ml Shortfill Eliquid", item.ProductName)
	assert.True(t, item.UnitPrice.Equal(decimal.NewFromFloat(6.99)))
	assert.Equal(t, 1, item.Quantity)
}

func TestStaticCatalogCoversSnapshot(t *testing.T) {
	catalog := NewStaticCatalog()
	for _, id := range []int64{1, 2, 3, 4, 7, 8} {
		item, ok := catalog.Lookup(context.Background(), id)
		require.True(t, ok)
		assert.Equal(t, id, item.ProductID)
		assert.NotEmpty(t, item.ProductName)
		assert.True(t, item.UnitPrice.IsPositive())
	}
}

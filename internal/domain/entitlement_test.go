package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time %q: %v", value, err)
	}
	return ts
}

func TestNetEntitlement(t *testing.T) {
	t.Parallel()

	t.Run("no orders yields empty entitlement", func(t *testing.T) {
		assert.Empty(t, NetEntitlement(Registration{}))
	})

	t.Run("cancelled orders are excluded", func(t *testing.T) {
		reg := Registration{Orders: []Order{
			{Status: OrderStatusVerified, Lines: []OrderLine{line(1, 0, 2)}},
			{Status: OrderStatusCancelled, Lines: []OrderLine{line(2, 0, 5)}},
		}}
		items := NetEntitlement(reg)
		require.Len(t, items, 1)
		assert.Equal(t, int64(1), items[0].ProductID)
		assert.Equal(t, 2, items[0].Quantity)
	})

	t.Run("only cancelled orders yields empty entitlement", func(t *testing.T) {
		reg := Registration{Orders: []Order{
			{Status: OrderStatusCancelled, Lines: []OrderLine{line(1, 0, 2)}},
		}}
		assert.Empty(t, NetEntitlement(reg))
	})

	t.Run("refund lines net across orders", func(t *testing.T) {
		reg := Registration{Orders: []Order{
			{Status: OrderStatusInvoiced, Lines: []OrderLine{line(1, 0, 5)}},
			{Status: OrderStatusDraft, Lines: []OrderLine{line(1, 0, -2)}},
		}}
		items := NetEntitlement(reg)
		require.Len(t, items, 1)
		assert.Equal(t, 3, items[0].Quantity)
	})

	t.Run("fully refunded product is excluded", func(t *testing.T) {
		reg := Registration{Orders: []Order{
			{Status: OrderStatusInvoiced, Lines: []OrderLine{line(1, 0, 5)}},
			{Status: OrderStatusDraft, Lines: []OrderLine{line(1, 0, -5)}},
		}}
		assert.Empty(t, NetEntitlement(reg))
	})

	t.Run("variants of a product stay distinct", func(t *testing.T) {
		reg := Registration{Orders: []Order{
			{Status: OrderStatusVerified, Lines: []OrderLine{line(1, 10, 1), line(1, 20, 2)}},
		}}
		items := NetEntitlement(reg)
		require.Len(t, items, 2)
		assert.Equal(t, int64(10), items[0].VariantID)
		assert.Equal(t, int64(20), items[1].VariantID)
	})

	t.Run("carries representative product reference", func(t *testing.T) {
		product := &Product{ID: 1, Name: "Dinner"}
		reg := Registration{Orders: []Order{
			{Status: OrderStatusVerified, Lines: []OrderLine{
				{ProductID: 1, Quantity: 1, Product: product},
				{ProductID: 1, Quantity: 1},
			}},
		}}
		items := NetEntitlement(reg)
		require.Len(t, items, 1)
		assert.Same(t, product, items[0].Product)
		assert.Equal(t, 2, items[0].Quantity)
	})
}

func TestNetQuantityByProduct(t *testing.T) {
	t.Parallel()

	items := []EntitlementItem{
		{ProductID: 1, VariantID: 10, Quantity: 2},
		{ProductID: 1, VariantID: 20, Quantity: 3},
		{ProductID: 2, Quantity: 1},
	}
	totals := NetQuantityByProduct(items)
	assert.Equal(t, 5, totals[1])
	assert.Equal(t, 1, totals[2])
}

func TestLatestEditableOrder(t *testing.T) {
	t.Parallel()

	t.Run("nil when all orders cancelled", func(t *testing.T) {
		reg := Registration{Orders: []Order{{Status: OrderStatusCancelled}}}
		assert.Nil(t, reg.LatestEditableOrder())
	})

	t.Run("picks latest by order time", func(t *testing.T) {
		reg := Registration{Orders: []Order{
			{ID: "a", Status: OrderStatusVerified, OrderTime: mustTime(t, "2026-01-01T10:00:00Z")},
			{ID: "b", Status: OrderStatusDraft, OrderTime: mustTime(t, "2026-01-02T10:00:00Z")},
			{ID: "c", Status: OrderStatusCancelled, OrderTime: mustTime(t, "2026-01-03T10:00:00Z")},
		}}
		got := reg.LatestEditableOrder()
		require.NotNil(t, got)
		assert.Equal(t, "b", got.ID)
	})
}

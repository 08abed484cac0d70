package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zaytuna-store/go-backend/pkg/e"
)

func TestParseOrderStatus(t *testing.T) {
	for _, s := range []string{"pending", "confirmed", "shipped", "delivered", "cancelled"} {
		got, err := ParseOrderStatus(s)
		require.NoError(t, err)
		assert.Equal(t, OrderStatus(s), got)
	}

	_, err := ParseOrderStatus("returned")
	assert.ErrorIs(t, err, e.ErrInvalidStatus)

	_, err = ParseOrderStatus("Pending")
	assert.ErrorIs(t, err, e.ErrInvalidStatus, "статусы чувствительны к регистру")
}

func TestNewOrderSnapshotsProduct(t *testing.T) {
	product := &Product{ID: 42, Name: "Argan Oil", Price: 2999}

	order := NewOrder(product, 3, nil, nil, "ORD-2026-ABCDEF")

	require.NotNil(t, order.ProductID)
	assert.Equal(t, int64(42), *order.ProductID)
	assert.Equal(t, "Argan Oil", order.ProductName)
	assert.Equal(t, int64(2999), order.ProductPrice)
	assert.Equal(t, int64(3), order.Quantity)
	assert.Equal(t, OrderPending, order.Status)
	assert.Equal(t, "ORD-2026-ABCDEF", order.Reference)
}

func TestOrderStockMovement(t *testing.T) {
	order := &Order{Quantity: 4, Status: OrderPending}

	// Отмена возвращает бронь
	assert.Equal(t, int64(4), order.StockMovement(OrderCancelled))

	// Переходы между потребляющими статусами остаток не двигают
	assert.Zero(t, order.StockMovement(OrderConfirmed))
	assert.Zero(t, order.StockMovement(OrderShipped))
	assert.Zero(t, order.StockMovement(OrderDelivered))
	assert.Zero(t, order.StockMovement(OrderPending))

	// Снятие отмены бронирует заново
	order.Status = OrderCancelled
	assert.Equal(t, int64(-4), order.StockMovement(OrderConfirmed))
	assert.Equal(t, int64(-4), order.StockMovement(OrderPending))

	// cancelled -> cancelled идемпотентен
	assert.Zero(t, order.StockMovement(OrderCancelled))
}

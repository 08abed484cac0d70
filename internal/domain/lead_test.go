package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zaytuna-store/go-backend/pkg/e"
)

func TestParseLeadStatus(t *testing.T) {
	for _, s := range []string{"pending", "contacted", "converted", "lost"} {
		got, err := ParseLeadStatus(s)
		require.NoError(t, err)
		assert.Equal(t, LeadStatus(s), got)
	}

	_, err := ParseLeadStatus("shipped")
	assert.ErrorIs(t, err, e.ErrInvalidStatus, "статусы заказов не действуют для лидов")
}

func TestNewLeadSnapshotsProduct(t *testing.T) {
	product := &Product{ID: 7, Name: "Black Soap", Price: 4500}
	clicked := time.Now()

	lead := NewLead(product, nil, nil, "OO-2026-XYZ123", "https://wa.me/212600000000?text=hi", clicked)

	require.NotNil(t, lead.ProductID)
	assert.Equal(t, int64(7), *lead.ProductID)
	assert.Equal(t, "Black Soap", lead.ProductName)
	assert.Equal(t, int64(4500), lead.ProductPrice)
	assert.Equal(t, LeadPending, lead.Status)
	assert.Equal(t, "OO-2026-XYZ123", lead.Reference)
	assert.Equal(t, "https://wa.me/212600000000?text=hi", lead.WhatsAppURL)
	assert.Equal(t, clicked, lead.ClickedAt)
}

func TestLeadStockMovement(t *testing.T) {
	lead := &Lead{Status: LeadPending}

	// Конверсия бронирует одну единицу
	assert.Equal(t, int64(-1), lead.StockMovement(LeadConverted))

	// Остальные переходы остаток не двигают
	assert.Zero(t, lead.StockMovement(LeadContacted))
	assert.Zero(t, lead.StockMovement(LeadLost))
	assert.Zero(t, lead.StockMovement(LeadPending))

	// Выход из converted возвращает бронь
	lead.Status = LeadConverted
	assert.Equal(t, int64(1), lead.StockMovement(LeadLost))
	assert.Equal(t, int64(1), lead.StockMovement(LeadPending))
	assert.Zero(t, lead.StockMovement(LeadConverted))
}

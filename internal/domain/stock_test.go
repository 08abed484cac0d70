package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zaytuna-store/go-backend/pkg/e"
)

func int64Ptr(v int64) *int64 {
	return &v
}

func TestStockAvailable(t *testing.T) {
	units, tracked := StockAvailable(nil)
	assert.False(t, tracked)
	assert.Zero(t, units)

	units, tracked = StockAvailable(int64Ptr(7))
	assert.True(t, tracked)
	assert.Equal(t, int64(7), units)

	units, tracked = StockAvailable(int64Ptr(0))
	assert.True(t, tracked)
	assert.Zero(t, units)
}

func TestReserveStock(t *testing.T) {
	got, err := ReserveStock(int64Ptr(5), 2)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(3), *got)

	// Списание ровно до нуля допустимо
	got, err = ReserveStock(int64Ptr(2), 2)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(0), *got)
}

func TestReserveStockInsufficient(t *testing.T) {
	stock := int64Ptr(1)

	got, err := ReserveStock(stock, 2)
	assert.ErrorIs(t, err, e.ErrInsufficientStock)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), *got, "остаток не меняется при отказе")
}

func TestReserveStockUntracked(t *testing.T) {
	got, err := ReserveStock(nil, 1000)
	assert.NoError(t, err)
	assert.Nil(t, got, "неотслеживаемый остаток остаётся неотслеживаемым")
}

func TestReleaseStock(t *testing.T) {
	got := ReleaseStock(int64Ptr(3), 2)
	require.NotNil(t, got)
	assert.Equal(t, int64(5), *got)

	assert.Nil(t, ReleaseStock(nil, 2))
}

func TestReserveThenReleaseRoundTrip(t *testing.T) {
	reserved, err := ReserveStock(int64Ptr(10), 4)
	require.NoError(t, err)

	restored := ReleaseStock(reserved, 4)
	require.NotNil(t, restored)
	assert.Equal(t, int64(10), *restored)
}

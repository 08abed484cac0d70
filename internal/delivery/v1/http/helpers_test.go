package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zaytuna-store/go-backend/pkg/e"
)

func TestParsePriceToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"29.99", 2999},
		{"30", 3000},
		{"0.05", 5},
		{"0", 0},
		{"1234.5", 123450},
		{"10000000", 1000000000},
	}

	for _, tc := range cases {
		got, err := parsePriceToCents(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParsePriceToCentsInvalid(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "29,99", "-1", "10000000.01"} {
		_, err := parsePriceToCents(in)
		assert.ErrorIs(t, err, e.ErrInvalidPrice, in)
	}

	_, err := parsePriceToCents("29.999")
	assert.ErrorIs(t, err, e.ErrPricePrecision)
}

func TestToHTTPResponse(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{e.ErrInvalidQuantity, http.StatusBadRequest},
		{e.ErrInvalidStatus, http.StatusBadRequest},
		{e.ErrInvalidSignature, http.StatusBadRequest},
		{e.ErrUnauthorized, http.StatusUnauthorized},
		{e.ErrForbidden, http.StatusForbidden},
		{e.ErrProductNotFound, http.StatusNotFound},
		{e.ErrOrderNotFound, http.StatusNotFound},
		{e.ErrDuplicateName, http.StatusConflict},
		{e.ErrInsufficientStock, http.StatusConflict},
		{assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		code, _ := ToHTTPResponse(tc.err)
		assert.Equal(t, tc.code, code, tc.err.Error())
	}

	// Обёрнутые ошибки разворачиваются через errors.Is
	code, msg := ToHTTPResponse(e.Wrap("OrderUseCase.Create", e.ErrInsufficientStock))
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, e.ErrInsufficientStock.Error(), msg)
}

package whatsapp

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zaytuna-store/go-backend/internal/cfg"
	"github.com/zaytuna-store/go-backend/internal/domain"
)

func testBuilder() *LinkBuilder {
	return NewLinkBuilder(&cfg.WhatsAppCfg{
		PhoneNumber: "212600000000",
		StoreName:   "Zaytuna Store",
		Currency:    "MAD",
	})
}

func strPtr(s string) *string { return &s }

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "29.99", FormatPrice(2999))
	assert.Equal(t, "1.00", FormatPrice(100))
	assert.Equal(t, "0.05", FormatPrice(5))
	assert.Equal(t, "0.00", FormatPrice(0))
	assert.Equal(t, "1234.50", FormatPrice(123450))
}

func TestBuildOrderLink(t *testing.T) {
	product := &domain.Product{ID: 1, Name: "Argan Oil", Price: 2999}

	link := testBuilder().BuildOrderLink(product, "OO-2026-ABC123", strPtr("Amina"), strPtr("amina@store.test"))

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "https", u.Scheme)
	assert.Equal(t, "wa.me", u.Host)
	assert.Equal(t, "/212600000000", u.Path)

	lines := strings.Split(u.Query().Get("text"), "\n")
	assert.Equal(t, []string{
		"Zaytuna Store New Order Request",
		"",
		"Product: Argan Oil",
		"Price: 29.99 MAD",
		"Reference: OO-2026-ABC123",
		"Customer Name: Amina",
		"Customer Email: amina@store.test",
		"",
		"I would like to order this product.",
	}, lines)
}

func TestBuildOrderLinkAnonymous(t *testing.T) {
	product := &domain.Product{ID: 1, Name: "Argan Oil", Price: 2999}

	link := testBuilder().BuildOrderLink(product, "OO-2026-ABC123", nil, nil)

	u, err := url.Parse(link)
	require.NoError(t, err)

	text := u.Query().Get("text")
	assert.NotContains(t, text, "Customer Name")
	assert.NotContains(t, text, "Customer Email")
	assert.Contains(t, text, "Reference: OO-2026-ABC123")
}

func TestBuildOrderLinkSkipsEmptyContactFields(t *testing.T) {
	product := &domain.Product{ID: 1, Name: "Argan Oil", Price: 2999}

	link := testBuilder().BuildOrderLink(product, "OO-2026-ABC123", strPtr(""), strPtr(""))

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.NotContains(t, u.Query().Get("text"), "Customer")
}

package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/zaytuna-store/go-backend/internal/cfg"
	"github.com/zaytuna-store/go-backend/internal/domain"
)

// minorUnits — знаменатель перевода цены из минорных единиц в основные.
var minorUnits = decimal.NewFromInt(100)

// LinkBuilder строит wa.me deep-link с предзаполненным текстом обращения.
// Ссылка сохраняется вместе с лидом: по ней админ видит, что именно
// отправил покупатель.
type LinkBuilder struct {
	cfg *cfg.WhatsAppCfg
}

func NewLinkBuilder(cfg *cfg.WhatsAppCfg) *LinkBuilder {
	return &LinkBuilder{cfg: cfg}
}

// BuildOrderLink собирает сообщение о заказе и упаковывает его в wa.me URL.
func (b *LinkBuilder) BuildOrderLink(product *domain.Product, reference string, userName, userEmail *string) string {
	lines := []string{
		fmt.Sprintf("%s New Order Request", b.cfg.StoreName),
		"",
		fmt.Sprintf("Product: %s", product.Name),
		fmt.Sprintf("Price: %s %s", FormatPrice(product.Price), b.cfg.Currency),
		fmt.Sprintf("Reference: %s", reference),
	}

	if userName != nil && *userName != "" {
		lines = append(lines, fmt.Sprintf("Customer Name: %s", *userName))
	}

	if userEmail != nil && *userEmail != "" {
		lines = append(lines, fmt.Sprintf("Customer Email: %s", *userEmail))
	}

	lines = append(lines, "", "I would like to order this product.")

	query := url.Values{}
	query.Set("text", strings.Join(lines, "\n"))

	u := url.URL{
		Scheme:   "https",
		Host:     "wa.me",
		Path:     "/" + b.cfg.PhoneNumber,
		RawQuery: query.Encode(),
	}

	return u.String()
}

// FormatPrice переводит цену из минорных единиц в строку с двумя знаками,
// 2999 -> "29.99".
func FormatPrice(minor int64) string {
	return decimal.NewFromInt(minor).Div(minorUnits).StringFixed(2)
}

package domain

import (
	"time"

	"github.com/zaytuna-store/go-backend/pkg/e"
)

type LeadStatus string

const (
	LeadPending   LeadStatus = "pending"
	LeadContacted LeadStatus = "contacted"
	LeadConverted LeadStatus = "converted"
	LeadLost      LeadStatus = "lost"
)

func ParseLeadStatus(s string) (LeadStatus, error) {
	switch LeadStatus(s) {
	case LeadPending, LeadContacted, LeadConverted, LeadLost:
		return LeadStatus(s), nil
	default:
		return "", e.ErrInvalidStatus
	}
}

// leadQuantity — лид всегда бронирует одну единицу товара при конверсии.
const leadQuantity = 1

// Lead — обращение "заказать через WhatsApp" со снимком товара на момент клика.
// Остаток не бронируется при создании, только при переходе в converted.
// ProductID == nil означает, что товар удалён; конверсия такого лида невозможна.
type Lead struct {
	ID           int64
	ProductID    *int64
	ProductName  string
	ProductPrice int64
	UserName     *string
	UserEmail    *string
	Status       LeadStatus
	Reference    string // Человекочитаемый номер, OO-YYYY-XXXXXX
	WhatsAppURL  string // Сгенерированный deep-link
	ClickedAt    time.Time
	Notes        *string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

func NewLead(product *Product, userName, userEmail *string, reference, whatsappURL string, clickedAt time.Time) *Lead {
	productID := product.ID
	return &Lead{
		ProductID:    &productID,
		ProductName:  product.Name,
		ProductPrice: product.Price,
		UserName:     userName,
		UserEmail:    userEmail,
		Status:       LeadPending,
		Reference:    reference,
		WhatsAppURL:  whatsappURL,
		ClickedAt:    clickedAt,
	}
}

// StockMovement возвращает изменение остатка при переходе в newStatus:
// converted — единственный потребляющий статус, бронирует одну единицу.
func (l *Lead) StockMovement(newStatus LeadStatus) int64 {
	switch {
	case newStatus == LeadConverted && l.Status != LeadConverted:
		return -leadQuantity
	case l.Status == LeadConverted && newStatus != LeadConverted:
		return leadQuantity
	default:
		return 0
	}
}

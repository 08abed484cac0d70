package domain

import (
	"time"

	"github.com/zaytuna-store/go-backend/pkg/e"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled:
		return OrderStatus(s), nil
	default:
		return "", e.ErrInvalidStatus
	}
}

// Order — заказ со снимком названия и цены товара на момент оформления.
// ProductID == nil означает, что товар удалён: снимок остаётся валидным,
// но остаток по такому заказу двигать больше нельзя.
type Order struct {
	ID           int64
	ProductID    *int64
	ProductName  string
	ProductPrice int64
	Quantity     int64
	UserName     *string
	UserEmail    *string
	Status       OrderStatus
	Reference    string // Человекочитаемый номер заказа, ORD-YYYY-XXXXXX
	Notes        *string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

func NewOrder(product *Product, quantity int64, userName, userEmail *string, reference string) *Order {
	productID := product.ID
	return &Order{
		ProductID:    &productID,
		ProductName:  product.Name,
		ProductPrice: product.Price,
		Quantity:     quantity,
		UserName:     userName,
		UserEmail:    userEmail,
		Status:       OrderPending,
		Reference:    reference,
	}
}

// StockMovement возвращает изменение остатка при переходе в newStatus:
// +Quantity при отмене (возврат брони), -Quantity при снятии отмены
// (повторная бронь), 0 для любого другого перехода. Все статусы кроме
// cancelled считаются потребляющими: бронь снята при создании заказа.
func (o *Order) StockMovement(newStatus OrderStatus) int64 {
	switch {
	case newStatus == OrderCancelled && o.Status != OrderCancelled:
		return o.Quantity
	case o.Status == OrderCancelled && newStatus != OrderCancelled:
		return -o.Quantity
	default:
		return 0
	}
}

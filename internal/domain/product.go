package domain

import "time"

// Product описывает товар каталога.
// Stock == nil означает, что остаток не отслеживается (unlimited):
// такой товар никогда не блокирует заказ и его остаток не мутируется.
type Product struct {
	ID          int64
	Name        string // Уникально без учёта регистра среди всех товаров
	Description *string
	Price       int64 // Цена хранится в минорных единицах валюты
	Size        *string
	StockUnit   string
	Stock       *int64
	IsActive    bool
	ImageKey    *string // Ключ объекта в хранилище
	ImageURL    *string // Кэшированный URL для отображения
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

func NewProduct(name string, price int64, description, size *string, stockUnit string, stock *int64) *Product {
	return &Product{
		Name:        name,
		Price:       price,
		Description: description,
		Size:        size,
		StockUnit:   stockUnit,
		Stock:       stock,
		IsActive:    true,
	}
}

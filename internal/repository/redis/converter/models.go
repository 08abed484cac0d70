package converter

import "time"

// ProductRedisModel — представление товара в JSON-кэше каталога.
type ProductRedisModel struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	Price       int64      `json:"price"`
	Size        *string    `json:"size,omitempty"`
	StockUnit   string     `json:"stock_unit"`
	Stock       *int64     `json:"stock,omitempty"`
	IsActive    bool       `json:"is_active"`
	ImageKey    *string    `json:"image_key,omitempty"`
	ImageURL    *string    `json:"image_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

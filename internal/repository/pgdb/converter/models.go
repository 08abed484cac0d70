package converter

import "time"

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID          int64      `db:"id"`
	Name        string     `db:"name"`
	Description *string    `db:"description"`
	Price       int64      `db:"price"`
	Size        *string    `db:"size"`
	StockUnit   string     `db:"stock_unit"`
	Stock       *int64     `db:"stock"`
	IsActive    bool       `db:"is_active"`
	ImageKey    *string    `db:"image_key"`
	ImageURL    *string    `db:"image_url"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at"`
}

// OrderModel представляет запись таблицы orders в PostgreSQL.
// ProductID становится NULL после удаления товара (ON DELETE SET NULL).
type OrderModel struct {
	ID           int64      `db:"id"`
	ProductID    *int64     `db:"product_id"`
	ProductName  string     `db:"product_name"`
	ProductPrice int64      `db:"product_price"`
	Quantity     int64      `db:"quantity"`
	UserName     *string    `db:"user_name"`
	UserEmail    *string    `db:"user_email"`
	Status       string     `db:"status"`
	Reference    string     `db:"reference"`
	Notes        *string    `db:"notes"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at"`
}

// LeadModel представляет запись таблицы leads в PostgreSQL.
type LeadModel struct {
	ID           int64      `db:"id"`
	ProductID    *int64     `db:"product_id"`
	ProductName  string     `db:"product_name"`
	ProductPrice int64      `db:"product_price"`
	UserName     *string    `db:"user_name"`
	UserEmail    *string    `db:"user_email"`
	Status       string     `db:"status"`
	Reference    string     `db:"reference"`
	WhatsAppURL  string     `db:"whatsapp_url"`
	ClickedAt    time.Time  `db:"clicked_at"`
	Notes        *string    `db:"notes"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at"`
}

// UserModel представляет запись таблицы users в PostgreSQL.
type UserModel struct {
	ID         int64      `db:"id"`
	ExternalID string     `db:"external_id"`
	Email      string     `db:"email"`
	Name       *string    `db:"name"`
	ImageURL   *string    `db:"image_url"`
	Phone      *string    `db:"phone"`
	Role       *string    `db:"role"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  *time.Time `db:"updated_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	ProductID   int64      `db:"product_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}

package usecase

import (
	"context"

	"github.com/zaytuna-store/go-backend/internal/domain"
)

// Методы с суффиксом ForUpdate и все мутации, участвующие в переводах
// статусов, выполняются внутри транзакции из контекста (pkg/tr).

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	GetForUpdate(ctx context.Context, id int64) (*domain.Product, error)
	ListActive(ctx context.Context) ([]domain.Product, error)
	ListAll(ctx context.Context) ([]domain.Product, error)
	UpdateStock(ctx context.Context, id int64, stock *int64) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
	NameTaken(ctx context.Context, name string, excludeID int64) (bool, error)
	StockStats(ctx context.Context) (*StockStats, error)
	BackfillStock(ctx context.Context, defaultStock int64) (*BackfillStockRes, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	GetForUpdate(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context, status *domain.OrderStatus) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus, notes *string) error
	Stats(ctx context.Context) (*OrderStats, error)
}

type LeadRepository interface {
	Create(ctx context.Context, lead *domain.Lead) (*domain.Lead, error)
	Get(ctx context.Context, id int64) (*domain.Lead, error)
	GetForUpdate(ctx context.Context, id int64) (*domain.Lead, error)
	List(ctx context.Context, status *domain.LeadStatus) ([]domain.Lead, error)
	UpdateStatus(ctx context.Context, id int64, status domain.LeadStatus, notes *string) error
	Stats(ctx context.Context) (*LeadStats, error)
}

type UserRepository interface {
	Upsert(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.User, error)
	DeleteByExternalID(ctx context.Context, externalID string) error
	List(ctx context.Context) ([]domain.User, error)
	UpdateRole(ctx context.Context, id int64, role *string) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	ResetToPending(ctx context.Context, id int64) error
	MarkAsFailed(ctx context.Context, id int64) error
}

type CacheRepository interface {
	GetCatalog(ctx context.Context) ([]domain.Product, error)
	SetCatalog(ctx context.Context, products []domain.Product) error
	InvalidateCatalog(ctx context.Context) error
}

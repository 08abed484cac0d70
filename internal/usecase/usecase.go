package usecase

import (
	"context"

	"github.com/zaytuna-store/go-backend/internal/domain"
)

type ProductUC interface {
	ListActive(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	ListAll(ctx context.Context, auth *AuthContext) ([]domain.Product, error)
	Create(ctx context.Context, auth *AuthContext, req *CreateProductReq) (*domain.Product, error)
	Update(ctx context.Context, auth *AuthContext, req *UpdateProductReq) (*domain.Product, error)
	Archive(ctx context.Context, auth *AuthContext, id int64) error
	Delete(ctx context.Context, auth *AuthContext, id int64) error
	SetStock(ctx context.Context, auth *AuthContext, id int64, stock *int64) error
	CheckName(ctx context.Context, name string, excludeID int64) (bool, error)
	StockStats(ctx context.Context, auth *AuthContext) (*StockStats, error)
	GenerateUploadURL(ctx context.Context, auth *AuthContext) (*UploadTicket, error)
	BackfillStock(ctx context.Context, auth *AuthContext, defaultStock int64) (*BackfillStockRes, error)
}

type OrderUC interface {
	Create(ctx context.Context, req *CreateOrderReq) (*CreateOrderRes, error)
	List(ctx context.Context, auth *AuthContext, status *string) ([]domain.Order, error)
	Get(ctx context.Context, auth *AuthContext, id int64) (*domain.Order, error)
	UpdateStatus(ctx context.Context, auth *AuthContext, req *UpdateOrderStatusReq) error
	Stats(ctx context.Context, auth *AuthContext) (*OrderStats, error)
}

type LeadUC interface {
	Create(ctx context.Context, req *CreateLeadReq) (*CreateLeadRes, error)
	List(ctx context.Context, auth *AuthContext, status *string) ([]domain.Lead, error)
	Get(ctx context.Context, auth *AuthContext, id int64) (*domain.Lead, error)
	UpdateStatus(ctx context.Context, auth *AuthContext, req *UpdateLeadStatusReq) error
	Stats(ctx context.Context, auth *AuthContext) (*LeadStats, error)
}

type UserUC interface {
	Sync(ctx context.Context, req *SyncUserReq) (*domain.User, error)
	Delete(ctx context.Context, externalID string) error
	List(ctx context.Context, auth *AuthContext) ([]domain.User, error)
	UpdateRole(ctx context.Context, auth *AuthContext, id int64, role *string) error
	GetByExternalID(ctx context.Context, externalID string) (*domain.User, error)
}

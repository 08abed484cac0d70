package usecase

import (
	"context"
	"errors"
	"time"

	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/zaytuna-store/go-backend/internal/domain"
	"github.com/zaytuna-store/go-backend/pkg/e"
	"github.com/zaytuna-store/go-backend/pkg/logger"
)

// LeadUseCase реализует фиксацию обращений "заказать через WhatsApp"
// и stock-aware переводы их статусов.
type LeadUseCase struct {
	leadRepo    LeadRepository
	productRepo ProductRepository
	outboxRepo  OutboxRepository
	cacheRepo   CacheRepository
	linkBuilder LinkBuilder
	dbPool      transaction.Transactional
	logger      logger.Logger
}

func NewLeadUC(
	leadRepo LeadRepository,
	productRepo ProductRepository,
	outboxRepo OutboxRepository,
	cacheRepo CacheRepository,
	linkBuilder LinkBuilder,
	dbPool transaction.Transactional,
	logger logger.Logger,
) *LeadUseCase {
	return &LeadUseCase{
		leadRepo:    leadRepo,
		productRepo: productRepo,
		outboxRepo:  outboxRepo,
		cacheRepo:   cacheRepo,
		linkBuilder: linkBuilder,
		dbPool:      dbPool,
		logger:      logger,
	}
}

// Create фиксирует клик "заказать через WhatsApp": вставляет лид со статусом
// pending и сгенерированным deep-link. Остаток не бронируется — бронь
// происходит только при переводе в converted.
func (l *LeadUseCase) Create(ctx context.Context, req *CreateLeadReq) (*CreateLeadRes, error) {
	const op = "LeadUseCase.Create"

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, l.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	product, err := l.productRepo.Get(ctx, req.ProductID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	now := time.Now()
	lead := domain.NewLead(product, req.UserName, req.UserEmail, "", "", now)

	created, err := l.insertWithFreshReference(ctx, lead, product)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	payload, err := MarshalLeadEvent(created.ID, created.Reference, product.ID, string(created.Status), created.ProductPrice)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if _, err = l.outboxRepo.Create(ctx, NewOutboxEvent(LeadCreated, product.ID, payload)); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewCreateLeadRes(created.ID, created.Reference, created.WhatsAppURL), nil
}

// UpdateStatus переводит лид в новый статус. converted — единственный
// потребляющий статус: вход в него бронирует одну единицу остатка (и целиком
// отклоняется при нехватке), выход возвращает её. Остаток и статус
// фиксируются одной транзакцией.
func (l *LeadUseCase) UpdateStatus(ctx context.Context, auth *AuthContext, req *UpdateLeadStatusReq) error {
	const op = "LeadUseCase.UpdateStatus"

	if err := auth.RequireAdmin(); err != nil {
		return e.Wrap(op, err)
	}

	status, err := domain.ParseLeadStatus(req.Status)
	if err != nil {
		return e.Wrap(op, err)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, l.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	lead, err := l.leadRepo.GetForUpdate(ctx, req.LeadID)
	if err != nil {
		return e.Wrap(op, err)
	}

	delta := lead.StockMovement(status)
	if delta != 0 {
		if err = l.moveStock(ctx, lead.ProductID, delta); err != nil {
			return e.Wrap(op, err)
		}
	}

	if err = l.leadRepo.UpdateStatus(ctx, lead.ID, status, req.Notes); err != nil {
		return e.Wrap(op, err)
	}

	payload, err := MarshalLeadEvent(lead.ID, lead.Reference, eventProductID(lead.ProductID), string(status), lead.ProductPrice)
	if err != nil {
		return e.Wrap(op, err)
	}
	if _, err = l.outboxRepo.Create(ctx, NewOutboxEvent(LeadStatusChanged, eventProductID(lead.ProductID), payload)); err != nil {
		return e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	if delta != 0 {
		if cacheErr := l.cacheRepo.InvalidateCatalog(ctx); cacheErr != nil {
			l.logger.Warnf("failed to invalidate catalog cache: %v", e.Wrap(op, cacheErr))
		}
	}

	return nil
}

// List возвращает лиды, новые первыми, с необязательным фильтром по статусу.
func (l *LeadUseCase) List(ctx context.Context, auth *AuthContext, status *string) ([]domain.Lead, error) {
	const op = "LeadUseCase.List"

	if err := auth.RequireAdmin(); err != nil {
		return nil, e.Wrap(op, err)
	}

	var filter *domain.LeadStatus
	if status != nil {
		parsed, err := domain.ParseLeadStatus(*status)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		filter = &parsed
	}

	return l.leadRepo.List(ctx, filter)
}

func (l *LeadUseCase) Get(ctx context.Context, auth *AuthContext, id int64) (*domain.Lead, error) {
	const op = "LeadUseCase.Get"

	if err := auth.RequireAdmin(); err != nil {
		return nil, e.Wrap(op, err)
	}

	return l.leadRepo.Get(ctx, id)
}

func (l *LeadUseCase) Stats(ctx context.Context, auth *AuthContext) (*LeadStats, error) {
	const op = "LeadUseCase.Stats"

	if err := auth.RequireAdmin(); err != nil {
		return nil, e.Wrap(op, err)
	}

	return l.leadRepo.Stats(ctx)
}

// moveStock применяет дельту к остатку товара внутри открытой транзакции.
// Лид по удалённому товару (productID == nil) остаток двигать не может.
func (l *LeadUseCase) moveStock(ctx context.Context, productID *int64, delta int64) error {
	if productID == nil {
		return e.ErrProductNotFound
	}

	product, err := l.productRepo.GetForUpdate(ctx, *productID)
	if err != nil {
		return err
	}

	if _, tracked := domain.StockAvailable(product.Stock); !tracked {
		return nil
	}

	var newStock *int64
	if delta > 0 {
		newStock = domain.ReleaseStock(product.Stock, delta)
	} else {
		newStock, err = domain.ReserveStock(product.Stock, -delta)
		if err != nil {
			return err
		}
	}

	return l.productRepo.UpdateStock(ctx, product.ID, newStock)
}

// insertWithFreshReference вставляет лид, перегенерируя номер при конфликте.
// Deep-link содержит номер, поэтому пересобирается вместе с ним.
func (l *LeadUseCase) insertWithFreshReference(ctx context.Context, lead *domain.Lead, product *domain.Product) (*domain.Lead, error) {
	var lastErr error
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		lead.Reference = domain.NewReference(domain.LeadReferencePrefix, time.Now())
		lead.WhatsAppURL = l.linkBuilder.BuildOrderLink(product, lead.Reference, lead.UserName, lead.UserEmail)

		created, err := l.leadRepo.Create(ctx, lead)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, e.ErrReferenceTaken) {
			return nil, err
		}

		lastErr = err
		l.logger.Warnf("lead reference collision, regenerating: %s", lead.Reference)
	}

	return nil, lastErr
}

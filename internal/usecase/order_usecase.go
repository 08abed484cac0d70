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

// maxReferenceAttempts — число повторных генераций номера при конфликте
// уникального индекса. Вероятность даже одного конфликта ничтожна.
const maxReferenceAttempts = 5

// OrderUseCase реализует оформление заказов и stock-aware переводы статусов.
type OrderUseCase struct {
	orderRepo   OrderRepository
	productRepo ProductRepository
	outboxRepo  OutboxRepository
	cacheRepo   CacheRepository
	dbPool      transaction.Transactional
	logger      logger.Logger
}

func NewOrderUC(
	orderRepo OrderRepository,
	productRepo ProductRepository,
	outboxRepo OutboxRepository,
	cacheRepo CacheRepository,
	dbPool transaction.Transactional,
	logger logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		outboxRepo:  outboxRepo,
		cacheRepo:   cacheRepo,
		dbPool:      dbPool,
		logger:      logger,
	}
}

// Create оформляет заказ: бронирует остаток, вставляет заказ со статусом
// pending и событие outbox одной транзакцией. При нехватке остатка заказ
// не создаётся и никаких изменений не происходит.
func (o *OrderUseCase) Create(ctx context.Context, req *CreateOrderReq) (*CreateOrderRes, error) {
	const op = "OrderUseCase.Create"

	if req.Quantity <= 0 {
		return nil, e.Wrap(op, e.ErrInvalidQuantity)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, o.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	product, err := o.productRepo.GetForUpdate(ctx, req.ProductID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	newStock, err := domain.ReserveStock(product.Stock, req.Quantity)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	_, tracked := domain.StockAvailable(product.Stock)
	if tracked {
		if err = o.productRepo.UpdateStock(ctx, product.ID, newStock); err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	order := domain.NewOrder(product, req.Quantity, req.UserName, req.UserEmail, "")
	created, err := o.insertWithFreshReference(ctx, order)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	payload, err := MarshalOrderEvent(created.ID, created.Reference, product.ID, string(created.Status), created.Quantity, created.ProductPrice)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if _, err = o.outboxRepo.Create(ctx, NewOutboxEvent(OrderCreated, product.ID, payload)); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	if tracked {
		o.invalidateCatalog(ctx, op)
	}

	return NewCreateOrderRes(created.ID, created.Reference, created.ProductName, created.ProductPrice, created.Quantity), nil
}

// UpdateStatus переводит заказ в новый статус. Ребро cancelled — единственное,
// где двигается остаток: отмена возвращает ровно Quantity единиц, снятие
// отмены бронирует их снова и целиком отклоняется при нехватке. Статус и
// остаток фиксируются одной транзакцией.
func (o *OrderUseCase) UpdateStatus(ctx context.Context, auth *AuthContext, req *UpdateOrderStatusReq) error {
	const op = "OrderUseCase.UpdateStatus"

	if err := auth.RequireAdmin(); err != nil {
		return e.Wrap(op, err)
	}

	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		return e.Wrap(op, err)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, o.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	order, err := o.orderRepo.GetForUpdate(ctx, req.OrderID)
	if err != nil {
		return e.Wrap(op, err)
	}

	delta := order.StockMovement(status)
	if delta != 0 {
		if err = o.moveStock(ctx, order.ProductID, delta); err != nil {
			return e.Wrap(op, err)
		}
	}

	if err = o.orderRepo.UpdateStatus(ctx, order.ID, status, req.Notes); err != nil {
		return e.Wrap(op, err)
	}

	payload, err := MarshalOrderEvent(order.ID, order.Reference, eventProductID(order.ProductID), string(status), order.Quantity, order.ProductPrice)
	if err != nil {
		return e.Wrap(op, err)
	}
	if _, err = o.outboxRepo.Create(ctx, NewOutboxEvent(OrderStatusChanged, eventProductID(order.ProductID), payload)); err != nil {
		return e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	if delta != 0 {
		o.invalidateCatalog(ctx, op)
	}

	return nil
}

// List возвращает заказы, новые первыми, с необязательным фильтром по статусу.
func (o *OrderUseCase) List(ctx context.Context, auth *AuthContext, status *string) ([]domain.Order, error) {
	const op = "OrderUseCase.List"

	if err := auth.RequireAdmin(); err != nil {
		return nil, e.Wrap(op, err)
	}

	var filter *domain.OrderStatus
	if status != nil {
		parsed, err := domain.ParseOrderStatus(*status)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		filter = &parsed
	}

	return o.orderRepo.List(ctx, filter)
}

func (o *OrderUseCase) Get(ctx context.Context, auth *AuthContext, id int64) (*domain.Order, error) {
	const op = "OrderUseCase.Get"

	if err := auth.RequireAdmin(); err != nil {
		return nil, e.Wrap(op, err)
	}

	return o.orderRepo.Get(ctx, id)
}

func (o *OrderUseCase) Stats(ctx context.Context, auth *AuthContext) (*OrderStats, error) {
	const op = "OrderUseCase.Stats"

	if err := auth.RequireAdmin(); err != nil {
		return nil, e.Wrap(op, err)
	}

	return o.orderRepo.Stats(ctx)
}

// moveStock применяет дельту к остатку товара внутри открытой транзакции.
// delta > 0 — возврат брони, delta < 0 — повторная бронь. Заказ по
// удалённому товару (productID == nil) остаток двигать не может.
func (o *OrderUseCase) moveStock(ctx context.Context, productID *int64, delta int64) error {
	if productID == nil {
		return e.ErrProductNotFound
	}

	product, err := o.productRepo.GetForUpdate(ctx, *productID)
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

	return o.productRepo.UpdateStock(ctx, product.ID, newStock)
}

// insertWithFreshReference вставляет заказ, перегенерируя номер при
// конфликте уникального индекса.
func (o *OrderUseCase) insertWithFreshReference(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	var lastErr error
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		order.Reference = domain.NewReference(domain.OrderReferencePrefix, time.Now())

		created, err := o.orderRepo.Create(ctx, order)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, e.ErrReferenceTaken) {
			return nil, err
		}

		lastErr = err
		o.logger.Warnf("order reference collision, regenerating: %s", order.Reference)
	}

	return nil, lastErr
}

// invalidateCatalog сбрасывает кэш публичного каталога; ошибка не фатальна.
func (o *OrderUseCase) invalidateCatalog(ctx context.Context, op string) {
	if err := o.cacheRepo.InvalidateCatalog(ctx); err != nil {
		o.logger.Warnf("failed to invalidate catalog cache: %v", e.Wrap(op, err))
	}
}

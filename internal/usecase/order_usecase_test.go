package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zaytuna-store/go-backend/internal/domain"
	"github.com/zaytuna-store/go-backend/pkg/e"
)

func newOrderUCUnderTest(orderRepo *fakeOrderRepo, productRepo *fakeProductRepo) (*OrderUseCase, *fakeOutboxRepo, *fakeCacheRepo) {
	outbox := &fakeOutboxRepo{}
	cache := &fakeCacheRepo{}

	uc := NewOrderUC(orderRepo, productRepo, outbox, cache, fakeDB{}, nopLogger{})
	return uc, outbox, cache
}

func TestOrderCreateReservesStock(t *testing.T) {
	productRepo := newFakeProductRepo(&domain.Product{ID: 1, Name: "Argan Oil", Price: 2999, Stock: int64Ptr(5), IsActive: true})
	orderRepo := newFakeOrderRepo()
	uc, outbox, cache := newOrderUCUnderTest(orderRepo, productRepo)

	res, err := uc.Create(context.Background(), &CreateOrderReq{ProductID: 1, Quantity: 2})
	require.NoError(t, err)

	assert.Regexp(t, `^ORD-\d{4}-[0-9A-Z]{6}$`, res.Reference)
	assert.Equal(t, "Argan Oil", res.ProductName)
	assert.Equal(t, int64(2999), res.ProductPrice)
	assert.Equal(t, int64(2), res.Quantity)

	require.NotNil(t, productRepo.stockOf(1))
	assert.Equal(t, int64(3), *productRepo.stockOf(1))

	created := orderRepo.orders[res.OrderID]
	require.NotNil(t, created)
	assert.Equal(t, domain.OrderPending, created.Status)

	require.Len(t, outbox.events, 1)
	assert.Equal(t, OrderCreated, outbox.events[0].EventType)
	assert.Equal(t, int64(1), outbox.events[0].ProductID)

	var payload OrderEventPayload
	require.NoError(t, json.Unmarshal(outbox.events[0].Payload, &payload))
	assert.Equal(t, res.OrderID, payload.OrderID)
	assert.Equal(t, res.Reference, payload.Reference)
	assert.Equal(t, "pending", payload.Status)

	assert.Equal(t, 1, cache.invalidations)
}

func TestOrderCreateInsufficientStock(t *testing.T) {
	productRepo := newFakeProductRepo(&domain.Product{ID: 1, Name: "Argan Oil", Price: 2999, Stock: int64Ptr(1), IsActive: true})
	orderRepo := newFakeOrderRepo()
	uc, outbox, cache := newOrderUCUnderTest(orderRepo, productRepo)

	_, err := uc.Create(context.Background(), &CreateOrderReq{ProductID: 1, Quantity: 2})
	assert.ErrorIs(t, err, e.ErrInsufficientStock)

	// Никаких побочных эффектов
	assert.Empty(t, orderRepo.orders)
	assert.Empty(t, outbox.events)
	assert.Equal(t, int64(1), *productRepo.stockOf(1))
	assert.Zero(t, cache.invalidations)
}

func TestOrderCreateUntrackedStock(t *testing.T) {
	productRepo := newFakeProductRepo(&domain.Product{ID: 1, Name: "Argan Oil", Price: 2999, IsActive: true})
	orderRepo := newFakeOrderRepo()
	uc, _, cache := newOrderUCUnderTest(orderRepo, productRepo)

	_, err := uc.Create(context.Background(), &CreateOrderReq{ProductID: 1, Quantity: 1000})
	require.NoError(t, err)

	assert.Nil(t, productRepo.stockOf(1))
	assert.Zero(t, productRepo.stockWrites, "неотслеживаемый остаток не мутируется")
	assert.Zero(t, cache.invalidations, "остаток не менялся, кэш каталога остаётся валидным")
}

func TestOrderCreateInvalidQuantity(t *testing.T) {
	uc, _, _ := newOrderUCUnderTest(newFakeOrderRepo(), newFakeProductRepo())

	_, err := uc.Create(context.Background(), &CreateOrderReq{ProductID: 1, Quantity: 0})
	assert.ErrorIs(t, err, e.ErrInvalidQuantity)

	_, err = uc.Create(context.Background(), &CreateOrderReq{ProductID: 1, Quantity: -3})
	assert.ErrorIs(t, err, e.ErrInvalidQuantity)
}

func TestOrderCreateUnknownProduct(t *testing.T) {
	uc, _, _ := newOrderUCUnderTest(newFakeOrderRepo(), newFakeProductRepo())

	_, err := uc.Create(context.Background(), &CreateOrderReq{ProductID: 99, Quantity: 1})
	assert.ErrorIs(t, err, e.ErrProductNotFound)
}

func TestOrderCreateRetriesReferenceCollision(t *testing.T) {
	productRepo := newFakeProductRepo(&domain.Product{ID: 1, Name: "Argan Oil", Price: 2999, IsActive: true})
	orderRepo := newFakeOrderRepo()
	orderRepo.refConflicts = 2
	uc, _, _ := newOrderUCUnderTest(orderRepo, productRepo)

	res, err := uc.Create(context.Background(), &CreateOrderReq{ProductID: 1, Quantity: 1})
	require.NoError(t, err)
	assert.Regexp(t, `^ORD-`, res.Reference)
	assert.Len(t, orderRepo.orders, 1)
}

func TestOrderCancelReleasesStock(t *testing.T) {
	productRepo := newFakeProductRepo(&domain.Product{ID: 1, Name: "Argan Oil", Price: 2999, Stock: int64Ptr(3), IsActive: true})
	orderRepo := newFakeOrderRepo(&domain.Order{ID: 10, ProductID: int64Ptr(1), Quantity: 2, Status: domain.OrderPending, Reference: "ORD-2026-AAAAAA"})
	uc, outbox, cache := newOrderUCUnderTest(orderRepo, productRepo)

	err := uc.UpdateStatus(context.Background(), adminAuth(), &UpdateOrderStatusReq{OrderID: 10, Status: "cancelled"})
	require.NoError(t, err)

	assert.Equal(t, int64(5), *productRepo.stockOf(1))
	assert.Equal(t, domain.OrderCancelled, orderRepo.orders[10].Status)
	require.Len(t, outbox.events, 1)
	assert.Equal(t, OrderStatusChanged, outbox.events[0].EventType)
	assert.Equal(t, 1, cache.invalidations)
}

func TestOrderUncancelReservesStock(t *testing.T) {
	productRepo := newFakeProductRepo(&domain.Product{ID: 1, Name: "Argan Oil", Price: 2999, Stock: int64Ptr(5), IsActive: true})
	orderRepo := newFakeOrderRepo(&domain.Order{ID: 10, ProductID: int64Ptr(1), Quantity: 2, Status: domain.OrderCancelled, Reference: "ORD-2026-AAAAAA"})
	uc, _, _ := newOrderUCUnderTest(orderRepo, productRepo)

	err := uc.UpdateStatus(context.Background(), adminAuth(), &UpdateOrderStatusReq{OrderID: 10, Status: "confirmed"})
	require.NoError(t, err)

	assert.Equal(t, int64(3), *productRepo.stockOf(1))
	assert.Equal(t, domain.OrderConfirmed, orderRepo.orders[10].Status)
}

func TestOrderCancelRoundTripRestoresStock(t *testing.T) {
	productRepo := newFakeProductRepo(&domain.Product{ID: 1, Name: "Argan Oil", Price: 2999, Stock: int64Ptr(3), IsActive: true})
	orderRepo := newFakeOrderRepo(&domain.Order{ID: 10, ProductID: int64Ptr(1), Quantity: 2, Status: domain.OrderPending, Reference: "ORD-2026-AAAAAA"})
	uc, _, _ := newOrderUCUnderTest(orderRepo, productRepo)

	require.NoError(t, uc.UpdateStatus(context.Background(), adminAuth(), &UpdateOrderStatusReq{OrderID: 10, Status: "cancelled"}))
	require.NoError(t, uc.UpdateStatus(context.Background(), adminAuth(), &UpdateOrderStatusReq{OrderID: 10, Status: "pending"}))

	assert.Equal(t, int64(3), *productRepo.stockOf(1))
	assert.Equal(t, domain.OrderPending, orderRepo.orders[10].Status)
}

func TestOrderUncancelInsufficientStock(t *testing.T) {
	productRepo := newFakeProductRepo(&domain.Product{ID: 1, Name: "Argan Oil", Price: 2999, Stock: int64Ptr(1), IsActive: true})
	orderRepo := newFakeOrderRepo(&domain.Order{ID: 10, ProductID: int64Ptr(1), Quantity: 2, Status: domain.OrderCancelled, Reference: "ORD-2026-AAAAAA"})
	uc, outbox, _ := newOrderUCUnderTest(orderRepo, productRepo)

	err := uc.UpdateStatus(context.Background(), adminAuth(), &UpdateOrderStatusReq{OrderID: 10, Status: "confirmed"})
	assert.ErrorIs(t, err, e.ErrInsufficientStock)

	// Переход отклонён целиком
	assert.Equal(t, int64(1), *productRepo.stockOf(1))
	assert.Equal(t, domain.OrderCancelled, orderRepo.orders[10].Status)
	assert.Empty(t, outbox.events)
}

func TestOrderCancelAfterProductDeleted(t *testing.T) {
	// product_id обнулён каскадом после удаления товара: ребро, двигающее
	// остаток, невозможно
	orderRepo := newFakeOrderRepo(&domain.Order{ID: 10, ProductID: nil, Quantity: 2, Status: domain.OrderPending, Reference: "ORD-2026-AAAAAA"})
	uc, outbox, _ := newOrderUCUnderTest(orderRepo, newFakeProductRepo())

	err := uc.UpdateStatus(context.Background(), adminAuth(), &UpdateOrderStatusReq{OrderID: 10, Status: "cancelled"})
	assert.ErrorIs(t, err, e.ErrProductNotFound)

	assert.Equal(t, domain.OrderPending, orderRepo.orders[10].Status)
	assert.Empty(t, outbox.events)
}

func TestOrderStatusChangeAfterProductDeleted(t *testing.T) {
	// Переходы без движения остатка доступны и для заказа по удалённому товару
	orderRepo := newFakeOrderRepo(&domain.Order{ID: 10, ProductID: nil, Quantity: 2, Status: domain.OrderConfirmed, Reference: "ORD-2026-AAAAAA"})
	uc, outbox, _ := newOrderUCUnderTest(orderRepo, newFakeProductRepo())

	err := uc.UpdateStatus(context.Background(), adminAuth(), &UpdateOrderStatusReq{OrderID: 10, Status: "shipped"})
	require.NoError(t, err)

	assert.Equal(t, domain.OrderShipped, orderRepo.orders[10].Status)
	require.Len(t, outbox.events, 1)
	assert.Zero(t, outbox.events[0].ProductID)
}

func TestOrderStatusChangeWithoutStockEdge(t *testing.T) {
	productRepo := newFakeProductRepo(&domain.Product{ID: 1, Name: "Argan Oil", Price: 2999, Stock: int64Ptr(3), IsActive: true})
	orderRepo := newFakeOrderRepo(&domain.Order{ID: 10, ProductID: int64Ptr(1), Quantity: 2, Status: domain.OrderPending, Reference: "ORD-2026-AAAAAA"})
	uc, _, cache := newOrderUCUnderTest(orderRepo, productRepo)

	err := uc.UpdateStatus(context.Background(), adminAuth(), &UpdateOrderStatusReq{OrderID: 10, Status: "shipped", Notes: strPtr("left warehouse")})
	require.NoError(t, err)

	assert.Equal(t, int64(3), *productRepo.stockOf(1))
	assert.Zero(t, productRepo.stockWrites)
	assert.Zero(t, cache.invalidations, "кэш каталога сбрасывается только при движении остатка")
	assert.Equal(t, "left warehouse", *orderRepo.orders[10].Notes)
}

func TestOrderUpdateStatusInvalid(t *testing.T) {
	uc, _, _ := newOrderUCUnderTest(newFakeOrderRepo(), newFakeProductRepo())

	err := uc.UpdateStatus(context.Background(), adminAuth(), &UpdateOrderStatusReq{OrderID: 10, Status: "returned"})
	assert.ErrorIs(t, err, e.ErrInvalidStatus)
}

func TestOrderAdminGuards(t *testing.T) {
	uc, _, _ := newOrderUCUnderTest(newFakeOrderRepo(), newFakeProductRepo())
	ctx := context.Background()

	err := uc.UpdateStatus(ctx, nil, &UpdateOrderStatusReq{OrderID: 1, Status: "confirmed"})
	assert.ErrorIs(t, err, e.ErrUnauthorized)

	err = uc.UpdateStatus(ctx, customerAuth(), &UpdateOrderStatusReq{OrderID: 1, Status: "confirmed"})
	assert.ErrorIs(t, err, e.ErrForbidden)

	_, err = uc.List(ctx, nil, nil)
	assert.ErrorIs(t, err, e.ErrUnauthorized)

	_, err = uc.Stats(ctx, customerAuth())
	assert.ErrorIs(t, err, e.ErrForbidden)
}

func TestOrderListRejectsUnknownStatusFilter(t *testing.T) {
	uc, _, _ := newOrderUCUnderTest(newFakeOrderRepo(), newFakeProductRepo())

	_, err := uc.List(context.Background(), adminAuth(), strPtr("refunded"))
	assert.ErrorIs(t, err, e.ErrInvalidStatus)
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/zaytuna-store/go-backend/internal/domain"
	"github.com/zaytuna-store/go-backend/pkg/e"
)

// Фейки для юнит-тестов usecase-слоя. Незадействованные методы
// интерфейсов закрыты встраиванием и паникуют при вызове.

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)        {}
func (nopLogger) Infof(string, ...any)         {}
func (nopLogger) Warnf(string, ...any)         {}
func (nopLogger) Errorf(error, string, ...any) {}

// fakeTx подменяет серверную транзакцию: фейковые репозитории держат
// состояние в памяти, так что commit и rollback — no-op.
type fakeTx struct {
	pgx.Tx
}

func (fakeTx) Commit(context.Context) error   { return nil }
func (fakeTx) Rollback(context.Context) error { return nil }

type fakeDB struct{}

func (fakeDB) Begin(context.Context) (pgx.Tx, error) { return fakeTx{}, nil }

func (fakeDB) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) { return fakeTx{}, nil }

type fakeProductRepo struct {
	ProductRepository

	products       map[int64]*domain.Product
	stockWrites    int
	updateStockErr error
	listCalls      int
	nameTaken      bool
}

func newFakeProductRepo(products ...*domain.Product) *fakeProductRepo {
	f := &fakeProductRepo{products: map[int64]*domain.Product{}}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProductRepo) Get(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) GetForUpdate(ctx context.Context, id int64) (*domain.Product, error) {
	return f.Get(ctx, id)
}

func (f *fakeProductRepo) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	cp := *product
	cp.ID = int64(len(f.products) + 1)
	cp.CreatedAt = time.Now()
	f.products[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeProductRepo) Update(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if _, ok := f.products[product.ID]; !ok {
		return nil, e.ErrProductNotFound
	}
	cp := *product
	f.products[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeProductRepo) ListActive(context.Context) ([]domain.Product, error) {
	f.listCalls++

	var out []domain.Product
	for _, p := range f.products {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) UpdateStock(_ context.Context, id int64, stock *int64) error {
	if f.updateStockErr != nil {
		return f.updateStockErr
	}

	p, ok := f.products[id]
	if !ok {
		return e.ErrProductNotFound
	}

	p.Stock = stock
	f.stockWrites++
	return nil
}

func (f *fakeProductRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.products[id]; !ok {
		return e.ErrProductNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepo) NameTaken(context.Context, string, int64) (bool, error) {
	return f.nameTaken, nil
}

func (f *fakeProductRepo) BackfillStock(_ context.Context, defaultStock int64) (*BackfillStockRes, error) {
	res := &BackfillStockRes{TotalProducts: int64(len(f.products))}
	for _, p := range f.products {
		if p.Stock == nil {
			stock := defaultStock
			p.Stock = &stock
			res.UpdatedCount++
		}
	}
	return res, nil
}

func (f *fakeProductRepo) stockOf(id int64) *int64 {
	return f.products[id].Stock
}

type fakeOrderRepo struct {
	OrderRepository

	orders       map[int64]*domain.Order
	nextID       int64
	refConflicts int
}

func newFakeOrderRepo(orders ...*domain.Order) *fakeOrderRepo {
	f := &fakeOrderRepo{orders: map[int64]*domain.Order{}}
	for _, o := range orders {
		f.orders[o.ID] = o
		if o.ID > f.nextID {
			f.nextID = o.ID
		}
	}
	return f
}

func (f *fakeOrderRepo) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if f.refConflicts > 0 {
		f.refConflicts--
		return nil, fmt.Errorf("insert order: %w", e.ErrReferenceTaken)
	}

	f.nextID++
	cp := *order
	cp.ID = f.nextID
	cp.CreatedAt = time.Now()
	f.orders[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeOrderRepo) GetForUpdate(_ context.Context, id int64) (*domain.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, e.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id int64, status domain.OrderStatus, notes *string) error {
	o, ok := f.orders[id]
	if !ok {
		return e.ErrOrderNotFound
	}

	o.Status = status
	if notes != nil {
		o.Notes = notes
	}
	return nil
}

type fakeLeadRepo struct {
	LeadRepository

	leads        map[int64]*domain.Lead
	nextID       int64
	refConflicts int
}

func newFakeLeadRepo(leads ...*domain.Lead) *fakeLeadRepo {
	f := &fakeLeadRepo{leads: map[int64]*domain.Lead{}}
	for _, l := range leads {
		f.leads[l.ID] = l
		if l.ID > f.nextID {
			f.nextID = l.ID
		}
	}
	return f
}

func (f *fakeLeadRepo) Create(_ context.Context, lead *domain.Lead) (*domain.Lead, error) {
	if f.refConflicts > 0 {
		f.refConflicts--
		return nil, fmt.Errorf("insert lead: %w", e.ErrReferenceTaken)
	}

	f.nextID++
	cp := *lead
	cp.ID = f.nextID
	cp.CreatedAt = time.Now()
	f.leads[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeLeadRepo) GetForUpdate(_ context.Context, id int64) (*domain.Lead, error) {
	l, ok := f.leads[id]
	if !ok {
		return nil, e.ErrLeadNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeLeadRepo) UpdateStatus(_ context.Context, id int64, status domain.LeadStatus, notes *string) error {
	l, ok := f.leads[id]
	if !ok {
		return e.ErrLeadNotFound
	}

	l.Status = status
	if notes != nil {
		l.Notes = notes
	}
	return nil
}

type fakeOutboxRepo struct {
	events []*OutboxEvent
}

func (f *fakeOutboxRepo) Create(_ context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	f.events = append(f.events, event)
	return event, nil
}

func (f *fakeOutboxRepo) GetAndMarkAsProcessing(context.Context, int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) MarkAsProcessed(context.Context, int64) error { return nil }

func (f *fakeOutboxRepo) ResetToPending(context.Context, int64) error { return nil }

func (f *fakeOutboxRepo) MarkAsFailed(context.Context, int64) error { return nil }

type fakeCacheRepo struct {
	catalog       []domain.Product
	invalidations int
	getErr        error
}

func (f *fakeCacheRepo) GetCatalog(context.Context) ([]domain.Product, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.catalog, nil
}

func (f *fakeCacheRepo) SetCatalog(_ context.Context, products []domain.Product) error {
	f.catalog = products
	return nil
}

func (f *fakeCacheRepo) InvalidateCatalog(context.Context) error {
	f.catalog = nil
	f.invalidations++
	return nil
}

type fakeImageStorage struct {
	deleted []string
}

func (f *fakeImageStorage) GenerateUploadURL(context.Context) (*UploadTicket, error) {
	return NewUploadTicket("products/test-key", "https://storage.test/upload"), nil
}

func (f *fakeImageStorage) ResolveURL(_ context.Context, key string) (string, error) {
	return "https://storage.test/" + key, nil
}

func (f *fakeImageStorage) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeLinkBuilder struct{}

func (fakeLinkBuilder) BuildOrderLink(product *domain.Product, reference string, _, _ *string) string {
	return fmt.Sprintf("https://wa.me/212600000000?product=%d&ref=%s", product.ID, reference)
}

func adminAuth() *AuthContext {
	return NewAuthContext("usr_admin", "admin@store.test", "Admin", domain.RoleAdmin)
}

func customerAuth() *AuthContext {
	return NewAuthContext("usr_buyer", "buyer@store.test", "Buyer", "")
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(s string) *string { return &s }

package usecase

import (
	"context"
	"strings"
	"time"

	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/zaytuna-store/go-backend/internal/domain"
	"github.com/zaytuna-store/go-backend/pkg/e"
	"github.com/zaytuna-store/go-backend/pkg/logger"
)

// defaultStockUnit используется, когда админ не указал единицу измерения.
const defaultStockUnit = "piece"

// ProductUseCase реализует бизнес-логику управления каталогом товаров.
type ProductUseCase struct {
	productRepo  ProductRepository
	cacheRepo    CacheRepository
	imageStorage ImageStorage
	dbPool       transaction.Transactional
	logger       logger.Logger
}

func NewProductUC(
	productRepo ProductRepository,
	cacheRepo CacheRepository,
	imageStorage ImageStorage,
	dbPool transaction.Transactional,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo:  productRepo,
		cacheRepo:    cacheRepo,
		imageStorage: imageStorage,
		dbPool:       dbPool,
		logger:       logger,
	}
}

// ListActive возвращает видимые товары для витрины, через кэш (cache-aside).
// Ошибки кэша деградируют до чтения из БД.
func (p *ProductUseCase) ListActive(ctx context.Context) ([]domain.Product, error) {
	const op = "ProductUseCase.ListActive"

	cached, err := p.cacheRepo.GetCatalog(ctx)
	if err != nil {
		p.logger.Warnf("catalog cache read failed: %v", e.Wrap(op, err))
	} else if cached != nil {
		return cached, nil
	}

	products, err := p.productRepo.ListActive(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Фоновое наполнение кэша
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := p.cacheRepo.SetCatalog(bgCtx, products); err != nil {
			p.logger.Warnf("failed to cache catalog in background: %v", e.Wrap(op, err))
		}
	}()

	return products, nil
}

func (p *ProductUseCase) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return p.productRepo.Get(ctx, id)
}

// ListAll возвращает все товары, включая скрытые.
func (p *ProductUseCase) ListAll(ctx context.Context, auth *AuthContext) ([]domain.Product, error) {
	const op = "ProductUseCase.ListAll"

	if err := auth.RequireAdmin(); err != nil {
		return nil, e.Wrap(op, err)
	}

	return p.productRepo.ListAll(ctx)
}

// Create добавляет товар в каталог. Имя уникально без учёта регистра
// среди всех товаров, активных и скрытых.
func (p *ProductUseCase) Create(ctx context.Context, auth *AuthContext, req *CreateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.Create"

	if err := auth.RequireAdmin(); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := p.validateProduct(req.Name, req.Price, req.Stock); err != nil {
		return nil, e.Wrap(op, err)
	}

	taken, err := p.productRepo.NameTaken(ctx, req.Name, 0)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if taken {
		return nil, e.Wrap(op, e.ErrDuplicateName)
	}

	stockUnit := req.StockUnit
	if stockUnit == "" {
		stockUnit = defaultStockUnit
	}

	product := domain.NewProduct(strings.TrimSpace(req.Name), req.Price, req.Description, req.Size, stockUnit, req.Stock)
	if req.ImageKey != nil {
		url, err := p.imageStorage.ResolveURL(ctx, *req.ImageKey)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		product.ImageKey = req.ImageKey
		product.ImageURL = &url
	}

	created, err := p.productRepo.Create(ctx, product)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.invalidateCatalog(ctx, op)

	return created, nil
}

// Update частично обновляет товар. Замена или очистка изображения
// удаляет старый объект из хранилища.
func (p *ProductUseCase) Update(ctx context.Context, auth *AuthContext, req *UpdateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.Update"

	if err := auth.RequireAdmin(); err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := p.productRepo.Get(ctx, req.ProductID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var staleImageKey *string

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, e.Wrap(op, e.ErrProductNameRequired)
		}

		taken, err := p.productRepo.NameTaken(ctx, name, product.ID)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		if taken {
			return nil, e.Wrap(op, e.ErrDuplicateName)
		}
		product.Name = name
	}

	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, e.Wrap(op, e.ErrPriceMustBePositive)
		}
		product.Price = *req.Price
	}

	if req.StockUnit != nil {
		product.StockUnit = *req.StockUnit
	}

	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if req.DescriptionSet {
		product.Description = req.Description
	}

	if req.SizeSet {
		product.Size = req.Size
	}

	if req.StockSet {
		if req.Stock != nil && *req.Stock < 0 {
			return nil, e.Wrap(op, e.ErrNegativeStock)
		}
		product.Stock = req.Stock
	}

	if req.ImageSet {
		if product.ImageKey != nil && (req.ImageKey == nil || *req.ImageKey != *product.ImageKey) {
			staleImageKey = product.ImageKey
		}

		product.ImageKey = req.ImageKey
		product.ImageURL = nil
		if req.ImageKey != nil {
			url, err := p.imageStorage.ResolveURL(ctx, *req.ImageKey)
			if err != nil {
				return nil, e.Wrap(op, err)
			}
			product.ImageURL = &url
		}
	}

	updated, err := p.productRepo.Update(ctx, product)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if staleImageKey != nil {
		p.deleteImage(ctx, op, *staleImageKey)
	}

	p.invalidateCatalog(ctx, op)

	return updated, nil
}

// Archive скрывает товар с витрины (мягкое удаление).
func (p *ProductUseCase) Archive(ctx context.Context, auth *AuthContext, id int64) error {
	const op = "ProductUseCase.Archive"

	if err := auth.RequireAdmin(); err != nil {
		return e.Wrap(op, err)
	}

	if err := p.productRepo.SetActive(ctx, id, false); err != nil {
		return e.Wrap(op, err)
	}

	p.invalidateCatalog(ctx, op)

	return nil
}

// Delete безвозвратно удаляет товар вместе с изображением в хранилище.
func (p *ProductUseCase) Delete(ctx context.Context, auth *AuthContext, id int64) error {
	const op = "ProductUseCase.Delete"

	if err := auth.RequireAdmin(); err != nil {
		return e.Wrap(op, err)
	}

	product, err := p.productRepo.Get(ctx, id)
	if err != nil {
		return e.Wrap(op, err)
	}

	if err := p.productRepo.Delete(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	if product.ImageKey != nil {
		p.deleteImage(ctx, op, *product.ImageKey)
	}

	p.invalidateCatalog(ctx, op)

	return nil
}

// SetStock напрямую выставляет остаток товара (nil — перестать отслеживать).
func (p *ProductUseCase) SetStock(ctx context.Context, auth *AuthContext, id int64, stock *int64) error {
	const op = "ProductUseCase.SetStock"

	if err := auth.RequireAdmin(); err != nil {
		return e.Wrap(op, err)
	}

	if stock != nil && *stock < 0 {
		return e.Wrap(op, e.ErrNegativeStock)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, p.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	if _, err = p.productRepo.GetForUpdate(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	if err = p.productRepo.UpdateStock(ctx, id, stock); err != nil {
		return e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	p.invalidateCatalog(ctx, op)

	return nil
}

// CheckName сообщает, свободно ли имя товара. excludeID исключает сам
// редактируемый товар при проверке из формы редактирования.
func (p *ProductUseCase) CheckName(ctx context.Context, name string, excludeID int64) (bool, error) {
	const op = "ProductUseCase.CheckName"

	if strings.TrimSpace(name) == "" {
		return false, e.Wrap(op, e.ErrProductNameRequired)
	}

	taken, err := p.productRepo.NameTaken(ctx, strings.TrimSpace(name), excludeID)
	if err != nil {
		return false, e.Wrap(op, err)
	}

	return !taken, nil
}

func (p *ProductUseCase) StockStats(ctx context.Context, auth *AuthContext) (*StockStats, error) {
	const op = "ProductUseCase.StockStats"

	if err := auth.RequireAdmin(); err != nil {
		return nil, e.Wrap(op, err)
	}

	return p.productRepo.StockStats(ctx)
}

// GenerateUploadURL выдаёт presigned-URL для загрузки изображения товара.
func (p *ProductUseCase) GenerateUploadURL(ctx context.Context, auth *AuthContext) (*UploadTicket, error) {
	const op = "ProductUseCase.GenerateUploadURL"

	if err := auth.RequireAdmin(); err != nil {
		return nil, e.Wrap(op, err)
	}

	return p.imageStorage.GenerateUploadURL(ctx)
}

// BackfillStock присваивает явный остаток всем товарам без отслеживания.
// Разовая операция сопровождения после включения учёта остатков.
func (p *ProductUseCase) BackfillStock(ctx context.Context, auth *AuthContext, defaultStock int64) (*BackfillStockRes, error) {
	const op = "ProductUseCase.BackfillStock"

	if err := auth.RequireAdmin(); err != nil {
		return nil, e.Wrap(op, err)
	}

	if defaultStock < 0 {
		return nil, e.Wrap(op, e.ErrNegativeStock)
	}

	res, err := p.productRepo.BackfillStock(ctx, defaultStock)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.invalidateCatalog(ctx, op)

	return res, nil
}

// validateProduct проверяет корректность входных данных на создание товара.
func (p *ProductUseCase) validateProduct(name string, price int64, stock *int64) error {
	if strings.TrimSpace(name) == "" {
		return e.ErrProductNameRequired
	}

	if price <= 0 {
		return e.ErrPriceMustBePositive
	}

	if stock != nil && *stock < 0 {
		return e.ErrNegativeStock
	}

	return nil
}

func (p *ProductUseCase) deleteImage(ctx context.Context, op, key string) {
	if err := p.imageStorage.Delete(ctx, key); err != nil {
		p.logger.Warnf("failed to delete product image %s: %v", key, e.Wrap(op, err))
	}
}

func (p *ProductUseCase) invalidateCatalog(ctx context.Context, op string) {
	if err := p.cacheRepo.InvalidateCatalog(ctx); err != nil {
		p.logger.Warnf("failed to invalidate catalog cache: %v", e.Wrap(op, err))
	}
}

package pgdb

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/zaytuna-store/go-backend/internal/domain"
	"github.com/zaytuna-store/go-backend/internal/repository/pgdb/converter"
	"github.com/zaytuna-store/go-backend/internal/usecase"
	"github.com/zaytuna-store/go-backend/pkg/e"
	"github.com/zaytuna-store/go-backend/pkg/tr"
)

const productColumns = `id, name, description, price, size, stock_unit, stock, is_active, image_key, image_url, created_at, updated_at`

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	model := p.conv.ToModel(product)
	query := `
		INSERT INTO products (name, description, price, size, stock_unit, stock, is_active, image_key, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at;
	`

	err := p.pool.QueryRow(ctx, query,
		model.Name,
		model.Description,
		model.Price,
		model.Size,
		model.StockUnit,
		model.Stock,
		model.IsActive,
		model.ImageKey,
		model.ImageURL,
	).Scan(&model.ID, &model.CreatedAt)
	if err != nil {
		if duplicateConstraint(err) == constraintProductName {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrDuplicateName)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model), nil
}

func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	model := p.conv.ToModel(product)
	query := `
		UPDATE products
		SET name = $2,
		    description = $3,
		    price = $4,
		    size = $5,
		    stock_unit = $6,
		    stock = $7,
		    is_active = $8,
		    image_key = $9,
		    image_url = $10,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + productColumns + `;
	`

	var updated converter.ProductModel
	err := p.pool.QueryRow(ctx, query,
		model.ID,
		model.Name,
		model.Description,
		model.Price,
		model.Size,
		model.StockUnit,
		model.Stock,
		model.IsActive,
		model.ImageKey,
		model.ImageURL,
	).Scan(
		&updated.ID, &updated.Name, &updated.Description, &updated.Price,
		&updated.Size, &updated.StockUnit, &updated.Stock, &updated.IsActive,
		&updated.ImageKey, &updated.ImageURL, &updated.CreatedAt, &updated.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}
		if duplicateConstraint(err) == constraintProductName {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrDuplicateName)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&updated), nil
}

func (p *ProductRepo) Get(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1;`

	model, err := scanProduct(p.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model), nil
}

// GetForUpdate читает товар с блокировкой строки внутри транзакции из контекста.
func (p *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE;`

	model, err := scanProduct(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model), nil
}

func (p *ProductRepo) ListActive(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE is_active = TRUE
		ORDER BY created_at DESC;
	`

	return p.list(ctx, query)
}

func (p *ProductRepo) ListAll(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC;`

	return p.list(ctx, query)
}

// UpdateStock выставляет остаток (NULL — остаток не отслеживается).
// Выполняется внутри транзакции из контекста.
func (p *ProductRepo) UpdateStock(ctx context.Context, id int64, stock *int64) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `UPDATE products SET stock = $2, updated_at = NOW() WHERE id = $1;`

	result, err := tx.Exec(ctx, query, id, stock)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if result.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return nil
}

func (p *ProductRepo) SetActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE products SET is_active = $2, updated_at = NOW() WHERE id = $1;`

	result, err := p.pool.Exec(ctx, query, id, active)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if result.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return nil
}

func (p *ProductRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = $1;`

	result, err := p.pool.Exec(ctx, query, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if result.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return nil
}

// NameTaken проверяет занятость имени без учёта регистра.
// excludeID = 0 означает проверку среди всех товаров.
func (p *ProductRepo) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM products
			WHERE lower(name) = lower($1) AND id <> $2
		);
	`

	var taken bool
	if err := p.pool.QueryRow(ctx, query, name, excludeID).Scan(&taken); err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return taken, nil
}

func (p *ProductRepo) StockStats(ctx context.Context) (*usecase.StockStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(stock),
			COALESCE(SUM(stock), 0),
			COUNT(*) FILTER (WHERE stock = 0),
			COUNT(*) FILTER (WHERE stock BETWEEN 1 AND 5)
		FROM products;
	`

	var stats usecase.StockStats
	err := p.pool.QueryRow(ctx, query).Scan(
		&stats.TotalProducts,
		&stats.TrackedProducts,
		&stats.TotalUnits,
		&stats.OutOfStock,
		&stats.LowStock,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &stats, nil
}

// BackfillStock присваивает defaultStock всем товарам с NULL-остатком.
func (p *ProductRepo) BackfillStock(ctx context.Context, defaultStock int64) (*usecase.BackfillStockRes, error) {
	query := `
		WITH updated AS (
			UPDATE products
			SET stock = $1, updated_at = NOW()
			WHERE stock IS NULL
			RETURNING id
		)
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM updated);
	`

	var res usecase.BackfillStockRes
	if err := p.pool.QueryRow(ctx, query, defaultStock).Scan(&res.TotalProducts, &res.UpdatedCount); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &res, nil
}

func (p *ProductRepo) list(ctx context.Context, query string) ([]domain.Product, error) {
	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	var models []*converter.ProductModel
	for rows.Next() {
		model, err := scanProduct(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		models = append(models, model)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToArrEntity(models), nil
}

func scanProduct(row pgx.Row) (*converter.ProductModel, error) {
	var model converter.ProductModel
	err := row.Scan(
		&model.ID, &model.Name, &model.Description, &model.Price,
		&model.Size, &model.StockUnit, &model.Stock, &model.IsActive,
		&model.ImageKey, &model.ImageURL, &model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &model, nil
}

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

const orderColumns = `id, product_id, product_name, product_price, quantity, user_name, user_email, status, reference, notes, created_at, updated_at`

// OrderRepo реализует репозиторий заказов поверх PostgreSQL.
type OrderRepo struct {
	pool *pgxpool.Pool
	conv converter.OrderConverter
}

func NewOrderRepo(pool *pgxpool.Pool, conv converter.OrderConverter) *OrderRepo {
	return &OrderRepo{
		pool: pool,
		conv: conv,
	}
}

// Create вставляет заказ внутри транзакции из контекста. Гонка по номеру
// заказа возвращается как ErrReferenceTaken, вызывающая сторона генерирует
// новый номер и повторяет вставку.
func (o *OrderRepo) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model := o.conv.ToModel(order)
	query := `
		INSERT INTO orders (product_id, product_name, product_price, quantity, user_name, user_email, status, reference, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at;
	`

	err = tx.QueryRow(ctx, query,
		model.ProductID,
		model.ProductName,
		model.ProductPrice,
		model.Quantity,
		model.UserName,
		model.UserEmail,
		model.Status,
		model.Reference,
		model.Notes,
	).Scan(&model.ID, &model.CreatedAt)
	if err != nil {
		if duplicateConstraint(err) == constraintOrderReference {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrReferenceTaken)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.ToEntity(model), nil
}

func (o *OrderRepo) Get(ctx context.Context, id int64) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1;`

	model, err := scanOrder(o.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrOrderNotFound)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.ToEntity(model), nil
}

// GetForUpdate читает заказ с блокировкой строки внутри транзакции из контекста.
func (o *OrderRepo) GetForUpdate(ctx context.Context, id int64) (*domain.Order, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE;`

	model, err := scanOrder(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrOrderNotFound)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.ToEntity(model), nil
}

// List возвращает заказы, свежие первыми, с необязательным фильтром по статусу.
func (o *OrderRepo) List(ctx context.Context, status *domain.OrderStatus) ([]domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE $1::TEXT IS NULL OR status = $1
		ORDER BY created_at DESC;
	`

	rows, err := o.pool.Query(ctx, query, status)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	var models []*converter.OrderModel
	for rows.Next() {
		model, err := scanOrder(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		models = append(models, model)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.ToArrEntity(models), nil
}

// UpdateStatus переводит заказ в новый статус внутри транзакции из контекста.
// Notes == nil оставляет прежние заметки.
func (o *OrderRepo) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus, notes *string) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		UPDATE orders
		SET status = $2, notes = COALESCE($3, notes), updated_at = NOW()
		WHERE id = $1;
	`

	result, err := tx.Exec(ctx, query, id, status, notes)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if result.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrOrderNotFound)
	}

	return nil
}

// Stats считает заказы по статусам и выручку без отменённых заказов.
func (o *OrderRepo) Stats(ctx context.Context) (*usecase.OrderStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'confirmed'),
			COUNT(*) FILTER (WHERE status = 'shipped'),
			COUNT(*) FILTER (WHERE status = 'delivered'),
			COUNT(*) FILTER (WHERE status = 'cancelled'),
			COALESCE(SUM(product_price * quantity) FILTER (WHERE status <> 'cancelled'), 0)
		FROM orders;
	`

	var stats usecase.OrderStats
	err := o.pool.QueryRow(ctx, query).Scan(
		&stats.Total,
		&stats.Pending,
		&stats.Confirmed,
		&stats.Shipped,
		&stats.Delivered,
		&stats.Cancelled,
		&stats.TotalRevenue,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &stats, nil
}

func scanOrder(row pgx.Row) (*converter.OrderModel, error) {
	var model converter.OrderModel
	err := row.Scan(
		&model.ID, &model.ProductID, &model.ProductName, &model.ProductPrice,
		&model.Quantity, &model.UserName, &model.UserEmail, &model.Status,
		&model.Reference, &model.Notes, &model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &model, nil
}

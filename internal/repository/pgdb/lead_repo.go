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

const leadColumns = `id, product_id, product_name, product_price, user_name, user_email, status, reference, whatsapp_url, clicked_at, notes, created_at, updated_at`

// LeadRepo реализует репозиторий WhatsApp-обращений поверх PostgreSQL.
type LeadRepo struct {
	pool *pgxpool.Pool
	conv converter.LeadConverter
}

func NewLeadRepo(pool *pgxpool.Pool, conv converter.LeadConverter) *LeadRepo {
	return &LeadRepo{
		pool: pool,
		conv: conv,
	}
}

// Create вставляет обращение внутри транзакции из контекста. Гонка по номеру
// возвращается как ErrReferenceTaken для повторной генерации.
func (l *LeadRepo) Create(ctx context.Context, lead *domain.Lead) (*domain.Lead, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model := l.conv.ToModel(lead)
	query := `
		INSERT INTO leads (product_id, product_name, product_price, user_name, user_email, status, reference, whatsapp_url, clicked_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at;
	`

	err = tx.QueryRow(ctx, query,
		model.ProductID,
		model.ProductName,
		model.ProductPrice,
		model.UserName,
		model.UserEmail,
		model.Status,
		model.Reference,
		model.WhatsAppURL,
		model.ClickedAt,
		model.Notes,
	).Scan(&model.ID, &model.CreatedAt)
	if err != nil {
		if duplicateConstraint(err) == constraintLeadReference {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrReferenceTaken)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return l.conv.ToEntity(model), nil
}

func (l *LeadRepo) Get(ctx context.Context, id int64) (*domain.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1;`

	model, err := scanLead(l.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrLeadNotFound)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return l.conv.ToEntity(model), nil
}

// GetForUpdate читает обращение с блокировкой строки внутри транзакции из контекста.
func (l *LeadRepo) GetForUpdate(ctx context.Context, id int64) (*domain.Lead, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1 FOR UPDATE;`

	model, err := scanLead(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrLeadNotFound)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return l.conv.ToEntity(model), nil
}

// List возвращает обращения, свежие первыми, с необязательным фильтром по статусу.
func (l *LeadRepo) List(ctx context.Context, status *domain.LeadStatus) ([]domain.Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE $1::TEXT IS NULL OR status = $1
		ORDER BY created_at DESC;
	`

	rows, err := l.pool.Query(ctx, query, status)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	var models []*converter.LeadModel
	for rows.Next() {
		model, err := scanLead(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		models = append(models, model)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return l.conv.ToArrEntity(models), nil
}

// UpdateStatus переводит обращение в новый статус внутри транзакции из контекста.
func (l *LeadRepo) UpdateStatus(ctx context.Context, id int64, status domain.LeadStatus, notes *string) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		UPDATE leads
		SET status = $2, notes = COALESCE($3, notes), updated_at = NOW()
		WHERE id = $1;
	`

	result, err := tx.Exec(ctx, query, id, status, notes)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if result.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrLeadNotFound)
	}

	return nil
}

func (l *LeadRepo) Stats(ctx context.Context) (*usecase.LeadStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'contacted'),
			COUNT(*) FILTER (WHERE status = 'converted'),
			COUNT(*) FILTER (WHERE status = 'lost')
		FROM leads;
	`

	var stats usecase.LeadStats
	err := l.pool.QueryRow(ctx, query).Scan(
		&stats.Total,
		&stats.Pending,
		&stats.Contacted,
		&stats.Converted,
		&stats.Lost,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &stats, nil
}

func scanLead(row pgx.Row) (*converter.LeadModel, error) {
	var model converter.LeadModel
	err := row.Scan(
		&model.ID, &model.ProductID, &model.ProductName, &model.ProductPrice,
		&model.UserName, &model.UserEmail, &model.Status, &model.Reference,
		&model.WhatsAppURL, &model.ClickedAt, &model.Notes, &model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &model, nil
}

package pgdb

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/zaytuna-store/go-backend/internal/domain"
	"github.com/zaytuna-store/go-backend/internal/repository/pgdb/converter"
	"github.com/zaytuna-store/go-backend/pkg/e"
)

const userColumns = `id, external_id, email, name, image_url, phone, role, created_at, updated_at`

// UserRepo реализует репозиторий пользователей поверх PostgreSQL.
// Источник истины — внешний провайдер идентификации, записи синхронизируются
// вебхуком, поэтому вставка идемпотентна по external_id.
type UserRepo struct {
	pool *pgxpool.Pool
	conv converter.UserConverter
}

func NewUserRepo(pool *pgxpool.Pool, conv converter.UserConverter) *UserRepo {
	return &UserRepo{
		pool: pool,
		conv: conv,
	}
}

// Upsert создаёт или обновляет пользователя по external_id. Роль и телефон
// задаются только локально и при повторной синхронизации не затираются.
func (u *UserRepo) Upsert(ctx context.Context, user *domain.User) (*domain.User, error) {
	model := u.conv.ToModel(user)
	query := `
		INSERT INTO users (external_id, email, name, image_url, role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (external_id)
		DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			image_url = EXCLUDED.image_url,
			updated_at = NOW()
		RETURNING ` + userColumns + `;
	`

	var upserted converter.UserModel
	err := u.pool.QueryRow(ctx, query,
		model.ExternalID,
		model.Email,
		model.Name,
		model.ImageURL,
		model.Role,
	).Scan(
		&upserted.ID, &upserted.ExternalID, &upserted.Email, &upserted.Name,
		&upserted.ImageURL, &upserted.Phone, &upserted.Role,
		&upserted.CreatedAt, &upserted.UpdatedAt,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return u.conv.ToEntity(&upserted), nil
}

func (u *UserRepo) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE external_id = $1;`

	var model converter.UserModel
	err := u.pool.QueryRow(ctx, query, externalID).Scan(
		&model.ID, &model.ExternalID, &model.Email, &model.Name,
		&model.ImageURL, &model.Phone, &model.Role,
		&model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrUserNotFound)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return u.conv.ToEntity(&model), nil
}

func (u *UserRepo) DeleteByExternalID(ctx context.Context, externalID string) error {
	query := `DELETE FROM users WHERE external_id = $1;`

	result, err := u.pool.Exec(ctx, query, externalID)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if result.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrUserNotFound)
	}

	return nil
}

func (u *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC;`

	rows, err := u.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	var models []*converter.UserModel
	for rows.Next() {
		var model converter.UserModel
		err := rows.Scan(
			&model.ID, &model.ExternalID, &model.Email, &model.Name,
			&model.ImageURL, &model.Phone, &model.Role,
			&model.CreatedAt, &model.UpdatedAt,
		)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		models = append(models, &model)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return u.conv.ToArrEntity(models), nil
}

func (u *UserRepo) UpdateRole(ctx context.Context, id int64, role *string) error {
	query := `UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1;`

	result, err := u.pool.Exec(ctx, query, id, role)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if result.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrUserNotFound)
	}

	return nil
}

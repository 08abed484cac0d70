package usecase

import (
	"context"
	"errors"

	"github.com/zaytuna-store/go-backend/internal/domain"
	"github.com/zaytuna-store/go-backend/pkg/e"
	"github.com/zaytuna-store/go-backend/pkg/logger"
)

// UserUseCase зеркалирует пользователей провайдера идентификации.
// Источник истины — провайдер: Sync и Delete вызываются его вебхуком.
type UserUseCase struct {
	userRepo UserRepository
	logger   logger.Logger
}

func NewUserUC(userRepo UserRepository, logger logger.Logger) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Sync создаёт или обновляет локальную копию пользователя по ExternalID.
func (u *UserUseCase) Sync(ctx context.Context, req *SyncUserReq) (*domain.User, error) {
	const op = "UserUseCase.Sync"

	if req.ExternalID == "" || req.Email == "" {
		return nil, e.Wrap(op, e.ErrMissingFields)
	}

	user, err := u.userRepo.Upsert(ctx, domain.NewUser(req.ExternalID, req.Email, req.Name, req.ImageURL, req.Role))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return user, nil
}

// Delete удаляет локальную копию пользователя. Отсутствующий пользователь —
// не ошибка: вебхук может прийти повторно.
func (u *UserUseCase) Delete(ctx context.Context, externalID string) error {
	const op = "UserUseCase.Delete"

	if externalID == "" {
		return e.Wrap(op, e.ErrMissingFields)
	}

	if err := u.userRepo.DeleteByExternalID(ctx, externalID); err != nil {
		if errors.Is(err, e.ErrUserNotFound) {
			u.logger.Debugf("delete webhook for unknown user %s, ignoring", externalID)
			return nil
		}
		return e.Wrap(op, err)
	}

	return nil
}

func (u *UserUseCase) List(ctx context.Context, auth *AuthContext) ([]domain.User, error) {
	const op = "UserUseCase.List"

	if err := auth.RequireAdmin(); err != nil {
		return nil, e.Wrap(op, err)
	}

	return u.userRepo.List(ctx)
}

// UpdateRole выставляет или снимает административную роль.
func (u *UserUseCase) UpdateRole(ctx context.Context, auth *AuthContext, id int64, role *string) error {
	const op = "UserUseCase.UpdateRole"

	if err := auth.RequireAdmin(); err != nil {
		return e.Wrap(op, err)
	}

	if role != nil && *role != domain.RoleAdmin {
		return e.Wrap(op, e.ErrInvalidRole)
	}

	if err := u.userRepo.UpdateRole(ctx, id, role); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

func (u *UserUseCase) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	return u.userRepo.GetByExternalID(ctx, externalID)
}

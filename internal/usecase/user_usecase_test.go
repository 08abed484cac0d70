package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zaytuna-store/go-backend/internal/domain"
	"github.com/zaytuna-store/go-backend/pkg/e"
)

type fakeUserRepo struct {
	UserRepository

	byExternalID map[string]*domain.User
	roleUpdates  map[int64]*string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byExternalID: map[string]*domain.User{},
		roleUpdates:  map[int64]*string{},
	}
}

func (f *fakeUserRepo) Upsert(_ context.Context, user *domain.User) (*domain.User, error) {
	existing, ok := f.byExternalID[user.ExternalID]
	if ok {
		existing.Email = user.Email
		existing.Name = user.Name
		existing.ImageURL = user.ImageURL
		cp := *existing
		return &cp, nil
	}

	cp := *user
	cp.ID = int64(len(f.byExternalID) + 1)
	f.byExternalID[cp.ExternalID] = &cp

	out := cp
	return &out, nil
}

func (f *fakeUserRepo) GetByExternalID(_ context.Context, externalID string) (*domain.User, error) {
	u, ok := f.byExternalID[externalID]
	if !ok {
		return nil, e.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) DeleteByExternalID(_ context.Context, externalID string) error {
	if _, ok := f.byExternalID[externalID]; !ok {
		return e.ErrUserNotFound
	}
	delete(f.byExternalID, externalID)
	return nil
}

func (f *fakeUserRepo) UpdateRole(_ context.Context, id int64, role *string) error {
	f.roleUpdates[id] = role
	return nil
}

func TestUserSync(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewUserUC(repo, nopLogger{})
	ctx := context.Background()

	user, err := uc.Sync(ctx, &SyncUserReq{ExternalID: "usr_1", Email: "amina@store.test", Name: strPtr("Amina")})
	require.NoError(t, err)
	assert.Equal(t, "usr_1", user.ExternalID)
	assert.Equal(t, "amina@store.test", user.Email)

	// Повторная синхронизация обновляет, а не дублирует
	updated, err := uc.Sync(ctx, &SyncUserReq{ExternalID: "usr_1", Email: "new@store.test"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, updated.ID)
	assert.Equal(t, "new@store.test", updated.Email)
}

func TestUserSyncMissingFields(t *testing.T) {
	uc := NewUserUC(newFakeUserRepo(), nopLogger{})
	ctx := context.Background()

	_, err := uc.Sync(ctx, &SyncUserReq{Email: "amina@store.test"})
	assert.ErrorIs(t, err, e.ErrMissingFields)

	_, err = uc.Sync(ctx, &SyncUserReq{ExternalID: "usr_1"})
	assert.ErrorIs(t, err, e.ErrMissingFields)
}

func TestUserDelete(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewUserUC(repo, nopLogger{})
	ctx := context.Background()

	_, err := uc.Sync(ctx, &SyncUserReq{ExternalID: "usr_1", Email: "amina@store.test"})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, "usr_1"))
	_, err = uc.GetByExternalID(ctx, "usr_1")
	assert.ErrorIs(t, err, e.ErrUserNotFound)

	// Повторный вебхук удаления — не ошибка
	assert.NoError(t, uc.Delete(ctx, "usr_1"))

	err = uc.Delete(ctx, "")
	assert.ErrorIs(t, err, e.ErrMissingFields)
}

func TestUserUpdateRole(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewUserUC(repo, nopLogger{})
	ctx := context.Background()

	require.NoError(t, uc.UpdateRole(ctx, adminAuth(), 5, strPtr(domain.RoleAdmin)))
	require.Contains(t, repo.roleUpdates, int64(5))

	// nil снимает роль
	require.NoError(t, uc.UpdateRole(ctx, adminAuth(), 5, nil))
	assert.Nil(t, repo.roleUpdates[5])

	err := uc.UpdateRole(ctx, adminAuth(), 5, strPtr("superuser"))
	assert.ErrorIs(t, err, e.ErrInvalidRole)

	err = uc.UpdateRole(ctx, customerAuth(), 5, nil)
	assert.ErrorIs(t, err, e.ErrForbidden)

	_, err = uc.List(ctx, nil)
	assert.ErrorIs(t, err, e.ErrUnauthorized)
}

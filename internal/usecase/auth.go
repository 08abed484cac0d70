package usecase

import (
	"github.com/zaytuna-store/go-backend/internal/domain"
	"github.com/zaytuna-store/go-backend/pkg/e"
)

// AuthContext — проверенная сессия вызывающего. Конструируется один раз
// на запрос из верифицированного токена в HTTP-middleware и передаётся
// явно в каждую админскую операцию: usecase-слой не лезет в контекст
// запроса и не перепроверяет подпись.
type AuthContext struct {
	Subject string // Идентификатор пользователя у провайдера идентификации
	Email   string
	Name    string
	Role    string
}

func NewAuthContext(subject, email, name, role string) *AuthContext {
	return &AuthContext{
		Subject: subject,
		Email:   email,
		Name:    name,
		Role:    role,
	}
}

func (a *AuthContext) IsAdmin() bool {
	return a != nil && a.Role == domain.RoleAdmin
}

// RequireAdmin возвращает e.ErrUnauthorized без сессии и e.ErrForbidden
// для сессии без административной роли. Вызывается первым в каждой
// админской операции, до любого обращения к данным.
func (a *AuthContext) RequireAdmin() error {
	if a == nil {
		return e.ErrUnauthorized
	}
	if !a.IsAdmin() {
		return e.ErrForbidden
	}
	return nil
}

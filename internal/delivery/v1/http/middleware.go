package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/zaytuna-store/go-backend/internal/cfg"
	"github.com/zaytuna-store/go-backend/internal/usecase"
	"github.com/zaytuna-store/go-backend/pkg/e"
	"github.com/zaytuna-store/go-backend/pkg/logger"
)

type ctxKey int

const authCtxKey ctxKey = iota

// sessionClaims — полезная нагрузка сессионного токена провайдера идентификации.
type sessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware проверяет сессионный токен и кладёт AuthContext в контекст
// запроса. Роль берётся из claim токена, при его отсутствии — из локального
// зеркала пользователей. Проверка административной роли остаётся за usecase.
type AuthMiddleware struct {
	cfg    *cfg.AuthCfg
	userUC usecase.UserUC
	logger logger.Logger
}

func NewAuthMiddleware(cfg *cfg.AuthCfg, userUC usecase.UserUC, logger logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		cfg:    cfg,
		userUC: userUC,
		logger: logger,
	}
}

// RequireAuth отклоняет запросы без валидного токена кодом 401.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth, err := m.authenticate(r)
		if err != nil {
			m.logger.Debugf("authentication rejected: %v", err)
			WriteError(w, e.ErrUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(withAuth(r.Context(), auth)))
	})
}

func (m *AuthMiddleware) authenticate(r *http.Request) (*usecase.AuthContext, error) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return nil, e.ErrUnauthorized
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, e.ErrInvalidSignature
		}
		return []byte(m.cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, e.Wrap("token parse", e.ErrUnauthorized)
	}

	if claims.Subject == "" {
		return nil, e.Wrap("token without subject", e.ErrUnauthorized)
	}

	role := claims.Role
	if role == "" {
		role = m.lookupRole(r.Context(), claims.Subject)
	}

	return usecase.NewAuthContext(claims.Subject, claims.Email, claims.Name, role), nil
}

// lookupRole подхватывает роль из локального зеркала, когда провайдер
// не кладёт её в токен. Неизвестный пользователь — обычный покупатель.
func (m *AuthMiddleware) lookupRole(ctx context.Context, externalID string) string {
	user, err := m.userUC.GetByExternalID(ctx, externalID)
	if err != nil {
		if !errors.Is(err, e.ErrUserNotFound) {
			m.logger.Warnf("role lookup failed for %s: %v", externalID, err)
		}
		return ""
	}

	if user.Role == nil {
		return ""
	}

	return *user.Role
}

func withAuth(ctx context.Context, auth *usecase.AuthContext) context.Context {
	return context.WithValue(ctx, authCtxKey, auth)
}

// AuthFromCtx возвращает AuthContext запроса, nil для анонимного вызова.
func AuthFromCtx(ctx context.Context) *usecase.AuthContext {
	auth, _ := ctx.Value(authCtxKey).(*usecase.AuthContext)
	return auth
}

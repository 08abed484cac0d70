package http

import (
	"net/http"
	"time"

	"github.com/zaytuna-store/go-backend/internal/domain"
	"github.com/zaytuna-store/go-backend/internal/usecase"
	"github.com/zaytuna-store/go-backend/pkg/logger"
)

type UserHandler struct {
	userUsecase usecase.UserUC
	logger      logger.Logger
}

func NewUserHandler(userUsecase usecase.UserUC, logger logger.Logger) *UserHandler {
	return &UserHandler{userUsecase: userUsecase, logger: logger}
}

type userResponse struct {
	ID         int64      `json:"id"`
	ExternalID string     `json:"external_id"`
	Email      string     `json:"email"`
	Name       *string    `json:"name,omitempty"`
	ImageURL   *string    `json:"image_url,omitempty"`
	Phone      *string    `json:"phone,omitempty"`
	Role       *string    `json:"role,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:         u.ID,
		ExternalID: u.ExternalID,
		Email:      u.Email,
		Name:       u.Name,
		ImageURL:   u.ImageURL,
		Phone:      u.Phone,
		Role:       u.Role,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// listUsers
//
//	@Summary	Список пользователей
//	@Tags		admin-users
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}		userResponse
//	@Failure	403	{object}	ErrorResponse
//	@Router		/admin/users [get]
func (h *UserHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userUsecase.List(r.Context(), AuthFromCtx(r.Context()))
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	result := make([]userResponse, 0, len(users))
	for i := range users {
		result = append(result, toUserResponse(&users[i]))
	}

	WriteSuccess(w, http.StatusOK, result)
}

type updateRoleBody struct {
	Role *string `json:"role"`
}

// updateRole
//
//	@Summary		Смена роли пользователя
//	@Description	null снимает административную роль
//	@Tags			admin-users
//	@Security		BearerAuth
//	@Accept			json
//	@Param			id		path	int				true	"ID пользователя"
//	@Param			body	body	updateRoleBody	true	"Новая роль"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/admin/users/{id}/role [put]
func (h *UserHandler) updateRole(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var body updateRoleBody
	if err := decodeJSON(r, &body); err != nil {
		WriteError(w, err)
		return
	}

	if err := h.userUsecase.UpdateRole(r.Context(), AuthFromCtx(r.Context()), id, body.Role); err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

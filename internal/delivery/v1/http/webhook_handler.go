package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/zaytuna-store/go-backend/internal/usecase"
	"github.com/zaytuna-store/go-backend/pkg/e"
	"github.com/zaytuna-store/go-backend/pkg/logger"
)

const maxWebhookBodySize = 1 << 20

// WebhookVerifier проверяет подпись вебхука провайдера идентификации
// (заголовки svix-id / svix-timestamp / svix-signature).
type WebhookVerifier interface {
	Verify(payload []byte, headers http.Header) error
}

// WebhookHandler принимает события жизненного цикла пользователей от
// провайдера идентификации и синхронизирует локальное зеркало.
type WebhookHandler struct {
	userUsecase usecase.UserUC
	verifier    WebhookVerifier
	logger      logger.Logger
}

func NewWebhookHandler(userUsecase usecase.UserUC, verifier WebhookVerifier, logger logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		userUsecase: userUsecase,
		verifier:    verifier,
		logger:      logger,
	}
}

type webhookEvent struct {
	Type string          `json:"type"`
	Data webhookUserData `json:"data"`
}

type webhookUserData struct {
	ID             string                `json:"id"`
	EmailAddresses []webhookEmailRecord  `json:"email_addresses"`
	FirstName      *string               `json:"first_name"`
	LastName       *string               `json:"last_name"`
	ImageURL       *string               `json:"image_url"`
	PublicMetadata webhookPublicMetadata `json:"public_metadata"`
}

type webhookEmailRecord struct {
	EmailAddress string `json:"email_address"`
}

type webhookPublicMetadata struct {
	Role *string `json:"role"`
}

// handleUserEvent
//
//	@Summary		Вебхук провайдера идентификации
//	@Description	Синхронизирует пользователей по событиям user.created / user.updated / user.deleted
//	@Tags			webhooks
//	@Accept			json
//	@Success		200
//	@Failure		400	{object}	ErrorResponse	"Невалидная подпись или тело"
//	@Router			/webhooks/users [post]
func (h *WebhookHandler) handleUserEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodySize))
	if err != nil {
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	if err := h.verifier.Verify(body, r.Header); err != nil {
		h.logger.Warnf("webhook signature rejected: %v", err)
		WriteError(w, e.ErrInvalidSignature)
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	switch event.Type {
	case "user.created", "user.updated":
		h.syncUser(w, r, &event.Data)
	case "user.deleted":
		h.deleteUser(w, r, &event.Data)
	default:
		// Неизвестные события подтверждаем, чтобы провайдер не ретраил
		h.logger.Debugf("ignoring webhook event type %q", event.Type)
		WriteSuccess(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (h *WebhookHandler) syncUser(w http.ResponseWriter, r *http.Request, data *webhookUserData) {
	var email string
	if len(data.EmailAddresses) > 0 {
		email = data.EmailAddresses[0].EmailAddress
	}

	_, err := h.userUsecase.Sync(r.Context(), &usecase.SyncUserReq{
		ExternalID: data.ID,
		Email:      email,
		Name:       joinName(data.FirstName, data.LastName),
		ImageURL:   data.ImageURL,
		Role:       data.PublicMetadata.Role,
	})
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *WebhookHandler) deleteUser(w http.ResponseWriter, r *http.Request, data *webhookUserData) {
	if err := h.userUsecase.Delete(r.Context(), data.ID); err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]bool{"success": true})
}

func joinName(first, last *string) *string {
	parts := make([]string, 0, 2)
	if first != nil && *first != "" {
		parts = append(parts, *first)
	}
	if last != nil && *last != "" {
		parts = append(parts, *last)
	}
	if len(parts) == 0 {
		return nil
	}

	name := strings.Join(parts, " ")
	return &name
}

package http

import (
	"net/http"
	"time"

	"github.com/zaytuna-store/go-backend/internal/domain"
	"github.com/zaytuna-store/go-backend/internal/usecase"
	"github.com/zaytuna-store/go-backend/pkg/logger"
)

type LeadHandler struct {
	leadUsecase usecase.LeadUC
	logger      logger.Logger
}

func NewLeadHandler(leadUsecase usecase.LeadUC, logger logger.Logger) *LeadHandler {
	return &LeadHandler{leadUsecase: leadUsecase, logger: logger}
}

type createLeadBody struct {
	ProductID int64   `json:"product_id"`
	UserName  *string `json:"user_name"`
	UserEmail *string `json:"user_email"`
}

type createLeadResponse struct {
	LeadID      int64  `json:"lead_id"`
	Reference   string `json:"reference"`
	WhatsAppURL string `json:"whatsapp_url"`
}

type leadResponse struct {
	ID           int64      `json:"id"`
	ProductID    *int64     `json:"product_id,omitempty"` // nil — товар удалён
	ProductName  string     `json:"product_name"`
	ProductPrice int64      `json:"product_price"`
	UserName     *string    `json:"user_name,omitempty"`
	UserEmail    *string    `json:"user_email,omitempty"`
	Status       string     `json:"status"`
	Reference    string     `json:"reference"`
	WhatsAppURL  string     `json:"whatsapp_url"`
	ClickedAt    time.Time  `json:"clicked_at"`
	Notes        *string    `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

func toLeadResponse(l *domain.Lead) leadResponse {
	return leadResponse{
		ID:           l.ID,
		ProductID:    l.ProductID,
		ProductName:  l.ProductName,
		ProductPrice: l.ProductPrice,
		UserName:     l.UserName,
		UserEmail:    l.UserEmail,
		Status:       string(l.Status),
		Reference:    l.Reference,
		WhatsAppURL:  l.WhatsAppURL,
		ClickedAt:    l.ClickedAt,
		Notes:        l.Notes,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

// createLead
//
//	@Summary		Обращение "заказать через WhatsApp"
//	@Description	Регистрирует клик и возвращает wa.me ссылку с предзаполненным сообщением
//	@Tags			leads
//	@Accept			json
//	@Produce		json
//	@Param			body	body		createLeadBody	true	"Обращение"
//	@Success		201		{object}	createLeadResponse
//	@Failure		404		{object}	ErrorResponse	"Товар не найден или скрыт"
//	@Router			/leads [post]
func (h *LeadHandler) createLead(w http.ResponseWriter, r *http.Request) {
	var body createLeadBody
	if err := decodeJSON(r, &body); err != nil {
		WriteError(w, err)
		return
	}

	res, err := h.leadUsecase.Create(r.Context(), &usecase.CreateLeadReq{
		ProductID: body.ProductID,
		UserName:  body.UserName,
		UserEmail: body.UserEmail,
	})
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, createLeadResponse{
		LeadID:      res.LeadID,
		Reference:   res.Reference,
		WhatsAppURL: res.WhatsAppURL,
	})
}

// listLeads
//
//	@Summary	Список обращений
//	@Tags		admin-leads
//	@Security	BearerAuth
//	@Produce	json
//	@Param		status	query		string	false	"Фильтр по статусу"
//	@Success	200		{array}		leadResponse
//	@Failure	403		{object}	ErrorResponse
//	@Router		/admin/leads [get]
func (h *LeadHandler) listLeads(w http.ResponseWriter, r *http.Request) {
	var status *string
	if raw := r.URL.Query().Get("status"); raw != "" {
		status = &raw
	}

	leads, err := h.leadUsecase.List(r.Context(), AuthFromCtx(r.Context()), status)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	result := make([]leadResponse, 0, len(leads))
	for i := range leads {
		result = append(result, toLeadResponse(&leads[i]))
	}

	WriteSuccess(w, http.StatusOK, result)
}

// getLead
//
//	@Summary	Обращение по ID
//	@Tags		admin-leads
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		int	true	"ID обращения"
//	@Success	200	{object}	leadResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/admin/leads/{id} [get]
func (h *LeadHandler) getLead(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	lead, err := h.leadUsecase.Get(r.Context(), AuthFromCtx(r.Context()), id)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toLeadResponse(lead))
}

// updateLeadStatus
//
//	@Summary		Перевод обращения в новый статус
//	@Description	Конверсия бронирует одну единицу товара, откат конверсии возвращает её
//	@Tags			admin-leads
//	@Security		BearerAuth
//	@Accept			json
//	@Param			id		path	int					true	"ID обращения"
//	@Param			body	body	updateStatusBody	true	"Новый статус"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse	"Недостаточно остатка для конверсии"
//	@Router			/admin/leads/{id}/status [patch]
func (h *LeadHandler) updateLeadStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var body updateStatusBody
	if err := decodeJSON(r, &body); err != nil {
		WriteError(w, err)
		return
	}

	err = h.leadUsecase.UpdateStatus(r.Context(), AuthFromCtx(r.Context()), &usecase.UpdateLeadStatusReq{
		LeadID: id,
		Status: body.Status,
		Notes:  body.Notes,
	})
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type leadStatsResponse struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Contacted int64 `json:"contacted"`
	Converted int64 `json:"converted"`
	Lost      int64 `json:"lost"`
}

// leadStats
//
//	@Summary	Счётчики обращений по статусам
//	@Tags		admin-leads
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	leadStatsResponse
//	@Router		/admin/leads/stats [get]
func (h *LeadHandler) leadStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.leadUsecase.Stats(r.Context(), AuthFromCtx(r.Context()))
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, leadStatsResponse{
		Total:     stats.Total,
		Pending:   stats.Pending,
		Contacted: stats.Contacted,
		Converted: stats.Converted,
		Lost:      stats.Lost,
	})
}

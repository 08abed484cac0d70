package http

import (
	"net/http"
	"time"

	"github.com/zaytuna-store/go-backend/internal/domain"
	"github.com/zaytuna-store/go-backend/internal/usecase"
	"github.com/zaytuna-store/go-backend/pkg/logger"
)

type OrderHandler struct {
	orderUsecase usecase.OrderUC
	logger       logger.Logger
}

func NewOrderHandler(orderUsecase usecase.OrderUC, logger logger.Logger) *OrderHandler {
	return &OrderHandler{orderUsecase: orderUsecase, logger: logger}
}

type createOrderBody struct {
	ProductID int64   `json:"product_id"`
	Quantity  int64   `json:"quantity"`
	UserName  *string `json:"user_name"`
	UserEmail *string `json:"user_email"`
}

type createOrderResponse struct {
	OrderID      int64  `json:"order_id"`
	Reference    string `json:"reference"`
	ProductName  string `json:"product_name"`
	ProductPrice int64  `json:"product_price"`
	Quantity     int64  `json:"quantity"`
}

type orderResponse struct {
	ID           int64      `json:"id"`
	ProductID    *int64     `json:"product_id,omitempty"` // nil — товар удалён
	ProductName  string     `json:"product_name"`
	ProductPrice int64      `json:"product_price"`
	Quantity     int64      `json:"quantity"`
	UserName     *string    `json:"user_name,omitempty"`
	UserEmail    *string    `json:"user_email,omitempty"`
	Status       string     `json:"status"`
	Reference    string     `json:"reference"`
	Notes        *string    `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

func toOrderResponse(o *domain.Order) orderResponse {
	return orderResponse{
		ID:           o.ID,
		ProductID:    o.ProductID,
		ProductName:  o.ProductName,
		ProductPrice: o.ProductPrice,
		Quantity:     o.Quantity,
		UserName:     o.UserName,
		UserEmail:    o.UserEmail,
		Status:       string(o.Status),
		Reference:    o.Reference,
		Notes:        o.Notes,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// createOrder
//
//	@Summary		Оформление заказа
//	@Description	Бронирует остаток и возвращает номер заказа
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			body	body		createOrderBody	true	"Заказ"
//	@Success		201		{object}	createOrderResponse
//	@Failure		404		{object}	ErrorResponse	"Товар не найден или скрыт"
//	@Failure		409		{object}	ErrorResponse	"Недостаточно остатка"
//	@Router			/orders [post]
func (h *OrderHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var body createOrderBody
	if err := decodeJSON(r, &body); err != nil {
		WriteError(w, err)
		return
	}

	res, err := h.orderUsecase.Create(r.Context(), &usecase.CreateOrderReq{
		ProductID: body.ProductID,
		Quantity:  body.Quantity,
		UserName:  body.UserName,
		UserEmail: body.UserEmail,
	})
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, createOrderResponse{
		OrderID:      res.OrderID,
		Reference:    res.Reference,
		ProductName:  res.ProductName,
		ProductPrice: res.ProductPrice,
		Quantity:     res.Quantity,
	})
}

// listOrders
//
//	@Summary	Список заказов
//	@Tags		admin-orders
//	@Security	BearerAuth
//	@Produce	json
//	@Param		status	query		string	false	"Фильтр по статусу"
//	@Success	200		{array}		orderResponse
//	@Failure	403		{object}	ErrorResponse
//	@Router		/admin/orders [get]
func (h *OrderHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	var status *string
	if raw := r.URL.Query().Get("status"); raw != "" {
		status = &raw
	}

	orders, err := h.orderUsecase.List(r.Context(), AuthFromCtx(r.Context()), status)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	result := make([]orderResponse, 0, len(orders))
	for i := range orders {
		result = append(result, toOrderResponse(&orders[i]))
	}

	WriteSuccess(w, http.StatusOK, result)
}

// getOrder
//
//	@Summary	Заказ по ID
//	@Tags		admin-orders
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		int	true	"ID заказа"
//	@Success	200	{object}	orderResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/admin/orders/{id} [get]
func (h *OrderHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	order, err := h.orderUsecase.Get(r.Context(), AuthFromCtx(r.Context()), id)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toOrderResponse(order))
}

type updateStatusBody struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

// updateOrderStatus
//
//	@Summary		Перевод заказа в новый статус
//	@Description	Отмена возвращает бронь остатка, снятие отмены бронирует заново
//	@Tags			admin-orders
//	@Security		BearerAuth
//	@Accept			json
//	@Param			id		path	int					true	"ID заказа"
//	@Param			body	body	updateStatusBody	true	"Новый статус"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse	"Недостаточно остатка для повторной брони"
//	@Router			/admin/orders/{id}/status [patch]
func (h *OrderHandler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
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

	err = h.orderUsecase.UpdateStatus(r.Context(), AuthFromCtx(r.Context()), &usecase.UpdateOrderStatusReq{
		OrderID: id,
		Status:  body.Status,
		Notes:   body.Notes,
	})
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type orderStatsResponse struct {
	Total        int64 `json:"total"`
	Pending      int64 `json:"pending"`
	Confirmed    int64 `json:"confirmed"`
	Shipped      int64 `json:"shipped"`
	Delivered    int64 `json:"delivered"`
	Cancelled    int64 `json:"cancelled"`
	TotalRevenue int64 `json:"total_revenue"`
}

// orderStats
//
//	@Summary	Счётчики заказов и выручка
//	@Tags		admin-orders
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	orderStatsResponse
//	@Router		/admin/orders/stats [get]
func (h *OrderHandler) orderStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.orderUsecase.Stats(r.Context(), AuthFromCtx(r.Context()))
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, orderStatsResponse{
		Total:        stats.Total,
		Pending:      stats.Pending,
		Confirmed:    stats.Confirmed,
		Shipped:      stats.Shipped,
		Delivered:    stats.Delivered,
		Cancelled:    stats.Cancelled,
		TotalRevenue: stats.TotalRevenue,
	})
}

package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/zaytuna-store/go-backend/internal/domain"
	"github.com/zaytuna-store/go-backend/internal/usecase"
	"github.com/zaytuna-store/go-backend/pkg/e"
	"github.com/zaytuna-store/go-backend/pkg/logger"
)

// defaultBackfillStock — исторический остаток для товаров без учёта,
// если админ не передал свой.
const defaultBackfillStock = 999

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, logger: logger}
}

type productResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	Price       int64      `json:"price"`
	Size        *string    `json:"size,omitempty"`
	StockUnit   string     `json:"stock_unit"`
	Stock       *int64     `json:"stock,omitempty"`
	IsActive    bool       `json:"is_active"`
	ImageURL    *string    `json:"image_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Size:        p.Size,
		StockUnit:   p.StockUnit,
		Stock:       p.Stock,
		IsActive:    p.IsActive,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductResponses(products []domain.Product) []productResponse {
	result := make([]productResponse, 0, len(products))
	for i := range products {
		result = append(result, toProductResponse(&products[i]))
	}

	return result
}

type createProductBody struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       string  `json:"price"`
	Size        *string `json:"size"`
	StockUnit   string  `json:"stock_unit"`
	Stock       *int64  `json:"stock"`
	ImageKey    *string `json:"image_key"`
}

// updateProductBody — частичное обновление. RawMessage отличает
// отсутствующее поле от явного null.
type updateProductBody struct {
	Name      *string `json:"name"`
	Price     *string `json:"price"`
	StockUnit *string `json:"stock_unit"`
	IsActive  *bool   `json:"is_active"`

	Description json.RawMessage `json:"description"`
	Size        json.RawMessage `json:"size"`
	Stock       json.RawMessage `json:"stock"`
	ImageKey    json.RawMessage `json:"image_key"`
}

// listActive
//
//	@Summary		Публичный каталог
//	@Description	Возвращает активные товары витрины
//	@Tags			products
//	@Produce		json
//	@Success		200	{array}		productResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/products [get]
func (p *ProductHandler) listActive(w http.ResponseWriter, r *http.Request) {
	products, err := p.productUsecase.ListActive(r.Context())
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponses(products))
}

// getProduct
//
//	@Summary	Карточка товара
//	@Tags		products
//	@Produce	json
//	@Param		id	path		int	true	"ID товара"
//	@Success	200	{object}	productResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.Get(r.Context(), id)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// listAll
//
//	@Summary	Все товары, включая скрытые
//	@Tags		admin-products
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}		productResponse
//	@Failure	403	{object}	ErrorResponse
//	@Router		/admin/products [get]
func (p *ProductHandler) listAll(w http.ResponseWriter, r *http.Request) {
	products, err := p.productUsecase.ListAll(r.Context(), AuthFromCtx(r.Context()))
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponses(products))
}

// createProduct
//
//	@Summary		Создание товара
//	@Description	Цена передаётся строкой в основных единицах, "29.99"
//	@Tags			admin-products
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		createProductBody	true	"Товар"
//	@Success		201		{object}	productResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/admin/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var body createProductBody
	if err := decodeJSON(r, &body); err != nil {
		WriteError(w, err)
		return
	}

	price, err := parsePriceToCents(body.Price)
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.Create(r.Context(), AuthFromCtx(r.Context()), &usecase.CreateProductReq{
		Name:        body.Name,
		Description: body.Description,
		Price:       price,
		Size:        body.Size,
		StockUnit:   body.StockUnit,
		Stock:       body.Stock,
		ImageKey:    body.ImageKey,
	})
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toProductResponse(product))
}

// updateProduct
//
//	@Summary		Частичное обновление товара
//	@Description	Отсутствующее поле не меняется, явный null очищает значение
//	@Tags			admin-products
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int					true	"ID товара"
//	@Param			body	body		updateProductBody	true	"Изменяемые поля"
//	@Success		200		{object}	productResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/admin/products/{id} [patch]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var body updateProductBody
	if err := decodeJSON(r, &body); err != nil {
		WriteError(w, err)
		return
	}

	req := &usecase.UpdateProductReq{
		ProductID: id,
		Name:      body.Name,
		StockUnit: body.StockUnit,
		IsActive:  body.IsActive,
	}

	if body.Price != nil {
		price, err := parsePriceToCents(*body.Price)
		if err != nil {
			WriteError(w, err)
			return
		}
		req.Price = &price
	}

	if err := applyOptionalString(body.Description, &req.DescriptionSet, &req.Description); err != nil {
		WriteError(w, err)
		return
	}
	if err := applyOptionalString(body.Size, &req.SizeSet, &req.Size); err != nil {
		WriteError(w, err)
		return
	}
	if err := applyOptionalString(body.ImageKey, &req.ImageSet, &req.ImageKey); err != nil {
		WriteError(w, err)
		return
	}
	if err := applyOptionalInt(body.Stock, &req.StockSet, &req.Stock); err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.Update(r.Context(), AuthFromCtx(r.Context()), req)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// archiveProduct
//
//	@Summary	Скрытие товара с витрины
//	@Tags		admin-products
//	@Security	BearerAuth
//	@Param		id	path	int	true	"ID товара"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Router		/admin/products/{id}/archive [post]
func (p *ProductHandler) archiveProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := p.productUsecase.Archive(r.Context(), AuthFromCtx(r.Context()), id); err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// deleteProduct
//
//	@Summary	Безвозвратное удаление товара
//	@Tags		admin-products
//	@Security	BearerAuth
//	@Param		id	path	int	true	"ID товара"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Router		/admin/products/{id} [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := p.productUsecase.Delete(r.Context(), AuthFromCtx(r.Context()), id); err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type setStockBody struct {
	Stock *int64 `json:"stock"`
}

// setStock
//
//	@Summary		Прямое выставление остатка
//	@Description	null выключает учёт остатка для товара
//	@Tags			admin-products
//	@Security		BearerAuth
//	@Accept			json
//	@Param			id		path	int				true	"ID товара"
//	@Param			body	body	setStockBody	true	"Новый остаток"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Router			/admin/products/{id}/stock [put]
func (p *ProductHandler) setStock(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var body setStockBody
	if err := decodeJSON(r, &body); err != nil {
		WriteError(w, err)
		return
	}

	if err := p.productUsecase.SetStock(r.Context(), AuthFromCtx(r.Context()), id, body.Stock); err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type nameCheckResponse struct {
	Available bool `json:"available"`
}

// checkName
//
//	@Summary	Доступность имени товара
//	@Tags		admin-products
//	@Security	BearerAuth
//	@Produce	json
//	@Param		name		query		string	true	"Проверяемое имя"
//	@Param		exclude_id	query		int		false	"Исключаемый товар (редактирование)"
//	@Success	200			{object}	nameCheckResponse
//	@Router		/admin/products/name-check [get]
func (p *ProductHandler) checkName(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")

	var excludeID int64
	if raw := r.URL.Query().Get("exclude_id"); raw != "" {
		parsed, err := parseQueryID(raw)
		if err != nil {
			WriteError(w, err)
			return
		}
		excludeID = parsed
	}

	available, err := p.productUsecase.CheckName(r.Context(), name, excludeID)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, nameCheckResponse{Available: available})
}

type stockStatsResponse struct {
	TotalProducts   int64 `json:"total_products"`
	TrackedProducts int64 `json:"tracked_products"`
	TotalUnits      int64 `json:"total_units"`
	OutOfStock      int64 `json:"out_of_stock"`
	LowStock        int64 `json:"low_stock"`
}

// stockStats
//
//	@Summary	Сводка по остаткам
//	@Tags		admin-products
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	stockStatsResponse
//	@Router		/admin/products/stats [get]
func (p *ProductHandler) stockStats(w http.ResponseWriter, r *http.Request) {
	stats, err := p.productUsecase.StockStats(r.Context(), AuthFromCtx(r.Context()))
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, stockStatsResponse{
		TotalProducts:   stats.TotalProducts,
		TrackedProducts: stats.TrackedProducts,
		TotalUnits:      stats.TotalUnits,
		OutOfStock:      stats.OutOfStock,
		LowStock:        stats.LowStock,
	})
}

type uploadTicketResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// generateUploadURL
//
//	@Summary		Ссылка для загрузки изображения
//	@Description	Браузер загружает файл напрямую в хранилище по presigned PUT
//	@Tags			admin-products
//	@Security		BearerAuth
//	@Produce		json
//	@Success		201	{object}	uploadTicketResponse
//	@Router			/admin/products/uploads [post]
func (p *ProductHandler) generateUploadURL(w http.ResponseWriter, r *http.Request) {
	ticket, err := p.productUsecase.GenerateUploadURL(r.Context(), AuthFromCtx(r.Context()))
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, uploadTicketResponse{Key: ticket.Key, URL: ticket.URL})
}

type backfillStockBody struct {
	DefaultStock *int64 `json:"default_stock"`
}

type backfillStockResponse struct {
	TotalProducts int64 `json:"total_products"`
	UpdatedCount  int64 `json:"updated_count"`
}

// backfillStock
//
//	@Summary		Бэкфилл остатков
//	@Description	Присваивает явный остаток всем товарам без учёта
//	@Tags			admin-products
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		backfillStockBody	false	"Начальный остаток"
//	@Success		200		{object}	backfillStockResponse
//	@Router			/admin/products/stock-backfill [post]
func (p *ProductHandler) backfillStock(w http.ResponseWriter, r *http.Request) {
	defaultStock := int64(defaultBackfillStock)

	var body backfillStockBody
	if r.Body != nil && r.ContentLength != 0 {
		if err := decodeJSON(r, &body); err != nil {
			WriteError(w, err)
			return
		}
		if body.DefaultStock != nil {
			defaultStock = *body.DefaultStock
		}
	}

	res, err := p.productUsecase.BackfillStock(r.Context(), AuthFromCtx(r.Context()), defaultStock)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, backfillStockResponse{
		TotalProducts: res.TotalProducts,
		UpdatedCount:  res.UpdatedCount,
	})
}

// applyOptionalString раскладывает tri-state JSON-поле: отсутствие — не
// трогать, null — очистить, строка — записать.
func applyOptionalString(raw json.RawMessage, set *bool, value **string) error {
	if raw == nil {
		return nil
	}

	*set = true
	if string(raw) == "null" {
		*value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}
	*value = &s

	return nil
}

func applyOptionalInt(raw json.RawMessage, set *bool, value **int64) error {
	if raw == nil {
		return nil
	}

	*set = true
	if string(raw) == "null" {
		*value = nil
		return nil
	}

	var n int64
	if err := json.Unmarshal(raw, &n); err != nil {
		return e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}
	*value = &n

	return nil
}

package usecase

// PRODUCT USECASE

// CreateProductReq — запрос на создание товара.
type CreateProductReq struct {
	Name        string
	Description *string
	Price       int64
	Size        *string
	StockUnit   string
	Stock       *int64 // nil — остаток не отслеживается
	ImageKey    *string
}

// UpdateProductReq — частичное обновление товара. Для nullable-полей
// флаг *Set отличает "не трогать" от "записать значение/null".
type UpdateProductReq struct {
	ProductID int64

	Name      *string
	Price     *int64
	StockUnit *string
	IsActive  *bool

	DescriptionSet bool
	Description    *string

	SizeSet bool
	Size    *string

	StockSet bool
	Stock    *int64

	ImageSet bool
	ImageKey *string
}

// StockStats — сводка по остаткам для админ-панели.
type StockStats struct {
	TotalProducts   int64
	TrackedProducts int64
	TotalUnits      int64
	OutOfStock      int64
	LowStock        int64 // Остаток от 1 до 5 включительно
}

// UploadTicket — presigned-URL для загрузки изображения товара.
type UploadTicket struct {
	Key string
	URL string
}

// BackfillStockRes — результат бэкфилла остатков.
type BackfillStockRes struct {
	TotalProducts int64
	UpdatedCount  int64
}

// ORDER USECASE

// CreateOrderReq — публичный запрос на оформление заказа.
type CreateOrderReq struct {
	ProductID int64
	Quantity  int64
	UserName  *string
	UserEmail *string
}

// CreateOrderRes — подтверждение заказа со снимком товара.
type CreateOrderRes struct {
	OrderID      int64
	Reference    string
	ProductName  string
	ProductPrice int64
	Quantity     int64
}

// UpdateOrderStatusReq — админский перевод заказа в новый статус.
type UpdateOrderStatusReq struct {
	OrderID int64
	Status  string
	Notes   *string
}

// OrderStats — счётчики по статусам и выручка без отменённых заказов.
type OrderStats struct {
	Total        int64
	Pending      int64
	Confirmed    int64
	Shipped      int64
	Delivered    int64
	Cancelled    int64
	TotalRevenue int64
}

// LEAD USECASE

// CreateLeadReq — публичный запрос "заказать через WhatsApp".
type CreateLeadReq struct {
	ProductID int64
	UserName  *string
	UserEmail *string
}

// CreateLeadRes — номер обращения и ссылка для перехода в WhatsApp.
type CreateLeadRes struct {
	LeadID      int64
	Reference   string
	WhatsAppURL string
}

// UpdateLeadStatusReq — админский перевод лида в новый статус.
type UpdateLeadStatusReq struct {
	LeadID int64
	Status string
	Notes  *string
}

// LeadStats — счётчики лидов по статусам.
type LeadStats struct {
	Total     int64
	Pending   int64
	Contacted int64
	Converted int64
	Lost      int64
}

// USER USECASE

// SyncUserReq — upsert пользователя из вебхука провайдера идентификации.
type SyncUserReq struct {
	ExternalID string
	Email      string
	Name       *string
	ImageURL   *string
	Role       *string
}

// INFRASTRUCTURE

type WriteRawMessageReq struct {
	ProductID int64
	Payload   []byte
}

// MAPPERS

func NewCreateOrderRes(orderID int64, reference, productName string, productPrice, quantity int64) *CreateOrderRes {
	return &CreateOrderRes{
		OrderID:      orderID,
		Reference:    reference,
		ProductName:  productName,
		ProductPrice: productPrice,
		Quantity:     quantity,
	}
}

func NewCreateLeadRes(leadID int64, reference, whatsappURL string) *CreateLeadRes {
	return &CreateLeadRes{
		LeadID:      leadID,
		Reference:   reference,
		WhatsAppURL: whatsappURL,
	}
}

func NewUploadTicket(key, url string) *UploadTicket {
	return &UploadTicket{Key: key, URL: url}
}

func NewWriteRawMessageReq(productID int64, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		ProductID: productID,
		Payload:   payload,
	}
}

package usecase

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
	Failed     OutboxStatus = "failed"
)

type OutboxEventType string

const (
	OrderCreated       OutboxEventType = "order.created"
	OrderStatusChanged OutboxEventType = "order.status_changed"
	LeadCreated        OutboxEventType = "lead.created"
	LeadStatusChanged  OutboxEventType = "lead.status_changed"
)

// OutboxEvent — запись транзакционного outbox. Вставляется в той же
// транзакции, что и породившая её мутация, и асинхронно выгружается в Kafka.
// ProductID служит ключом партиционирования: события по одному товару
// сохраняют порядок.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	ProductID   int64
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// eventProductID возвращает ключ партиционирования события. Для заказа или
// лида по уже удалённому товару используется 0: реальные ID начинаются с 1.
func eventProductID(id *int64) int64 {
	if id == nil {
		return 0
	}

	return *id
}

func NewOutboxEvent(eventType OutboxEventType, productID int64, payload []byte) *OutboxEvent {
	return &OutboxEvent{
		EventID:   uuid.NewString(),
		EventType: eventType,
		ProductID: productID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: time.Now(),
	}
}

// OrderEventPayload — тело события по заказу.
type OrderEventPayload struct {
	OrderID      int64  `json:"order_id"`
	Reference    string `json:"reference"`
	ProductID    int64  `json:"product_id"`
	Status       string `json:"status"`
	Quantity     int64  `json:"quantity"`
	ProductPrice int64  `json:"product_price"`
	OccurredAt   int64  `json:"occurred_at"` // unix millis
}

// LeadEventPayload — тело события по лиду.
type LeadEventPayload struct {
	LeadID       int64  `json:"lead_id"`
	Reference    string `json:"reference"`
	ProductID    int64  `json:"product_id"`
	Status       string `json:"status"`
	ProductPrice int64  `json:"product_price"`
	OccurredAt   int64  `json:"occurred_at"`
}

func MarshalOrderEvent(orderID int64, reference string, productID int64, status string, quantity, productPrice int64) ([]byte, error) {
	return json.Marshal(OrderEventPayload{
		OrderID:      orderID,
		Reference:    reference,
		ProductID:    productID,
		Status:       status,
		Quantity:     quantity,
		ProductPrice: productPrice,
		OccurredAt:   time.Now().UnixMilli(),
	})
}

func MarshalLeadEvent(leadID int64, reference string, productID int64, status string, productPrice int64) ([]byte, error) {
	return json.Marshal(LeadEventPayload{
		LeadID:       leadID,
		Reference:    reference,
		ProductID:    productID,
		Status:       status,
		ProductPrice: productPrice,
		OccurredAt:   time.Now().UnixMilli(),
	})
}

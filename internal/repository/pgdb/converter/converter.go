package converter

import (
	"github.com/zaytuna-store/go-backend/internal/domain"
	"github.com/zaytuna-store/go-backend/internal/usecase"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
	ToArrEntity(models []*ProductModel) []domain.Product
}

// OrderConverter преобразует сущности Order между domain и моделью PostgreSQL.
type OrderConverter interface {
	ToModel(entity *domain.Order) *OrderModel
	ToEntity(model *OrderModel) *domain.Order
	ToArrEntity(models []*OrderModel) []domain.Order
}

// LeadConverter преобразует сущности Lead между domain и моделью PostgreSQL.
type LeadConverter interface {
	ToModel(entity *domain.Lead) *LeadModel
	ToEntity(model *LeadModel) *domain.Lead
	ToArrEntity(models []*LeadModel) []domain.Lead
}

// UserConverter преобразует сущности User между domain и моделью PostgreSQL.
type UserConverter interface {
	ToModel(entity *domain.User) *UserModel
	ToEntity(model *UserModel) *domain.User
	ToArrEntity(models []*UserModel) []domain.User
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

type productConverter struct{}

func NewProductConverter() ProductConverter {
	return &productConverter{}
}

func (c *productConverter) ToModel(entity *domain.Product) *ProductModel {
	if entity == nil {
		return nil
	}

	return &ProductModel{
		ID:          entity.ID,
		Name:        entity.Name,
		Description: entity.Description,
		Price:       entity.Price,
		Size:        entity.Size,
		StockUnit:   entity.StockUnit,
		Stock:       entity.Stock,
		IsActive:    entity.IsActive,
		ImageKey:    entity.ImageKey,
		ImageURL:    entity.ImageURL,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
	}
}

func (c *productConverter) ToEntity(model *ProductModel) *domain.Product {
	if model == nil {
		return nil
	}

	return &domain.Product{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		Price:       model.Price,
		Size:        model.Size,
		StockUnit:   model.StockUnit,
		Stock:       model.Stock,
		IsActive:    model.IsActive,
		ImageKey:    model.ImageKey,
		ImageURL:    model.ImageURL,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func (c *productConverter) ToArrEntity(models []*ProductModel) []domain.Product {
	result := make([]domain.Product, 0, len(models))
	for _, model := range models {
		result = append(result, *c.ToEntity(model))
	}

	return result
}

type orderConverter struct{}

func NewOrderConverter() OrderConverter {
	return &orderConverter{}
}

func (c *orderConverter) ToModel(entity *domain.Order) *OrderModel {
	if entity == nil {
		return nil
	}

	return &OrderModel{
		ID:           entity.ID,
		ProductID:    entity.ProductID,
		ProductName:  entity.ProductName,
		ProductPrice: entity.ProductPrice,
		Quantity:     entity.Quantity,
		UserName:     entity.UserName,
		UserEmail:    entity.UserEmail,
		Status:       string(entity.Status),
		Reference:    entity.Reference,
		Notes:        entity.Notes,
		CreatedAt:    entity.CreatedAt,
		UpdatedAt:    entity.UpdatedAt,
	}
}

func (c *orderConverter) ToEntity(model *OrderModel) *domain.Order {
	if model == nil {
		return nil
	}

	return &domain.Order{
		ID:           model.ID,
		ProductID:    model.ProductID,
		ProductName:  model.ProductName,
		ProductPrice: model.ProductPrice,
		Quantity:     model.Quantity,
		UserName:     model.UserName,
		UserEmail:    model.UserEmail,
		Status:       domain.OrderStatus(model.Status),
		Reference:    model.Reference,
		Notes:        model.Notes,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

func (c *orderConverter) ToArrEntity(models []*OrderModel) []domain.Order {
	result := make([]domain.Order, 0, len(models))
	for _, model := range models {
		result = append(result, *c.ToEntity(model))
	}

	return result
}

type leadConverter struct{}

func NewLeadConverter() LeadConverter {
	return &leadConverter{}
}

func (c *leadConverter) ToModel(entity *domain.Lead) *LeadModel {
	if entity == nil {
		return nil
	}

	return &LeadModel{
		ID:           entity.ID,
		ProductID:    entity.ProductID,
		ProductName:  entity.ProductName,
		ProductPrice: entity.ProductPrice,
		UserName:     entity.UserName,
		UserEmail:    entity.UserEmail,
		Status:       string(entity.Status),
		Reference:    entity.Reference,
		WhatsAppURL:  entity.WhatsAppURL,
		ClickedAt:    entity.ClickedAt,
		Notes:        entity.Notes,
		CreatedAt:    entity.CreatedAt,
		UpdatedAt:    entity.UpdatedAt,
	}
}

func (c *leadConverter) ToEntity(model *LeadModel) *domain.Lead {
	if model == nil {
		return nil
	}

	return &domain.Lead{
		ID:           model.ID,
		ProductID:    model.ProductID,
		ProductName:  model.ProductName,
		ProductPrice: model.ProductPrice,
		UserName:     model.UserName,
		UserEmail:    model.UserEmail,
		Status:       domain.LeadStatus(model.Status),
		Reference:    model.Reference,
		WhatsAppURL:  model.WhatsAppURL,
		ClickedAt:    model.ClickedAt,
		Notes:        model.Notes,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

func (c *leadConverter) ToArrEntity(models []*LeadModel) []domain.Lead {
	result := make([]domain.Lead, 0, len(models))
	for _, model := range models {
		result = append(result, *c.ToEntity(model))
	}

	return result
}

type userConverter struct{}

func NewUserConverter() UserConverter {
	return &userConverter{}
}

func (c *userConverter) ToModel(entity *domain.User) *UserModel {
	if entity == nil {
		return nil
	}

	return &UserModel{
		ID:         entity.ID,
		ExternalID: entity.ExternalID,
		Email:      entity.Email,
		Name:       entity.Name,
		ImageURL:   entity.ImageURL,
		Phone:      entity.Phone,
		Role:       entity.Role,
		CreatedAt:  entity.CreatedAt,
		UpdatedAt:  entity.UpdatedAt,
	}
}

func (c *userConverter) ToEntity(model *UserModel) *domain.User {
	if model == nil {
		return nil
	}

	return &domain.User{
		ID:         model.ID,
		ExternalID: model.ExternalID,
		Email:      model.Email,
		Name:       model.Name,
		ImageURL:   model.ImageURL,
		Phone:      model.Phone,
		Role:       model.Role,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

func (c *userConverter) ToArrEntity(models []*UserModel) []domain.User {
	result := make([]domain.User, 0, len(models))
	for _, model := range models {
		result = append(result, *c.ToEntity(model))
	}

	return result
}

type outboxEventConverter struct{}

func NewOutboxEventConverter() OutboxEventConverter {
	return &outboxEventConverter{}
}

func (c *outboxEventConverter) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	if entity == nil {
		return nil
	}

	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		ProductID:   entity.ProductID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (c *outboxEventConverter) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	if model == nil {
		return nil
	}

	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   usecase.OutboxEventType(model.EventType),
		ProductID:   model.ProductID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func (c *outboxEventConverter) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	result := make([]*usecase.OutboxEvent, 0, len(models))
	for _, model := range models {
		result = append(result, c.ToEntity(model))
	}

	return result
}

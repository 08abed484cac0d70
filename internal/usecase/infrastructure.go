package usecase

import (
	"context"

	"github.com/zaytuna-store/go-backend/internal/domain"
)

// ImageStorage — объектное хранилище изображений товаров.
type ImageStorage interface {
	GenerateUploadURL(ctx context.Context) (*UploadTicket, error)
	ResolveURL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// LinkBuilder строит deep-link мессенджера для обращения по товару.
type LinkBuilder interface {
	BuildOrderLink(product *domain.Product, reference string, userName, userEmail *string) string
}

// MessageProducer публикует outbox-события во внешний брокер.
type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

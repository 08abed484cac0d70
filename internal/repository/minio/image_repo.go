package minio

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
	"github.com/zaytuna-store/go-backend/internal/cfg"
	"github.com/zaytuna-store/go-backend/internal/usecase"
	"github.com/zaytuna-store/go-backend/pkg/e"
)

// ImageRepo реализует хранилище изображений товаров поверх MinIO.
// Загрузка идёт напрямую из браузера админа по presigned PUT URL,
// бэкенд только выдаёт ключ и ссылку.
type ImageRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewImageRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *ImageRepo {
	return &ImageRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// GenerateUploadURL выдаёт одноразовый ключ и presigned PUT URL для загрузки.
func (i *ImageRepo) GenerateUploadURL(ctx context.Context) (*usecase.UploadTicket, error) {
	key := fmt.Sprintf("products/%s", uuid.NewString())

	uploadURL, err := i.mc.PresignedPutObject(ctx, i.cfg.BucketName, key, i.cfg.UploadURLExpiry)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return usecase.NewUploadTicket(key, uploadURL.String()), nil
}

// ResolveURL возвращает presigned GET URL для отображения изображения по ключу.
func (i *ImageRepo) ResolveURL(ctx context.Context, key string) (string, error) {
	viewURL, err := i.mc.PresignedGetObject(ctx, i.cfg.BucketName, key, i.cfg.ImageURLExpiry, url.Values{})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return viewURL.String(), nil
}

// Delete удаляет объект из MinIO по указанному ключу.
func (i *ImageRepo) Delete(ctx context.Context, key string) error {
	if err := i.mc.RemoveObject(ctx, i.cfg.BucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

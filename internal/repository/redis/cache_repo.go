package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jimlawless/whereami"
	goredis "github.com/redis/go-redis/v9"
	"github.com/zaytuna-store/go-backend/internal/cfg"
	"github.com/zaytuna-store/go-backend/internal/domain"
	"github.com/zaytuna-store/go-backend/internal/repository/redis/converter"
	"github.com/zaytuna-store/go-backend/pkg/clients"
	"github.com/zaytuna-store/go-backend/pkg/e"
	"github.com/zaytuna-store/go-backend/pkg/logger"
)

// catalogKey — единственный ключ кэша: весь публичный каталог одним значением.
const catalogKey = "catalog:active"

type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.ProductConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.ProductConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetCatalog возвращает закэшированный каталог. Промах — (nil, nil),
// вызывающая сторона идёт в БД.
func (r *CacheRepo) GetCatalog(ctx context.Context) ([]domain.Product, error) {
	data, err := r.client.Client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var models []converter.ProductRedisModel
	if err := json.Unmarshal(data, &models); err != nil {
		// Повреждённое значение удаляем, дальше живём как при промахе
		r.logger.Warnf("Redis unmarshal failed, dropping catalog key: %v", e.Wrap(whereami.WhereAmI(), err))
		if delErr := r.client.Client.Del(context.Background(), catalogKey).Err(); delErr != nil {
			r.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), delErr))
		}

		return nil, nil
	}

	return r.conv.ToArrEntity(models), nil
}

// SetCatalog кэширует каталог целиком с TTL из конфигурации.
func (r *CacheRepo) SetCatalog(ctx context.Context, products []domain.Product) error {
	models := r.conv.ToArrRedisModel(products)

	data, err := json.Marshal(models)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := r.client.Client.Set(ctx, catalogKey, data, r.cfg.CatalogTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// InvalidateCatalog сбрасывает кэш каталога после любой мутации товаров или остатков.
func (r *CacheRepo) InvalidateCatalog(ctx context.Context) error {
	if err := r.client.Client.Del(ctx, catalogKey).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/DRSN-tech/visual-search/internal/cfg"
	"github.com/DRSN-tech/visual-search/internal/repository/redis/converter"
	"github.com/DRSN-tech/visual-search/internal/usecase"
	"github.com/DRSN-tech/visual-search/pkg/clients"
	"github.com/DRSN-tech/visual-search/pkg/e"
	"github.com/DRSN-tech/visual-search/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// productListKey — ключ полного списка товаров.
const productListKey = "products:all"

// CacheRepo кэширует список товаров в Redis.
// Промах кэша — не ошибка; ошибки записи логируются и глотаются.
type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.ProductInfoConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.ProductInfoConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetProductList возвращает закэшированный список товаров.
// Промах кэша возвращает (nil, nil).
func (c *CacheRepo) GetProductList(ctx context.Context) ([]usecase.ProductInfo, error) {
	data, err := c.client.Client.Get(ctx, productListKey).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, nil // cache miss
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var models []converter.ProductInfoRedisModel
	if err := json.Unmarshal(data, &models); err != nil {
		c.logger.Warnf("Redis unmarshal failed, dropping key %s: %v", productListKey, e.Wrap(whereami.WhereAmI(), err))
		if err := c.client.Client.Del(context.Background(), productListKey).Err(); err != nil {
			c.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
		return nil, nil // считаем промахом
	}

	return c.conv.ToArrUseCase(models), nil
}

// SetProductList кэширует список товаров с TTL из конфигурации.
func (c *CacheRepo) SetProductList(ctx context.Context, products []usecase.ProductInfo) error {
	models := c.conv.ToArrRedisModel(products)

	data, err := json.Marshal(models)
	if err != nil {
		c.logger.Warnf("Failed to marshal product list for caching: %v", e.Wrap(whereami.WhereAmI(), err))
		return nil
	}

	if err := c.client.Client.Set(ctx, productListKey, data, c.cfg.ProductTTL).Err(); err != nil {
		c.logger.Warnf("Redis SET failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}

	return nil
}

// Invalidate сбрасывает кэш списка товаров.
func (c *CacheRepo) Invalidate(ctx context.Context) error {
	if err := c.client.Client.Del(ctx, productListKey).Err(); err != nil {
		c.logger.Warnf("Redis DEL failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}

	return nil
}

// Package imagecache достаёт изображения товаров, не скачивая одно и то же дважды:
// ключ объекта — детерминированный хэш URL источника.
package imagecache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"

	"github.com/DRSN-tech/visual-search/pkg/e"
	"github.com/DRSN-tech/visual-search/pkg/logger"
	"github.com/jimlawless/whereami"
)

// maxDownloadSize ограничивает размер скачиваемого изображения.
const maxDownloadSize = 20 << 20

// CacheRepository — хранилище закэшированных изображений (MinIO).
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

type ImageCache struct {
	repo       CacheRepository
	httpClient *http.Client
	logger     logger.Logger
}

func NewImageCache(repo CacheRepository, httpClient *http.Client, logger logger.Logger) *ImageCache {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &ImageCache{
		repo:       repo,
		httpClient: httpClient,
		logger:     logger,
	}
}

// FetchImage возвращает байты изображения по URL: сначала кэш,
// при промахе — скачивание с последующей записью в кэш.
// Ошибка записи в кэш не мешает вернуть скачанные байты.
func (c *ImageCache) FetchImage(ctx context.Context, url string) ([]byte, error) {
	const op = "ImageCache.FetchImage"

	key := CacheKey(url)

	data, err := c.repo.Get(ctx, key)
	if err != nil {
		c.logger.Warnf("image cache read failed for %s: %v", url, err)
	}
	if data != nil {
		return data, nil
	}

	data, contentType, err := c.download(ctx, url)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := c.repo.Put(ctx, key, data, contentType); err != nil {
		c.logger.Warnf("image cache write failed for %s: %v", url, err)
	}

	return data, nil
}

func (c *ImageCache) download(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", e.Wrap(whereami.WhereAmI(), err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", e.Wrap(whereami.WhereAmI(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("image download %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize))
	if err != nil {
		return nil, "", e.Wrap(whereami.WhereAmI(), err)
	}
	if len(data) == 0 {
		return nil, "", e.ErrNoImage
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data[:min(len(data), 512)])
	}

	return data, contentType, nil
}

// CacheKey — детерминированный ключ объекта для URL изображения.
// Расширение фиксированное: ключ — только адрес в кэше,
// реальный формат хранится в Content-Type объекта.
func CacheKey(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:]) + ".jpg"
}

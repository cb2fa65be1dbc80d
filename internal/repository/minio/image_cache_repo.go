package minio

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/DRSN-tech/visual-search/internal/cfg"
	"github.com/DRSN-tech/visual-search/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// ImageCacheRepo — content-addressed хранилище изображений поверх MinIO.
// Объекты write-once, без TTL.
type ImageCacheRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewImageCacheRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *ImageCacheRepo {
	return &ImageCacheRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// Get возвращает байты закэшированного изображения.
// Промах кэша возвращает (nil, nil).
func (i *ImageCacheRepo) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := i.mc.GetObject(ctx, i.cfg.BucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		var minioErr minio.ErrorResponse
		if errors.As(err, &minioErr) && minioErr.Code == "NoSuchKey" {
			return nil, nil // cache miss
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return data, nil
}

// Put записывает изображение в кэш.
func (i *ImageCacheRepo) Put(ctx context.Context, key string, data []byte, contentType string) error {
	reader := bytes.NewReader(data)

	_, err := i.mc.PutObject(ctx, i.cfg.BucketName, key, reader, int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

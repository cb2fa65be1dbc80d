package usecase

import (
	"context"
	"image"

	"github.com/DRSN-tech/visual-search/internal/domain"
)

// EmbedderInfra — контракт ML-сервиса эмбеддингов.
// Оба метода при сбое возвращают ошибку, никогда — нулевой вектор.
type EmbedderInfra interface {
	VisualEmbed(ctx context.Context, image []byte) ([]float32, error)
	CrossModalEmbed(ctx context.Context, image []byte, texts []string) (*domain.CrossModalEmbedding, error)
}

// ImageFetcher отдаёт байты изображения по URL, используя content-addressed кэш.
type ImageFetcher interface {
	FetchImage(ctx context.Context, url string) ([]byte, error)
}

// CatalogSource — источник сырого каталога (products.json).
type CatalogSource interface {
	Load(ctx context.Context) ([]domain.Product, error)
}

type CategoryClassifier interface {
	Classify(ctx context.Context, image []byte) (domain.CategoryPrediction, error)
}

type ColorClassifier interface {
	Classify(img *image.RGBA) (string, error)
}

type EventProducer interface {
	ProductEnriched(ctx context.Context, event *ProductEnrichedEvent) error
}

// TxManager выполняет fn внутри транзакции Persistent Store.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

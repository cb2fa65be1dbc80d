package usecase

import (
	"context"

	"github.com/DRSN-tech/visual-search/internal/domain"
)

type ProductRepository interface {
	// UpsertCatalog идемпотентно заводит товары каталога; существующие записи не трогаются.
	UpsertCatalog(ctx context.Context, products []domain.Product) error
	List(ctx context.Context) ([]ProductInfo, error)
	SearchByName(ctx context.Context, query string) ([]ProductInfo, error)
	GetByIDs(ctx context.Context, ids []int64) ([]ProductInfo, error)
	// UpdateAttributes выставляет категорию и цвет; выполняется внутри транзакции.
	UpdateAttributes(ctx context.Context, id int64, category, color string) error
}

type FeatureRepository interface {
	// Save сохраняет вектор товара; выполняется внутри транзакции.
	Save(ctx context.Context, embedding *domain.Embedding) error
	// LoadAll возвращает все векторы в стабильном порядке возрастания id.
	LoadAll(ctx context.Context) ([]domain.Embedding, error)
	// LoadIDs возвращает множество товаров с уже вычисленными векторами.
	LoadIDs(ctx context.Context) (map[int64]struct{}, error)
}

// VectorIndex — вторичный ANN-индекс эмбеддингов (Qdrant).
type VectorIndex interface {
	Upsert(ctx context.Context, embedding *domain.Embedding) error
	Query(ctx context.Context, vector []float32, threshold float64, limit uint64) ([]ScoredID, error)
}

type CacheRepository interface {
	// GetProductList возвращает (nil, nil) при промахе кэша.
	GetProductList(ctx context.Context) ([]ProductInfo, error)
	SetProductList(ctx context.Context, products []ProductInfo) error
	Invalidate(ctx context.Context) error
}

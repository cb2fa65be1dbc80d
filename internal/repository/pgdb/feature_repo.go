package pgdb

import (
	"context"

	"github.com/DRSN-tech/visual-search/internal/domain"
	"github.com/DRSN-tech/visual-search/pkg/e"
	"github.com/DRSN-tech/visual-search/pkg/tr"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// FeatureRepo хранит визуальные эмбеддинги товаров в PostgreSQL
// (таблица product_features, вектор — сырые байты float32 LE).
type FeatureRepo struct {
	pool *pgxpool.Pool
}

func NewFeatureRepo(pool *pgxpool.Pool) *FeatureRepo {
	return &FeatureRepo{pool: pool}
}

// Save записывает вектор товара. Выполняется в транзакции синхронизатора
// вместе с обновлением атрибутов: наличие вектора — маркер завершённости.
func (f *FeatureRepo) Save(ctx context.Context, embedding *domain.Embedding) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if len(embedding.Vector) == 0 {
		return e.ErrEmptyVector
	}

	query := `
		INSERT INTO product_features (product_id, features)
		VALUES ($1, $2)
		ON CONFLICT (product_id) DO UPDATE SET features = EXCLUDED.features;
	`

	if _, err := tx.Exec(ctx, query, embedding.ProductID, EncodeVector(embedding.Vector)); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// LoadAll возвращает все эмбеддинги в стабильном порядке возрастания id.
func (f *FeatureRepo) LoadAll(ctx context.Context) ([]domain.Embedding, error) {
	query := `
		SELECT product_id, features
		FROM product_features
		ORDER BY product_id;
	`

	rows, err := f.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Embedding, 0)
	for rows.Next() {
		var (
			productID int64
			raw       []byte
		)
		if err := rows.Scan(&productID, &raw); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		vector, err := DecodeVector(raw)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, *domain.NewEmbedding(productID, vector))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

// LoadIDs возвращает множество товаров, у которых уже есть вектор.
func (f *FeatureRepo) LoadIDs(ctx context.Context) (map[int64]struct{}, error) {
	query := `SELECT product_id FROM product_features;`

	rows, err := f.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make(map[int64]struct{})
	for rows.Next() {
		var productID int64
		if err := rows.Scan(&productID); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result[productID] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

package qdrant

import (
	"context"

	"github.com/DRSN-tech/visual-search/internal/cfg"
	"github.com/DRSN-tech/visual-search/internal/domain"
	"github.com/DRSN-tech/visual-search/internal/usecase"
	"github.com/DRSN-tech/visual-search/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/qdrant/go-client/qdrant"
)

// defaultQueryLimit используется, когда вызывающий не ограничил выдачу.
const defaultQueryLimit = 1000

// EmbeddingIndex — вторичный ANN-индекс эмбеддингов в Qdrant.
// Точки ключуются числовым id товара, поэтому повторный upsert
// при перезапуске синхронизатора идемпотентен.
type EmbeddingIndex struct {
	client *qdrant.Client
	cfg    *cfg.QdrantCfg
}

func NewEmbeddingIndex(client *qdrant.Client, cfg *cfg.QdrantCfg) *EmbeddingIndex {
	return &EmbeddingIndex{
		client: client,
		cfg:    cfg,
	}
}

// Upsert сохраняет или обновляет вектор товара в коллекции Qdrant.
func (q *EmbeddingIndex) Upsert(ctx context.Context, embedding *domain.Embedding) error {
	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.cfg.QdrantCollectionName,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewIDNum(uint64(embedding.ProductID)),
				Vectors: qdrant.NewVectors(embedding.Vector...),
				Payload: qdrant.NewValueMap(map[string]any{
					"product_id": embedding.ProductID,
				}),
			},
		},
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Query возвращает id товаров с косинусной близостью не ниже порога,
// по убыванию похожести (коллекция создаётся с Distance_Cosine).
func (q *EmbeddingIndex) Query(ctx context.Context, vector []float32, threshold float64, limit uint64) ([]usecase.ScoredID, error) {
	if limit == 0 {
		limit = defaultQueryLimit
	}
	scoreThreshold := float32(threshold)

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.cfg.QdrantCollectionName,
		Query:          qdrant.NewQuery(vector...),
		ScoreThreshold: &scoreThreshold,
		Limit:          &limit,
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	result := make([]usecase.ScoredID, 0, len(points))
	for _, p := range points {
		result = append(result, usecase.ScoredID{
			ProductID:  int64(p.GetId().GetNum()),
			Similarity: float64(p.GetScore()),
		})
	}

	return result, nil
}

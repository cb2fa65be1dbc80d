package usecase

import (
	"math"
	"sort"

	"github.com/DRSN-tech/visual-search/internal/domain"
	"github.com/DRSN-tech/visual-search/pkg/e"
)

// Cosine — косинусная близость двух векторов, в диапазоне [-1, 1].
// Разная размерность — повреждение хранилища, а не нулевая похожесть.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, e.ErrVectorDimMismatch
	}
	if len(a) == 0 {
		return 0, e.ErrEmptyVector
	}

	var dot, normA, normB float64
	for i := range a {
		af, bf := float64(a[i]), float64(b[i])
		dot += af * bf
		normA += af * af
		normB += bf * bf
	}

	if normA == 0 || normB == 0 {
		return 0, e.ErrEmptyVector
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// rankBySimilarity сравнивает запрос со всеми сохранёнными векторами и
// возвращает товары с похожестью не ниже порога, по убыванию похожести.
// Сортировка стабильная: при равной похожести сохраняется порядок хранилища.
func rankBySimilarity(query []float32, embeddings []domain.Embedding, threshold float64) ([]ScoredID, error) {
	matches := make([]ScoredID, 0, len(embeddings))
	for _, emb := range embeddings {
		sim, err := Cosine(query, emb.Vector)
		if err != nil {
			return nil, e.Wrap("rank", err)
		}

		if sim >= threshold {
			matches = append(matches, ScoredID{ProductID: emb.ProductID, Similarity: sim})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	return matches, nil
}

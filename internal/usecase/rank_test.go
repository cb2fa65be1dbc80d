package usecase

import (
	"testing"

	"github.com/DRSN-tech/visual-search/internal/domain"
	"github.com/DRSN-tech/visual-search/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"scaled", []float32{1, 0}, []float32{5, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Cosine(tt.a, tt.b)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCosine_DimMismatch(t *testing.T) {
	_, err := Cosine([]float32{1, 2}, []float32{1, 2, 3})
	assert.ErrorIs(t, err, e.ErrVectorDimMismatch)
}

func TestCosine_ZeroVector(t *testing.T) {
	_, err := Cosine([]float32{0, 0}, []float32{1, 0})
	assert.ErrorIs(t, err, e.ErrEmptyVector)

	_, err = Cosine(nil, nil)
	assert.ErrorIs(t, err, e.ErrEmptyVector)
}

func TestRankBySimilarity(t *testing.T) {
	embeddings := []domain.Embedding{
		*domain.NewEmbedding(1, []float32{0, 1}),  // ортогонален, отсекается
		*domain.NewEmbedding(2, []float32{1, 0}),  // идентичен
		*domain.NewEmbedding(3, []float32{1, 1}),  // похож
	}

	matches, err := rankBySimilarity([]float32{1, 0}, embeddings, 0.5)
	require.NoError(t, err)

	require.Len(t, matches, 2)
	assert.Equal(t, int64(2), matches[0].ProductID)
	assert.InDelta(t, 1.0, matches[0].Similarity, 1e-9)
	assert.Equal(t, int64(3), matches[1].ProductID)
}

func TestRankBySimilarity_ThresholdInclusive(t *testing.T) {
	embeddings := []domain.Embedding{*domain.NewEmbedding(1, []float32{1, 0})}

	matches, err := rankBySimilarity([]float32{1, 0}, embeddings, 1.0)
	require.NoError(t, err)
	assert.Len(t, matches, 1, "similarity equal to the threshold must pass")
}

func TestRankBySimilarity_StableOnTies(t *testing.T) {
	embeddings := []domain.Embedding{
		*domain.NewEmbedding(7, []float32{2, 0}),
		*domain.NewEmbedding(3, []float32{1, 0}),
		*domain.NewEmbedding(5, []float32{3, 0}),
	}

	matches, err := rankBySimilarity([]float32{1, 0}, embeddings, 0)
	require.NoError(t, err)

	// все три имеют похожесть 1.0 — порядок хранилища сохраняется
	require.Len(t, matches, 3)
	assert.Equal(t, int64(7), matches[0].ProductID)
	assert.Equal(t, int64(3), matches[1].ProductID)
	assert.Equal(t, int64(5), matches[2].ProductID)
}

func TestRankBySimilarity_CorruptedStore(t *testing.T) {
	embeddings := []domain.Embedding{*domain.NewEmbedding(1, []float32{1, 0, 0})}

	_, err := rankBySimilarity([]float32{1, 0}, embeddings, 0)
	assert.ErrorIs(t, err, e.ErrVectorDimMismatch)
}

// Package category реализует zero-shot классификацию категории товара:
// изображение сравнивается с текстовыми прототипами категорий
// в кросс-модальном пространстве эмбеддингов.
package category

import (
	"context"
	"fmt"
	"math"

	"github.com/DRSN-tech/visual-search/internal/domain"
	"github.com/DRSN-tech/visual-search/pkg/e"
)

// confidenceThreshold — минимальная вероятность, при которой
// предсказанная категория считается достоверной.
const confidenceThreshold = 0.25

// CrossModalEmbedder — требуемая от ML-сервиса способность.
type CrossModalEmbedder interface {
	CrossModalEmbed(ctx context.Context, image []byte, texts []string) (*domain.CrossModalEmbedding, error)
}

type Classifier struct {
	embedder   CrossModalEmbedder
	prototypes []Prototype
	phrases    []string
}

func NewClassifier(embedder CrossModalEmbedder, prototypes []Prototype) *Classifier {
	return &Classifier{
		embedder:   embedder,
		prototypes: prototypes,
		phrases:    Flatten(prototypes),
	}
}

// Classify предсказывает категорию изображения и уверенность в [0, 1].
// Ошибка возвращается вызывающему; деградация до ("other", 0.0) — его решение.
func (c *Classifier) Classify(ctx context.Context, image []byte) (domain.CategoryPrediction, error) {
	emb, err := c.embedder.CrossModalEmbed(ctx, image, c.phrases)
	if err != nil {
		return domain.CategoryPrediction{}, e.Wrap("category classify", err)
	}

	if len(emb.TextVectors) != len(c.phrases) {
		return domain.CategoryPrediction{}, e.Wrap(
			fmt.Sprintf("expected %d text vectors, got %d", len(c.phrases), len(emb.TextVectors)),
			e.ErrVectorDimMismatch,
		)
	}

	imageVec, err := l2Normalize(emb.ImageVector)
	if err != nil {
		return domain.CategoryPrediction{}, err
	}

	scale := float64(emb.LogitScale)
	scores := make([]float64, len(emb.TextVectors))
	for j, tv := range emb.TextVectors {
		textVec, err := l2Normalize(tv)
		if err != nil {
			return domain.CategoryPrediction{}, err
		}

		dot, err := dotProduct(imageVec, textVec)
		if err != nil {
			return domain.CategoryPrediction{}, err
		}
		scores[j] = scale * dot
	}

	// softmax по всем дескрипторам сразу, не внутри категорий
	probs := softmax(scores)

	// балл категории — максимум по её дескрипторам:
	// одного сильного совпадения достаточно
	best := domain.NewCategoryPrediction(domain.FallbackLabel, 0)
	idx := 0
	for _, proto := range c.prototypes {
		catScore := 0.0
		for range proto.Phrases {
			if probs[idx] > catScore {
				catScore = probs[idx]
			}
			idx++
		}

		if catScore > best.Confidence {
			best = domain.NewCategoryPrediction(proto.Name, catScore)
		}
	}

	if best.Confidence < confidenceThreshold {
		return domain.NewCategoryPrediction(domain.FallbackLabel, best.Confidence), nil
	}

	return best, nil
}

func l2Normalize(v []float32) ([]float64, error) {
	if len(v) == 0 {
		return nil, e.ErrEmptyVector
	}

	var norm float64
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
		norm += out[i] * out[i]
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return nil, e.ErrEmptyVector
	}

	for i := range out {
		out[i] /= norm
	}
	return out, nil
}

func dotProduct(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, e.ErrVectorDimMismatch
	}

	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum, nil
}

// softmax — численно устойчивый softmax (со сдвигом на максимум).
func softmax(scores []float64) []float64 {
	maxScore := math.Inf(-1)
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}

	out := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		out[i] = math.Exp(s - maxScore)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

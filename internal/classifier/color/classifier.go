// Package color определяет доминирующий цвет товара по изображению:
// пиксели кластеризуются в HSV, центроиды кластеров сопоставляются
// с упорядоченным списком именованных диапазонов.
package color

import (
	"image"
	"sort"

	"github.com/DRSN-tech/visual-search/internal/domain"
	"github.com/DRSN-tech/visual-search/internal/imaging"
	"github.com/DRSN-tech/visual-search/pkg/e"
)

const (
	maxSide    = 100
	clustersK  = 3
	batchSize  = 100
	maxIter    = 10
	randomSeed = 42

	dominantThreshold  = 0.4
	ambiguousTop       = 0.3
	ambiguousSecond    = 0.2
	grayscaleSatBound  = 30
	grayscaleLowValue  = 30
	grayscaleHighValue = 240
)

type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify возвращает метку доминирующего цвета изображения.
// Ошибка возвращается вызывающему; решение деградировать
// до domain.FallbackLabel принимает он.
func (c *Classifier) Classify(img *image.RGBA) (string, error) {
	if img == nil {
		return "", e.ErrUndecodableImage
	}

	small := imaging.Downscale(img, maxSide)
	pixels := imaging.Pixels(small)
	if len(pixels) == 0 {
		return "", e.ErrUndecodableImage
	}

	clusters := miniBatchKMeans(pixels, clustersK, batchSize, maxIter, randomSeed)

	buckets := accumulate(clusters)
	return decide(buckets), nil
}

// bucket — накопленный вес одного именованного цвета.
// Цвет может собрать вес с нескольких кластеров.
type bucket struct {
	Name   string
	Weight float64
}

func accumulate(clusters []cluster) []bucket {
	index := make(map[string]int)
	buckets := make([]bucket, 0, len(clusters))

	add := func(name string, w float64) {
		if i, ok := index[name]; ok {
			buckets[i].Weight += w
			return
		}
		index[name] = len(buckets)
		buckets = append(buckets, bucket{Name: name, Weight: w})
	}

	for _, cl := range clusters {
		p := cl.Centroid

		// быстрый путь для ахроматических кластеров
		if p.S < grayscaleSatBound || p.V < grayscaleLowValue || p.V > grayscaleHighValue {
			switch {
			case p.V > 200:
				add("white", cl.Weight)
			case p.V < 50:
				add("black", cl.Weight)
			default:
				add("gray", cl.Weight)
			}
			continue
		}

		for _, rule := range Rules {
			if rule.Match(p) {
				add(rule.Name, cl.Weight)
				break
			}
		}
	}

	return buckets
}

func decide(buckets []bucket) string {
	if len(buckets) == 0 {
		return domain.FallbackLabel
	}

	// стабильная сортировка: при равных весах сохраняется порядок накопления
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Weight > buckets[j].Weight
	})

	switch {
	case buckets[0].Weight > dominantThreshold:
		return buckets[0].Name
	case len(buckets) >= 2 && buckets[0].Weight > ambiguousTop && buckets[1].Weight > ambiguousSecond:
		// два сопоставимых цвета — вещь многоцветная
		return domain.FallbackLabel
	default:
		// ни один порог не взят — отдаем лучший из найденных
		return buckets[0].Name
	}
}

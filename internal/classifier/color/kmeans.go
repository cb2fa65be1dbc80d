package color

import (
	"math/rand"

	"github.com/DRSN-tech/visual-search/internal/imaging"
)

// cluster — центроид в HSV и доля пикселей, отнесённых к нему.
type cluster struct {
	Centroid imaging.HSV
	Weight   float64
}

// miniBatchKMeans — приближённая кластеризация пикселей: на каждой итерации
// центры сдвигаются по случайному батчу, а не по всей выборке. Точность
// приносится в жертву скорости; число итераций и размер батча ограничены.
// Фиксированный seed даёт детерминированный результат на одинаковом входе.
func miniBatchKMeans(points []imaging.HSV, k, batchSize, maxIter int, seed int64) []cluster {
	if len(points) == 0 {
		return nil
	}
	if k > len(points) {
		k = len(points)
	}

	rng := rand.New(rand.NewSource(seed))

	centers := make([][3]float64, k)
	for i, idx := range rng.Perm(len(points))[:k] {
		centers[i] = toVec(points[idx])
	}

	counts := make([]int, k)
	for iter := 0; iter < maxIter; iter++ {
		n := batchSize
		if n > len(points) {
			n = len(points)
		}

		for j := 0; j < n; j++ {
			p := toVec(points[rng.Intn(len(points))])
			c := nearest(centers, p)

			// скользящее среднее по счётчику назначений в центр
			counts[c]++
			eta := 1.0 / float64(counts[c])
			for d := 0; d < 3; d++ {
				centers[c][d] = (1-eta)*centers[c][d] + eta*p[d]
			}
		}
	}

	// финальное полное назначение для весов кластеров
	assigned := make([]int, k)
	for _, p := range points {
		assigned[nearest(centers, toVec(p))]++
	}

	clusters := make([]cluster, 0, k)
	for i := 0; i < k; i++ {
		clusters = append(clusters, cluster{
			Centroid: imaging.HSV{H: centers[i][0], S: centers[i][1], V: centers[i][2]},
			Weight:   float64(assigned[i]) / float64(len(points)),
		})
	}

	return clusters
}

func toVec(p imaging.HSV) [3]float64 {
	return [3]float64{p.H, p.S, p.V}
}

func nearest(centers [][3]float64, p [3]float64) int {
	best := 0
	bestDist := sqDist(centers[0], p)
	for i := 1; i < len(centers); i++ {
		if d := sqDist(centers[i], p); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

func sqDist(a, b [3]float64) float64 {
	var sum float64
	for d := 0; d < 3; d++ {
		diff := a[d] - b[d]
		sum += diff * diff
	}
	return sum
}

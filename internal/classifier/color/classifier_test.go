package color

import (
	"image"
	stdcolor "image/color"
	"testing"

	"github.com/DRSN-tech/visual-search/internal/domain"
	"github.com/DRSN-tech/visual-search/internal/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidImage(w, h int, c stdcolor.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestClassify_SolidRed(t *testing.T) {
	// V=200, чтобы не попасть в ахроматический шорткат по V > 240
	img := solidImage(50, 50, stdcolor.RGBA{R: 200, A: 255})

	got, err := NewClassifier().Classify(img)
	require.NoError(t, err)
	assert.Equal(t, "red", got)
}

func TestClassify_SolidBlue(t *testing.T) {
	img := solidImage(50, 50, stdcolor.RGBA{B: 200, A: 255})

	got, err := NewClassifier().Classify(img)
	require.NoError(t, err)
	assert.Equal(t, "blue", got)
}

func TestClassify_Gray(t *testing.T) {
	img := solidImage(50, 50, stdcolor.RGBA{R: 128, G: 128, B: 128, A: 255})

	got, err := NewClassifier().Classify(img)
	require.NoError(t, err)
	assert.Equal(t, "gray", got)
}

func TestClassify_White(t *testing.T) {
	img := solidImage(50, 50, stdcolor.RGBA{R: 250, G: 250, B: 250, A: 255})

	got, err := NewClassifier().Classify(img)
	require.NoError(t, err)
	assert.Equal(t, "white", got)
}

func TestClassify_Black(t *testing.T) {
	img := solidImage(50, 50, stdcolor.RGBA{R: 10, G: 10, B: 10, A: 255})

	got, err := NewClassifier().Classify(img)
	require.NoError(t, err)
	assert.Equal(t, "black", got)
}

func TestClassify_NilImage(t *testing.T) {
	_, err := NewClassifier().Classify(nil)
	assert.Error(t, err)
}

func TestClassify_Deterministic(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 60, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 60; x++ {
			// градиент, чтобы кластеризация не была тривиальной
			img.SetRGBA(x, y, stdcolor.RGBA{R: uint8(100 + x), G: uint8(y), B: 50, A: 255})
		}
	}

	clf := NewClassifier()
	first, err := clf.Classify(img)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		got, err := clf.Classify(img)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name    string
		buckets []bucket
		want    string
	}{
		{
			name:    "dominant color wins",
			buckets: []bucket{{Name: "red", Weight: 0.7}, {Name: "blue", Weight: 0.3}},
			want:    "red",
		},
		{
			name:    "two comparable colors mean multicolored item",
			buckets: []bucket{{Name: "red", Weight: 0.35}, {Name: "blue", Weight: 0.30}},
			want:    domain.FallbackLabel,
		},
		{
			name:    "weak leader without runner-up is returned",
			buckets: []bucket{{Name: "green", Weight: 0.25}, {Name: "blue", Weight: 0.1}},
			want:    "green",
		},
		{
			name:    "no buckets",
			buckets: nil,
			want:    domain.FallbackLabel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decide(tt.buckets))
		})
	}
}

func TestAccumulate_MergesClustersOfSameColor(t *testing.T) {
	clusters := []cluster{
		{Centroid: imaging.HSV{H: 5, S: 200, V: 150}, Weight: 0.3},   // red
		{Centroid: imaging.HSV{H: 170, S: 200, V: 150}, Weight: 0.3}, // глубокий красный
		{Centroid: imaging.HSV{H: 100, S: 200, V: 150}, Weight: 0.4}, // blue
	}

	buckets := accumulate(clusters)
	require.Len(t, buckets, 2)

	weights := make(map[string]float64)
	for _, b := range buckets {
		weights[b.Name] = b.Weight
	}
	assert.InDelta(t, 0.6, weights["red"], 1e-9)
	assert.InDelta(t, 0.4, weights["blue"], 1e-9)
}

func TestMiniBatchKMeans_SeparatesDistantGroups(t *testing.T) {
	points := make([]imaging.HSV, 0, 200)
	for i := 0; i < 100; i++ {
		points = append(points, imaging.HSV{H: 5, S: 200, V: 150})
	}
	for i := 0; i < 100; i++ {
		points = append(points, imaging.HSV{H: 120, S: 200, V: 150})
	}

	clusters := miniBatchKMeans(points, 2, 100, 10, 42)
	require.Len(t, clusters, 2)

	// две равные группы должны разделиться поровну
	assert.InDelta(t, 0.5, clusters[0].Weight, 1e-9)
	assert.InDelta(t, 0.5, clusters[1].Weight, 1e-9)
	assert.NotEqual(t, clusters[0].Centroid.H, clusters[1].Centroid.H)
}

func TestMiniBatchKMeans_FewerPointsThanClusters(t *testing.T) {
	points := []imaging.HSV{{H: 10, S: 100, V: 100}}

	clusters := miniBatchKMeans(points, 3, 100, 10, 42)
	require.Len(t, clusters, 1)
	assert.InDelta(t, 1.0, clusters[0].Weight, 1e-9)
}

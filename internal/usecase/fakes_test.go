package usecase

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/DRSN-tech/visual-search/internal/domain"
	"github.com/stretchr/testify/require"
)

// nopLogger — логгер-заглушка для тестов.
type nopLogger struct{}

func (nopLogger) Infof(string, ...any)         {}
func (nopLogger) Warnf(string, ...any)         {}
func (nopLogger) Errorf(error, string, ...any) {}
func (nopLogger) Debugf(string, ...any)        {}

type fakeCatalogSource struct {
	products []domain.Product
	err      error
}

func (f *fakeCatalogSource) Load(context.Context) ([]domain.Product, error) {
	return f.products, f.err
}

type fakeProductRepo struct {
	products   []ProductInfo
	attributes map[int64][2]string // id -> {category, color}
	upserted   []domain.Product
	listCalls  int
	listErr    error
	updateErr  error
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{attributes: make(map[int64][2]string)}
}

func (f *fakeProductRepo) UpsertCatalog(_ context.Context, products []domain.Product) error {
	f.upserted = append(f.upserted, products...)
	return nil
}

func (f *fakeProductRepo) List(context.Context) ([]ProductInfo, error) {
	f.listCalls++
	return f.products, f.listErr
}

func (f *fakeProductRepo) SearchByName(_ context.Context, query string) ([]ProductInfo, error) {
	var out []ProductInfo
	for _, p := range f.products {
		if bytes.Contains([]byte(p.Name), []byte(query)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) GetByIDs(_ context.Context, ids []int64) ([]ProductInfo, error) {
	byID := make(map[int64]ProductInfo)
	for _, p := range f.products {
		byID[p.ID] = p
	}

	var out []ProductInfo
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) UpdateAttributes(_ context.Context, id int64, category, color string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.attributes[id] = [2]string{category, color}
	return nil
}

type fakeFeatureRepo struct {
	saved   map[int64][]float32
	saveErr error
}

func newFakeFeatureRepo() *fakeFeatureRepo {
	return &fakeFeatureRepo{saved: make(map[int64][]float32)}
}

func (f *fakeFeatureRepo) Save(_ context.Context, embedding *domain.Embedding) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved[embedding.ProductID] = embedding.Vector
	return nil
}

func (f *fakeFeatureRepo) LoadAll(context.Context) ([]domain.Embedding, error) {
	ids := make([]int64, 0, len(f.saved))
	for id := range f.saved {
		ids = append(ids, id)
	}
	// стабильный порядок возрастания id, как в контракте
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if ids[j] < ids[i] {
				ids[i], ids[j] = ids[j], ids[i]
			}
		}
	}

	out := make([]domain.Embedding, 0, len(ids))
	for _, id := range ids {
		out = append(out, *domain.NewEmbedding(id, f.saved[id]))
	}
	return out, nil
}

func (f *fakeFeatureRepo) LoadIDs(context.Context) (map[int64]struct{}, error) {
	out := make(map[int64]struct{}, len(f.saved))
	for id := range f.saved {
		out[id] = struct{}{}
	}
	return out, nil
}

type fakeVectorIndex struct {
	upserts  []int64
	queryRes []ScoredID
	queryErr error
	queries  int
}

func (f *fakeVectorIndex) Upsert(_ context.Context, embedding *domain.Embedding) error {
	f.upserts = append(f.upserts, embedding.ProductID)
	return nil
}

func (f *fakeVectorIndex) Query(context.Context, []float32, float64, uint64) ([]ScoredID, error) {
	f.queries++
	return f.queryRes, f.queryErr
}

type fakeCacheRepo struct {
	list        []ProductInfo
	setCalls    int
	invalidated int
}

func (f *fakeCacheRepo) GetProductList(context.Context) ([]ProductInfo, error) {
	return f.list, nil
}

func (f *fakeCacheRepo) SetProductList(_ context.Context, products []ProductInfo) error {
	f.setCalls++
	return nil
}

func (f *fakeCacheRepo) Invalidate(context.Context) error {
	f.invalidated++
	return nil
}

type fakeImageFetcher struct {
	data map[string][]byte
	err  error
}

func (f *fakeImageFetcher) FetchImage(_ context.Context, url string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.data[url], nil
}

type fakeEmbedder struct {
	vector      []float32
	vectorByKey map[string][]float32 // по содержимому изображения
	visualCalls int
	visualErr   error
}

func (f *fakeEmbedder) VisualEmbed(_ context.Context, image []byte) ([]float32, error) {
	f.visualCalls++
	if f.visualErr != nil {
		return nil, f.visualErr
	}
	if f.vectorByKey != nil {
		if v, ok := f.vectorByKey[string(image)]; ok {
			return v, nil
		}
	}
	return f.vector, nil
}

func (f *fakeEmbedder) CrossModalEmbed(context.Context, []byte, []string) (*domain.CrossModalEmbedding, error) {
	return nil, nil
}

type fakeCategoryClf struct {
	prediction domain.CategoryPrediction
	err        error
}

func (f *fakeCategoryClf) Classify(context.Context, []byte) (domain.CategoryPrediction, error) {
	if f.err != nil {
		return domain.CategoryPrediction{}, f.err
	}
	return f.prediction, nil
}

type fakeColorClf struct {
	label string
	err   error
}

func (f *fakeColorClf) Classify(*image.RGBA) (string, error) {
	return f.label, f.err
}

type fakeProducer struct {
	events []*ProductEnrichedEvent
}

func (f *fakeProducer) ProductEnriched(_ context.Context, event *ProductEnrichedEvent) error {
	f.events = append(f.events, event)
	return nil
}

// fakeTxManager выполняет fn без настоящей транзакции.
type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

// testPNG возвращает валидное одноцветное PNG-изображение.
func testPNG(t *testing.T, c color.RGBA) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, c)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

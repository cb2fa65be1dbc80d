package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/DRSN-tech/visual-search/internal/cfg"
	"github.com/DRSN-tech/visual-search/internal/imaging"
	"github.com/DRSN-tech/visual-search/pkg/e"
	"github.com/DRSN-tech/visual-search/pkg/logger"
)

// ProductUseCase реализует чтение каталога и поиск: по названию и по изображению.
type ProductUseCase struct {
	productRepo ProductRepository
	featureRepo FeatureRepository
	vectorIndex VectorIndex
	cacheRepo   CacheRepository
	embedder    EmbedderInfra
	searchCfg   *cfg.SearchCfg
	logger      logger.Logger
}

func NewProductUC(
	productRepo ProductRepository,
	featureRepo FeatureRepository,
	vectorIndex VectorIndex,
	cacheRepo CacheRepository,
	embedder EmbedderInfra,
	searchCfg *cfg.SearchCfg,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		featureRepo: featureRepo,
		vectorIndex: vectorIndex,
		cacheRepo:   cacheRepo,
		embedder:    embedder,
		searchCfg:   searchCfg,
		logger:      logger,
	}
}

// ListProducts возвращает весь каталог, сквозь кэш.
// Ошибки кэша деградируют до чтения из БД.
func (p *ProductUseCase) ListProducts(ctx context.Context) ([]ProductInfo, error) {
	const op = "ProductUseCase.ListProducts"

	cached, err := p.cacheRepo.GetProductList(ctx)
	if err != nil {
		p.logger.Warnf("product list cache read failed: %v", e.Wrap(op, err))
	}
	if cached != nil {
		return cached, nil
	}

	products, err := p.productRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Фоновое наполнение кэша
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := p.cacheRepo.SetProductList(bgCtx, products); err != nil {
			p.logger.Warnf("Failed to cache product list in background: %v", e.Wrap(op, err))
		}
	}()

	return products, nil
}

// SearchByText ищет товары по подстроке названия без учёта регистра.
// Пустой запрос возвращает весь каталог.
func (p *ProductUseCase) SearchByText(ctx context.Context, query string) ([]ProductInfo, error) {
	const op = "ProductUseCase.SearchByText"

	if strings.TrimSpace(query) == "" {
		return p.ListProducts(ctx)
	}

	products, err := p.productRepo.SearchByName(ctx, query)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return products, nil
}

// SearchByImage выполняет визуальный поиск: валидация загрузки,
// эмбеддинг запроса, ранжирование каталога по косинусной близости.
// Пустое хранилище или отсутствие совпадений — пустой список, не ошибка.
func (p *ProductUseCase) SearchByImage(ctx context.Context, req *SearchByImageReq) ([]ProductInfo, error) {
	const op = "ProductUseCase.SearchByImage"

	if err := p.validateUpload(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	query, err := p.embedder.VisualEmbed(ctx, req.Image)
	if err != nil {
		return nil, e.Wrap(op, e.Wrap(err.Error(), e.ErrExtraction))
	}

	var matches []ScoredID
	if p.searchCfg.Engine == cfg.EngineANN {
		matches, err = p.vectorIndex.Query(ctx, query, req.Threshold, 0)
	} else {
		matches, err = p.rankExact(ctx, query, req.Threshold)
	}
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if len(matches) == 0 {
		return []ProductInfo{}, nil
	}

	return p.resolveProducts(ctx, matches)
}

// rankExact — точный перебор всех сохранённых векторов.
func (p *ProductUseCase) rankExact(ctx context.Context, query []float32, threshold float64) ([]ScoredID, error) {
	embeddings, err := p.featureRepo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	return rankBySimilarity(query, embeddings, threshold)
}

// resolveProducts превращает ранжированные id в записи товаров, сохраняя порядок.
func (p *ProductUseCase) resolveProducts(ctx context.Context, matches []ScoredID) ([]ProductInfo, error) {
	ids := make([]int64, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ProductID)
	}

	products, err := p.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]ProductInfo, len(products))
	for _, pr := range products {
		byID[pr.ID] = pr
	}

	result := make([]ProductInfo, 0, len(matches))
	for _, m := range matches {
		if pr, ok := byID[m.ProductID]; ok {
			result = append(result, pr)
		}
	}

	return result, nil
}

func (p *ProductUseCase) validateUpload(req *SearchByImageReq) error {
	if len(req.Image) == 0 {
		return e.ErrNoImage
	}

	if !strings.HasPrefix(req.MimeType, "image/") {
		return e.ErrUnsupportedMediaType
	}

	if _, err := imaging.Decode(req.Image); err != nil {
		return err
	}

	return nil
}

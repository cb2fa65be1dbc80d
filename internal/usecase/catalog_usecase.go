package usecase

import (
	"context"

	"github.com/DRSN-tech/visual-search/internal/domain"
	"github.com/DRSN-tech/visual-search/internal/imaging"
	"github.com/DRSN-tech/visual-search/pkg/e"
	"github.com/DRSN-tech/visual-search/pkg/logger"
	"github.com/google/uuid"
)

// CatalogUseCase прогоняет весь каталог через инференс при старте:
// докачивает изображения, считает эмбеддинги, категорию и цвет,
// сохраняет результаты. Наличие вектора — маркер завершённости товара,
// поэтому повторный запуск не выполняет лишней работы.
type CatalogUseCase struct {
	source      CatalogSource
	productRepo ProductRepository
	featureRepo FeatureRepository
	vectorIndex VectorIndex
	cacheRepo   CacheRepository
	images      ImageFetcher
	embedder    EmbedderInfra
	categoryClf CategoryClassifier
	colorClf    ColorClassifier
	producer    EventProducer
	txm         TxManager
	logger      logger.Logger
}

func NewCatalogUC(
	source CatalogSource,
	productRepo ProductRepository,
	featureRepo FeatureRepository,
	vectorIndex VectorIndex,
	cacheRepo CacheRepository,
	images ImageFetcher,
	embedder EmbedderInfra,
	categoryClf CategoryClassifier,
	colorClf ColorClassifier,
	producer EventProducer,
	txm TxManager,
	logger logger.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		source:      source,
		productRepo: productRepo,
		featureRepo: featureRepo,
		vectorIndex: vectorIndex,
		cacheRepo:   cacheRepo,
		images:      images,
		embedder:    embedder,
		categoryClf: categoryClf,
		colorClf:    colorClf,
		producer:    producer,
		txm:         txm,
		logger:      logger,
	}
}

// Sync выполняет полный проход по каталогу. Записи обрабатываются
// последовательно в порядке загрузки; ошибка одной записи логируется,
// и проход продолжается. Ошибка возвращается только если каталог
// невозможно загрузить или завести в Persistent Store.
func (c *CatalogUseCase) Sync(ctx context.Context) error {
	const op = "CatalogUseCase.Sync"

	entries, err := c.source.Load(ctx)
	if err != nil {
		return e.Wrap(op, err)
	}

	if err := c.productRepo.UpsertCatalog(ctx, entries); err != nil {
		return e.Wrap(op, err)
	}

	processed, err := c.featureRepo.LoadIDs(ctx)
	if err != nil {
		return e.Wrap(op, err)
	}

	c.logger.Infof("catalog sync: %d entries, %d already processed", len(entries), len(processed))

	var done, failed int
	for _, entry := range entries {
		if _, ok := processed[entry.ID]; ok {
			continue
		}

		if err := c.processEntry(ctx, &entry); err != nil {
			c.logger.Warnf("catalog sync: product %d skipped: %v", entry.ID, err)
			failed++
			continue
		}
		done++
	}

	if err := c.cacheRepo.Invalidate(ctx); err != nil {
		c.logger.Warnf("catalog sync: cache invalidation failed: %v", err)
	}

	c.logger.Infof("catalog sync finished: %d processed, %d failed", done, failed)
	return nil
}

// processEntry обрабатывает один товар: изображение → инференс → персист.
// Атрибуты и вектор пишутся одной транзакцией, чтобы инвариант
// «атрибуты есть ⇔ вектор есть» держался и при падении посередине.
func (c *CatalogUseCase) processEntry(ctx context.Context, entry *domain.Product) error {
	raw, err := c.images.FetchImage(ctx, entry.ImageURL)
	if err != nil {
		return err
	}

	decoded, err := imaging.Decode(raw)
	if err != nil {
		return err
	}

	vector, err := c.embedder.VisualEmbed(ctx, raw)
	if err != nil {
		return e.Wrap("visual embed", err)
	}
	if len(vector) == 0 {
		return e.ErrEmptyVector
	}

	prediction, err := c.categoryClf.Classify(ctx, raw)
	if err != nil {
		c.logger.Warnf("category classification degraded for product %d: %v", entry.ID, err)
		prediction = domain.Degraded()
	}

	colorLabel, err := c.colorClf.Classify(decoded)
	if err != nil {
		c.logger.Warnf("color classification degraded for product %d: %v", entry.ID, err)
		colorLabel = domain.FallbackLabel
	}

	embedding := domain.NewEmbedding(entry.ID, vector)
	err = c.txm.Do(ctx, func(txCtx context.Context) error {
		if err := c.productRepo.UpdateAttributes(txCtx, entry.ID, prediction.Category, colorLabel); err != nil {
			return err
		}
		return c.featureRepo.Save(txCtx, embedding)
	})
	if err != nil {
		return err
	}

	// вторичный индекс и событие — best effort, Persistent Store уже консистентен
	if err := c.vectorIndex.Upsert(ctx, embedding); err != nil {
		c.logger.Warnf("vector index upsert failed for product %d: %v", entry.ID, err)
	}

	event := NewProductEnrichedEvent(uuid.NewString(), entry.ID, prediction.Category, colorLabel, len(vector))
	if err := c.producer.ProductEnriched(ctx, event); err != nil {
		c.logger.Warnf("enrichment event failed for product %d: %v", entry.ID, err)
	}

	return nil
}

package pgdb

import (
	"context"

	"github.com/DRSN-tech/visual-search/internal/domain"
	"github.com/DRSN-tech/visual-search/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/visual-search/internal/usecase"
	"github.com/DRSN-tech/visual-search/pkg/e"
	"github.com/DRSN-tech/visual-search/pkg/tr"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// UpsertCatalog идемпотентно заводит товары каталога.
// Уже существующие записи не трогаются: категория и цвет,
// вычисленные прошлым проходом синхронизатора, сохраняются.
func (p *ProductRepo) UpsertCatalog(ctx context.Context, products []domain.Product) error {
	query := `
		INSERT INTO products (id, name, price, image_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING;
	`

	for i := range products {
		model := p.conv.ToModel(&products[i])
		if _, err := p.pool.Exec(ctx, query, model.ID, model.Name, model.Price, model.ImageURL); err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}
	}

	return nil
}

// List возвращает все товары в порядке возрастания id.
func (p *ProductRepo) List(ctx context.Context) ([]usecase.ProductInfo, error) {
	query := `
		SELECT id, name, price, image_url, category, color
		FROM products
		ORDER BY id;
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// SearchByName ищет товары по подстроке названия без учёта регистра.
func (p *ProductRepo) SearchByName(ctx context.Context, search string) ([]usecase.ProductInfo, error) {
	query := `
		SELECT id, name, price, image_url, category, color
		FROM products
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY id;
	`

	rows, err := p.pool.Query(ctx, query, search)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// GetByIDs возвращает товары по идентификаторам (порядок не гарантируется).
func (p *ProductRepo) GetByIDs(ctx context.Context, ids []int64) ([]usecase.ProductInfo, error) {
	query := `
		SELECT id, name, price, image_url, category, color
		FROM products
		WHERE id = ANY($1);
	`

	rows, err := p.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// UpdateAttributes выставляет вычисленные категорию и цвет товара.
// Выполняется в транзакции синхронизатора.
func (p *ProductRepo) UpdateAttributes(ctx context.Context, id int64, category, color string) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		UPDATE products
		SET category = $2, color = $3
		WHERE id = $1;
	`

	if _, err := tx.Exec(ctx, query, id, category, color); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func scanProducts(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]usecase.ProductInfo, error) {
	result := make([]usecase.ProductInfo, 0)
	for rows.Next() {
		var product usecase.ProductInfo
		if err := rows.Scan(
			&product.ID, &product.Name, &product.Price,
			&product.ImageURL, &product.Category, &product.Color,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, product)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

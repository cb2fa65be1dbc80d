// Package catalog загружает исходный каталог товаров из products.json.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/DRSN-tech/visual-search/internal/cfg"
	"github.com/DRSN-tech/visual-search/internal/domain"
	"github.com/DRSN-tech/visual-search/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

// productEntry — запись каталога в исходном JSON.
// Цена в файле — десятичное число в рублях, в домене хранится в копейках.
type productEntry struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url"`
}

type Loader struct {
	cfg *cfg.CatalogCfg
}

func NewLoader(cfg *cfg.CatalogCfg) *Loader {
	return &Loader{cfg: cfg}
}

// Load читает каталог из файла. Отсутствие файла — фатальная ошибка
// e.ErrCatalogNotFound: без каталога сервису нечего индексировать.
func (l *Loader) Load(_ context.Context) ([]domain.Product, error) {
	const op = "Loader.Load"

	data, err := os.ReadFile(l.cfg.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, e.Wrap(op, fmt.Errorf("%s: %w", l.cfg.Path, e.ErrCatalogNotFound))
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var entries []productEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	products := make([]domain.Product, 0, len(entries))
	for _, entry := range entries {
		priceCents := entry.Price.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
		products = append(products, *domain.NewProduct(entry.ID, entry.Name, priceCents, entry.ImageURL))
	}

	return products, nil
}

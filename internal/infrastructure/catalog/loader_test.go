package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/DRSN-tech/visual-search/internal/cfg"
	"github.com/DRSN-tech/visual-search/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeCatalog(t, `[
		{"id": 1, "name": "Red Shirt", "price": 599.99, "image_url": "http://img/1.jpg"},
		{"id": 2, "name": "Blue Jeans", "price": 1299, "image_url": "http://img/2.jpg"}
	]`)

	loader := NewLoader(&cfg.CatalogCfg{Path: path})

	products, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, "Red Shirt", products[0].Name)
	assert.Equal(t, int64(59999), products[0].Price, "price must be stored in cents")
	assert.Equal(t, "http://img/1.jpg", products[0].ImageURL)
	assert.Nil(t, products[0].Category)
	assert.Nil(t, products[0].Color)

	assert.Equal(t, int64(129900), products[1].Price)
}

func TestLoad_MissingFile(t *testing.T) {
	loader := NewLoader(&cfg.CatalogCfg{Path: filepath.Join(t.TempDir(), "absent.json")})

	_, err := loader.Load(context.Background())
	assert.ErrorIs(t, err, e.ErrCatalogNotFound)
}

func TestLoad_MalformedJSON(t *testing.T) {
	path := writeCatalog(t, `{"not": "a list"`)
	loader := NewLoader(&cfg.CatalogCfg{Path: path})

	_, err := loader.Load(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, e.ErrCatalogNotFound)
}

func TestLoad_EmptyCatalog(t *testing.T) {
	path := writeCatalog(t, `[]`)
	loader := NewLoader(&cfg.CatalogCfg{Path: path})

	products, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

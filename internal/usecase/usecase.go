package usecase

import "context"

type ProductUC interface {
	ListProducts(ctx context.Context) ([]ProductInfo, error)
	SearchByText(ctx context.Context, query string) ([]ProductInfo, error)
	SearchByImage(ctx context.Context, req *SearchByImageReq) ([]ProductInfo, error)
}

type CatalogUC interface {
	Sync(ctx context.Context) error
}

package product

import (
	"context"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/product/dto"
)

// Refresher drops derived catalog views of a product after its stock moved.
type Refresher interface {
	Refresh(ctx context.Context, productID string)
}

type UseCase interface {
	Refresher

	AddProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	// FindByCode resolves a scanned QR payload.
	FindByCode(ctx context.Context, code string) (*model.Product, *model.Variant, error)
}

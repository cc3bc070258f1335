package product

import (
	"context"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/product/dto"
)

// Repository finders return (nil, nil) when nothing matches.
type Repository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error

	// Lookups used by the sale flow. Name matching is a case-insensitive
	// substring and returns the earliest product in catalog order.
	FindByVariantCode(ctx context.Context, code string) (*model.Product, error)
	FindByNameLike(ctx context.Context, name string) (*model.Product, error)
	FindFirst(ctx context.Context) (*model.Product, error)

	IsCodeUnique(ctx context.Context, code, excludeProductID string) (bool, error)
}

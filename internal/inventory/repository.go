package inventory

import (
	"context"

	"github.com/fekuna/omnipos-retail-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
)

type Repository interface {
	GetStock(ctx context.Context, variantID string, loc model.Location) (int, error)

	// DecrementIfEnough takes qty only when the counter holds at least qty.
	DecrementIfEnough(ctx context.Context, variantID string, loc model.Location, qty int) (bool, error)
	// DeductFloor subtracts up to qty, stopping at zero.
	DeductFloor(ctx context.Context, variantID string, loc model.Location, qty int) error
	Increment(ctx context.Context, variantID string, loc model.Location, qty int) error

	// Movements / Audit
	LogMovement(ctx context.Context, movement *model.StockMovement) error
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}

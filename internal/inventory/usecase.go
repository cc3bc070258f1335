package inventory

import (
	"context"

	"github.com/fekuna/omnipos-retail-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
)

type UseCase interface {
	TransferStock(ctx context.Context, input *dto.TransferStockInput) (*dto.TransferResult, error)
	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.StockMovement, error)
	StockMatrix(ctx context.Context) ([]dto.StockRow, error)
	ListLowStock(ctx context.Context, loc model.Location, threshold int) ([]dto.StockRow, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}

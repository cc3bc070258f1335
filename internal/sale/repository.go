package sale

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/sale/dto"
)

type Repository interface {
	Create(ctx context.Context, s *model.Sale) error
	FindByID(ctx context.Context, id string) (*model.Sale, error)
	// FindAll orders by date, newest first.
	FindAll(ctx context.Context, filters *dto.SaleFilters) ([]model.Sale, int, error)
	// MarkReturned flips a completed sale; false means it was not completed.
	MarkReturned(ctx context.Context, id string, at time.Time) (bool, error)
}

package customer

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/customer/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, id string) (*model.Customer, error)
	FindByPhone(ctx context.Context, phone string) (*model.Customer, error)
	// FindByName matches the whole name, case-insensitively.
	FindByName(ctx context.Context, name string) (*model.Customer, error)
	FindAll(ctx context.Context, filters *dto.CustomerFilters) ([]model.Customer, int, error)
	Update(ctx context.Context, c *model.Customer) error

	// AddSpend adjusts total_spent by delta. A non-nil orderDate also moves last_order_date.
	AddSpend(ctx context.Context, id string, delta decimal.Decimal, orderDate *time.Time) error
}

package expense

import (
	"context"

	"github.com/fekuna/omnipos-retail-service/internal/expense/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, e *model.Expense) error
	FindByID(ctx context.Context, id string) (*model.Expense, error)
	FindAll(ctx context.Context, filters *dto.ExpenseFilters) ([]model.Expense, int, error)
	Update(ctx context.Context, e *model.Expense) error
	Delete(ctx context.Context, id string) error
}

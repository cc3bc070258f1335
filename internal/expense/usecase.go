package expense

import (
	"context"

	"github.com/fekuna/omnipos-retail-service/internal/expense/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
)

type UseCase interface {
	AddExpense(ctx context.Context, input *dto.CreateExpenseInput) (*model.Expense, error)
	UpdateExpense(ctx context.Context, input *dto.UpdateExpenseInput) (*model.Expense, error)
	DeleteExpense(ctx context.Context, id string) error
	ListExpenses(ctx context.Context, filters *dto.ExpenseFilters) ([]model.Expense, int, error)
}

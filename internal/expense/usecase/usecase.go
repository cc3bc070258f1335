package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/expense"
	"github.com/fekuna/omnipos-retail-service/internal/expense/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type expenseUseCase struct {
	repo   expense.Repository
	logger logger.ZapLogger
	now    func() time.Time
}

func NewExpenseUseCase(repo expense.Repository, log logger.ZapLogger) expense.UseCase {
	return &expenseUseCase{
		repo:   repo,
		logger: log,
		now:    time.Now,
	}
}

func validate(category string, amount decimal.Decimal) (model.ExpenseCategory, error) {
	cat := model.ExpenseOther
	if strings.TrimSpace(category) != "" {
		c, ok := model.ParseExpenseCategory(category)
		if !ok {
			return "", model.Invalidf("unknown expense category %q", category)
		}
		cat = c
	}
	if !amount.IsPositive() {
		return "", model.Invalidf("amount must be positive")
	}
	return cat, nil
}

func (uc *expenseUseCase) AddExpense(ctx context.Context, input *dto.CreateExpenseInput) (*model.Expense, error) {
	cat, err := validate(input.Category, input.Amount)
	if err != nil {
		return nil, err
	}
	e := &model.Expense{
		ID:          uuid.New().String(),
		Category:    cat,
		Description: strings.TrimSpace(input.Description),
		Amount:      input.Amount,
		Date:        uc.now(),
	}
	if input.Date != nil && !input.Date.IsZero() {
		e.Date = *input.Date
	}

	if err := uc.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	uc.logger.Info("expense added", zap.String("expense_id", e.ID), zap.String("category", string(e.Category)), zap.String("amount", e.Amount.String()))
	return e, nil
}

func (uc *expenseUseCase) UpdateExpense(ctx context.Context, input *dto.UpdateExpenseInput) (*model.Expense, error) {
	e, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, model.ErrExpenseNotFound
	}
	cat, err := validate(input.Category, input.Amount)
	if err != nil {
		return nil, err
	}

	e.Category = cat
	e.Description = strings.TrimSpace(input.Description)
	e.Amount = input.Amount
	if input.Date != nil && !input.Date.IsZero() {
		e.Date = *input.Date
	}
	if err := uc.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (uc *expenseUseCase) DeleteExpense(ctx context.Context, id string) error {
	e, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return model.ErrExpenseNotFound
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *expenseUseCase) ListExpenses(ctx context.Context, filters *dto.ExpenseFilters) ([]model.Expense, int, error) {
	if filters == nil {
		filters = &dto.ExpenseFilters{}
	}
	return uc.repo.FindAll(ctx, filters)
}

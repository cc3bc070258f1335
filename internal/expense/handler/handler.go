package handler

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/expense"
	"github.com/fekuna/omnipos-retail-service/internal/expense/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/transport"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/fekuna/omnipos-retail-service/pkg/rpc"
)

const ServiceName = "retail.v1.ExpenseService"

type ExpenseHandler struct {
	uc     expense.UseCase
	logger logger.ZapLogger
}

func NewExpenseHandler(uc expense.UseCase, log logger.ZapLogger) *ExpenseHandler {
	return &ExpenseHandler{uc: uc, logger: log}
}

func (h *ExpenseHandler) Service() *rpc.Service {
	svc := rpc.NewService(ServiceName)
	rpc.Unary(svc, "AddExpense", h.AddExpense)
	rpc.Unary(svc, "UpdateExpense", h.UpdateExpense)
	rpc.Unary(svc, "DeleteExpense", h.DeleteExpense)
	rpc.Unary(svc, "ListExpenses", h.ListExpenses)
	return svc
}

type ExpenseResponse struct {
	Expense *model.Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ID string `json:"id"`
}

type ListExpensesRequest struct {
	StartDate *time.Time            `json:"start_date"`
	EndDate   *time.Time            `json:"end_date"`
	Category  model.ExpenseCategory `json:"category"`
	Page      int                   `json:"page"`
	PageSize  int                   `json:"page_size"`
}

type ListExpensesResponse struct {
	Expenses []model.Expense `json:"expenses"`
	Total    int             `json:"total"`
}

type Empty struct{}

func (h *ExpenseHandler) AddExpense(ctx context.Context, req *dto.CreateExpenseInput) (*ExpenseResponse, error) {
	e, err := h.uc.AddExpense(ctx, req)
	if err != nil {
		return nil, transport.GRPCError(err)
	}
	return &ExpenseResponse{Expense: e}, nil
}

func (h *ExpenseHandler) UpdateExpense(ctx context.Context, req *dto.UpdateExpenseInput) (*ExpenseResponse, error) {
	e, err := h.uc.UpdateExpense(ctx, req)
	if err != nil {
		return nil, transport.GRPCError(err)
	}
	return &ExpenseResponse{Expense: e}, nil
}

func (h *ExpenseHandler) DeleteExpense(ctx context.Context, req *DeleteExpenseRequest) (*Empty, error) {
	if err := h.uc.DeleteExpense(ctx, req.ID); err != nil {
		return nil, transport.GRPCError(err)
	}
	return &Empty{}, nil
}

func (h *ExpenseHandler) ListExpenses(ctx context.Context, req *ListExpensesRequest) (*ListExpensesResponse, error) {
	items, total, err := h.uc.ListExpenses(ctx, &dto.ExpenseFilters{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Category:  req.Category,
		Page:      req.Page,
		PageSize:  req.PageSize,
	})
	if err != nil {
		return nil, transport.GRPCError(err)
	}
	return &ListExpensesResponse{Expenses: items, Total: total}, nil
}

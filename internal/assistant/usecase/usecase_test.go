package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/assistant"
	"github.com/fekuna/omnipos-retail-service/internal/assistant/dto"
	expenseUC "github.com/fekuna/omnipos-retail-service/internal/expense/usecase"
	inventoryUC "github.com/fekuna/omnipos-retail-service/internal/inventory/usecase"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	productUC "github.com/fekuna/omnipos-retail-service/internal/product/usecase"
	saleUC "github.com/fekuna/omnipos-retail-service/internal/sale/usecase"
	"github.com/fekuna/omnipos-retail-service/internal/store/snapshot"
	"github.com/fekuna/omnipos-retail-service/pkg/cache"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockParser struct {
	mock.Mock
}

func (m *mockParser) Parse(ctx context.Context, text string) (*assistant.Action, error) {
	args := m.Called(ctx, text)
	if a, ok := args.Get(0).(*assistant.Action); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func setup(t *testing.T) (*snapshot.Store, *mockParser, assistant.UseCase) {
	t.Helper()
	return setupWithFallback(t, false)
}

func setupWithFallback(t *testing.T, fallback bool) (*snapshot.Store, *mockParser, assistant.UseCase) {
	t.Helper()
	s, err := snapshot.New(&snapshot.Config{}, logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Products().Create(context.Background(), &model.Product{
		BaseModel: model.BaseModel{ID: "p-tee", CreatedAt: time.Now()},
		Name:      "Classic Tee",
		CostPrice: decimal.NewFromInt(300),
		SalePrice: decimal.NewFromInt(1000),
		Variants: []model.Variant{
			{ID: "v-m", ProductID: "p-tee", Size: "M", UniqueCode: "TEE-M", Stock: model.StockLevels{model.LocationHub: 10}},
		},
	}))

	log := logger.NewNop()
	locker := cache.NewLocalLocker()
	parser := &mockParser{}
	uc := NewConsoleUseCase(Deps{
		Parser:    parser,
		Products:  productUC.NewProductUseCase(s.Products(), nil, nil, log),
		Catalog:   s.Products(),
		Sales:     saleUC.NewSaleUseCase(s, locker, nil, log, saleUC.WithFallbackToFirstProduct(fallback)),
		Inventory: inventoryUC.NewInventoryUseCase(s, locker, nil, log),
		Expenses:  expenseUC.NewExpenseUseCase(s.Expenses(), log),

		FallbackToFirstProduct: fallback,
	}, log)
	return s, parser, uc
}

func TestExecute_ParserFailureIsNoAction(t *testing.T) {
	_, parser, uc := setup(t)
	parser.On("Parse", mock.Anything, "gibberish").Return(nil, assistant.ErrParse)

	res, err := uc.Execute(context.Background(), &dto.ConsoleInput{Text: "gibberish"})
	require.NoError(t, err)
	assert.Equal(t, assistant.ActionNone, res.Action)
	assert.False(t, res.Consumed)
	parser.AssertExpectations(t)
}

func TestExecute_Sale(t *testing.T) {
	s, parser, uc := setup(t)
	parser.On("Parse", mock.Anything, "sold a tee to Rahul").Return(&assistant.Action{
		Type: assistant.ActionSale,
		Data: assistant.ActionData{ItemName: "tee", CustomerName: "Rahul", Channel: "website"},
	}, nil)

	res, err := uc.Execute(context.Background(), &dto.ConsoleInput{Text: "sold a tee to Rahul"})
	require.NoError(t, err)
	assert.True(t, res.Consumed)
	require.NotNil(t, res.Sale)
	assert.Equal(t, "Rahul", res.Sale.CustomerName)
	assert.True(t, decimal.NewFromInt(1000).Equal(res.Sale.TotalAmount))

	q, err := s.Inventory().GetStock(context.Background(), "v-m", model.LocationHub)
	require.NoError(t, err)
	assert.Equal(t, 9, q)
}

func TestExecute_TransferAndExpense(t *testing.T) {
	ctx := context.Background()
	s, parser, uc := setup(t)
	parser.On("Parse", mock.Anything, "move 4 tees to store a").Return(&assistant.Action{
		Type: assistant.ActionTransfer,
		Data: assistant.ActionData{ItemName: "tee", From: "home", To: "store a", Quantity: 4},
	}, nil)
	parser.On("Parse", mock.Anything, "porter 250").Return(&assistant.Action{
		Type: assistant.ActionExpense,
		Data: assistant.ActionData{Category: "Delivery", Amount: decimal.NewFromInt(250)},
	}, nil)
	parser.On("Parse", mock.Anything, "move 40 tees").Return(&assistant.Action{
		Type: assistant.ActionTransfer,
		Data: assistant.ActionData{ItemName: "tee", Quantity: 40},
	}, nil)

	res, err := uc.Execute(ctx, &dto.ConsoleInput{Text: "move 4 tees to store a"})
	require.NoError(t, err)
	require.NotNil(t, res.Transfer)
	assert.Equal(t, 4, res.Transfer.ToAfter)

	res, err = uc.Execute(ctx, &dto.ConsoleInput{Text: "porter 250"})
	require.NoError(t, err)
	require.NotNil(t, res.Expense)
	assert.Equal(t, model.ExpenseDelivery, res.Expense.Category)
	assert.Equal(t, "porter 250", res.Expense.Description)

	_, err = uc.Execute(ctx, &dto.ConsoleInput{Text: "move 40 tees"})
	assert.ErrorIs(t, err, model.ErrInsufficientStock)
	q, err := s.Inventory().GetStock(ctx, "v-m", model.LocationHub)
	require.NoError(t, err)
	assert.Equal(t, 6, q)
}

func TestExecute_ProductDrop(t *testing.T) {
	ctx := context.Background()
	s, parser, uc := setup(t)
	parser.On("Parse", mock.Anything, "drop shadow hoodie").Return(&assistant.Action{
		Type: assistant.ActionProductDrop,
		Data: assistant.ActionData{ItemName: "Shadow Hoodie", CostPrice: decimal.NewFromInt(900), SalePrice: decimal.NewFromInt(2500), Quantity: 3},
	}, nil)

	res, err := uc.Execute(ctx, &dto.ConsoleInput{Text: "drop shadow hoodie"})
	require.NoError(t, err)
	require.NotNil(t, res.Product)
	require.Len(t, res.Product.Variants, 4)

	p, err := s.Products().FindByVariantCode(ctx, "SHADOW-HOODIE-XL")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 3, p.VariantBySize("XL").Stock[model.LocationHub])
}

func TestExecute_UnknownActionAndEmptyInput(t *testing.T) {
	_, parser, uc := setup(t)
	parser.On("Parse", mock.Anything, "refund").Return(&assistant.Action{Type: "refund"}, nil)

	res, err := uc.Execute(context.Background(), &dto.ConsoleInput{Text: "refund"})
	require.NoError(t, err)
	assert.Equal(t, assistant.ActionNone, res.Action)

	res, err = uc.Execute(context.Background(), &dto.ConsoleInput{Text: "   "})
	require.NoError(t, err)
	assert.False(t, res.Consumed)
	parser.AssertNumberOfCalls(t, "Parse", 1)
}

func TestExecute_SaleWithoutItemUsesFallback(t *testing.T) {
	ctx := context.Background()
	action := &assistant.Action{
		Type: assistant.ActionSale,
		Data: assistant.ActionData{CustomerName: "Rahul"},
	}

	_, parser, uc := setup(t)
	parser.On("Parse", mock.Anything, "sold one to Rahul").Return(action, nil)
	_, err := uc.Execute(ctx, &dto.ConsoleInput{Text: "sold one to Rahul"})
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	s, parser, uc := setupWithFallback(t, true)
	parser.On("Parse", mock.Anything, "sold one to Rahul").Return(action, nil)
	res, err := uc.Execute(ctx, &dto.ConsoleInput{Text: "sold one to Rahul"})
	require.NoError(t, err)
	assert.True(t, res.Consumed)
	require.NotNil(t, res.Sale)
	assert.Equal(t, "p-tee", res.Sale.ProductID)
	assert.Equal(t, "M", res.Sale.Size)

	q, err := s.Inventory().GetStock(ctx, "v-m", model.LocationHub)
	require.NoError(t, err)
	assert.Equal(t, 9, q)
}

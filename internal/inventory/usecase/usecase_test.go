package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/inventory"
	"github.com/fekuna/omnipos-retail-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/store/snapshot"
	"github.com/fekuna/omnipos-retail-service/pkg/cache"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, key string, event any) error {
	return m.Called(ctx, key, event).Error(0)
}

func (m *mockPublisher) Close() error { return nil }

func newStore(t *testing.T, stock model.StockLevels) *snapshot.Store {
	t.Helper()
	s, err := snapshot.New(&snapshot.Config{}, logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Products().Create(context.Background(), &model.Product{
		BaseModel: model.BaseModel{ID: "p-tee", CreatedAt: time.Now()},
		Name:      "Classic Tee",
		CostPrice: decimal.NewFromInt(300),
		SalePrice: decimal.NewFromInt(1000),
		Variants: []model.Variant{
			{ID: "v-m", ProductID: "p-tee", Size: "M", UniqueCode: "TEE-M", Stock: stock},
			{ID: "v-l", ProductID: "p-tee", Size: "L", UniqueCode: "TEE-L", Stock: model.StockLevels{model.LocationHub: 0}},
		},
	}))
	return s
}

func stockOf(t *testing.T, s *snapshot.Store, loc model.Location) int {
	t.Helper()
	q, err := s.Inventory().GetStock(context.Background(), "v-m", loc)
	require.NoError(t, err)
	return q
}

func TestTransferStock_MovesExactQuantity(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, model.StockLevels{model.LocationHub: 10})
	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, "p-tee", mock.Anything).Return(nil).Once()
	uc := NewInventoryUseCase(s, cache.NewLocalLocker(), pub, logger.NewNop())

	res, err := uc.TransferStock(ctx, &dto.TransferStockInput{
		ProductID: "p-tee", Size: "m", From: model.LocationHub, To: model.LocationStoreA, Quantity: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, res.FromAfter)
	assert.Equal(t, 4, res.ToAfter)
	assert.Equal(t, "M", res.Size)

	assert.Equal(t, 6, stockOf(t, s, model.LocationHub))
	assert.Equal(t, 4, stockOf(t, s, model.LocationStoreA))
	assert.Equal(t, 0, stockOf(t, s, model.LocationStoreB))

	mvs, total, err := uc.ListMovements(ctx, &dto.MovementFilters{ReferenceID: res.ReferenceID})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	sum := 0
	for _, m := range mvs {
		sum += m.QuantityChange
	}
	assert.Zero(t, sum)
	pub.AssertExpectations(t)
}

func TestTransferStock_InsufficientLeavesCountersUnchanged(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, model.StockLevels{model.LocationHub: 6, model.LocationStoreA: 4})
	pub := &mockPublisher{}
	uc := NewInventoryUseCase(s, cache.NewLocalLocker(), pub, logger.NewNop())

	_, err := uc.TransferStock(ctx, &dto.TransferStockInput{
		ProductID: "p-tee", Size: "M", From: model.LocationHub, To: model.LocationStoreB, Quantity: 20,
	})
	assert.ErrorIs(t, err, model.ErrInsufficientStock)

	assert.Equal(t, 6, stockOf(t, s, model.LocationHub))
	assert.Equal(t, 4, stockOf(t, s, model.LocationStoreA))
	assert.Equal(t, 0, stockOf(t, s, model.LocationStoreB))

	mvs, _, err := uc.ListMovements(ctx, &dto.MovementFilters{})
	require.NoError(t, err)
	assert.Empty(t, mvs)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestTransferStock_Validation(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, model.StockLevels{model.LocationHub: 10})
	uc := NewInventoryUseCase(s, cache.NewLocalLocker(), nil, logger.NewNop())

	cases := []struct {
		name  string
		input dto.TransferStockInput
		want  error
	}{
		{"same location", dto.TransferStockInput{ProductID: "p-tee", Size: "M", From: model.LocationHub, To: model.LocationHub, Quantity: 1}, model.ErrInvalidArgument},
		{"zero quantity", dto.TransferStockInput{ProductID: "p-tee", Size: "M", From: model.LocationHub, To: model.LocationStoreA}, model.ErrInvalidArgument},
		{"bad location", dto.TransferStockInput{ProductID: "p-tee", Size: "M", From: "attic", To: model.LocationStoreA, Quantity: 1}, model.ErrInvalidArgument},
		{"unknown product", dto.TransferStockInput{ProductID: "nope", Size: "M", From: model.LocationHub, To: model.LocationStoreA, Quantity: 1}, model.ErrProductNotFound},
		{"unknown size", dto.TransferStockInput{ProductID: "p-tee", Size: "XXL", From: model.LocationHub, To: model.LocationStoreA, Quantity: 1}, model.ErrVariantNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.TransferStock(ctx, &tc.input)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Equal(t, 10, stockOf(t, s, model.LocationHub))
}

func TestTransferStock_ConservesTotalAcrossSequence(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, model.StockLevels{model.LocationHub: 10})
	uc := NewInventoryUseCase(s, cache.NewLocalLocker(), nil, logger.NewNop())

	moves := []struct {
		from, to model.Location
		qty      int
	}{
		{model.LocationHub, model.LocationStoreA, 4},
		{model.LocationStoreA, model.LocationStoreB, 3},
		{model.LocationStoreB, model.LocationHub, 5},
		{model.LocationHub, model.LocationStoreB, 9},
		{model.LocationStoreA, model.LocationHub, 1},
	}
	for _, m := range moves {
		_, err := uc.TransferStock(ctx, &dto.TransferStockInput{ProductID: "p-tee", Size: "M", From: m.from, To: m.to, Quantity: m.qty})
		if err != nil {
			require.True(t, errors.Is(err, model.ErrInsufficientStock), err.Error())
		}
		total := 0
		for _, loc := range model.Locations {
			q := stockOf(t, s, loc)
			assert.GreaterOrEqual(t, q, 0)
			total += q
		}
		assert.Equal(t, 10, total)
	}
}

func TestAdjustStock(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, model.StockLevels{model.LocationHub: 2})
	uc := NewInventoryUseCase(s, cache.NewLocalLocker(), nil, logger.NewNop())

	mv, err := uc.AdjustStock(ctx, &dto.AdjustStockInput{ProductID: "p-tee", Size: "M", Location: model.LocationHub, QuantityChange: 3, Reason: "recount"})
	require.NoError(t, err)
	assert.Equal(t, 2, mv.QuantityBefore)
	assert.Equal(t, 5, mv.QuantityAfter)

	_, err = uc.AdjustStock(ctx, &dto.AdjustStockInput{ProductID: "p-tee", Size: "M", Location: model.LocationHub, QuantityChange: -6})
	assert.ErrorIs(t, err, model.ErrInsufficientStock)
	assert.Equal(t, 5, stockOf(t, s, model.LocationHub))

	_, err = uc.AdjustStock(ctx, &dto.AdjustStockInput{ProductID: "p-tee", Size: "M", Location: model.LocationHub})
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestStockMatrixAndLowStock(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, model.StockLevels{model.LocationHub: 2, model.LocationStoreA: 7})
	uc := NewInventoryUseCase(s, cache.NewLocalLocker(), nil, logger.NewNop())

	rows, err := uc.StockMatrix(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 9, rows[0].Total)

	low, err := uc.ListLowStock(ctx, model.LocationHub, 0)
	require.NoError(t, err)
	require.Len(t, low, 1, "sold-out L must not be listed")
	assert.Equal(t, "M", low[0].Size)

	low, err = uc.ListLowStock(ctx, model.LocationStoreA, 5)
	require.NoError(t, err)
	assert.Empty(t, low)
}

func TestTransferStock_BusyLock(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, model.StockLevels{model.LocationHub: 10})
	locker := cache.NewLocalLocker()
	ok, err := locker.AcquireLock(ctx, inventory.LockKey("p-tee"), "other", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	uc := NewInventoryUseCase(s, locker, nil, logger.NewNop())
	_, err = uc.TransferStock(ctx, &dto.TransferStockInput{ProductID: "p-tee", Size: "M", From: model.LocationHub, To: model.LocationStoreA, Quantity: 1})
	assert.ErrorIs(t, err, cache.ErrLockNotHeld)
	assert.Equal(t, 10, stockOf(t, s, model.LocationHub))
}

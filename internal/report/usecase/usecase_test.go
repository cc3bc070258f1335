package usecase

import (
	"context"
	"testing"
	"time"

	inventoryUC "github.com/fekuna/omnipos-retail-service/internal/inventory/usecase"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/report"
	"github.com/fekuna/omnipos-retail-service/internal/report/dto"
	"github.com/fekuna/omnipos-retail-service/internal/store/snapshot"
	"github.com/fekuna/omnipos-retail-service/pkg/cache"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	s, err := snapshot.New(&snapshot.Config{}, logger.NewNop())
	require.NoError(t, err)

	jan := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 15, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.Products().Create(ctx, &model.Product{
		BaseModel: model.BaseModel{ID: "p1", CreatedAt: jan},
		Name:      "Tee",
		CostPrice: decimal.NewFromInt(300),
		SalePrice: decimal.NewFromInt(1000),
		Variants: []model.Variant{
			{ID: "v1", ProductID: "p1", Size: "M", UniqueCode: "TEE-M", Stock: model.StockLevels{model.LocationHub: 2, model.LocationStoreA: 3}},
			{ID: "v2", ProductID: "p1", Size: "L", UniqueCode: "TEE-L", Stock: model.StockLevels{model.LocationHub: 0}},
		},
	}))
	for _, sale := range []model.Sale{
		{ID: "s1", ProductID: "p1", Size: "M", Quantity: 1, TotalAmount: decimal.NewFromInt(1000), Date: jan, Status: model.SaleStatusCompleted},
		{ID: "s2", ProductID: "p1", Size: "M", Quantity: 1, TotalAmount: decimal.NewFromInt(800), Date: feb, Status: model.SaleStatusCompleted},
		{ID: "s3", ProductID: "p1", Size: "M", Quantity: 1, TotalAmount: decimal.NewFromInt(5000), Date: feb, Status: model.SaleStatusReturned},
	} {
		sale := sale
		require.NoError(t, s.Sales().Create(ctx, &sale))
	}
	require.NoError(t, s.Expenses().Create(ctx, &model.Expense{ID: "e1", Category: model.ExpenseDelivery, Amount: decimal.NewFromInt(200), Date: feb}))

	inv := inventoryUC.NewInventoryUseCase(s, cache.NewLocalLocker(), nil, logger.NewNop())
	uc := NewReportUseCase(s, inv, 2, logger.NewNop())

	all, err := uc.Dashboard(ctx, &dto.DashboardInput{Preset: report.PresetAll})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1800).Equal(all.Revenue), all.Revenue.String())
	assert.True(t, decimal.NewFromInt(200).Equal(all.TotalBurn))
	assert.True(t, decimal.NewFromInt(1600).Equal(all.NetMargin))
	assert.True(t, decimal.NewFromInt(1500).Equal(all.InventoryValue), all.InventoryValue.String())
	assert.Equal(t, 2, all.SalesCount)
	assert.Equal(t, 1, all.ReturnedCount)
	assert.Len(t, all.RecentSales, 2)
	require.Len(t, all.LowStock, 1)
	assert.Equal(t, "M", all.LowStock[0].Size)

	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)
	febOnly, err := uc.Dashboard(ctx, &dto.DashboardInput{Start: &start, End: &end})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(800).Equal(febOnly.Revenue), febOnly.Revenue.String())
	assert.True(t, decimal.NewFromInt(600).Equal(febOnly.NetMargin))

	_, err = uc.Dashboard(ctx, &dto.DashboardInput{Start: &end, End: &start})
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

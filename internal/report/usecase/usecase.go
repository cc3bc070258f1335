package usecase

import (
	"context"
	"time"

	expenseDto "github.com/fekuna/omnipos-retail-service/internal/expense/dto"
	"github.com/fekuna/omnipos-retail-service/internal/inventory"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	productDto "github.com/fekuna/omnipos-retail-service/internal/product/dto"
	"github.com/fekuna/omnipos-retail-service/internal/report"
	"github.com/fekuna/omnipos-retail-service/internal/report/dto"
	saleDto "github.com/fekuna/omnipos-retail-service/internal/sale/dto"
	"github.com/fekuna/omnipos-retail-service/internal/store"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/shopspring/decimal"
)

const recentSalesLimit = 20

type reportUseCase struct {
	store     store.Store
	inventory inventory.UseCase
	threshold int
	logger    logger.ZapLogger
	now       func() time.Time
}

func NewReportUseCase(st store.Store, inv inventory.UseCase, lowStockThreshold int, log logger.ZapLogger) report.UseCase {
	return &reportUseCase{
		store:     st,
		inventory: inv,
		threshold: lowStockThreshold,
		logger:    log,
		now:       time.Now,
	}
}

// Range resolves the period a dashboard or export covers.
func Range(input *dto.DashboardInput, now time.Time) (report.DateRange, error) {
	if input.Start != nil || input.End != nil {
		var r report.DateRange
		if input.Start != nil {
			r.Start = report.Days(*input.Start, *input.Start).Start
		}
		if input.End != nil {
			r.End = report.Days(*input.End, *input.End).End
		}
		if r.Start != nil && r.End != nil && r.End.Before(*r.Start) {
			return report.DateRange{}, model.Invalidf("end is before start")
		}
		return r, nil
	}
	return report.ResolvePreset(input.Preset, now)
}

func (uc *reportUseCase) Dashboard(ctx context.Context, input *dto.DashboardInput) (*dto.Dashboard, error) {
	if input == nil {
		input = &dto.DashboardInput{}
	}
	period, err := Range(input, uc.now())
	if err != nil {
		return nil, err
	}

	sales, _, err := uc.store.Sales().FindAll(ctx, &saleDto.SaleFilters{StartDate: period.Start, EndDate: period.End})
	if err != nil {
		return nil, err
	}
	expenses, _, err := uc.store.Expenses().FindAll(ctx, &expenseDto.ExpenseFilters{StartDate: period.Start, EndDate: period.End})
	if err != nil {
		return nil, err
	}
	products, _, err := uc.store.Products().FindAll(ctx, &productDto.ProductFilters{})
	if err != nil {
		return nil, err
	}

	out := &dto.Dashboard{
		Start:          period.Start,
		End:            period.End,
		Revenue:        decimal.Zero,
		TotalBurn:      decimal.Zero,
		InventoryValue: decimal.Zero,
		RecentSales:    []model.Sale{},
	}
	for i := range sales {
		if sales[i].IsReturned() {
			out.ReturnedCount++
			continue
		}
		out.SalesCount++
		out.Revenue = out.Revenue.Add(sales[i].Revenue())
		if len(out.RecentSales) < recentSalesLimit {
			out.RecentSales = append(out.RecentSales, sales[i])
		}
	}
	for _, e := range expenses {
		out.TotalBurn = out.TotalBurn.Add(e.Amount)
	}
	out.NetMargin = out.Revenue.Sub(out.TotalBurn)
	for i := range products {
		out.InventoryValue = out.InventoryValue.Add(products[i].InventoryValue())
	}

	threshold := input.LowStockThreshold
	if threshold <= 0 {
		threshold = uc.threshold
	}
	out.LowStock, err = uc.inventory.ListLowStock(ctx, model.LocationHub, threshold)
	if err != nil {
		return nil, err
	}
	return out, nil
}

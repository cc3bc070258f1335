package dto

import (
	"time"

	inventoryDto "github.com/fekuna/omnipos-retail-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/shopspring/decimal"
)

// DashboardInput selects the period. Explicit Start/End win over Preset.
type DashboardInput struct {
	Preset            string     `json:"preset"`
	Start             *time.Time `json:"start"`
	End               *time.Time `json:"end"`
	LowStockThreshold int        `json:"low_stock_threshold"`
}

type Dashboard struct {
	Start          *time.Time              `json:"start,omitempty"`
	End            *time.Time              `json:"end,omitempty"`
	Revenue        decimal.Decimal         `json:"revenue"`
	TotalBurn      decimal.Decimal         `json:"total_burn"`
	NetMargin      decimal.Decimal         `json:"net_margin"`
	InventoryValue decimal.Decimal         `json:"inventory_value"`
	SalesCount     int                     `json:"sales_count"`
	ReturnedCount  int                     `json:"returned_count"`
	RecentSales    []model.Sale            `json:"recent_sales"`
	LowStock       []inventoryDto.StockRow `json:"low_stock"`
}

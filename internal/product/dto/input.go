package dto

import (
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/shopspring/decimal"
)

type VariantInput struct {
	ID         string            `json:"id"`
	Size       string            `json:"size"`
	UniqueCode string            `json:"unique_code"` // generated from sku or name when empty
	Stock      model.StockLevels `json:"stock"`
}

type CreateProductInput struct {
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	CostPrice decimal.Decimal `json:"cost_price"`
	SalePrice decimal.Decimal `json:"sale_price"`
	Variants  []VariantInput  `json:"variants"`
}

// UpdateProductInput replaces the product, including its variant list and counters.
type UpdateProductInput struct {
	ID        string          `json:"id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	CostPrice decimal.Decimal `json:"cost_price"`
	SalePrice decimal.Decimal `json:"sale_price"`
	Variants  []VariantInput  `json:"variants"`
}

// ProductFilters narrows ListProducts. SearchQuery matches name or sku.
type ProductFilters struct {
	Category    string
	SearchQuery string
	SortBy      string // name, price, created_at
	SortOrder   string
	Page        int
	PageSize    int
}

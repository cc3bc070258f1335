package dto

import (
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/model"
)

type MovementFilters struct {
	ProductID    string
	Location     model.Location
	MovementType model.MovementType
	ReferenceID  string
	StartDate    *time.Time
	EndDate      *time.Time
	Page         int
	PageSize     int
}

// StockRow is one line of the inventory matrix.
type StockRow struct {
	ProductID   string            `json:"product_id"`
	ProductName string            `json:"product_name"`
	VariantID   string            `json:"variant_id"`
	Size        string            `json:"size"`
	UniqueCode  string            `json:"unique_code"`
	Stock       model.StockLevels `json:"stock"`
	Total       int               `json:"total"`
}

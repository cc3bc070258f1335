package dto

import (
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/model"
)

type ExpenseFilters struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  model.ExpenseCategory
	Page      int
	PageSize  int
}

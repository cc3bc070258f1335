package dto

import (
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/model"
)

type SaleFilters struct {
	StartDate  *time.Time
	EndDate    *time.Time
	Status     model.SaleStatus
	Channel    model.Channel
	CustomerID string
	ProductID  string
	Page       int
	PageSize   int
}

package dto

import (
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/shopspring/decimal"
)

// RecordSaleInput identifies the line item by UniqueCode, ProductID or ItemName,
// tried in that order. Zero values mean "not supplied".
type RecordSaleInput struct {
	UniqueCode string          `json:"unique_code"`
	ProductID  string          `json:"product_id"`
	ItemName   string          `json:"item_name"`
	Size       string          `json:"size"`
	Channel    model.Channel   `json:"channel"`
	Quantity   int             `json:"quantity"`
	Amount     decimal.Decimal `json:"amount"`
	Date       *time.Time      `json:"date"`

	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerAddress string `json:"customer_address"`
	CustomerType    string `json:"customer_type"`

	UserID string `json:"-"`
}

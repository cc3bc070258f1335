package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type SaleStatus string

const (
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusReturned  SaleStatus = "returned"
)

type Sale struct {
	ID          string          `db:"id" json:"id"`
	ProductID   string          `db:"product_id" json:"product_id"`
	ProductName string          `db:"product_name" json:"product_name"`
	Size        string          `db:"size" json:"size"`
	Channel     Channel         `db:"channel" json:"channel"`
	Quantity    int             `db:"quantity" json:"quantity"`
	TotalAmount decimal.Decimal `db:"total_amount" json:"total_amount"`
	Date        time.Time       `db:"date" json:"date"`
	Status      SaleStatus      `db:"status" json:"status"`
	ReturnedAt  *time.Time      `db:"returned_at" json:"returned_at,omitempty"`

	CustomerID      string `db:"customer_id" json:"customer_id"`
	CustomerName    string `db:"customer_name" json:"customer_name"`
	CustomerPhone   string `db:"customer_phone" json:"customer_phone"`
	CustomerAddress string `db:"customer_address" json:"customer_address"`
	CustomerType    string `db:"customer_type" json:"customer_type"`
}

func (s *Sale) IsReturned() bool {
	return s.Status == SaleStatusReturned
}

// Revenue is what the sale contributes to totals; returned sales count zero.
func (s *Sale) Revenue() decimal.Decimal {
	if s.IsReturned() {
		return decimal.Zero
	}
	return s.TotalAmount
}

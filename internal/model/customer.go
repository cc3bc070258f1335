package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CustomerTypeCustomer   = "customer"
	CustomerTypeInfluencer = "influencer"
	CustomerTypeTalent     = "talent"
)

// Walk-in sentinel used when a sale carries no customer name.
const (
	WalkInCustomerID   = "walk-in"
	WalkInCustomerName = "Walk-in Customer"
)

type Customer struct {
	BaseModel
	Name    string `db:"name" json:"name"`
	Phone   string `db:"phone" json:"phone"`
	Address string `db:"address" json:"address"`
	Type    string `db:"type" json:"type"`
	// TotalSpent is maintained incrementally by the sale and return flows.
	TotalSpent    decimal.Decimal `db:"total_spent" json:"total_spent"`
	LastOrderDate *time.Time      `db:"last_order_date" json:"last_order_date,omitempty"`
}

// HasPhone reports whether the phone is usable for matching.
func HasPhone(phone string) bool {
	return phone != "" && phone != "N/A"
}

package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type ExpenseCategory string

const (
	ExpenseSamples       ExpenseCategory = "samples"
	ExpenseMarketing     ExpenseCategory = "marketing"
	ExpenseDelivery      ExpenseCategory = "delivery"
	ExpenseTravel        ExpenseCategory = "travel"
	ExpenseProduction    ExpenseCategory = "production"
	ExpenseManufacturing ExpenseCategory = "manufacturing"
	ExpenseOther         ExpenseCategory = "other"
)

var ExpenseCategories = []ExpenseCategory{
	ExpenseSamples, ExpenseMarketing, ExpenseDelivery, ExpenseTravel,
	ExpenseProduction, ExpenseManufacturing, ExpenseOther,
}

func ParseExpenseCategory(s string) (ExpenseCategory, bool) {
	c := ExpenseCategory(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ExpenseCategories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

type Expense struct {
	ID          string          `db:"id" json:"id"`
	Category    ExpenseCategory `db:"category" json:"category"`
	Description string          `db:"description" json:"description"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Date        time.Time       `db:"date" json:"date"`
}

package assistant

import (
	"context"

	"github.com/shopspring/decimal"
)

const (
	ActionSale        = "sale"
	ActionExpense     = "expense"
	ActionTransfer    = "transfer"
	ActionProductDrop = "product_drop"
	ActionNone        = "none"
)

// Action is the structured reading of one line of operator text.
type Action struct {
	Type string     `json:"type"`
	Data ActionData `json:"data"`
}

// ActionData is the loose bag the model fills in. Typed commands are built from it.
type ActionData struct {
	Amount          decimal.Decimal `json:"amount"`
	ItemName        string          `json:"itemName"`
	UniqueCode      string          `json:"uniqueCode"`
	Size            string          `json:"size"`
	CustomerName    string          `json:"customerName"`
	CustomerPhone   string          `json:"customerPhone"`
	CustomerAddress string          `json:"customerAddress"`
	CustomerType    string          `json:"customerType"`
	Category        string          `json:"category"`
	Description     string          `json:"description"`
	From            string          `json:"from"`
	To              string          `json:"to"`
	Quantity        float64         `json:"quantity"`
	Channel         string          `json:"channel"`
	SKU             string          `json:"sku"`
	CostPrice       decimal.Decimal `json:"costPrice"`
	SalePrice       decimal.Decimal `json:"salePrice"`
}

// Parser turns free text into an Action. Network and format failures come back as errors.
type Parser interface {
	Parse(ctx context.Context, text string) (*Action, error)
}

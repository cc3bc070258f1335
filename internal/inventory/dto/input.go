package dto

import "github.com/fekuna/omnipos-retail-service/internal/model"

type TransferStockInput struct {
	ProductID string         `json:"product_id"`
	Size      string         `json:"size"`
	From      model.Location `json:"from"`
	To        model.Location `json:"to"`
	Quantity  int            `json:"quantity"`
	Notes     string         `json:"notes"`
	UserID    string         `json:"-"`
}

type AdjustStockInput struct {
	ProductID      string         `json:"product_id"`
	Size           string         `json:"size"`
	Location       model.Location `json:"location"`
	QuantityChange int            `json:"quantity_change"`
	Reason         string         `json:"reason"`
	UserID         string         `json:"-"`
}

// TransferResult reports both counters after a successful transfer.
type TransferResult struct {
	ReferenceID string         `json:"reference_id"`
	ProductID   string         `json:"product_id"`
	Size        string         `json:"size"`
	From        model.Location `json:"from"`
	To          model.Location `json:"to"`
	Quantity    int            `json:"quantity"`
	FromAfter   int            `json:"from_after"`
	ToAfter     int            `json:"to_after"`
}

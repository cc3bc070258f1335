package dto

import (
	inventoryDto "github.com/fekuna/omnipos-retail-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
)

type ConsoleInput struct {
	Text   string `json:"text"`
	UserID string `json:"-"`
}

// ConsoleResult reports what the console did. Consumed is false when the
// text could not be understood and the operator should edit and retry.
type ConsoleResult struct {
	Action   string                       `json:"action"`
	Consumed bool                         `json:"consumed"`
	Message  string                       `json:"message"`
	Sale     *model.Sale                  `json:"sale,omitempty"`
	Transfer *inventoryDto.TransferResult `json:"transfer,omitempty"`
	Expense  *model.Expense               `json:"expense,omitempty"`
	Product  *model.Product               `json:"product,omitempty"`
}

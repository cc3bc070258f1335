package inventory

import (
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/inventory/dto"
)

const EventStockTransferred = "stock.transferred"

type Event struct {
	EventID   string              `json:"event_id"`
	EventType string              `json:"event_type"`
	Payload   *dto.TransferResult `json:"payload"`
	Timestamp time.Time           `json:"timestamp"`
}

// LockKey is shared by every flow that mutates a product's counters.
func LockKey(productID string) string {
	return "lock:inventory:" + productID
}

func (e Event) Type() string { return e.EventType }

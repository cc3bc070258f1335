package sale

import (
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/model"
)

const (
	EventSaleRecorded = "sale.recorded"
	EventSaleReturned = "sale.returned"
)

type Event struct {
	EventID   string      `json:"event_id"`
	EventType string      `json:"event_type"`
	Payload   *model.Sale `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

func (e Event) Type() string { return e.EventType }

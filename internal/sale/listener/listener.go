package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/auth"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/sale"
	"github.com/fekuna/omnipos-retail-service/internal/sale/dto"
	"github.com/fekuna/omnipos-retail-service/pkg/broker"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const EventOrderCreated = "OrderCreated"

// OrderListener turns storefront orders into online sales.
type OrderListener struct {
	consumer broker.MessageReader
	uc       sale.UseCase
	logger   logger.ZapLogger
	backoff  time.Duration
}

func NewOrderListener(consumer broker.MessageReader, uc sale.UseCase, logger logger.ZapLogger) *OrderListener {
	return &OrderListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
		backoff:  time.Second,
	}
}

func (l *OrderListener) Start(ctx context.Context) {
	l.logger.Info("Starting order Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping order Kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(l.backoff):
				}
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type OrderCreatedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID       string             `json:"id"`
	Customer CustomerPayload    `json:"customer"`
	Items    []OrderItemPayload `json:"items"`
}

type CustomerPayload struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type OrderItemPayload struct {
	ProductID  string          `json:"product_id"`
	UniqueCode string          `json:"unique_code"`
	Size       string          `json:"size"`
	Quantity   int             `json:"quantity"`
	Amount     decimal.Decimal `json:"amount"`
}

func (l *OrderListener) processMessage(ctx context.Context, value []byte) {
	var event OrderCreatedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}
	if event.EventType != EventOrderCreated {
		return
	}

	l.logger.Info("Processing OrderCreated event", zap.String("order_id", event.Payload.ID), zap.Int("items", len(event.Payload.Items)))

	var date *time.Time
	if !event.Timestamp.IsZero() {
		date = &event.Timestamp
	}
	for _, item := range event.Payload.Items {
		input := &dto.RecordSaleInput{
			UniqueCode:      item.UniqueCode,
			ProductID:       item.ProductID,
			Size:            item.Size,
			Channel:         model.ChannelOnline,
			Quantity:        item.Quantity,
			Amount:          item.Amount,
			Date:            date,
			CustomerName:    event.Payload.Customer.Name,
			CustomerPhone:   event.Payload.Customer.Phone,
			CustomerAddress: event.Payload.Customer.Address,
			UserID:          auth.SystemOperator,
		}
		if _, err := l.uc.RecordSale(ctx, input); err != nil {
			l.logger.Error("Failed to record sale for order item",
				zap.String("order_id", event.Payload.ID),
				zap.String("product_id", item.ProductID),
				zap.String("code", item.UniqueCode),
				zap.Error(err),
			)
		}
	}
}

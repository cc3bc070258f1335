package listener

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/sale/dto"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSaleUseCase struct {
	mock.Mock
}

func (m *mockSaleUseCase) RecordSale(ctx context.Context, input *dto.RecordSaleInput) (*model.Sale, error) {
	args := m.Called(ctx, input)
	s, _ := args.Get(0).(*model.Sale)
	return s, args.Error(1)
}

func (m *mockSaleUseCase) MarkReturn(ctx context.Context, id string) (*model.Sale, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*model.Sale)
	return s, args.Error(1)
}

func (m *mockSaleUseCase) GetSale(ctx context.Context, id string) (*model.Sale, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*model.Sale)
	return s, args.Error(1)
}

func (m *mockSaleUseCase) ListSales(ctx context.Context, f *dto.SaleFilters) ([]model.Sale, int, error) {
	args := m.Called(ctx, f)
	s, _ := args.Get(0).([]model.Sale)
	return s, args.Int(1), args.Error(2)
}

// fakeReader hands out queued messages, then blocks until the context ends.
type fakeReader struct {
	msgs chan kafka.Message
}

func (f *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-f.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (f *fakeReader) Close() error { return nil }

func orderMessage(t *testing.T, eventType string) kafka.Message {
	t.Helper()
	b, err := json.Marshal(OrderCreatedEvent{
		EventID:   "evt-1",
		EventType: eventType,
		Payload: OrderPayload{
			ID:       "order-9",
			Customer: CustomerPayload{Name: "Asha", Phone: "98100"},
			Items: []OrderItemPayload{
				{UniqueCode: "TEE-M", Quantity: 1, Amount: decimal.NewFromInt(1000)},
				{ProductID: "p-hoodie", Size: "XL", Quantity: 2, Amount: decimal.NewFromInt(5000)},
			},
		},
		Timestamp: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return kafka.Message{Value: b}
}

func TestProcessMessage_RecordsOnlineSales(t *testing.T) {
	uc := &mockSaleUseCase{}
	uc.On("RecordSale", mock.Anything, mock.MatchedBy(func(in *dto.RecordSaleInput) bool {
		return in.UniqueCode == "TEE-M" && in.Channel == model.ChannelOnline && in.CustomerName == "Asha"
	})).Return(&model.Sale{ID: "s1"}, nil).Once()
	uc.On("RecordSale", mock.Anything, mock.MatchedBy(func(in *dto.RecordSaleInput) bool {
		return in.ProductID == "p-hoodie" && in.Size == "XL" && in.Quantity == 2 && in.Date != nil
	})).Return(nil, errors.New("out of luck")).Once()

	l := NewOrderListener(&fakeReader{}, uc, logger.NewNop())
	l.processMessage(context.Background(), orderMessage(t, EventOrderCreated).Value)

	uc.AssertExpectations(t)
}

func TestProcessMessage_IgnoresOtherEvents(t *testing.T) {
	uc := &mockSaleUseCase{}
	l := NewOrderListener(&fakeReader{}, uc, logger.NewNop())

	l.processMessage(context.Background(), orderMessage(t, "OrderCancelled").Value)
	l.processMessage(context.Background(), []byte("{not json"))

	uc.AssertNotCalled(t, "RecordSale", mock.Anything, mock.Anything)
}

func TestStart_StopsOnCancel(t *testing.T) {
	var calls atomic.Int32
	uc := &mockSaleUseCase{}
	uc.On("RecordSale", mock.Anything, mock.Anything).Return(&model.Sale{}, nil).Run(func(mock.Arguments) { calls.Add(1) })

	reader := &fakeReader{msgs: make(chan kafka.Message, 1)}
	reader.msgs <- orderMessage(t, EventOrderCreated)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewOrderListener(reader, uc, logger.NewNop()).Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 10*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("listener did not stop")
	}
}

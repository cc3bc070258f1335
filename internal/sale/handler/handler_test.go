package handler

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	saleUC "github.com/fekuna/omnipos-retail-service/internal/sale/usecase"
	"github.com/fekuna/omnipos-retail-service/internal/store/snapshot"
	"github.com/fekuna/omnipos-retail-service/pkg/cache"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/fekuna/omnipos-retail-service/pkg/middleware"
	"github.com/fekuna/omnipos-retail-service/pkg/rpc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func setup(t *testing.T) (*snapshot.Store, *grpc.ClientConn) {
	t.Helper()
	ctx := context.Background()
	log := logger.NewNop()

	s, err := snapshot.New(&snapshot.Config{}, log)
	require.NoError(t, err)
	require.NoError(t, s.Products().Create(ctx, &model.Product{
		BaseModel: model.BaseModel{ID: "p-tee", CreatedAt: time.Now()},
		Name:      "Classic Tee",
		CostPrice: decimal.NewFromInt(300),
		SalePrice: decimal.NewFromInt(1000),
		Variants: []model.Variant{
			{ID: "v-m", ProductID: "p-tee", Size: "M", UniqueCode: "TEE-M", Stock: model.StockLevels{model.LocationHub: 6, model.LocationStoreA: 4}},
		},
	}))

	h := NewSaleHandler(saleUC.NewSaleUseCase(s, cache.NewLocalLocker(), nil, log), log)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		middleware.ContextInterceptor(log),
		middleware.LoggingInterceptor(log),
	))
	h.Service().Register(srv)
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return s, conn
}

func TestSaleService_RecordAndReturn(t *testing.T) {
	s, conn := setup(t)
	ctx := metadata.AppendToOutgoingContext(context.Background(), middleware.HeaderOperatorID, "staff-1")

	var recorded SaleResponse
	err := rpc.Invoke(ctx, conn, "/retail.v1.SaleService/RecordSale", map[string]any{
		"unique_code":   "tee-m",
		"channel":       "store_a",
		"amount":        "1000",
		"customer_name": "Rahul",
	}, &recorded)
	require.NoError(t, err)
	require.NotNil(t, recorded.Sale)
	assert.Equal(t, model.Channel(model.LocationStoreA), recorded.Sale.Channel)
	assert.True(t, decimal.NewFromInt(1000).Equal(recorded.Sale.TotalAmount))

	q, err := s.Inventory().GetStock(ctx, "v-m", model.LocationStoreA)
	require.NoError(t, err)
	assert.Equal(t, 3, q)

	var returned SaleResponse
	require.NoError(t, rpc.Invoke(ctx, conn, "/retail.v1.SaleService/MarkReturn", &SaleIDRequest{ID: recorded.Sale.ID}, &returned))
	assert.Equal(t, model.SaleStatusReturned, returned.Sale.Status)

	q, err = s.Inventory().GetStock(ctx, "v-m", model.LocationStoreA)
	require.NoError(t, err)
	assert.Equal(t, 4, q)

	var list ListSalesResponse
	require.NoError(t, rpc.Invoke(ctx, conn, "/retail.v1.SaleService/ListSales", &ListSalesRequest{Status: model.SaleStatusReturned}, &list))
	assert.Equal(t, 1, list.Total)
}

func TestSaleService_ErrorCodes(t *testing.T) {
	_, conn := setup(t)
	ctx := context.Background()

	var resp SaleResponse
	err := rpc.Invoke(ctx, conn, "/retail.v1.SaleService/GetSale", &SaleIDRequest{ID: "missing"}, &resp)
	assert.Equal(t, codes.NotFound, status.Code(err))

	err = rpc.Invoke(ctx, conn, "/retail.v1.SaleService/RecordSale", map[string]any{"unique_code": "TEE-M", "quantity": -1}, &resp)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	err = rpc.Invoke(ctx, conn, "/retail.v1.SaleService/RecordSale", map[string]any{"item_name": "jacket"}, &resp)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

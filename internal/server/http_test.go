package server

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/assistant"
	assistantUC "github.com/fekuna/omnipos-retail-service/internal/assistant/usecase"
	expenseUC "github.com/fekuna/omnipos-retail-service/internal/expense/usecase"
	inventoryUC "github.com/fekuna/omnipos-retail-service/internal/inventory/usecase"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	productUC "github.com/fekuna/omnipos-retail-service/internal/product/usecase"
	reportUC "github.com/fekuna/omnipos-retail-service/internal/report/usecase"
	saleDto "github.com/fekuna/omnipos-retail-service/internal/sale/dto"
	saleUC "github.com/fekuna/omnipos-retail-service/internal/sale/usecase"
	"github.com/fekuna/omnipos-retail-service/internal/store/snapshot"
	"github.com/fekuna/omnipos-retail-service/pkg/cache"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/fekuna/omnipos-retail-service/pkg/metrics"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubParser struct{}

func (stubParser) Parse(ctx context.Context, text string) (*assistant.Action, error) {
	return nil, assistant.ErrParse
}

func newServer(t *testing.T) *echo.Echo {
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
			{ID: "v-m", ProductID: "p-tee", Size: "M", UniqueCode: "TEE-M", Stock: model.StockLevels{model.LocationHub: 10}},
		},
	}))

	locker := cache.NewLocalLocker()
	products := productUC.NewProductUseCase(s.Products(), nil, nil, log)
	sales := saleUC.NewSaleUseCase(s, locker, nil, log)
	inv := inventoryUC.NewInventoryUseCase(s, locker, nil, log)
	expenses := expenseUC.NewExpenseUseCase(s.Expenses(), log)

	_, err = sales.RecordSale(ctx, &saleDto.RecordSaleInput{UniqueCode: "TEE-M", Amount: decimal.NewFromInt(1000), CustomerName: `Rahul "R" Singh`})
	require.NoError(t, err)

	return NewHTTPServer(Deps{
		Products: products,
		Sales:    sales,
		Expenses: expenses,
		Reports:  reportUC.NewReportUseCase(s, inv, 0, log),
		Console: assistantUC.NewConsoleUseCase(assistantUC.Deps{
			Parser: stubParser{}, Products: products, Catalog: s.Products(),
			Sales: sales, Inventory: inv, Expenses: expenses,
		}, log),
		Metrics: metrics.New("retail"),
	}, log)
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndMetrics(t *testing.T) {
	e := newServer(t)

	rec := do(e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	rec = do(e, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `path="/health"`)
}

func TestHealth_NotReady(t *testing.T) {
	e := NewHTTPServer(Deps{Ready: func(context.Context) error { return errors.New("db down") }}, logger.NewNop())

	rec := do(e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestScan(t *testing.T) {
	e := newServer(t)

	rec := do(e, http.MethodGet, "/api/scan/tee-m", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Product model.Product `json:"product"`
		Variant model.Variant `json:"variant"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Classic Tee", body.Product.Name)
	assert.Equal(t, 9, body.Variant.Stock[model.LocationHub])

	rec = do(e, http.MethodGet, "/api/scan/NOPE-XL", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboard(t *testing.T) {
	e := newServer(t)

	rec := do(e, http.MethodGet, "/api/dashboard?preset=all", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var d struct {
		Revenue    decimal.Decimal `json:"revenue"`
		SalesCount int             `json:"sales_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.True(t, decimal.NewFromInt(1000).Equal(d.Revenue))
	assert.Equal(t, 1, d.SalesCount)

	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/api/dashboard?start=03/01/2025", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/api/dashboard?preset=autumn", "").Code)
}

func TestExportSales(t *testing.T) {
	e := newServer(t)

	rec := do(e, http.MethodGet, "/api/export/sales.csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), `filename="sales_`)

	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Sale Id", rows[0][1])
	assert.Equal(t, `Rahul "R" Singh`, rows[1][2])

	rec = do(e, http.MethodGet, "/api/export/expenses.csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Date,Category,Description,Amount"))
}

func TestConsole_NotUnderstood(t *testing.T) {
	e := newServer(t)

	rec := do(e, http.MethodPost, "/api/console", `{"text":"blah"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var res struct {
		Action   string `json:"action"`
		Consumed bool   `json:"consumed"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, assistant.ActionNone, res.Action)
	assert.False(t, res.Consumed)
}

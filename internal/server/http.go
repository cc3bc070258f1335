package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/assistant"
	assistantDto "github.com/fekuna/omnipos-retail-service/internal/assistant/dto"
	"github.com/fekuna/omnipos-retail-service/internal/auth"
	"github.com/fekuna/omnipos-retail-service/internal/expense"
	expenseDto "github.com/fekuna/omnipos-retail-service/internal/expense/dto"
	"github.com/fekuna/omnipos-retail-service/internal/export"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/product"
	"github.com/fekuna/omnipos-retail-service/internal/report"
	reportDto "github.com/fekuna/omnipos-retail-service/internal/report/dto"
	reportUC "github.com/fekuna/omnipos-retail-service/internal/report/usecase"
	"github.com/fekuna/omnipos-retail-service/internal/sale"
	saleDto "github.com/fekuna/omnipos-retail-service/internal/sale/dto"
	"github.com/fekuna/omnipos-retail-service/internal/transport"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/fekuna/omnipos-retail-service/pkg/metrics"
	"github.com/fekuna/omnipos-retail-service/pkg/middleware"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type Deps struct {
	Products product.UseCase
	Sales    sale.UseCase
	Expenses expense.UseCase
	Reports  report.UseCase
	Console  assistant.UseCase
	Metrics  *metrics.Metrics
	// Ready reports whether the backing store is reachable. Nil means always ready.
	Ready func(ctx context.Context) error
}

type httpHandler struct {
	Deps
	logger logger.ZapLogger
	now    func() time.Time
}

// NewHTTPServer builds the operations surface: health, metrics, dashboard,
// QR lookup, CSV exports and the console.
func NewHTTPServer(d Deps, log logger.ZapLogger) *echo.Echo {
	h := &httpHandler{Deps: d, logger: log, now: time.Now}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = h.errorHandler

	e.Use(middleware.RequestIDMiddleware(log))
	if d.Metrics != nil {
		e.Use(d.Metrics.Middleware())
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}
	e.Use(middleware.AccessLogMiddleware(log))

	e.GET("/health", h.health)

	api := e.Group("/api")
	api.GET("/dashboard", h.dashboard)
	api.GET("/scan/:code", h.scan)
	api.GET("/export/sales.csv", h.exportSales)
	api.GET("/export/expenses.csv", h.exportExpenses)
	api.POST("/console", h.console)
	return e
}

func (h *httpHandler) health(c echo.Context) error {
	if h.Ready != nil {
		if err := h.Ready(c.Request().Context()); err != nil {
			logger.FromEcho(c, h.logger).Warn("health check failed", zap.Error(err))
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// rangeInput reads preset, start and end query parameters.
func rangeInput(c echo.Context) (*reportDto.DashboardInput, error) {
	in := &reportDto.DashboardInput{Preset: c.QueryParam("preset")}
	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"start", &in.Start}, {"end", &in.End}} {
		v := c.QueryParam(p.name)
		if v == "" {
			continue
		}
		t, err := time.ParseInLocation(dateLayout, v, time.Local)
		if err != nil {
			return nil, model.Invalidf("%s must be YYYY-MM-DD", p.name)
		}
		*p.dst = &t
	}
	return in, nil
}

func (h *httpHandler) dashboard(c echo.Context) error {
	in, err := rangeInput(c)
	if err != nil {
		return err
	}
	if v := c.QueryParam("low_stock_threshold"); v != "" {
		if err := echo.QueryParamsBinder(c).Int("low_stock_threshold", &in.LowStockThreshold).BindError(); err != nil {
			return model.Invalidf("low_stock_threshold must be a number")
		}
	}
	d, err := h.Reports.Dashboard(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

func (h *httpHandler) scan(c echo.Context) error {
	p, v, err := h.Products.FindByCode(c.Request().Context(), c.Param("code"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"product": p, "variant": v})
}

func (h *httpHandler) exportSales(c echo.Context) error {
	in, err := rangeInput(c)
	if err != nil {
		return err
	}
	period, err := reportUC.Range(in, h.now())
	if err != nil {
		return err
	}
	sales, _, err := h.Sales.ListSales(c.Request().Context(), &saleDto.SaleFilters{StartDate: period.Start, EndDate: period.End})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := export.WriteSalesCSV(&buf, sales); err != nil {
		return err
	}
	return attachment(c, export.SalesFilename(h.now()), buf.Bytes())
}

func (h *httpHandler) exportExpenses(c echo.Context) error {
	in, err := rangeInput(c)
	if err != nil {
		return err
	}
	period, err := reportUC.Range(in, h.now())
	if err != nil {
		return err
	}
	items, _, err := h.Expenses.ListExpenses(c.Request().Context(), &expenseDto.ExpenseFilters{StartDate: period.Start, EndDate: period.End})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := export.WriteExpensesCSV(&buf, items); err != nil {
		return err
	}
	return attachment(c, export.ExpensesFilename(h.now()), buf.Bytes())
}

func attachment(c echo.Context, filename string, body []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", body)
}

func (h *httpHandler) console(c echo.Context) error {
	var in assistantDto.ConsoleInput
	if err := c.Bind(&in); err != nil {
		return model.Invalidf("invalid body")
	}
	in.UserID = auth.GetOperatorID(c.Request().Context())

	res, err := h.Console.Execute(c.Request().Context(), &in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *httpHandler) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		c.JSON(he.Code, map[string]any{"error": he.Message})
		return
	}

	code := transport.HTTPStatus(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		logger.FromEcho(c, h.logger).Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		msg = "internal error"
	}
	c.JSON(code, map[string]string{"error": msg})
}

package handler

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/auth"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/sale"
	"github.com/fekuna/omnipos-retail-service/internal/sale/dto"
	"github.com/fekuna/omnipos-retail-service/internal/transport"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/fekuna/omnipos-retail-service/pkg/rpc"
	"go.uber.org/zap"
)

const ServiceName = "retail.v1.SaleService"

type SaleHandler struct {
	uc     sale.UseCase
	logger logger.ZapLogger
}

func NewSaleHandler(uc sale.UseCase, log logger.ZapLogger) *SaleHandler {
	return &SaleHandler{uc: uc, logger: log}
}

func (h *SaleHandler) Service() *rpc.Service {
	svc := rpc.NewService(ServiceName)
	rpc.Unary(svc, "RecordSale", h.RecordSale)
	rpc.Unary(svc, "MarkReturn", h.MarkReturn)
	rpc.Unary(svc, "GetSale", h.GetSale)
	rpc.Unary(svc, "ListSales", h.ListSales)
	return svc
}

type SaleIDRequest struct {
	ID string `json:"id"`
}

type SaleResponse struct {
	Sale *model.Sale `json:"sale"`
}

type ListSalesRequest struct {
	StartDate  *time.Time       `json:"start_date"`
	EndDate    *time.Time       `json:"end_date"`
	Status     model.SaleStatus `json:"status"`
	Channel    model.Channel    `json:"channel"`
	CustomerID string           `json:"customer_id"`
	ProductID  string           `json:"product_id"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
}

type ListSalesResponse struct {
	Sales []model.Sale `json:"sales"`
	Total int          `json:"total"`
}

func (h *SaleHandler) RecordSale(ctx context.Context, req *dto.RecordSaleInput) (*SaleResponse, error) {
	req.UserID = auth.GetOperatorID(ctx)

	s, err := h.uc.RecordSale(ctx, req)
	if err != nil {
		h.logger.Error("failed to record sale",
			zap.String("code", req.UniqueCode),
			zap.String("item", req.ItemName),
			zap.Error(err),
		)
		return nil, transport.GRPCError(err)
	}
	return &SaleResponse{Sale: s}, nil
}

func (h *SaleHandler) MarkReturn(ctx context.Context, req *SaleIDRequest) (*SaleResponse, error) {
	s, err := h.uc.MarkReturn(ctx, req.ID)
	if err != nil {
		return nil, transport.GRPCError(err)
	}
	return &SaleResponse{Sale: s}, nil
}

func (h *SaleHandler) GetSale(ctx context.Context, req *SaleIDRequest) (*SaleResponse, error) {
	s, err := h.uc.GetSale(ctx, req.ID)
	if err != nil {
		return nil, transport.GRPCError(err)
	}
	return &SaleResponse{Sale: s}, nil
}

func (h *SaleHandler) ListSales(ctx context.Context, req *ListSalesRequest) (*ListSalesResponse, error) {
	items, total, err := h.uc.ListSales(ctx, &dto.SaleFilters{
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Status:     req.Status,
		Channel:    req.Channel,
		CustomerID: req.CustomerID,
		ProductID:  req.ProductID,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
	if err != nil {
		return nil, transport.GRPCError(err)
	}
	return &ListSalesResponse{Sales: items, Total: total}, nil
}

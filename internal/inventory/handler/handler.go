package handler

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/auth"
	"github.com/fekuna/omnipos-retail-service/internal/inventory"
	"github.com/fekuna/omnipos-retail-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/transport"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/fekuna/omnipos-retail-service/pkg/rpc"
	"go.uber.org/zap"
)

const ServiceName = "retail.v1.InventoryService"

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHandler) Service() *rpc.Service {
	svc := rpc.NewService(ServiceName)
	rpc.Unary(svc, "TransferStock", h.TransferStock)
	rpc.Unary(svc, "AdjustStock", h.AdjustStock)
	rpc.Unary(svc, "GetStockMatrix", h.GetStockMatrix)
	rpc.Unary(svc, "ListLowStock", h.ListLowStock)
	rpc.Unary(svc, "ListMovements", h.ListMovements)
	return svc
}

type TransferResponse struct {
	Transfer *dto.TransferResult `json:"transfer"`
}

type MovementResponse struct {
	Movement *model.StockMovement `json:"movement"`
}

type StockRowsResponse struct {
	Rows []dto.StockRow `json:"rows"`
}

type ListLowStockRequest struct {
	Location  model.Location `json:"location"`
	Threshold int            `json:"threshold"`
}

type ListMovementsRequest struct {
	ProductID    string             `json:"product_id"`
	Location     model.Location     `json:"location"`
	MovementType model.MovementType `json:"movement_type"`
	ReferenceID  string             `json:"reference_id"`
	StartDate    *time.Time         `json:"start_date"`
	EndDate      *time.Time         `json:"end_date"`
	Page         int                `json:"page"`
	PageSize     int                `json:"page_size"`
}

type ListMovementsResponse struct {
	Movements []model.StockMovement `json:"movements"`
	Total     int                   `json:"total"`
}

func (h *InventoryHandler) TransferStock(ctx context.Context, req *dto.TransferStockInput) (*TransferResponse, error) {
	req.UserID = auth.GetOperatorID(ctx)

	res, err := h.uc.TransferStock(ctx, req)
	if err != nil {
		h.logger.Warn("transfer rejected",
			zap.String("product_id", req.ProductID),
			zap.String("from", string(req.From)),
			zap.String("to", string(req.To)),
			zap.Error(err),
		)
		return nil, transport.GRPCError(err)
	}
	return &TransferResponse{Transfer: res}, nil
}

func (h *InventoryHandler) AdjustStock(ctx context.Context, req *dto.AdjustStockInput) (*MovementResponse, error) {
	req.UserID = auth.GetOperatorID(ctx)

	mv, err := h.uc.AdjustStock(ctx, req)
	if err != nil {
		return nil, transport.GRPCError(err)
	}
	return &MovementResponse{Movement: mv}, nil
}

func (h *InventoryHandler) GetStockMatrix(ctx context.Context, _ *Empty) (*StockRowsResponse, error) {
	rows, err := h.uc.StockMatrix(ctx)
	if err != nil {
		return nil, transport.GRPCError(err)
	}
	return &StockRowsResponse{Rows: rows}, nil
}

func (h *InventoryHandler) ListLowStock(ctx context.Context, req *ListLowStockRequest) (*StockRowsResponse, error) {
	rows, err := h.uc.ListLowStock(ctx, req.Location, req.Threshold)
	if err != nil {
		return nil, transport.GRPCError(err)
	}
	return &StockRowsResponse{Rows: rows}, nil
}

func (h *InventoryHandler) ListMovements(ctx context.Context, req *ListMovementsRequest) (*ListMovementsResponse, error) {
	items, total, err := h.uc.ListMovements(ctx, &dto.MovementFilters{
		ProductID:    req.ProductID,
		Location:     req.Location,
		MovementType: req.MovementType,
		ReferenceID:  req.ReferenceID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Page:         req.Page,
		PageSize:     req.PageSize,
	})
	if err != nil {
		return nil, transport.GRPCError(err)
	}
	return &ListMovementsResponse{Movements: items, Total: total}, nil
}

type Empty struct{}

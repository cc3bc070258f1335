package handler

import (
	"context"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/product"
	"github.com/fekuna/omnipos-retail-service/internal/product/dto"
	"github.com/fekuna/omnipos-retail-service/internal/transport"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/fekuna/omnipos-retail-service/pkg/rpc"
	"go.uber.org/zap"
)

const ServiceName = "retail.v1.ProductService"

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductHandler) Service() *rpc.Service {
	svc := rpc.NewService(ServiceName)
	rpc.Unary(svc, "CreateProduct", h.CreateProduct)
	rpc.Unary(svc, "GetProduct", h.GetProduct)
	rpc.Unary(svc, "ListProducts", h.ListProducts)
	rpc.Unary(svc, "UpdateProduct", h.UpdateProduct)
	rpc.Unary(svc, "DeleteProduct", h.DeleteProduct)
	rpc.Unary(svc, "ScanCode", h.ScanCode)
	return svc
}

type GetProductRequest struct {
	ID string `json:"id"`
}

type ProductResponse struct {
	Product *model.Product `json:"product"`
}

type ListProductsRequest struct {
	Category  string `json:"category"`
	Query     string `json:"query"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
	Page      int    `json:"page"`
	PageSize  int    `json:"page_size"`
}

type ListProductsResponse struct {
	Products []model.Product `json:"products"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

type ScanCodeRequest struct {
	Code string `json:"code"`
}

type ScanCodeResponse struct {
	Product *model.Product `json:"product"`
	Variant *model.Variant `json:"variant"`
}

type Empty struct{}

func (h *ProductHandler) CreateProduct(ctx context.Context, req *dto.CreateProductInput) (*ProductResponse, error) {
	p, err := h.uc.AddProduct(ctx, req)
	if err != nil {
		h.logger.Error("failed to create product", zap.String("name", req.Name), zap.Error(err))
		return nil, transport.GRPCError(err)
	}
	return &ProductResponse{Product: p}, nil
}

func (h *ProductHandler) GetProduct(ctx context.Context, req *GetProductRequest) (*ProductResponse, error) {
	p, err := h.uc.GetProduct(ctx, req.ID)
	if err != nil {
		return nil, transport.GRPCError(err)
	}
	return &ProductResponse{Product: p}, nil
}

func (h *ProductHandler) ListProducts(ctx context.Context, req *ListProductsRequest) (*ListProductsResponse, error) {
	filters := &dto.ProductFilters{
		Category:    req.Category,
		SearchQuery: req.Query,
		SortBy:      req.SortBy,
		SortOrder:   req.SortOrder,
		Page:        req.Page,
		PageSize:    req.PageSize,
	}

	products, count, err := h.uc.ListProducts(ctx, filters)
	if err != nil {
		return nil, transport.GRPCError(err)
	}
	return &ListProductsResponse{
		Products: products,
		Total:    count,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

func (h *ProductHandler) UpdateProduct(ctx context.Context, req *dto.UpdateProductInput) (*ProductResponse, error) {
	p, err := h.uc.UpdateProduct(ctx, req)
	if err != nil {
		h.logger.Error("failed to update product", zap.String("product_id", req.ID), zap.Error(err))
		return nil, transport.GRPCError(err)
	}
	return &ProductResponse{Product: p}, nil
}

func (h *ProductHandler) DeleteProduct(ctx context.Context, req *GetProductRequest) (*Empty, error) {
	if err := h.uc.DeleteProduct(ctx, req.ID); err != nil {
		return nil, transport.GRPCError(err)
	}
	return &Empty{}, nil
}

func (h *ProductHandler) ScanCode(ctx context.Context, req *ScanCodeRequest) (*ScanCodeResponse, error) {
	p, v, err := h.uc.FindByCode(ctx, req.Code)
	if err != nil {
		return nil, transport.GRPCError(err)
	}
	return &ScanCodeResponse{Product: p, Variant: v}, nil
}

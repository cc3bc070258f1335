package handler

import (
	"context"

	"github.com/fekuna/omnipos-retail-service/internal/customer"
	"github.com/fekuna/omnipos-retail-service/internal/customer/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/transport"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/fekuna/omnipos-retail-service/pkg/rpc"
)

const ServiceName = "retail.v1.CustomerService"

type CustomerHandler struct {
	uc     customer.UseCase
	logger logger.ZapLogger
}

func NewCustomerHandler(uc customer.UseCase, log logger.ZapLogger) *CustomerHandler {
	return &CustomerHandler{uc: uc, logger: log}
}

func (h *CustomerHandler) Service() *rpc.Service {
	svc := rpc.NewService(ServiceName)
	rpc.Unary(svc, "GetCustomer", h.GetCustomer)
	rpc.Unary(svc, "ListCustomers", h.ListCustomers)
	rpc.Unary(svc, "UpdateCustomer", h.UpdateCustomer)
	return svc
}

type GetCustomerRequest struct {
	ID string `json:"id"`
}

type CustomerResponse struct {
	Customer *model.Customer `json:"customer"`
}

type ListCustomersRequest struct {
	Type      string `json:"type"`
	Query     string `json:"query"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
	Page      int    `json:"page"`
	PageSize  int    `json:"page_size"`
}

type ListCustomersResponse struct {
	Customers []model.Customer `json:"customers"`
	Total     int              `json:"total"`
}

func (h *CustomerHandler) GetCustomer(ctx context.Context, req *GetCustomerRequest) (*CustomerResponse, error) {
	c, err := h.uc.GetCustomer(ctx, req.ID)
	if err != nil {
		return nil, transport.GRPCError(err)
	}
	return &CustomerResponse{Customer: c}, nil
}

func (h *CustomerHandler) ListCustomers(ctx context.Context, req *ListCustomersRequest) (*ListCustomersResponse, error) {
	items, total, err := h.uc.ListCustomers(ctx, &dto.CustomerFilters{
		Type:        req.Type,
		SearchQuery: req.Query,
		SortBy:      req.SortBy,
		SortOrder:   req.SortOrder,
		Page:        req.Page,
		PageSize:    req.PageSize,
	})
	if err != nil {
		return nil, transport.GRPCError(err)
	}
	return &ListCustomersResponse{Customers: items, Total: total}, nil
}

func (h *CustomerHandler) UpdateCustomer(ctx context.Context, req *dto.UpdateCustomerInput) (*CustomerResponse, error) {
	c, err := h.uc.UpdateCustomer(ctx, req)
	if err != nil {
		return nil, transport.GRPCError(err)
	}
	return &CustomerResponse{Customer: c}, nil
}

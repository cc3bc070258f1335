package handler

import (
	"context"

	"github.com/fekuna/omnipos-retail-service/internal/report"
	"github.com/fekuna/omnipos-retail-service/internal/report/dto"
	"github.com/fekuna/omnipos-retail-service/internal/transport"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/fekuna/omnipos-retail-service/pkg/rpc"
)

const ServiceName = "retail.v1.ReportService"

type ReportHandler struct {
	uc     report.UseCase
	logger logger.ZapLogger
}

func NewReportHandler(uc report.UseCase, log logger.ZapLogger) *ReportHandler {
	return &ReportHandler{uc: uc, logger: log}
}

func (h *ReportHandler) Service() *rpc.Service {
	svc := rpc.NewService(ServiceName)
	rpc.Unary(svc, "GetDashboard", h.GetDashboard)
	return svc
}

func (h *ReportHandler) GetDashboard(ctx context.Context, req *dto.DashboardInput) (*dto.Dashboard, error) {
	d, err := h.uc.Dashboard(ctx, req)
	if err != nil {
		return nil, transport.GRPCError(err)
	}
	return d, nil
}

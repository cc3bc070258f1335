package handler

import (
	"context"

	"github.com/fekuna/omnipos-retail-service/internal/assistant"
	"github.com/fekuna/omnipos-retail-service/internal/assistant/dto"
	"github.com/fekuna/omnipos-retail-service/internal/auth"
	"github.com/fekuna/omnipos-retail-service/internal/transport"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/fekuna/omnipos-retail-service/pkg/rpc"
	"go.uber.org/zap"
)

const ServiceName = "retail.v1.ConsoleService"

type ConsoleHandler struct {
	uc     assistant.UseCase
	logger logger.ZapLogger
}

func NewConsoleHandler(uc assistant.UseCase, log logger.ZapLogger) *ConsoleHandler {
	return &ConsoleHandler{uc: uc, logger: log}
}

func (h *ConsoleHandler) Service() *rpc.Service {
	svc := rpc.NewService(ServiceName)
	rpc.Unary(svc, "Execute", h.Execute)
	return svc
}

func (h *ConsoleHandler) Execute(ctx context.Context, req *dto.ConsoleInput) (*dto.ConsoleResult, error) {
	req.UserID = auth.GetOperatorID(ctx)

	res, err := h.uc.Execute(ctx, req)
	if err != nil {
		logger.FromContext(ctx, h.logger).Warn("console command failed", zap.Error(err))
		return nil, transport.GRPCError(err)
	}
	return res, nil
}

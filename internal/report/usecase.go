package report

import (
	"context"

	"github.com/fekuna/omnipos-retail-service/internal/report/dto"
)

type UseCase interface {
	Dashboard(ctx context.Context, input *dto.DashboardInput) (*dto.Dashboard, error)
}

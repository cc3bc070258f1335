package assistant

import (
	"context"

	"github.com/fekuna/omnipos-retail-service/internal/assistant/dto"
)

type UseCase interface {
	Execute(ctx context.Context, input *dto.ConsoleInput) (*dto.ConsoleResult, error)
}

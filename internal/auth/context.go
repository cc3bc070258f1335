package auth

import (
	"context"

	"github.com/fekuna/omnipos-retail-service/pkg/middleware"
	"google.golang.org/grpc/metadata"
)

// SystemOperator is recorded on movements that no staff member triggered.
const SystemOperator = "system"

// GetOperatorID returns the staff id set by the interceptors, falling back to
// raw metadata and finally to SystemOperator.
func GetOperatorID(ctx context.Context) string {
	if id := middleware.OperatorID(ctx); id != "" {
		return id
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if val := md.Get(middleware.HeaderOperatorID); len(val) > 0 && val[0] != "" {
			return val[0]
		}
	}
	return SystemOperator
}

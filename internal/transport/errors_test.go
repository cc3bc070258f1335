package transport

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/pkg/cache"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestGRPCError(t *testing.T) {
	tests := []struct {
		err  error
		code codes.Code
		http int
	}{
		{model.ErrSaleNotFound, codes.NotFound, http.StatusNotFound},
		{model.Invalidf("quantity must be positive"), codes.InvalidArgument, http.StatusBadRequest},
		{fmt.Errorf("code TEE-M: %w", model.ErrConflict), codes.AlreadyExists, http.StatusConflict},
		{fmt.Errorf("transfer: %w", model.ErrInsufficientStock), codes.FailedPrecondition, http.StatusUnprocessableEntity},
		{cache.ErrLockNotHeld, codes.Unavailable, http.StatusServiceUnavailable},
		{errors.New("pq: connection reset"), codes.Internal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			st, _ := status.FromError(GRPCError(tt.err))
			assert.Equal(t, tt.code, st.Code())
			assert.Equal(t, tt.http, HTTPStatus(tt.err))
		})
	}

	st, _ := status.FromError(GRPCError(errors.New("pq: connection reset")))
	assert.Equal(t, "internal error", st.Message())
	assert.NoError(t, GRPCError(nil))
}

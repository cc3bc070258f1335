package auth

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-retail-service/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/metadata"
)

func TestGetOperatorID(t *testing.T) {
	assert.Equal(t, SystemOperator, GetOperatorID(context.Background()))

	md := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-operator-id", "staff-2"))
	assert.Equal(t, "staff-2", GetOperatorID(md))

	assert.Equal(t, "staff-9", GetOperatorID(middleware.WithOperatorID(md, "staff-9")))
}

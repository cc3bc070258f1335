package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/customer/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/store/snapshot"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateCustomer(t *testing.T) {
	ctx := context.Background()
	s, err := snapshot.New(&snapshot.Config{}, logger.NewNop())
	require.NoError(t, err)
	repo := s.Customers()
	now := time.Now()
	for _, c := range []model.Customer{
		{BaseModel: model.BaseModel{ID: "c1", CreatedAt: now}, Name: "Rahul", Phone: "98110", Type: model.CustomerTypeCustomer, TotalSpent: decimal.NewFromInt(800)},
		{BaseModel: model.BaseModel{ID: "c2", CreatedAt: now}, Name: "Meera", Phone: "97000", Type: model.CustomerTypeInfluencer},
	} {
		c := c
		require.NoError(t, repo.Create(ctx, &c))
	}
	uc := NewCustomerUseCase(repo, logger.NewNop())

	got, err := uc.UpdateCustomer(ctx, &dto.UpdateCustomerInput{ID: "c1", Name: "Rahul K", Phone: "98111", Address: "Bandra", Type: "Talent"})
	require.NoError(t, err)
	assert.Equal(t, "talent", got.Type)
	assert.True(t, decimal.NewFromInt(800).Equal(got.TotalSpent), "spend is not editable")

	_, err = uc.UpdateCustomer(ctx, &dto.UpdateCustomerInput{ID: "c1", Name: "Rahul", Phone: "97000"})
	assert.ErrorIs(t, err, model.ErrConflict)

	_, err = uc.UpdateCustomer(ctx, &dto.UpdateCustomerInput{ID: "c1"})
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	_, err = uc.GetCustomer(ctx, "nope")
	assert.ErrorIs(t, err, model.ErrCustomerNotFound)

	list, total, err := uc.ListCustomers(ctx, &dto.CustomerFilters{Type: model.CustomerTypeInfluencer})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Meera", list[0].Name)
}

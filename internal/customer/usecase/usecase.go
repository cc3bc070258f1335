package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/customer"
	"github.com/fekuna/omnipos-retail-service/internal/customer/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"go.uber.org/zap"
)

type customerUseCase struct {
	repo   customer.Repository
	logger logger.ZapLogger
}

func NewCustomerUseCase(repo customer.Repository, log logger.ZapLogger) customer.UseCase {
	return &customerUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *customerUseCase) GetCustomer(ctx context.Context, id string) (*model.Customer, error) {
	c, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, model.ErrCustomerNotFound
	}
	return c, nil
}

func (uc *customerUseCase) ListCustomers(ctx context.Context, filters *dto.CustomerFilters) ([]model.Customer, int, error) {
	if filters == nil {
		filters = &dto.CustomerFilters{}
	}
	return uc.repo.FindAll(ctx, filters)
}

func (uc *customerUseCase) UpdateCustomer(ctx context.Context, input *dto.UpdateCustomerInput) (*model.Customer, error) {
	c, err := uc.GetCustomer(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, model.Invalidf("name is required")
	}
	phone := strings.TrimSpace(input.Phone)
	if model.HasPhone(phone) && phone != c.Phone {
		other, err := uc.repo.FindByPhone(ctx, phone)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != c.ID {
			return nil, fmt.Errorf("%w: phone %s belongs to %s", model.ErrConflict, phone, other.Name)
		}
	}

	c.Name = name
	c.Phone = phone
	c.Address = strings.TrimSpace(input.Address)
	if t := strings.ToLower(strings.TrimSpace(input.Type)); t != "" {
		c.Type = t
	}
	c.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	uc.logger.Debug("customer updated", zap.String("customer_id", c.ID))
	return c, nil
}

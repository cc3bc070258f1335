package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/inventory"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/product"
	"github.com/fekuna/omnipos-retail-service/internal/sale"
	"github.com/fekuna/omnipos-retail-service/internal/sale/dto"
	"github.com/fekuna/omnipos-retail-service/internal/store"
	"github.com/fekuna/omnipos-retail-service/pkg/broker"
	"github.com/fekuna/omnipos-retail-service/pkg/cache"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	lockTTL     = 5 * time.Second
	notProvided = "N/A"
)

type saleUseCase struct {
	store     store.Store
	locker    cache.Locker
	publisher broker.Publisher
	catalog   product.Refresher
	logger    logger.ZapLogger

	now                    func() time.Time
	fallbackToFirstProduct bool
}

type Option func(*saleUseCase)

func WithClock(now func() time.Time) Option {
	return func(uc *saleUseCase) { uc.now = now }
}

// WithFallbackToFirstProduct books unmatched sales against the first catalog
// product instead of rejecting them.
func WithFallbackToFirstProduct(enabled bool) Option {
	return func(uc *saleUseCase) { uc.fallbackToFirstProduct = enabled }
}

// WithCatalog refreshes cached product lists and search docs after stock moves.
func WithCatalog(r product.Refresher) Option {
	return func(uc *saleUseCase) { uc.catalog = r }
}

func NewSaleUseCase(st store.Store, locker cache.Locker, publisher broker.Publisher, log logger.ZapLogger, opts ...Option) sale.UseCase {
	if publisher == nil {
		publisher = broker.NewNop()
	}
	uc := &saleUseCase{
		store:     st,
		locker:    locker,
		publisher: publisher,
		logger:    log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func normalize(input *dto.RecordSaleInput) (model.Channel, int, error) {
	qty := input.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return "", 0, model.Invalidf("quantity must be positive, got %d", qty)
	}
	if input.Amount.IsNegative() {
		return "", 0, model.Invalidf("amount must not be negative")
	}
	channel := model.ChannelOnline
	if input.Channel != "" {
		c, ok := model.ParseChannel(string(input.Channel))
		if !ok {
			return "", 0, model.Invalidf("unknown channel %q", input.Channel)
		}
		channel = c
	}
	return channel, qty, nil
}

// resolveProduct tries the scan code, then the product id, then the item name.
func (uc *saleUseCase) resolveProduct(ctx context.Context, input *dto.RecordSaleInput) (*model.Product, *model.Variant, error) {
	repo := uc.store.Products()

	if code := strings.TrimSpace(input.UniqueCode); code != "" {
		p, err := repo.FindByVariantCode(ctx, code)
		if err != nil {
			return nil, nil, err
		}
		if p != nil {
			return p, p.VariantByCode(code), nil
		}
	}
	if input.ProductID != "" {
		p, err := repo.FindByID(ctx, input.ProductID)
		if err != nil {
			return nil, nil, err
		}
		if p != nil {
			return p, nil, nil
		}
	}
	if name := strings.TrimSpace(input.ItemName); name != "" {
		p, err := repo.FindByNameLike(ctx, name)
		if err != nil {
			return nil, nil, err
		}
		if p != nil {
			return p, nil, nil
		}
	}

	if uc.fallbackToFirstProduct {
		p, err := repo.FindFirst(ctx)
		if err != nil {
			return nil, nil, err
		}
		if p != nil {
			uc.logger.Warn("sale matched no product, using first catalog product",
				zap.String("item_name", input.ItemName),
				zap.String("unique_code", input.UniqueCode),
				zap.String("product_id", p.ID),
			)
			return p, nil, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: code=%q id=%q name=%q",
		model.ErrProductNotFound, input.UniqueCode, input.ProductID, input.ItemName)
}

func pickSize(input *dto.RecordSaleInput, p *model.Product, byCode *model.Variant) (string, error) {
	switch {
	case strings.TrimSpace(input.Size) != "":
		return strings.TrimSpace(input.Size), nil
	case byCode != nil:
		return byCode.Size, nil
	case len(p.Variants) > 0:
		return p.Variants[0].Size, nil
	}
	return "", fmt.Errorf("%w: %s has no sizes", model.ErrVariantNotFound, p.Name)
}

// resolveCustomer returns nil for a walk-in sale.
func (uc *saleUseCase) resolveCustomer(ctx context.Context, r store.Repos, input *dto.RecordSaleInput, now time.Time) (*model.Customer, error) {
	phone := strings.TrimSpace(input.CustomerPhone)
	name := strings.TrimSpace(input.CustomerName)

	if model.HasPhone(phone) {
		c, err := r.Customers().FindByPhone(ctx, phone)
		if err != nil || c != nil {
			return c, err
		}
	}
	if name == "" {
		return nil, nil
	}
	c, err := r.Customers().FindByName(ctx, name)
	if err != nil || c != nil {
		return c, err
	}

	c = &model.Customer{
		BaseModel:  model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:       name,
		Phone:      orNA(phone),
		Address:    orNA(input.CustomerAddress),
		Type:       customerType(input.CustomerType),
		TotalSpent: decimal.Zero,
	}
	if err := r.Customers().Create(ctx, c); err != nil {
		return nil, err
	}
	uc.logger.Info("customer created from sale", zap.String("customer_id", c.ID), zap.String("name", c.Name))
	return c, nil
}

func orNA(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return notProvided
	}
	return s
}

func customerType(s string) string {
	if s = strings.ToLower(strings.TrimSpace(s)); s == "" {
		return model.CustomerTypeCustomer
	}
	return s
}

func (uc *saleUseCase) RecordSale(ctx context.Context, input *dto.RecordSaleInput) (*model.Sale, error) {
	channel, qty, err := normalize(input)
	if err != nil {
		return nil, err
	}
	p, byCode, err := uc.resolveProduct(ctx, input)
	if err != nil {
		return nil, err
	}
	size, err := pickSize(input, p, byCode)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	date := now
	if input.Date != nil && !input.Date.IsZero() {
		date = *input.Date
	}
	loc := channel.StockLocation()

	var s *model.Sale
	err = cache.WithLock(ctx, uc.locker, inventory.LockKey(p.ID), lockTTL, func() error {
		return uc.store.WithinTx(ctx, func(r store.Repos) error {
			fresh, err := r.Products().FindByID(ctx, p.ID)
			if err != nil {
				return err
			}
			if fresh == nil {
				return model.ErrProductNotFound
			}
			v := fresh.VariantBySize(size)
			if v == nil {
				return fmt.Errorf("%w: size %s of %s", model.ErrVariantNotFound, size, fresh.Name)
			}

			cust, err := uc.resolveCustomer(ctx, r, input, now)
			if err != nil {
				return err
			}

			total := input.Amount
			if !total.IsPositive() {
				total = fresh.SalePrice.Mul(decimal.NewFromInt(int64(qty)))
			}
			s = &model.Sale{
				ID:           uuid.New().String(),
				ProductID:    fresh.ID,
				ProductName:  fresh.Name,
				Size:         v.Size,
				Channel:      channel,
				Quantity:     qty,
				TotalAmount:  total,
				Date:         date,
				Status:       model.SaleStatusCompleted,
				CustomerID:   model.WalkInCustomerID,
				CustomerName: model.WalkInCustomerName,
				CustomerType: customerType(input.CustomerType),
			}
			if cust != nil {
				s.CustomerID = cust.ID
				s.CustomerName = cust.Name
				s.CustomerPhone = cust.Phone
				s.CustomerAddress = cust.Address
				if input.CustomerType == "" && cust.Type != "" {
					s.CustomerType = cust.Type
				}
			}
			if err := r.Sales().Create(ctx, s); err != nil {
				return err
			}

			before := v.Stock[loc]
			if err := r.Inventory().DeductFloor(ctx, v.ID, loc, qty); err != nil {
				return err
			}
			after := max(0, before-qty)
			if err := r.Inventory().LogMovement(ctx, &model.StockMovement{
				ID:             uuid.New().String(),
				ProductID:      fresh.ID,
				VariantID:      v.ID,
				Size:           v.Size,
				Location:       loc,
				MovementType:   model.MovementSale,
				QuantityChange: after - before,
				QuantityBefore: before,
				QuantityAfter:  after,
				ReferenceType:  "sale",
				ReferenceID:    s.ID,
				CreatedBy:      input.UserID,
				CreatedAt:      now,
			}); err != nil {
				return err
			}
			if after-before > -qty {
				uc.logger.Warn("sale exceeded stock on hand, counter floored at zero",
					zap.String("sale_id", s.ID),
					zap.String("location", string(loc)),
					zap.Int("on_hand", before),
					zap.Int("quantity", qty),
				)
			}

			if cust != nil {
				return r.Customers().AddSpend(ctx, cust.ID, total, &date)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("sale recorded",
		zap.String("sale_id", s.ID),
		zap.String("product_id", s.ProductID),
		zap.String("size", s.Size),
		zap.String("channel", string(s.Channel)),
		zap.Int("quantity", s.Quantity),
		zap.String("total", s.TotalAmount.String()),
	)
	uc.refresh(ctx, s.ProductID)
	uc.publish(ctx, sale.EventSaleRecorded, s)
	return s, nil
}

func (uc *saleUseCase) MarkReturn(ctx context.Context, saleID string) (*model.Sale, error) {
	s, err := uc.store.Sales().FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, model.ErrSaleNotFound
	}
	if s.IsReturned() {
		return s, nil
	}

	flipped := false
	err = cache.WithLock(ctx, uc.locker, inventory.LockKey(s.ProductID), lockTTL, func() error {
		return uc.store.WithinTx(ctx, func(r store.Repos) error {
			now := uc.now()
			ok, err := r.Sales().MarkReturned(ctx, s.ID, now)
			if err != nil || !ok {
				return err
			}
			flipped = true
			s.Status = model.SaleStatusReturned
			s.ReturnedAt = &now

			if err := uc.restock(ctx, r, s, now); err != nil {
				return err
			}
			if s.CustomerID != "" && s.CustomerID != model.WalkInCustomerID {
				c, err := r.Customers().FindByID(ctx, s.CustomerID)
				if err != nil {
					return err
				}
				if c != nil {
					return r.Customers().AddSpend(ctx, c.ID, s.TotalAmount.Neg(), nil)
				}
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if !flipped {
		// another request returned it first
		return uc.store.Sales().FindByID(ctx, saleID)
	}

	uc.logger.Info("sale returned", zap.String("sale_id", s.ID), zap.Int("quantity", s.Quantity))
	uc.refresh(ctx, s.ProductID)
	uc.publish(ctx, sale.EventSaleReturned, s)
	return s, nil
}

func (uc *saleUseCase) refresh(ctx context.Context, productID string) {
	if uc.catalog != nil {
		uc.catalog.Refresh(ctx, productID)
	}
}

func (uc *saleUseCase) restock(ctx context.Context, r store.Repos, s *model.Sale, now time.Time) error {
	p, err := r.Products().FindByID(ctx, s.ProductID)
	if err != nil {
		return err
	}
	var v *model.Variant
	if p != nil {
		v = p.VariantBySize(s.Size)
	}
	if v == nil {
		uc.logger.Warn("returned item no longer in catalog, skipping restock",
			zap.String("sale_id", s.ID), zap.String("product_id", s.ProductID), zap.String("size", s.Size))
		return nil
	}

	loc := s.Channel.StockLocation()
	before := v.Stock[loc]
	if err := r.Inventory().Increment(ctx, v.ID, loc, s.Quantity); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil
		}
		return err
	}
	return r.Inventory().LogMovement(ctx, &model.StockMovement{
		ID:             uuid.New().String(),
		ProductID:      p.ID,
		VariantID:      v.ID,
		Size:           v.Size,
		Location:       loc,
		MovementType:   model.MovementReturn,
		QuantityChange: s.Quantity,
		QuantityBefore: before,
		QuantityAfter:  before + s.Quantity,
		ReferenceType:  "sale",
		ReferenceID:    s.ID,
		CreatedAt:      now,
	})
}

func (uc *saleUseCase) publish(ctx context.Context, eventType string, s *model.Sale) {
	event := sale.Event{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Payload:   s,
		Timestamp: uc.now(),
	}
	if err := uc.publisher.Publish(ctx, s.ID, event); err != nil {
		uc.logger.Warn("failed to publish sale event",
			zap.String("event_type", eventType), zap.String("sale_id", s.ID), zap.Error(err))
	}
}

func (uc *saleUseCase) GetSale(ctx context.Context, id string) (*model.Sale, error) {
	s, err := uc.store.Sales().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, model.ErrSaleNotFound
	}
	return s, nil
}

func (uc *saleUseCase) ListSales(ctx context.Context, filters *dto.SaleFilters) ([]model.Sale, int, error) {
	return uc.store.Sales().FindAll(ctx, filters)
}

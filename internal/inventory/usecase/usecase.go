package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/inventory"
	"github.com/fekuna/omnipos-retail-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/product"
	productDto "github.com/fekuna/omnipos-retail-service/internal/product/dto"
	"github.com/fekuna/omnipos-retail-service/internal/store"
	"github.com/fekuna/omnipos-retail-service/pkg/broker"
	"github.com/fekuna/omnipos-retail-service/pkg/cache"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	lockTTL                  = 5 * time.Second
	DefaultLowStockThreshold = 2
)

type inventoryUseCase struct {
	store     store.Store
	locker    cache.Locker
	publisher broker.Publisher
	catalog   product.Refresher
	logger    logger.ZapLogger
	now       func() time.Time
}

type Option func(*inventoryUseCase)

// WithCatalog refreshes cached product lists and search docs after stock moves.
func WithCatalog(r product.Refresher) Option {
	return func(uc *inventoryUseCase) { uc.catalog = r }
}

func NewInventoryUseCase(st store.Store, locker cache.Locker, publisher broker.Publisher, log logger.ZapLogger, opts ...Option) inventory.UseCase {
	if publisher == nil {
		publisher = broker.NewNop()
	}
	uc := &inventoryUseCase{
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

func (uc *inventoryUseCase) refresh(ctx context.Context, productID string) {
	if uc.catalog != nil {
		uc.catalog.Refresh(ctx, productID)
	}
}

func validateTransfer(input *dto.TransferStockInput) error {
	if input.ProductID == "" {
		return model.Invalidf("product_id is required")
	}
	if strings.TrimSpace(input.Size) == "" {
		return model.Invalidf("size is required")
	}
	if !input.From.Valid() {
		return model.Invalidf("unknown source location %q", input.From)
	}
	if !input.To.Valid() {
		return model.Invalidf("unknown destination location %q", input.To)
	}
	if input.From == input.To {
		return model.Invalidf("source and destination are both %s", input.From)
	}
	if input.Quantity <= 0 {
		return model.Invalidf("quantity must be positive, got %d", input.Quantity)
	}
	return nil
}

func (uc *inventoryUseCase) TransferStock(ctx context.Context, input *dto.TransferStockInput) (*dto.TransferResult, error) {
	if err := validateTransfer(input); err != nil {
		return nil, err
	}

	var result *dto.TransferResult
	err := cache.WithLock(ctx, uc.locker, inventory.LockKey(input.ProductID), lockTTL, func() error {
		return uc.store.WithinTx(ctx, func(r store.Repos) error {
			p, err := r.Products().FindByID(ctx, input.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return model.ErrProductNotFound
			}
			v := p.VariantBySize(input.Size)
			if v == nil {
				return fmt.Errorf("%w: size %s of %s", model.ErrVariantNotFound, input.Size, p.Name)
			}

			fromBefore, toBefore := v.Stock[input.From], v.Stock[input.To]
			ok, err := r.Inventory().DecrementIfEnough(ctx, v.ID, input.From, input.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %s has %d of %s %s, need %d",
					model.ErrInsufficientStock, input.From, fromBefore, p.Name, v.Size, input.Quantity)
			}
			if err := r.Inventory().Increment(ctx, v.ID, input.To, input.Quantity); err != nil {
				return err
			}

			refID := uuid.New().String()
			now := uc.now()
			out := &model.StockMovement{
				ID:             uuid.New().String(),
				ProductID:      p.ID,
				VariantID:      v.ID,
				Size:           v.Size,
				Location:       input.From,
				MovementType:   model.MovementTransferOut,
				QuantityChange: -input.Quantity,
				QuantityBefore: fromBefore,
				QuantityAfter:  fromBefore - input.Quantity,
				ReferenceType:  "transfer",
				ReferenceID:    refID,
				Notes:          input.Notes,
				CreatedBy:      input.UserID,
				CreatedAt:      now,
			}
			in := *out
			in.ID = uuid.New().String()
			in.Location = input.To
			in.MovementType = model.MovementTransferIn
			in.QuantityChange = input.Quantity
			in.QuantityBefore = toBefore
			in.QuantityAfter = toBefore + input.Quantity

			if err := r.Inventory().LogMovement(ctx, out); err != nil {
				return err
			}
			if err := r.Inventory().LogMovement(ctx, &in); err != nil {
				return err
			}

			result = &dto.TransferResult{
				ReferenceID: refID,
				ProductID:   p.ID,
				Size:        v.Size,
				From:        input.From,
				To:          input.To,
				Quantity:    input.Quantity,
				FromAfter:   out.QuantityAfter,
				ToAfter:     in.QuantityAfter,
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("stock transferred",
		zap.String("product_id", result.ProductID),
		zap.String("size", result.Size),
		zap.String("from", string(result.From)),
		zap.String("to", string(result.To)),
		zap.Int("quantity", result.Quantity),
	)
	uc.refresh(ctx, result.ProductID)
	uc.publish(ctx, result)
	return result, nil
}

func (uc *inventoryUseCase) publish(ctx context.Context, result *dto.TransferResult) {
	event := inventory.Event{
		EventID:   uuid.New().String(),
		EventType: inventory.EventStockTransferred,
		Payload:   result,
		Timestamp: uc.now(),
	}
	if err := uc.publisher.Publish(ctx, result.ProductID, event); err != nil {
		uc.logger.Warn("failed to publish transfer event", zap.String("reference_id", result.ReferenceID), zap.Error(err))
	}
}

func (uc *inventoryUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.StockMovement, error) {
	if !input.Location.Valid() {
		return nil, model.Invalidf("unknown location %q", input.Location)
	}
	if input.QuantityChange == 0 {
		return nil, model.Invalidf("quantity_change must not be zero")
	}

	var movement *model.StockMovement
	err := cache.WithLock(ctx, uc.locker, inventory.LockKey(input.ProductID), lockTTL, func() error {
		return uc.store.WithinTx(ctx, func(r store.Repos) error {
			p, err := r.Products().FindByID(ctx, input.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return model.ErrProductNotFound
			}
			v := p.VariantBySize(input.Size)
			if v == nil {
				return model.ErrVariantNotFound
			}

			before := v.Stock[input.Location]
			if input.QuantityChange > 0 {
				err = r.Inventory().Increment(ctx, v.ID, input.Location, input.QuantityChange)
			} else {
				var ok bool
				ok, err = r.Inventory().DecrementIfEnough(ctx, v.ID, input.Location, -input.QuantityChange)
				if err == nil && !ok {
					err = fmt.Errorf("%w: %s has %d", model.ErrInsufficientStock, input.Location, before)
				}
			}
			if err != nil {
				return err
			}

			movement = &model.StockMovement{
				ID:             uuid.New().String(),
				ProductID:      p.ID,
				VariantID:      v.ID,
				Size:           v.Size,
				Location:       input.Location,
				MovementType:   model.MovementAdjustment,
				QuantityChange: input.QuantityChange,
				QuantityBefore: before,
				QuantityAfter:  before + input.QuantityChange,
				Notes:          input.Reason,
				CreatedBy:      input.UserID,
				CreatedAt:      uc.now(),
			}
			return r.Inventory().LogMovement(ctx, movement)
		})
	})
	if err != nil {
		return nil, err
	}
	uc.refresh(ctx, movement.ProductID)
	return movement, nil
}

func (uc *inventoryUseCase) StockMatrix(ctx context.Context) ([]dto.StockRow, error) {
	products, _, err := uc.store.Products().FindAll(ctx, &productDto.ProductFilters{})
	if err != nil {
		return nil, err
	}
	rows := make([]dto.StockRow, 0, len(products))
	for _, p := range products {
		for _, v := range p.Variants {
			rows = append(rows, dto.StockRow{
				ProductID:   p.ID,
				ProductName: p.Name,
				VariantID:   v.ID,
				Size:        v.Size,
				UniqueCode:  v.UniqueCode,
				Stock:       v.Stock.Clone(),
				Total:       v.Stock.Total(),
			})
		}
	}
	return rows, nil
}

// ListLowStock returns variants still in stock at loc but at or under threshold.
// Sold-out variants are left out.
func (uc *inventoryUseCase) ListLowStock(ctx context.Context, loc model.Location, threshold int) ([]dto.StockRow, error) {
	if loc == "" {
		loc = model.LocationHub
	}
	if !loc.Valid() {
		return nil, model.Invalidf("unknown location %q", loc)
	}
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	rows, err := uc.StockMatrix(ctx)
	if err != nil {
		return nil, err
	}
	low := rows[:0]
	for _, row := range rows {
		if q := row.Stock[loc]; q > 0 && q <= threshold {
			low = append(low, row)
		}
	}
	return low, nil
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	return uc.store.Inventory().ListMovements(ctx, filters)
}

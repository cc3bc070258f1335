package snapshot

import (
	"context"
	"sort"

	"github.com/fekuna/omnipos-retail-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
)

type inventoryRepo struct {
	exec executor
}

// variantStock runs fn on the live counters of a variant.
func variantStock(d *Data, variantID string, fn func(stock model.StockLevels)) error {
	v := findVariant(d, variantID)
	if v == nil {
		return model.ErrVariantNotFound
	}
	if v.Stock == nil {
		v.Stock = model.StockLevels{}
	}
	fn(v.Stock)
	return nil
}

func (r *inventoryRepo) GetStock(ctx context.Context, variantID string, loc model.Location) (int, error) {
	var qty int
	err := r.exec.read(func(d *Data) error {
		v := findVariant(d, variantID)
		if v == nil {
			return model.ErrVariantNotFound
		}
		qty = v.Stock[loc]
		return nil
	})
	return qty, err
}

func (r *inventoryRepo) DecrementIfEnough(ctx context.Context, variantID string, loc model.Location, qty int) (bool, error) {
	ok := false
	err := r.exec.write(func(d *Data) error {
		return variantStock(d, variantID, func(stock model.StockLevels) {
			if stock[loc] >= qty {
				stock[loc] -= qty
				ok = true
			}
		})
	})
	return ok, err
}

func (r *inventoryRepo) DeductFloor(ctx context.Context, variantID string, loc model.Location, qty int) error {
	return r.exec.write(func(d *Data) error {
		return variantStock(d, variantID, func(stock model.StockLevels) {
			stock[loc] = max(0, stock[loc]-qty)
		})
	})
}

func (r *inventoryRepo) Increment(ctx context.Context, variantID string, loc model.Location, qty int) error {
	return r.exec.write(func(d *Data) error {
		return variantStock(d, variantID, func(stock model.StockLevels) {
			stock[loc] += qty
		})
	})
}

func (r *inventoryRepo) LogMovement(ctx context.Context, m *model.StockMovement) error {
	return r.exec.write(func(d *Data) error {
		d.Movements = append(d.Movements, *m)
		return nil
	})
}

func (r *inventoryRepo) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	var items []model.StockMovement
	err := r.exec.read(func(d *Data) error {
		for _, m := range d.Movements {
			if f.ProductID != "" && m.ProductID != f.ProductID {
				continue
			}
			if f.Location != "" && m.Location != f.Location {
				continue
			}
			if f.MovementType != "" && m.MovementType != f.MovementType {
				continue
			}
			if f.ReferenceID != "" && m.ReferenceID != f.ReferenceID {
				continue
			}
			if !inRange(m.CreatedAt, f.StartDate, f.EndDate) {
				continue
			}
			items = append(items, m)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return paginate(items, f.Page, f.PageSize), len(items), nil
}

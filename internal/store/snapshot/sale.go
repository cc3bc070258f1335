package snapshot

import (
	"context"
	"sort"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/sale/dto"
)

type saleRepo struct {
	exec executor
}

func (r *saleRepo) Create(ctx context.Context, s *model.Sale) error {
	return r.exec.write(func(d *Data) error {
		d.Sales = append(d.Sales, *s)
		return nil
	})
}

func (r *saleRepo) FindByID(ctx context.Context, id string) (*model.Sale, error) {
	var out *model.Sale
	err := r.exec.read(func(d *Data) error {
		for i := range d.Sales {
			if d.Sales[i].ID == id {
				s := d.Sales[i]
				out = &s
				return nil
			}
		}
		return nil
	})
	return out, err
}

func inRange(t time.Time, start, end *time.Time) bool {
	if start != nil && t.Before(*start) {
		return false
	}
	if end != nil && t.After(*end) {
		return false
	}
	return true
}

func (r *saleRepo) FindAll(ctx context.Context, f *dto.SaleFilters) ([]model.Sale, int, error) {
	var items []model.Sale
	err := r.exec.read(func(d *Data) error {
		for _, s := range d.Sales {
			if !inRange(s.Date, f.StartDate, f.EndDate) {
				continue
			}
			if f.Status != "" && s.Status != f.Status {
				continue
			}
			if f.Channel != "" && s.Channel != f.Channel {
				continue
			}
			if f.CustomerID != "" && s.CustomerID != f.CustomerID {
				continue
			}
			if f.ProductID != "" && s.ProductID != f.ProductID {
				continue
			}
			items = append(items, s)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Date.After(items[j].Date) })
	return paginate(items, f.Page, f.PageSize), len(items), nil
}

func (r *saleRepo) MarkReturned(ctx context.Context, id string, at time.Time) (bool, error) {
	flipped := false
	err := r.exec.write(func(d *Data) error {
		for i := range d.Sales {
			s := &d.Sales[i]
			if s.ID != id || s.Status != model.SaleStatusCompleted {
				continue
			}
			s.Status = model.SaleStatusReturned
			t := at
			s.ReturnedAt = &t
			flipped = true
			return nil
		}
		return nil
	})
	return flipped, err
}

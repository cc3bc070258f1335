package snapshot

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/customer/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/shopspring/decimal"
)

type customerRepo struct {
	exec executor
}

func (r *customerRepo) find(match func(c *model.Customer) bool) (*model.Customer, error) {
	var out *model.Customer
	err := r.exec.read(func(d *Data) error {
		for i := range d.Customers {
			if match(&d.Customers[i]) {
				c := d.Customers[i]
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *customerRepo) Create(ctx context.Context, c *model.Customer) error {
	return r.exec.write(func(d *Data) error {
		d.Customers = append(d.Customers, *c)
		return nil
	})
}

func (r *customerRepo) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	return r.find(func(c *model.Customer) bool { return c.ID == id })
}

func (r *customerRepo) FindByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	return r.find(func(c *model.Customer) bool { return c.Phone == phone })
}

func (r *customerRepo) FindByName(ctx context.Context, name string) (*model.Customer, error) {
	return r.find(func(c *model.Customer) bool { return strings.EqualFold(c.Name, name) })
}

func (r *customerRepo) FindAll(ctx context.Context, f *dto.CustomerFilters) ([]model.Customer, int, error) {
	var items []model.Customer
	q := strings.ToLower(f.SearchQuery)
	err := r.exec.read(func(d *Data) error {
		for _, c := range d.Customers {
			if f.Type != "" && !strings.EqualFold(c.Type, f.Type) {
				continue
			}
			if q != "" && !strings.Contains(strings.ToLower(c.Name), q) && !strings.Contains(c.Phone, q) {
				continue
			}
			items = append(items, c)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	asc := strings.EqualFold(f.SortOrder, "asc")
	switch f.SortBy {
	case "name":
		sort.SliceStable(items, func(i, j int) bool {
			if asc {
				return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
			}
			return strings.ToLower(items[i].Name) > strings.ToLower(items[j].Name)
		})
	case "total_spent":
		sort.SliceStable(items, func(i, j int) bool {
			if asc {
				return items[i].TotalSpent.LessThan(items[j].TotalSpent)
			}
			return items[i].TotalSpent.GreaterThan(items[j].TotalSpent)
		})
	case "last_order_date":
		sort.SliceStable(items, func(i, j int) bool {
			a, b := orderTime(items[i]), orderTime(items[j])
			if asc {
				return a.Before(b)
			}
			return a.After(b)
		})
	}

	return paginate(items, f.Page, f.PageSize), len(items), nil
}

func orderTime(c model.Customer) time.Time {
	if c.LastOrderDate == nil {
		return time.Time{}
	}
	return *c.LastOrderDate
}

func (r *customerRepo) Update(ctx context.Context, c *model.Customer) error {
	return r.exec.write(func(d *Data) error {
		for i := range d.Customers {
			if d.Customers[i].ID == c.ID {
				existing := &d.Customers[i]
				existing.Name = c.Name
				existing.Phone = c.Phone
				existing.Address = c.Address
				existing.Type = c.Type
				existing.UpdatedAt = c.UpdatedAt
				return nil
			}
		}
		return model.ErrCustomerNotFound
	})
}

func (r *customerRepo) AddSpend(ctx context.Context, id string, delta decimal.Decimal, orderDate *time.Time) error {
	return r.exec.write(func(d *Data) error {
		for i := range d.Customers {
			if d.Customers[i].ID == id {
				c := &d.Customers[i]
				c.TotalSpent = c.TotalSpent.Add(delta)
				if orderDate != nil {
					t := *orderDate
					c.LastOrderDate = &t
				}
				return nil
			}
		}
		return model.ErrCustomerNotFound
	})
}

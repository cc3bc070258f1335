package snapshot

import (
	"context"
	"sort"
	"strings"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/product/dto"
)

type productRepo struct {
	exec executor
}

func findProduct(d *Data, id string) *model.Product {
	for i := range d.Products {
		if d.Products[i].ID == id {
			return &d.Products[i]
		}
	}
	return nil
}

func findVariant(d *Data, variantID string) *model.Variant {
	for i := range d.Products {
		for j := range d.Products[i].Variants {
			if d.Products[i].Variants[j].ID == variantID {
				return &d.Products[i].Variants[j]
			}
		}
	}
	return nil
}

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.exec.write(func(d *Data) error {
		d.Products = append(d.Products, *p.Clone())
		return nil
	})
}

func (r *productRepo) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var out *model.Product
	err := r.exec.read(func(d *Data) error {
		if p := findProduct(d, id); p != nil {
			out = p.Clone()
		}
		return nil
	})
	return out, err
}

func (r *productRepo) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	var items []model.Product
	err := r.exec.read(func(d *Data) error {
		q := strings.ToLower(f.SearchQuery)
		for i := range d.Products {
			p := &d.Products[i]
			if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
				continue
			}
			if q != "" && !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.SKU), q) {
				continue
			}
			items = append(items, *p.Clone())
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	desc := strings.EqualFold(f.SortOrder, "desc")
	var less func(a, b *model.Product) bool
	switch f.SortBy {
	case "name":
		less = func(a, b *model.Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case "price":
		less = func(a, b *model.Product) bool { return a.SalePrice.LessThan(b.SalePrice) }
	case "created_at":
		less = func(a, b *model.Product) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
	if less != nil {
		sort.SliceStable(items, func(i, j int) bool {
			if desc {
				return less(&items[j], &items[i])
			}
			return less(&items[i], &items[j])
		})
	}

	return paginate(items, f.Page, f.PageSize), len(items), nil
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.exec.write(func(d *Data) error {
		existing := findProduct(d, p.ID)
		if existing == nil {
			return model.ErrProductNotFound
		}
		*existing = *p.Clone()
		return nil
	})
}

func (r *productRepo) Delete(ctx context.Context, id string) error {
	return r.exec.write(func(d *Data) error {
		for i := range d.Products {
			if d.Products[i].ID == id {
				d.Products = append(d.Products[:i], d.Products[i+1:]...)
				return nil
			}
		}
		return nil
	})
}

func (r *productRepo) FindByVariantCode(ctx context.Context, code string) (*model.Product, error) {
	var out *model.Product
	err := r.exec.read(func(d *Data) error {
		for i := range d.Products {
			if d.Products[i].VariantByCode(code) != nil {
				out = d.Products[i].Clone()
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *productRepo) FindByNameLike(ctx context.Context, name string) (*model.Product, error) {
	var out *model.Product
	q := strings.ToLower(name)
	err := r.exec.read(func(d *Data) error {
		for i := range d.Products {
			if strings.Contains(strings.ToLower(d.Products[i].Name), q) {
				out = d.Products[i].Clone()
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *productRepo) FindFirst(ctx context.Context) (*model.Product, error) {
	var out *model.Product
	err := r.exec.read(func(d *Data) error {
		if len(d.Products) > 0 {
			out = d.Products[0].Clone()
		}
		return nil
	})
	return out, err
}

func (r *productRepo) IsCodeUnique(ctx context.Context, code, excludeProductID string) (bool, error) {
	unique := true
	err := r.exec.read(func(d *Data) error {
		for i := range d.Products {
			if d.Products[i].ID == excludeProductID {
				continue
			}
			if d.Products[i].VariantByCode(code) != nil {
				unique = false
				return nil
			}
		}
		return nil
	})
	return unique, err
}

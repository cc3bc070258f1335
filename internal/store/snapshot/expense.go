package snapshot

import (
	"context"
	"sort"

	"github.com/fekuna/omnipos-retail-service/internal/expense/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
)

type expenseRepo struct {
	exec executor
}

func (r *expenseRepo) Create(ctx context.Context, e *model.Expense) error {
	return r.exec.write(func(d *Data) error {
		d.Expenses = append(d.Expenses, *e)
		return nil
	})
}

func (r *expenseRepo) FindByID(ctx context.Context, id string) (*model.Expense, error) {
	var out *model.Expense
	err := r.exec.read(func(d *Data) error {
		for i := range d.Expenses {
			if d.Expenses[i].ID == id {
				e := d.Expenses[i]
				out = &e
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *expenseRepo) FindAll(ctx context.Context, f *dto.ExpenseFilters) ([]model.Expense, int, error) {
	var items []model.Expense
	err := r.exec.read(func(d *Data) error {
		for _, e := range d.Expenses {
			if !inRange(e.Date, f.StartDate, f.EndDate) {
				continue
			}
			if f.Category != "" && e.Category != f.Category {
				continue
			}
			items = append(items, e)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Date.After(items[j].Date) })
	return paginate(items, f.Page, f.PageSize), len(items), nil
}

func (r *expenseRepo) Update(ctx context.Context, e *model.Expense) error {
	return r.exec.write(func(d *Data) error {
		for i := range d.Expenses {
			if d.Expenses[i].ID == e.ID {
				d.Expenses[i] = *e
				return nil
			}
		}
		return model.ErrExpenseNotFound
	})
}

func (r *expenseRepo) Delete(ctx context.Context, id string) error {
	return r.exec.write(func(d *Data) error {
		for i := range d.Expenses {
			if d.Expenses[i].ID == id {
				d.Expenses = append(d.Expenses[:i], d.Expenses[i+1:]...)
				return nil
			}
		}
		return nil
	})
}

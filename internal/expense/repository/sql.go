package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-retail-service/internal/expense/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type SQLRepository struct {
	DB sqlx.ExtContext
}

func NewSQLRepository(db sqlx.ExtContext) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) Create(ctx context.Context, e *model.Expense) error {
	query := `
        INSERT INTO expenses (id, category, description, amount, date)
        VALUES (:id, :category, :description, :amount, :date)
    `
	row := *e
	row.Date = e.Date.UTC()
	_, err := sqlx.NamedExecContext(ctx, r.DB, query, &row)
	return err
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*model.Expense, error) {
	var e model.Expense
	query := r.DB.Rebind(`SELECT id, category, description, amount, date FROM expenses WHERE id = ? LIMIT 1`)
	err := sqlx.GetContext(ctx, r.DB, &e, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *SQLRepository) FindAll(ctx context.Context, f *dto.ExpenseFilters) ([]model.Expense, int, error) {
	var items []model.Expense
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.StartDate != nil {
		conditions = append(conditions, "date >= :start_date")
		args["start_date"] = f.StartDate.UTC()
	}
	if f.EndDate != nil {
		conditions = append(conditions, "date <= :end_date")
		args["end_date"] = f.EndDate.UTC()
	}
	if f.Category != "" {
		conditions = append(conditions, "category = :category")
		args["category"] = f.Category
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM expenses"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := sqlx.GetContext(ctx, r.DB, &count, r.DB.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	query := "SELECT id, category, description, amount, date FROM expenses" + whereClause + " ORDER BY date DESC"
	if f.PageSize > 0 {
		page := max(f.Page, 1)
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	listQuery, listArgs, err := sqlx.Named(query, args)
	if err != nil {
		return nil, 0, err
	}
	err = sqlx.SelectContext(ctx, r.DB, &items, r.DB.Rebind(listQuery), listArgs...)
	return items, count, err
}

func (r *SQLRepository) Update(ctx context.Context, e *model.Expense) error {
	query := `
        UPDATE expenses
        SET category = :category, description = :description, amount = :amount, date = :date
        WHERE id = :id
    `
	row := *e
	row.Date = e.Date.UTC()
	res, err := sqlx.NamedExecContext(ctx, r.DB, query, &row)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrExpenseNotFound
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind("DELETE FROM expenses WHERE id = ?"), id)
	return err
}

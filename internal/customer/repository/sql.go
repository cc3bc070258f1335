package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/customer/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/pkg/database"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type SQLRepository struct {
	DB sqlx.ExtContext
}

func NewSQLRepository(db sqlx.ExtContext) *SQLRepository {
	return &SQLRepository{DB: db}
}

const customerColumns = `id, name, phone, address, type, total_spent, last_order_date, created_at, updated_at`

func (r *SQLRepository) Create(ctx context.Context, c *model.Customer) error {
	query := `
        INSERT INTO customers (id, name, phone, address, type, total_spent, last_order_date, created_at, updated_at)
        VALUES (:id, :name, :phone, :address, :type, :total_spent, :last_order_date, :created_at, :updated_at)
    `
	row := *c
	row.BaseModel = c.BaseModel.InUTC()
	row.LastOrderDate = database.UTC(c.LastOrderDate)
	_, err := sqlx.NamedExecContext(ctx, r.DB, query, &row)
	return err
}

func (r *SQLRepository) findOne(ctx context.Context, where string, args ...any) (*model.Customer, error) {
	var c model.Customer
	query := r.DB.Rebind(`SELECT ` + customerColumns + ` FROM customers WHERE ` + where + ` ORDER BY created_at ASC LIMIT 1`)
	err := sqlx.GetContext(ctx, r.DB, &c, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	return r.findOne(ctx, `id = ?`, id)
}

func (r *SQLRepository) FindByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	return r.findOne(ctx, `phone = ?`, phone)
}

func (r *SQLRepository) FindByName(ctx context.Context, name string) (*model.Customer, error) {
	return r.findOne(ctx, `LOWER(name) = LOWER(?)`, name)
}

func (r *SQLRepository) FindAll(ctx context.Context, f *dto.CustomerFilters) ([]model.Customer, int, error) {
	var customers []model.Customer
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Type != "" {
		conditions = append(conditions, "LOWER(type) = LOWER(:type)")
		args["type"] = f.Type
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(LOWER(name) LIKE :search OR phone LIKE :search)")
		args["search"] = "%" + strings.ToLower(f.SearchQuery) + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM customers"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := sqlx.GetContext(ctx, r.DB, &count, r.DB.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	orderBy := "created_at ASC"
	switch f.SortBy {
	case "name", "total_spent", "last_order_date":
		orderBy = f.SortBy
		if strings.ToLower(f.SortOrder) == "asc" {
			orderBy += " ASC"
		} else {
			orderBy += " DESC"
		}
	}

	query := fmt.Sprintf("SELECT %s FROM customers%s ORDER BY %s", customerColumns, whereClause, orderBy)
	if f.PageSize > 0 {
		page := max(f.Page, 1)
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	listQuery, listArgs, err := sqlx.Named(query, args)
	if err != nil {
		return nil, 0, err
	}
	err = sqlx.SelectContext(ctx, r.DB, &customers, r.DB.Rebind(listQuery), listArgs...)
	return customers, count, err
}

func (r *SQLRepository) Update(ctx context.Context, c *model.Customer) error {
	query := `
        UPDATE customers
        SET name = :name, phone = :phone, address = :address, type = :type, updated_at = :updated_at
        WHERE id = :id
    `
	row := *c
	row.BaseModel = c.BaseModel.InUTC()
	res, err := sqlx.NamedExecContext(ctx, r.DB, query, &row)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrCustomerNotFound
	}
	return nil
}

// AddSpend sums in decimal, not in SQL. Callers run it inside a transaction.
func (r *SQLRepository) AddSpend(ctx context.Context, id string, delta decimal.Decimal, orderDate *time.Time) error {
	sel := `SELECT total_spent FROM customers WHERE id = ?`
	if r.DB.DriverName() == database.DriverPostgres {
		sel += ` FOR UPDATE`
	}
	var current decimal.Decimal
	if err := sqlx.GetContext(ctx, r.DB, &current, r.DB.Rebind(sel), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrCustomerNotFound
		}
		return err
	}
	total := current.Add(delta)

	query := `UPDATE customers SET total_spent = ? WHERE id = ?`
	args := []interface{}{total.String(), id}
	if orderDate != nil {
		query = `UPDATE customers SET total_spent = ?, last_order_date = ? WHERE id = ?`
		args = []interface{}{total.String(), orderDate.UTC(), id}
	}
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind(query), args...)
	return err
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/sale/dto"
	"github.com/fekuna/omnipos-retail-service/pkg/database"
	"github.com/jmoiron/sqlx"
)

type SQLRepository struct {
	DB sqlx.ExtContext
}

func NewSQLRepository(db sqlx.ExtContext) *SQLRepository {
	return &SQLRepository{DB: db}
}

const saleColumns = `id, product_id, product_name, size, channel, quantity, total_amount, date, status, returned_at,
    customer_id, customer_name, customer_phone, customer_address, customer_type`

func (r *SQLRepository) Create(ctx context.Context, s *model.Sale) error {
	query := `
        INSERT INTO sales (
            id, product_id, product_name, size, channel, quantity, total_amount, date, status, returned_at,
            customer_id, customer_name, customer_phone, customer_address, customer_type
        )
        VALUES (
            :id, :product_id, :product_name, :size, :channel, :quantity, :total_amount, :date, :status, :returned_at,
            :customer_id, :customer_name, :customer_phone, :customer_address, :customer_type
        )
    `
	row := *s
	row.Date = s.Date.UTC()
	row.ReturnedAt = database.UTC(s.ReturnedAt)
	if _, err := sqlx.NamedExecContext(ctx, r.DB, query, &row); err != nil {
		return fmt.Errorf("failed to insert sale: %w", err)
	}
	return nil
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*model.Sale, error) {
	var s model.Sale
	query := r.DB.Rebind(`SELECT ` + saleColumns + ` FROM sales WHERE id = ? LIMIT 1`)
	err := sqlx.GetContext(ctx, r.DB, &s, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SQLRepository) FindAll(ctx context.Context, f *dto.SaleFilters) ([]model.Sale, int, error) {
	var sales []model.Sale
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
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}
	if f.Channel != "" {
		conditions = append(conditions, "channel = :channel")
		args["channel"] = f.Channel
	}
	if f.CustomerID != "" {
		conditions = append(conditions, "customer_id = :customer_id")
		args["customer_id"] = f.CustomerID
	}
	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM sales"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := sqlx.GetContext(ctx, r.DB, &count, r.DB.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + saleColumns + " FROM sales" + whereClause + " ORDER BY date DESC"
	if f.PageSize > 0 {
		page := max(f.Page, 1)
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	listQuery, listArgs, err := sqlx.Named(query, args)
	if err != nil {
		return nil, 0, err
	}
	err = sqlx.SelectContext(ctx, r.DB, &sales, r.DB.Rebind(listQuery), listArgs...)
	return sales, count, err
}

func (r *SQLRepository) MarkReturned(ctx context.Context, id string, at time.Time) (bool, error) {
	query := r.DB.Rebind(`UPDATE sales SET status = ?, returned_at = ? WHERE id = ? AND status = ?`)
	res, err := r.DB.ExecContext(ctx, query, model.SaleStatusReturned, at.UTC(), id, model.SaleStatusCompleted)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

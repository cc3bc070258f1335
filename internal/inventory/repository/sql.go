package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-retail-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type SQLRepository struct {
	DB sqlx.ExtContext
}

func NewSQLRepository(db sqlx.ExtContext) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) GetStock(ctx context.Context, variantID string, loc model.Location) (int, error) {
	var qty int
	query := r.DB.Rebind(`SELECT quantity FROM stock_levels WHERE variant_id = ? AND location = ?`)
	err := sqlx.GetContext(ctx, r.DB, &qty, query, variantID, loc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, model.ErrVariantNotFound
		}
		return 0, err
	}
	return qty, nil
}

func (r *SQLRepository) DecrementIfEnough(ctx context.Context, variantID string, loc model.Location, qty int) (bool, error) {
	query := r.DB.Rebind(`
		UPDATE stock_levels
		SET quantity = quantity - ?
		WHERE variant_id = ? AND location = ? AND quantity >= ?
	`)
	res, err := r.DB.ExecContext(ctx, query, qty, variantID, loc, qty)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *SQLRepository) DeductFloor(ctx context.Context, variantID string, loc model.Location, qty int) error {
	query := r.DB.Rebind(`
		UPDATE stock_levels
		SET quantity = CASE WHEN quantity > ? THEN quantity - ? ELSE 0 END
		WHERE variant_id = ? AND location = ?
	`)
	res, err := r.DB.ExecContext(ctx, query, qty, qty, variantID, loc)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *SQLRepository) Increment(ctx context.Context, variantID string, loc model.Location, qty int) error {
	query := r.DB.Rebind(`UPDATE stock_levels SET quantity = quantity + ? WHERE variant_id = ? AND location = ?`)
	res, err := r.DB.ExecContext(ctx, query, qty, variantID, loc)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return model.ErrVariantNotFound
	}
	return nil
}

func (r *SQLRepository) LogMovement(ctx context.Context, m *model.StockMovement) error {
	query := `
        INSERT INTO stock_movements (
            id, product_id, variant_id, size, location,
            movement_type, quantity_change, quantity_before, quantity_after,
            reference_type, reference_id, notes, created_by, created_at
        )
        VALUES (
            :id, :product_id, :variant_id, :size, :location,
            :movement_type, :quantity_change, :quantity_before, :quantity_after,
            :reference_type, :reference_id, :notes, :created_by, :created_at
        )
    `
	row := *m
	row.CreatedAt = m.CreatedAt.UTC()
	if _, err := sqlx.NamedExecContext(ctx, r.DB, query, &row); err != nil {
		return fmt.Errorf("failed to log movement: %w", err)
	}
	return nil
}

func (r *SQLRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	var items []model.StockMovement
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.Location != "" {
		conditions = append(conditions, "location = :location")
		args["location"] = f.Location
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = f.MovementType
	}
	if f.ReferenceID != "" {
		conditions = append(conditions, "reference_id = :reference_id")
		args["reference_id"] = f.ReferenceID
	}
	if f.StartDate != nil {
		conditions = append(conditions, "created_at >= :start_date")
		args["start_date"] = f.StartDate.UTC()
	}
	if f.EndDate != nil {
		conditions = append(conditions, "created_at <= :end_date")
		args["end_date"] = f.EndDate.UTC()
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM stock_movements"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := sqlx.GetContext(ctx, r.DB, &count, r.DB.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM stock_movements" + whereClause + " ORDER BY created_at DESC"
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

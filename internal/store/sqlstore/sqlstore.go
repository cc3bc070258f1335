package sqlstore

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-retail-service/internal/customer"
	customerRepo "github.com/fekuna/omnipos-retail-service/internal/customer/repository"
	"github.com/fekuna/omnipos-retail-service/internal/expense"
	expenseRepo "github.com/fekuna/omnipos-retail-service/internal/expense/repository"
	"github.com/fekuna/omnipos-retail-service/internal/inventory"
	inventoryRepo "github.com/fekuna/omnipos-retail-service/internal/inventory/repository"
	"github.com/fekuna/omnipos-retail-service/internal/product"
	productRepo "github.com/fekuna/omnipos-retail-service/internal/product/repository"
	"github.com/fekuna/omnipos-retail-service/internal/sale"
	saleRepo "github.com/fekuna/omnipos-retail-service/internal/sale/repository"
	"github.com/fekuna/omnipos-retail-service/internal/store"
	"github.com/jmoiron/sqlx"
)

type repos struct {
	products  product.Repository
	customers customer.Repository
	sales     sale.Repository
	expenses  expense.Repository
	inventory inventory.Repository
}

func newRepos(db sqlx.ExtContext) *repos {
	return &repos{
		products:  productRepo.NewSQLRepository(db),
		customers: customerRepo.NewSQLRepository(db),
		sales:     saleRepo.NewSQLRepository(db),
		expenses:  expenseRepo.NewSQLRepository(db),
		inventory: inventoryRepo.NewSQLRepository(db),
	}
}

func (r *repos) Products() product.Repository    { return r.products }
func (r *repos) Customers() customer.Repository  { return r.customers }
func (r *repos) Sales() sale.Repository          { return r.sales }
func (r *repos) Expenses() expense.Repository    { return r.expenses }
func (r *repos) Inventory() inventory.Repository { return r.inventory }

// Store backs every repository with one database, postgres or sqlite.
type Store struct {
	*repos
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{repos: newRepos(db), db: db}
}

func (s *Store) WithinTx(ctx context.Context, fn func(r store.Repos) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(newRepos(tx)); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) DB() *sqlx.DB {
	return s.db
}

func (s *Store) Close() error {
	return s.db.Close()
}

var _ store.Store = (*Store)(nil)

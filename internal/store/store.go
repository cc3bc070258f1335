package store

import (
	"context"

	"github.com/fekuna/omnipos-retail-service/internal/customer"
	"github.com/fekuna/omnipos-retail-service/internal/expense"
	"github.com/fekuna/omnipos-retail-service/internal/inventory"
	"github.com/fekuna/omnipos-retail-service/internal/product"
	"github.com/fekuna/omnipos-retail-service/internal/sale"
)

// Repos is the set of repositories bound to one connection or transaction.
type Repos interface {
	Products() product.Repository
	Customers() customer.Repository
	Sales() sale.Repository
	Expenses() expense.Repository
	Inventory() inventory.Repository
}

// Store owns every collection. Outside WithinTx each repository call commits on its own.
type Store interface {
	Repos
	// WithinTx runs fn against repositories sharing one transaction.
	// A non-nil error from fn rolls everything back.
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	Close() error
}

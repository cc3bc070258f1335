package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fekuna/omnipos-retail-service/internal/customer"
	"github.com/fekuna/omnipos-retail-service/internal/expense"
	"github.com/fekuna/omnipos-retail-service/internal/inventory"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/product"
	"github.com/fekuna/omnipos-retail-service/internal/sale"
	"github.com/fekuna/omnipos-retail-service/internal/store"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"go.uber.org/zap"
)

const DefaultKey = "retail_data_v6"

// Data is the persisted document. Short keys keep the file compact.
type Data struct {
	Products  []model.Product       `json:"p"`
	Customers []model.Customer      `json:"c"`
	Sales     []model.Sale          `json:"s"`
	Expenses  []model.Expense       `json:"e"`
	Movements []model.StockMovement `json:"m"`
}

func (d *Data) clone() *Data {
	out := &Data{
		Products:  make([]model.Product, len(d.Products)),
		Customers: append([]model.Customer(nil), d.Customers...),
		Sales:     append([]model.Sale(nil), d.Sales...),
		Expenses:  append([]model.Expense(nil), d.Expenses...),
		Movements: append([]model.StockMovement(nil), d.Movements...),
	}
	for i := range d.Products {
		out.Products[i] = *d.Products[i].Clone()
	}
	return out
}

type Config struct {
	// Path of the JSON file. Empty keeps everything in memory.
	Path string
	// Key the collections live under inside the file.
	Key string
}

// Store keeps the collections in memory and rewrites the whole document on every commit.
type Store struct {
	mu     sync.RWMutex
	data   *Data
	path   string
	key    string
	logger logger.ZapLogger
}

func New(cfg *Config, log logger.ZapLogger) (*Store, error) {
	s := &Store{
		data:   &Data{},
		path:   cfg.Path,
		key:    cfg.Key,
		logger: log,
	}
	if s.key == "" {
		s.key = DefaultKey
	}
	if s.path == "" {
		return s, nil
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	doc, err := s.readDocument()
	if err != nil {
		return err
	}
	raw, ok := doc[s.key]
	if !ok {
		s.logger.Info("snapshot key not present, starting empty", zap.String("key", s.key), zap.String("path", s.path))
		return nil
	}
	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return fmt.Errorf("decode snapshot %q: %w", s.key, err)
	}
	s.data = &d
	return nil
}

func (s *Store) readDocument() (map[string]json.RawMessage, error) {
	doc := map[string]json.RawMessage{}
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if len(b) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return doc, nil
}

// persist rewrites our key and leaves every other key in the file untouched.
func (s *Store) persist(d *Data) error {
	if s.path == "" {
		return nil
	}
	doc, err := s.readDocument()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	doc[s.key] = raw
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".snapshot-*")
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}

// executor runs repository bodies. The root store locks and commits per call;
// a transaction runs them against its private copy.
type executor interface {
	read(fn func(d *Data) error) error
	write(fn func(d *Data) error) error
}

func (s *Store) read(fn func(d *Data) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

func (s *Store) write(fn func(d *Data) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(fn)
}

func (s *Store) commit(fn func(d *Data) error) error {
	next := s.data.clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := s.persist(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

type txExecutor struct {
	d *Data
}

func (t *txExecutor) read(fn func(d *Data) error) error  { return fn(t.d) }
func (t *txExecutor) write(fn func(d *Data) error) error { return fn(t.d) }

type repos struct {
	exec executor
}

func (r *repos) Products() product.Repository    { return &productRepo{exec: r.exec} }
func (r *repos) Customers() customer.Repository  { return &customerRepo{exec: r.exec} }
func (r *repos) Sales() sale.Repository          { return &saleRepo{exec: r.exec} }
func (r *repos) Expenses() expense.Repository    { return &expenseRepo{exec: r.exec} }
func (r *repos) Inventory() inventory.Repository { return &inventoryRepo{exec: r.exec} }

func (s *Store) Products() product.Repository    { return &productRepo{exec: s} }
func (s *Store) Customers() customer.Repository  { return &customerRepo{exec: s} }
func (s *Store) Sales() sale.Repository          { return &saleRepo{exec: s} }
func (s *Store) Expenses() expense.Repository    { return &expenseRepo{exec: s} }
func (s *Store) Inventory() inventory.Repository { return &inventoryRepo{exec: s} }

// WithinTx holds the write lock for the whole unit of work and swaps in the
// result only when fn succeeds and the document is written.
func (s *Store) WithinTx(ctx context.Context, fn func(r store.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(func(d *Data) error {
		return fn(&repos{exec: &txExecutor{d: d}})
	})
}

// Snapshot returns a deep copy of the current collections.
func (s *Store) Snapshot() *Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.clone()
}

func (s *Store) Close() error {
	return nil
}

var _ store.Store = (*Store)(nil)

func paginate[T any](items []T, page, pageSize int) []T {
	if pageSize <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/contable/internal/invoice"
	"github.com/MrJamesThe3rd/contable/internal/storage"
)

type Store struct {
	db       *sql.DB
	invoices *storage.Collection[invoice.Invoice]
}

type createTx struct {
	tx       *sql.Tx
	series   string
	invoices *storage.Collection[invoice.Invoice]
}

func New(db *sql.DB) *Store {
	return &Store{
		db:       db,
		invoices: storage.NewCollection[invoice.Invoice](db, "invoices"),
	}
}

func (s *Store) BeginCreate(ctx context.Context, series string) (invoice.CreateTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning invoice tx: %w", err)
	}

	series = "invoice:" + series
	if err := storage.LockSeries(ctx, dbTx, series); err != nil {
		dbTx.Rollback()
		return nil, err
	}

	return &createTx{tx: dbTx, series: series, invoices: s.invoices.WithQuerier(dbTx)}, nil
}

func (c *createTx) Commit() error   { return c.tx.Commit() }
func (c *createTx) Rollback() error { return c.tx.Rollback() }

func (c *createTx) NextSequential(ctx context.Context) (int64, error) {
	return storage.NextValue(ctx, c.tx, c.series)
}

func (c *createTx) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	return c.invoices.Insert(ctx, inv.ID, inv)
}

func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	inv, err := s.invoices.Get(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	return inv, nil
}

func (s *Store) UpdateInvoice(ctx context.Context, inv *invoice.Invoice, from invoice.Status) error {
	return notFound(s.invoices.UpdateIf(ctx, inv.ID, inv, "status", string(from)))
}

func (s *Store) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	return notFound(s.invoices.Delete(ctx, id))
}

func (s *Store) ListInvoices(ctx context.Context) ([]*invoice.Invoice, error) {
	return s.invoices.List(ctx)
}

func notFound(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return invoice.ErrNotFound
	}

	if errors.Is(err, storage.ErrStale) {
		return invoice.ErrConflict
	}

	if err != nil {
		return fmt.Errorf("invoice store: %w", err)
	}

	return nil
}

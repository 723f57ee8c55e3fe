package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/contable/internal/purchase"
	"github.com/MrJamesThe3rd/contable/internal/storage"
)

const series = "purchase"

type Store struct {
	db        *sql.DB
	purchases *storage.Collection[purchase.Purchase]
}

type createTx struct {
	tx        *sql.Tx
	purchases *storage.Collection[purchase.Purchase]
}

func New(db *sql.DB) *Store {
	return &Store{
		db:        db,
		purchases: storage.NewCollection[purchase.Purchase](db, "purchases"),
	}
}

func (s *Store) BeginCreate(ctx context.Context) (purchase.CreateTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning purchase tx: %w", err)
	}

	if err := storage.LockSeries(ctx, dbTx, series); err != nil {
		dbTx.Rollback()
		return nil, err
	}

	return &createTx{tx: dbTx, purchases: s.purchases.WithQuerier(dbTx)}, nil
}

func (c *createTx) Commit() error   { return c.tx.Commit() }
func (c *createTx) Rollback() error { return c.tx.Rollback() }

func (c *createTx) NextSequential(ctx context.Context) (int64, error) {
	return storage.NextValue(ctx, c.tx, series)
}

func (c *createTx) CreatePurchase(ctx context.Context, p *purchase.Purchase) error {
	return c.purchases.Insert(ctx, p.ID, p)
}

func (s *Store) GetPurchase(ctx context.Context, id uuid.UUID) (*purchase.Purchase, error) {
	p, err := s.purchases.Get(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	return p, nil
}

func (s *Store) DeletePurchase(ctx context.Context, id uuid.UUID) error {
	return notFound(s.purchases.Delete(ctx, id))
}

func (s *Store) ListPurchases(ctx context.Context) ([]*purchase.Purchase, error) {
	return s.purchases.List(ctx)
}

func notFound(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return purchase.ErrNotFound
	}

	if err != nil {
		return fmt.Errorf("purchase store: %w", err)
	}

	return nil
}

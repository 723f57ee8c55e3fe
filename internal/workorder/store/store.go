package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/contable/internal/storage"
	"github.com/MrJamesThe3rd/contable/internal/workorder"
)

const series = "workorder"

type Store struct {
	db     *sql.DB
	orders *storage.Collection[workorder.WorkOrder]
}

type createTx struct {
	tx     *sql.Tx
	orders *storage.Collection[workorder.WorkOrder]
}

func New(db *sql.DB) *Store {
	return &Store{
		db:     db,
		orders: storage.NewCollection[workorder.WorkOrder](db, "work_orders"),
	}
}

func (s *Store) BeginCreate(ctx context.Context) (workorder.CreateTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning work order tx: %w", err)
	}

	if err := storage.LockSeries(ctx, dbTx, series); err != nil {
		dbTx.Rollback()
		return nil, err
	}

	return &createTx{tx: dbTx, orders: s.orders.WithQuerier(dbTx)}, nil
}

func (c *createTx) Commit() error   { return c.tx.Commit() }
func (c *createTx) Rollback() error { return c.tx.Rollback() }

func (c *createTx) NextSequential(ctx context.Context) (int64, error) {
	return storage.NextValue(ctx, c.tx, series)
}

func (c *createTx) CreateWorkOrder(ctx context.Context, w *workorder.WorkOrder) error {
	return c.orders.Insert(ctx, w.ID, w)
}

func (s *Store) GetWorkOrder(ctx context.Context, id uuid.UUID) (*workorder.WorkOrder, error) {
	w, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	return w, nil
}

func (s *Store) DeleteWorkOrder(ctx context.Context, id uuid.UUID) error {
	return notFound(s.orders.Delete(ctx, id))
}

func (s *Store) ListWorkOrders(ctx context.Context) ([]*workorder.WorkOrder, error) {
	return s.orders.List(ctx)
}

func notFound(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return workorder.ErrNotFound
	}

	if err != nil {
		return fmt.Errorf("work order store: %w", err)
	}

	return nil
}

func (s *Store) UpdateWorkOrder(ctx context.Context, w *workorder.WorkOrder) error {
	return notFound(s.orders.Update(ctx, w.ID, w))
}

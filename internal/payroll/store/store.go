package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/contable/internal/payroll"
	"github.com/MrJamesThe3rd/contable/internal/storage"
)

type Store struct {
	employees *storage.Collection[payroll.Employee]
	records   *storage.Collection[payroll.Record]
}

func New(db *sql.DB) *Store {
	return &Store{
		employees: storage.NewCollection[payroll.Employee](db, "employees"),
		records:   storage.NewCollection[payroll.Record](db, "payroll_records"),
	}
}

func (s *Store) CreateEmployee(ctx context.Context, e *payroll.Employee) error {
	return s.employees.Insert(ctx, e.ID, e)
}

func (s *Store) GetEmployee(ctx context.Context, id uuid.UUID) (*payroll.Employee, error) {
	e, err := s.employees.Get(ctx, id)
	if err != nil {
		return nil, wrap(err, payroll.ErrNotFound)
	}

	return e, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, e *payroll.Employee) error {
	return wrap(s.employees.Update(ctx, e.ID, e), payroll.ErrNotFound)
}

func (s *Store) ListEmployees(ctx context.Context) ([]*payroll.Employee, error) {
	return s.employees.List(ctx)
}

func (s *Store) CreateRecord(ctx context.Context, r *payroll.Record) error {
	return s.records.Insert(ctx, r.ID, r)
}

func (s *Store) GetRecord(ctx context.Context, id uuid.UUID) (*payroll.Record, error) {
	r, err := s.records.Get(ctx, id)
	if err != nil {
		return nil, wrap(err, payroll.ErrRecordNotFound)
	}

	return r, nil
}

func (s *Store) ListRecords(ctx context.Context) ([]*payroll.Record, error) {
	return s.records.List(ctx)
}

func wrap(err, notFound error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return notFound
	}

	if err != nil {
		return fmt.Errorf("payroll store: %w", err)
	}

	return nil
}

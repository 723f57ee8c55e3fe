package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/contable/internal/accounting"
	"github.com/MrJamesThe3rd/contable/internal/storage"
)

const series = "journal"

type Store struct {
	db       *sql.DB
	accounts *storage.Collection[accounting.Account]
	entries  *storage.Collection[accounting.Entry]
}

type entryTx struct {
	tx      *sql.Tx
	entries *storage.Collection[accounting.Entry]
}

func New(db *sql.DB) *Store {
	return &Store{
		db:       db,
		accounts: storage.NewCollection[accounting.Account](db, "accounts"),
		entries:  storage.NewCollection[accounting.Entry](db, "journal_entries"),
	}
}

func (s *Store) CreateAccount(ctx context.Context, a *accounting.Account) error {
	return s.accounts.Insert(ctx, a.ID, a)
}

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (*accounting.Account, error) {
	a, err := s.accounts.Get(ctx, id)
	if err != nil {
		return nil, wrap(err, accounting.ErrNotFound)
	}

	return a, nil
}

func (s *Store) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return wrap(s.accounts.Delete(ctx, id), accounting.ErrNotFound)
}

func (s *Store) ListAccounts(ctx context.Context) ([]*accounting.Account, error) {
	return s.accounts.List(ctx)
}

func (s *Store) BeginEntry(ctx context.Context) (accounting.EntryTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning journal tx: %w", err)
	}

	if err := storage.LockSeries(ctx, dbTx, series); err != nil {
		dbTx.Rollback()
		return nil, err
	}

	return &entryTx{tx: dbTx, entries: s.entries.WithQuerier(dbTx)}, nil
}

func (e *entryTx) Commit() error   { return e.tx.Commit() }
func (e *entryTx) Rollback() error { return e.tx.Rollback() }

func (e *entryTx) NextSequential(ctx context.Context) (int64, error) {
	return storage.NextValue(ctx, e.tx, series)
}

func (e *entryTx) CreateEntry(ctx context.Context, entry *accounting.Entry) error {
	return e.entries.Insert(ctx, entry.ID, entry)
}

func (s *Store) GetEntry(ctx context.Context, id uuid.UUID) (*accounting.Entry, error) {
	e, err := s.entries.Get(ctx, id)
	if err != nil {
		return nil, wrap(err, accounting.ErrEntryNotFound)
	}

	return e, nil
}

func (s *Store) ListEntries(ctx context.Context) ([]*accounting.Entry, error) {
	return s.entries.List(ctx)
}

func wrap(err, notFound error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return notFound
	}

	if err != nil {
		return fmt.Errorf("accounting store: %w", err)
	}

	return nil
}

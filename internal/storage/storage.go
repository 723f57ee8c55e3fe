// Package storage persists domain records as JSON documents grouped by collection name
// in a single PostgreSQL table.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrStale means the record no longer holds the expected field value.
	ErrStale = errors.New("record changed concurrently")
)

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Collection stores values of T under a collection name.
type Collection[T any] struct {
	db   Querier
	name string
}

func NewCollection[T any](db Querier, name string) *Collection[T] {
	return &Collection[T]{db: db, name: name}
}

// WithQuerier returns the same collection bound to q, typically a *sql.Tx.
func (c *Collection[T]) WithQuerier(q Querier) *Collection[T] {
	return &Collection[T]{db: q, name: c.name}
}

func (c *Collection[T]) Name() string {
	return c.name
}

func (c *Collection[T]) Insert(ctx context.Context, id uuid.UUID, v *T) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s record: %w", c.name, err)
	}

	query := `
		INSERT INTO records (collection, id, body, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
	`

	if _, err := c.db.ExecContext(ctx, query, c.name, id, body); err != nil {
		return fmt.Errorf("inserting %s record: %w", c.name, err)
	}

	return nil
}

// Update replaces the body of an existing record.
func (c *Collection[T]) Update(ctx context.Context, id uuid.UUID, v *T) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s record: %w", c.name, err)
	}

	query := `
		UPDATE records
		SET body = $1, updated_at = NOW()
		WHERE collection = $2 AND id = $3
	`

	res, err := c.db.ExecContext(ctx, query, body, c.name, id)
	if err != nil {
		return fmt.Errorf("updating %s record: %w", c.name, err)
	}

	return requireAffected(res)
}

// UpdateIf replaces the body of a record only while its top-level field still
// equals expected, so a read-modify-write cannot overwrite a concurrent change.
func (c *Collection[T]) UpdateIf(ctx context.Context, id uuid.UUID, v *T, field, expected string) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s record: %w", c.name, err)
	}

	query := `
		UPDATE records
		SET body = $1, updated_at = NOW()
		WHERE collection = $2 AND id = $3 AND body->>$4 = $5
	`

	res, err := c.db.ExecContext(ctx, query, body, c.name, id, field, expected)
	if err != nil {
		return fmt.Errorf("updating %s record: %w", c.name, err)
	}

	if err := requireAffected(res); err != nil {
		if _, getErr := c.Get(ctx, id); getErr != nil {
			return getErr
		}

		return ErrStale
	}

	return nil
}

// Put inserts the record or replaces it when it already exists.
func (c *Collection[T]) Put(ctx context.Context, id uuid.UUID, v *T) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s record: %w", c.name, err)
	}

	query := `
		INSERT INTO records (collection, id, body, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (collection, id) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()
	`

	if _, err := c.db.ExecContext(ctx, query, c.name, id, body); err != nil {
		return fmt.Errorf("saving %s record: %w", c.name, err)
	}

	return nil
}

func (c *Collection[T]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	query := `SELECT body FROM records WHERE collection = $1 AND id = $2`

	var body []byte

	err := c.db.QueryRowContext(ctx, query, c.name, id).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("getting %s record: %w", c.name, err)
	}

	return decode[T](c.name, body)
}

// List returns every record in insertion order.
func (c *Collection[T]) List(ctx context.Context) ([]*T, error) {
	query := `SELECT body FROM records WHERE collection = $1 ORDER BY created_at ASC, id ASC`

	return c.query(ctx, query, c.name)
}

// Where returns the records whose top-level JSON field equals value.
func (c *Collection[T]) Where(ctx context.Context, field, value string) ([]*T, error) {
	query := `
		SELECT body FROM records
		WHERE collection = $1 AND body->>$2 = $3
		ORDER BY created_at ASC, id ASC
	`

	return c.query(ctx, query, c.name, field, value)
}

func (c *Collection[T]) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM records WHERE collection = $1 AND id = $2`

	res, err := c.db.ExecContext(ctx, query, c.name, id)
	if err != nil {
		return fmt.Errorf("deleting %s record: %w", c.name, err)
	}

	return requireAffected(res)
}

func (c *Collection[T]) query(ctx context.Context, query string, args ...any) ([]*T, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing %s records: %w", c.name, err)
	}
	defer rows.Close()

	var out []*T

	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scanning %s record: %w", c.name, err)
		}

		v, err := decode[T](c.name, body)
		if err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s records: %w", c.name, err)
	}

	return out, nil
}

func decode[T any](name string, body []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("decoding %s record: %w", name, err)
	}

	return &v, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return ErrNotFound
	}

	return nil
}

// InTx runs fn inside a transaction, committing when fn returns nil.
func InTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

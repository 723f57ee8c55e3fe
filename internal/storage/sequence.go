package storage

import (
	"context"
	"fmt"
	"hash/fnv"
)

// LockSeries takes a transaction-scoped advisory lock for series. The lock is
// released when the surrounding transaction ends.
func LockSeries(ctx context.Context, q Querier, series string) error {
	if _, err := q.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", seriesLockKey(series)); err != nil {
		return fmt.Errorf("acquiring %s lock: %w", series, err)
	}

	return nil
}

// NextValue increments and returns the counter of series, starting at 1.
func NextValue(ctx context.Context, q Querier, series string) (int64, error) {
	query := `
		INSERT INTO sequences (series, last_value)
		VALUES ($1, 1)
		ON CONFLICT (series) DO UPDATE SET last_value = sequences.last_value + 1
		RETURNING last_value
	`

	var v int64
	if err := q.QueryRowContext(ctx, query, series).Scan(&v); err != nil {
		return 0, fmt.Errorf("allocating %s value: %w", series, err)
	}

	return v, nil
}

func seriesLockKey(series string) int64 {
	h := fnv.New64a()
	h.Write([]byte("sequence:" + series))

	return int64(h.Sum64())
}

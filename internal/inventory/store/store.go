package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/contable/internal/inventory"
	"github.com/MrJamesThe3rd/contable/internal/storage"
)

type Store struct {
	db        *sql.DB
	products  *storage.Collection[inventory.Product]
	movements *storage.Collection[inventory.Movement]
}

func New(db *sql.DB) *Store {
	return &Store{
		db:        db,
		products:  storage.NewCollection[inventory.Product](db, "products"),
		movements: storage.NewCollection[inventory.Movement](db, "inventory_movements"),
	}
}

func (s *Store) CreateProduct(ctx context.Context, p *inventory.Product) error {
	return s.products.Insert(ctx, p.ID, p)
}

func (s *Store) GetProduct(ctx context.Context, id uuid.UUID) (*inventory.Product, error) {
	p, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	return p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p *inventory.Product) error {
	return notFound(s.products.Update(ctx, p.ID, p))
}

func (s *Store) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return notFound(s.products.Delete(ctx, id))
}

func (s *Store) ListProducts(ctx context.Context) ([]*inventory.Product, error) {
	return s.products.List(ctx)
}

func (s *Store) ApplyMovement(ctx context.Context, p *inventory.Product, m *inventory.Movement) error {
	return storage.InTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.products.WithQuerier(tx).Update(ctx, p.ID, p); err != nil {
			return notFound(err)
		}

		if err := s.movements.WithQuerier(tx).Insert(ctx, m.ID, m); err != nil {
			return fmt.Errorf("inserting movement: %w", err)
		}

		return nil
	})
}

func (s *Store) ListMovements(ctx context.Context, productID uuid.UUID) ([]*inventory.Movement, error) {
	return s.movements.Where(ctx, "productId", productID.String())
}

func notFound(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return inventory.ErrNotFound
	}

	if err != nil {
		return fmt.Errorf("inventory store: %w", err)
	}

	return nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/contable/internal/auth"
	"github.com/MrJamesThe3rd/contable/internal/storage"
)

type Store struct {
	users *storage.Collection[auth.User]
}

func New(db *sql.DB) *Store {
	return &Store{users: storage.NewCollection[auth.User](db, "users")}
}

func (s *Store) CreateUser(ctx context.Context, u *auth.User) error {
	return s.users.Insert(ctx, u.ID, u)
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	users, err := s.users.Where(ctx, "email", email)
	if err != nil {
		return nil, notFound(err)
	}

	if len(users) == 0 {
		return nil, auth.ErrNotFound
	}

	return users[0], nil
}

func (s *Store) UpdateUser(ctx context.Context, u *auth.User) error {
	return notFound(s.users.Update(ctx, u.ID, u))
}

func (s *Store) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return notFound(s.users.Delete(ctx, id))
}

func (s *Store) ListUsers(ctx context.Context) ([]*auth.User, error) {
	return s.users.List(ctx)
}

func notFound(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return auth.ErrNotFound
	}

	if err != nil {
		return fmt.Errorf("auth store: %w", err)
	}

	return nil
}

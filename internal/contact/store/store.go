package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/contable/internal/contact"
	"github.com/MrJamesThe3rd/contable/internal/storage"
)

type Store struct {
	contacts *storage.Collection[contact.Contact]
}

func New(db *sql.DB) *Store {
	return &Store{contacts: storage.NewCollection[contact.Contact](db, "contacts")}
}

func (s *Store) CreateContact(ctx context.Context, c *contact.Contact) error {
	return s.contacts.Insert(ctx, c.ID, c)
}

func (s *Store) GetContact(ctx context.Context, id uuid.UUID) (*contact.Contact, error) {
	c, err := s.contacts.Get(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	return c, nil
}

func (s *Store) UpdateContact(ctx context.Context, c *contact.Contact) error {
	return notFound(s.contacts.Update(ctx, c.ID, c))
}

func (s *Store) DeleteContact(ctx context.Context, id uuid.UUID) error {
	return notFound(s.contacts.Delete(ctx, id))
}

func (s *Store) ListContacts(ctx context.Context, role contact.Role) ([]*contact.Contact, error) {
	if role == "" {
		return s.contacts.List(ctx)
	}

	return s.contacts.Where(ctx, "role", string(role))
}

func notFound(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return contact.ErrNotFound
	}

	if err != nil {
		return fmt.Errorf("contact store: %w", err)
	}

	return nil
}

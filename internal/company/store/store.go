package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/contable/internal/company"
	"github.com/MrJamesThe3rd/contable/internal/storage"
)

// profileID keys the single company record.
var profileID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

type Store struct {
	companies *storage.Collection[company.Company]
}

func New(db *sql.DB) *Store {
	return &Store{companies: storage.NewCollection[company.Company](db, "company")}
}

func (s *Store) GetCompany(ctx context.Context) (*company.Company, error) {
	c, err := s.companies.Get(ctx, profileID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, company.ErrNotFound
		}

		return nil, fmt.Errorf("getting company: %w", err)
	}

	return c, nil
}

func (s *Store) SaveCompany(ctx context.Context, c *company.Company) error {
	return s.companies.Put(ctx, profileID, c)
}

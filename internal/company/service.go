package company

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/contable/internal/accesskey"
)

var (
	ErrNotFound           = errors.New("company not configured")
	ErrInvalidRUC         = errors.New("company RUC must be 13 digits")
	ErrInvalidCode        = errors.New("establishment and point of sale must be 1 to 3 digits")
	ErrInvalidEnvironment = errors.New("environment must be testing or production")
	ErrMissingName        = errors.New("company name is required")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=company
type Repository interface {
	GetCompany(ctx context.Context) (*Company, error)
	SaveCompany(ctx context.Context, c *Company) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type SaveParams struct {
	Name                 string
	TradeName            string
	RUC                  string
	Address              string
	BranchAddress        string
	Phone                string
	Email                string
	Website              string
	Establishment        string
	PointOfSale          string
	AccountingPeriod     string
	Environment          accesskey.Environment
	AccountingObligation bool
	SpecialContributor   string
}

func (s *Service) Get(ctx context.Context) (*Company, error) {
	return s.repo.GetCompany(ctx)
}

// Save validates and stores the profile. Only the RUC length is checked, not its
// checksum. Establishment and point of sale are zero-padded to 3 digits.
func (s *Service) Save(ctx context.Context, params SaveParams) (*Company, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrMissingName
	}

	ruc := strings.TrimSpace(params.RUC)
	if len(ruc) != 13 || !digits(ruc) {
		return nil, ErrInvalidRUC
	}

	estab, err := code(params.Establishment)
	if err != nil {
		return nil, err
	}

	pos, err := code(params.PointOfSale)
	if err != nil {
		return nil, err
	}

	env := params.Environment
	if env == "" {
		env = accesskey.EnvironmentTesting
	}

	if env != accesskey.EnvironmentTesting && env != accesskey.EnvironmentProduction {
		return nil, ErrInvalidEnvironment
	}

	c := &Company{
		Name:                 name,
		TradeName:            strings.TrimSpace(params.TradeName),
		RUC:                  ruc,
		Address:              strings.TrimSpace(params.Address),
		BranchAddress:        strings.TrimSpace(params.BranchAddress),
		Phone:                params.Phone,
		Email:                params.Email,
		Website:              params.Website,
		Establishment:        estab,
		PointOfSale:          pos,
		AccountingPeriod:     params.AccountingPeriod,
		Environment:          env,
		AccountingObligation: params.AccountingObligation,
		SpecialContributor:   params.SpecialContributor,
		UpdatedAt:            time.Now().UTC(),
	}

	if err := s.repo.SaveCompany(ctx, c); err != nil {
		return nil, fmt.Errorf("saving company: %w", err)
	}

	return c, nil
}

func code(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		v = "1"
	}

	if len(v) > 3 || !digits(v) {
		return "", ErrInvalidCode
	}

	return accesskey.PadLeft(v, 3), nil
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

package inventory

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/contable/internal/iva"
)

var (
	ErrNotFound        = errors.New("product not found")
	ErrDuplicateCode   = errors.New("product code already exists")
	ErrMissingCode     = errors.New("product code is required")
	ErrMissingName     = errors.New("product name is required")
	ErrInvalidRate     = errors.New("IVA rate is not an allowed rate")
	ErrInvalidQuantity = errors.New("movement quantity must not be negative")
	ErrInvalidMovement = errors.New("movement type must be entry, exit or adjustment")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=inventory
type Repository interface {
	CreateProduct(ctx context.Context, p *Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListProducts(ctx context.Context) ([]*Product, error)

	// ApplyMovement stores mv and the product's new stock atomically.
	ApplyMovement(ctx context.Context, p *Product, mv *Movement) error
	ListMovements(ctx context.Context, productID uuid.UUID) ([]*Movement, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

const openingStockReason = "Inventario inicial"

type ProductParams struct {
	Code           string
	Name           string
	Description    string
	Stock          decimal.Decimal
	MinStock       decimal.Decimal
	CostPrice      decimal.Decimal
	SalePrice      decimal.Decimal
	IVARate        decimal.Decimal
	TrackInventory bool
}

type ListFilter struct {
	Search       string
	LowStockOnly bool
}

type MovementParams struct {
	ProductID uuid.UUID
	Type      MovementType
	Quantity  decimal.Decimal
	Reason    string
	Reference string
	Date      time.Time
}

func (s *Service) CreateProduct(ctx context.Context, params ProductParams) (*Product, error) {
	p := &Product{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
	}
	params.apply(p)

	if err := s.validate(ctx, p); err != nil {
		return nil, err
	}

	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}

	if p.Stock.IsPositive() {
		opening := &Movement{
			ID:        uuid.New(),
			ProductID: p.ID,
			Type:      MovementEntry,
			Quantity:  p.Stock,
			Reason:    openingStockReason,
			Date:      p.CreatedAt,
		}

		if err := s.repo.ApplyMovement(ctx, p, opening); err != nil {
			return nil, fmt.Errorf("recording opening stock: %w", err)
		}
	}

	return p, nil
}

// ImportResult reports a catalog import. Rows that fail validation are listed in
// Failed and do not stop the import.
type ImportResult struct {
	Created []*Product
	Updated []*Product
	Failed  []ImportFailure
}

type ImportFailure struct {
	Row  int
	Code string
	Err  error
}

// ImportProducts creates products whose code is new and updates the catalog fields of
// the ones that already exist. Stock of existing products is left untouched.
func (s *Service) ImportProducts(ctx context.Context, rows []ProductParams) (*ImportResult, error) {
	existing, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	byCode := make(map[string]*Product, len(existing))
	for _, p := range existing {
		byCode[strings.ToLower(p.Code)] = p
	}

	res := &ImportResult{}

	for i, row := range rows {
		key := strings.ToLower(strings.TrimSpace(row.Code))

		p, found := byCode[key]
		if !found {
			created, err := s.CreateProduct(ctx, row)
			if err != nil {
				if isValidation(err) {
					res.Failed = append(res.Failed, ImportFailure{Row: i + 1, Code: row.Code, Err: err})
					continue
				}

				return nil, err
			}

			byCode[key] = created
			res.Created = append(res.Created, created)

			continue
		}

		updated, err := s.UpdateProduct(ctx, p.ID, row)
		if err != nil {
			if isValidation(err) {
				res.Failed = append(res.Failed, ImportFailure{Row: i + 1, Code: row.Code, Err: err})
				continue
			}

			return nil, err
		}

		res.Updated = append(res.Updated, updated)
	}

	return res, nil
}

func isValidation(err error) bool {
	return errors.Is(err, ErrMissingCode) || errors.Is(err, ErrMissingName) ||
		errors.Is(err, ErrInvalidRate) || errors.Is(err, ErrDuplicateCode)
}

func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.repo.GetProduct(ctx, id)
}

// UpdateProduct replaces the product's catalog fields. Stock is only changed through
// movements.
func (s *Service) UpdateProduct(ctx context.Context, id uuid.UUID, params ProductParams) (*Product, error) {
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	stock := p.Stock
	params.apply(p)
	p.Stock = stock

	if err := s.validate(ctx, p); err != nil {
		return nil, err
	}

	p.UpdatedAt = new(time.Now().UTC())

	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("updating product: %w", err)
	}

	return p, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteProduct(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, filter ListFilter) ([]*Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	term := strings.ToLower(strings.TrimSpace(filter.Search))

	var out []*Product

	for _, p := range products {
		if filter.LowStockOnly && !p.LowStock() {
			continue
		}

		if term != "" && !strings.Contains(strings.ToLower(p.Name), term) && !strings.Contains(strings.ToLower(p.Code), term) {
			continue
		}

		out = append(out, p)
	}

	return out, nil
}

// FindByCode returns the product with the given code.
func (s *Service) FindByCode(ctx context.Context, code string) (*Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	for _, p := range products {
		if strings.EqualFold(p.Code, code) {
			return p, nil
		}
	}

	return nil, ErrNotFound
}

// RecordMovement applies a stock movement to its product.
func (s *Service) RecordMovement(ctx context.Context, params MovementParams) (*Movement, error) {
	switch params.Type {
	case MovementEntry, MovementExit, MovementAdjustment:
	default:
		return nil, ErrInvalidMovement
	}

	if params.Quantity.IsNegative() {
		return nil, ErrInvalidQuantity
	}

	p, err := s.repo.GetProduct(ctx, params.ProductID)
	if err != nil {
		return nil, err
	}

	date := params.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	m := &Movement{
		ID:        uuid.New(),
		ProductID: p.ID,
		Type:      params.Type,
		Quantity:  params.Quantity,
		Reason:    params.Reason,
		Reference: params.Reference,
		Date:      date,
	}

	p.Stock = m.Apply(p.Stock)
	p.UpdatedAt = new(time.Now().UTC())

	if err := s.repo.ApplyMovement(ctx, p, m); err != nil {
		return nil, fmt.Errorf("applying movement: %w", err)
	}

	return m, nil
}

// Kardex lists a product's movements by date with the running balance, starting from
// zero stock.
func (s *Service) Kardex(ctx context.Context, productID uuid.UUID) ([]KardexEntry, error) {
	movements, err := s.repo.ListMovements(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("listing movements: %w", err)
	}

	slices.SortStableFunc(movements, func(a, b *Movement) int {
		return cmp.Compare(a.Date.UnixNano(), b.Date.UnixNano())
	})

	entries := make([]KardexEntry, 0, len(movements))
	balance := decimal.Zero

	for _, m := range movements {
		e := KardexEntry{Movement: *m, In: decimal.Zero, Out: decimal.Zero}

		switch m.Type {
		case MovementEntry:
			e.In = m.Quantity
		case MovementExit:
			e.Out = m.Quantity
		}

		balance = m.Apply(balance)
		e.Balance = balance
		entries = append(entries, e)
	}

	return entries, nil
}

func (s *Service) validate(ctx context.Context, p *Product) error {
	if p.Code == "" {
		return ErrMissingCode
	}

	if p.Name == "" {
		return ErrMissingName
	}

	if !iva.IsAllowed(p.IVARate) {
		return ErrInvalidRate
	}

	existing, err := s.FindByCode(ctx, p.Code)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	if existing != nil && existing.ID != p.ID {
		return ErrDuplicateCode
	}

	return nil
}

func (params ProductParams) apply(p *Product) {
	p.Code = strings.TrimSpace(params.Code)
	p.Name = strings.TrimSpace(params.Name)
	p.Description = params.Description
	p.Stock = params.Stock
	p.MinStock = params.MinStock
	p.CostPrice = params.CostPrice
	p.SalePrice = params.SalePrice
	p.IVARate = params.IVARate
	p.TrackInventory = params.TrackInventory
}

package purchase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/contable/internal/contact"
	"github.com/MrJamesThe3rd/contable/internal/inventory"
	"github.com/MrJamesThe3rd/contable/internal/iva"
)

var (
	ErrNotFound         = errors.New("purchase not found")
	ErrNotSupplier      = errors.New("contact is not a supplier")
	ErrNoLines          = errors.New("purchase has no lines")
	ErrInvalidQuantity  = errors.New("line quantity must be positive")
	ErrInvalidRate      = errors.New("line IVA rate is not an allowed rate")
	ErrMissingLineLabel = errors.New("line needs a product or a description")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=purchase
type Repository interface {
	BeginCreate(ctx context.Context) (CreateTx, error)
	GetPurchase(ctx context.Context, id uuid.UUID) (*Purchase, error)
	DeletePurchase(ctx context.Context, id uuid.UUID) error
	ListPurchases(ctx context.Context) ([]*Purchase, error)
}

type CreateTx interface {
	NextSequential(ctx context.Context) (int64, error)
	CreatePurchase(ctx context.Context, p *Purchase) error
	Commit() error
	Rollback() error
}

type SupplierGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*contact.Contact, error)
}

// Stock is the part of the inventory service a purchase feeds.
type Stock interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*inventory.Product, error)
	RecordMovement(ctx context.Context, params inventory.MovementParams) (*inventory.Movement, error)
}

type Service struct {
	repo      Repository
	suppliers SupplierGetter
	stock     Stock
	logger    *slog.Logger
}

func NewService(repo Repository, suppliers SupplierGetter, stock Stock, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{repo: repo, suppliers: suppliers, stock: stock, logger: logger}
}

type LineParams struct {
	ProductID   *uuid.UUID
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	// IVARate falls back to the product rate, then to DefaultIVARate.
	IVARate *decimal.Decimal
}

type CreateParams struct {
	SupplierID uuid.UUID
	Date       time.Time
	Lines      []LineParams
	Notes      string
}

type ListFilter struct {
	SupplierID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	Search     string
}

func FormatNumber(sequential int64) string {
	return fmt.Sprintf("COMP-%06d", sequential)
}

// Create stores the purchase and records an inventory entry for every line that
// references a product.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Purchase, error) {
	if len(params.Lines) == 0 {
		return nil, ErrNoLines
	}

	sup, err := s.suppliers.Get(ctx, params.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("loading supplier: %w", err)
	}

	if sup.Role != contact.RoleSupplier {
		return nil, ErrNotSupplier
	}

	p := &Purchase{
		ID:        uuid.New(),
		Supplier:  Supplier{ID: sup.ID, Name: sup.Name, Identification: sup.Identification},
		Date:      params.Date,
		Status:    StatusCompleted,
		Notes:     strings.TrimSpace(params.Notes),
		CreatedAt: time.Now().UTC(),
	}

	if p.Date.IsZero() {
		p.Date = p.CreatedAt
	}

	for i, lp := range params.Lines {
		line, err := s.line(ctx, lp)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}

		p.Lines = append(p.Lines, line)
	}

	p.recompute()

	tx, err := s.repo.BeginCreate(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin purchase creation: %w", err)
	}
	defer tx.Rollback()

	seq, err := tx.NextSequential(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocating purchase number: %w", err)
	}

	p.Number = FormatNumber(seq)

	if err := tx.CreatePurchase(ctx, p); err != nil {
		return nil, fmt.Errorf("creating purchase: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing purchase: %w", err)
	}

	for _, l := range p.Lines {
		if l.ProductID == nil {
			continue
		}

		_, err := s.stock.RecordMovement(ctx, inventory.MovementParams{
			ProductID: *l.ProductID,
			Type:      inventory.MovementEntry,
			Quantity:  l.Quantity,
			Reason:    "Compra",
			Reference: p.Number,
			Date:      p.Date,
		})
		if err != nil {
			return nil, fmt.Errorf("recording stock entry for %s: %w", p.Number, err)
		}
	}

	s.logger.Info("purchase registered", "number", p.Number, "total", p.Total.StringFixed(2))

	return p, nil
}

func (s *Service) line(ctx context.Context, lp LineParams) (Line, error) {
	if !lp.Quantity.IsPositive() {
		return Line{}, ErrInvalidQuantity
	}

	l := Line{
		ProductID:   lp.ProductID,
		Description: strings.TrimSpace(lp.Description),
		Quantity:    lp.Quantity,
		UnitPrice:   lp.UnitPrice,
		IVARate:     DefaultIVARate,
	}

	if lp.ProductID != nil {
		prod, err := s.stock.GetProduct(ctx, *lp.ProductID)
		if err != nil {
			return Line{}, fmt.Errorf("loading product: %w", err)
		}

		l.Code = prod.Code
		l.IVARate = prod.IVARate

		if l.Description == "" {
			l.Description = prod.Name
		}
	}

	if lp.IVARate != nil {
		l.IVARate = *lp.IVARate
	}

	if l.Description == "" {
		return Line{}, ErrMissingLineLabel
	}

	if !iva.IsAllowed(l.IVARate) {
		return Line{}, ErrInvalidRate
	}

	return l, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Purchase, error) {
	return s.repo.GetPurchase(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeletePurchase(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Purchase, error) {
	purchases, err := s.repo.ListPurchases(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing purchases: %w", err)
	}

	term := strings.ToLower(strings.TrimSpace(filter.Search))

	var out []*Purchase

	for _, p := range purchases {
		if filter.SupplierID != nil && p.Supplier.ID != *filter.SupplierID {
			continue
		}

		if filter.StartDate != nil && p.Date.Before(*filter.StartDate) {
			continue
		}

		if filter.EndDate != nil && p.Date.After(*filter.EndDate) {
			continue
		}

		if term != "" && !strings.Contains(strings.ToLower(p.Number), term) &&
			!strings.Contains(strings.ToLower(p.Supplier.Name), term) {
			continue
		}

		out = append(out, p)
	}

	return out, nil
}

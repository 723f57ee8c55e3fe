package invoice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/contable/internal/accesskey"
	"github.com/MrJamesThe3rd/contable/internal/company"
	"github.com/MrJamesThe3rd/contable/internal/contact"
	"github.com/MrJamesThe3rd/contable/internal/document"
	"github.com/MrJamesThe3rd/contable/internal/iva"
	"github.com/MrJamesThe3rd/contable/internal/sri"
)

var (
	ErrNotFound          = errors.New("invoice not found")
	ErrInvalidTransition = errors.New("invoice status can only move forward")
	ErrImmutable         = errors.New("authorized invoices cannot be modified")
	ErrNotPending        = errors.New("only pending invoices can be authorized")
	ErrNoItems           = errors.New("invoice has no items")
	ErrInvalidRate       = errors.New("item IVA rate is not an allowed rate")
	ErrNotClient         = errors.New("contact is not a client")
	ErrConflict          = errors.New("invoice was modified concurrently")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	// BeginCreate opens a transaction holding the numbering lock of series.
	BeginCreate(ctx context.Context, series string) (CreateTx, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error)
	// UpdateInvoice stores inv only if the stored invoice still has status from,
	// returning ErrConflict otherwise.
	UpdateInvoice(ctx context.Context, inv *Invoice, from Status) error
	DeleteInvoice(ctx context.Context, id uuid.UUID) error
	ListInvoices(ctx context.Context) ([]*Invoice, error)
}

type CreateTx interface {
	NextSequential(ctx context.Context) (int64, error)
	CreateInvoice(ctx context.Context, inv *Invoice) error
	Commit() error
	Rollback() error
}

type CompanyGetter interface {
	Get(ctx context.Context) (*company.Company, error)
}

type ClientGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*contact.Contact, error)
}

type Service struct {
	repo       Repository
	companies  CompanyGetter
	clients    ClientGetter
	authorizer sri.Authorizer
	logger     *slog.Logger
	rand       accesskey.Source
	now        func() time.Time
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithRand sets the source of the numeric codes assigned at creation.
func WithRand(src accesskey.Source) Option {
	return func(s *Service) { s.rand = src }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, companies CompanyGetter, clients ClientGetter, authorizer sri.Authorizer, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		companies:  companies,
		clients:    clients,
		authorizer: authorizer,
		logger:     slog.Default(),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

type CreateParams struct {
	ClientID       uuid.UUID
	IssueDate      time.Time
	Items          []document.Item
	PaymentMethod  string
	PaymentDetails string
	Tip            decimal.Decimal
	// Status is draft or pending; empty means pending.
	Status Status
}

type UpdateParams struct {
	ClientID       *uuid.UUID
	IssueDate      *time.Time
	Items          []document.Item
	PaymentMethod  *string
	PaymentDetails *string
	Tip            *decimal.Decimal
}

type ListFilter struct {
	Status    *Status
	StartDate *time.Time
	EndDate   *time.Time
	// Search matches the number or the client name, case-insensitively.
	Search string
}

// AuthorizeResult pairs the stored invoice with the authorizer's answer.
type AuthorizeResult struct {
	Invoice *Invoice
	Result  *sri.Result
}

// Create numbers and stores a new invoice. The sequential is allocated per
// establishment and point of sale while the series lock is held.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Invoice, error) {
	if params.Status == "" {
		params.Status = StatusPending
	}

	if params.Status != StatusDraft && params.Status != StatusPending {
		return nil, ErrInvalidTransition
	}

	if err := validateItems(params.Items); err != nil {
		return nil, err
	}

	comp, err := s.companies.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading company: %w", err)
	}

	client, err := s.client(ctx, params.ClientID)
	if err != nil {
		return nil, err
	}

	issueDate := params.IssueDate
	if issueDate.IsZero() {
		issueDate = s.now()
	}

	method := strings.TrimSpace(params.PaymentMethod)
	if method == "" {
		method = DefaultPaymentMethod
	}

	inv := &Invoice{
		ID:             uuid.New(),
		Client:         client,
		IssueDate:      issueDate,
		Items:          params.Items,
		PaymentMethod:  method,
		PaymentDetails: params.PaymentDetails,
		Tip:            params.Tip,
		NumericCode:    accesskey.RandomNumericCode(s.rand),
		Status:         params.Status,
		CreatedAt:      s.now().UTC(),
	}
	inv.recompute()

	tx, err := s.repo.BeginCreate(ctx, comp.Series())
	if err != nil {
		return nil, fmt.Errorf("begin invoice creation: %w", err)
	}
	defer tx.Rollback()

	seq, err := tx.NextSequential(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocating sequential: %w", err)
	}

	inv.Sequential = seq
	inv.Number = FormatNumber(comp.Establishment, comp.PointOfSale, seq)

	if err := tx.CreateInvoice(ctx, inv); err != nil {
		return nil, fmt.Errorf("creating invoice: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing invoice: %w", err)
	}

	s.logger.Info("invoice created", "number", inv.Number, "status", inv.Status)

	return inv, nil
}

// FormatNumber renders an EEE-PPP-SSSSSSSSS invoice number.
func FormatNumber(establishment, pointOfSale string, sequential int64) string {
	return fmt.Sprintf("%s-%s-%09d", accesskey.PadLeft(establishment, 3), accesskey.PadLeft(pointOfSale, 3), sequential)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.repo.GetInvoice(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Invoice, error) {
	invoices, err := s.repo.ListInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}

	term := strings.ToLower(strings.TrimSpace(filter.Search))

	var out []*Invoice

	for _, inv := range invoices {
		if filter.Status != nil && inv.Status != *filter.Status {
			continue
		}

		if filter.StartDate != nil && inv.IssueDate.Before(*filter.StartDate) {
			continue
		}

		if filter.EndDate != nil && inv.IssueDate.After(*filter.EndDate) {
			continue
		}

		if term != "" && !strings.Contains(strings.ToLower(inv.Number), term) &&
			!strings.Contains(strings.ToLower(inv.Client.Name), term) {
			continue
		}

		out = append(out, inv)
	}

	return out, nil
}

// Update edits an invoice that has not been authorized yet.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	if inv.Status == StatusAuthorized {
		return nil, ErrImmutable
	}

	from := inv.Status

	if params.ClientID != nil {
		client, err := s.client(ctx, *params.ClientID)
		if err != nil {
			return nil, err
		}

		inv.Client = client
	}

	if params.Items != nil {
		if err := validateItems(params.Items); err != nil {
			return nil, err
		}

		inv.Items = params.Items
	}

	if params.IssueDate != nil {
		inv.IssueDate = *params.IssueDate
	}

	if params.PaymentMethod != nil {
		inv.PaymentMethod = *params.PaymentMethod
	}

	if params.PaymentDetails != nil {
		inv.PaymentDetails = *params.PaymentDetails
	}

	if params.Tip != nil {
		inv.Tip = *params.Tip
	}

	inv.recompute()
	inv.UpdatedAt = new(s.now().UTC())

	if err := s.repo.UpdateInvoice(ctx, inv, from); err != nil {
		return nil, fmt.Errorf("updating invoice: %w", err)
	}

	return inv, nil
}

// Submit moves a draft to pending.
func (s *Service) Submit(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	from := inv.Status

	if err := transition(inv, StatusPending); err != nil {
		return nil, err
	}

	inv.UpdatedAt = new(s.now().UTC())

	if err := s.repo.UpdateInvoice(ctx, inv, from); err != nil {
		return nil, fmt.Errorf("updating invoice: %w", err)
	}

	return inv, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return err
	}

	if inv.Status == StatusAuthorized {
		return ErrImmutable
	}

	return s.repo.DeleteInvoice(ctx, id)
}

// Authorize validates a pending invoice and submits it to the tax authority. A
// rejection leaves the invoice pending and is reported in the result, not as an error.
// The access key is only assigned when the invoice has none.
func (s *Service) Authorize(ctx context.Context, id uuid.UUID) (*AuthorizeResult, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	if inv.Status != StatusPending {
		return nil, ErrNotPending
	}

	comp, err := s.companies.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading company: %w", err)
	}

	if _, err := document.Build(inv.DocumentInput(comp)); err != nil {
		return nil, err
	}

	res, err := s.authorizer.Authorize(ctx, sri.Request{
		AccessKey: inv.AccessKey,
		Key:       inv.KeyParams(comp),
	})
	if err != nil {
		return nil, fmt.Errorf("requesting authorization: %w", err)
	}

	inv.LastMessage = res.Message
	inv.UpdatedAt = new(s.now().UTC())

	if res.Authorized {
		if err := transition(inv, StatusAuthorized); err != nil {
			return nil, err
		}

		if inv.AccessKey == "" {
			inv.AccessKey = res.AccessKey
		}

		inv.AuthorizationNumber = res.AuthorizationNumber
		inv.AuthorizationDate = new(res.AuthorizationDate)
	}

	if err := s.repo.UpdateInvoice(ctx, inv, StatusPending); err != nil {
		return nil, fmt.Errorf("updating invoice: %w", err)
	}

	if res.Authorized {
		s.logger.Info("invoice authorized", "number", inv.Number, "authorization_number", inv.AuthorizationNumber)
	} else {
		s.logger.Warn("invoice authorization rejected", "number", inv.Number, "message", res.Message)
	}

	return &AuthorizeResult{Invoice: inv, Result: res}, nil
}

// Document builds the fiscal document of an invoice.
func (s *Service) Document(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	comp, err := s.companies.Get(ctx)
	if err != nil && !errors.Is(err, company.ErrNotFound) {
		return nil, fmt.Errorf("loading company: %w", err)
	}

	return document.Build(inv.DocumentInput(comp))
}

func (s *Service) XML(ctx context.Context, id uuid.UUID) ([]byte, error) {
	doc, err := s.Document(ctx, id)
	if err != nil {
		return nil, err
	}

	return doc.XML()
}

func (s *Service) PDF(ctx context.Context, id uuid.UUID) ([]byte, error) {
	doc, err := s.Document(ctx, id)
	if err != nil {
		return nil, err
	}

	return doc.PDF()
}

func (s *Service) client(ctx context.Context, id uuid.UUID) (Client, error) {
	c, err := s.clients.Get(ctx, id)
	if err != nil {
		return Client{}, fmt.Errorf("loading client: %w", err)
	}

	if c.Role != contact.RoleClient {
		return Client{}, ErrNotClient
	}

	return Client{
		ID:             c.ID,
		Name:           c.Name,
		Identification: c.Identification,
		Address:        c.Address,
		Email:          c.Email,
	}, nil
}

func transition(inv *Invoice, next Status) error {
	if !inv.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, inv.Status, next)
	}

	inv.Status = next

	return nil
}

func validateItems(items []document.Item) error {
	if len(items) == 0 {
		return ErrNoItems
	}

	for _, it := range items {
		if !iva.IsAllowed(it.IVARate) {
			return fmt.Errorf("%w: %s", ErrInvalidRate, it.IVARate)
		}
	}

	return nil
}

package workorder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/contable/internal/contact"
)

var (
	ErrNotFound          = errors.New("work order not found")
	ErrNotClient         = errors.New("contact is not a client")
	ErrNoItems           = errors.New("work order has no items")
	ErrMissingDesc       = errors.New("work order description is required")
	ErrInvalidStatus     = errors.New("invalid work order status")
	ErrInvalidTransition = errors.New("work order status change not allowed")
	ErrDueBeforeStart    = errors.New("due date is before start date")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=workorder
type Repository interface {
	BeginCreate(ctx context.Context) (CreateTx, error)
	GetWorkOrder(ctx context.Context, id uuid.UUID) (*WorkOrder, error)
	UpdateWorkOrder(ctx context.Context, w *WorkOrder) error
	DeleteWorkOrder(ctx context.Context, id uuid.UUID) error
	ListWorkOrders(ctx context.Context) ([]*WorkOrder, error)
}

type CreateTx interface {
	NextSequential(ctx context.Context) (int64, error)
	CreateWorkOrder(ctx context.Context, w *WorkOrder) error
	Commit() error
	Rollback() error
}

type ClientGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*contact.Contact, error)
}

type Service struct {
	repo    Repository
	clients ClientGetter
}

func NewService(repo Repository, clients ClientGetter) *Service {
	return &Service{repo: repo, clients: clients}
}

type CreateParams struct {
	ClientID    uuid.UUID
	Description string
	StartDate   time.Time
	DueDate     time.Time
	Items       []Item
	Status      Status
}

type ListFilter struct {
	Status *Status
	Search string
}

func FormatNumber(sequential int64) string {
	return fmt.Sprintf("OT-%06d", sequential)
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*WorkOrder, error) {
	desc := strings.TrimSpace(params.Description)
	if desc == "" {
		return nil, ErrMissingDesc
	}

	if len(params.Items) == 0 {
		return nil, ErrNoItems
	}

	if params.Status == "" {
		params.Status = StatusPending
	}

	if !params.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	if !params.DueDate.IsZero() && params.DueDate.Before(params.StartDate) {
		return nil, ErrDueBeforeStart
	}

	c, err := s.clients.Get(ctx, params.ClientID)
	if err != nil {
		return nil, fmt.Errorf("loading client: %w", err)
	}

	if c.Role != contact.RoleClient {
		return nil, ErrNotClient
	}

	w := &WorkOrder{
		ID:          uuid.New(),
		Client:      Client{ID: c.ID, Name: c.Name},
		Description: desc,
		StartDate:   params.StartDate,
		DueDate:     params.DueDate,
		Items:       params.Items,
		Status:      params.Status,
		CreatedAt:   time.Now().UTC(),
	}
	w.recompute()

	tx, err := s.repo.BeginCreate(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin work order creation: %w", err)
	}
	defer tx.Rollback()

	seq, err := tx.NextSequential(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocating work order number: %w", err)
	}

	w.Number = FormatNumber(seq)

	if err := tx.CreateWorkOrder(ctx, w); err != nil {
		return nil, fmt.Errorf("creating work order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing work order: %w", err)
	}

	return w, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*WorkOrder, error) {
	return s.repo.GetWorkOrder(ctx, id)
}

// SetStatus moves the order to status when the change is allowed.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status Status) (*WorkOrder, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	w, err := s.repo.GetWorkOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if !w.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, w.Status, status)
	}

	w.Status = status
	w.UpdatedAt = new(time.Now().UTC())

	if err := s.repo.UpdateWorkOrder(ctx, w); err != nil {
		return nil, fmt.Errorf("updating work order: %w", err)
	}

	return w, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteWorkOrder(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*WorkOrder, error) {
	orders, err := s.repo.ListWorkOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing work orders: %w", err)
	}

	term := strings.ToLower(strings.TrimSpace(filter.Search))

	var out []*WorkOrder

	for _, w := range orders {
		if filter.Status != nil && w.Status != *filter.Status {
			continue
		}

		if term != "" && !strings.Contains(strings.ToLower(w.Number), term) &&
			!strings.Contains(strings.ToLower(w.Client.Name), term) {
			continue
		}

		out = append(out, w)
	}

	return out, nil
}

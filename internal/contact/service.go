package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/contable/internal/identity"
)

var (
	ErrNotFound              = errors.New("contact not found")
	ErrInvalidIdentification = errors.New("identification fails the Cédula/RUC checksum")
	ErrDuplicate             = errors.New("identification already registered")
	ErrMissingName           = errors.New("contact name is required")
	ErrInvalidRole           = errors.New("role must be client or supplier")
	ErrInvalidType           = errors.New("type must be person or company")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=contact
type Repository interface {
	CreateContact(ctx context.Context, c *Contact) error
	GetContact(ctx context.Context, id uuid.UUID) (*Contact, error)
	UpdateContact(ctx context.Context, c *Contact) error
	DeleteContact(ctx context.Context, id uuid.UUID) error
	ListContacts(ctx context.Context, role Role) ([]*Contact, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Role           Role
	Name           string
	Identification string
	Type           Type
	Email          string
	Phone          string
	Address        string
	ContactPerson  string
}

type UpdateParams struct {
	Name           *string
	Identification *string
	Type           *Type
	Email          *string
	Phone          *string
	Address        *string
	ContactPerson  *string
	Active         *bool
}

type ListFilter struct {
	Role Role
	// Search matches name or identification, case-insensitively.
	Search string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Contact, error) {
	if params.Role != RoleClient && params.Role != RoleSupplier {
		return nil, ErrInvalidRole
	}

	if params.Type == "" {
		params.Type = defaultType(params.Identification)
	}

	c := &Contact{
		ID:             uuid.New(),
		Role:           params.Role,
		Name:           strings.TrimSpace(params.Name),
		Identification: strings.TrimSpace(params.Identification),
		Type:           params.Type,
		Email:          params.Email,
		Phone:          params.Phone,
		Address:        params.Address,
		ContactPerson:  params.ContactPerson,
		Active:         true,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.validate(ctx, c); err != nil {
		return nil, err
	}

	if err := s.repo.CreateContact(ctx, c); err != nil {
		return nil, fmt.Errorf("creating contact: %w", err)
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Contact, error) {
	return s.repo.GetContact(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Contact, error) {
	c, err := s.repo.GetContact(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		c.Name = strings.TrimSpace(*params.Name)
	}

	if params.Identification != nil {
		c.Identification = strings.TrimSpace(*params.Identification)
	}

	if params.Type != nil {
		c.Type = *params.Type
	}

	if params.Email != nil {
		c.Email = *params.Email
	}

	if params.Phone != nil {
		c.Phone = *params.Phone
	}

	if params.Address != nil {
		c.Address = *params.Address
	}

	if params.ContactPerson != nil {
		c.ContactPerson = *params.ContactPerson
	}

	if params.Active != nil {
		c.Active = *params.Active
	}

	if err := s.validate(ctx, c); err != nil {
		return nil, err
	}

	c.UpdatedAt = new(time.Now().UTC())

	if err := s.repo.UpdateContact(ctx, c); err != nil {
		return nil, fmt.Errorf("updating contact: %w", err)
	}

	return c, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteContact(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Contact, error) {
	contacts, err := s.repo.ListContacts(ctx, filter.Role)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}

	term := strings.ToLower(strings.TrimSpace(filter.Search))
	if term == "" {
		return contacts, nil
	}

	var out []*Contact

	for _, c := range contacts {
		if strings.Contains(strings.ToLower(c.Name), term) || strings.Contains(c.Identification, term) {
			out = append(out, c)
		}
	}

	return out, nil
}

// FindByIdentification returns the contact of the given role holding identification.
func (s *Service) FindByIdentification(ctx context.Context, role Role, identification string) (*Contact, error) {
	contacts, err := s.repo.ListContacts(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}

	for _, c := range contacts {
		if c.Identification == identification {
			return c, nil
		}
	}

	return nil, ErrNotFound
}

// validate checks the fields and rejects an identification that fails the checksum
// implied by its length or that another contact of the same role already holds.
func (s *Service) validate(ctx context.Context, c *Contact) error {
	if c.Name == "" {
		return ErrMissingName
	}

	if c.Type != TypePerson && c.Type != TypeCompany {
		return ErrInvalidType
	}

	if !identity.Validate(c.Identification) {
		return ErrInvalidIdentification
	}

	existing, err := s.FindByIdentification(ctx, c.Role, c.Identification)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	if existing != nil && existing.ID != c.ID {
		return ErrDuplicate
	}

	return nil
}

func defaultType(identification string) Type {
	if identity.KindOf(strings.TrimSpace(identification)) == identity.KindRUC {
		return TypeCompany
	}

	return TypePerson
}

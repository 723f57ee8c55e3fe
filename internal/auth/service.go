package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrWeakPassword       = errors.New("password must have at least 8 characters")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidPermission  = errors.New("unknown module or action")
	ErrLastAdmin          = errors.New("cannot remove the last active administrator")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=auth
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUser(ctx context.Context, u *User) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
	ListUsers(ctx context.Context) ([]*User, error)
}

type Service struct {
	repo   Repository
	tokens *Tokens
	cost   int
}

func NewService(repo Repository, tokens *Tokens) *Service {
	return &Service{repo: repo, tokens: tokens, cost: bcrypt.DefaultCost}
}

// WithCost returns a copy of the service hashing with the given bcrypt cost.
func (s *Service) WithCost(cost int) *Service {
	c := *s
	c.cost = cost

	return &c
}

type UserParams struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	IsAdmin     bool
	Status      Status
	Permissions Permissions
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"-"`
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}

	return email, nil
}

func validatePermissions(p Permissions) error {
	for m, actions := range p {
		if !m.Valid() {
			return fmt.Errorf("%w: %s", ErrInvalidPermission, m)
		}

		for _, a := range actions {
			if !a.Valid() {
				return fmt.Errorf("%w: %s", ErrInvalidPermission, a)
			}
		}
	}

	return nil
}

func (s *Service) hash(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", ErrWeakPassword
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	return string(h), nil
}

// Login checks the credentials and opens a session. Unknown emails, wrong
// passwords and inactive accounts all yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, fmt.Errorf("loading user: %w", err)
	}

	if u.Status != StatusActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}

	return &Session{Token: token, ExpiresAt: exp, User: u}, nil
}

// Authenticate resolves a session token to an active user.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	id, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidToken
		}

		return nil, fmt.Errorf("loading user: %w", err)
	}

	if u.Status != StatusActive {
		return nil, ErrInvalidToken
	}

	return u, nil
}

func (s *Service) CreateUser(ctx context.Context, params UserParams) (*User, error) {
	email, err := normalizeEmail(params.Email)
	if err != nil {
		return nil, err
	}

	if err := validatePermissions(params.Permissions); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("checking email: %w", err)
	}

	hash, err := s.hash(params.Password)
	if err != nil {
		return nil, err
	}

	status := params.Status
	if status == "" {
		status = StatusActive
	}

	u := &User{
		ID:           uuid.New(),
		Email:        email,
		FirstName:    strings.TrimSpace(params.FirstName),
		LastName:     strings.TrimSpace(params.LastName),
		PasswordHash: hash,
		IsAdmin:      params.IsAdmin,
		Status:       status,
		Permissions:  params.Permissions,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return u, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	sort.SliceStable(users, func(i, j int) bool { return users[i].Email < users[j].Email })

	return users, nil
}

// UpdateUser replaces the profile and capabilities of a user. An empty password
// keeps the current one.
func (s *Service) UpdateUser(ctx context.Context, id uuid.UUID, params UserParams) (*User, error) {
	if err := validatePermissions(params.Permissions); err != nil {
		return nil, err
	}

	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	status := params.Status
	if status == "" {
		status = u.Status
	}

	if u.IsAdmin && (!params.IsAdmin || status != StatusActive) {
		if err := s.ensureOtherAdmin(ctx, u.ID); err != nil {
			return nil, err
		}
	}

	if params.Password != "" {
		hash, err := s.hash(params.Password)
		if err != nil {
			return nil, err
		}

		u.PasswordHash = hash
	}

	u.FirstName = strings.TrimSpace(params.FirstName)
	u.LastName = strings.TrimSpace(params.LastName)
	u.IsAdmin = params.IsAdmin
	u.Status = status
	u.Permissions = params.Permissions
	u.UpdatedAt = new(time.Now().UTC())

	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}

	return u, nil
}

func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return err
	}

	if u.IsAdmin {
		if err := s.ensureOtherAdmin(ctx, u.ID); err != nil {
			return err
		}
	}

	return s.repo.DeleteUser(ctx, id)
}

func (s *Service) ensureOtherAdmin(ctx context.Context, except uuid.UUID) error {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("listing users: %w", err)
	}

	for _, u := range users {
		if u.ID != except && u.IsAdmin && u.Status == StatusActive {
			return nil
		}
	}

	return ErrLastAdmin
}

// EnsureAdmin creates the bootstrap administrator when no user has its email.
// An existing account is left untouched.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	_, err = s.repo.GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}

	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("checking admin: %w", err)
	}

	if _, err := s.CreateUser(ctx, UserParams{
		Email:     email,
		Password:  password,
		FirstName: "Administrador",
		IsAdmin:   true,
	}); err != nil {
		return fmt.Errorf("bootstrapping admin: %w", err)
	}

	slog.Info("bootstrap administrator created", "email", email)

	return nil
}

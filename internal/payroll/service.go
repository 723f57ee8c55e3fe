package payroll

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/contable/internal/identity"
)

const periodLayout = "2006-01"

var (
	ErrNotFound              = errors.New("employee not found")
	ErrRecordNotFound        = errors.New("payroll record not found")
	ErrMissingName           = errors.New("employee name is required")
	ErrInvalidIdentification = errors.New("employee identification is not a valid cédula")
	ErrInvalidSalary         = errors.New("base salary must be positive")
	ErrInvalidPeriod         = errors.New("period must be formatted YYYY-MM")
	ErrInvalidMonths         = errors.New("months worked must be between 1 and 12")
	ErrInactiveEmployee      = errors.New("employee is inactive")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=payroll
type Repository interface {
	CreateEmployee(ctx context.Context, e *Employee) error
	GetEmployee(ctx context.Context, id uuid.UUID) (*Employee, error)
	UpdateEmployee(ctx context.Context, e *Employee) error
	ListEmployees(ctx context.Context) ([]*Employee, error)

	CreateRecord(ctx context.Context, r *Record) error
	GetRecord(ctx context.Context, id uuid.UUID) (*Record, error)
	ListRecords(ctx context.Context) ([]*Record, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type EmployeeParams struct {
	Name           string
	Identification string
	Position       string
	BaseSalary     decimal.Decimal
	HireDate       time.Time
}

type RunParams struct {
	EmployeeID uuid.UUID
	Period     string
	// BaseSalary overrides the employee's salary when set.
	BaseSalary   *decimal.Decimal
	MonthsWorked int
}

type RecordFilter struct {
	EmployeeID *uuid.UUID
	Period     string
}

func (params EmployeeParams) validate() error {
	if strings.TrimSpace(params.Name) == "" {
		return ErrMissingName
	}

	if !identity.ValidateCedula(strings.TrimSpace(params.Identification)) {
		return ErrInvalidIdentification
	}

	if !params.BaseSalary.IsPositive() {
		return ErrInvalidSalary
	}

	return nil
}

func (s *Service) CreateEmployee(ctx context.Context, params EmployeeParams) (*Employee, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	e := &Employee{
		ID:             uuid.New(),
		Name:           strings.TrimSpace(params.Name),
		Identification: strings.TrimSpace(params.Identification),
		Position:       strings.TrimSpace(params.Position),
		BaseSalary:     params.BaseSalary,
		HireDate:       params.HireDate,
		Active:         true,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.repo.CreateEmployee(ctx, e); err != nil {
		return nil, fmt.Errorf("creating employee: %w", err)
	}

	return e, nil
}

func (s *Service) GetEmployee(ctx context.Context, id uuid.UUID) (*Employee, error) {
	return s.repo.GetEmployee(ctx, id)
}

func (s *Service) UpdateEmployee(ctx context.Context, id uuid.UUID, params EmployeeParams) (*Employee, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	e, err := s.repo.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	e.Name = strings.TrimSpace(params.Name)
	e.Identification = strings.TrimSpace(params.Identification)
	e.Position = strings.TrimSpace(params.Position)
	e.BaseSalary = params.BaseSalary
	e.HireDate = params.HireDate
	e.UpdatedAt = new(time.Now().UTC())

	if err := s.repo.UpdateEmployee(ctx, e); err != nil {
		return nil, fmt.Errorf("updating employee: %w", err)
	}

	return e, nil
}

// Deactivate keeps the employee for history but blocks new payroll runs.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	e, err := s.repo.GetEmployee(ctx, id)
	if err != nil {
		return err
	}

	e.Active = false
	e.UpdatedAt = new(time.Now().UTC())

	return s.repo.UpdateEmployee(ctx, e)
}

func (s *Service) ListEmployees(ctx context.Context) ([]*Employee, error) {
	employees, err := s.repo.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}

	sort.SliceStable(employees, func(i, j int) bool { return employees[i].Name < employees[j].Name })

	return employees, nil
}

// Run computes the payroll of an employee for a period and stores it.
func (s *Service) Run(ctx context.Context, params RunParams) (*Record, error) {
	if _, err := time.Parse(periodLayout, params.Period); err != nil {
		return nil, ErrInvalidPeriod
	}

	if params.MonthsWorked < 1 || params.MonthsWorked > 12 {
		return nil, ErrInvalidMonths
	}

	e, err := s.repo.GetEmployee(ctx, params.EmployeeID)
	if err != nil {
		return nil, err
	}

	if !e.Active {
		return nil, ErrInactiveEmployee
	}

	base := e.BaseSalary
	if params.BaseSalary != nil {
		base = *params.BaseSalary
	}

	if !base.IsPositive() {
		return nil, ErrInvalidSalary
	}

	r := &Record{
		ID:           uuid.New(),
		EmployeeID:   e.ID,
		EmployeeName: e.Name,
		Period:       params.Period,
		MonthsWorked: params.MonthsWorked,
		Breakdown:    Compute(base, params.MonthsWorked),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.CreateRecord(ctx, r); err != nil {
		return nil, fmt.Errorf("creating payroll record: %w", err)
	}

	return r, nil
}

func (s *Service) GetRecord(ctx context.Context, id uuid.UUID) (*Record, error) {
	return s.repo.GetRecord(ctx, id)
}

// ListRecords returns matching records, newest period first.
func (s *Service) ListRecords(ctx context.Context, filter RecordFilter) ([]*Record, error) {
	records, err := s.repo.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing payroll records: %w", err)
	}

	var out []*Record

	for _, r := range records {
		if filter.EmployeeID != nil && r.EmployeeID != *filter.EmployeeID {
			continue
		}

		if filter.Period != "" && r.Period != filter.Period {
			continue
		}

		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Period > out[j].Period })

	return out, nil
}

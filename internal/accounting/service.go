package accounting

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound         = errors.New("account not found")
	ErrEntryNotFound    = errors.New("journal entry not found")
	ErrInvalidType      = errors.New("invalid account type")
	ErrMissingCode      = errors.New("account code is required")
	ErrMissingName      = errors.New("account name is required")
	ErrDuplicateCode    = errors.New("account code already exists")
	ErrAccountInUse     = errors.New("account has journal lines")
	ErrTooFewLines      = errors.New("journal entry needs at least two lines")
	ErrUnknownAccount   = errors.New("journal line references an unknown account")
	ErrNegativeAmount   = errors.New("journal line amounts cannot be negative")
	ErrUnbalanced       = errors.New("debits and credits must be equal")
	ErrMissingEntryDesc = errors.New("journal entry description is required")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=accounting
type Repository interface {
	CreateAccount(ctx context.Context, a *Account) error
	GetAccount(ctx context.Context, id uuid.UUID) (*Account, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error
	ListAccounts(ctx context.Context) ([]*Account, error)

	BeginEntry(ctx context.Context) (EntryTx, error)
	GetEntry(ctx context.Context, id uuid.UUID) (*Entry, error)
	ListEntries(ctx context.Context) ([]*Entry, error)
}

type EntryTx interface {
	NextSequential(ctx context.Context) (int64, error)
	CreateEntry(ctx context.Context, e *Entry) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type AccountParams struct {
	Code     string
	Name     string
	Type     AccountType
	ParentID *uuid.UUID
}

type EntryParams struct {
	Date        time.Time
	Description string
	Lines       []Line
}

// Period bounds journal queries; nil ends are open.
type Period struct {
	Start *time.Time
	End   *time.Time
}

func (p Period) contains(t time.Time) bool {
	if p.Start != nil && t.Before(*p.Start) {
		return false
	}

	if p.End != nil && t.After(*p.End) {
		return false
	}

	return true
}

func FormatNumber(sequential int64) string {
	return fmt.Sprintf("AS-%06d", sequential)
}

func (s *Service) CreateAccount(ctx context.Context, params AccountParams) (*Account, error) {
	code := strings.TrimSpace(params.Code)
	if code == "" {
		return nil, ErrMissingCode
	}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrMissingName
	}

	if !params.Type.Valid() {
		return nil, ErrInvalidType
	}

	accounts, err := s.repo.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}

	for _, a := range accounts {
		if a.Code == code {
			return nil, ErrDuplicateCode
		}
	}

	if params.ParentID != nil {
		if _, err := s.repo.GetAccount(ctx, *params.ParentID); err != nil {
			return nil, fmt.Errorf("loading parent account: %w", err)
		}
	}

	a := &Account{
		ID:        uuid.New(),
		Code:      code,
		Name:      name,
		Type:      params.Type,
		ParentID:  params.ParentID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.CreateAccount(ctx, a); err != nil {
		return nil, fmt.Errorf("creating account: %w", err)
	}

	return a, nil
}

func (s *Service) GetAccount(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.repo.GetAccount(ctx, id)
}

// ListAccounts returns the chart ordered by code.
func (s *Service) ListAccounts(ctx context.Context) ([]*Account, error) {
	accounts, err := s.repo.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}

	sort.SliceStable(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })

	return accounts, nil
}

// DeleteAccount removes an account that no journal line references.
func (s *Service) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	entries, err := s.repo.ListEntries(ctx)
	if err != nil {
		return fmt.Errorf("listing entries: %w", err)
	}

	for _, e := range entries {
		for _, l := range e.Lines {
			if l.AccountID == id {
				return ErrAccountInUse
			}
		}
	}

	return s.repo.DeleteAccount(ctx, id)
}

// CreateEntry records a journal entry after checking it balances.
func (s *Service) CreateEntry(ctx context.Context, params EntryParams) (*Entry, error) {
	desc := strings.TrimSpace(params.Description)
	if desc == "" {
		return nil, ErrMissingEntryDesc
	}

	if len(params.Lines) < 2 {
		return nil, ErrTooFewLines
	}

	accounts, err := s.accountIndex(ctx)
	if err != nil {
		return nil, err
	}

	for _, l := range params.Lines {
		if _, ok := accounts[l.AccountID]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownAccount, l.AccountID)
		}

		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return nil, ErrNegativeAmount
		}
	}

	debit, credit := Totals(params.Lines)
	if !Balanced(debit, credit) {
		return nil, fmt.Errorf("%w: debit %s, credit %s", ErrUnbalanced, debit.StringFixed(2), credit.StringFixed(2))
	}

	e := &Entry{
		ID:          uuid.New(),
		Date:        params.Date,
		Description: desc,
		Lines:       params.Lines,
		TotalDebit:  debit,
		TotalCredit: credit,
		CreatedAt:   time.Now().UTC(),
	}

	if e.Date.IsZero() {
		e.Date = e.CreatedAt
	}

	tx, err := s.repo.BeginEntry(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin journal entry: %w", err)
	}
	defer tx.Rollback()

	seq, err := tx.NextSequential(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocating entry number: %w", err)
	}

	e.Number = FormatNumber(seq)

	if err := tx.CreateEntry(ctx, e); err != nil {
		return nil, fmt.Errorf("creating journal entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing journal entry: %w", err)
	}

	return e, nil
}

func (s *Service) GetEntry(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return s.repo.GetEntry(ctx, id)
}

// ListEntries returns the entries of period sorted by date.
func (s *Service) ListEntries(ctx context.Context, period Period) ([]*Entry, error) {
	entries, err := s.repo.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}

	var out []*Entry

	for _, e := range entries {
		if period.contains(e.Date) {
			out = append(out, e)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	return out, nil
}

// Summary totals the journal lines of period by account type.
func (s *Service) Summary(ctx context.Context, period Period) (*Summary, error) {
	accounts, err := s.accountIndex(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.ListEntries(ctx, period)
	if err != nil {
		return nil, err
	}

	var sum Summary

	for _, e := range entries {
		for _, l := range e.Lines {
			if a, ok := accounts[l.AccountID]; ok {
				sum.add(a.Type, l)
			}
		}
	}

	return &sum, nil
}

// Balances returns the balance of every account over period, ordered by code.
func (s *Service) Balances(ctx context.Context, period Period) ([]AccountBalance, error) {
	accounts, err := s.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.ListEntries(ctx, period)
	if err != nil {
		return nil, err
	}

	type sides struct{ debit, credit decimal.Decimal }

	totals := make(map[uuid.UUID]sides, len(accounts))

	for _, e := range entries {
		for _, l := range e.Lines {
			t := totals[l.AccountID]
			t.debit = t.debit.Add(l.Debit)
			t.credit = t.credit.Add(l.Credit)
			totals[l.AccountID] = t
		}
	}

	out := make([]AccountBalance, 0, len(accounts))

	for _, a := range accounts {
		t := totals[a.ID]

		bal := t.credit.Sub(t.debit)
		if a.Type.DebitNormal() {
			bal = bal.Neg()
		}

		out = append(out, AccountBalance{Account: *a, Debit: t.debit, Credit: t.credit, Balance: bal})
	}

	return out, nil
}

func (s *Service) accountIndex(ctx context.Context) (map[uuid.UUID]*Account, error) {
	accounts, err := s.repo.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}

	idx := make(map[uuid.UUID]*Account, len(accounts))
	for _, a := range accounts {
		idx[a.ID] = a
	}

	return idx, nil
}

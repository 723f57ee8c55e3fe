package report

import (
	"context"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/contable/internal/accounting"
	"github.com/MrJamesThe3rd/contable/internal/contact"
	"github.com/MrJamesThe3rd/contable/internal/inventory"
	"github.com/MrJamesThe3rd/contable/internal/invoice"
	"github.com/MrJamesThe3rd/contable/internal/purchase"
)

//go:generate mockgen -source=service.go -destination=sources_mock.go -package=report
type Ledger interface {
	Summary(ctx context.Context, period accounting.Period) (*accounting.Summary, error)
}

type Invoices interface {
	List(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error)
}

type Purchases interface {
	List(ctx context.Context, filter purchase.ListFilter) ([]*purchase.Purchase, error)
}

type Products interface {
	ListProducts(ctx context.Context, filter inventory.ListFilter) ([]*inventory.Product, error)
}

type Contacts interface {
	List(ctx context.Context, filter contact.ListFilter) ([]*contact.Contact, error)
}

type Service struct {
	ledger    Ledger
	invoices  Invoices
	purchases Purchases
	products  Products
	contacts  Contacts
}

func NewService(ledger Ledger, invoices Invoices, purchases Purchases, products Products, contacts Contacts) *Service {
	return &Service{
		ledger:    ledger,
		invoices:  invoices,
		purchases: purchases,
		products:  products,
		contacts:  contacts,
	}
}

// Range bounds a report; nil ends are open.
type Range struct {
	Start *time.Time
	End   *time.Time
}

func (s *Service) BalanceSheet(ctx context.Context, r Range) (*BalanceSheet, error) {
	sum, err := s.ledger.Summary(ctx, accounting.Period{Start: r.Start, End: r.End})
	if err != nil {
		return nil, fmt.Errorf("summarizing journal: %w", err)
	}

	return &BalanceSheet{
		Assets:      sum.Assets,
		Liabilities: sum.Liabilities,
		Equity:      sum.Equity,
		Total:       sum.Assets,
		Difference:  sum.Assets.Sub(sum.Liabilities.Add(sum.Equity)),
	}, nil
}

// IncomeStatement sets invoice totals against purchase totals for the range.
func (s *Service) IncomeStatement(ctx context.Context, r Range) (*IncomeStatement, error) {
	invoices, err := s.invoices.List(ctx, invoice.ListFilter{StartDate: r.Start, EndDate: r.End})
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}

	purchases, err := s.purchases.List(ctx, purchase.ListFilter{StartDate: r.Start, EndDate: r.End})
	if err != nil {
		return nil, fmt.Errorf("listing purchases: %w", err)
	}

	st := &IncomeStatement{InvoiceCount: len(invoices), PurchaseCount: len(purchases)}

	for _, inv := range invoices {
		st.Income = st.Income.Add(inv.Total)
	}

	for _, p := range purchases {
		st.Expenses = st.Expenses.Add(p.Total)
	}

	st.NetIncome = st.Income.Sub(st.Expenses)

	return st, nil
}

// Dashboard summarizes the calendar month containing now.
func (s *Service) Dashboard(ctx context.Context, now time.Time) (*Dashboard, error) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)

	month, err := s.IncomeStatement(ctx, Range{Start: &start, End: &end})
	if err != nil {
		return nil, err
	}

	pending, err := s.invoices.List(ctx, invoice.ListFilter{Status: new(invoice.StatusPending)})
	if err != nil {
		return nil, fmt.Errorf("listing pending invoices: %w", err)
	}

	products, err := s.products.ListProducts(ctx, inventory.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	clients, err := s.contacts.List(ctx, contact.ListFilter{Role: contact.RoleClient})
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}

	low := 0

	for _, p := range products {
		if p.LowStock() {
			low++
		}
	}

	return &Dashboard{
		Month:            start,
		MonthlySales:     month.Income,
		MonthlyPurchases: month.Expenses,
		LowStockCount:    low,
		PendingInvoices:  len(pending),
		TotalProducts:    len(products),
		TotalClients:     len(clients),
	}, nil
}

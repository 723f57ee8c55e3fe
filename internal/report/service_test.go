package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/contable/internal/accounting"
	"github.com/MrJamesThe3rd/contable/internal/contact"
	"github.com/MrJamesThe3rd/contable/internal/inventory"
	"github.com/MrJamesThe3rd/contable/internal/invoice"
	"github.com/MrJamesThe3rd/contable/internal/purchase"
	"github.com/MrJamesThe3rd/contable/internal/report"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type mocks struct {
	ledger    *report.MockLedger
	invoices  *report.MockInvoices
	purchases *report.MockPurchases
	products  *report.MockProducts
	contacts  *report.MockContacts
}

func newService(t *testing.T) (*report.Service, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		ledger:    report.NewMockLedger(ctrl),
		invoices:  report.NewMockInvoices(ctrl),
		purchases: report.NewMockPurchases(ctrl),
		products:  report.NewMockProducts(ctrl),
		contacts:  report.NewMockContacts(ctrl),
	}

	return report.NewService(m.ledger, m.invoices, m.purchases, m.products, m.contacts), m
}

func TestService_BalanceSheet(t *testing.T) {
	svc, m := newService(t)

	m.ledger.EXPECT().Summary(gomock.Any(), accounting.Period{}).Return(&accounting.Summary{
		Assets:      d("1500"),
		Liabilities: d("300"),
		Equity:      d("1000"),
	}, nil)

	got, err := svc.BalanceSheet(context.Background(), report.Range{})
	require.NoError(t, err)

	assert.True(t, d("1500").Equal(got.Total))
	assert.True(t, d("200").Equal(got.Difference))
}

func TestService_IncomeStatement(t *testing.T) {
	svc, m := newService(t)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	m.invoices.EXPECT().List(gomock.Any(), invoice.ListFilter{StartDate: &start, EndDate: &end}).
		Return([]*invoice.Invoice{{Total: d("735.50")}, {Total: d("100")}}, nil)
	m.purchases.EXPECT().List(gomock.Any(), purchase.ListFilter{StartDate: &start, EndDate: &end}).
		Return([]*purchase.Purchase{{Total: d("335.50")}}, nil)

	got, err := svc.IncomeStatement(context.Background(), report.Range{Start: &start, End: &end})
	require.NoError(t, err)

	assert.True(t, d("835.50").Equal(got.Income))
	assert.True(t, d("335.50").Equal(got.Expenses))
	assert.True(t, d("500").Equal(got.NetIncome))
	assert.Equal(t, 2, got.InvoiceCount)
}

func TestService_Dashboard(t *testing.T) {
	svc, m := newService(t)

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	m.invoices.EXPECT().List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f invoice.ListFilter) ([]*invoice.Invoice, error) {
			if f.Status != nil {
				return []*invoice.Invoice{{Status: invoice.StatusPending}}, nil
			}

			require.NotNil(t, f.StartDate)
			assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *f.StartDate)

			return []*invoice.Invoice{{Total: d("50")}}, nil
		}).Times(2)
	m.purchases.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil)
	m.products.EXPECT().ListProducts(gomock.Any(), inventory.ListFilter{}).Return([]*inventory.Product{
		{TrackInventory: true, Stock: d("1"), MinStock: d("5")},
		{TrackInventory: true, Stock: d("10"), MinStock: d("5")},
		{Stock: d("0"), MinStock: d("5")},
	}, nil)
	m.contacts.EXPECT().List(gomock.Any(), contact.ListFilter{Role: contact.RoleClient}).
		Return([]*contact.Contact{{}, {}}, nil)

	got, err := svc.Dashboard(context.Background(), now)
	require.NoError(t, err)

	assert.True(t, d("50").Equal(got.MonthlySales))
	assert.True(t, got.MonthlyPurchases.IsZero())
	assert.Equal(t, 1, got.LowStockCount)
	assert.Equal(t, 1, got.PendingInvoices)
	assert.Equal(t, 3, got.TotalProducts)
	assert.Equal(t, 2, got.TotalClients)
}

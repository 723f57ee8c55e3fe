// Package report derives financial statements from the journal, invoices and purchases.
package report

import (
	"time"

	"github.com/shopspring/decimal"
)

type BalanceSheet struct {
	Assets      decimal.Decimal `json:"assets"`
	Liabilities decimal.Decimal `json:"liabilities"`
	Equity      decimal.Decimal `json:"equity"`
	// Total mirrors the asset side.
	Total decimal.Decimal `json:"total"`
	// Difference is assets − (liabilities + equity); non-zero until income and
	// expenses are closed into equity.
	Difference decimal.Decimal `json:"difference"`
}

type IncomeStatement struct {
	Income        decimal.Decimal `json:"income"`
	Expenses      decimal.Decimal `json:"expenses"`
	NetIncome     decimal.Decimal `json:"netIncome"`
	InvoiceCount  int             `json:"invoiceCount"`
	PurchaseCount int             `json:"purchaseCount"`
}

type Dashboard struct {
	Month            time.Time       `json:"month"`
	MonthlySales     decimal.Decimal `json:"monthlySales"`
	MonthlyPurchases decimal.Decimal `json:"monthlyPurchases"`
	LowStockCount    int             `json:"lowStockCount"`
	PendingInvoices  int             `json:"pendingInvoices"`
	TotalProducts    int             `json:"totalProducts"`
	TotalClients     int             `json:"totalClients"`
}

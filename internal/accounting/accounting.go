// Package accounting keeps the chart of accounts and the double-entry journal.
package accounting

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountAsset     AccountType = "asset"
	AccountLiability AccountType = "liability"
	AccountEquity    AccountType = "equity"
	AccountIncome    AccountType = "income"
	AccountExpense   AccountType = "expense"
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountAsset, AccountLiability, AccountEquity, AccountIncome, AccountExpense:
		return true
	}

	return false
}

// DebitNormal reports whether the balance of the type grows with debits.
func (t AccountType) DebitNormal() bool {
	return t == AccountAsset || t == AccountExpense
}

type Account struct {
	ID        uuid.UUID   `json:"id"`
	Code      string      `json:"code"`
	Name      string      `json:"name"`
	Type      AccountType `json:"type"`
	ParentID  *uuid.UUID  `json:"parentId,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

type Line struct {
	AccountID uuid.UUID       `json:"accountId"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// Entry is a journal entry. Its debits and credits agree within Tolerance.
type Entry struct {
	ID          uuid.UUID       `json:"id"`
	Number      string          `json:"number"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Lines       []Line          `json:"lines"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Tolerance is the largest debit/credit difference an entry may carry.
var Tolerance = decimal.RequireFromString("0.01")

// Totals sums the debit and credit sides of lines.
func Totals(lines []Line) (debit, credit decimal.Decimal) {
	for _, l := range lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}

	return debit, credit
}

// Balanced reports whether |debit − credit| ≤ Tolerance.
func Balanced(debit, credit decimal.Decimal) bool {
	return debit.Sub(credit).Abs().LessThanOrEqual(Tolerance)
}

// Summary is the balance of every account type. Assets and expenses are
// debit − credit; the other types are credit − debit.
type Summary struct {
	Assets      decimal.Decimal `json:"assets"`
	Liabilities decimal.Decimal `json:"liabilities"`
	Equity      decimal.Decimal `json:"equity"`
	Income      decimal.Decimal `json:"income"`
	Expenses    decimal.Decimal `json:"expenses"`
}

func (s *Summary) add(t AccountType, l Line) {
	net := l.Credit.Sub(l.Debit)
	if t.DebitNormal() {
		net = net.Neg()
	}

	switch t {
	case AccountAsset:
		s.Assets = s.Assets.Add(net)
	case AccountLiability:
		s.Liabilities = s.Liabilities.Add(net)
	case AccountEquity:
		s.Equity = s.Equity.Add(net)
	case AccountIncome:
		s.Income = s.Income.Add(net)
	case AccountExpense:
		s.Expenses = s.Expenses.Add(net)
	}
}

// AccountBalance is the normal-side balance of one account.
type AccountBalance struct {
	Account Account         `json:"account"`
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
	Balance decimal.Decimal `json:"balance"`
}

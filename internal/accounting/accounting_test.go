package accounting_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/contable/internal/accounting"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestBalanced(t *testing.T) {
	tests := []struct {
		name          string
		debit, credit string
		want          bool
	}{
		{name: "Equal", debit: "100", credit: "100", want: true},
		{name: "ExactlyTolerance", debit: "100.01", credit: "100", want: true},
		{name: "AboveTolerance", debit: "100.011", credit: "100", want: false},
		{name: "OffByOne", debit: "100", credit: "99", want: false},
		{name: "SubCent", debit: "100.004", credit: "100.001", want: true},
		{name: "CreditHeavy", debit: "50", credit: "50.02", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, accounting.Balanced(d(tt.debit), d(tt.credit)))
		})
	}
}

func TestTotals(t *testing.T) {
	debit, credit := accounting.Totals([]accounting.Line{
		{Debit: d("100")},
		{Debit: d("15")},
		{Credit: d("115")},
	})

	assert.True(t, d("115").Equal(debit))
	assert.True(t, d("115").Equal(credit))
}

func TestAccountType(t *testing.T) {
	assert.True(t, accounting.AccountAsset.DebitNormal())
	assert.True(t, accounting.AccountExpense.DebitNormal())
	assert.False(t, accounting.AccountLiability.DebitNormal())
	assert.False(t, accounting.AccountIncome.DebitNormal())
	assert.False(t, accounting.AccountType("other").Valid())
}

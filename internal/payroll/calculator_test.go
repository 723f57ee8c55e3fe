package payroll_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/contable/internal/payroll"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestIESS(t *testing.T) {
	assert.True(t, d("94.5").Equal(payroll.IESS(d("1000"), true)))
	assert.True(t, d("111.5").Equal(payroll.IESS(d("1000"), false)))
	assert.True(t, payroll.IESS(decimal.Zero, true).IsZero())
}

func TestIncomeTax(t *testing.T) {
	type testCase struct {
		name    string
		taxable string
		want    string
	}

	tests := []testCase{
		{name: "Zero", taxable: "0", want: "0"},
		{name: "BelowFirstBracket", taxable: "11211.99", want: "0"},
		{name: "AtFirstFloor", taxable: "11212", want: "0"},
		{name: "JustAboveFirstFloor", taxable: "11212.01", want: "0.0005"},
		{name: "SecondFloor", taxable: "14285", want: "153.65"},
		{name: "InsideThirdBracket", taxable: "20000", want: "768.07"},
		{name: "TopBracket", taxable: "200000", want: "52365.41"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := payroll.IncomeTax(d(tt.taxable))
			assert.True(t, d(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestIncomeTax_ContinuousAtBoundaries(t *testing.T) {
	floors := []string{"11212", "14285", "17854", "21442", "42874", "64297", "85729", "114288"}
	cent := d("0.01")
	maxStep := cent.Mul(d("0.35"))

	for _, f := range floors {
		at := payroll.IncomeTax(d(f))
		below := payroll.IncomeTax(d(f).Sub(cent))
		above := payroll.IncomeTax(d(f).Add(cent))

		assert.True(t, at.Sub(below).LessThanOrEqual(maxStep), "jump below %s: %s", f, at.Sub(below))
		assert.True(t, above.Sub(at).LessThanOrEqual(maxStep), "jump above %s: %s", f, above.Sub(at))
		assert.True(t, above.GreaterThanOrEqual(at))
	}
}

func TestBonuses(t *testing.T) {
	assert.True(t, d("600").Equal(payroll.Thirteenth(d("1200"), 6)))
	assert.True(t, d("1200").Equal(payroll.Thirteenth(d("1200"), 12)))
	assert.True(t, payroll.Thirteenth(d("1200"), 3).Equal(payroll.Fourteenth(d("1200"), 3)))
}

func TestCompute(t *testing.T) {
	b := payroll.Compute(d("1000"), 12)

	assert.True(t, d("94.5").Equal(b.IESSEmployee))
	assert.True(t, d("111.5").Equal(b.IESSEmployer))
	assert.True(t, b.IncomeTax.IsZero())
	assert.True(t, d("905.5").Equal(b.NetSalary))
	assert.True(t, d("1000").Equal(b.Thirteenth))
	assert.True(t, d("3111.5").Equal(b.TotalCost))
}

func TestCompute_TaxedSalary(t *testing.T) {
	b := payroll.Compute(d("20000"), 1)

	taxable := d("20000").Sub(d("1890"))
	assert.True(t, payroll.IncomeTax(taxable).Equal(b.IncomeTax))
	assert.True(t, d("20000").Sub(d("1890")).Sub(b.IncomeTax).Equal(b.NetSalary))
}

package iva_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/contable/internal/iva"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculate(t *testing.T) {
	type testCase struct {
		name string
		base string
		rate string
		want string
	}

	tests := []testCase{
		{name: "Twelve", base: "400", rate: "12", want: "48"},
		{name: "Fifteen", base: "250", rate: "15", want: "37.5"},
		{name: "Zero", base: "99.99", rate: "0", want: "0"},
		{name: "NegativeBase", base: "-10", rate: "12", want: "-1.2"},
		{name: "Fractional", base: "0.01", rate: "5", want: "0.0005"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := iva.Calculate(d(tt.base), d(tt.rate))
			assert.True(t, d(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestCalculate_Linear(t *testing.T) {
	bases := []string{"0", "0.01", "1", "13.37", "400", "1234567.89", "-25.5"}
	rates := []string{"0", "5", "8", "10", "12", "14", "15", "7.5"}

	two := decimal.NewFromInt(2)

	for _, b := range bases {
		for _, r := range rates {
			single := iva.Calculate(d(b), d(r))
			double := iva.Calculate(d(b).Mul(two), d(r))
			assert.True(t, double.Equal(single.Mul(two)), "base %s rate %s", b, r)
		}
	}
}

func TestCode(t *testing.T) {
	type testCase struct {
		rate string
		want string
	}

	tests := []testCase{
		{rate: "0", want: "0"},
		{rate: "5", want: "5"},
		{rate: "8", want: "6"},
		{rate: "10", want: "7"},
		{rate: "12", want: "2"},
		{rate: "14", want: "3"},
		{rate: "15", want: "4"},
		{rate: "12.4", want: "2"},
		{rate: "13", want: "13"},
		{rate: "20.6", want: "21"},
	}

	for _, tt := range tests {
		t.Run(tt.rate, func(t *testing.T) {
			assert.Equal(t, tt.want, iva.Code(d(tt.rate)))
		})
	}
}

func TestIsAllowed(t *testing.T) {
	for _, r := range iva.AllowedRates {
		assert.True(t, iva.IsAllowed(decimal.NewFromInt(r)), r)
	}

	assert.False(t, iva.IsAllowed(d("13")))
	assert.False(t, iva.IsAllowed(d("12.5")))
}

func TestAggregate(t *testing.T) {
	lines := []iva.Line{
		{Base: d("400"), Rate: d("12")},
		{Base: d("250"), Rate: d("15")},
		{Base: d("100"), Rate: d("12")},
		{Base: d("80"), Rate: d("0")},
	}

	buckets := iva.Aggregate(lines)
	require.Len(t, buckets, 3)

	assert.Equal(t, "2", buckets[0].Code)
	assert.True(t, d("500").Equal(buckets[0].Base))
	assert.True(t, d("60").Equal(buckets[0].Value))

	assert.Equal(t, "4", buckets[1].Code)
	assert.True(t, d("37.5").Equal(buckets[1].Value))

	assert.Equal(t, "0", buckets[2].Code)
	assert.True(t, buckets[2].Value.IsZero())
	assert.True(t, buckets[2].Rendered())

	baseSum := decimal.Zero
	valueSum := decimal.Zero

	for _, b := range buckets {
		baseSum = baseSum.Add(b.Base)
		valueSum = valueSum.Add(b.Value)
	}

	assert.True(t, d("830").Equal(baseSum))
	assert.True(t, d("97.5").Equal(valueSum))
}

func TestRendered_SuppressesEmptyBuckets(t *testing.T) {
	buckets := iva.Aggregate([]iva.Line{
		{Base: d("0"), Rate: d("12")},
		{Base: d("-5"), Rate: d("15")},
		{Base: d("10"), Rate: d("5")},
	})
	require.Len(t, buckets, 3)

	rendered := iva.Rendered(buckets)
	require.Len(t, rendered, 1)
	assert.Equal(t, "5", rendered[0].Code)
}

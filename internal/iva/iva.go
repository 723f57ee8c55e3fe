// Package iva computes Ecuadorian value-added tax and aggregates it into the per-rate
// buckets reported in electronic invoices.
package iva

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// TaxCode is the SRI code for the IVA tax in impuesto blocks.
const TaxCode = "2"

var hundred = decimal.NewFromInt(100)

// codes maps a percentage rate to its codigoPorcentaje.
var codes = map[int64]string{
	0:  "0",
	5:  "5",
	8:  "6",
	10: "7",
	12: "2",
	14: "3",
	15: "4",
}

// AllowedRates lists the IVA percentages accepted on invoice lines.
var AllowedRates = []int64{0, 5, 8, 10, 12, 14, 15}

// Calculate returns base × rate / 100. Negative bases are not rejected.
func Calculate(base, ratePercent decimal.Decimal) decimal.Decimal {
	return base.Mul(ratePercent).Div(hundred)
}

// Code returns the codigoPorcentaje for a rate. Rates outside the table fall back to
// their rounded integer value.
func Code(ratePercent decimal.Decimal) string {
	key := Round(ratePercent)
	if code, ok := codes[key]; ok {
		return code
	}

	return strconv.FormatInt(key, 10)
}

// Round rounds a rate to the nearest whole percentage.
func Round(ratePercent decimal.Decimal) int64 {
	return ratePercent.Round(0).IntPart()
}

// IsAllowed reports whether rate is one of AllowedRates.
func IsAllowed(ratePercent decimal.Decimal) bool {
	if !ratePercent.Equal(ratePercent.Round(0)) {
		return false
	}

	_, ok := codes[ratePercent.IntPart()]

	return ok
}

// Line is a taxable amount at a rate.
type Line struct {
	Base decimal.Decimal
	Rate decimal.Decimal
}

// Bucket accumulates base and tax for every line sharing a rounded rate.
type Bucket struct {
	Rate  decimal.Decimal
	Code  string
	Base  decimal.Decimal
	Value decimal.Decimal
}

// Rendered reports whether the bucket appears in document totals. Buckets with neither
// a positive base nor a positive tax are suppressed.
func (b Bucket) Rendered() bool {
	return b.Base.IsPositive() || b.Value.IsPositive()
}

// Aggregate groups lines by rounded rate in order of first appearance.
func Aggregate(lines []Line) []Bucket {
	var buckets []Bucket

	index := make(map[int64]int)

	for _, l := range lines {
		key := Round(l.Rate)

		i, ok := index[key]
		if !ok {
			rate := decimal.NewFromInt(key)
			buckets = append(buckets, Bucket{
				Rate:  rate,
				Code:  Code(rate),
				Base:  decimal.Zero,
				Value: decimal.Zero,
			})
			i = len(buckets) - 1
			index[key] = i
		}

		buckets[i].Base = buckets[i].Base.Add(l.Base)
		buckets[i].Value = buckets[i].Value.Add(Calculate(l.Base, l.Rate))
	}

	return buckets
}

// Rendered filters out buckets that are suppressed from totals.
func Rendered(buckets []Bucket) []Bucket {
	out := make([]Bucket, 0, len(buckets))

	for _, b := range buckets {
		if b.Rendered() {
			out = append(out, b)
		}
	}

	return out
}

package document

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/contable/internal/iva"
)

// Line is an item with its derived figures.
type Line struct {
	Item
	// Code is the item code, or ITEM-<n> when the item has none.
	Code    string
	Gross   decimal.Decimal
	Base    decimal.Decimal
	Tax     decimal.Decimal
	TaxCode string
}

// Totals are the computed document amounts.
type Totals struct {
	Subtotal        decimal.Decimal
	Discounts       decimal.Decimal
	TotalWithoutTax decimal.Decimal
	TotalIVA        decimal.Decimal
	Total           decimal.Decimal
	Buckets         []iva.Bucket
	Lines           []Line
}

// Compute derives line figures, per-rate buckets and document totals.
func Compute(items []Item) Totals {
	t := Totals{
		Subtotal:  decimal.Zero,
		Discounts: decimal.Zero,
		TotalIVA:  decimal.Zero,
		Lines:     make([]Line, 0, len(items)),
	}

	taxLines := make([]iva.Line, 0, len(items))

	for n, it := range items {
		code := it.Code
		if code == "" {
			code = "ITEM-" + strconv.Itoa(n+1)
		}

		base := it.Base()
		l := Line{
			Item:    it,
			Code:    code,
			Gross:   it.Gross(),
			Base:    base,
			Tax:     iva.Calculate(base, it.IVARate),
			TaxCode: iva.Code(it.IVARate),
		}

		t.Lines = append(t.Lines, l)
		t.Subtotal = t.Subtotal.Add(l.Gross)
		t.Discounts = t.Discounts.Add(it.Discount)
		t.TotalIVA = t.TotalIVA.Add(l.Tax)
		taxLines = append(taxLines, iva.Line{Base: base, Rate: it.IVARate})
	}

	t.TotalWithoutTax = t.Subtotal.Sub(t.Discounts)
	t.Total = t.TotalWithoutTax.Add(t.TotalIVA)
	t.Buckets = iva.Aggregate(taxLines)

	return t
}

// Money formats an amount with exactly two decimals.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type summaryRow struct {
	label  string
	amount decimal.Decimal
	strong bool
}

// summary lists the totals block of the printed invoice: one subtotal per rate bucket,
// then discounts, IVA per bucket, tip and the grand total.
func (d *Document) summary() []summaryRow {
	t := d.Totals

	var rows []summaryRow

	for _, b := range t.Buckets {
		rows = append(rows, summaryRow{label: "SUBTOTAL " + b.Rate.String() + "%", amount: b.Base})
	}

	rows = append(rows,
		summaryRow{label: "SUBTOTAL SIN IMPUESTOS", amount: t.TotalWithoutTax},
		summaryRow{label: "TOTAL DESCUENTO", amount: t.Discounts},
	)

	for _, b := range iva.Rendered(t.Buckets) {
		if b.Rate.IsZero() {
			continue
		}

		rows = append(rows, summaryRow{label: "IVA " + b.Rate.String() + "%", amount: b.Value})
	}

	rows = append(rows,
		summaryRow{label: "PROPINA", amount: d.Invoice.Tip},
		summaryRow{label: "VALOR TOTAL", amount: t.Total, strong: true},
	)

	return rows
}

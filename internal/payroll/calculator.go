package payroll

import "github.com/shopspring/decimal"

var (
	employeeIESSRate = decimal.RequireFromString("0.0945")
	employerIESSRate = decimal.RequireFromString("0.1115")
	twelve           = decimal.NewFromInt(12)
)

// bracket applies Rate to the income above Floor on top of Base.
type bracket struct {
	Floor decimal.Decimal
	Base  decimal.Decimal
	Rate  decimal.Decimal
}

// incomeTaxTable is the 2024 annual progressive table. Each base is the tax accumulated
// at the bracket floor so the function is continuous at every boundary.
var incomeTaxTable = []bracket{
	{Floor: decimal.NewFromInt(114288), Base: decimal.RequireFromString("22366.21"), Rate: decimal.RequireFromString("0.35")},
	{Floor: decimal.NewFromInt(85729), Base: decimal.RequireFromString("13798.51"), Rate: decimal.RequireFromString("0.30")},
	{Floor: decimal.NewFromInt(64297), Base: decimal.RequireFromString("8440.51"), Rate: decimal.RequireFromString("0.25")},
	{Floor: decimal.NewFromInt(42874), Base: decimal.RequireFromString("4155.91"), Rate: decimal.RequireFromString("0.20")},
	{Floor: decimal.NewFromInt(21442), Base: decimal.RequireFromString("941.11"), Rate: decimal.RequireFromString("0.15")},
	{Floor: decimal.NewFromInt(17854), Base: decimal.RequireFromString("510.55"), Rate: decimal.RequireFromString("0.12")},
	{Floor: decimal.NewFromInt(14285), Base: decimal.RequireFromString("153.65"), Rate: decimal.RequireFromString("0.10")},
	{Floor: decimal.NewFromInt(11212), Base: decimal.Zero, Rate: decimal.RequireFromString("0.05")},
}

// IESS returns the social-security contribution on salary: 9.45% for the employee share,
// 11.15% for the employer share.
func IESS(salary decimal.Decimal, employee bool) decimal.Decimal {
	if employee {
		return salary.Mul(employeeIESSRate)
	}

	return salary.Mul(employerIESSRate)
}

// IncomeTax applies the highest bracket whose floor does not exceed taxable.
func IncomeTax(taxable decimal.Decimal) decimal.Decimal {
	for _, b := range incomeTaxTable {
		if b.Floor.LessThanOrEqual(taxable) {
			return b.Base.Add(taxable.Sub(b.Floor).Mul(b.Rate))
		}
	}

	return decimal.Zero
}

// Thirteenth is the proportional thirteenth-month bonus.
func Thirteenth(base decimal.Decimal, months int) decimal.Decimal {
	return base.Mul(decimal.NewFromInt(int64(months))).Div(twelve)
}

// Fourteenth is the proportional fourteenth-month bonus. It uses the same formula as
// Thirteenth; the statutory bonus is pegged to the minimum wage instead and the formula
// is pending confirmation.
func Fourteenth(base decimal.Decimal, months int) decimal.Decimal {
	return base.Mul(decimal.NewFromInt(int64(months))).Div(twelve)
}

// Breakdown is a computed monthly payroll.
type Breakdown struct {
	BaseSalary   decimal.Decimal `json:"baseSalary"`
	IESSEmployee decimal.Decimal `json:"iessEmployee"`
	IESSEmployer decimal.Decimal `json:"iessEmployer"`
	IncomeTax    decimal.Decimal `json:"incomeTax"`
	NetSalary    decimal.Decimal `json:"netSalary"`
	Thirteenth   decimal.Decimal `json:"thirteenth"`
	Fourteenth   decimal.Decimal `json:"fourteenth"`
	TotalCost    decimal.Decimal `json:"totalCost"`
}

// Compute derives every payroll figure for a base salary. Income tax is charged on the
// salary net of the employee IESS share.
func Compute(base decimal.Decimal, months int) Breakdown {
	employee := IESS(base, true)
	employer := IESS(base, false)
	tax := IncomeTax(base.Sub(employee))
	thirteenth := Thirteenth(base, months)
	fourteenth := Fourteenth(base, months)

	return Breakdown{
		BaseSalary:   base,
		IESSEmployee: employee,
		IESSEmployer: employer,
		IncomeTax:    tax,
		NetSalary:    base.Sub(employee).Sub(tax),
		Thirteenth:   thirteenth,
		Fourteenth:   fourteenth,
		TotalCost:    base.Add(employer).Add(thirteenth).Add(fourteenth),
	}
}

package catalog

// Profile describes the column layout of a catalog spreadsheet export.
// Header names are matched case-insensitively.
type Profile struct {
	Name     string
	CodeCol  string
	NameCol  string
	PriceCol string
	// StockCol is empty for layouts without stock; their products are not tracked.
	StockCol    string
	MinStockCol string
	CostCol     string
	IVACol      string
	DescCol     string
}

func (p Profile) requiredCols() []string {
	cols := []string{p.CodeCol, p.NameCol, p.PriceCol}
	if p.StockCol != "" {
		cols = append(cols, p.StockCol)
	}

	return cols
}

// profiles is tried in order; more specific layouts come first.
var profiles = []Profile{
	{
		Name:        "inventario",
		CodeCol:     "código",
		NameCol:     "nombre",
		PriceCol:    "precio venta",
		StockCol:    "stock",
		MinStockCol: "stock mínimo",
		CostCol:     "precio costo",
		IVACol:      "iva",
		DescCol:     "descripción",
	},
	{
		Name:     "lista de precios",
		CodeCol:  "código",
		NameCol:  "descripción",
		PriceCol: "precio",
		IVACol:   "iva",
	},
}

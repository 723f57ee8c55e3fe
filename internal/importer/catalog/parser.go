package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/contable/internal/encoding"
	"github.com/MrJamesThe3rd/contable/internal/inventory"
)

// DefaultIVARate applies when the layout has no IVA column or the cell is empty.
var DefaultIVARate = decimal.NewFromInt(15)

// Parser reads semicolon-separated catalog exports with Spanish headers and
// produces product params. The layout is detected from the header row.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]inventory.ProductParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching catalog format found: expected columns for inventario or lista de precios")
	}

	return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
}

type colIndex map[string]int

func (c colIndex) get(name string) int {
	if name == "" {
		return -1
	}

	if i, ok := c[name]; ok {
		return i
	}

	return -1
}

func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows skips rows without a code (blank lines, footers) and fails on rows
// whose name or numbers are unusable.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]inventory.ProductParams, error) {
	var out []inventory.ProductParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 1

		code := cellValue(row, cols.get(p.CodeCol))
		if code == "" {
			continue
		}

		name := cellValue(row, cols.get(p.NameCol))
		if name == "" {
			return nil, fmt.Errorf("row %d: missing name", rowNum)
		}

		params := inventory.ProductParams{
			Code:           code,
			Name:           name,
			Description:    cellValue(row, cols.get(p.DescCol)),
			TrackInventory: p.StockCol != "",
			IVARate:        DefaultIVARate,
		}

		fields := []struct {
			col  string
			dest *decimal.Decimal
		}{
			{p.PriceCol, &params.SalePrice},
			{p.StockCol, &params.Stock},
			{p.MinStockCol, &params.MinStock},
			{p.CostCol, &params.CostPrice},
			{p.IVACol, &params.IVARate},
		}

		for _, f := range fields {
			s := cellValue(row, cols.get(f.col))
			if s == "" {
				continue
			}

			v, err := parseLocalDecimal(s)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid %s %q", rowNum, f.col, s)
			}

			*f.dest = v
		}

		out = append(out, params)
	}

	return out, nil
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

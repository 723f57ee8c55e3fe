package catalog_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/contable/internal/importer/catalog"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestParser_Inventario(t *testing.T) {
	csv := `Reporte de inventario;Comercial Andina
Fecha;15/03/2024

Código;Nombre;Descripción;Stock;Stock mínimo;Precio costo;Precio venta;IVA
P-001;Café molido 500g;Tostado medio;120;10;3,20;4,50;15
P-002;Azúcar 1kg;;1.250;100;0,80;1,10;0%
`

	got, err := catalog.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "P-001", got[0].Code)
	assert.Equal(t, "Café molido 500g", got[0].Name)
	assert.Equal(t, "Tostado medio", got[0].Description)
	assert.True(t, d("120").Equal(got[0].Stock))
	assert.True(t, d("3.20").Equal(got[0].CostPrice))
	assert.True(t, d("4.50").Equal(got[0].SalePrice))
	assert.True(t, d("15").Equal(got[0].IVARate))
	assert.True(t, got[0].TrackInventory)

	assert.True(t, d("1250").Equal(got[1].Stock))
	assert.True(t, got[1].IVARate.IsZero())
}

func TestParser_ListaDePrecios(t *testing.T) {
	csv := `CÓDIGO ;DESCRIPCIÓN ;PRECIO
S-10;Servicio técnico;25,00
`

	got, err := catalog.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "Servicio técnico", got[0].Name)
	assert.True(t, d("25").Equal(got[0].SalePrice))
	assert.True(t, catalog.DefaultIVARate.Equal(got[0].IVARate))
	assert.False(t, got[0].TrackInventory)
}

func TestParser_Latin1Encoding(t *testing.T) {
	utf8CSV := "Código;Descripción;Precio\nA1;Jamón serrano;12,50\n"

	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	got, err := catalog.NewParser().Parse(bytes.NewReader(latin1))
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "Jamón serrano", got[0].Name)
}

func TestParser_DifferentColumnOrder(t *testing.T) {
	csv := `Precio;Código;Extra;Descripción
9,99;X-1;ignored;Tornillo
`

	got, err := catalog.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "X-1", got[0].Code)
	assert.True(t, d("9.99").Equal(got[0].SalePrice))
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantMsg string
	}{
		{name: "Empty", csv: "", wantMsg: "no matching catalog format"},
		{name: "MissingName", csv: "Código;Descripción;Precio\nA1;;1,00\n", wantMsg: "row 2: missing name"},
		{name: "BadNumber", csv: "Código;Descripción;Precio\nA1;Pan;abc\n", wantMsg: "invalid precio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.NewParser().Parse(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestParser_SkipsFooterRows(t *testing.T) {
	csv := `Código;Descripción;Precio
A1;Pan;0,25
;Total;0,25
`

	got, err := catalog.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestParser_HeaderOnly(t *testing.T) {
	got, err := catalog.NewParser().Parse(strings.NewReader("Código;Descripción;Precio"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParser_NumberFormats(t *testing.T) {
	type testCase struct {
		name  string
		stock string
		want  string
	}

	tests := []testCase{
		{name: "ThousandsDot", stock: "1.250", want: "1250"},
		{name: "MillionsDots", stock: "1.250.000", want: "1250000"},
		{name: "ThousandsAndDecimals", stock: "1.250,5", want: "1250.5"},
		{name: "CommaDecimal", stock: "2,75", want: "2.75"},
		{name: "DotDecimal", stock: "4.5", want: "4.5"},
		{name: "DotTwoDecimals", stock: "12.50", want: "12.5"},
		{name: "Plain", stock: "30", want: "30"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			csv := "Código;Nombre;Stock;Precio venta\nP-2;Azúcar;" + tc.stock + ";1\n"

			got, err := catalog.NewParser().Parse(strings.NewReader(csv))
			require.NoError(t, err)
			require.Len(t, got, 1)

			assert.True(t, d(tc.want).Equal(got[0].Stock), "got %s", got[0].Stock)
		})
	}
}

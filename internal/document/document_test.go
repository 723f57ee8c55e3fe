package document_test

import (
	"encoding/json"
	"encoding/xml"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/contable/internal/accesskey"
	"github.com/MrJamesThe3rd/contable/internal/document"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func issuer() *document.Issuer {
	return &document.Issuer{
		Name:          "Comercial A & B",
		RUC:           "1792146739001",
		Address:       "Av. Amazonas  N34-12\n Quito",
		Establishment: "001",
		PointOfSale:   "001",
		Environment:   accesskey.EnvironmentTesting,
	}
}

func scenario() document.Input {
	return document.Input{
		Issuer: issuer(),
		Buyer:  &document.Buyer{Name: "Juan Pérez", Identification: "1712345675"},
		Invoice: document.Invoice{
			Number:      "001-001-000000123",
			IssueDate:   time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
			NumericCode: "12345678",
			Items: []document.Item{
				{Code: "SRV-1", Description: "Consultoría", Quantity: d("1"), UnitPrice: d("400"), IVARate: d("12")},
				{Code: "SRV-2", Description: "Soporte", Quantity: d("1"), UnitPrice: d("250"), IVARate: d("15")},
			},
		},
	}
}

func TestBuild_EndToEnd(t *testing.T) {
	doc, err := document.Build(scenario())
	require.NoError(t, err)

	assert.Equal(t, "650.00", document.Money(doc.Totals.Subtotal))
	assert.Equal(t, "650.00", document.Money(doc.Totals.TotalWithoutTax))
	assert.Equal(t, "85.50", document.Money(doc.Totals.TotalIVA))
	assert.Equal(t, "735.50", document.Money(doc.Totals.Total))

	assert.Equal(t, "001", doc.Establishment)
	assert.Equal(t, "001", doc.PointOfSale)
	assert.Equal(t, "000000123", doc.Sequential)
	assert.Equal(t, "05", doc.BuyerTypeCode())

	assert.Equal(t, "150320240117921467390011001001000000123123456781"+"7", doc.AccessKey)
	assert.True(t, accesskey.VerifyModulo11(doc.AccessKey))
}

func TestBuild_KeepsExistingAccessKey(t *testing.T) {
	in := scenario()
	in.Invoice.AccessKey = "2024031501179214673900120010010000001231234567812"

	doc, err := document.Build(in)
	require.NoError(t, err)
	assert.Equal(t, in.Invoice.AccessKey, doc.AccessKey)
}

func TestBuild_RandomNumericCode(t *testing.T) {
	in := scenario()
	in.Invoice.NumericCode = ""
	in.Rand = rand.New(rand.NewPCG(7, 7))

	first, err := document.Build(in)
	require.NoError(t, err)

	in.Rand = rand.New(rand.NewPCG(7, 7))

	second, err := document.Build(in)
	require.NoError(t, err)

	assert.Len(t, first.AccessKey, accesskey.Length)
	assert.Equal(t, first.AccessKey, second.AccessKey)
	assert.True(t, accesskey.VerifyModulo11(first.AccessKey))
}

func TestBuild_Validation(t *testing.T) {
	type testCase struct {
		name   string
		mutate func(*document.Input)
		want   error
	}

	tests := []testCase{
		{name: "MissingCompany", mutate: func(in *document.Input) { in.Issuer = nil }, want: document.ErrMissingCompany},
		{name: "ShortRUC", mutate: func(in *document.Input) { in.Issuer.RUC = "179214673900" }, want: document.ErrCompanyRUC},
		{name: "MissingBuyer", mutate: func(in *document.Input) { in.Buyer = nil }, want: document.ErrMissingBuyer},
		{name: "NoItems", mutate: func(in *document.Input) { in.Invoice.Items = nil }, want: document.ErrNoItems},
		{name: "NoNumber", mutate: func(in *document.Input) { in.Invoice.Number = " " }, want: document.ErrMissingNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := scenario()
			tt.mutate(&in)

			doc, err := document.Build(in)
			assert.Nil(t, doc)
			require.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, document.ErrValidation)
		})
	}
}

func TestCompute_BucketsMatchTotals(t *testing.T) {
	items := []document.Item{
		{Quantity: d("3"), UnitPrice: d("19.99"), Discount: d("1.50"), IVARate: d("12")},
		{Quantity: d("2.5"), UnitPrice: d("7.333"), IVARate: d("15")},
		{Quantity: d("1"), UnitPrice: d("42.10"), IVARate: d("0")},
		{Quantity: d("4"), UnitPrice: d("0.99"), Discount: d("0.10"), IVARate: d("12")},
	}

	totals := document.Compute(items)
	require.Len(t, totals.Buckets, 3)

	baseSum := decimal.Zero
	valueSum := decimal.Zero

	for _, b := range totals.Buckets {
		baseSum = baseSum.Add(b.Base)
		valueSum = valueSum.Add(b.Value)
	}

	tolerance := d("0.000001")
	assert.True(t, baseSum.Sub(totals.TotalWithoutTax).Abs().LessThanOrEqual(tolerance))
	assert.True(t, valueSum.Sub(totals.TotalIVA).Abs().LessThanOrEqual(tolerance))
	assert.True(t, totals.Total.Equal(totals.TotalWithoutTax.Add(totals.TotalIVA)))
}

func TestCompute_DefaultCodes(t *testing.T) {
	totals := document.Compute([]document.Item{
		{Code: "A-1", Quantity: d("1"), UnitPrice: d("1")},
		{Quantity: d("1"), UnitPrice: d("1")},
	})

	assert.Equal(t, "A-1", totals.Lines[0].Code)
	assert.Equal(t, "ITEM-2", totals.Lines[1].Code)
}

func TestSplitNumber(t *testing.T) {
	type testCase struct {
		name                  string
		number                string
		estab, pos            string
		wantE, wantP, wantSeq string
	}

	tests := []testCase{
		{name: "Full", number: "002-003-000000045", wantE: "002", wantP: "003", wantSeq: "000000045"},
		{name: "Unpadded", number: "2-3-45", wantE: "002", wantP: "003", wantSeq: "000000045"},
		{name: "OnlySequential", number: "--77", estab: "4", pos: "5", wantE: "004", wantP: "005", wantSeq: "000000077"},
		{name: "NoSeparators", number: "12", wantE: "012", wantP: "001", wantSeq: "000000000"},
		{name: "NonDigitSequential", number: "001-001-A12B", wantE: "001", wantP: "001", wantSeq: "000000012"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, p, s := document.SplitNumber(tt.number, tt.estab, tt.pos)
			assert.Equal(t, tt.wantE, e)
			assert.Equal(t, tt.wantP, p)
			assert.Equal(t, tt.wantSeq, s)
		})
	}
}

func TestEscape(t *testing.T) {
	assert.Equal(t, "a b c", document.Sanitize("  a \t b\n\nc  "))
	assert.Equal(t, "Tom &amp; Jerry &lt;3&gt; &quot;x&quot; &apos;y&apos;", document.Escape(` Tom &  Jerry <3> "x" 'y' `))
	assert.Equal(t, "", document.Escape(""))
}

func TestItem_UnmarshalJSON(t *testing.T) {
	payload := `[
		{"codigo": "P-1", "descripcion": "Café", "cantidad": "2", "precioUnitario": 3.5, "descuento": "0.5", "tarifa": 15},
		{"code": null, "codigoPrincipal": 1001, "quantity": 1, "unit_price": "10", "iva_rate": "12", "detalleAdicional": "lote 4"},
		{"code": "X", "codigo": "Y", "unitPrice": 1, "precioUnitario": 2, "cantidad": ""}
	]`

	var items []document.Item
	require.NoError(t, json.Unmarshal([]byte(payload), &items))
	require.Len(t, items, 3)

	assert.Equal(t, "P-1", items[0].Code)
	assert.Equal(t, "Café", items[0].Description)
	assert.True(t, d("2").Equal(items[0].Quantity))
	assert.True(t, d("3.5").Equal(items[0].UnitPrice))
	assert.True(t, d("0.5").Equal(items[0].Discount))
	assert.True(t, d("15").Equal(items[0].IVARate))

	assert.Equal(t, "1001", items[1].Code)
	assert.Equal(t, "lote 4", items[1].AdditionalDetail)
	assert.True(t, d("10").Equal(items[1].UnitPrice))
	assert.True(t, d("12").Equal(items[1].IVARate))

	assert.Equal(t, "X", items[2].Code)
	assert.True(t, d("1").Equal(items[2].UnitPrice))
	assert.True(t, items[2].Quantity.IsZero())
	assert.True(t, items[2].IVARate.IsZero())
}

func TestItem_UnmarshalJSON_Invalid(t *testing.T) {
	var it document.Item
	assert.Error(t, json.Unmarshal([]byte(`{"quantity": "dos"}`), &it))
	assert.Error(t, json.Unmarshal([]byte(`{"quantity": true}`), &it))
	assert.Error(t, json.Unmarshal([]byte(`[]`), &it))
}

type parsedFactura struct {
	XMLName  xml.Name `xml:"factura"`
	ID       string   `xml:"id,attr"`
	Version  string   `xml:"version,attr"`
	Ambiente string   `xml:"infoTributaria>ambiente"`
	Clave    string   `xml:"infoTributaria>claveAcceso"`
	Razon    string   `xml:"infoTributaria>razonSocial"`
	Fecha    string   `xml:"infoFactura>fechaEmision"`
	TipoId   string   `xml:"infoFactura>tipoIdentificacionComprador"`
	Total    string   `xml:"infoFactura>importeTotal"`
	Moneda   string   `xml:"infoFactura>moneda"`
	Totales  []struct {
		Code  string `xml:"codigoPorcentaje"`
		Base  string `xml:"baseImponible"`
		Rate  string `xml:"tarifa"`
		Value string `xml:"valor"`
	} `xml:"infoFactura>totalConImpuestos>totalImpuesto"`
	Detalles []struct {
		Code      string `xml:"codigoPrincipal"`
		Impuestos []struct {
			Code string `xml:"codigoPorcentaje"`
		} `xml:"impuestos>impuesto"`
	} `xml:"detalles>detalle"`
}

func TestDocument_XML(t *testing.T) {
	in := scenario()
	in.Invoice.Items = append(in.Invoice.Items, document.Item{Description: "Exento", Quantity: d("2"), UnitPrice: d("5")})

	doc, err := document.Build(in)
	require.NoError(t, err)

	out, err := doc.XML()
	require.NoError(t, err)

	raw := string(out)
	assert.True(t, strings.HasPrefix(raw, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, raw, `<factura id="comprobante" version="1.1.0" xmlns="urn:factura">`)
	assert.Contains(t, raw, `<razonSocial>Comercial A &amp; B</razonSocial>`)
	assert.Contains(t, raw, `<dirMatriz>Av. Amazonas N34-12 Quito</dirMatriz>`)
	assert.Contains(t, raw, `<obligadoContabilidad>NO</obligadoContabilidad>`)
	assert.Equal(t, 2, strings.Count(raw, "<impuestos>"))

	var f parsedFactura
	require.NoError(t, xml.Unmarshal(out, &f))

	assert.Equal(t, "comprobante", f.ID)
	assert.Equal(t, "1.1.0", f.Version)
	assert.Equal(t, "1", f.Ambiente)
	assert.Equal(t, doc.AccessKey, f.Clave)
	assert.Equal(t, "Comercial A & B", f.Razon)
	assert.Equal(t, "15/03/2024", f.Fecha)
	assert.Equal(t, "05", f.TipoId)
	assert.Equal(t, "745.50", f.Total)
	assert.Equal(t, "DOLAR", f.Moneda)

	require.Len(t, f.Totales, 3)
	assert.Equal(t, "2", f.Totales[0].Code)
	assert.Equal(t, "400.00", f.Totales[0].Base)
	assert.Equal(t, "12.00", f.Totales[0].Rate)
	assert.Equal(t, "48.00", f.Totales[0].Value)
	assert.Equal(t, "4", f.Totales[1].Code)
	assert.Equal(t, "37.50", f.Totales[1].Value)
	assert.Equal(t, "0", f.Totales[2].Code)
	assert.Equal(t, "10.00", f.Totales[2].Base)

	require.Len(t, f.Detalles, 3)
	assert.Equal(t, "ITEM-3", f.Detalles[2].Code)
	assert.Empty(t, f.Detalles[2].Impuestos)
}

func TestDocument_XML_FinalConsumer(t *testing.T) {
	in := scenario()
	in.Buyer = &document.Buyer{Name: "Consumidor Final"}
	in.Issuer.Environment = accesskey.EnvironmentProduction
	in.Issuer.AccountingObligation = true

	doc, err := document.Build(in)
	require.NoError(t, err)

	out, err := doc.XML()
	require.NoError(t, err)

	raw := string(out)
	assert.Contains(t, raw, "<ambiente>2</ambiente>")
	assert.Contains(t, raw, "<tipoIdentificacionComprador>07</tipoIdentificacionComprador>")
	assert.Contains(t, raw, "<identificacionComprador>9999999999999</identificacionComprador>")
	assert.Contains(t, raw, "<obligadoContabilidad>SI</obligadoContabilidad>")
}

func TestDocument_XML_SuppressesEmptyBuckets(t *testing.T) {
	in := scenario()
	in.Invoice.Items = []document.Item{
		{Quantity: d("1"), UnitPrice: d("10"), IVARate: d("12")},
		{Quantity: d("1"), UnitPrice: d("5"), Discount: d("5"), IVARate: d("15")},
	}

	doc, err := document.Build(in)
	require.NoError(t, err)

	out, err := doc.XML()
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(string(out), "<totalImpuesto>"))
}

func TestDocument_PDF(t *testing.T) {
	doc, err := document.Build(scenario())
	require.NoError(t, err)

	out, err := doc.PDF()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
	assert.Equal(t, "001-001-000000123", doc.Number())
}

func TestEnvironmentCode(t *testing.T) {
	assert.Equal(t, "1", document.EnvironmentCode(accesskey.EnvironmentTesting))
	assert.Equal(t, "2", document.EnvironmentCode(accesskey.EnvironmentProduction))
	assert.NotEqual(t,
		document.EnvironmentCode(accesskey.EnvironmentProduction),
		accesskey.AuthorizationEnvironmentCode(accesskey.EnvironmentProduction),
	)
}

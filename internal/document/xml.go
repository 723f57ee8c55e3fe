package document

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/MrJamesThe3rd/contable/internal/accesskey"
	"github.com/MrJamesThe3rd/contable/internal/iva"
)

const (
	schemaVersion   = "1.1.0"
	schemaNamespace = "urn:factura"
)

// xmlText is written verbatim; values are escaped with Escape before assignment so the
// named entities survive encoding/xml's numeric escaping of quotes.
type xmlText struct {
	Value string `xml:",innerxml"`
}

func escaped(s string) xmlText {
	return xmlText{Value: Escape(s)}
}

type factura struct {
	XMLName        xml.Name       `xml:"factura"`
	ID             string         `xml:"id,attr"`
	Version        string         `xml:"version,attr"`
	Xmlns          string         `xml:"xmlns,attr"`
	InfoTributaria infoTributaria `xml:"infoTributaria"`
	InfoFactura    infoFactura    `xml:"infoFactura"`
	Detalles       []detalle      `xml:"detalles>detalle"`
}

type infoTributaria struct {
	Ambiente        string  `xml:"ambiente"`
	TipoEmision     string  `xml:"tipoEmision"`
	RazonSocial     xmlText `xml:"razonSocial"`
	NombreComercial xmlText `xml:"nombreComercial"`
	RUC             xmlText `xml:"ruc"`
	ClaveAcceso     string  `xml:"claveAcceso"`
	CodDoc          string  `xml:"codDoc"`
	Estab           string  `xml:"estab"`
	PtoEmi          string  `xml:"ptoEmi"`
	Secuencial      string  `xml:"secuencial"`
	DirMatriz       xmlText `xml:"dirMatriz"`
}

type infoFactura struct {
	FechaEmision                string          `xml:"fechaEmision"`
	DirEstablecimiento          xmlText         `xml:"dirEstablecimiento"`
	ObligadoContabilidad        string          `xml:"obligadoContabilidad"`
	TipoIdentificacionComprador string          `xml:"tipoIdentificacionComprador"`
	RazonSocialComprador        xmlText         `xml:"razonSocialComprador"`
	IdentificacionComprador     xmlText         `xml:"identificacionComprador"`
	TotalSinImpuestos           string          `xml:"totalSinImpuestos"`
	TotalDescuento              string          `xml:"totalDescuento"`
	TotalConImpuestos           []totalImpuesto `xml:"totalConImpuestos>totalImpuesto"`
	Propina                     string          `xml:"propina"`
	ImporteTotal                string          `xml:"importeTotal"`
	Moneda                      xmlText         `xml:"moneda"`
}

type totalImpuesto struct {
	Codigo           string `xml:"codigo"`
	CodigoPorcentaje string `xml:"codigoPorcentaje"`
	BaseImponible    string `xml:"baseImponible"`
	Tarifa           string `xml:"tarifa"`
	Valor            string `xml:"valor"`
}

type detalle struct {
	CodigoPrincipal        xmlText    `xml:"codigoPrincipal"`
	Descripcion            xmlText    `xml:"descripcion"`
	Cantidad               string     `xml:"cantidad"`
	PrecioUnitario         string     `xml:"precioUnitario"`
	Descuento              string     `xml:"descuento"`
	PrecioTotalSinImpuesto string     `xml:"precioTotalSinImpuesto"`
	Impuestos              *impuestos `xml:"impuestos,omitempty"`
}

type impuestos struct {
	Impuesto []impuesto `xml:"impuesto"`
}

type impuesto struct {
	Codigo           string `xml:"codigo"`
	CodigoPorcentaje string `xml:"codigoPorcentaje"`
	Tarifa           string `xml:"tarifa"`
	BaseImponible    string `xml:"baseImponible"`
	Valor            string `xml:"valor"`
}

// XML renders the document as an indented factura with an XML declaration.
func (d *Document) XML() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	if err := enc.Encode(d.factura()); err != nil {
		return nil, fmt.Errorf("encoding factura: %w", err)
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding factura: %w", err)
	}

	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

func (d *Document) factura() factura {
	t := d.Totals

	f := factura{
		ID:      "comprobante",
		Version: schemaVersion,
		Xmlns:   schemaNamespace,
		InfoTributaria: infoTributaria{
			Ambiente:        EnvironmentCode(d.Issuer.Environment),
			TipoEmision:     accesskey.EmissionNormal,
			RazonSocial:     escaped(d.Issuer.Name),
			NombreComercial: escaped(d.tradeName()),
			RUC:             escaped(d.Issuer.RUC),
			ClaveAcceso:     d.AccessKey,
			CodDoc:          accesskey.DocTypeInvoice,
			Estab:           d.Establishment,
			PtoEmi:          d.PointOfSale,
			Secuencial:      d.Sequential,
			DirMatriz:       escaped(d.Issuer.Address),
		},
		InfoFactura: infoFactura{
			FechaEmision:                d.Invoice.IssueDate.Format("02/01/2006"),
			DirEstablecimiento:          escaped(d.Issuer.Address),
			ObligadoContabilidad:        d.obligation(),
			TipoIdentificacionComprador: d.BuyerTypeCode(),
			RazonSocialComprador:        escaped(d.Buyer.Name),
			IdentificacionComprador:     escaped(d.BuyerID()),
			TotalSinImpuestos:           Money(t.TotalWithoutTax),
			TotalDescuento:              Money(t.Discounts),
			Propina:                     Money(d.Invoice.Tip),
			ImporteTotal:                Money(t.Total),
			Moneda:                      escaped(d.currency()),
		},
	}

	for _, b := range iva.Rendered(t.Buckets) {
		f.InfoFactura.TotalConImpuestos = append(f.InfoFactura.TotalConImpuestos, totalImpuesto{
			Codigo:           iva.TaxCode,
			CodigoPorcentaje: b.Code,
			BaseImponible:    Money(b.Base),
			Tarifa:           Money(b.Rate),
			Valor:            Money(b.Value),
		})
	}

	for _, l := range t.Lines {
		det := detalle{
			CodigoPrincipal:        escaped(l.Code),
			Descripcion:            escaped(l.Description),
			Cantidad:               Money(l.Quantity),
			PrecioUnitario:         Money(l.UnitPrice),
			Descuento:              Money(l.Discount),
			PrecioTotalSinImpuesto: Money(l.Base),
		}

		if l.IVARate.IsPositive() {
			det.Impuestos = &impuestos{Impuesto: []impuesto{{
				Codigo:           iva.TaxCode,
				CodigoPorcentaje: l.TaxCode,
				Tarifa:           Money(l.IVARate),
				BaseImponible:    Money(l.Base),
				Valor:            Money(l.Tax),
			}}}
		}

		f.Detalles = append(f.Detalles, det)
	}

	return f
}

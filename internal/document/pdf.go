package document

import (
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/MrJamesThe3rd/contable/internal/accesskey"
)

var (
	small  = props.Text{Size: 8}
	bold   = props.Text{Size: 8, Style: fontstyle.Bold}
	right  = props.Text{Size: 8, Align: align.Right}
	rightB = props.Text{Size: 8, Align: align.Right, Style: fontstyle.Bold}
)

// PDF renders the printable invoice (RIDE) on A4 portrait pages.
func (d *Document) PDF() ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	address := firstNonEmpty(d.Issuer.Address, "N/A")

	m.AddRow(30,
		col.New(6).Add(
			text.New(d.Issuer.Name, props.Text{Size: 12, Style: fontstyle.Bold}),
			text.New(d.tradeName(), props.Text{Size: 9, Top: 6}),
			text.New("Dirección Matriz: "+address, props.Text{Size: 8, Top: 12}),
			text.New("OBLIGADO A LLEVAR CONTABILIDAD: "+d.obligation(), props.Text{Size: 8, Top: 17}),
		),
		col.New(6).Add(
			text.New("R.U.C.: "+d.Issuer.RUC, props.Text{Size: 10, Style: fontstyle.Bold}),
			text.New("FACTURA No. "+d.Number(), props.Text{Size: 10, Style: fontstyle.Bold, Top: 5}),
			text.New("AMBIENTE: "+d.environmentLabel(), props.Text{Size: 8, Top: 11}),
			text.New("EMISIÓN: NORMAL", props.Text{Size: 8, Top: 15}),
			text.New("NÚMERO DE AUTORIZACIÓN: "+d.Invoice.AuthorizationNumber, props.Text{Size: 8, Top: 19}),
			text.New("CLAVE DE ACCESO: "+d.AccessKey, props.Text{Size: 7, Top: 24}),
		),
	)

	authDate := ""
	if !d.Invoice.AuthorizationDate.IsZero() {
		authDate = d.Invoice.AuthorizationDate.Format("02/01/2006 15:04:05")
	}

	m.AddRow(18,
		col.New(8).Add(
			text.New("Razón Social / Nombres: "+Sanitize(d.Buyer.Name), props.Text{Size: 8}),
			text.New("Identificación: "+d.BuyerID(), props.Text{Size: 8, Top: 5}),
			text.New("Fecha Emisión: "+d.Invoice.IssueDate.Format("02/01/2006"), props.Text{Size: 8, Top: 10}),
		),
		col.New(4).Add(
			text.New("Fecha Autorización: "+authDate, props.Text{Size: 8}),
			text.New("Dirección: "+Sanitize(d.Buyer.Address), props.Text{Size: 8, Top: 5}),
		),
	)

	m.AddRow(8,
		text.NewCol(2, "Cód. Principal", bold),
		text.NewCol(4, "Descripción", bold),
		text.NewCol(1, "Cant.", rightB),
		text.NewCol(2, "P. Unitario", rightB),
		text.NewCol(1, "Desc.", rightB),
		text.NewCol(2, "P. Total", rightB),
	)

	for _, l := range d.Totals.Lines {
		desc := firstNonEmpty(Sanitize(l.Description), "Detalle")
		if detail := Sanitize(l.AdditionalDetail); detail != "" {
			desc += " (" + detail + ")"
		}

		m.AddRow(7,
			text.NewCol(2, l.Code, small),
			text.NewCol(4, desc, small),
			text.NewCol(1, Money(l.Quantity), right),
			text.NewCol(2, Money(l.UnitPrice), right),
			text.NewCol(1, Money(l.Discount), right),
			text.NewCol(2, Money(l.Base), right),
		)
	}

	m.AddRow(6,
		text.NewCol(8, "Forma de pago: "+d.paymentMethod(), small),
		col.New(4),
	)

	for _, row := range d.summary() {
		style := right
		if row.strong {
			style = rightB
		}

		m.AddRow(5,
			col.New(6),
			text.NewCol(4, row.label, small),
			text.NewCol(2, "$"+Money(row.amount), style),
		)
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generating pdf: %w", err)
	}

	return out.GetBytes(), nil
}

// Number is the formatted EEE-PPP-SSSSSSSSS document number.
func (d *Document) Number() string {
	return strings.Join([]string{d.Establishment, d.PointOfSale, d.Sequential}, "-")
}

func (d *Document) environmentLabel() string {
	if d.Issuer.Environment == accesskey.EnvironmentProduction {
		return "PRODUCCIÓN"
	}

	return "PRUEBAS"
}

func (d *Document) paymentMethod() string {
	return firstNonEmpty(Sanitize(d.Invoice.PaymentMethod), DefaultPaymentMethod)
}

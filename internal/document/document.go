// Package document assembles the electronic invoice (factura) from company, buyer and
// line data, and renders it as SRI XML or as a printable PDF.
package document

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/contable/internal/accesskey"
	"github.com/MrJamesThe3rd/contable/internal/identity"
)

const (
	DefaultEstablishment = "001"
	DefaultPointOfSale   = "001"
	DefaultCurrency      = "DOLAR"
	DefaultPaymentMethod = "SIN UTILIZACION DEL SISTEMA FINANCIERO"
)

// ErrValidation is wrapped by every error Build returns for incomplete input.
var ErrValidation = errors.New("invalid document")

var (
	ErrMissingCompany = fmt.Errorf("%w: company is not configured", ErrValidation)
	ErrCompanyRUC     = fmt.Errorf("%w: company RUC must have 13 characters", ErrValidation)
	ErrMissingBuyer   = fmt.Errorf("%w: invoice has no client", ErrValidation)
	ErrNoItems        = fmt.Errorf("%w: invoice has no items", ErrValidation)
	ErrMissingNumber  = fmt.Errorf("%w: invoice has no number", ErrValidation)
)

// Issuer is the company emitting the document.
type Issuer struct {
	Name                 string
	TradeName            string
	RUC                  string
	Address              string
	Establishment        string
	PointOfSale          string
	Environment          accesskey.Environment
	AccountingObligation bool
}

// Buyer is the invoiced client.
type Buyer struct {
	Name           string
	Identification string
	Address        string
	Email          string
}

// Invoice carries the invoice fields the document needs.
type Invoice struct {
	Number        string
	IssueDate     time.Time
	AccessKey     string
	NumericCode   string
	PaymentMethod string
	Tip           decimal.Decimal
	Currency      string
	Items         []Item

	AuthorizationNumber string
	AuthorizationDate   time.Time
}

// Input is everything Build needs. Rand is used for the numeric code when the invoice
// carries neither an access key nor a numeric code; nil uses the global generator.
type Input struct {
	Issuer  *Issuer
	Buyer   *Buyer
	Invoice Invoice
	Rand    accesskey.Source
}

// Document is a validated invoice with every derived value resolved.
type Document struct {
	Issuer        Issuer
	Buyer         Buyer
	Invoice       Invoice
	Establishment string
	PointOfSale   string
	Sequential    string
	AccessKey     string
	Totals        Totals
}

// Build validates the input and derives numbering, totals and the access key. An access
// key already present on the invoice is kept as is.
func Build(in Input) (*Document, error) {
	if in.Issuer == nil {
		return nil, ErrMissingCompany
	}

	if len(in.Issuer.RUC) != 13 {
		return nil, ErrCompanyRUC
	}

	if in.Buyer == nil {
		return nil, ErrMissingBuyer
	}

	if len(in.Invoice.Items) == 0 {
		return nil, ErrNoItems
	}

	if strings.TrimSpace(in.Invoice.Number) == "" {
		return nil, ErrMissingNumber
	}

	estab, pos, seq := SplitNumber(in.Invoice.Number, in.Issuer.Establishment, in.Issuer.PointOfSale)

	doc := &Document{
		Issuer:        *in.Issuer,
		Buyer:         *in.Buyer,
		Invoice:       in.Invoice,
		Establishment: estab,
		PointOfSale:   pos,
		Sequential:    seq,
		AccessKey:     in.Invoice.AccessKey,
		Totals:        Compute(in.Invoice.Items),
	}

	if doc.AccessKey == "" {
		key, err := doc.buildAccessKey(in.Rand)
		if err != nil {
			return nil, fmt.Errorf("building access key: %w", err)
		}

		doc.AccessKey = key
	}

	return doc, nil
}

func (d *Document) buildAccessKey(src accesskey.Source) (string, error) {
	code := d.Invoice.NumericCode
	if code == "" {
		code = accesskey.RandomNumericCode(src)
	}

	return accesskey.BuildModulo11(accesskey.Fields{
		Date:          d.Invoice.IssueDate.Format("02012006"),
		DocType:       accesskey.DocTypeInvoice,
		RUC:           accesskey.PadLeft(d.Issuer.RUC, 13),
		Environment:   EnvironmentCode(d.Issuer.Environment),
		Establishment: d.Establishment,
		PointOfSale:   d.PointOfSale,
		Sequential:    d.Sequential,
		NumericCode:   accesskey.PadLeft(code, 8),
		Emission:      accesskey.EmissionNormal,
	})
}

// EnvironmentCode is the ambiente value written in documents: "2" for production and
// "1" otherwise. The authorization-time key maps the environments the other way round.
func EnvironmentCode(env accesskey.Environment) string {
	if env == accesskey.EnvironmentProduction {
		return "2"
	}

	return "1"
}

// SplitNumber parses an EEE-PPP-SSSSSSSSS invoice number. Missing establishment or
// point-of-sale parts fall back to the given defaults, then to "001". Non-digits are
// dropped from the sequential. Results are zero-padded to 3, 3 and 9 digits.
func SplitNumber(number, establishment, pointOfSale string) (string, string, string) {
	parts := strings.Split(number, "-")

	part := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}

		return ""
	}

	estab := firstNonEmpty(part(0), establishment, DefaultEstablishment)
	pos := firstNonEmpty(part(1), pointOfSale, DefaultPointOfSale)
	seq := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}

		return -1
	}, part(2))

	return accesskey.PadLeft(estab, 3), accesskey.PadLeft(pos, 3), accesskey.PadLeft(seq, 9)
}

// BuyerTypeCode is the tipoIdentificacionComprador for the buyer.
func (d *Document) BuyerTypeCode() string {
	return identity.BuyerTypeCode(d.Buyer.Identification)
}

// BuyerID is the buyer identification, or the final-consumer id when empty.
func (d *Document) BuyerID() string {
	if d.Buyer.Identification == "" {
		return identity.FinalConsumerID
	}

	return d.Buyer.Identification
}

func (d *Document) tradeName() string {
	return firstNonEmpty(d.Issuer.TradeName, d.Issuer.Name)
}

func (d *Document) obligation() string {
	if d.Issuer.AccountingObligation {
		return "SI"
	}

	return "NO"
}

func (d *Document) currency() string {
	return firstNonEmpty(d.Invoice.Currency, DefaultCurrency)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

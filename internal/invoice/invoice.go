package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/contable/internal/accesskey"
	"github.com/MrJamesThe3rd/contable/internal/company"
	"github.com/MrJamesThe3rd/contable/internal/document"
)

// Status is the lifecycle state of an invoice. It only ever moves forward.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusPending    Status = "pending"
	StatusAuthorized Status = "authorized"
)

var statusOrder = map[Status]int{
	StatusDraft:      0,
	StatusPending:    1,
	StatusAuthorized: 2,
}

func (s Status) Valid() bool {
	_, ok := statusOrder[s]
	return ok
}

// CanTransitionTo reports whether next is strictly later than s.
func (s Status) CanTransitionTo(next Status) bool {
	from, ok := statusOrder[s]
	if !ok {
		return false
	}

	to, ok := statusOrder[next]

	return ok && to > from
}

const DefaultPaymentMethod = "20-OTROS CON UTILIZACION DEL SISTEMA FINANCIERO"

// Client is the buyer as it was when the invoice was issued.
type Client struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Identification string    `json:"identification"`
	Address        string    `json:"address,omitempty"`
	Email          string    `json:"email,omitempty"`
}

// Invoice is a sales invoice. Once authorized its items, access key and
// authorization data never change.
type Invoice struct {
	ID             uuid.UUID       `json:"id"`
	Number         string          `json:"number"`
	Sequential     int64           `json:"sequential"`
	Client         Client          `json:"client"`
	IssueDate      time.Time       `json:"issueDate"`
	Items          []document.Item `json:"items"`
	PaymentMethod  string          `json:"paymentMethod"`
	PaymentDetails string          `json:"paymentDetails,omitempty"`
	Tip            decimal.Decimal `json:"tip"`
	Currency       string          `json:"currency,omitempty"`
	NumericCode    string          `json:"numericCode"`
	Status         Status          `json:"status"`

	AccessKey           string     `json:"accessKey,omitempty"`
	AuthorizationNumber string     `json:"authorizationNumber,omitempty"`
	AuthorizationDate   *time.Time `json:"authorizationDate,omitempty"`
	LastMessage         string     `json:"lastMessage,omitempty"`

	Subtotal  decimal.Decimal `json:"subtotal"`
	Discounts decimal.Decimal `json:"discounts"`
	TotalIVA  decimal.Decimal `json:"totalIva"`
	Total     decimal.Decimal `json:"total"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// recompute refreshes the cached totals from the items.
func (inv *Invoice) recompute() {
	t := document.Compute(inv.Items)
	inv.Subtotal = t.Subtotal
	inv.Discounts = t.Discounts
	inv.TotalIVA = t.TotalIVA
	inv.Total = t.Total
}

// DocumentInput assembles the fiscal document input for the invoice.
func (inv *Invoice) DocumentInput(c *company.Company) document.Input {
	in := document.Input{
		Buyer: &document.Buyer{
			Name:           inv.Client.Name,
			Identification: inv.Client.Identification,
			Address:        inv.Client.Address,
			Email:          inv.Client.Email,
		},
		Invoice: document.Invoice{
			Number:              inv.Number,
			IssueDate:           inv.IssueDate,
			AccessKey:           inv.AccessKey,
			NumericCode:         inv.NumericCode,
			PaymentMethod:       inv.PaymentMethod,
			Tip:                 inv.Tip,
			Currency:            inv.Currency,
			Items:               inv.Items,
			AuthorizationNumber: inv.AuthorizationNumber,
		},
	}

	if inv.AuthorizationDate != nil {
		in.Invoice.AuthorizationDate = *inv.AuthorizationDate
	}

	if c != nil {
		in.Issuer = c.Issuer()
	}

	return in
}

// KeyParams are the authorization-time access key parameters.
func (inv *Invoice) KeyParams(c *company.Company) accesskey.Params {
	estab, pos, seq := document.SplitNumber(inv.Number, c.Establishment, c.PointOfSale)

	return accesskey.Params{
		IssueDate:     inv.IssueDate,
		DocType:       accesskey.DocTypeInvoice,
		RUC:           c.RUC,
		Environment:   c.Environment,
		Establishment: estab,
		PointOfSale:   pos,
		Sequential:    seq,
	}
}

package purchase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/contable/internal/iva"
)

// DefaultIVARate applies to lines that name neither a rate nor a product.
var DefaultIVARate = decimal.NewFromInt(12)

type Status string

const StatusCompleted Status = "completed"

type Supplier struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Identification string    `json:"identification"`
}

type Line struct {
	ProductID   *uuid.UUID      `json:"productId,omitempty"`
	Code        string          `json:"code,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	IVARate     decimal.Decimal `json:"ivaRate"`
	IVA         decimal.Decimal `json:"iva"`
}

func (l Line) Base() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// Purchase is a completed purchase from a supplier.
type Purchase struct {
	ID        uuid.UUID       `json:"id"`
	Number    string          `json:"number"`
	Supplier  Supplier        `json:"supplier"`
	Date      time.Time       `json:"date"`
	Lines     []Line          `json:"lines"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	IVA       decimal.Decimal `json:"iva"`
	Total     decimal.Decimal `json:"total"`
	Status    Status          `json:"status"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

func (p *Purchase) recompute() {
	p.Subtotal = decimal.Zero
	p.IVA = decimal.Zero

	for i := range p.Lines {
		l := &p.Lines[i]
		l.IVA = iva.Calculate(l.Base(), l.IVARate)
		p.Subtotal = p.Subtotal.Add(l.Base())
		p.IVA = p.IVA.Add(l.IVA)
	}

	p.Total = p.Subtotal.Add(p.IVA)
}

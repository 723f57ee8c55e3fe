package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog item.
type Product struct {
	ID             uuid.UUID       `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Stock          decimal.Decimal `json:"stock"`
	MinStock       decimal.Decimal `json:"minStock"`
	CostPrice      decimal.Decimal `json:"costPrice"`
	SalePrice      decimal.Decimal `json:"salePrice"`
	IVARate        decimal.Decimal `json:"ivaRate"`
	TrackInventory bool            `json:"trackInventory"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      *time.Time      `json:"updatedAt,omitempty"`
}

// LowStock reports whether a tracked product is at or below its minimum.
func (p *Product) LowStock() bool {
	return p.TrackInventory && p.Stock.LessThanOrEqual(p.MinStock)
}

// MovementType is the kind of stock movement.
type MovementType string

const (
	MovementEntry      MovementType = "entry"
	MovementExit       MovementType = "exit"
	MovementAdjustment MovementType = "adjustment"
)

// Movement is a change to a product's stock.
type Movement struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"productId"`
	Type      MovementType    `json:"type"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reason    string          `json:"reason,omitempty"`
	Reference string          `json:"reference,omitempty"`
	Date      time.Time       `json:"date"`
}

// Apply returns the stock after the movement. Entries add, exits subtract and
// adjustments set the stock; the result never drops below zero.
func (m Movement) Apply(stock decimal.Decimal) decimal.Decimal {
	var next decimal.Decimal

	switch m.Type {
	case MovementEntry:
		next = stock.Add(m.Quantity)
	case MovementExit:
		next = stock.Sub(m.Quantity)
	default:
		next = m.Quantity
	}

	return decimal.Max(next, decimal.Zero)
}

// KardexEntry is a movement with the running balance after it.
type KardexEntry struct {
	Movement
	In      decimal.Decimal `json:"in"`
	Out     decimal.Decimal `json:"out"`
	Balance decimal.Decimal `json:"balance"`
}

package workorder

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/contable/internal/iva"
)

// IVARate is the flat rate applied to work order subtotals.
var IVARate = decimal.NewFromInt(12)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusCompleted, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}

	return false
}

// CanTransitionTo reports whether next is reachable from s. Completed and
// cancelled orders are final.
func (s Status) CanTransitionTo(next Status) bool {
	for _, st := range transitions[s] {
		if st == next {
			return true
		}
	}

	return false
}

type Client struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type Item struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

type WorkOrder struct {
	ID          uuid.UUID       `json:"id"`
	Number      string          `json:"number"`
	Client      Client          `json:"client"`
	Description string          `json:"description"`
	StartDate   time.Time       `json:"startDate"`
	DueDate     time.Time       `json:"dueDate"`
	Items       []Item          `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	IVA         decimal.Decimal `json:"iva"`
	Total       decimal.Decimal `json:"total"`
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   *time.Time      `json:"updatedAt,omitempty"`
}

func (w *WorkOrder) recompute() {
	w.Subtotal = decimal.Zero
	for _, it := range w.Items {
		w.Subtotal = w.Subtotal.Add(it.Quantity.Mul(it.UnitPrice))
	}

	w.IVA = iva.Calculate(w.Subtotal, IVARate)
	w.Total = w.Subtotal.Add(w.IVA)
}

package contact

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/contable/internal/document"
)

// Role separates clients from suppliers.
type Role string

const (
	RoleClient   Role = "client"
	RoleSupplier Role = "supplier"
)

// Type is the legal nature of the contact.
type Type string

const (
	TypePerson  Type = "person"
	TypeCompany Type = "company"
)

// Contact is a client or supplier.
type Contact struct {
	ID             uuid.UUID  `json:"id"`
	Role           Role       `json:"role"`
	Name           string     `json:"name"`
	Identification string     `json:"identification"`
	Type           Type       `json:"type"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Address        string     `json:"address,omitempty"`
	ContactPerson  string     `json:"contactPerson,omitempty"`
	Active         bool       `json:"active"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

// Buyer converts the contact into the buyer block of a fiscal document.
func (c *Contact) Buyer() *document.Buyer {
	return &document.Buyer{
		Name:           c.Name,
		Identification: c.Identification,
		Address:        c.Address,
		Email:          c.Email,
	}
}

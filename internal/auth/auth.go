// Package auth manages users, their per-module capabilities and session tokens.
package auth

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Module is an application area capabilities are granted on.
type Module string

const (
	ModuleDashboard  Module = "dashboard"
	ModuleInvoices   Module = "invoices"
	ModuleInventory  Module = "inventory"
	ModuleClients    Module = "clients"
	ModuleSuppliers  Module = "suppliers"
	ModulePurchases  Module = "purchases"
	ModulePayroll    Module = "payroll"
	ModuleWorkOrders Module = "work_orders"
	ModuleAccounting Module = "accounting"
	ModuleReports    Module = "reports"
	ModuleCompany    Module = "company"
	ModuleUsers      Module = "users"
)

var Modules = []Module{
	ModuleDashboard, ModuleInvoices, ModuleInventory, ModuleClients, ModuleSuppliers,
	ModulePurchases, ModulePayroll, ModuleWorkOrders, ModuleAccounting, ModuleReports,
	ModuleCompany, ModuleUsers,
}

func (m Module) Valid() bool {
	return slices.Contains(Modules, m)
}

type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

func (a Action) Valid() bool {
	switch a {
	case ActionView, ActionCreate, ActionEdit, ActionDelete:
		return true
	}

	return false
}

// Permissions maps a module to the actions allowed on it.
type Permissions map[Module][]Action

func (p Permissions) Allows(m Module, a Action) bool {
	return slices.Contains(p[m], a)
}

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// User is an application account. PasswordHash is a bcrypt hash; the plaintext
// password is never stored.
type User struct {
	ID           uuid.UUID   `json:"id"`
	Email        string      `json:"email"`
	FirstName    string      `json:"firstName,omitempty"`
	LastName     string      `json:"lastName,omitempty"`
	PasswordHash string      `json:"passwordHash"`
	IsAdmin      bool        `json:"isAdmin"`
	Status       Status      `json:"status"`
	Permissions  Permissions `json:"permissions,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    *time.Time  `json:"updatedAt,omitempty"`
}

// Can reports whether the user may perform a on m. Administrators may do anything.
func (u *User) Can(m Module, a Action) bool {
	if u.Status != StatusActive {
		return false
	}

	return u.IsAdmin || u.Permissions.Allows(m, a)
}

type ctxKey struct{}

func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFrom returns the authenticated user stored by WithUser.
func UserFrom(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*User)
	return u, ok
}

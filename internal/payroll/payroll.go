package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Employee struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Identification string          `json:"identification"`
	Position       string          `json:"position,omitempty"`
	BaseSalary     decimal.Decimal `json:"baseSalary"`
	HireDate       time.Time       `json:"hireDate"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      *time.Time      `json:"updatedAt,omitempty"`
}

// Record is a computed payroll for one employee and period. Records are never
// edited; computing the same period again stores a new record.
type Record struct {
	ID           uuid.UUID `json:"id"`
	EmployeeID   uuid.UUID `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
	Period       string    `json:"period"`
	MonthsWorked int       `json:"monthsWorked"`
	Breakdown
	CreatedAt time.Time `json:"createdAt"`
}

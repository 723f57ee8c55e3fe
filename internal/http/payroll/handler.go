package payroll

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/contable/internal/http/render"
	"github.com/MrJamesThe3rd/contable/internal/payroll"
)

type Handler struct {
	svc *payroll.Service
	// months is used when a request does not say how many months were worked.
	months int
}

func NewHandler(svc *payroll.Service, defaultMonths int) *Handler {
	return &Handler{svc: svc, months: defaultMonths}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/employees", h.createEmployee)
	r.Get("/employees", h.listEmployees)
	r.Get("/employees/{id}", h.getEmployee)
	r.Put("/employees/{id}", h.updateEmployee)
	r.Delete("/employees/{id}", h.deactivate)

	r.Post("/runs", h.run)
	r.Get("/records", h.listRecords)
	r.Get("/records/{id}", h.getRecord)

	r.Post("/calculate", h.calculate)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, payroll.ErrNotFound), errors.Is(err, payroll.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, payroll.ErrInactiveEmployee):
		return http.StatusConflict
	case errors.Is(err, payroll.ErrMissingName),
		errors.Is(err, payroll.ErrInvalidIdentification),
		errors.Is(err, payroll.ErrInvalidSalary),
		errors.Is(err, payroll.ErrInvalidPeriod),
		errors.Is(err, payroll.ErrInvalidMonths):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) monthsOr(m int) int {
	if m == 0 {
		return h.months
	}

	return m
}

type employeeRequest struct {
	Name           string          `json:"name" validate:"required"`
	Identification string          `json:"identification" validate:"required,len=10,numeric"`
	Position       string          `json:"position"`
	BaseSalary     decimal.Decimal `json:"baseSalary"`
	HireDate       time.Time       `json:"hireDate"`
}

func (h *Handler) createEmployee(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if !render.Decode(w, r, &req) {
		return
	}

	e, err := h.svc.CreateEmployee(r.Context(), payroll.EmployeeParams(req))
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	render.JSON(w, http.StatusCreated, e)
}

func (h *Handler) listEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.svc.ListEmployees(r.Context())
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	if employees == nil {
		employees = []*payroll.Employee{}
	}

	render.JSON(w, http.StatusOK, employees)
}

func (h *Handler) getEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r)
	if !ok {
		return
	}

	e, err := h.svc.GetEmployee(r.Context(), id)
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	render.JSON(w, http.StatusOK, e)
}

func (h *Handler) updateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r)
	if !ok {
		return
	}

	var req employeeRequest
	if !render.Decode(w, r, &req) {
		return
	}

	e, err := h.svc.UpdateEmployee(r.Context(), id, payroll.EmployeeParams(req))
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	render.JSON(w, http.StatusOK, e)
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Deactivate(r.Context(), id); err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type runRequest struct {
	EmployeeID   uuid.UUID        `json:"employeeId" validate:"required"`
	Period       string           `json:"period" validate:"required"`
	BaseSalary   *decimal.Decimal `json:"baseSalary,omitempty"`
	MonthsWorked int              `json:"monthsWorked" validate:"omitempty,min=1,max=12"`
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if !render.Decode(w, r, &req) {
		return
	}

	rec, err := h.svc.Run(r.Context(), payroll.RunParams{
		EmployeeID:   req.EmployeeID,
		Period:       req.Period,
		BaseSalary:   req.BaseSalary,
		MonthsWorked: h.monthsOr(req.MonthsWorked),
	})
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	render.JSON(w, http.StatusCreated, rec)
}

func (h *Handler) listRecords(w http.ResponseWriter, r *http.Request) {
	filter := payroll.RecordFilter{Period: r.URL.Query().Get("period")}

	if s := r.URL.Query().Get("employee_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			render.Error(w, http.StatusBadRequest, "invalid employee_id")
			return
		}

		filter.EmployeeID = &id
	}

	records, err := h.svc.ListRecords(r.Context(), filter)
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	if records == nil {
		records = []*payroll.Record{}
	}

	render.JSON(w, http.StatusOK, records)
}

func (h *Handler) getRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r)
	if !ok {
		return
	}

	rec, err := h.svc.GetRecord(r.Context(), id)
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	render.JSON(w, http.StatusOK, rec)
}

type calculateRequest struct {
	BaseSalary   decimal.Decimal `json:"baseSalary"`
	MonthsWorked int             `json:"monthsWorked" validate:"omitempty,min=1,max=12"`
}

// calculate previews a payroll without storing it.
func (h *Handler) calculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if !render.Decode(w, r, &req) {
		return
	}

	if !req.BaseSalary.IsPositive() {
		render.Error(w, http.StatusUnprocessableEntity, payroll.ErrInvalidSalary.Error())
		return
	}

	render.JSON(w, http.StatusOK, payroll.Compute(req.BaseSalary, h.monthsOr(req.MonthsWorked)))
}

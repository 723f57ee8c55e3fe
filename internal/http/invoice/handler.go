package invoice

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/contable/internal/company"
	"github.com/MrJamesThe3rd/contable/internal/contact"
	"github.com/MrJamesThe3rd/contable/internal/document"
	"github.com/MrJamesThe3rd/contable/internal/http/render"
	"github.com/MrJamesThe3rd/contable/internal/invoice"
)

type Handler struct {
	svc *invoice.Service
}

func NewHandler(svc *invoice.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/submit", h.submit)
	r.Post("/{id}/authorize", h.authorize)
	r.Get("/{id}/xml", h.xml)
	r.Get("/{id}/pdf", h.pdf)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, invoice.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, invoice.ErrInvalidTransition),
		errors.Is(err, invoice.ErrImmutable),
		errors.Is(err, invoice.ErrConflict),
		errors.Is(err, invoice.ErrNotPending):
		return http.StatusConflict
	case errors.Is(err, document.ErrValidation),
		errors.Is(err, invoice.ErrNoItems),
		errors.Is(err, invoice.ErrInvalidRate),
		errors.Is(err, invoice.ErrNotClient),
		errors.Is(err, contact.ErrNotFound),
		errors.Is(err, company.ErrNotFound):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

type itemRequest struct {
	Code             string          `json:"code"`
	AuxCode          string          `json:"auxCode"`
	Description      string          `json:"description" validate:"required"`
	AdditionalDetail string          `json:"additionalDetail"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	Discount         decimal.Decimal `json:"discount"`
	Subsidy          decimal.Decimal `json:"subsidy"`
	IVARate          decimal.Decimal `json:"ivaRate"`
}

func toItems(req []itemRequest) []document.Item {
	if req == nil {
		return nil
	}

	items := make([]document.Item, len(req))
	for i, it := range req {
		items[i] = document.Item(it)
	}

	return items
}

type createRequest struct {
	ClientID       uuid.UUID       `json:"clientId" validate:"required"`
	IssueDate      time.Time       `json:"issueDate"`
	Items          []itemRequest   `json:"items" validate:"required,min=1,dive"`
	PaymentMethod  string          `json:"paymentMethod"`
	PaymentDetails string          `json:"paymentDetails"`
	Tip            decimal.Decimal `json:"tip"`
	Status         invoice.Status  `json:"status" validate:"omitempty,oneof=draft pending"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !render.Decode(w, r, &req) {
		return
	}

	inv, err := h.svc.Create(r.Context(), invoice.CreateParams{
		ClientID:       req.ClientID,
		IssueDate:      req.IssueDate,
		Items:          toItems(req.Items),
		PaymentMethod:  req.PaymentMethod,
		PaymentDetails: req.PaymentDetails,
		Tip:            req.Tip,
		Status:         req.Status,
	})
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	render.JSON(w, http.StatusCreated, inv)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := invoice.ListFilter{
		StartDate: render.Date(r, "start_date"),
		EndDate:   render.Date(r, "end_date"),
		Search:    r.URL.Query().Get("search"),
	}

	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(invoice.Status(s))
	}

	invoices, err := h.svc.List(r.Context(), filter)
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	if invoices == nil {
		invoices = []*invoice.Invoice{}
	}

	render.JSON(w, http.StatusOK, invoices)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r)
	if !ok {
		return
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	render.JSON(w, http.StatusOK, inv)
}

type updateRequest struct {
	ClientID       *uuid.UUID       `json:"clientId,omitempty"`
	IssueDate      *time.Time       `json:"issueDate,omitempty"`
	Items          []itemRequest    `json:"items,omitempty" validate:"omitempty,dive"`
	PaymentMethod  *string          `json:"paymentMethod,omitempty"`
	PaymentDetails *string          `json:"paymentDetails,omitempty"`
	Tip            *decimal.Decimal `json:"tip,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if !render.Decode(w, r, &req) {
		return
	}

	inv, err := h.svc.Update(r.Context(), id, invoice.UpdateParams{
		ClientID:       req.ClientID,
		IssueDate:      req.IssueDate,
		Items:          toItems(req.Items),
		PaymentMethod:  req.PaymentMethod,
		PaymentDetails: req.PaymentDetails,
		Tip:            req.Tip,
	})
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	render.JSON(w, http.StatusOK, inv)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r)
	if !ok {
		return
	}

	inv, err := h.svc.Submit(r.Context(), id)
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	render.JSON(w, http.StatusOK, inv)
}

type authorizeResponse struct {
	Authorized bool             `json:"authorized"`
	Message    string           `json:"message,omitempty"`
	Invoice    *invoice.Invoice `json:"invoice"`
}

// authorize answers 200 for both outcomes; a rejection is not an HTTP error.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r)
	if !ok {
		return
	}

	res, err := h.svc.Authorize(r.Context(), id)
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	render.JSON(w, http.StatusOK, authorizeResponse{
		Authorized: res.Result.Authorized,
		Message:    res.Result.Message,
		Invoice:    res.Invoice,
	})
}

func (h *Handler) xml(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, "application/xml", ".xml", h.svc.XML)
}

func (h *Handler) pdf(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, "application/pdf", ".pdf", h.svc.PDF)
}

func (h *Handler) download(
	w http.ResponseWriter,
	r *http.Request,
	contentType, ext string,
	build func(ctx context.Context, id uuid.UUID) ([]byte, error),
) {
	id, ok := render.ID(w, r)
	if !ok {
		return
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	body, err := build(r.Context(), id)
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	render.Attachment(w, contentType, "factura-"+inv.Number+ext, body)
}

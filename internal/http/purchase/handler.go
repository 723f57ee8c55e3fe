package purchase

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/contable/internal/contact"
	"github.com/MrJamesThe3rd/contable/internal/http/render"
	"github.com/MrJamesThe3rd/contable/internal/inventory"
	"github.com/MrJamesThe3rd/contable/internal/purchase"
)

type Handler struct {
	svc *purchase.Service
}

func NewHandler(svc *purchase.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, purchase.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, purchase.ErrNotSupplier),
		errors.Is(err, purchase.ErrNoLines),
		errors.Is(err, purchase.ErrInvalidQuantity),
		errors.Is(err, purchase.ErrInvalidRate),
		errors.Is(err, purchase.ErrMissingLineLabel),
		errors.Is(err, contact.ErrNotFound),
		errors.Is(err, inventory.ErrNotFound):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

type lineRequest struct {
	ProductID   *uuid.UUID       `json:"productId,omitempty"`
	Description string           `json:"description"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   decimal.Decimal  `json:"unitPrice"`
	IVARate     *decimal.Decimal `json:"ivaRate,omitempty"`
}

type createRequest struct {
	SupplierID uuid.UUID     `json:"supplierId" validate:"required"`
	Date       time.Time     `json:"date"`
	Lines      []lineRequest `json:"lines" validate:"required,min=1"`
	Notes      string        `json:"notes"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !render.Decode(w, r, &req) {
		return
	}

	lines := make([]purchase.LineParams, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = purchase.LineParams(l)
	}

	p, err := h.svc.Create(r.Context(), purchase.CreateParams{
		SupplierID: req.SupplierID,
		Date:       req.Date,
		Lines:      lines,
		Notes:      req.Notes,
	})
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	render.JSON(w, http.StatusCreated, p)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := purchase.ListFilter{
		StartDate: render.Date(r, "start_date"),
		EndDate:   render.Date(r, "end_date"),
		Search:    r.URL.Query().Get("search"),
	}

	if s := r.URL.Query().Get("supplier_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			render.Error(w, http.StatusBadRequest, "invalid supplier_id")
			return
		}

		filter.SupplierID = &id
	}

	purchases, err := h.svc.List(r.Context(), filter)
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	if purchases == nil {
		purchases = []*purchase.Purchase{}
	}

	render.JSON(w, http.StatusOK, purchases)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r)
	if !ok {
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	render.JSON(w, http.StatusOK, p)
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

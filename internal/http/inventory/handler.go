package inventory

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/contable/internal/http/render"
	"github.com/MrJamesThe3rd/contable/internal/inventory"
)

type Handler struct {
	svc *inventory.Service
}

func NewHandler(svc *inventory.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/movements", h.recordMovement)
	r.Get("/{id}/kardex", h.kardex)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, inventory.ErrDuplicateCode):
		return http.StatusConflict
	case errors.Is(err, inventory.ErrMissingCode),
		errors.Is(err, inventory.ErrMissingName),
		errors.Is(err, inventory.ErrInvalidRate),
		errors.Is(err, inventory.ErrInvalidQuantity),
		errors.Is(err, inventory.ErrInvalidMovement):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

type productRequest struct {
	Code           string          `json:"code" validate:"required"`
	Name           string          `json:"name" validate:"required"`
	Description    string          `json:"description"`
	Stock          decimal.Decimal `json:"stock"`
	MinStock       decimal.Decimal `json:"minStock"`
	CostPrice      decimal.Decimal `json:"costPrice"`
	SalePrice      decimal.Decimal `json:"salePrice"`
	IVARate        decimal.Decimal `json:"ivaRate"`
	TrackInventory bool            `json:"trackInventory"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !render.Decode(w, r, &req) {
		return
	}

	p, err := h.svc.CreateProduct(r.Context(), inventory.ProductParams(req))
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	render.JSON(w, http.StatusCreated, p)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListProducts(r.Context(), inventory.ListFilter{
		Search:       r.URL.Query().Get("search"),
		LowStockOnly: render.Bool(r, "low_stock"),
	})
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	if products == nil {
		products = []*inventory.Product{}
	}

	render.JSON(w, http.StatusOK, products)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r)
	if !ok {
		return
	}

	p, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	render.JSON(w, http.StatusOK, p)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r)
	if !ok {
		return
	}

	var req productRequest
	if !render.Decode(w, r, &req) {
		return
	}

	p, err := h.svc.UpdateProduct(r.Context(), id, inventory.ProductParams(req))
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

	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type movementRequest struct {
	Type      inventory.MovementType `json:"type" validate:"required,oneof=entry exit adjustment"`
	Quantity  decimal.Decimal        `json:"quantity"`
	Reason    string                 `json:"reason"`
	Reference string                 `json:"reference"`
	Date      time.Time              `json:"date"`
}

func (h *Handler) recordMovement(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r)
	if !ok {
		return
	}

	var req movementRequest
	if !render.Decode(w, r, &req) {
		return
	}

	m, err := h.svc.RecordMovement(r.Context(), inventory.MovementParams{
		ProductID: id,
		Type:      req.Type,
		Quantity:  req.Quantity,
		Reason:    req.Reason,
		Reference: req.Reference,
		Date:      req.Date,
	})
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	render.JSON(w, http.StatusCreated, m)
}

func (h *Handler) kardex(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r)
	if !ok {
		return
	}

	entries, err := h.svc.Kardex(r.Context(), id)
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	if entries == nil {
		entries = []inventory.KardexEntry{}
	}

	render.JSON(w, http.StatusOK, entries)
}

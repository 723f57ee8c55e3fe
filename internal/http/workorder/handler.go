package workorder

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/contable/internal/contact"
	"github.com/MrJamesThe3rd/contable/internal/http/render"
	"github.com/MrJamesThe3rd/contable/internal/workorder"
)

type Handler struct {
	svc *workorder.Service
}

func NewHandler(svc *workorder.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}/status", h.setStatus)
	r.Delete("/{id}", h.delete)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, workorder.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, workorder.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, workorder.ErrNotClient),
		errors.Is(err, workorder.ErrNoItems),
		errors.Is(err, workorder.ErrMissingDesc),
		errors.Is(err, workorder.ErrInvalidStatus),
		errors.Is(err, workorder.ErrDueBeforeStart),
		errors.Is(err, contact.ErrNotFound):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

type createRequest struct {
	ClientID    uuid.UUID        `json:"clientId" validate:"required"`
	Description string           `json:"description" validate:"required"`
	StartDate   time.Time        `json:"startDate"`
	DueDate     time.Time        `json:"dueDate"`
	Items       []workorder.Item `json:"items" validate:"required,min=1"`
	Status      workorder.Status `json:"status"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !render.Decode(w, r, &req) {
		return
	}

	wo, err := h.svc.Create(r.Context(), workorder.CreateParams(req))
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	render.JSON(w, http.StatusCreated, wo)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := workorder.ListFilter{Search: r.URL.Query().Get("search")}

	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(workorder.Status(s))
	}

	orders, err := h.svc.List(r.Context(), filter)
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	if orders == nil {
		orders = []*workorder.WorkOrder{}
	}

	render.JSON(w, http.StatusOK, orders)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r)
	if !ok {
		return
	}

	wo, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	render.JSON(w, http.StatusOK, wo)
}

type statusRequest struct {
	Status workorder.Status `json:"status" validate:"required"`
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r)
	if !ok {
		return
	}

	var req statusRequest
	if !render.Decode(w, r, &req) {
		return
	}

	wo, err := h.svc.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	render.JSON(w, http.StatusOK, wo)
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

package contact

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/contable/internal/contact"
	"github.com/MrJamesThe3rd/contable/internal/http/render"
	"github.com/MrJamesThe3rd/contable/internal/identity"
)

// Handler serves the contacts of a single role, so clients and suppliers are
// mounted on separate routes with separate permissions.
type Handler struct {
	svc  *contact.Service
	role contact.Role
}

func NewHandler(svc *contact.Service, role contact.Role) *Handler {
	return &Handler{svc: svc, role: role}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, contact.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, contact.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, contact.ErrInvalidIdentification),
		errors.Is(err, contact.ErrMissingName),
		errors.Is(err, contact.ErrInvalidRole),
		errors.Is(err, contact.ErrInvalidType):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

type createRequest struct {
	Name           string       `json:"name" validate:"required"`
	Identification string       `json:"identification" validate:"required,numeric"`
	Type           contact.Type `json:"type" validate:"omitempty,oneof=person company"`
	Email          string       `json:"email" validate:"omitempty,email"`
	Phone          string       `json:"phone"`
	Address        string       `json:"address"`
	ContactPerson  string       `json:"contactPerson"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !render.Decode(w, r, &req) {
		return
	}

	c, err := h.svc.Create(r.Context(), contact.CreateParams{
		Role:           h.role,
		Name:           req.Name,
		Identification: req.Identification,
		Type:           req.Type,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		ContactPerson:  req.ContactPerson,
	})
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	render.JSON(w, http.StatusCreated, c)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.svc.List(r.Context(), contact.ListFilter{
		Role:   h.role,
		Search: r.URL.Query().Get("search"),
	})
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	if contacts == nil {
		contacts = []*contact.Contact{}
	}

	render.JSON(w, http.StatusOK, contacts)
}

// load fetches a contact and hides those of the other role.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*contact.Contact, bool) {
	id, ok := render.ID(w, r)
	if !ok {
		return nil, false
	}

	c, err := h.svc.Get(r.Context(), id)
	if err == nil && c.Role != h.role {
		err = contact.ErrNotFound
	}

	if err != nil {
		render.Fail(w, r, err, statusFor)
		return nil, false
	}

	return c, true
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}

	render.JSON(w, http.StatusOK, c)
}

type updateRequest struct {
	Name           *string       `json:"name,omitempty"`
	Identification *string       `json:"identification,omitempty" validate:"omitempty,numeric"`
	Type           *contact.Type `json:"type,omitempty" validate:"omitempty,oneof=person company"`
	Email          *string       `json:"email,omitempty" validate:"omitempty,email"`
	Phone          *string       `json:"phone,omitempty"`
	Address        *string       `json:"address,omitempty"`
	ContactPerson  *string       `json:"contactPerson,omitempty"`
	Active         *bool         `json:"active,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.load(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if !render.Decode(w, r, &req) {
		return
	}

	c, err := h.svc.Update(r.Context(), existing.ID, contact.UpdateParams{
		Name:           req.Name,
		Identification: req.Identification,
		Type:           req.Type,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		ContactPerson:  req.ContactPerson,
		Active:         req.Active,
	})
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	render.JSON(w, http.StatusOK, c)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), c.ID); err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type identificationResponse struct {
	Identification string        `json:"identification"`
	Kind           identity.Kind `json:"kind"`
	BuyerTypeCode  string        `json:"buyerTypeCode"`
	Valid          bool          `json:"valid"`
}

// Identification reports whether a Cédula or RUC passes its checksum.
func Identification(w http.ResponseWriter, r *http.Request) {
	value := chi.URLParam(r, "value")

	render.JSON(w, http.StatusOK, identificationResponse{
		Identification: value,
		Kind:           identity.KindOf(value),
		BuyerTypeCode:  identity.BuyerTypeCode(value),
		Valid:          identity.Validate(value),
	})
}

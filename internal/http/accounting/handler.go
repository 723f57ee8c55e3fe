package accounting

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/contable/internal/accounting"
	"github.com/MrJamesThe3rd/contable/internal/http/render"
)

type Handler struct {
	svc *accounting.Service
}

func NewHandler(svc *accounting.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/accounts", h.createAccount)
	r.Get("/accounts", h.listAccounts)
	r.Get("/accounts/{id}", h.getAccount)
	r.Delete("/accounts/{id}", h.deleteAccount)

	r.Post("/entries", h.createEntry)
	r.Get("/entries", h.listEntries)
	r.Get("/entries/{id}", h.getEntry)

	r.Get("/summary", h.summary)
	r.Get("/balances", h.balances)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, accounting.ErrNotFound), errors.Is(err, accounting.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, accounting.ErrDuplicateCode), errors.Is(err, accounting.ErrAccountInUse):
		return http.StatusConflict
	case errors.Is(err, accounting.ErrInvalidType),
		errors.Is(err, accounting.ErrMissingCode),
		errors.Is(err, accounting.ErrMissingName),
		errors.Is(err, accounting.ErrTooFewLines),
		errors.Is(err, accounting.ErrUnknownAccount),
		errors.Is(err, accounting.ErrNegativeAmount),
		errors.Is(err, accounting.ErrUnbalanced),
		errors.Is(err, accounting.ErrMissingEntryDesc):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func period(r *http.Request) accounting.Period {
	return accounting.Period{
		Start: render.Date(r, "start_date"),
		End:   render.Date(r, "end_date"),
	}
}

type accountRequest struct {
	Code     string                 `json:"code" validate:"required"`
	Name     string                 `json:"name" validate:"required"`
	Type     accounting.AccountType `json:"type" validate:"required"`
	ParentID *uuid.UUID             `json:"parentId,omitempty"`
}

func (h *Handler) createAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if !render.Decode(w, r, &req) {
		return
	}

	a, err := h.svc.CreateAccount(r.Context(), accounting.AccountParams(req))
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	render.JSON(w, http.StatusCreated, a)
}

func (h *Handler) listAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.ListAccounts(r.Context())
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	if accounts == nil {
		accounts = []*accounting.Account{}
	}

	render.JSON(w, http.StatusOK, accounts)
}

func (h *Handler) getAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r)
	if !ok {
		return
	}

	a, err := h.svc.GetAccount(r.Context(), id)
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	render.JSON(w, http.StatusOK, a)
}

func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteAccount(r.Context(), id); err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type entryRequest struct {
	Date        time.Time         `json:"date"`
	Description string            `json:"description" validate:"required"`
	Lines       []accounting.Line `json:"lines" validate:"required,min=2"`
}

func (h *Handler) createEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if !render.Decode(w, r, &req) {
		return
	}

	e, err := h.svc.CreateEntry(r.Context(), accounting.EntryParams(req))
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	render.JSON(w, http.StatusCreated, e)
}

func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListEntries(r.Context(), period(r))
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	if entries == nil {
		entries = []*accounting.Entry{}
	}

	render.JSON(w, http.StatusOK, entries)
}

func (h *Handler) getEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r)
	if !ok {
		return
	}

	e, err := h.svc.GetEntry(r.Context(), id)
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	render.JSON(w, http.StatusOK, e)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Summary(r.Context(), period(r))
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	render.JSON(w, http.StatusOK, s)
}

func (h *Handler) balances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.svc.Balances(r.Context(), period(r))
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	if balances == nil {
		balances = []accounting.AccountBalance{}
	}

	render.JSON(w, http.StatusOK, balances)
}

package company

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/contable/internal/accesskey"
	"github.com/MrJamesThe3rd/contable/internal/company"
	"github.com/MrJamesThe3rd/contable/internal/http/render"
)

type Handler struct {
	svc *company.Service
}

func NewHandler(svc *company.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Put("/", h.save)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, company.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, company.ErrMissingName),
		errors.Is(err, company.ErrInvalidRUC),
		errors.Is(err, company.ErrInvalidCode),
		errors.Is(err, company.ErrInvalidEnvironment):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Get(r.Context())
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	render.JSON(w, http.StatusOK, c)
}

type saveRequest struct {
	Name                 string                `json:"name" validate:"required"`
	TradeName            string                `json:"tradeName"`
	RUC                  string                `json:"ruc" validate:"required,len=13,numeric"`
	Address              string                `json:"address"`
	BranchAddress        string                `json:"branchAddress"`
	Phone                string                `json:"phone"`
	Email                string                `json:"email" validate:"omitempty,email"`
	Website              string                `json:"website"`
	Establishment        string                `json:"establishment" validate:"required,max=3,numeric"`
	PointOfSale          string                `json:"pointOfSale" validate:"required,max=3,numeric"`
	AccountingPeriod     string                `json:"accountingPeriod"`
	Environment          accesskey.Environment `json:"environment" validate:"omitempty,oneof=testing production"`
	AccountingObligation bool                  `json:"accountingObligation"`
	SpecialContributor   string                `json:"specialContributor"`
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if !render.Decode(w, r, &req) {
		return
	}

	c, err := h.svc.Save(r.Context(), company.SaveParams{
		Name:                 req.Name,
		TradeName:            req.TradeName,
		RUC:                  req.RUC,
		Address:              req.Address,
		BranchAddress:        req.BranchAddress,
		Phone:                req.Phone,
		Email:                req.Email,
		Website:              req.Website,
		Establishment:        req.Establishment,
		PointOfSale:          req.PointOfSale,
		AccountingPeriod:     req.AccountingPeriod,
		Environment:          req.Environment,
		AccountingObligation: req.AccountingObligation,
		SpecialContributor:   req.SpecialContributor,
	})
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	render.JSON(w, http.StatusOK, c)
}

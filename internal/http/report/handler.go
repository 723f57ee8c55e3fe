package report

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/contable/internal/http/render"
	"github.com/MrJamesThe3rd/contable/internal/report"
)

type Handler struct {
	svc *report.Service
	now func() time.Time
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

// Routes mounts the financial statements. The dashboard is mounted separately
// since it is guarded by its own permission.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/balance-sheet", h.balanceSheet)
	r.Get("/income-statement", h.incomeStatement)
}

func (h *Handler) DashboardRoutes(r chi.Router) {
	r.Get("/", h.dashboard)
}

func rangeOf(r *http.Request) report.Range {
	return report.Range{
		Start: render.Date(r, "start_date"),
		End:   render.Date(r, "end_date"),
	}
}

func fail(w http.ResponseWriter, err error) {
	slog.Error("report failed", "error", err)
	render.Error(w, http.StatusInternalServerError, "internal error")
}

func (h *Handler) balanceSheet(w http.ResponseWriter, r *http.Request) {
	bs, err := h.svc.BalanceSheet(r.Context(), rangeOf(r))
	if err != nil {
		fail(w, err)
		return
	}

	render.JSON(w, http.StatusOK, bs)
}

func (h *Handler) incomeStatement(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.IncomeStatement(r.Context(), rangeOf(r))
	if err != nil {
		fail(w, err)
		return
	}

	render.JSON(w, http.StatusOK, st)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Dashboard(r.Context(), h.now())
	if err != nil {
		fail(w, err)
		return
	}

	render.JSON(w, http.StatusOK, d)
}

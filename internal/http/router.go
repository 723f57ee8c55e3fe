package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/MrJamesThe3rd/contable/internal/auth"
	"github.com/MrJamesThe3rd/contable/internal/http/accounting"
	authHandler "github.com/MrJamesThe3rd/contable/internal/http/auth"
	"github.com/MrJamesThe3rd/contable/internal/http/company"
	"github.com/MrJamesThe3rd/contable/internal/http/contact"
	"github.com/MrJamesThe3rd/contable/internal/http/export"
	"github.com/MrJamesThe3rd/contable/internal/http/importcsv"
	"github.com/MrJamesThe3rd/contable/internal/http/inventory"
	"github.com/MrJamesThe3rd/contable/internal/http/invoice"
	"github.com/MrJamesThe3rd/contable/internal/http/payroll"
	"github.com/MrJamesThe3rd/contable/internal/http/purchase"
	"github.com/MrJamesThe3rd/contable/internal/http/render"
	"github.com/MrJamesThe3rd/contable/internal/http/report"
	"github.com/MrJamesThe3rd/contable/internal/http/workorder"
)

type Options struct {
	AllowedOrigins    []string
	Timeout           time.Duration
	RequestsPerMinute int
	LoginPerMinute    int
	Production        bool
}

type Handlers struct {
	Auth       *authHandler.Handler
	Company    *company.Handler
	Clients    *contact.Handler
	Suppliers  *contact.Handler
	Inventory  *inventory.Handler
	Import     *importcsv.Handler
	Invoices   *invoice.Handler
	Purchases  *purchase.Handler
	WorkOrders *workorder.Handler
	Accounting *accounting.Handler
	Payroll    *payroll.Handler
	Reports    *report.Handler
	Export     *export.Handler
}

func New(opts Options, authSvc *auth.Service, h Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Use(secureHeaders(opts.Production))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if opts.RequestsPerMinute > 0 {
		router.Use(limit(opts.RequestsPerMinute))
	}

	jsonOnly := middleware.AllowContentType("application/json")

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/session", func(r chi.Router) {
			if opts.LoginPerMinute > 0 {
				r.Use(limit(opts.LoginPerMinute))
			}

			r.Use(jsonOnly)
			h.Auth.SessionRoutes(r)
		})

		r.Get("/identification/{value}", contact.Identification)

		r.Group(func(r chi.Router) {
			r.Use(authHandler.Authenticate(authSvc))

			r.Route("/users", func(r chi.Router) {
				r.Use(jsonOnly)
				h.Auth.UserRoutes(r)
			})

			mount(r, "/company", auth.ModuleCompany, h.Company.Routes, jsonOnly)
			mount(r, "/clients", auth.ModuleClients, h.Clients.Routes, jsonOnly)
			mount(r, "/suppliers", auth.ModuleSuppliers, h.Suppliers.Routes, jsonOnly)
			mount(r, "/products", auth.ModuleInventory, h.Inventory.Routes, jsonOnly)
			mount(r, "/import", auth.ModuleInventory, h.Import.Routes)
			mount(r, "/invoices", auth.ModuleInvoices, h.Invoices.Routes, jsonOnly)
			mount(r, "/purchases", auth.ModulePurchases, h.Purchases.Routes, jsonOnly)
			mount(r, "/work-orders", auth.ModuleWorkOrders, h.WorkOrders.Routes, jsonOnly)
			mount(r, "/accounting", auth.ModuleAccounting, h.Accounting.Routes, jsonOnly)
			mount(r, "/payroll", auth.ModulePayroll, h.Payroll.Routes, jsonOnly)
			mount(r, "/reports", auth.ModuleReports, h.Reports.Routes)
			mount(r, "/dashboard", auth.ModuleDashboard, h.Reports.DashboardRoutes)
			mount(r, "/export", auth.ModuleInvoices, h.Export.Routes, jsonOnly)
		})
	})

	return router
}

// mount guards a route tree with the permission for module.
func mount(r chi.Router, pattern string, module auth.Module, routes func(chi.Router), mws ...func(http.Handler) http.Handler) {
	r.Route(pattern, func(r chi.Router) {
		r.Use(authHandler.Require(module))
		r.Use(mws...)
		routes(r)
	})
}

func limit(perMinute int) func(http.Handler) http.Handler {
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			render.Error(w, http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
		}),
	)
}

func secureHeaders(production bool) func(http.Handler) http.Handler {
	sm := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLRedirect:        production,
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := sm.Process(w, r); err != nil {
				slog.Warn("secure headers blocked request", "error", err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

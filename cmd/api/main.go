package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/contable/internal/accounting"
	accountingStore "github.com/MrJamesThe3rd/contable/internal/accounting/store"
	"github.com/MrJamesThe3rd/contable/internal/auth"
	authStore "github.com/MrJamesThe3rd/contable/internal/auth/store"
	"github.com/MrJamesThe3rd/contable/internal/company"
	companyStore "github.com/MrJamesThe3rd/contable/internal/company/store"
	"github.com/MrJamesThe3rd/contable/internal/config"
	"github.com/MrJamesThe3rd/contable/internal/contact"
	contactStore "github.com/MrJamesThe3rd/contable/internal/contact/store"
	"github.com/MrJamesThe3rd/contable/internal/database"
	"github.com/MrJamesThe3rd/contable/internal/export"
	contableHttp "github.com/MrJamesThe3rd/contable/internal/http"
	accountingHandler "github.com/MrJamesThe3rd/contable/internal/http/accounting"
	authHandler "github.com/MrJamesThe3rd/contable/internal/http/auth"
	companyHandler "github.com/MrJamesThe3rd/contable/internal/http/company"
	contactHandler "github.com/MrJamesThe3rd/contable/internal/http/contact"
	exportHandler "github.com/MrJamesThe3rd/contable/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/contable/internal/http/importcsv"
	inventoryHandler "github.com/MrJamesThe3rd/contable/internal/http/inventory"
	invoiceHandler "github.com/MrJamesThe3rd/contable/internal/http/invoice"
	payrollHandler "github.com/MrJamesThe3rd/contable/internal/http/payroll"
	purchaseHandler "github.com/MrJamesThe3rd/contable/internal/http/purchase"
	reportHandler "github.com/MrJamesThe3rd/contable/internal/http/report"
	workorderHandler "github.com/MrJamesThe3rd/contable/internal/http/workorder"
	"github.com/MrJamesThe3rd/contable/internal/importer"
	"github.com/MrJamesThe3rd/contable/internal/inventory"
	inventoryStore "github.com/MrJamesThe3rd/contable/internal/inventory/store"
	"github.com/MrJamesThe3rd/contable/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/contable/internal/invoice/store"
	"github.com/MrJamesThe3rd/contable/internal/payroll"
	payrollStore "github.com/MrJamesThe3rd/contable/internal/payroll/store"
	"github.com/MrJamesThe3rd/contable/internal/purchase"
	purchaseStore "github.com/MrJamesThe3rd/contable/internal/purchase/store"
	"github.com/MrJamesThe3rd/contable/internal/report"
	"github.com/MrJamesThe3rd/contable/internal/sri"
	"github.com/MrJamesThe3rd/contable/internal/workorder"
	workorderStore "github.com/MrJamesThe3rd/contable/internal/workorder/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	logger := slog.Default()

	authorizer := sri.NewSimulator(
		sri.WithDelay(cfg.SRI.Delay),
		sri.WithSuccessRate(cfg.SRI.SuccessRate),
		sri.WithLogger(logger),
	)

	var (
		authService       = auth.NewService(authStore.New(db), auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL))
		companyService    = company.NewService(companyStore.New(db))
		contactService    = contact.NewService(contactStore.New(db))
		inventoryService  = inventory.NewService(inventoryStore.New(db))
		importService     = importer.NewService(inventoryService)
		invoiceService    = invoice.NewService(invoiceStore.New(db), companyService, contactService, authorizer, invoice.WithLogger(logger))
		purchaseService   = purchase.NewService(purchaseStore.New(db), contactService, inventoryService, logger)
		workorderService  = workorder.NewService(workorderStore.New(db), contactService)
		accountingService = accounting.NewService(accountingStore.New(db))
		payrollService    = payroll.NewService(payrollStore.New(db))
		reportService     = report.NewService(accountingService, invoiceService, purchaseService, inventoryService, contactService)
		exportService     = export.NewService(invoiceService)
	)

	if cfg.Auth.AdminPassword != "" {
		if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			slog.Error("failed to ensure administrator", "error", err)
			os.Exit(1)
		}
	}

	router := contableHttp.New(contableHttp.Options{
		AllowedOrigins:    cfg.Server.AllowedOrigins,
		Timeout:           cfg.Server.Timeout,
		RequestsPerMinute: cfg.Server.RequestsPerMinute,
		LoginPerMinute:    cfg.Server.LoginPerMinute,
		Production:        cfg.Server.Production,
	}, authService, contableHttp.Handlers{
		Auth:       authHandler.NewHandler(authService),
		Company:    companyHandler.NewHandler(companyService),
		Clients:    contactHandler.NewHandler(contactService, contact.RoleClient),
		Suppliers:  contactHandler.NewHandler(contactService, contact.RoleSupplier),
		Inventory:  inventoryHandler.NewHandler(inventoryService),
		Import:     importHandler.NewHandler(importService),
		Invoices:   invoiceHandler.NewHandler(invoiceService),
		Purchases:  purchaseHandler.NewHandler(purchaseService),
		WorkOrders: workorderHandler.NewHandler(workorderService),
		Accounting: accountingHandler.NewHandler(accountingService),
		Payroll:    payrollHandler.NewHandler(payrollService, cfg.Payroll.MonthsWorked),
		Reports:    reportHandler.NewHandler(reportService),
		Export:     exportHandler.NewHandler(exportService),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "name", cfg.App.Name, "port", srv.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/contable/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/contable/internal/company"
	companyStore "github.com/MrJamesThe3rd/contable/internal/company/store"
	"github.com/MrJamesThe3rd/contable/internal/config"
	"github.com/MrJamesThe3rd/contable/internal/contact"
	contactStore "github.com/MrJamesThe3rd/contable/internal/contact/store"
	"github.com/MrJamesThe3rd/contable/internal/database"
	"github.com/MrJamesThe3rd/contable/internal/export"
	"github.com/MrJamesThe3rd/contable/internal/importer"
	"github.com/MrJamesThe3rd/contable/internal/inventory"
	inventoryStore "github.com/MrJamesThe3rd/contable/internal/inventory/store"
	"github.com/MrJamesThe3rd/contable/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/contable/internal/invoice/store"
	"github.com/MrJamesThe3rd/contable/internal/sri"
)

type model struct {
	invoiceService   *invoice.Service
	inventoryService *inventory.Service
	importService    *importer.Service
	exportService    *export.Service

	outputDir     string
	payrollMonths int
	appName       string

	currentView View

	listView     view.ListModel
	exportView   view.ExportModel
	productsView view.ProductsModel
	importView   view.ImportModel
	identityView view.IdentityModel
	payrollView  view.PayrollModel
}

type View int

const (
	ViewMenu     View = 0
	ViewInvoices View = 1
	ViewExport   View = 2
	ViewProducts View = 3
	ViewImport   View = 4
	ViewIdentity View = 5
	ViewPayroll  View = 6
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(context.Background(), cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	authorizer := sri.NewSimulator(
		sri.WithDelay(cfg.SRI.Delay),
		sri.WithSuccessRate(cfg.SRI.SuccessRate),
	)

	var (
		companySvc   = company.NewService(companyStore.New(db))
		contactSvc   = contact.NewService(contactStore.New(db))
		inventorySvc = inventory.NewService(inventoryStore.New(db))
		invoiceSvc   = invoice.NewService(invoiceStore.New(db), companySvc, contactSvc, authorizer)
		importSvc    = importer.NewService(inventorySvc)
		exportSvc    = export.NewService(invoiceSvc)
	)

	outputDir := filepath.Join(cfg.App.DataDir, "exports")

	return model{
		invoiceService:   invoiceSvc,
		inventoryService: inventorySvc,
		importService:    importSvc,
		exportService:    exportSvc,
		outputDir:        outputDir,
		payrollMonths:    cfg.Payroll.MonthsWorked,
		appName:          cfg.App.Name,
		currentView:      ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewInvoices
				m.listView = view.NewListModel(m.invoiceService, m.outputDir)

				return m, m.listView.Init()
			case "2":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportService, m.outputDir)

				return m, m.exportView.Init()
			case "3":
				m.currentView = ViewProducts
				m.productsView = view.NewProductsModel(m.inventoryService)

				return m, m.productsView.Init()
			case "4":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.importService)

				return m, m.importView.Init()
			case "5":
				m.currentView = ViewIdentity
				m.identityView = view.NewIdentityModel()

				return m, m.identityView.Init()
			case "6":
				m.currentView = ViewPayroll
				m.payrollView = view.NewPayrollModel(m.payrollMonths)

				return m, m.payrollView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewInvoices:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	case ViewProducts:
		var newModel tea.Model
		newModel, cmd = m.productsView.Update(msg)
		m.productsView = newModel.(view.ProductsModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewIdentity:
		var newModel tea.Model
		newModel, cmd = m.identityView.Update(msg)
		m.identityView = newModel.(view.IdentityModel)
	case ViewPayroll:
		var newModel tea.Model
		newModel, cmd = m.payrollView.Update(msg)
		m.payrollView = newModel.(view.PayrollModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.appName + "\n\n" +
				"1. Invoices\n" +
				"2. Export Authorized Invoices\n" +
				"3. Inventory\n" +
				"4. Import Product Catalog\n" +
				"5. Check Identification\n" +
				"6. Payroll Calculator\n\n" +
				"q. Quit",
		)
	case ViewInvoices:
		return m.listView.View()
	case ViewExport:
		return m.exportView.View()
	case ViewProducts:
		return m.productsView.View()
	case ViewImport:
		return m.importView.View()
	case ViewIdentity:
		return m.identityView.View()
	case ViewPayroll:
		return m.payrollView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}

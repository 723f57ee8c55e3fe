package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/contable/internal/export"
	"github.com/MrJamesThe3rd/contable/internal/invoice"
)

// authorizeTimeout leaves room for the simulated tax authority delay.
const authorizeTimeout = 30 * time.Second

// listPeriods are cycled by the date filter key.
var listPeriods = []Period{PeriodAll, PeriodThisMonth, PeriodLastMonth, PeriodThisYear}

type ListModel struct {
	CommonModel
	invoiceService *invoice.Service
	outputDir      string

	table    table.Model
	invoices []*invoice.Invoice

	statusFilterIdx int
	dateFilterIdx   int

	filter  invoice.ListFilter
	loading bool
	busy    bool
	err     error
	status  string
}

func NewListModel(svc *invoice.Service, outputDir string) ListModel {
	columns := []table.Column{
		{Title: "Number", Width: 19},
		{Title: "Date", Width: 12},
		{Title: "Client", Width: 30},
		{Title: "Total", Width: 12},
		{Title: "Status", Width: 12},
		{Title: "Message", Width: 30},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return ListModel{
		invoiceService: svc,
		outputDir:      outputDir,
		table:          t,
		loading:        true,
	}
}

func (m ListModel) Title() string { return "Invoices" }
func (m ListModel) ShortHelp() string {
	return "Esc: back | p: submit | a: authorize | x: write XML/PDF | s: status filter | d: date filter | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.invoices = msg.invoices
		m.refreshTable()

		return m, nil

	case invoiceActionMsg:
		m.busy = false
		m.status = msg.text

		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Error: %v", msg.err))
		}

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if ok && !m.busy {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % 4
			m.applyFilter()

			return m, m.loadCmd()
		case "d":
			m.dateFilterIdx = (m.dateFilterIdx + 1) % len(listPeriods)
			m.applyFilter()

			return m, m.loadCmd()
		case "p":
			return m.act(m.submitCmd)
		case "a":
			m.status = "Sending to SRI..."
			return m.act(m.authorizeCmd)
		case "x":
			return m.act(m.writeCmd)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) act(cmd func(*invoice.Invoice) tea.Cmd) (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.invoices) {
		return m, nil
	}

	m.busy = true

	return m, cmd(m.invoices[idx])
}

func (m ListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading invoices...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	statusLabels := []string{"All", "Draft", "Pending", "Authorized"}
	header := fmt.Sprintf(
		"Filter: [s] Status: %s | [d] Date: %s",
		activeStyle(statusLabels[m.statusFilterIdx]),
		activeStyle(listPeriods[m.dateFilterIdx].String()),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		faintStyle.Render(m.ShortHelp()),
	)

	if m.status != "" {
		content = m.status + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ListModel) applyFilter() {
	switch m.statusFilterIdx {
	case 1:
		m.filter.Status = new(invoice.StatusDraft)
	case 2:
		m.filter.Status = new(invoice.StatusPending)
	case 3:
		m.filter.Status = new(invoice.StatusAuthorized)
	default:
		m.filter.Status = nil
	}

	m.filter.StartDate, m.filter.EndDate = nil, nil
	if start, end, ok := listPeriods[m.dateFilterIdx].Range(time.Now()); ok {
		m.filter.StartDate, m.filter.EndDate = &start, &end
	}
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.invoices))
	for _, inv := range m.invoices {
		rows = append(rows, table.Row{
			inv.Number,
			FormatDate(inv.IssueDate),
			inv.Client.Name,
			FormatAmount(inv.Total),
			string(inv.Status),
			inv.LastMessage,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadListMsg struct {
	invoices []*invoice.Invoice
	err      error
}

type invoiceActionMsg struct {
	text string
	err  error
}

func (m ListModel) loadCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		invoices, err := m.invoiceService.List(ctx, filter)

		return loadListMsg{invoices: invoices, err: err}
	}
}

func (m ListModel) submitCmd(inv *invoice.Invoice) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.invoiceService.Submit(ctx, inv.ID); err != nil {
			return invoiceActionMsg{err: err}
		}

		return invoiceActionMsg{text: fmt.Sprintf("Invoice %s is pending authorization.", inv.Number)}
	}
}

func (m ListModel) authorizeCmd(inv *invoice.Invoice) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), authorizeTimeout)
		defer cancel()

		res, err := m.invoiceService.Authorize(ctx, inv.ID)
		if err != nil {
			return invoiceActionMsg{err: err}
		}

		if !res.Result.Authorized {
			return invoiceActionMsg{text: errorStyle.Render(
				fmt.Sprintf("Invoice %s rejected: %s", inv.Number, res.Result.Message),
			)}
		}

		return invoiceActionMsg{text: successStyle.Render(
			fmt.Sprintf("Invoice %s authorized (%s).", inv.Number, res.Invoice.AuthorizationNumber),
		)}
	}
}

// writeCmd stores the XML and PDF of one invoice in the output directory.
func (m ListModel) writeCmd(inv *invoice.Invoice) tea.Cmd {
	dir := m.outputDir

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		xml, err := m.invoiceService.XML(ctx, inv.ID)
		if err != nil {
			return invoiceActionMsg{err: err}
		}

		pdf, err := m.invoiceService.PDF(ctx, inv.ID)
		if err != nil {
			return invoiceActionMsg{err: err}
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return invoiceActionMsg{err: err}
		}

		base := filepath.Join(dir, export.FileName(inv))

		if err := os.WriteFile(base+".xml", xml, 0o644); err != nil {
			return invoiceActionMsg{err: err}
		}

		if err := os.WriteFile(base+".pdf", pdf, 0o644); err != nil {
			return invoiceActionMsg{err: err}
		}

		return invoiceActionMsg{text: "Wrote " + base + ".{xml,pdf}"}
	}
}

package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/contable/internal/export"
)

const exportTimeout = 2 * time.Minute

// ExportModel asks for a declaration period and an output directory, then writes
// the XML and PDF of every authorized invoice issued in that period.
type ExportModel struct {
	CommonModel
	exportService *export.Service

	sel     *periodSelection
	dir     *string
	form    *huh.Form
	spinner spinner.Model

	running bool
	done    bool
	items   []export.Item
	summary string
	err     error
}

func NewExportModel(svc *export.Service, outputDir string) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := ExportModel{
		exportService: svc,
		sel:           &periodSelection{period: PeriodLastMonth},
		dir:           &outputDir,
		spinner:       s,
	}
	m.form = m.buildForm()

	return m
}

func (m ExportModel) buildForm() *huh.Form {
	groups := periodGroups(m.sel,
		PeriodLastMonth, PeriodThisMonth, PeriodFirstSemester, PeriodSecondSemester,
		PeriodThisYear, PeriodLastYear, PeriodAll,
	)

	groups = append(groups, huh.NewGroup(
		huh.NewInput().
			Title("Output directory").
			Description("XML and PDF files are written as <date>_<number>_<client>").
			Value(m.dir).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("directory is required")
				}

				return nil
			}),
	))

	return huh.NewForm(groups...).WithWidth(60).WithShowHelp(false)
}

func (m ExportModel) Title() string { return "Export Authorized Invoices" }

func (m ExportModel) ShortHelp() string {
	switch {
	case m.done:
		return "Esc: back to menu | n: new export"
	case m.running:
		return "Exporting..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case exportResultMsg:
		m.running = false
		m.done = true
		m.err = msg.err
		m.items = msg.items
		m.summary = msg.summary

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

		if m.done && msg.String() == "n" {
			m.done = false
			m.err = nil
			m.form = m.buildForm()

			return m, m.form.Init()
		}
	}

	if m.running {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	if m.done {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	start, end, err := m.sel.Bounds(time.Now())
	if err != nil {
		m.done = true
		m.err = err

		return m, nil
	}

	m.running = true

	return m, tea.Batch(m.spinner.Tick, m.exportCmd(start, end, *m.dir))
}

func (m ExportModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch {
	case m.running:
		return style.Render(fmt.Sprintf("%s Rendering XML and PDF files for %s...", m.spinner.View(), m.sel.period))
	case m.done:
		return style.Render(m.viewResult())
	}

	return style.Render(m.form.View())
}

func (m ExportModel) viewResult() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n" + faintStyle.Render(m.ShortHelp())
	}

	if len(m.items) == 0 {
		return fmt.Sprintf("No authorized invoices for %s.", m.sel.period) + "\n\n" + faintStyle.Render(m.ShortHelp())
	}

	header := successStyle.Bold(true).Render(
		fmt.Sprintf("Exported %d invoices (%s) to %s", len(m.items), FormatAmount(export.Total(m.items)), *m.dir),
	)

	return lipgloss.JoinVertical(lipgloss.Left, header, "", m.summary, faintStyle.Render(m.ShortHelp()))
}

type exportResultMsg struct {
	items   []export.Item
	summary string
	err     error
}

func (m ExportModel) exportCmd(start, end *time.Time, dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		items, err := m.exportService.Export(ctx, start, end, dir)
		if err != nil {
			return exportResultMsg{err: err}
		}

		return exportResultMsg{items: items, summary: m.exportService.Summary(items)}
	}
}

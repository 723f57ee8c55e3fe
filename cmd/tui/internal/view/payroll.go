package view

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/contable/internal/payroll"
)

// PayrollModel previews the monthly payroll of a salary without storing it.
type PayrollModel struct {
	CommonModel
	form      *huh.Form
	salary    string
	months    string
	breakdown *payroll.Breakdown
}

func NewPayrollModel(defaultMonths int) PayrollModel {
	m := PayrollModel{months: strconv.Itoa(defaultMonths)}
	m.form = m.buildForm()

	return m
}

func (m *PayrollModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Base salary").
				Value(&m.salary).
				Validate(func(s string) error {
					d, err := decimal.NewFromString(strings.TrimSpace(s))
					if err != nil || !d.IsPositive() {
						return fmt.Errorf("enter a positive amount")
					}

					return nil
				}),
			huh.NewInput().
				Title("Months worked").
				Value(&m.months).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n < 1 || n > 12 {
						return fmt.Errorf("enter 1 to 12")
					}

					return nil
				}),
		),
	).WithWidth(40).WithShowHelp(false)
}

func (m PayrollModel) Title() string     { return "Payroll Calculator" }
func (m PayrollModel) ShortHelp() string { return "Enter: calculate | Esc: back" }

func (m PayrollModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m PayrollModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	salary := decimal.RequireFromString(strings.TrimSpace(m.salary))
	months, _ := strconv.Atoi(strings.TrimSpace(m.months))

	b := payroll.Compute(salary, months)
	m.breakdown = &b
	m.form = m.buildForm()

	return m, m.form.Init()
}

func (m PayrollModel) View() string {
	content := m.form.View()

	if b := m.breakdown; b != nil {
		rows := [][2]string{
			{"Base salary", FormatAmount(b.BaseSalary)},
			{"IESS employee (9.45%)", FormatAmount(b.IESSEmployee)},
			{"Income tax", FormatAmount(b.IncomeTax)},
			{"Net salary", FormatAmount(b.NetSalary)},
			{"IESS employer (11.15%)", FormatAmount(b.IESSEmployer)},
			{"13th salary", FormatAmount(b.Thirteenth)},
			{"14th salary", FormatAmount(b.Fourteenth)},
			{"Total cost", FormatAmount(b.TotalCost)},
		}

		var sb strings.Builder
		for _, r := range rows {
			fmt.Fprintf(&sb, "%-24s %12s\n", r[0], r[1])
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Render(sb.String())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, "  ", panel)
	}

	return lipgloss.NewStyle().Padding(1).Render(content + "\n" + faintStyle.Render(m.ShortHelp()))
}

package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/contable/internal/identity"
)

// IdentityModel checks Cédula and RUC numbers.
type IdentityModel struct {
	CommonModel
	form   *huh.Form
	value  string
	result string
}

func NewIdentityModel() IdentityModel {
	m := IdentityModel{}
	m.form = m.buildForm()

	return m
}

func (m *IdentityModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Identification").
				Description("Cédula (10 digits) or RUC (13 digits)").
				Value(&m.value),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m IdentityModel) Title() string     { return "Check Identification" }
func (m IdentityModel) ShortHelp() string { return "Enter: check | Esc: back" }

func (m IdentityModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m IdentityModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

	m.result = Describe(m.value)
	m.value = ""
	m.form = m.buildForm()

	return m, m.form.Init()
}

func (m IdentityModel) View() string {
	content := m.form.View()
	if m.result != "" {
		content = m.result + "\n\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content + "\n" + faintStyle.Render(m.ShortHelp()))
}

// Describe renders the verdict for an identification.
func Describe(value string) string {
	value = strings.TrimSpace(value)
	kind := identity.KindOf(value)

	var valid bool

	switch kind {
	case identity.KindRUC:
		valid = identity.ValidateRUC(value)
	case identity.KindCedula:
		valid = identity.ValidateCedula(value)
	default:
		return faintStyle.Render(fmt.Sprintf("%q is not a Cédula or RUC (buyer code %s)", value, identity.BuyerTypeCode(value)))
	}

	if !valid {
		return errorStyle.Render(fmt.Sprintf("%s: invalid %s", value, kind))
	}

	return successStyle.Render(fmt.Sprintf("%s: valid %s", value, kind))
}

package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/contable/internal/inventory"
)

type productsState int

const (
	productsStateList productsState = iota
	productsStateMovement
)

// productItem wraps a product to implement list.Item.
type productItem struct {
	p *inventory.Product
}

func (i productItem) Title() string {
	stock := i.p.Stock.String()
	if i.p.LowStock() {
		stock = errorStyle.Render(stock + " low")
	}

	return fmt.Sprintf("%s  %s  stock %s", i.p.Code, i.p.Name, stock)
}

func (i productItem) Description() string {
	return fmt.Sprintf("sale %s  cost %s  IVA %s%%",
		FormatAmount(i.p.SalePrice), FormatAmount(i.p.CostPrice), i.p.IVARate.String())
}

func (i productItem) FilterValue() string {
	return i.p.Code + " " + i.p.Name
}

type ProductsModel struct {
	CommonModel
	inventoryService *inventory.Service

	state    productsState
	list     list.Model
	form     *huh.Form
	products []*inventory.Product
	selected *inventory.Product
	lowOnly  bool
	status   string

	// Form field bindings
	formType     inventory.MovementType
	formQuantity string
	formReason   string
}

func NewProductsModel(svc *inventory.Service) ProductsModel {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Products"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)

	return ProductsModel{
		inventoryService: svc,
		list:             l,
	}
}

func (m ProductsModel) Title() string { return "Inventory" }

func (m ProductsModel) ShortHelp() string {
	if m.state == productsStateMovement {
		return "Esc: cancel | Enter/Tab: navigate form"
	}

	return "Esc: back | Enter: stock movement | l: low stock only | /: filter"
}

func (m ProductsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ProductsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadProductsMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.products = msg.products
		items := make([]list.Item, len(m.products))
		for i, p := range m.products {
			items[i] = productItem{p: p}
		}

		return m, m.list.SetItems(items)

	case movementResultMsg:
		m.state = productsStateList
		m.form = nil

		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Error: %v", msg.err))
			return m, nil
		}

		m.status = successStyle.Render("Movement recorded.")

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	if m.state == productsStateMovement {
		return m.updateMovement(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "l":
			m.lowOnly = !m.lowOnly
			return m, m.loadCmd()
		case "enter":
			item, ok := m.list.SelectedItem().(productItem)
			if !ok {
				return m, nil
			}

			m.selected = item.p

			return m.enterMovement()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m ProductsModel) enterMovement() (tea.Model, tea.Cmd) {
	m.formType = inventory.MovementEntry
	m.formQuantity = ""
	m.formReason = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[inventory.MovementType]().
				Title("Movement").
				Options(
					huh.NewOption("Entry", inventory.MovementEntry),
					huh.NewOption("Exit", inventory.MovementExit),
					huh.NewOption("Adjustment (set stock)", inventory.MovementAdjustment),
				).
				Value(&m.formType),
			huh.NewInput().
				Title("Quantity").
				Value(&m.formQuantity).
				Validate(func(s string) error {
					d, err := decimal.NewFromString(strings.TrimSpace(s))
					if err != nil || d.IsNegative() {
						return fmt.Errorf("enter a non-negative number")
					}

					return nil
				}),
			huh.NewInput().
				Title("Reason").
				Value(&m.formReason),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = productsStateMovement

	return m, m.form.Init()
}

func (m ProductsModel) updateMovement(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = productsStateList
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.movementCmd()
}

func (m ProductsModel) View() string {
	content := m.list.View()

	if m.state == productsStateMovement && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("%s  %s\nStock: %s\n\n%s",
				m.selected.Code, m.selected.Name, m.selected.Stock.String(), m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = m.status + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// Messages

type loadProductsMsg struct {
	products []*inventory.Product
	err      error
}

type movementResultMsg struct {
	err error
}

func (m ProductsModel) loadCmd() tea.Cmd {
	filter := inventory.ListFilter{LowStockOnly: m.lowOnly}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		products, err := m.inventoryService.ListProducts(ctx, filter)

		return loadProductsMsg{products: products, err: err}
	}
}

func (m ProductsModel) movementCmd() tea.Cmd {
	params := inventory.MovementParams{
		ProductID: m.selected.ID,
		Type:      m.formType,
		Quantity:  decimal.RequireFromString(strings.TrimSpace(m.formQuantity)),
		Reason:    m.formReason,
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.inventoryService.RecordMovement(ctx, params)

		return movementResultMsg{err: err}
	}
}

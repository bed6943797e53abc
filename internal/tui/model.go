package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fjod/nayra_storefront/internal/domain"
	"github.com/fjod/nayra_storefront/internal/nav"
	"github.com/fjod/nayra_storefront/internal/service"
	"github.com/fjod/nayra_storefront/internal/session"
	"github.com/pkg/errors"
)

const defaultRequestTimeout = 15 * time.Second

type Catalog interface {
	Collection(ctx context.Context, category string) ([]domain.Product, error)
	MostLoved(ctx context.Context) ([]domain.Product, error)
	NewArrivals(ctx context.Context) ([]domain.Product, error)
}

type Cart interface {
	Load(ctx context.Context) ([]domain.CartLine, error)
	Add(ctx context.Context, productID string, quantity int) ([]domain.CartLine, error)
	Update(ctx context.Context, productID string, quantity int) ([]domain.CartLine, error)
	Remove(ctx context.Context, productID string) ([]domain.CartLine, error)
	Clear(ctx context.Context) ([]domain.CartLine, error)
}

type ThemeToggler interface {
	Toggle() (domain.ThemeMode, error)
	Mode() domain.ThemeMode
}

type Deps struct {
	Catalog   Catalog
	Cart      Cart
	Store     *session.Store
	Router    *nav.Router
	Navigator nav.Navigator
	Theme     ThemeToggler
	Styles    *ThemedStyles
	Timeout   time.Duration
}

type screen int

const (
	screenBrowse screen = iota
	screenCart
	screenAccount
)

type tab struct {
	title string
	fetch func(context.Context) ([]domain.Product, error)
}

func tabsFor(c Catalog) []tab {
	tabs := []tab{
		{title: "Most Loved", fetch: c.MostLoved},
		{title: "New Arrivals", fetch: c.NewArrivals},
	}
	for _, cat := range domain.Categories {
		category := string(cat)
		tabs = append(tabs, tab{
			title: category,
			fetch: func(ctx context.Context) ([]domain.Product, error) {
				return c.Collection(ctx, category)
			},
		})
	}
	return tabs
}

// productsMsg and cartMsg carry the generation they were requested under.
// Anything older than the model's current generation is dropped.
type productsMsg struct {
	gen      uint64
	products []domain.Product
	err      error
}

type cartMsg struct {
	gen        uint64
	sessionGen uint64
	lines      []domain.CartLine
	err        error
	status     string
}

type storeChangedMsg struct{}

type Model struct {
	deps    Deps
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	changes <-chan struct{}

	screen    screen
	tabs      []tab
	activeTab int
	products  []domain.Product
	cursor    int
	cartIdx   int

	browseGen uint64
	cartGen   uint64
	loading   int

	notice string
	err    string
	width  int
}

func New(deps Deps) Model {
	if deps.Router == nil {
		deps.Router = nav.NewRouter()
	}
	if deps.Styles == nil {
		deps.Styles = NewThemedStyles()
	}
	if deps.Timeout <= 0 {
		deps.Timeout = defaultRequestTimeout
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		deps:    deps,
		keys:    defaultKeys(),
		help:    help.New(),
		spinner: sp,
		changes: deps.Store.Subscribe(),
		tabs:    tabsFor(deps.Catalog),
		loading: 1,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForStore(), m.fetchTab(m.browseGen, m.activeTab))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if m.loading == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case storeChangedMsg:
		if m.screen == screenCart && m.deps.Store.Role() != domain.RoleShopper {
			if m.deps.Store.IsAuthenticated() {
				m.screen = screenBrowse
			} else {
				m.promptLogin()
			}
		}
		m.clampCartCursor()
		return m, m.waitForStore()

	case productsMsg:
		m.done()
		if msg.gen != m.browseGen {
			return m, nil
		}
		if msg.err != nil {
			m.err = service.Message(msg.err)
			m.products = nil
			return m, nil
		}
		m.err = ""
		m.products = msg.products
		m.cursor = 0
		return m, nil

	case cartMsg:
		m.done()
		if msg.gen != m.cartGen {
			return m, nil
		}
		// A rejected session has already cleared the store and moved to login.
		if errors.Is(msg.err, service.ErrLoginRequired) {
			m.promptLogin()
			return m, nil
		}
		if msg.sessionGen != m.deps.Store.Generation() {
			return m, nil
		}
		if msg.err != nil {
			m.err = service.Message(msg.err)
			return m, nil
		}
		m.err = ""
		if msg.status != "" {
			m.notice = msg.status
		}
		m.clampCartCursor()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Theme):
		m.toggleTheme()
		return m, nil
	case key.Matches(msg, m.keys.Cart):
		return m.cartClick()
	case key.Matches(msg, m.keys.Identity):
		m.identityClick()
		return m, nil
	case key.Matches(msg, m.keys.Back):
		m.screen = screenBrowse
		m.notice = ""
		return m, nil
	}

	switch m.screen {
	case screenBrowse:
		return m.handleBrowseKey(msg)
	case screenCart:
		return m.handleCartKey(msg)
	}
	return m, nil
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.products)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.NextTab):
		return m.switchTab((m.activeTab + 1) % len(m.tabs))
	case key.Matches(msg, m.keys.PrevTab):
		return m.switchTab((m.activeTab + len(m.tabs) - 1) % len(m.tabs))
	case key.Matches(msg, m.keys.Add):
		if len(m.products) == 0 {
			return m, nil
		}
		p := m.products[m.cursor]
		if !p.InStock() {
			m.notice = p.Name + " is out of stock"
			return m, nil
		}
		return m.cartCmd(p.Name+" added to cart", func(ctx context.Context, c Cart) ([]domain.CartLine, error) {
			return c.Add(ctx, p.ID, 1)
		})
	}
	return m, nil
}

func (m Model) handleCartKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	lines := m.deps.Store.CartLines()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cartIdx > 0 {
			m.cartIdx--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cartIdx < len(lines)-1 {
			m.cartIdx++
		}
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		if len(lines) == 0 {
			return m, nil
		}
		return m.cartCmd("Cart cleared", func(ctx context.Context, c Cart) ([]domain.CartLine, error) {
			return c.Clear(ctx)
		})
	}

	if len(lines) == 0 || m.cartIdx >= len(lines) {
		return m, nil
	}
	line := lines[m.cartIdx]

	switch {
	case key.Matches(msg, m.keys.Inc):
		if line.Product.Available > 0 && line.Quantity >= line.Product.Available {
			m.notice = fmt.Sprintf("Only %d in stock", line.Product.Available)
			return m, nil
		}
		return m.cartCmd("", func(ctx context.Context, c Cart) ([]domain.CartLine, error) {
			return c.Update(ctx, line.ProductID, line.Quantity+1)
		})
	case key.Matches(msg, m.keys.Dec):
		if line.Quantity <= 1 {
			return m, nil
		}
		return m.cartCmd("", func(ctx context.Context, c Cart) ([]domain.CartLine, error) {
			return c.Update(ctx, line.ProductID, line.Quantity-1)
		})
	case key.Matches(msg, m.keys.Remove):
		return m.cartCmd(line.Product.Name+" removed", func(ctx context.Context, c Cart) ([]domain.CartLine, error) {
			return c.Remove(ctx, line.ProductID)
		})
	}
	return m, nil
}

func (m *Model) toggleTheme() {
	if m.deps.Theme == nil {
		return
	}
	if _, err := m.deps.Theme.Toggle(); err != nil {
		m.err = "Theme changed but could not be saved"
	}
}

func (m Model) cartClick() (tea.Model, tea.Cmd) {
	out := m.deps.Router.CartClick(m.deps.Store.Principal())
	if !out.Navigates() {
		m.notice = out.Notice
		return m, nil
	}
	m.navigate(*out.Destination)
	if m.screen != screenCart {
		return m, nil
	}
	return m.cartCmd("", func(ctx context.Context, c Cart) ([]domain.CartLine, error) {
		return c.Load(ctx)
	})
}

func (m *Model) identityClick() {
	m.navigate(m.deps.Router.IdentityClick(m.deps.Store.Principal()))
}

func (m *Model) navigate(d nav.Destination) {
	if m.deps.Navigator != nil {
		m.deps.Navigator.Navigate(d)
	}
	m.notice = ""
	switch {
	case d == nav.Login:
		m.promptLogin()
	case d.Panel == nav.PanelCart:
		m.screen = screenCart
		m.cartIdx = 0
	default:
		m.screen = screenAccount
	}
}

func (m *Model) promptLogin() {
	m.screen = screenBrowse
	m.err = ""
	m.notice = "Please log in to continue (storefront login)"
}

func (m Model) switchTab(i int) (tea.Model, tea.Cmd) {
	m.activeTab = i
	m.browseGen++
	m.products = nil
	m.cursor = 0
	m.err = ""
	m.loading++
	return m, tea.Batch(m.spinner.Tick, m.fetchTab(m.browseGen, i))
}

func (m Model) fetchTab(gen uint64, i int) tea.Cmd {
	fetch := m.tabs[i].fetch
	timeout := m.deps.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		products, err := fetch(ctx)
		return productsMsg{gen: gen, products: products, err: err}
	}
}

func (m Model) cartCmd(status string, call func(context.Context, Cart) ([]domain.CartLine, error)) (tea.Model, tea.Cmd) {
	m.cartGen++
	m.loading++
	gen := m.cartGen
	sessionGen := m.deps.Store.Generation()
	c := m.deps.Cart
	timeout := m.deps.Timeout
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		lines, err := call(ctx, c)
		return cartMsg{gen: gen, sessionGen: sessionGen, lines: lines, err: err, status: status}
	})
}

func (m Model) waitForStore() tea.Cmd {
	ch := m.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

func (m *Model) done() {
	if m.loading > 0 {
		m.loading--
	}
}

func (m *Model) clampCartCursor() {
	n := len(m.deps.Store.CartLines())
	if m.cartIdx >= n {
		m.cartIdx = n - 1
	}
	if m.cartIdx < 0 {
		m.cartIdx = 0
	}
}

func (m Model) View() string {
	st := m.deps.Styles.Get()

	var b strings.Builder
	b.WriteString(m.header(st))
	b.WriteString("\n\n")

	switch m.screen {
	case screenCart:
		b.WriteString(m.cartView(st))
	case screenAccount:
		b.WriteString(m.accountView(st))
	default:
		b.WriteString(m.browseView(st))
	}

	b.WriteString("\n")
	if m.loading > 0 {
		b.WriteString(m.spinner.View() + " Loading...\n")
	}
	if m.err != "" {
		b.WriteString(st.Error.Render(m.err) + "\n")
	}
	if m.notice != "" {
		b.WriteString(st.Notice.Render(m.notice) + "\n")
	}
	b.WriteString(m.help.View(m.keys))

	return st.App.Render(b.String())
}

func (m Model) header(st Styles) string {
	who := "Guest"
	if p := m.deps.Store.Principal(); p != nil {
		who = p.DisplayName()
	}
	summary := m.deps.Store.CartSummary()
	right := fmt.Sprintf("%s · cart %d · %s", who, summary.TotalItems, st.Mode)
	return st.Header.Render("Nayra Jewels  " + st.Muted.Render(right))
}

func (m Model) browseView(st Styles) string {
	tabs := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		if i == m.activeTab {
			tabs[i] = st.ActiveTab.Render(t.title)
		} else {
			tabs[i] = st.Tab.Render(t.title)
		}
	}

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	if len(m.products) == 0 && m.loading == 0 && m.err == "" {
		b.WriteString(st.Muted.Render("No products found") + "\n")
		return b.String()
	}
	for i, p := range m.products {
		line := fmt.Sprintf("%-32s %s  %s", p.Name, st.Price.Render(domain.FormatAmount(p.Price)), stars(p.AverageRating))
		if !p.InStock() {
			line += " " + st.Muted.Render("(out of stock)")
		}
		if i == m.cursor {
			b.WriteString(st.Selected.Render(line))
		} else {
			b.WriteString(st.Item.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) cartView(st Styles) string {
	lines := m.deps.Store.CartLines()
	if len(lines) == 0 {
		return st.Muted.Render("Your cart is empty") + "\n"
	}

	var b strings.Builder
	for i, l := range lines {
		price := "-"
		if l.Product.Price.Valid {
			price = domain.FormatAmount(l.Product.Price.Decimal)
		}
		row := fmt.Sprintf("%-32s %s x %d = %s", l.Product.Name, price, l.Quantity, domain.FormatAmount(l.Subtotal()))
		if i == m.cartIdx {
			b.WriteString(st.Selected.Render(row))
		} else {
			b.WriteString(st.Item.Render(row))
		}
		b.WriteString("\n")
	}

	summary := m.deps.Store.CartSummary()
	b.WriteString("\n")
	b.WriteString(st.Summary.Render(fmt.Sprintf("Items: %d\nTotal: %s",
		summary.TotalItems, st.Price.Render(domain.FormatAmount(summary.TotalAmount)))))
	b.WriteString("\n")
	return b.String()
}

func (m Model) accountView(st Styles) string {
	p := m.deps.Store.Principal()
	if p == nil {
		return st.Muted.Render("Not signed in") + "\n"
	}
	dest := m.deps.Router.LoginDestination(p.Role)
	return fmt.Sprintf("%s\n%s\n%s\n",
		st.Item.Render("Name:  "+p.DisplayName()),
		st.Item.Render("Email: "+p.Email),
		st.Muted.Render(fmt.Sprintf("Role: %s  Home: %s", p.Role, dest.Path)))
}

func stars(r float64) string {
	r = domain.RoundRating(r)
	full := int(r)
	half := r-float64(full) >= 0.5
	s := strings.Repeat("★", full)
	if half {
		s += "½"
	}
	return s + strings.Repeat("☆", 5-full-boolToInt(half))
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

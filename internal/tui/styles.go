// Package tui is the terminal storefront.
package tui

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/fjod/nayra_storefront/internal/domain"
)

type Palette struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
}

var (
	LightPalette = Palette{
		Background: lipgloss.Color("#fdfaf5"),
		Foreground: lipgloss.Color("#2b2118"),
		Primary:    lipgloss.Color("#8a5a14"),
		Accent:     lipgloss.Color("#c9a227"),
		Muted:      lipgloss.Color("#8c8275"),
		Border:     lipgloss.Color("#e4d9c6"),
	}
	DarkPalette = Palette{
		Background: lipgloss.Color("#121212"),
		Foreground: lipgloss.Color("#f5f0e6"),
		Primary:    lipgloss.Color("#e0b84f"),
		Accent:     lipgloss.Color("#c9a227"),
		Muted:      lipgloss.Color("#9a9082"),
		Border:     lipgloss.Color("#3a332a"),
	}

	errorColor   = lipgloss.Color("#e53935")
	successColor = lipgloss.Color("#6a9f3a")
)

type Styles struct {
	Mode domain.ThemeMode

	App       lipgloss.Style
	Header    lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Item      lipgloss.Style
	Selected  lipgloss.Style
	Muted     lipgloss.Style
	Price     lipgloss.Style
	Summary   lipgloss.Style
	Notice    lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
}

func NewStyles(mode domain.ThemeMode) Styles {
	p := LightPalette
	if mode == domain.ThemeDark {
		p = DarkPalette
	}

	return Styles{
		Mode: mode,

		App: lipgloss.NewStyle().
			Background(p.Background).
			Foreground(p.Foreground).
			Padding(0, 1),

		Header: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(p.Border),

		Tab: lipgloss.NewStyle().
			Foreground(p.Muted).
			Padding(0, 1),

		ActiveTab: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true).
			Underline(true).
			Padding(0, 1),

		Item: lipgloss.NewStyle().
			Foreground(p.Foreground).
			PaddingLeft(2),

		Selected: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderLeft(true).
			BorderForeground(p.Accent).
			PaddingLeft(1),

		Muted: lipgloss.NewStyle().
			Foreground(p.Muted),

		Price: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),

		Summary: lipgloss.NewStyle().
			Foreground(p.Foreground).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),

		Notice: lipgloss.NewStyle().
			Foreground(p.Primary).
			Italic(true),

		Error: lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(successColor),
	}
}

// ThemedStyles swaps the active style set when the theme store applies a
// new mode. It is safe to read from the render loop while being applied.
type ThemedStyles struct {
	mu      sync.RWMutex
	current Styles
}

func NewThemedStyles() *ThemedStyles {
	return &ThemedStyles{current: NewStyles(domain.ThemeLight)}
}

func (t *ThemedStyles) Apply(mode domain.ThemeMode) {
	s := NewStyles(mode)
	t.mu.Lock()
	t.current = s
	t.mu.Unlock()
}

func (t *ThemedStyles) Get() Styles {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

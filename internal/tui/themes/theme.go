package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	HeaderBar     lipgloss.Style
	HeaderTitle   lipgloss.Style
	HeaderInfo    lipgloss.Style
	Drawer        lipgloss.Style
	DrawerItem    lipgloss.Style
	DrawerActive  lipgloss.Style
	TableHeader   lipgloss.Style
	Selected      lipgloss.Style
	Footer        lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusPending lipgloss.Style
	StatusSuccess lipgloss.Style
	Title         lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	RoundedBox    lipgloss.Style
	Primary       lipgloss.Color
	Secondary     lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
	Background    lipgloss.Color
	Info          lipgloss.Color
	Error         lipgloss.Color
	Warning       lipgloss.Color
	Success       lipgloss.Color
}

type palette struct {
	primary, secondary, success, warning, errColor, info   lipgloss.Color
	background, surface, foreground, subtle, border, muted lipgloss.Color
}

func newTheme(p palette) Theme {
	return Theme{
		Primary:    p.primary,
		Secondary:  p.secondary,
		Success:    p.success,
		Warning:    p.warning,
		Error:      p.errColor,
		Info:       p.info,
		Background: p.background,
		Foreground: p.foreground,
		Border:     p.border,
		Muted:      p.muted,

		// Shell
		HeaderBar: lipgloss.NewStyle().
			Background(p.surface).
			Foreground(p.foreground).
			Padding(0, 1),
		HeaderTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary),
		HeaderInfo: lipgloss.NewStyle().
			Foreground(p.subtle),
		Drawer: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(p.border).
			Padding(1, 2),
		DrawerItem: lipgloss.NewStyle().
			Foreground(p.foreground),
		DrawerActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary),

		// Table
		TableHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(p.border).
			BorderBottom(true),
		Selected: lipgloss.NewStyle().
			Background(p.primary).
			Foreground(p.background).
			Bold(true),
		Footer: lipgloss.NewStyle().
			Foreground(p.muted),

		// Text
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground).
			MarginBottom(1),
		Normal: lipgloss.NewStyle().
			Foreground(p.foreground),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(1, 2),

		// Status
		StatusSuccess: lipgloss.NewStyle().
			Foreground(p.success).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(p.errColor).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(p.info).
			Bold(true),
		StatusPending: lipgloss.NewStyle().
			Foreground(p.muted).
			Italic(true),
	}
}

// Default is the default theme.
var Default = newTheme(palette{
	primary:    lipgloss.Color("#7c3aed"),
	secondary:  lipgloss.Color("#a78bfa"),
	success:    lipgloss.Color("#10b981"),
	warning:    lipgloss.Color("#f59e0b"),
	errColor:   lipgloss.Color("#ef4444"),
	info:       lipgloss.Color("#3b82f6"),
	background: lipgloss.Color("#1a1a1a"),
	surface:    lipgloss.Color("#262626"),
	foreground: lipgloss.Color("#fafafa"),
	subtle:     lipgloss.Color("#a3a3a3"),
	border:     lipgloss.Color("#404040"),
	muted:      lipgloss.Color("#737373"),
})

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = newTheme(palette{
	primary:    lipgloss.Color("#cba6f7"),
	secondary:  lipgloss.Color("#f5c2e7"),
	success:    lipgloss.Color("#a6e3a1"),
	warning:    lipgloss.Color("#f9e2af"),
	errColor:   lipgloss.Color("#f38ba8"),
	info:       lipgloss.Color("#89dceb"),
	background: lipgloss.Color("#1e1e2e"),
	surface:    lipgloss.Color("#313244"),
	foreground: lipgloss.Color("#cdd6f4"),
	subtle:     lipgloss.Color("#a6adc8"),
	border:     lipgloss.Color("#45475a"),
	muted:      lipgloss.Color("#6c7086"),
})

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}

// CurrencyGlyphs maps currency codes to the glyph shown next to the pair in
// the table. Terminals cannot show the icon images.
var CurrencyGlyphs = map[string]string{
	"BTC":  "₿",
	"ETH":  "Ξ",
	"LTC":  "Ł",
	"DOGE": "Ð",
	"ADA":  "₳",
	"SOL":  "◎",
	"USDT": "₮",
	"USD":  "$",
	"EUR":  "€",
	"GBP":  "£",
	"JPY":  "¥",
}

// GetCurrencyGlyph returns the glyph for a currency code.
func GetCurrencyGlyph(code string) string {
	if glyph, ok := CurrencyGlyphs[code]; ok {
		return glyph
	}
	return "•"
}

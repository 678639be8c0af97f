package styles

import (
	"regexp"
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a named color palette.
type Theme struct {
	Name          string
	Primary       string
	Secondary     string
	Accent        string
	Success       string
	Error         string
	TextPrimary   string
	TextSecondary string
	TextMuted     string
	BgPrimary     string
	BgSecondary   string
	BgTertiary    string
	BorderNormal  string
	MarkdownTheme string // glamour standard style
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}([0-9A-Fa-f]{2})?$`)

var themes = map[string]Theme{
	"dark": {
		Name:          "dark",
		Primary:       "#7C3AED",
		Secondary:     "#3B82F6",
		Accent:        "#F59E0B",
		Success:       "#10B981",
		Error:         "#EF4444",
		TextPrimary:   "#F9FAFB",
		TextSecondary: "#9CA3AF",
		TextMuted:     "#6B7280",
		BgPrimary:     "#111827",
		BgSecondary:   "#1F2937",
		BgTertiary:    "#374151",
		BorderNormal:  "#374151",
		MarkdownTheme: "dark",
	},
	"light": {
		Name:          "light",
		Primary:       "#6D28D9",
		Secondary:     "#2563EB",
		Accent:        "#B45309",
		Success:       "#047857",
		Error:         "#B91C1C",
		TextPrimary:   "#111827",
		TextSecondary: "#374151",
		TextMuted:     "#6B7280",
		BgPrimary:     "#FFFFFF",
		BgSecondary:   "#F3F4F6",
		BgTertiary:    "#E5E7EB",
		BorderNormal:  "#D1D5DB",
		MarkdownTheme: "light",
	},
}

// IsValidHexColor reports whether hex is #RRGGBB or #RRGGBBAA.
func IsValidHexColor(hex string) bool {
	return hexColor.MatchString(hex)
}

// IsValidTheme reports whether name is a known theme.
func IsValidTheme(name string) bool {
	_, ok := themes[name]
	return ok
}

// ListThemes returns the theme names, sorted.
func ListThemes() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyTheme switches the palette. Unknown names fall back to dark.
func ApplyTheme(name string) {
	theme, ok := themes[name]
	if !ok {
		theme = themes["dark"]
	}
	Primary = lipgloss.Color(theme.Primary)
	Secondary = lipgloss.Color(theme.Secondary)
	Accent = lipgloss.Color(theme.Accent)
	Success = lipgloss.Color(theme.Success)
	Error = lipgloss.Color(theme.Error)
	TextPrimary = lipgloss.Color(theme.TextPrimary)
	TextSecondary = lipgloss.Color(theme.TextSecondary)
	TextMuted = lipgloss.Color(theme.TextMuted)
	BgPrimary = lipgloss.Color(theme.BgPrimary)
	BgSecondary = lipgloss.Color(theme.BgSecondary)
	BgTertiary = lipgloss.Color(theme.BgTertiary)
	BorderNormal = lipgloss.Color(theme.BorderNormal)
	BorderActive = Primary
	CurrentMarkdownTheme = theme.MarkdownTheme
	rebuildStyles()
}

// GetMarkdownTheme returns the glamour style for the current theme.
func GetMarkdownTheme() string {
	return CurrentMarkdownTheme
}

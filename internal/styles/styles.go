package styles

import "github.com/charmbracelet/lipgloss"

// Color palette - default dark theme
var (
	// Primary colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#3B82F6") // Blue
	Accent    = lipgloss.Color("#F59E0B") // Amber

	// Status colors
	Success = lipgloss.Color("#10B981") // Green
	Error   = lipgloss.Color("#EF4444") // Red

	// Text colors
	TextPrimary   = lipgloss.Color("#F9FAFB")
	TextSecondary = lipgloss.Color("#9CA3AF")
	TextMuted     = lipgloss.Color("#6B7280")

	// Background colors
	BgPrimary   = lipgloss.Color("#111827")
	BgSecondary = lipgloss.Color("#1F2937")
	BgTertiary  = lipgloss.Color("#374151")

	// Border colors
	BorderNormal = lipgloss.Color("#374151")
	BorderActive = lipgloss.Color("#7C3AED")

	NoticeSuccessTextColor = lipgloss.Color("#000000")
	NoticeErrorTextColor   = lipgloss.Color("#FFFFFF")

	// Glamour standard style for the preview pane (updated by ApplyTheme)
	CurrentMarkdownTheme = "dark"
)

// Panel styles
var (
	// Active panel with highlighted border
	PanelActive lipgloss.Style

	// Inactive panel with subtle border
	PanelInactive lipgloss.Style

	// Panel header
	PanelHeader lipgloss.Style
)

// Text styles
var (
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	KeyHint  lipgloss.Style
	Logo     lipgloss.Style
)

// List item styles
var (
	ListItemNormal   lipgloss.Style
	ListItemSelected lipgloss.Style
	ListCursor       lipgloss.Style
	ListDate         lipgloss.Style
)

// Notice styles
var (
	NoticeSuccess lipgloss.Style
	NoticeError   lipgloss.Style
	NoticeBox     lipgloss.Style
)

// Footer, buttons and inputs
var (
	Footer        lipgloss.Style
	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	InputLabel    lipgloss.Style
)

func init() {
	rebuildStyles()
}

// rebuildStyles derives every style from the current palette.
func rebuildStyles() {
	PanelActive = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderActive).
		Padding(0, 1)

	PanelInactive = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderNormal).
		Padding(0, 1)

	PanelHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary).
		MarginBottom(1)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	Subtitle = lipgloss.NewStyle().
		Foreground(TextSecondary)

	Body = lipgloss.NewStyle().
		Foreground(TextPrimary)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	KeyHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgTertiary).
		Padding(0, 1)

	Logo = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	ListItemNormal = lipgloss.NewStyle().
		Foreground(TextPrimary)

	ListItemSelected = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(BgTertiary)

	ListCursor = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	ListDate = lipgloss.NewStyle().
		Foreground(Accent)

	NoticeSuccess = lipgloss.NewStyle().
		Background(Success).
		Foreground(NoticeSuccessTextColor).
		Bold(true).
		Padding(0, 1)

	NoticeError = lipgloss.NewStyle().
		Background(Error).
		Foreground(NoticeErrorTextColor).
		Bold(true).
		Padding(0, 1)

	NoticeBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Background(BgSecondary).
		Padding(1, 2)

	Footer = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgSecondary)

	Button = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(BgTertiary).
		Padding(0, 2)

	ButtonFocused = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Primary).
		Padding(0, 2).
		Bold(true)

	InputLabel = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)
}

// RenderPanel renders content inside a bordered panel of the given outer size.
func RenderPanel(content string, width, height int, active bool) string {
	style := PanelInactive
	if active {
		style = PanelActive
	}
	// Border takes one cell on each side.
	return style.Width(max(width-2, 0)).Height(max(height-2, 0)).Render(content)
}

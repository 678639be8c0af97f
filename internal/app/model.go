package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/eureka/internal/config"
	"github.com/marcus/eureka/internal/keymap"
	"github.com/marcus/eureka/internal/msg"
	"github.com/marcus/eureka/internal/plugin"
)

const (
	headerHeight = 1
	footerHeight = 1
	minWidth     = 40
	minHeight    = 10
)

// Model is the root Bubble Tea model: one hosted screen, a header, a
// footer of key hints and the blocking notice overlay.
type Model struct {
	cfg    *config.Config
	screen plugin.Plugin

	keymap        *keymap.Registry
	activeContext string

	width, height int
	ready         bool
	showFooter    bool

	// notices waiting to be dismissed; the first one is shown
	notices []msg.NoticeMsg

	subtitle string
	version  string
}

// New creates the root model around a screen. subtitle is shown in the
// header, typically the store path.
func New(screen plugin.Plugin, km *keymap.Registry, cfg *config.Config, subtitle, version string) Model {
	showFooter := true
	if cfg != nil {
		showFooter = cfg.UI.ShowFooter
	}
	m := Model{
		cfg:        cfg,
		screen:     screen,
		keymap:     km,
		showFooter: showFooter,
		subtitle:   subtitle,
		version:    version,
	}
	m.updateContext()
	return m
}

// Init starts the hosted screen.
func (m Model) Init() tea.Cmd {
	return m.screen.Start()
}

// Notice returns the notice currently shown, if any.
func (m Model) Notice() (msg.NoticeMsg, bool) {
	if len(m.notices) == 0 {
		return msg.NoticeMsg{}, false
	}
	return m.notices[0], true
}

// updateContext recomputes which keymap context receives keys.
func (m *Model) updateContext() {
	if len(m.notices) > 0 {
		m.activeContext = keymap.ContextNotice
		return
	}
	m.activeContext = m.screen.FocusContext()
}

// contentHeight is the number of rows left for the screen.
func (m Model) contentHeight() int {
	h := m.height - headerHeight
	if m.showFooter {
		h -= footerHeight
	}
	return max(h, 0)
}

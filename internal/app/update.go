package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/eureka/internal/keymap"
	"github.com/marcus/eureka/internal/msg"
	"github.com/marcus/eureka/internal/plugin"
)

// Update handles all messages and returns the updated model and commands.
func (m Model) Update(tmsg tea.Msg) (tea.Model, tea.Cmd) {
	switch tmsg := tmsg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(tmsg)

	case tea.WindowSizeMsg:
		m.width = tmsg.Width
		m.height = tmsg.Height
		m.ready = true
		return m.forward(tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()})

	case msg.NoticeMsg:
		m.notices = append(m.notices, tmsg)
		m.updateContext()
		return m, nil
	}

	return m.forward(tmsg)
}

// forward hands a message to the screen.
func (m Model) forward(tmsg tea.Msg) (tea.Model, tea.Cmd) {
	screen, cmd := m.screen.Update(tmsg)
	m.screen = screen
	m.updateContext()
	return m, cmd
}

// handleKeyMsg processes keyboard input.
func (m Model) handleKeyMsg(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	// ctrl+c always quits, even over a notice.
	if k.Type == tea.KeyCtrlC {
		m.screen.Stop()
		return m, tea.Quit
	}

	// A notice blocks everything until dismissed.
	if len(m.notices) > 0 {
		if cmd, ok := m.keymap.Lookup(keymap.ContextNotice, k.String()); ok && cmd == "dismiss" {
			m.notices = m.notices[1:]
			m.updateContext()
		}
		return m, nil
	}

	// Typed text goes to the screen untouched.
	if c, ok := m.screen.(plugin.TextInputConsumer); ok && c.ConsumesTextInput() {
		return m.forward(k)
	}

	if cmd, ok := m.keymap.Lookup(keymap.ContextGlobal, k.String()); ok {
		switch cmd {
		case "quit":
			m.screen.Stop()
			return m, tea.Quit
		case "toggle-footer":
			m.showFooter = !m.showFooter
			return m.forward(tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()})
		}
	}

	return m.forward(k)
}

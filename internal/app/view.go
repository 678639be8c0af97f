package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/eureka/internal/keymap"
	"github.com/marcus/eureka/internal/plugin"
	"github.com/marcus/eureka/internal/styles"
	"github.com/marcus/eureka/internal/ui"
)

// View renders the entire application UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	// Show warning if terminal is too small
	if m.width < minWidth || m.height < minHeight {
		text := fmt.Sprintf("Terminal too small (%dx%d)\nMinimum: %dx%d",
			m.width, m.height, minWidth, minHeight)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			styles.Muted.Render(text))
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderContent(m.width, m.contentHeight()))
	if m.showFooter {
		b.WriteString("\n")
		b.WriteString(m.renderFooter())
	}

	bg := b.String()
	if n, ok := m.Notice(); ok {
		return ui.Overlay(bg, ui.RenderNotice(n.Message, n.IsError, m.width), m.width, m.height)
	}
	return bg
}

func (m Model) renderHeader() string {
	title := styles.Logo.Render(" eureka")
	if m.version != "" {
		title += styles.Muted.Render(" " + m.version)
	}
	sub := styles.Muted.Render(m.subtitle + " ")
	spacing := max(m.width-lipgloss.Width(title)-lipgloss.Width(sub), 1)
	return lipgloss.NewStyle().Width(m.width).MaxWidth(m.width).Render(title + strings.Repeat(" ", spacing) + sub)
}

func (m Model) renderContent(width, height int) string {
	if height == 0 {
		return ""
	}
	content := m.screen.View(width, height)
	// MaxHeight truncates tall content so the header stays on screen.
	return lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height).Render(content)
}

// renderFooter renders the bottom bar with key hints.
func (m Model) renderFooter() string {
	hints := renderHintLineTruncated(m.footerHints(), m.width-1)
	return styles.Footer.Width(m.width).MaxWidth(m.width).Render(" " + hints)
}

type footerHint struct {
	keys  string
	label string
}

func (m Model) footerHints() []footerHint {
	if m.activeContext == keymap.ContextNotice {
		return []footerHint{{keys: "enter", label: "dismiss"}}
	}
	hints := m.screenFooterHints(m.screen, m.activeContext)
	if keys := m.keymap.KeysForCommand(keymap.ContextGlobal, "quit"); len(keys) > 0 {
		hints = append(hints, footerHint{keys: keys[0], label: "quit"})
	}
	return hints
}

func (m Model) screenFooterHints(p plugin.Plugin, context string) []footerHint {
	type ranked struct {
		hint     footerHint
		priority int
	}
	var cmds []ranked
	for _, cmd := range p.Commands() {
		if cmd.Context != context {
			continue
		}
		keys := m.keymap.KeysForCommand(context, cmd.ID)
		if len(keys) == 0 {
			continue
		}
		priority := cmd.Priority
		if priority == 0 {
			priority = 99
		}
		cmds = append(cmds, ranked{footerHint{keys: strings.Join(keys, "/"), label: cmd.Name}, priority})
	}

	// Lower priority values are shown first.
	sort.SliceStable(cmds, func(i, j int) bool {
		return cmds[i].priority < cmds[j].priority
	})

	hints := make([]footerHint, 0, len(cmds))
	for _, c := range cmds {
		hints = append(hints, c.hint)
	}
	return hints
}

// renderHintLineTruncated renders hints but stops adding when maxWidth is exceeded.
func renderHintLineTruncated(hints []footerHint, maxWidth int) string {
	if len(hints) == 0 || maxWidth <= 0 {
		return ""
	}
	var result string
	for _, hint := range hints {
		part := fmt.Sprintf("%s %s", styles.KeyHint.Render(hint.keys), hint.label)
		candidate := part
		if result != "" {
			candidate = result + "  " + part
		}
		if lipgloss.Width(candidate) > maxWidth {
			break
		}
		result = candidate
	}
	return result
}

package msg

import (
	tea "github.com/charmbracelet/bubbletea"
)

// NoticeMsg asks the app to show a blocking notice until dismissed.
type NoticeMsg struct {
	Message string
	IsError bool // true for failures (red), false for success (green)
}

// ShowNotice returns a command that shows a success notice.
func ShowNotice(message string) tea.Cmd {
	return func() tea.Msg {
		return NoticeMsg{Message: message}
	}
}

// ShowError returns a command that shows a failure notice.
func ShowError(message string) tea.Cmd {
	return func() tea.Msg {
		return NoticeMsg{Message: message, IsError: true}
	}
}

package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/eureka/internal/styles"
)

// NoticeWidth is the preferred outer width of a notice box.
const NoticeWidth = 44

// RenderNotice draws a blocking notice box with a dismiss hint.
func RenderNotice(message string, isError bool, screenWidth int) string {
	width := min(NoticeWidth, max(screenWidth-4, 20))

	badge := styles.NoticeSuccess.Render("OK")
	if isError {
		badge = styles.NoticeError.Render("ERROR")
	}
	body := lipgloss.NewStyle().Width(width - 6).Render(message)
	hint := styles.Muted.Render("enter/esc to dismiss")

	box := styles.NoticeBox
	if isError {
		box = box.BorderForeground(styles.Error)
	}
	return box.Width(width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, badge, "", body, "", hint))
}

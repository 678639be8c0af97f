// Package ui provides shared rendering helpers for the TUI.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// DimStyle greys out the screen behind an overlay. Existing colors are
// stripped first because faint does not combine reliably with them.
var DimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

// widest returns the maximum visual width of lines.
func widest(lines []string) int {
	w := 0
	for _, line := range lines {
		w = max(w, ansi.StringWidth(line))
	}
	return w
}

// spliceRow places box at column x of a dimmed copy of bg.
func spliceRow(bg, box string, x, boxWidth int) string {
	plain := ansi.Strip(bg)
	plainWidth := ansi.StringWidth(plain)

	var sb strings.Builder
	if x > 0 {
		left := ansi.Truncate(plain, x, "")
		sb.WriteString(DimStyle.Render(left))
		if pad := x - ansi.StringWidth(left); pad > 0 {
			sb.WriteString(strings.Repeat(" ", pad))
		}
	}
	sb.WriteString(box)
	if end := x + boxWidth; plainWidth > end {
		sb.WriteString(DimStyle.Render(ansi.Cut(plain, end, plainWidth)))
	}
	return sb.String()
}

// Overlay centers box over a dimmed background of width x height cells.
func Overlay(background, box string, width, height int) string {
	bgLines := strings.Split(background, "\n")
	boxLines := strings.Split(box, "\n")
	for len(bgLines) < height {
		bgLines = append(bgLines, "")
	}

	boxWidth := widest(boxLines)
	x := max((width-boxWidth)/2, 0)
	y := max((height-len(boxLines))/2, 0)

	out := make([]string, height)
	for row := 0; row < height; row++ {
		if i := row - y; i >= 0 && i < len(boxLines) {
			out[row] = spliceRow(bgLines[row], boxLines[i], x, boxWidth)
			continue
		}
		out[row] = DimStyle.Render(ansi.Strip(bgLines[row]))
	}
	return strings.Join(out, "\n")
}

package notes

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
	notesdb "github.com/marcus/eureka/internal/notes"
	"github.com/marcus/eureka/internal/styles"
)

type previewKey struct {
	id, title, desc string
	width           int
	theme           string
}

// Preview renders the highlighted note's description as markdown.
type Preview struct {
	renderer *glamour.TermRenderer
	width    int
	theme    string

	key    previewKey
	cached string
}

// Render returns the note rendered to fit width x height cells.
func (pv *Preview) Render(note notesdb.Note, width, height int) string {
	key := previewKey{note.ID, note.Title, note.Description, width, styles.GetMarkdownTheme()}
	if key != pv.key || pv.cached == "" {
		pv.cached = pv.render(note, width)
		pv.key = key
	}
	return clip(pv.cached, width, height)
}

func (pv *Preview) render(note notesdb.Note, width int) string {
	source := "# " + note.Title + "\n\n" + note.Description
	theme := styles.GetMarkdownTheme()
	if pv.renderer == nil || pv.width != width || pv.theme != theme {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(theme),
			glamour.WithWordWrap(max(width-2, 10)),
		)
		if err != nil {
			return source
		}
		pv.renderer, pv.width, pv.theme = r, width, theme
	}
	out, err := pv.renderer.Render(source)
	if err != nil {
		return source
	}
	return strings.Trim(out, "\n")
}

// clip cuts rendered text to height lines of at most width cells.
func clip(s string, width, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:max(height, 0)]
	}
	for i, line := range lines {
		if ansi.StringWidth(line) > width {
			lines[i] = ansi.Truncate(line, width, "")
		}
	}
	return strings.Join(lines, "\n")
}

package notes

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/eureka/internal/msg"
	notesdb "github.com/marcus/eureka/internal/notes"
	"github.com/marcus/eureka/internal/styles"
	"github.com/mattn/go-runewidth"
)

// itemHeight is the number of rows one note occupies, including the gap.
const itemHeight = 4

// List holds the displayed notes in display order and the cursor over them.
// The store order is only used for the initial load; afterwards created
// notes are prepended and edits are patched in place.
type List struct {
	items     []notesdb.Note
	cursor    int
	scrollOff int
	loaded    bool
}

// Load replaces the displayed notes with a fresh read from the store.
func (l *List) Load(notes []notesdb.Note) {
	l.items = append([]notesdb.Note(nil), notes...)
	l.loaded = true
	l.clampCursor()
}

// Sync folds an external re-read into the current display order: known
// notes keep their position and take the stored content, new notes are
// prepended, vanished notes are dropped.
func (l *List) Sync(notes []notesdb.Note) {
	if !l.loaded {
		l.Load(notes)
		return
	}
	byID := make(map[string]notesdb.Note, len(notes))
	for _, n := range notes {
		byID[n.ID] = n
	}
	kept := make(map[string]bool, len(l.items))
	merged := make([]notesdb.Note, 0, len(notes))
	for _, n := range l.items {
		if fresh, ok := byID[n.ID]; ok {
			merged = append(merged, fresh)
			kept[n.ID] = true
		}
	}
	var added []notesdb.Note
	for _, n := range notes {
		if !kept[n.ID] {
			added = append(added, n)
		}
	}
	l.items = append(added, merged...)
	l.clampCursor()
}

// Prepend puts a newly created note at the top and moves the cursor to it.
func (l *List) Prepend(note notesdb.Note) {
	l.Remove(note.ID)
	l.items = append([]notesdb.Note{note}, l.items...)
	l.loaded = true
	l.cursor = 0
	l.scrollOff = 0
}

// Remove drops the note with id. It reports whether anything was removed.
func (l *List) Remove(id string) bool {
	for i, n := range l.items {
		if n.ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			l.clampCursor()
			return true
		}
	}
	return false
}

// Patch replaces the title and description of the displayed note with the
// same id, keeping its position.
func (l *List) Patch(note notesdb.Note) bool {
	for i := range l.items {
		if l.items[i].ID == note.ID {
			l.items[i].Title = note.Title
			l.items[i].Description = note.Description
			return true
		}
	}
	return false
}

// Empty is the "empty list" flag: set once notes were loaded and none remain.
func (l *List) Empty() bool { return l.loaded && len(l.items) == 0 }

// Loaded reports whether an initial load has completed.
func (l *List) Loaded() bool { return l.loaded }

// Len returns the number of displayed notes.
func (l *List) Len() int { return len(l.items) }

// Items returns a copy of the displayed notes.
func (l *List) Items() []notesdb.Note {
	return append([]notesdb.Note(nil), l.items...)
}

// Selected returns a copy of the note under the cursor, or nil.
func (l *List) Selected() *notesdb.Note {
	if l.cursor < 0 || l.cursor >= len(l.items) {
		return nil
	}
	n := l.items[l.cursor]
	return &n
}

// Cursor returns the cursor index.
func (l *List) Cursor() int { return l.cursor }

// MoveCursor moves the cursor by delta, clamped to the list.
func (l *List) MoveCursor(delta int) {
	l.cursor += delta
	l.clampCursor()
}

// CursorTop jumps to the first note.
func (l *List) CursorTop() { l.cursor = 0 }

// CursorBottom jumps to the last note.
func (l *List) CursorBottom() {
	l.cursor = len(l.items) - 1
	l.clampCursor()
}

// Fingerprint hashes the displayed notes.
func (l *List) Fingerprint() uint64 { return notesdb.Fingerprint(l.items) }

func (l *List) clampCursor() {
	if l.cursor >= len(l.items) {
		l.cursor = len(l.items) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

// ensureCursorVisible adjusts scrollOff so the cursor item fits in height rows.
func (l *List) ensureCursorVisible(height int) {
	visible := max(height/itemHeight, 1)
	if l.cursor < l.scrollOff {
		l.scrollOff = l.cursor
	}
	if l.cursor >= l.scrollOff+visible {
		l.scrollOff = l.cursor - visible + 1
	}
	if l.scrollOff < 0 {
		l.scrollOff = 0
	}
}

// View renders the list into width x height cells.
func (l *List) View(width, height int, focused bool, emptyText string) string {
	if !l.loaded {
		return styles.Muted.Render("Loading notes...")
	}
	if l.Empty() {
		return styles.Muted.Render(emptyText)
	}

	l.ensureCursorVisible(height)
	var sb strings.Builder
	rows := 0
	for i := l.scrollOff; i < len(l.items) && rows+itemHeight-1 <= height; i++ {
		if rows > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(renderItem(l.items[i], width, focused && i == l.cursor))
		rows += itemHeight
	}
	return sb.String()
}

// renderItem draws one note: date and actions, title, description.
func renderItem(note notesdb.Note, width int, selected bool) string {
	cursor := "  "
	if selected {
		cursor = styles.ListCursor.Render("> ")
	}
	inner := max(width-2, 1)

	actions := styles.Muted.Render("[e]dit [d]elete")
	date := styles.ListDate.Render(truncate(notesdb.FormatDate(note.Date), inner-lipgloss.Width(actions)-1))
	gap := max(inner-lipgloss.Width(date)-lipgloss.Width(actions), 1)
	header := date + strings.Repeat(" ", gap) + actions

	titleStyle := styles.Title
	if selected {
		titleStyle = titleStyle.Foreground(styles.Primary)
	}
	title := titleStyle.Render(truncate(note.Title, inner))
	desc := styles.Subtitle.Render(truncate(firstLine(note.Description), inner))

	return cursor + header + "\n  " + title + "\n  " + desc
}

// truncate shortens s to width terminal cells with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}

// Notice texts shown by the list.
const (
	noticeFetchFailed  = "Couldn't fetch notes"
	noticeDeleted      = "note has been deleted"
	noticeDeleteFailed = "oops, note could not be deleted"
)

// loadNotes reads every note from the store.
func (p *Plugin) loadNotes(refresh bool) tea.Cmd {
	gw := p.gateway
	ctx := p.runCtx
	return func() tea.Msg {
		notes, err := gw.List(ctx)
		return NotesLoadedMsg{Notes: notes, Err: err, Refresh: refresh}
	}
}

// onNotesLoaded renders the initial list, or folds in an external change.
func (p *Plugin) onNotesLoaded(m NotesLoadedMsg) tea.Cmd {
	if m.Err != nil {
		p.logger.Error("notes: load failed", "refresh", m.Refresh, "error", m.Err)
		if m.Refresh {
			return nil
		}
		return msg.ShowError(noticeFetchFailed)
	}
	if !m.Refresh {
		p.list.Load(m.Notes)
		p.logger.Debug("notes: loaded", "count", len(m.Notes))
		return nil
	}
	if notesdb.Fingerprint(m.Notes) == p.list.Fingerprint() {
		return nil
	}
	p.list.Sync(m.Notes)
	p.logger.Debug("notes: synced external change", "count", len(m.Notes))
	return p.refreshSearch()
}

// editSelected opens the entry panel for the note under the cursor.
func (p *Plugin) editSelected() tea.Cmd {
	note := p.visible().Selected()
	if note == nil {
		return nil
	}
	return p.openEditNote(*note)
}

// deleteSelected deletes the note under the cursor.
func (p *Plugin) deleteSelected() tea.Cmd {
	note := p.visible().Selected()
	if note == nil {
		return nil
	}
	gw := p.gateway
	ctx := p.runCtx
	id := note.ID
	return func() tea.Msg {
		deleted, err := gw.Delete(ctx, id)
		if err != nil {
			return NoteDeletedMsg{ID: id, Err: err}
		}
		return NoteDeletedMsg{ID: deleted}
	}
}

// onNoteDeleted removes the item, or keeps it and reports the failure.
func (p *Plugin) onNoteDeleted(m NoteDeletedMsg) tea.Cmd {
	if m.Err != nil {
		p.logger.Error("notes: delete failed", "id", m.ID, "error", m.Err)
		return msg.ShowError(noticeDeleteFailed)
	}
	p.list.Remove(m.ID)
	if p.results != nil {
		p.results.Remove(m.ID)
	}
	var cmds []tea.Cmd
	// The note being edited is gone; fall back to a fresh panel.
	if sel := p.ui.SelectedNote(); sel != nil && sel.ID == m.ID {
		cmds = append(cmds, p.closeForm())
	}
	p.logger.Debug("notes: deleted", "id", m.ID)
	cmds = append(cmds, msg.ShowNotice(noticeDeleted))
	return tea.Batch(cmds...)
}

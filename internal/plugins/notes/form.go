package notes

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/eureka/internal/msg"
	notesdb "github.com/marcus/eureka/internal/notes"
	"github.com/marcus/eureka/internal/styles"
	"github.com/marcus/eureka/internal/uistate"
)

// Submit labels for the entry panel.
const (
	labelAdd    = "add note"
	labelUpdate = "update note"
)

// Notice texts shown by the entry panel.
const (
	noticeInvalid = "Title or description was not set"
	noticeUpdated = "Note updated successfully!"
	noticeAdded   = "Note added successfully!"
)

// ErrValidation is returned when a submitted field is blank.
var ErrValidation = errors.New("title or description was not set")

type formField int

const (
	fieldTitle formField = iota
	fieldDescription
)

// Form is the entry panel: a title input, a description textarea and a
// submit affordance.
type Form struct {
	title   textinput.Model
	desc    textarea.Model
	open    bool
	focus   formField
	pending bool // a submit is in flight
}

// NewForm builds a closed, empty form.
func NewForm() Form {
	ti := textinput.New()
	ti.Placeholder = "Title"
	ti.Prompt = ""
	ti.CharLimit = 200
	ti.Cursor.SetMode(cursor.CursorStatic)

	ta := textarea.New()
	ta.Placeholder = "Description"
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.FocusedStyle = textarea.Style{
		Base:        lipgloss.NewStyle(),
		CursorLine:  lipgloss.NewStyle(),
		Placeholder: styles.Muted,
		Prompt:      lipgloss.NewStyle(),
		Text:        lipgloss.NewStyle(),
	}
	ta.BlurredStyle = ta.FocusedStyle
	ta.Cursor.SetMode(cursor.CursorStatic)
	ta.Blur()

	return Form{title: ti, desc: ta}
}

// IsOpen reports whether the panel is shown.
func (f *Form) IsOpen() bool { return f.open }

// Pending reports whether a submit is in flight.
func (f *Form) Pending() bool { return f.pending }

// Values returns the raw input values.
func (f *Form) Values() (title, description string) {
	return f.title.Value(), f.desc.Value()
}

// SetValues fills both inputs.
func (f *Form) SetValues(title, description string) {
	f.title.SetValue(title)
	f.desc.SetValue(description)
}

// Clear empties both inputs.
func (f *Form) Clear() {
	f.title.Reset()
	f.desc.Reset()
}

// Validate rejects empty fields. Whitespace counts as content.
func (f *Form) Validate() error {
	title, desc := f.Values()
	if title == "" || desc == "" {
		return ErrValidation
	}
	return nil
}

func (f *Form) show() tea.Cmd {
	f.open = true
	return f.setFocus(fieldTitle)
}

func (f *Form) hide() {
	f.open = false
	f.Clear()
	f.title.Blur()
	f.desc.Blur()
}

func (f *Form) setFocus(field formField) tea.Cmd {
	f.focus = field
	if field == fieldTitle {
		f.desc.Blur()
		return f.title.Focus()
	}
	f.title.Blur()
	return f.desc.Focus()
}

// NextField moves focus between title and description.
func (f *Form) NextField() tea.Cmd {
	if f.focus == fieldTitle {
		return f.setFocus(fieldDescription)
	}
	return f.setFocus(fieldTitle)
}

// SetSize sizes the inputs for a panel of the given inner width and height.
func (f *Form) SetSize(width, height int) {
	f.title.Width = max(width-1, 1)
	f.desc.SetWidth(max(width, 1))
	// heading(2), label, input, gap, label, textarea, gap, button, hint
	f.desc.SetHeight(max(height-9, 3))
}

// Update forwards input to the focused field.
func (f *Form) Update(m tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.focus == fieldTitle {
		f.title, cmd = f.title.Update(m)
	} else {
		f.desc, cmd = f.desc.Update(m)
	}
	return cmd
}

// View renders the panel with the submit label for mode.
func (f *Form) View(mode uistate.FormMode, width int) string {
	label := labelAdd
	heading := "New note"
	if mode == uistate.ModeEdit {
		label = labelUpdate
		heading = "Edit note"
	}

	button := styles.Button.Render(label)
	if f.pending {
		button = styles.Button.Render(label + "…")
	} else if f.Validate() == nil {
		button = styles.ButtonFocused.Render(label)
	}

	lines := []string{
		styles.PanelHeader.Render(heading),
		styles.InputLabel.Render("Title"),
		f.title.View(),
		"",
		styles.InputLabel.Render("Description"),
		f.desc.View(),
		"",
		button,
		styles.Muted.Render("ctrl+s submit · tab switch · esc close"),
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

// openNewNote resets the selection and opens the panel for a new note.
func (p *Plugin) openNewNote() tea.Cmd {
	wasEdit := p.ui.FormMode() == uistate.ModeEdit
	if err := p.ui.SetSelectedNote(nil); err != nil {
		return p.failNotice("notes: reset selection failed", err)
	}
	if wasEdit {
		p.form.Clear()
	}
	return p.form.show()
}

// openEditNote selects note and opens the panel populated from it.
func (p *Plugin) openEditNote(note notesdb.Note) tea.Cmd {
	if err := p.ui.SetSelectedNote(&note); err != nil {
		return p.failNotice("notes: select failed", err)
	}
	sel := p.ui.SelectedNote()
	p.form.SetValues(sel.Title, sel.Description)
	return p.form.show()
}

// closeForm resets the selection, clears the inputs and closes the panel.
func (p *Plugin) closeForm() tea.Cmd {
	p.form.hide()
	if err := p.ui.SetSelectedNote(nil); err != nil {
		return p.failNotice("notes: reset selection failed", err)
	}
	return nil
}

// submit validates the inputs and dispatches an update or a create.
func (p *Plugin) submit() tea.Cmd {
	if p.form.pending {
		return nil
	}
	if err := p.form.Validate(); err != nil {
		return msg.ShowError(noticeInvalid)
	}
	title, desc := p.form.Values()
	gw := p.gateway
	ctx := p.runCtx

	if p.ui.FormMode() == uistate.ModeEdit {
		sel := p.ui.SelectedNote()
		if sel == nil {
			return p.failNotice("notes: edit without selection", uistate.ErrInvalidMode)
		}
		merged := *sel
		merged.Title = title
		merged.Description = desc
		p.form.pending = true
		return func() tea.Msg {
			err := gw.Update(ctx, merged)
			return NoteUpdatedMsg{Note: merged, Err: err}
		}
	}

	p.form.pending = true
	return func() tea.Msg {
		note, err := gw.Create(ctx, title, desc)
		return NoteCreatedMsg{Note: note, Err: err}
	}
}

// onNoteUpdated patches the displayed note in place.
func (p *Plugin) onNoteUpdated(m NoteUpdatedMsg) tea.Cmd {
	p.form.pending = false
	if m.Err != nil {
		p.logger.Error("notes: update failed", "id", m.Note.ID, "error", m.Err)
		return msg.ShowError(errorText(m.Err))
	}
	p.list.Patch(m.Note)
	if p.results != nil {
		p.results.Patch(m.Note)
	}
	// Keep the selection in step with what was stored, unless the user
	// moved on while the update was in flight.
	if sel := p.ui.SelectedNote(); sel != nil && sel.ID == m.Note.ID {
		if err := p.ui.SetSelectedNote(&m.Note); err != nil {
			p.logger.Warn("notes: reselect failed", "id", m.Note.ID, "error", err)
		}
	}
	p.logger.Debug("notes: updated", "id", m.Note.ID)
	return msg.ShowNotice(noticeUpdated)
}

// onNoteCreated prepends the stored note and clears the inputs, unless the
// panel has moved on to editing another note meanwhile.
func (p *Plugin) onNoteCreated(m NoteCreatedMsg) tea.Cmd {
	p.form.pending = false
	if m.Err != nil {
		p.logger.Error("notes: create failed", "error", m.Err)
		return msg.ShowError(errorText(m.Err))
	}
	if p.ui.FormMode() == uistate.ModeNew {
		p.form.Clear()
	}
	p.list.Prepend(m.Note)
	p.logger.Debug("notes: created", "id", m.Note.ID)
	return tea.Batch(msg.ShowNotice(noticeAdded), p.refreshSearch())
}

// errorText returns the user-facing message for a storage error.
func errorText(err error) string {
	var oe *notesdb.OpError
	if errors.As(err, &oe) && oe.Kind != nil {
		return oe.Kind.Error()
	}
	return err.Error()
}

// failNotice logs err and shows it.
func (p *Plugin) failNotice(logMsg string, err error) tea.Cmd {
	p.logger.Error(logMsg, "error", err)
	return msg.ShowError(err.Error())
}

package notes

import (
	"context"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/eureka/internal/config"
	"github.com/marcus/eureka/internal/keymap"
	"github.com/marcus/eureka/internal/msg"
	notesdb "github.com/marcus/eureka/internal/notes"
	"github.com/marcus/eureka/internal/plugin"
	"github.com/marcus/eureka/internal/styles"
	"github.com/marcus/eureka/internal/uistate"
)

const (
	pluginID   = "notes"
	pluginName = "notes"

	emptyText = "No notes yet. Press n to add one."

	// Pane layout
	dividerWidth = 1
	minListWidth = 30
)

// clipboardWrite is swapped in tests.
var clipboardWrite = clipboard.WriteAll

// Plugin is the notes screen: the list, the entry panel, title search and
// a markdown preview of the highlighted note.
type Plugin struct {
	ctx     *plugin.Context
	logger  *slog.Logger
	gateway notesdb.Gateway
	ui      *uistate.Store

	// runCtx bounds store calls and the file watch; cancelled by Stop.
	runCtx context.Context
	cancel context.CancelFunc
	watch  <-chan struct{}

	// View dimensions
	width  int
	height int

	list    List
	form    Form
	preview Preview

	// Search state
	search      textinput.Model
	searchMode  bool   // true while the search input has focus
	searchQuery string // current query; "" shows the full list
	results     *List  // nil unless a query is active

	showPreview bool
}

// New creates the notes plugin over a gateway and a UI state store.
func New(gw notesdb.Gateway, ui *uistate.Store) *Plugin {
	return &Plugin{
		gateway: gw,
		ui:      ui,
		form:    NewForm(),
		search:  newSearchInput(),
	}
}

// ID returns the plugin identifier.
func (p *Plugin) ID() string { return pluginID }

// Name returns the plugin display name.
func (p *Plugin) Name() string { return pluginName }

// Init wires shared dependencies.
func (p *Plugin) Init(ctx *plugin.Context) error {
	p.ctx = ctx
	p.logger = ctx.Logger
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	if p.ctx.Keymap == nil {
		p.ctx.Keymap = keymap.NewRegistry()
		keymap.RegisterDefaults(p.ctx.Keymap)
	}
	p.showPreview = ctx.Config == nil || ctx.Config.UI.ShowPreview
	p.runCtx, p.cancel = context.WithCancel(context.Background())
	return nil
}

// Start loads the notes and, when configured, watches the store file.
func (p *Plugin) Start() tea.Cmd {
	cmds := []tea.Cmd{p.loadNotes(false)}
	if p.ctx.Config != nil && p.ctx.Config.Storage.Watch {
		ch, err := notesdb.Watch(p.runCtx, p.gateway.Path(), p.logger)
		if err != nil {
			p.logger.Warn("notes: watch disabled", "path", p.gateway.Path(), "error", err)
		} else {
			p.watch = ch
			cmds = append(cmds, waitForChange(ch))
		}
	}
	return tea.Batch(cmds...)
}

// Stop cancels in-flight store calls and the watch.
func (p *Plugin) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
}

// waitForChange blocks until the store file changes.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return watchStoppedMsg{}
		}
		return StoreChangedMsg{}
	}
}

// Update handles messages.
func (p *Plugin) Update(m tea.Msg) (plugin.Plugin, tea.Cmd) {
	switch m := m.(type) {
	case tea.WindowSizeMsg:
		p.width = m.Width
		p.height = m.Height

	case NotesLoadedMsg:
		return p, p.onNotesLoaded(m)

	case SearchResultsMsg:
		return p, p.onSearchResults(m)

	case NoteCreatedMsg:
		return p, p.onNoteCreated(m)

	case NoteUpdatedMsg:
		return p, p.onNoteUpdated(m)

	case NoteDeletedMsg:
		return p, p.onNoteDeleted(m)

	case StoreChangedMsg:
		if p.watch == nil {
			return p, p.loadNotes(true)
		}
		return p, tea.Batch(p.loadNotes(true), waitForChange(p.watch))

	case watchStoppedMsg:
		p.watch = nil

	case tea.KeyMsg:
		return p, p.handleKey(m)

	default:
		// Cursor blink and similar input-internal messages.
		if p.searchMode {
			var cmd tea.Cmd
			p.search, cmd = p.search.Update(m)
			return p, cmd
		}
		if p.form.IsOpen() {
			return p, p.form.Update(m)
		}
	}
	return p, nil
}

// handleKey routes a key by focus context.
func (p *Plugin) handleKey(m tea.KeyMsg) tea.Cmd {
	if p.searchMode {
		return p.handleSearchKey(m)
	}
	if p.form.IsOpen() {
		return p.handleFormKey(m)
	}
	return p.handleListKey(m)
}

// handleFormKey handles panel commands; anything else is typed text.
func (p *Plugin) handleFormKey(m tea.KeyMsg) tea.Cmd {
	for _, b := range p.ctx.Keymap.BindingsForContext(keymap.ContextForm) {
		if b.Key != m.String() {
			continue
		}
		switch b.Command {
		case "submit":
			return p.submit()
		case "next-field":
			return p.form.NextField()
		case "close-form":
			return p.closeForm()
		}
	}
	return p.form.Update(m)
}

// handleListKey handles list navigation and item actions.
func (p *Plugin) handleListKey(m tea.KeyMsg) tea.Cmd {
	cmd, ok := p.ctx.Keymap.Lookup(keymap.ContextList, m.String())
	if !ok {
		return nil
	}
	l := p.visible()
	switch cmd {
	case "cursor-down":
		l.MoveCursor(1)
	case "cursor-up":
		l.MoveCursor(-1)
	case "cursor-top":
		l.CursorTop()
	case "cursor-bottom":
		l.CursorBottom()
	case "new-note":
		return p.openNewNote()
	case "edit-note":
		return p.editSelected()
	case "delete-note":
		return p.deleteSelected()
	case "search":
		return p.openSearch()
	case "clear-search":
		return p.clearSearch()
	case "yank-description":
		return p.yank(func(n notesdb.Note) string { return n.Description }, "description")
	case "yank-title":
		return p.yank(func(n notesdb.Note) string { return n.Title }, "title")
	case "toggle-preview":
		p.showPreview = !p.showPreview
		p.savePreference()
	case "refresh":
		return p.loadNotes(true)
	}
	return nil
}

// savePreference persists the preview toggle. A failed save is logged only.
func (p *Plugin) savePreference() {
	if p.ctx.Config == nil {
		return
	}
	p.ctx.Config.UI.ShowPreview = p.showPreview
	if err := config.SaveUI(p.ctx.ConfigPath, p.ctx.Config.UI); err != nil {
		p.logger.Warn("notes: saving preview preference failed", "error", err)
	}
}

// yank copies a field of the highlighted note to the system clipboard.
func (p *Plugin) yank(field func(notesdb.Note) string, what string) tea.Cmd {
	note := p.visible().Selected()
	if note == nil {
		return nil
	}
	if err := clipboardWrite(field(*note)); err != nil {
		p.logger.Warn("notes: clipboard write failed", "error", err)
		return msg.ShowError("Copy failed: " + err.Error())
	}
	return msg.ShowNotice("Copied note " + what)
}

// View renders the plugin.
func (p *Plugin) View(width, height int) string {
	p.width = width
	p.height = height

	body := height
	var header string
	if p.searchMode || p.searchQuery != "" {
		header = p.renderSearchBar(width)
		body = max(height-lipgloss.Height(header), 1)
	}

	var content string
	switch {
	case p.form.IsOpen():
		content = p.renderSplit(width, body, p.renderForm)
	case p.showPreview && p.visible().Selected() != nil:
		content = p.renderSplit(width, body, p.renderPreview)
	default:
		content = styles.RenderPanel(p.renderList(width-4, body-2, true), width, body, true)
	}
	if header != "" {
		content = header + "\n" + content
	}

	// Constrain output to allocated height
	return lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height).Render(content)
}

// renderSplit lays out the list on the left and a detail pane on the right.
func (p *Plugin) renderSplit(width, height int, detail func(w, h int) string) string {
	listWidth := max(width*2/5, minListWidth)
	if listWidth > width-minListWidth {
		listWidth = width / 2
	}
	detailWidth := width - listWidth - dividerWidth

	left := styles.RenderPanel(p.renderList(listWidth-4, height-2, !p.form.IsOpen()), listWidth, height, !p.form.IsOpen())
	right := styles.RenderPanel(detail(detailWidth-4, height-2), detailWidth, height, p.form.IsOpen())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, strings.Repeat(" ", dividerWidth), right)
}

func (p *Plugin) renderList(width, height int, focused bool) string {
	text := emptyText
	if p.results != nil {
		text = "No titles start with \"" + p.searchQuery + "\""
	}
	return p.visible().View(width, height, focused, text)
}

func (p *Plugin) renderForm(width, height int) string {
	p.form.SetSize(width, height)
	return p.form.View(p.ui.FormMode(), width)
}

func (p *Plugin) renderPreview(width, height int) string {
	note := p.visible().Selected()
	if note == nil {
		return ""
	}
	return p.preview.Render(*note, width, height)
}

func (p *Plugin) renderSearchBar(width int) string {
	p.search.Width = max(width-4, 1)
	line := p.search.View()
	if !p.searchMode {
		line = styles.Muted.Render("/ " + p.searchQuery)
	}
	return lipgloss.NewStyle().Width(width).Padding(0, 1).Render(line)
}

// Commands returns the commands shown in the footer for the current focus.
func (p *Plugin) Commands() []plugin.Command {
	switch p.FocusContext() {
	case keymap.ContextSearch:
		return []plugin.Command{
			{ID: "confirm", Name: "Done", Description: "Keep results", Category: plugin.CategorySearch, Context: keymap.ContextSearch, Priority: 1},
			{ID: "cancel", Name: "Cancel", Description: "Clear search", Category: plugin.CategorySearch, Context: keymap.ContextSearch, Priority: 2},
		}
	case keymap.ContextForm:
		return []plugin.Command{
			{ID: "submit", Name: "Save", Description: "Add or update the note", Category: plugin.CategoryEdit, Context: keymap.ContextForm, Priority: 1},
			{ID: "next-field", Name: "Field", Description: "Switch field", Category: plugin.CategoryNavigation, Context: keymap.ContextForm, Priority: 2},
			{ID: "close-form", Name: "Close", Description: "Close the entry panel", Category: plugin.CategoryActions, Context: keymap.ContextForm, Priority: 3},
		}
	}
	cmds := []plugin.Command{
		{ID: "new-note", Name: "New", Description: "Add a note", Category: plugin.CategoryActions, Context: keymap.ContextList, Priority: 1},
		{ID: "search", Name: "Search", Description: "Search titles", Category: plugin.CategorySearch, Context: keymap.ContextList, Priority: 4},
	}
	if p.visible().Selected() != nil {
		cmds = append(cmds,
			plugin.Command{ID: "edit-note", Name: "Edit", Description: "Edit the note", Category: plugin.CategoryEdit, Context: keymap.ContextList, Priority: 2},
			plugin.Command{ID: "delete-note", Name: "Delete", Description: "Delete the note", Category: plugin.CategoryActions, Context: keymap.ContextList, Priority: 3},
			plugin.Command{ID: "yank-description", Name: "Yank", Description: "Copy description", Category: plugin.CategoryActions, Context: keymap.ContextList, Priority: 5},
			plugin.Command{ID: "toggle-preview", Name: "Preview", Description: "Toggle preview", Category: plugin.CategoryView, Context: keymap.ContextList, Priority: 6},
		)
	}
	if p.results != nil {
		cmds = append(cmds, plugin.Command{ID: "clear-search", Name: "All", Description: "Show every note", Category: plugin.CategorySearch, Context: keymap.ContextList, Priority: 7})
	}
	return cmds
}

// FocusContext returns the current focus context.
func (p *Plugin) FocusContext() string {
	if p.searchMode {
		return keymap.ContextSearch
	}
	if p.form.IsOpen() {
		return keymap.ContextForm
	}
	return keymap.ContextList
}

// ConsumesTextInput reports whether printable keys are being typed.
func (p *Plugin) ConsumesTextInput() bool {
	return p.searchMode || p.form.IsOpen()
}

// ListEmpty reports the "empty list" flag.
func (p *Plugin) ListEmpty() bool { return p.list.Empty() }

package notes

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "title starts with…"
	ti.CharLimit = 200
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

// visible returns the list the user is looking at.
func (p *Plugin) visible() *List {
	if p.results != nil {
		return p.results
	}
	return &p.list
}

// openSearch focuses the title search input.
func (p *Plugin) openSearch() tea.Cmd {
	p.searchMode = true
	p.search.SetValue(p.searchQuery)
	p.search.CursorEnd()
	return p.search.Focus()
}

// handleSearchKey edits the query; every change re-runs the prefix search.
func (p *Plugin) handleSearchKey(m tea.KeyMsg) tea.Cmd {
	if cmd, ok := p.ctx.Keymap.Lookup(p.FocusContext(), m.String()); ok {
		switch cmd {
		case "confirm":
			p.searchMode = false
			p.search.Blur()
			return nil
		case "cancel":
			return p.clearSearch()
		}
	}

	var cmd tea.Cmd
	p.search, cmd = p.search.Update(m)
	query := p.search.Value()
	if query == p.searchQuery {
		return cmd
	}
	p.searchQuery = query
	return tea.Batch(cmd, p.runSearch(query))
}

// clearSearch drops the query and returns to the full list.
func (p *Plugin) clearSearch() tea.Cmd {
	p.searchMode = false
	p.searchQuery = ""
	p.results = nil
	p.search.Reset()
	p.search.Blur()
	return nil
}

// runSearch asks the store for notes whose title starts with query.
func (p *Plugin) runSearch(query string) tea.Cmd {
	if strings.TrimSpace(query) == "" {
		p.results = nil
		return nil
	}
	gw := p.gateway
	ctx := p.runCtx
	return func() tea.Msg {
		notes, err := gw.SearchTitle(ctx, query)
		return SearchResultsMsg{Query: query, Notes: notes, Err: err}
	}
}

// refreshSearch re-runs the active query after the store changed.
func (p *Plugin) refreshSearch() tea.Cmd {
	if p.searchQuery == "" {
		return nil
	}
	return p.runSearch(p.searchQuery)
}

// onSearchResults shows results for the current query; stale ones are dropped.
func (p *Plugin) onSearchResults(m SearchResultsMsg) tea.Cmd {
	if m.Query != p.searchQuery {
		return nil
	}
	if m.Err != nil {
		p.logger.Error("notes: search failed", "query", m.Query, "error", m.Err)
		return nil
	}
	results := &List{}
	results.Load(m.Notes)
	if p.results != nil {
		results.cursor = p.results.cursor
		results.clampCursor()
	}
	p.results = results
	return nil
}

package notes

import notesdb "github.com/marcus/eureka/internal/notes"

// NotesLoadedMsg carries the result of a full list read.
type NotesLoadedMsg struct {
	Notes   []notesdb.Note
	Err     error
	Refresh bool // true when triggered by an external store change
}

// SearchResultsMsg carries the result of a title prefix search.
type SearchResultsMsg struct {
	Query string
	Notes []notesdb.Note
	Err   error
}

// NoteCreatedMsg reports a finished create.
type NoteCreatedMsg struct {
	Note notesdb.Note
	Err  error
}

// NoteUpdatedMsg reports a finished update.
type NoteUpdatedMsg struct {
	Note notesdb.Note
	Err  error
}

// NoteDeletedMsg reports a finished delete.
type NoteDeletedMsg struct {
	ID  string
	Err error
}

// StoreChangedMsg is sent when the store file changed on disk.
type StoreChangedMsg struct{}

// watchStoppedMsg is sent when the watch channel closes.
type watchStoppedMsg struct{}

// Package uistate holds the entry panel's form mode and selected note, and
// mirrors both into session-scoped storage on every change.
package uistate

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/marcus/eureka/internal/notes"
)

// FormMode is whether the entry panel creates or edits a note.
type FormMode string

const (
	ModeNew  FormMode = "new"
	ModeEdit FormMode = "edit"
)

// Session mirror keys.
const (
	KeyFormMode     = "noteFormMode"
	KeySelectedNote = "selectedNote"
)

// nullMarker is stored under KeySelectedNote when nothing is selected.
const nullMarker = "null"

var (
	// ErrInvalidMode is returned for a form mode outside {new, edit}, or for
	// edit mode without a selected note.
	ErrInvalidMode = errors.New("invalid mode")
	// ErrInvalidSelection is returned when selecting a note without an ID.
	ErrInvalidSelection = errors.New("invalid selection")
)

// Mirror is the session-scoped key/value persistence the store writes
// through to. SetItems must store all pairs or none.
type Mirror interface {
	SetItems(items map[string]string) error
}

// Store is the single source of truth for form mode and selection.
// The invariant selected == nil <=> mode == ModeNew holds after every call.
type Store struct {
	mu       sync.RWMutex
	mirror   Mirror
	mode     FormMode
	selected *notes.Note
}

// New creates a store in ModeNew with nothing selected and mirrors that state.
func New(mirror Mirror) (*Store, error) {
	s := &Store{mirror: mirror}
	if err := s.SetSelectedNote(nil); err != nil {
		return nil, err
	}
	return s, nil
}

// FormMode returns the current mode.
func (s *Store) FormMode() FormMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// SelectedNote returns a copy of the selected note, or nil.
func (s *Store) SelectedNote() *notes.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return nil
	}
	n := *s.selected
	return &n
}

// SetSelectedNote selects note (switching to ModeEdit) or clears the
// selection with nil (switching to ModeNew). Both values are mirrored
// before it returns.
func (s *Store) SetSelectedNote(note *notes.Note) error {
	if note != nil && strings.TrimSpace(note.ID) == "" {
		return fmt.Errorf("%w: note has no id", ErrInvalidSelection)
	}

	mode := ModeNew
	raw := nullMarker
	var selected *notes.Note
	if note != nil {
		n := *note
		selected = &n
		mode = ModeEdit
		data, err := json.Marshal(selected)
		if err != nil {
			return fmt.Errorf("marshal selected note: %w", err)
		}
		raw = string(data)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mirrorLocked(mode, raw); err != nil {
		return err
	}
	s.mode = mode
	s.selected = selected
	return nil
}

// SetFormMode sets the mode directly. ModeNew also clears the selection;
// ModeEdit is only accepted while a note is selected.
func (s *Store) SetFormMode(mode FormMode) error {
	switch mode {
	case ModeNew:
		return s.SetSelectedNote(nil)
	case ModeEdit:
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.selected == nil {
			return fmt.Errorf("%w: %q requires a selected note", ErrInvalidMode, mode)
		}
		if err := s.writeMirror(map[string]string{KeyFormMode: string(mode)}); err != nil {
			return err
		}
		s.mode = mode
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
}

// mirrorLocked writes both keys in one call. Caller must hold mu.
func (s *Store) mirrorLocked(mode FormMode, selected string) error {
	return s.writeMirror(map[string]string{
		KeyFormMode:     string(mode),
		KeySelectedNote: selected,
	})
}

func (s *Store) writeMirror(items map[string]string) error {
	if s.mirror == nil {
		return nil
	}
	if err := s.mirror.SetItems(items); err != nil {
		return fmt.Errorf("mirror session: %w", err)
	}
	return nil
}

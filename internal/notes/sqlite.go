package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps notes in a SQLite database. The schema version lives
// in PRAGMA user_version.
type SQLiteStore struct {
	opts Options
}

// Path returns the database file.
func (s *SQLiteStore) Path() string { return s.opts.Path }

// Backend returns BackendSQLite.
func (s *SQLiteStore) Backend() string { return BackendSQLite }

// dsn builds the connection string for the configured driver.
func (s *SQLiteStore) dsn() string {
	if s.opts.Driver == DriverPure {
		return "file:" + s.opts.Path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	return s.opts.Path + "?_busy_timeout=5000&_journal_mode=WAL"
}

// connect opens the database and runs pending upgrades.
func (s *SQLiteStore) connect(ctx context.Context) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(s.opts.Path), 0o755); err != nil {
		return nil, &OpError{Op: "connect", Kind: ErrConnection, Err: err}
	}
	db, err := sql.Open(s.opts.Driver, s.dsn())
	if err != nil {
		return nil, &OpError{Op: "connect", Kind: ErrConnection, Err: err}
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &OpError{Op: "connect", Kind: ErrConnection, Err: err}
	}
	if err := s.upgrade(ctx, db); err != nil {
		db.Close()
		return nil, &OpError{Op: "connect", Kind: ErrConnection, Err: fmt.Errorf("upgrade schema: %w", err)}
	}
	return db, nil
}

// upgrade creates the notes table and title index when the stored version
// is behind schemaVersion.
func (s *SQLiteStore) upgrade(ctx context.Context, db *sql.DB) error {
	var version int
	if err := db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&version); err != nil {
		return err
	}
	if version >= schemaVersion {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	schema := `
CREATE TABLE IF NOT EXISTS notes (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    date TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notes_title ON notes(title);
`
	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d`, schemaVersion)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.opts.Logger.Debug("notes: schema upgraded", "path", s.opts.Path, "from", version, "to", schemaVersion)
	return nil
}

// Connect opens and upgrades the store, then closes it.
func (s *SQLiteStore) Connect(ctx context.Context) error {
	db, err := s.connect(ctx)
	if err != nil {
		return err
	}
	return db.Close()
}

// Create inserts a new note and returns it as read back from the store.
func (s *SQLiteStore) Create(ctx context.Context, title, description string) (Note, error) {
	db, err := s.connect(ctx)
	if err != nil {
		return Note{}, err
	}
	defer db.Close()

	note := Note{
		ID:          s.opts.NewID(),
		Title:       title,
		Description: description,
		Date:        StampDate(s.opts.Now()),
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Note{}, opErr("create", "", ErrWrite, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO notes (id, title, description, date)
		VALUES (?, ?, ?, ?)
	`, note.ID, note.Title, note.Description, note.Date)
	if err != nil {
		return Note{}, opErr("create", note.ID, ErrWrite, fmt.Errorf("insert note: %w", err))
	}

	stored, err := getNote(ctx, tx, note.ID)
	if err != nil {
		return Note{}, opErr("create", note.ID, ErrWrite, fmt.Errorf("read back: %w", err))
	}
	if err := tx.Commit(); err != nil {
		return Note{}, opErr("create", note.ID, ErrWrite, err)
	}

	s.opts.Logger.Debug("notes: created", "id", stored.ID)
	return stored, nil
}

// List retrieves every note in insertion order.
func (s *SQLiteStore) List(ctx context.Context) ([]Note, error) {
	db, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	notes, err := queryNotes(ctx, db, `
		SELECT id, title, description, date
		FROM notes
		ORDER BY rowid`)
	if err != nil {
		return nil, opErr("list", "", ErrRead, err)
	}
	return notes, nil
}

// SearchTitle retrieves notes whose title starts with prefix using the title index.
func (s *SQLiteStore) SearchTitle(ctx context.Context, prefix string) ([]Note, error) {
	if prefix == "" {
		return s.List(ctx)
	}
	db, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var notes []Note
	if upper := titleUpperBound(prefix); upper != "" {
		notes, err = queryNotes(ctx, db, `
			SELECT id, title, description, date
			FROM notes INDEXED BY idx_notes_title
			WHERE title >= ? AND title < ?
			ORDER BY title`, prefix, upper)
	} else {
		notes, err = queryNotes(ctx, db, `
			SELECT id, title, description, date
			FROM notes INDEXED BY idx_notes_title
			WHERE title >= ?
			ORDER BY title`, prefix)
	}
	if err != nil {
		return nil, opErr("search", "", ErrRead, err)
	}
	return notes, nil
}

// Delete removes a note. Absent IDs are not an error.
func (s *SQLiteStore) Delete(ctx context.Context, id string) (string, error) {
	db, err := s.connect(ctx)
	if err != nil {
		return "", err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id); err != nil {
		return "", opErr("delete", id, ErrWrite, err)
	}
	s.opts.Logger.Debug("notes: deleted", "id", id)
	return id, nil
}

// Update overwrites title and description of an existing note.
func (s *SQLiteStore) Update(ctx context.Context, note Note) error {
	db, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return opErr("update", note.ID, ErrWrite, err)
	}
	defer tx.Rollback()

	if _, err := getNote(ctx, tx, note.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return opErr("update", note.ID, ErrNotFound, nil)
		}
		return opErr("update", note.ID, ErrWrite, fmt.Errorf("get previous state: %w", err))
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE notes SET title = ?, description = ?
		WHERE id = ?
	`, note.Title, note.Description, note.ID)
	if err != nil {
		return opErr("update", note.ID, ErrWrite, fmt.Errorf("update note: %w", err))
	}
	if err := tx.Commit(); err != nil {
		return opErr("update", note.ID, ErrWrite, err)
	}

	s.opts.Logger.Debug("notes: updated", "id", note.ID)
	return nil
}

// getNote reads one note inside tx. Returns sql.ErrNoRows when absent.
func getNote(ctx context.Context, tx *sql.Tx, id string) (Note, error) {
	var note Note
	err := tx.QueryRowContext(ctx, `
		SELECT id, title, description, date
		FROM notes WHERE id = ?
	`, id).Scan(&note.ID, &note.Title, &note.Description, &note.Date)
	return note, err
}

// queryNotes executes a query and returns notes.
func queryNotes(ctx context.Context, db *sql.DB, query string, args ...any) ([]Note, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	notes := []Note{}
	for rows.Next() {
		var note Note
		if err := rows.Scan(&note.ID, &note.Title, &note.Description, &note.Date); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

package notes

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendBbolt  = "bbolt"
)

// SQL drivers for the sqlite backend.
const (
	DriverCGO  = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPure = "sqlite"  // modernc.org/sqlite
)

// schemaVersion is the store layout version. Bumping it runs the upgrade
// path on the next connect.
const schemaVersion = 1

// Gateway is durable CRUD over notes. Every call opens its own connection
// and runs in a single transaction; nothing is shared between calls.
type Gateway interface {
	// Connect opens (creating or upgrading on first use) the store and closes it again.
	Connect(ctx context.Context) error
	Create(ctx context.Context, title, description string) (Note, error)
	List(ctx context.Context) ([]Note, error)
	// SearchTitle returns notes whose title starts with prefix, in title order.
	SearchTitle(ctx context.Context, prefix string) ([]Note, error)
	// Delete removes the note. Deleting an absent ID succeeds.
	Delete(ctx context.Context, id string) (string, error)
	// Update overwrites title and description of an existing note.
	Update(ctx context.Context, note Note) error
	Path() string
	Backend() string
}

// Options configures Open.
type Options struct {
	Backend string // BackendSQLite (default) or BackendBbolt
	Path    string // database file
	Driver  string // sqlite only: DriverCGO (default) or DriverPure
	Logger  *slog.Logger

	// NewID and Now are injectable for tests.
	NewID func() string
	Now   func() time.Time
}

// Open returns the Gateway for the configured backend. It does not touch
// the store; the first operation does.
func Open(opts Options) (Gateway, error) {
	opts.Path = strings.TrimSpace(opts.Path)
	if opts.Path == "" {
		return nil, errors.New("notes: db path is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.NewID == nil {
		opts.NewID = NewID
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendSQLite:
		driver := strings.TrimSpace(opts.Driver)
		if driver == "" {
			driver = DriverCGO
		}
		if driver != DriverCGO && driver != DriverPure {
			return nil, errors.New("notes: unsupported sqlite driver: " + opts.Driver)
		}
		opts.Driver = driver
		return &SQLiteStore{opts: opts}, nil
	case BackendBbolt:
		return &BoltStore{opts: opts}, nil
	default:
		return nil, errors.New("notes: unsupported backend: " + opts.Backend)
	}
}

// titleUpperBound returns the smallest string greater than every string
// with the given prefix, or "" when no such bound exists.
func titleUpperBound(prefix string) string {
	b := []byte(prefix)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < 0xff {
			b[i]++
			return string(b[:i+1])
		}
	}
	return ""
}

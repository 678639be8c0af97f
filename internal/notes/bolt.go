package notes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketMeta       = []byte("meta")
	bucketNotes      = []byte("notes")
	bucketTitleIndex = []byte("notes_by_title")
	keyVersion       = []byte("version")
)

// titleKeySep separates title and ID in index keys.
const titleKeySep = 0x00

// errDuplicateID aborts a create whose generated ID is already taken.
var errDuplicateID = errors.New("note id already exists")

// BoltStore keeps notes in a bbolt file: JSON records keyed by ID in the
// notes bucket, plus a title index bucket keyed by title+0x00+ID.
type BoltStore struct {
	opts Options
}

// Path returns the database file.
func (s *BoltStore) Path() string { return s.opts.Path }

// Backend returns BackendBbolt.
func (s *BoltStore) Backend() string { return BackendBbolt }

// connect opens the database and runs pending upgrades. bbolt holds an
// exclusive file lock while open, so concurrent calls wait on each other.
func (s *BoltStore) connect(ctx context.Context) (*bolt.DB, error) {
	if err := ctx.Err(); err != nil {
		return nil, &OpError{Op: "connect", Kind: ErrConnection, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(s.opts.Path), 0o700); err != nil {
		return nil, &OpError{Op: "connect", Kind: ErrConnection, Err: err}
	}
	db, err := bolt.Open(s.opts.Path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, &OpError{Op: "connect", Kind: ErrConnection, Err: err}
	}
	if err := s.upgrade(db); err != nil {
		_ = db.Close()
		return nil, &OpError{Op: "connect", Kind: ErrConnection, Err: fmt.Errorf("upgrade schema: %w", err)}
	}
	return db, nil
}

// upgrade only opens a write transaction when the stored version is
// behind, so connecting to a current store never writes the file.
func (s *BoltStore) upgrade(db *bolt.DB) error {
	from, err := storedVersion(db)
	if err != nil {
		return err
	}
	if from >= schemaVersion {
		return nil
	}

	err = db.Update(func(tx *bolt.Tx) error {
		meta, err := tx.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(bucketNotes); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(bucketTitleIndex); err != nil {
			return err
		}
		return meta.Put(keyVersion, []byte(strconv.Itoa(schemaVersion)))
	})
	if err == nil {
		s.opts.Logger.Debug("notes: schema upgraded", "path", s.opts.Path, "from", from, "to", schemaVersion)
	}
	return err
}

// storedVersion reads the schema version; a missing meta bucket is version 0.
func storedVersion(db *bolt.DB) (int, error) {
	var version int
	err := db.View(func(tx *bolt.Tx) error {
		meta := tx.Bucket(bucketMeta)
		if meta == nil {
			return nil
		}
		raw := meta.Get(keyVersion)
		if raw == nil {
			return nil
		}
		v, err := strconv.Atoi(string(raw))
		if err != nil {
			return fmt.Errorf("bad schema version %q: %w", raw, err)
		}
		version = v
		return nil
	})
	return version, err
}

// Connect opens and upgrades the store, then closes it.
func (s *BoltStore) Connect(ctx context.Context) error {
	db, err := s.connect(ctx)
	if err != nil {
		return err
	}
	return db.Close()
}

// Create inserts a new note and returns it as read back from the store.
func (s *BoltStore) Create(ctx context.Context, title, description string) (Note, error) {
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

	var stored Note
	err = db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotes)
		if b.Get([]byte(note.ID)) != nil {
			return errDuplicateID
		}
		if err := putNote(tx, note); err != nil {
			return err
		}
		return json.Unmarshal(b.Get([]byte(note.ID)), &stored)
	})
	if err != nil {
		return Note{}, opErr("create", note.ID, ErrWrite, err)
	}

	s.opts.Logger.Debug("notes: created", "id", stored.ID)
	return stored, nil
}

// List retrieves every note in key order.
func (s *BoltStore) List(ctx context.Context) ([]Note, error) {
	db, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	out := []Note{}
	err = db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketNotes).ForEach(func(_, v []byte) error {
			var note Note
			if err := json.Unmarshal(v, &note); err != nil {
				return err
			}
			out = append(out, note)
			return nil
		})
	})
	if err != nil {
		return nil, opErr("list", "", ErrRead, err)
	}
	return out, nil
}

// SearchTitle walks the title index from prefix while keys still match.
func (s *BoltStore) SearchTitle(ctx context.Context, prefix string) ([]Note, error) {
	db, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	out := []Note{}
	err = db.View(func(tx *bolt.Tx) error {
		notesBucket := tx.Bucket(bucketNotes)
		c := tx.Bucket(bucketTitleIndex).Cursor()
		p := []byte(prefix)
		for k, _ := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, _ = c.Next() {
			sep := bytes.LastIndexByte(k, titleKeySep)
			if sep < 0 {
				continue
			}
			raw := notesBucket.Get(k[sep+1:])
			if raw == nil {
				continue
			}
			var note Note
			if err := json.Unmarshal(raw, &note); err != nil {
				return err
			}
			out = append(out, note)
		}
		return nil
	})
	if err != nil {
		return nil, opErr("search", "", ErrRead, err)
	}
	return out, nil
}

// Delete removes a note and its index entry. Absent IDs are not an error.
func (s *BoltStore) Delete(ctx context.Context, id string) (string, error) {
	db, err := s.connect(ctx)
	if err != nil {
		return "", err
	}
	defer db.Close()

	err = db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotes)
		raw := b.Get([]byte(id))
		if raw == nil {
			return nil
		}
		var prev Note
		if err := json.Unmarshal(raw, &prev); err != nil {
			return err
		}
		if err := tx.Bucket(bucketTitleIndex).Delete(titleKey(prev)); err != nil {
			return err
		}
		return b.Delete([]byte(id))
	})
	if err != nil {
		return "", opErr("delete", id, ErrWrite, err)
	}
	s.opts.Logger.Debug("notes: deleted", "id", id)
	return id, nil
}

// Update overwrites title and description of an existing note.
func (s *BoltStore) Update(ctx context.Context, note Note) error {
	db, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	err = db.Update(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketNotes).Get([]byte(note.ID))
		if raw == nil {
			return ErrNotFound
		}
		var prev Note
		if err := json.Unmarshal(raw, &prev); err != nil {
			return err
		}
		if err := tx.Bucket(bucketTitleIndex).Delete(titleKey(prev)); err != nil {
			return err
		}
		prev.Title = note.Title
		prev.Description = note.Description
		return putNote(tx, prev)
	})
	if errors.Is(err, ErrNotFound) {
		return opErr("update", note.ID, ErrNotFound, nil)
	}
	if err != nil {
		return opErr("update", note.ID, ErrWrite, err)
	}
	s.opts.Logger.Debug("notes: updated", "id", note.ID)
	return nil
}

// putNote writes the record and its title index entry.
func putNote(tx *bolt.Tx, note Note) error {
	raw, err := json.Marshal(note)
	if err != nil {
		return err
	}
	if err := tx.Bucket(bucketNotes).Put([]byte(note.ID), raw); err != nil {
		return err
	}
	return tx.Bucket(bucketTitleIndex).Put(titleKey(note), []byte{})
}

func titleKey(note Note) []byte {
	key := make([]byte, 0, len(note.Title)+1+len(note.ID))
	key = append(key, note.Title...)
	key = append(key, titleKeySep)
	return append(key, note.ID...)
}

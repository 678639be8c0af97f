package notes

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// testGateways returns one fresh gateway per backend.
func testGateways(t *testing.T, mutate func(*Options)) map[string]Gateway {
	t.Helper()
	out := make(map[string]Gateway)
	for _, tc := range []struct {
		name string
		opts Options
	}{
		{"sqlite", Options{Backend: BackendSQLite, Driver: DriverPure, Path: filepath.Join(t.TempDir(), "eureka.db")}},
		{"bbolt", Options{Backend: BackendBbolt, Path: filepath.Join(t.TempDir(), "eureka.bolt")}},
	} {
		opts := tc.opts
		if mutate != nil {
			mutate(&opts)
		}
		gw, err := Open(opts)
		if err != nil {
			t.Fatalf("Open(%s): %v", tc.name, err)
		}
		out[tc.name] = gw
	}
	return out
}

func TestCreateThenList(t *testing.T) {
	ctx := context.Background()
	for name, gw := range testGateways(t, nil) {
		t.Run(name, func(t *testing.T) {
			created, err := gw.Create(ctx, "Groceries", "buy milk")
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if !strings.HasPrefix(created.ID, "nt-") {
				t.Errorf("ID = %q, want nt- prefix", created.ID)
			}
			if _, err := time.Parse(DateLayout, created.Date); err != nil {
				t.Errorf("Date %q is not ISO-8601: %v", created.Date, err)
			}

			list, err := gw.List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(list) != 1 {
				t.Fatalf("got %d notes, want 1", len(list))
			}
			if list[0] != created {
				t.Errorf("listed %+v, want %+v", list[0], created)
			}
		})
	}
}

func TestListEmpty(t *testing.T) {
	for name, gw := range testGateways(t, nil) {
		t.Run(name, func(t *testing.T) {
			list, err := gw.List(context.Background())
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if list == nil || len(list) != 0 {
				t.Errorf("List = %#v, want empty non-nil slice", list)
			}
		})
	}
}

func TestCreateUsesInjectedClockAndIDs(t *testing.T) {
	fixed := time.Date(2026, 10, 17, 9, 30, 0, 123_000_000, time.FixedZone("X", 2*3600))
	gws := testGateways(t, func(o *Options) {
		o.NewID = func() string { return "nt-fixed" }
		o.Now = func() time.Time { return fixed }
	})
	for name, gw := range gws {
		t.Run(name, func(t *testing.T) {
			note, err := gw.Create(context.Background(), "a", "b")
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if note.ID != "nt-fixed" {
				t.Errorf("ID = %q", note.ID)
			}
			if note.Date != "2026-10-17T07:30:00.123Z" {
				t.Errorf("Date = %q, want UTC millisecond stamp", note.Date)
			}
		})
	}
}

func TestCreateDuplicateIDFails(t *testing.T) {
	gws := testGateways(t, func(o *Options) {
		o.NewID = func() string { return "nt-same" }
	})
	ctx := context.Background()
	for name, gw := range gws {
		t.Run(name, func(t *testing.T) {
			if _, err := gw.Create(ctx, "first", "one"); err != nil {
				t.Fatalf("first Create: %v", err)
			}
			_, err := gw.Create(ctx, "second", "two")
			if !errors.Is(err, ErrWrite) {
				t.Fatalf("second Create error = %v, want ErrWrite", err)
			}
			list, err := gw.List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(list) != 1 || list[0].Title != "first" {
				t.Errorf("store changed after aborted create: %+v", list)
			}
		})
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	for name, gw := range testGateways(t, nil) {
		t.Run(name, func(t *testing.T) {
			note, err := gw.Create(ctx, "Groceries", "buy milk")
			if err != nil {
				t.Fatalf("Create: %v", err)
			}

			for i := 0; i < 2; i++ {
				id, err := gw.Delete(ctx, note.ID)
				if err != nil {
					t.Fatalf("Delete #%d: %v", i+1, err)
				}
				if id != note.ID {
					t.Errorf("Delete returned %q, want %q", id, note.ID)
				}
				list, err := gw.List(ctx)
				if err != nil {
					t.Fatalf("List: %v", err)
				}
				if len(list) != 0 {
					t.Errorf("after delete #%d got %d notes", i+1, len(list))
				}
			}

			if _, err := gw.Delete(ctx, "nt-never-existed"); err != nil {
				t.Errorf("Delete of absent id: %v", err)
			}
		})
	}
}

func TestUpdateChangesOnlyTitleAndDescription(t *testing.T) {
	ctx := context.Background()
	for name, gw := range testGateways(t, nil) {
		t.Run(name, func(t *testing.T) {
			first, err := gw.Create(ctx, "first", "one")
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			second, err := gw.Create(ctx, "second", "two")
			if err != nil {
				t.Fatalf("Create: %v", err)
			}

			edited := first
			edited.Description = "updated"
			edited.Date = "1999-01-01T00:00:00.000Z"
			if err := gw.Update(ctx, edited); err != nil {
				t.Fatalf("Update: %v", err)
			}

			list, err := gw.List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			byID := map[string]Note{}
			for _, n := range list {
				byID[n.ID] = n
			}
			got := byID[first.ID]
			if got.Description != "updated" || got.Title != "first" {
				t.Errorf("updated note = %+v", got)
			}
			if got.Date != first.Date {
				t.Errorf("Date changed: %q -> %q", first.Date, got.Date)
			}
			if byID[second.ID] != second {
				t.Errorf("second note changed: %+v", byID[second.ID])
			}
		})
	}
}

func TestUpdateMissingNote(t *testing.T) {
	ctx := context.Background()
	for name, gw := range testGateways(t, nil) {
		t.Run(name, func(t *testing.T) {
			existing, err := gw.Create(ctx, "kept", "as is")
			if err != nil {
				t.Fatalf("Create: %v", err)
			}

			err = gw.Update(ctx, Note{ID: "nt-missing", Title: "x", Description: "y"})
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("Update error = %v, want ErrNotFound", err)
			}
			var oe *OpError
			if !errors.As(err, &oe) || oe.Op != "update" || oe.ID != "nt-missing" {
				t.Errorf("error = %#v, want update OpError for nt-missing", err)
			}

			list, err := gw.List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(list) != 1 || list[0] != existing {
				t.Errorf("store changed: %+v", list)
			}
		})
	}
}

func TestSearchTitleUsesIndex(t *testing.T) {
	ctx := context.Background()
	for name, gw := range testGateways(t, nil) {
		t.Run(name, func(t *testing.T) {
			for _, title := range []string{"Work", "Gym", "Groceries", "Gym"} {
				if _, err := gw.Create(ctx, title, "d"); err != nil {
					t.Fatalf("Create(%q): %v", title, err)
				}
			}

			got, err := gw.SearchTitle(ctx, "G")
			if err != nil {
				t.Fatalf("SearchTitle: %v", err)
			}
			var titles []string
			for _, n := range got {
				titles = append(titles, n.Title)
			}
			want := "Groceries,Gym,Gym"
			if strings.Join(titles, ",") != want {
				t.Errorf("titles = %v, want %s", titles, want)
			}

			// The index follows renames.
			renamed := got[0]
			renamed.Title = "Errands"
			if err := gw.Update(ctx, renamed); err != nil {
				t.Fatalf("Update: %v", err)
			}
			got, err = gw.SearchTitle(ctx, "Gr")
			if err != nil {
				t.Fatalf("SearchTitle: %v", err)
			}
			if len(got) != 0 {
				t.Errorf("stale index entry: %+v", got)
			}
			got, err = gw.SearchTitle(ctx, "Err")
			if err != nil {
				t.Fatalf("SearchTitle: %v", err)
			}
			if len(got) != 1 || got[0].ID != renamed.ID {
				t.Errorf("renamed note not found: %+v", got)
			}
		})
	}
}

func TestConnectionError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	gws := testGateways(t, func(o *Options) {
		o.Path = filepath.Join(blocker, "notes.db")
	})
	for name, gw := range gws {
		t.Run(name, func(t *testing.T) {
			_, err := gw.List(context.Background())
			if !errors.Is(err, ErrConnection) {
				t.Errorf("List error = %v, want ErrConnection", err)
			}
			if err := gw.Connect(context.Background()); !errors.Is(err, ErrConnection) {
				t.Errorf("Connect error = %v, want ErrConnection", err)
			}
		})
	}
}

func TestSQLiteSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eureka.db")
	gw, err := Open(Options{Path: path, Driver: DriverPure})
	if err != nil {
		t.Fatal(err)
	}
	// Connecting twice must be harmless.
	for i := 0; i < 2; i++ {
		if err := gw.Connect(context.Background()); err != nil {
			t.Fatalf("Connect #%d: %v", i+1, err)
		}
	}

	db, err := sql.Open(DriverPure, path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var version int
	if err := db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		t.Fatal(err)
	}
	if version != schemaVersion {
		t.Errorf("user_version = %d, want %d", version, schemaVersion)
	}
	var index string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'index' AND tbl_name = 'notes' AND name = 'idx_notes_title'`).Scan(&index)
	if err != nil {
		t.Errorf("title index missing: %v", err)
	}
}

func TestOpenValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"empty path", Options{}},
		{"unknown backend", Options{Path: "x.db", Backend: "indexeddb"}},
		{"unknown driver", Options{Path: "x.db", Driver: "postgres"}},
	}
	for _, tc := range tests {
		if _, err := Open(tc.opts); err == nil {
			t.Errorf("%s: Open should fail", tc.name)
		}
	}

	gw, err := Open(Options{Path: "x.db"})
	if err != nil {
		t.Fatalf("Open defaults: %v", err)
	}
	if gw.Backend() != BackendSQLite {
		t.Errorf("default backend = %q", gw.Backend())
	}
}

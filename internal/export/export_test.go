package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/marcus/eureka/internal/notes"
	"gopkg.in/yaml.v3"
)

// parseExported reads a rendered file back, splitting on the "---"
// delimiter lines only.
func parseExported(data []byte) (notes.Note, error) {
	var note notes.Note
	text := string(data)
	if !strings.HasPrefix(text, "---\n") {
		return note, errors.New("missing opening delimiter")
	}
	rest := text[len("---\n"):]
	end := strings.Index(rest, "\n---\n")
	if end < 0 {
		return note, errors.New("missing closing delimiter")
	}
	if err := yaml.Unmarshal([]byte(rest[:end+1]), &note); err != nil {
		return note, err
	}
	body := strings.TrimPrefix(rest[end+len("\n---\n"):], "\n")
	note.Description = strings.TrimSuffix(body, "\n")
	return note, nil
}

type staticLister struct {
	notes []notes.Note
	err   error
}

func (s staticLister) List(context.Context) ([]notes.Note, error) {
	return s.notes, s.err
}

func TestRender(t *testing.T) {
	tests := []notes.Note{
		{ID: "nt-1", Title: "Groceries: weekly", Description: "- milk\n- eggs", Date: "2026-10-17T07:30:00.123Z"},
		{ID: "nt-2", Title: "a---b", Description: "---\nnot frontmatter\n---", Date: "2026-10-17T07:30:00.123Z"},
		{ID: "nt-3", Title: "---", Description: "x", Date: "2026-10-17T07:30:00.123Z"},
	}
	for _, note := range tests {
		t.Run(note.ID, func(t *testing.T) {
			data, err := Render(note)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			text := string(data)
			if !strings.HasPrefix(text, "---\nid: "+note.ID+"\n") {
				t.Errorf("unexpected frontmatter:\n%s", text)
			}
			if strings.Contains(text, "description:") {
				t.Error("description belongs in the body, not the frontmatter")
			}

			got, err := parseExported(data)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got != note {
				t.Errorf("parsed %+v, want %+v", got, note)
			}
		})
	}
}

func TestExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	lister := staticLister{notes: []notes.Note{
		{ID: "nt-a", Title: "a", Description: "first", Date: "2026-10-17T00:00:00.000Z"},
		{ID: "../nt-b", Title: "b", Description: "second", Date: "2026-10-17T00:00:00.000Z"},
	}}

	n, err := Export(context.Background(), lister, dir)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if n != 2 {
		t.Errorf("exported %d, want 2", n)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d files, want 2", len(entries))
	}
	data, err := os.ReadFile(filepath.Join(dir, "nt-a.md"))
	if err != nil {
		t.Fatal(err)
	}
	got, err := parseExported(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.Description != "first" {
		t.Errorf("description = %q", got.Description)
	}
	if _, err := os.Stat(filepath.Join(dir, "__nt-b.md")); err != nil {
		t.Errorf("sanitized file missing: %v", err)
	}
}

func TestExportListError(t *testing.T) {
	want := errors.New("boom")
	if _, err := Export(context.Background(), staticLister{err: want}, t.TempDir()); !errors.Is(err, want) {
		t.Errorf("error = %v, want %v", err, want)
	}
}

func TestExportWithGateway(t *testing.T) {
	gw, err := notes.Open(notes.Options{Backend: notes.BackendBbolt, Path: filepath.Join(t.TempDir(), "n.bolt")})
	if err != nil {
		t.Fatal(err)
	}
	created, err := gw.Create(context.Background(), "Gym", "legs")
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	if _, err := Export(context.Background(), gw, dir); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, created.ID+".md")); err != nil {
		t.Errorf("missing export file: %v", err)
	}
}

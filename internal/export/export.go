// Package export writes notes out as markdown files with YAML frontmatter.
package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/marcus/eureka/internal/notes"
	"gopkg.in/yaml.v3"
)

// Lister is the part of notes.Gateway the exporter needs.
type Lister interface {
	List(ctx context.Context) ([]notes.Note, error)
}

// Render returns the markdown form of a note: id, title and date in the
// frontmatter, the description as the body.
func Render(note notes.Note) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("---\n")

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(note); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}

	buf.WriteString("---\n\n")
	buf.WriteString(note.Description)
	if !strings.HasSuffix(note.Description, "\n") {
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// Export writes every note to dir as <id>.md and returns how many were written.
func Export(ctx context.Context, gw Lister, dir string) (int, error) {
	list, err := gw.List(ctx)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("create export dir: %w", err)
	}

	for i, note := range list {
		data, err := Render(note)
		if err != nil {
			return i, fmt.Errorf("export %s: %w", note.ID, err)
		}
		path := filepath.Join(dir, fileName(note.ID))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return i, fmt.Errorf("export %s: %w", note.ID, err)
		}
	}
	return len(list), nil
}

// fileName keeps ids from escaping the export directory.
func fileName(id string) string {
	id = strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(id)
	if id == "" {
		id = "untitled"
	}
	return id + ".md"
}

package notes

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	notesdb "github.com/marcus/eureka/internal/notes"
)

func ids(l *List) string {
	var out []string
	for _, n := range l.Items() {
		out = append(out, n.ID)
	}
	return strings.Join(out, ",")
}

func TestListEmptyFlag(t *testing.T) {
	var l List
	if l.Empty() {
		t.Error("empty flag should stay unset before the first load")
	}
	l.Load(nil)
	if !l.Empty() {
		t.Error("empty flag should be set after loading nothing")
	}
	l.Prepend(notesdb.Note{ID: "a"})
	if l.Empty() {
		t.Error("prepend should clear the empty flag")
	}
	l.Remove("a")
	if !l.Empty() {
		t.Error("removing the last item should set the empty flag")
	}
}

func TestListPrependRemovePatch(t *testing.T) {
	var l List
	l.Load([]notesdb.Note{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}})
	l.MoveCursor(1)

	l.Prepend(notesdb.Note{ID: "c", Title: "C"})
	if got := ids(&l); got != "c,a,b" {
		t.Errorf("order = %s", got)
	}
	if l.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0 after prepend", l.Cursor())
	}

	// Prepending a known id moves it instead of duplicating.
	l.Prepend(notesdb.Note{ID: "b", Title: "B"})
	if got := ids(&l); got != "b,c,a" {
		t.Errorf("order after re-prepend = %s", got)
	}

	if !l.Patch(notesdb.Note{ID: "a", Title: "A2", Description: "new", Date: "ignored"}) {
		t.Fatal("Patch should find a")
	}
	items := l.Items()
	if items[2].Title != "A2" || items[2].Description != "new" || items[2].Date != "" {
		t.Errorf("patched item = %+v", items[2])
	}
	if l.Patch(notesdb.Note{ID: "zz"}) {
		t.Error("Patch of unknown id should report false")
	}

	l.CursorBottom()
	if !l.Remove("a") || l.Cursor() != 1 {
		t.Errorf("cursor after removing the last item = %d", l.Cursor())
	}
	if l.Remove("a") {
		t.Error("second Remove should report false")
	}
}

func TestListSync(t *testing.T) {
	var l List
	l.Load([]notesdb.Note{{ID: "a"}, {ID: "b"}, {ID: "c"}})
	l.Prepend(notesdb.Note{ID: "d"})

	l.Sync([]notesdb.Note{{ID: "a", Title: "changed"}, {ID: "c"}, {ID: "d"}, {ID: "e"}})
	if got := ids(&l); got != "e,d,a,c" {
		t.Errorf("order = %s, want e,d,a,c", got)
	}
	if l.Items()[2].Title != "changed" {
		t.Error("sync should take stored content")
	}
}

func TestListView(t *testing.T) {
	var l List
	if !strings.Contains(l.View(40, 10, true, "none"), "Loading") {
		t.Error("unloaded list should say it is loading")
	}
	l.Load(nil)
	if got := l.View(40, 10, true, "none"); !strings.Contains(got, "none") {
		t.Errorf("empty view = %q", got)
	}

	l.Load([]notesdb.Note{
		{ID: "a", Title: "Groceries", Description: "buy milk\nand eggs", Date: "2026-10-17T09:30:00.000Z"},
		{ID: "b", Title: strings.Repeat("long title ", 10), Description: "x", Date: "2026-10-16T09:30:00.000Z"},
	})
	out := l.View(30, 20, true, "none")
	plain := ansi.Strip(out)
	if !strings.Contains(plain, "Groceries") || !strings.Contains(plain, "buy milk …") {
		t.Errorf("view missing content:\n%s", plain)
	}
	if !strings.Contains(plain, "> ") {
		t.Error("cursor marker missing")
	}
	for _, line := range strings.Split(plain, "\n") {
		if w := ansi.StringWidth(line); w > 30 {
			t.Errorf("line %q is %d cells wide", line, w)
		}
	}
}

func TestListScroll(t *testing.T) {
	var l List
	var notes []notesdb.Note
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		notes = append(notes, notesdb.Note{ID: id, Title: "title-" + id})
	}
	l.Load(notes)
	l.CursorBottom()
	out := ansi.Strip(l.View(40, 8, true, ""))
	if !strings.Contains(out, "title-e") || strings.Contains(out, "title-a") {
		t.Errorf("view did not scroll to cursor:\n%s", out)
	}
}

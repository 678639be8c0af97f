package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestWidest(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  int
	}{
		{"empty", []string{}, 0},
		{"single", []string{"hello"}, 5},
		{"multiple", []string{"hi", "hello", "hey"}, 5},
		{"with ansi", []string{"\x1b[31mred\x1b[0m"}, 3},
		{"wide runes", []string{"日本"}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := widest(tt.lines); got != tt.want {
				t.Errorf("widest() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSpliceRow(t *testing.T) {
	tests := []struct {
		name     string
		bg       string
		box      string
		x        int
		boxWidth int
	}{
		{"centered", "background text here", "[BOX]", 5, 5},
		{"left edge", "background", "[B]", 0, 3},
		{"background shorter than x", "hi", "[BOX]", 10, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := spliceRow(tt.bg, tt.box, tt.x, tt.boxWidth)
			if !strings.Contains(got, tt.box) {
				t.Errorf("spliceRow() missing box content %q in %q", tt.box, got)
			}
			plain := ansi.Strip(got)
			if idx := strings.Index(plain, tt.box); ansi.StringWidth(plain[:idx]) != tt.x {
				t.Errorf("box starts at column %d, want %d", ansi.StringWidth(plain[:idx]), tt.x)
			}
		})
	}
}

func TestOverlay(t *testing.T) {
	bg := strings.Repeat(strings.Repeat(".", 20)+"\n", 9) + strings.Repeat(".", 20)
	got := Overlay(bg, "NOTICE", 20, 10)

	lines := strings.Split(got, "\n")
	if len(lines) != 10 {
		t.Fatalf("got %d lines, want 10", len(lines))
	}
	found := -1
	for i, line := range lines {
		if strings.Contains(line, "NOTICE") {
			found = i
		}
	}
	if found != 4 {
		t.Errorf("box on row %d, want 4", found)
	}
	if plain := ansi.Strip(lines[4]); plain != ".......NOTICE......." {
		t.Errorf("row = %q", plain)
	}
}

func TestRenderNotice(t *testing.T) {
	out := ansi.Strip(RenderNotice("Note added successfully!", false, 80))
	if !strings.Contains(out, "Note added successfully!") {
		t.Errorf("notice missing message:\n%s", out)
	}
	if !strings.Contains(out, "dismiss") {
		t.Error("notice missing dismiss hint")
	}
	if errOut := ansi.Strip(RenderNotice("oops", true, 80)); !strings.Contains(errOut, "ERROR") {
		t.Error("error notice should be labelled")
	}
}

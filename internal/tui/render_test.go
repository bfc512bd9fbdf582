package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/typerace/internal/cursor"
)

func render(text string, width, typed int, showLive bool, ghostIndex int) string {
	runes := []rune(text)
	l := cursor.NewLayout(runes, width)
	live := cursor.Position(l, typed)
	var ghost *cursor.Point
	if ghostIndex >= 0 {
		p := cursor.Position(l, ghostIndex)
		ghost = &p
	}
	return stripANSI(renderText(l, styleRunes(runes, runes[:typed], typed), live, showLive, ghost))
}

func TestRenderTextWraps(t *testing.T) {
	got := render("aaa bbb", 4, 0, false, -1)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", got)
	}
	if lines[0] != " aaa " || lines[1] != " bbb" {
		t.Fatalf("unexpected lines: %q", lines)
	}
}

func TestRenderTextTrailingCaret(t *testing.T) {
	if got := render("ab", 0, 2, true, -1); got != " ab"+trailingCaret {
		t.Fatalf("unexpected render: %q", got)
	}
}

func TestRenderTextGhostInGutter(t *testing.T) {
	if got := render("ab", 0, 1, true, 0); got != leadingCaret+"ab" {
		t.Fatalf("unexpected render: %q", got)
	}
}

func TestRenderTextLiveWinsSharedCell(t *testing.T) {
	if got := render("ab", 0, 0, true, 0); got != leadingCaret+"ab" {
		t.Fatalf("unexpected render: %q", got)
	}
}

func TestStyleRunesMarksMistypedSpace(t *testing.T) {
	runes := styleRunes([]rune("a b"), []rune("axb"), 3)
	if runes[1].r != '•' {
		t.Fatalf("expected mistyped space marker, got %q", runes[1].r)
	}
}

func TestWordForCursor(t *testing.T) {
	words := findWords([]rune("ab  cd"))
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	if w := wordForCursor(words, 3); w == nil || w.start != 4 {
		t.Fatalf("expected next word for cursor on a space, got %+v", w)
	}
	if w := wordForCursor(words, 6); w != nil {
		t.Fatalf("expected no current word past the end, got %+v", w)
	}
}

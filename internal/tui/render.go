package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typerace/internal/cursor"
)

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	caretStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	ghostColor       = lipgloss.Color("#3A6EA5")
	ghostStyle       = lipgloss.NewStyle().Foreground(ghostColor)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	noticeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	resultStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// Caret glyphs for a cursor that sits between cells: hugging the first
// character from the gutter, or the trailing edge of the last one.
const (
	leadingCaret  = "▕"
	trailingCaret = "▏"
)

type styledRune struct {
	r     rune
	style lipgloss.Style
}

func styleRunes(targetRunes, inputRunes []rune, cursorIndex int) []styledRune {
	words := findWords(targetRunes)
	currentWord := wordForCursor(words, cursorIndex)

	out := make([]styledRune, 0, len(targetRunes))
	for i, target := range targetRunes {
		displayed := target
		style := pendingStyle
		if i < len(inputRunes) {
			switch {
			case target == ' ' && inputRunes[i] != ' ':
				displayed = '•'
				style = incorrectStyle
			case inputRunes[i] == target:
				style = correctStyle
			default:
				style = incorrectStyle
			}
		} else if target != ' ' && currentWord != nil && i >= currentWord.start && i < currentWord.end {
			style = currentWordStyle
		}
		out = append(out, styledRune{r: displayed, style: style})
	}
	return out
}

type wordRange struct {
	start int
	end   int
}

func findWords(targetRunes []rune) []wordRange {
	words := []wordRange{}
	start := -1
	for i, r := range targetRunes {
		if r == ' ' {
			if start != -1 {
				words = append(words, wordRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, wordRange{start: start, end: len(targetRunes)})
	}
	return words
}

func wordForCursor(words []wordRange, cursorIndex int) *wordRange {
	if len(words) == 0 {
		return nil
	}
	if cursorIndex < 0 {
		return &words[0]
	}
	for i, w := range words {
		if cursorIndex < w.end {
			return &words[i]
		}
	}
	return nil
}

type cell struct {
	s    string
	char bool
	cont bool
}

// renderText draws the wrapped text with a gutter column on the left so a
// cursor at X = -StartInset has a cell. The live cursor wins when both
// cursors share a cell. A nil ghost is not drawn.
func renderText(l cursor.Layout, runes []styledRune, live cursor.Point, showLive bool, ghost *cursor.Point) string {
	if l.Len() == 0 {
		return ""
	}
	lines := make([]string, l.Rows())
	for y := range lines {
		var cells []cell
		put := func(x int, c cell) {
			col := x + cursor.StartInset
			for len(cells) <= col {
				cells = append(cells, cell{s: " "})
			}
			cells[col] = c
		}
		occupied := func(x int) bool {
			col := x + cursor.StartInset
			return col < len(cells) && (cells[col].char || cells[col].cont)
		}

		for _, i := range l.Row(y) {
			a := l.AnchorOf(i)
			p := cursor.Point{X: a.X, Y: a.Y}
			style := runes[i].style
			switch {
			case showLive && p == live:
				style = style.Underline(true)
			case ghost != nil && p == *ghost:
				style = style.Background(ghostColor)
			}
			put(a.X, cell{s: style.Render(string(runes[i].r)), char: true})
			for k := 1; k < a.Width; k++ {
				put(a.X+k, cell{cont: true})
			}
		}
		if ghost != nil && ghost.Y == y && !occupied(ghost.X) && !(showLive && live == *ghost) {
			put(ghost.X, cell{s: ghostStyle.Render(caretGlyph(ghost.X))})
		}
		if showLive && live.Y == y && !occupied(live.X) {
			put(live.X, cell{s: caretStyle.Render(caretGlyph(live.X))})
		}

		var b strings.Builder
		for _, c := range cells {
			if !c.cont {
				b.WriteString(c.s)
			}
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

func caretGlyph(x int) string {
	if x < 0 {
		return leadingCaret
	}
	return trailingCaret
}

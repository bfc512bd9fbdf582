// Package cursor maps character indexes to screen cells.
package cursor

import "github.com/mattn/go-runewidth"

// Anchor is the cell a character occupies.
type Anchor struct {
	X     int
	Y     int
	Width int
}

// Layout is the precomputed anchor table for one wrapped text.
type Layout struct {
	anchors []Anchor
	width   int
	rows    int
}

// NewLayout word-wraps text to width columns and records every rune's cell.
// Spaces at a break hang at the end of the line they follow. A word wider
// than the line is broken between runes. Width <= 0 disables wrapping.
func NewLayout(text []rune, width int) Layout {
	l := Layout{anchors: make([]Anchor, len(text)), width: width}
	x, y := 0, 0
	for i, r := range text {
		w := runewidth.RuneWidth(r)
		if r != ' ' && width > 0 && x > 0 {
			if i == 0 || text[i-1] == ' ' {
				if x+wordWidth(text[i:]) > width {
					x, y = 0, y+1
				}
			} else if x+w > width {
				x, y = 0, y+1
			}
		}
		l.anchors[i] = Anchor{X: x, Y: y, Width: w}
		x += w
	}
	if len(text) > 0 {
		l.rows = y + 1
	}
	return l
}

func wordWidth(runes []rune) int {
	total := 0
	for _, r := range runes {
		if r == ' ' {
			break
		}
		total += runewidth.RuneWidth(r)
	}
	return total
}

// Len returns the number of anchored characters.
func (l Layout) Len() int {
	return len(l.anchors)
}

// Rows returns the number of wrapped lines.
func (l Layout) Rows() int {
	return l.rows
}

// Width returns the wrap width the layout was built for.
func (l Layout) Width() int {
	return l.width
}

// AnchorOf returns the cell of the character at index.
func (l Layout) AnchorOf(index int) Anchor {
	return l.anchors[index]
}

// Row returns the character indexes on line y, in order.
func (l Layout) Row(y int) []int {
	var out []int
	for i, a := range l.anchors {
		if a.Y == y {
			out = append(out, i)
		} else if a.Y > y {
			break
		}
	}
	return out
}

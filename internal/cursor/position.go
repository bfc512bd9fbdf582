package cursor

import "time"

// StartInset is how far the cursor sits left of the first character
// before anything is typed.
const StartInset = 1

// Point is a cursor cell. X may be -StartInset or one past a line's last cell.
type Point struct {
	X int
	Y int
}

// Position places a cursor that has index characters behind it. The live
// cursor and the race ghost both go through this function.
func Position(l Layout, index int) Point {
	n := l.Len()
	if n == 0 {
		return Point{X: -StartInset}
	}
	switch {
	case index <= 0:
		first := l.AnchorOf(0)
		return Point{X: first.X - StartInset, Y: first.Y}
	case index < n:
		a := l.AnchorOf(index)
		return Point{X: a.X, Y: a.Y}
	default:
		last := l.AnchorOf(n - 1)
		return Point{X: last.X + last.Width, Y: last.Y}
	}
}

// MotionWindow is how long a cursor counts as moving after it changes cell.
const MotionWindow = 150 * time.Millisecond

// Motion tracks whether a cursor moved recently. Idle cursors blink.
type Motion struct {
	pos     Point
	changed time.Time
	seen    bool
}

// Observe records the cursor position at now.
func (m *Motion) Observe(p Point, now time.Time) {
	if m.seen && p == m.pos {
		return
	}
	m.pos = p
	m.changed = now
	m.seen = true
}

// Moving reports whether the last change was within MotionWindow of now.
func (m *Motion) Moving(now time.Time) bool {
	if !m.seen {
		return false
	}
	return now.Sub(m.changed) < MotionWindow
}

package cursor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLayoutWrapsAtWords(t *testing.T) {
	l := NewLayout([]rune("one two three"), 8)
	require.Equal(t, 13, l.Len())
	require.Equal(t, 2, l.Rows())

	assert.Equal(t, Anchor{X: 0, Y: 0, Width: 1}, l.AnchorOf(0))
	assert.Equal(t, Anchor{X: 4, Y: 0, Width: 1}, l.AnchorOf(4))
	// The space after "two" hangs on the first line.
	assert.Equal(t, Anchor{X: 7, Y: 0, Width: 1}, l.AnchorOf(7))
	assert.Equal(t, Anchor{X: 0, Y: 1, Width: 1}, l.AnchorOf(8))
	assert.Equal(t, []int{8, 9, 10, 11, 12}, l.Row(1))
}

func TestNewLayoutBreaksLongWord(t *testing.T) {
	l := NewLayout([]rune("abcdefgh"), 3)
	assert.Equal(t, 3, l.Rows())
	assert.Equal(t, Anchor{X: 0, Y: 1, Width: 1}, l.AnchorOf(3))
	assert.Equal(t, Anchor{X: 1, Y: 2, Width: 1}, l.AnchorOf(7))
}

func TestNewLayoutNoWrap(t *testing.T) {
	l := NewLayout([]rune("one two three"), 0)
	assert.Equal(t, 1, l.Rows())
	assert.Equal(t, 12, l.AnchorOf(12).X)
}

func TestNewLayoutWideRunes(t *testing.T) {
	l := NewLayout([]rune("日本 語"), 10)
	assert.Equal(t, Anchor{X: 2, Y: 0, Width: 2}, l.AnchorOf(1))
	assert.Equal(t, Anchor{X: 5, Y: 0, Width: 2}, l.AnchorOf(3))
}

func TestPosition(t *testing.T) {
	l := NewLayout([]rune("one two three"), 8)

	assert.Equal(t, Point{X: -StartInset, Y: 0}, Position(l, 0))
	assert.Equal(t, Point{X: 1, Y: 0}, Position(l, 1))
	assert.Equal(t, Point{X: 0, Y: 1}, Position(l, 8))
	assert.Equal(t, Point{X: 5, Y: 1}, Position(l, 13))
	assert.Equal(t, Point{X: 5, Y: 1}, Position(l, 99))
}

func TestPositionEmptyLayout(t *testing.T) {
	assert.Equal(t, Point{X: -StartInset}, Position(NewLayout(nil, 10), 3))
}

func TestMotion(t *testing.T) {
	var m Motion
	now := time.Unix(0, 0)
	assert.False(t, m.Moving(now))

	m.Observe(Point{X: 1}, now)
	assert.True(t, m.Moving(now.Add(100*time.Millisecond)))
	assert.False(t, m.Moving(now.Add(MotionWindow)))

	// Same position does not restart the window.
	m.Observe(Point{X: 1}, now.Add(140*time.Millisecond))
	assert.False(t, m.Moving(now.Add(160*time.Millisecond)))

	m.Observe(Point{X: 2}, now.Add(200*time.Millisecond))
	assert.True(t, m.Moving(now.Add(300*time.Millisecond)))
}

// Package ghost derives the race-mode ghost position from elapsed time.
package ghost

import (
	"time"

	"github.com/verte-zerg/typerace/internal/metrics"
	"github.com/verte-zerg/typerace/internal/model"
)

// Ghost replays a fixed typing pace against the session clock.
type Ghost struct {
	target model.GhostTarget
}

// New returns a ghost that types at target.WPM.
func New(target model.GhostTarget) *Ghost {
	return &Ghost{target: target}
}

// Target returns the pace the ghost follows.
func (g *Ghost) Target() model.GhostTarget {
	return g.target
}

// Index returns how many characters the ghost has typed after elapsed,
// clamped to [0, textLen].
func (g *Ghost) Index(elapsed time.Duration, textLen int) int {
	return Index(elapsed, g.target.WPM, textLen)
}

// Index computes floor(elapsed seconds * wpm*5/60) clamped to [0, textLen].
func Index(elapsed time.Duration, wpm, textLen int) int {
	if elapsed <= 0 || wpm <= 0 || textLen <= 0 {
		return 0
	}
	// Integer math keeps whole-second boundaries exact.
	chars := elapsed.Milliseconds() * int64(wpm) * metrics.CharsPerWord / (60 * 1000)
	if chars > int64(textLen) {
		return textLen
	}
	return int(chars)
}

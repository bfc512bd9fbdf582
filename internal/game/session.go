// Package game implements the typing session state machine.
package game

import (
	"time"

	"github.com/verte-zerg/typerace/internal/metrics"
	"github.com/verte-zerg/typerace/internal/model"
)

// Phase is the lifecycle stage of a session.
type Phase int

const (
	// PhaseIdle waits for the first keystroke.
	PhaseIdle Phase = iota
	// PhaseActive counts down while the player types.
	PhaseActive
	// PhaseFinished is terminal until the session is reset.
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseActive:
		return "active"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Session owns the state of one play-through. It is not safe for concurrent
// use; the host serializes every call.
type Session struct {
	clock Clock
	id    uint64

	text      []rune
	input     []rune
	startedAt time.Time
	remaining int
	duration  int
	phase     Phase

	liveWPM int
	history History
	result  *model.FinalResult
}

// NewSession creates an idle session for text with a countdown of duration seconds.
func NewSession(clock Clock, text string, duration int) *Session {
	if clock == nil {
		clock = SystemClock{}
	}
	s := &Session{clock: clock}
	s.Reset(text, duration)
	return s
}

// Reset discards all progress and starts a new idle session.
func (s *Session) Reset(text string, duration int) {
	if duration < 0 {
		duration = 0
	}
	s.id++
	s.text = []rune(text)
	s.input = nil
	s.startedAt = time.Time{}
	s.duration = duration
	s.remaining = duration
	s.phase = PhaseIdle
	s.liveWPM = 0
	s.history.Reset()
	s.result = nil
}

// ID identifies the current session lifetime; it changes on every Reset.
func (s *Session) ID() uint64 { return s.id }

// Phase returns the lifecycle stage.
func (s *Session) Phase() Phase { return s.phase }

// Text returns the excerpt being typed.
func (s *Session) Text() []rune { return s.text }

// Input returns the typed runes.
func (s *Session) Input() []rune { return s.input }

// Remaining returns the seconds left on the countdown.
func (s *Session) Remaining() int { return s.remaining }

// Duration returns the configured countdown length.
func (s *Session) Duration() int { return s.duration }

// StartedAt returns the time of the first keystroke and whether it happened.
func (s *Session) StartedAt() (time.Time, bool) {
	return s.startedAt, s.phase != PhaseIdle
}

// LiveWPM returns the most recent live WPM.
func (s *Session) LiveWPM() int { return s.liveWPM }

// History returns the per-second WPM samples collected so far.
func (s *Session) History() []model.WPMSample { return s.history.Samples() }

// Result returns the final result once the session has finished.
func (s *Session) Result() (model.FinalResult, bool) {
	if s.result == nil {
		return model.FinalResult{}, false
	}
	out := *s.result
	out.WPMHistory = append([]model.WPMSample(nil), s.result.WPMHistory...)
	return out, true
}

// Elapsed returns time since the first keystroke, or zero before it.
func (s *Session) Elapsed() time.Duration {
	if s.phase == PhaseIdle {
		return 0
	}
	return s.clock.Now().Sub(s.startedAt)
}

// Type appends runes to the input. It reports whether the session finished.
func (s *Session) Type(runes []rune) bool {
	if s.phase == PhaseFinished {
		return false
	}
	for _, r := range runes {
		if len(s.input) >= len(s.text) {
			break
		}
		s.input = append(s.input, r)
		if s.phase == PhaseIdle {
			s.phase = PhaseActive
			s.startedAt = s.clock.Now()
		}
	}
	if s.phase == PhaseActive && len(s.text) > 0 && len(s.input) == len(s.text) {
		return s.finish()
	}
	return false
}

// Backspace removes the last typed rune.
func (s *Session) Backspace() {
	if s.phase == PhaseFinished || len(s.input) == 0 {
		return
	}
	s.input = s.input[:len(s.input)-1]
}

// Tick advances the countdown by one second. It reports whether the
// session finished.
func (s *Session) Tick() bool {
	if s.phase != PhaseActive {
		return false
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining == 0 {
		return s.finish()
	}
	return false
}

// Sample recomputes live WPM and records it for the current whole second.
func (s *Session) Sample() int {
	if s.phase != PhaseActive {
		return s.liveWPM
	}
	elapsed := s.Elapsed()
	s.liveWPM = metrics.LiveWPM(s.text, s.input, elapsed, s.liveWPM)
	if elapsed > 0 {
		s.history.Record(int(elapsed/time.Second), s.liveWPM)
	}
	return s.liveWPM
}

// SetDuration changes the countdown length. It only applies to an idle
// session; an active or finished countdown is left untouched.
func (s *Session) SetDuration(duration int) bool {
	if s.phase != PhaseIdle || duration < 0 {
		return false
	}
	s.duration = duration
	s.remaining = duration
	return true
}

func (s *Session) finish() bool {
	if s.phase != PhaseActive {
		return false
	}
	elapsed := s.Elapsed()
	final := metrics.FinalMetrics(s.text, s.input, int(elapsed/time.Second))
	s.result = &model.FinalResult{
		WPM:        final.WPM,
		Accuracy:   final.Accuracy,
		Duration:   final.Duration,
		WPMHistory: s.history.Samples(),
	}
	s.phase = PhaseFinished
	return true
}

// Package scheduler drives a session's periodic activities as Bubble Tea ticks.
package scheduler

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Kind names a periodic activity.
type Kind int

const (
	// Countdown decrements the session timer.
	Countdown Kind = iota
	// Metrics recomputes live WPM.
	Metrics
	// Ghost moves the race-mode ghost.
	Ghost
)

func (k Kind) String() string {
	switch k {
	case Countdown:
		return "countdown"
	case Metrics:
		return "metrics"
	case Ghost:
		return "ghost"
	default:
		return "unknown"
	}
}

// DefaultIntervals are the cadences of each activity.
var DefaultIntervals = map[Kind]time.Duration{
	Countdown: time.Second,
	Metrics:   100 * time.Millisecond,
	Ghost:     50 * time.Millisecond,
}

// TickMsg is delivered when an activity is due.
type TickMsg struct {
	Kind  Kind
	Epoch uint64
	Gen   uint64
	At    time.Time
}

// TickFunc builds the command that delivers a tick after d.
type TickFunc func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// Scheduler hands out epoch-scoped ticks. Start and Stop open a new epoch;
// ticks from an older epoch are dropped and never rescheduled, so each kind
// has at most one live ticker and none outlives the session that started it.
type Scheduler struct {
	intervals map[Kind]time.Duration
	epoch     uint64
	running   map[Kind]bool
	gen       map[Kind]uint64
	tick      TickFunc
}

// New returns a Scheduler with the given intervals. A nil map uses DefaultIntervals.
func New(intervals map[Kind]time.Duration) *Scheduler {
	if intervals == nil {
		intervals = DefaultIntervals
	}
	return &Scheduler{
		intervals: intervals,
		running:   map[Kind]bool{},
		gen:       map[Kind]uint64{},
		tick:      tea.Tick,
	}
}

// WithTickFunc replaces tea.Tick, for tests.
func (s *Scheduler) WithTickFunc(fn TickFunc) *Scheduler {
	s.tick = fn
	return s
}

// Epoch returns the current epoch.
func (s *Scheduler) Epoch() uint64 {
	return s.epoch
}

// Running reports whether kind has a live ticker.
func (s *Scheduler) Running(kind Kind) bool {
	return s.running[kind]
}

// Start cancels every live ticker and starts the given kinds in a new epoch.
func (s *Scheduler) Start(kinds ...Kind) tea.Cmd {
	s.Stop()
	cmds := make([]tea.Cmd, 0, len(kinds))
	for _, k := range kinds {
		if cmd := s.Add(k); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// Add starts kind in the current epoch unless it is already running.
func (s *Scheduler) Add(kind Kind) tea.Cmd {
	if s.running[kind] {
		return nil
	}
	cmd := s.schedule(kind)
	if cmd != nil {
		s.running[kind] = true
	}
	return cmd
}

// Stop cancels every live ticker.
func (s *Scheduler) Stop() {
	s.epoch++
	s.running = map[Kind]bool{}
}

// Cancel stops kind alone. Its in-flight tick becomes stale.
func (s *Scheduler) Cancel(kind Kind) {
	if !s.running[kind] {
		return
	}
	s.gen[kind]++
	delete(s.running, kind)
}

// Current reports whether msg belongs to the live ticker of its kind.
func (s *Scheduler) Current(msg TickMsg) bool {
	return msg.Epoch == s.epoch && s.running[msg.Kind] && msg.Gen == s.gen[msg.Kind]
}

// Next reschedules the ticker that delivered msg. Stale ticks return nil.
func (s *Scheduler) Next(msg TickMsg) tea.Cmd {
	if !s.Current(msg) {
		return nil
	}
	return s.schedule(msg.Kind)
}

func (s *Scheduler) schedule(kind Kind) tea.Cmd {
	d, ok := s.intervals[kind]
	if !ok || d <= 0 {
		return nil
	}
	epoch, gen := s.epoch, s.gen[kind]
	return s.tick(d, func(t time.Time) tea.Msg {
		return TickMsg{Kind: kind, Epoch: epoch, Gen: gen, At: t}
	})
}

package scheduler

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTicks struct {
	scheduled []time.Duration
}

func (f *fakeTicks) tick(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	f.scheduled = append(f.scheduled, d)
	return func() tea.Msg { return fn(time.Unix(0, 0)) }
}

func newTestScheduler() (*Scheduler, *fakeTicks) {
	f := &fakeTicks{}
	return New(nil).WithTickFunc(f.tick), f
}

func fire(t *testing.T, cmd tea.Cmd) TickMsg {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(TickMsg)
	require.True(t, ok)
	return msg
}

func TestStartSchedulesEachKind(t *testing.T) {
	s, f := newTestScheduler()
	cmd := s.Start(Countdown, Metrics, Ghost)
	require.NotNil(t, cmd)
	assert.ElementsMatch(t, []time.Duration{time.Second, 100 * time.Millisecond, 50 * time.Millisecond}, f.scheduled)
	assert.True(t, s.Running(Countdown))
	assert.True(t, s.Running(Ghost))
}

func TestNextReschedulesCurrentTick(t *testing.T) {
	s, f := newTestScheduler()
	msg := fire(t, s.Add(Countdown))
	assert.Equal(t, Countdown, msg.Kind)
	assert.Equal(t, s.Epoch(), msg.Epoch)

	next := s.Next(msg)
	require.NotNil(t, next)
	assert.Len(t, f.scheduled, 2)
}

func TestStopDropsStaleTicks(t *testing.T) {
	s, _ := newTestScheduler()
	msg := fire(t, s.Add(Metrics))
	s.Stop()
	assert.False(t, s.Current(msg))
	assert.Nil(t, s.Next(msg))
	assert.False(t, s.Running(Metrics))
}

func TestRestartKeepsOneTickerPerKind(t *testing.T) {
	s, _ := newTestScheduler()
	old := fire(t, s.Add(Countdown))
	require.NotNil(t, s.Start(Countdown))

	assert.Nil(t, s.Add(Countdown), "already running in this epoch")
	assert.Nil(t, s.Next(old), "ticker from the previous session must die")
}

func TestUnknownIntervalNotScheduled(t *testing.T) {
	s := New(map[Kind]time.Duration{Countdown: time.Second})
	assert.Nil(t, s.Add(Ghost))
	assert.False(t, s.Running(Ghost))
}

func TestCancelStopsOneKind(t *testing.T) {
	s, _ := newTestScheduler()
	require.NotNil(t, s.Start(Countdown, Ghost))
	old := fire(t, s.Add(Metrics))

	s.Cancel(Metrics)
	assert.False(t, s.Running(Metrics))
	assert.True(t, s.Running(Countdown))
	assert.Nil(t, s.Next(old))

	again := fire(t, s.Add(Metrics))
	assert.False(t, s.Current(old), "cancelled tick stays stale after re-adding")
	assert.True(t, s.Current(again))
}

package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typerace/internal/model"
)

func newTestSession(text string, duration int) (*Session, *ManualClock) {
	clock := NewManualClock(time.Unix(1_700_000_000, 0))
	return NewSession(clock, text, duration), clock
}

func TestSessionStartsOnFirstKeystroke(t *testing.T) {
	s, _ := newTestSession("the quick fox", 30)
	require.Equal(t, PhaseIdle, s.Phase())
	_, started := s.StartedAt()
	require.False(t, started)
	require.Equal(t, 30, s.Remaining())

	s.Type(nil)
	require.Equal(t, PhaseIdle, s.Phase())

	s.Type([]rune("t"))
	require.Equal(t, PhaseActive, s.Phase())
	_, started = s.StartedAt()
	require.True(t, started)
}

func TestSessionTickIgnoredWhileIdle(t *testing.T) {
	s, _ := newTestSession("abc", 30)
	assert.False(t, s.Tick())
	assert.Equal(t, 30, s.Remaining())
}

func TestSessionCompletionScenario(t *testing.T) {
	s, clock := newTestSession("the quick fox", 30)
	s.Type([]rune("t"))
	clock.Advance(6 * time.Second)
	finished := s.Type([]rune("he quick fox"))
	require.True(t, finished)
	require.Equal(t, PhaseFinished, s.Phase())

	res, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, 6, res.Duration)
	assert.Equal(t, 100, res.Accuracy)
	assert.Equal(t, 26, res.WPM)
}

func TestSessionTimeoutScenario(t *testing.T) {
	s, clock := newTestSession("the quick fox", 30)
	s.Type([]rune("the quicXx"))
	finished := false
	for i := 0; i < 30; i++ {
		clock.Advance(time.Second)
		finished = s.Tick()
	}
	require.True(t, finished)
	require.Equal(t, 0, s.Remaining())

	res, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, 30, res.Duration)
	assert.Equal(t, 80, res.Accuracy)
	assert.Equal(t, 3, res.WPM)
}

func TestSessionFinishesOnce(t *testing.T) {
	s, clock := newTestSession("ab", 1)
	s.Type([]rune("a"))
	clock.Advance(time.Second)

	finishes := 0
	if s.Type([]rune("b")) {
		finishes++
	}
	if s.Tick() {
		finishes++
	}
	require.Equal(t, 1, finishes)

	first, _ := s.Result()
	clock.Advance(5 * time.Second)
	assert.False(t, s.Tick())
	assert.False(t, s.Type([]rune("x")))
	second, _ := s.Result()
	assert.Equal(t, first, second)
}

func TestSessionFinishedIgnoresMutation(t *testing.T) {
	s, clock := newTestSession("ab", 30)
	s.Type([]rune("ab"))
	require.Equal(t, PhaseFinished, s.Phase())
	history := s.History()
	remaining := s.Remaining()

	s.Backspace()
	clock.Advance(2 * time.Second)
	s.Sample()
	s.Tick()

	assert.Equal(t, "ab", string(s.Input()))
	assert.Equal(t, remaining, s.Remaining())
	assert.Equal(t, history, s.History())
}

func TestSessionInputNeverExceedsText(t *testing.T) {
	s, _ := newTestSession("abc", 30)
	s.Type([]rune("abcdef"))
	assert.Equal(t, "abc", string(s.Input()))
}

func TestSessionBackspace(t *testing.T) {
	s, _ := newTestSession("abc", 30)
	s.Backspace()
	s.Type([]rune("ax"))
	s.Backspace()
	assert.Equal(t, "a", string(s.Input()))
	assert.Equal(t, PhaseActive, s.Phase())
}

func TestSessionSampleHistoryDedup(t *testing.T) {
	s, clock := newTestSession("the quick brown fox jumps", 30)
	s.Type([]rune("t"))
	for i := 0; i < 35; i++ {
		clock.Advance(100 * time.Millisecond)
		if i%3 == 0 {
			s.Type([]rune(string(s.Text()[len(s.Input())])))
		}
		s.Sample()
	}
	history := s.History()
	require.NotEmpty(t, history)
	for i := 1; i < len(history); i++ {
		assert.Greater(t, history[i].TimeSeconds, history[i-1].TimeSeconds)
	}
	assert.Equal(t, 3, history[len(history)-1].TimeSeconds)
	assert.Equal(t, s.LiveWPM(), history[len(history)-1].WPM)
}

func TestSessionResultCarriesHistory(t *testing.T) {
	s, clock := newTestSession("abcdef", 30)
	s.Type([]rune("abc"))
	clock.Advance(1500 * time.Millisecond)
	s.Sample()
	clock.Advance(time.Second)
	s.Type([]rune("def"))

	res, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, []model.WPMSample{{TimeSeconds: 1, WPM: 24}}, res.WPMHistory)
}

func TestSessionResetRestoresIdle(t *testing.T) {
	s, clock := newTestSession("ab", 15)
	id := s.ID()
	s.Type([]rune("a"))
	clock.Advance(time.Second)
	s.Sample()
	s.Tick()

	s.Reset("other text", 30)
	assert.NotEqual(t, id, s.ID())
	assert.Equal(t, PhaseIdle, s.Phase())
	assert.Empty(t, s.Input())
	assert.Empty(t, s.History())
	assert.Equal(t, 30, s.Remaining())
	assert.Equal(t, 30, s.Duration())
	assert.Equal(t, "other text", string(s.Text()))
	assert.Equal(t, 0, s.LiveWPM())
	_, ok := s.Result()
	assert.False(t, ok)
	_, started := s.StartedAt()
	assert.False(t, started)
}

func TestSessionSetDurationOnlyWhileIdle(t *testing.T) {
	s, _ := newTestSession("abc", 30)
	require.True(t, s.SetDuration(15))
	assert.Equal(t, 15, s.Remaining())
	assert.Equal(t, 15, s.Duration())

	s.Type([]rune("a"))
	require.False(t, s.SetDuration(30))
	assert.Equal(t, 15, s.Remaining())
	assert.Equal(t, 15, s.Duration())
}

func TestHistoryRecord(t *testing.T) {
	var h History
	h.Record(0, 10)
	h.Record(0, 12)
	h.Record(1, 20)
	h.Record(0, 99)
	h.Record(-1, 5)
	assert.Equal(t, []model.WPMSample{{TimeSeconds: 0, WPM: 12}, {TimeSeconds: 1, WPM: 20}}, h.Samples())
}

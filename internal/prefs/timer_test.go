package prefs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	durations map[string]int
	err       error
}

func (m *memStore) TimerDuration(_ context.Context, player string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	d, ok := m.durations[player]
	if !ok {
		return 0, errors.New("not found")
	}
	return d, nil
}

func (m *memStore) SetTimerDuration(_ context.Context, player string, d int) error {
	if m.err != nil {
		return m.err
	}
	if m.durations == nil {
		m.durations = map[string]int{}
	}
	m.durations[player] = d
	return nil
}

func TestLoadDefaultsWithoutIdentity(t *testing.T) {
	s := NewTimerService(&memStore{durations: map[string]int{"": 15}}, "  ", nil)
	assert.False(t, s.HasIdentity())
	assert.Equal(t, 30, s.Load(context.Background()))
}

func TestLoadDefaultsOnFailure(t *testing.T) {
	s := NewTimerService(&memStore{err: errors.New("db down")}, "ada", nil)
	assert.Equal(t, 30, s.Load(context.Background()))

	s = NewTimerService(&memStore{durations: map[string]int{"ada": 45}}, "ada", nil)
	assert.Equal(t, 30, s.Load(context.Background()))
}

func TestSaveAndLoad(t *testing.T) {
	st := &memStore{}
	s := NewTimerService(st, "ada", nil)
	require.NoError(t, s.Save(context.Background(), 15))
	assert.Equal(t, 15, s.Load(context.Background()))
}

func TestSaveRejections(t *testing.T) {
	s := NewTimerService(&memStore{}, "", nil)
	assert.ErrorIs(t, s.Save(context.Background(), 15), ErrNoIdentity)

	s = NewTimerService(&memStore{}, "ada", nil)
	assert.ErrorIs(t, s.Save(context.Background(), 20), ErrInvalidDuration)

	s = NewTimerService(&memStore{err: errors.New("locked")}, "ada", nil)
	err := s.Save(context.Background(), 30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save timer preference")
}

func TestToggle(t *testing.T) {
	assert.Equal(t, 15, Toggle(30))
	assert.Equal(t, 30, Toggle(15))
}

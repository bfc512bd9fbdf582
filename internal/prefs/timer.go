// Package prefs manages the player's timer preference.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// DefaultDuration is used when no preference can be loaded.
const DefaultDuration = 30

var (
	// ErrNoIdentity means no player name is configured, so nothing is saved.
	ErrNoIdentity = errors.New("player name is not set")
	// ErrInvalidDuration rejects durations other than 15 and 30.
	ErrInvalidDuration = errors.New("timer duration must be 15 or 30 seconds")
)

// Store persists per-player durations.
type Store interface {
	TimerDuration(ctx context.Context, player string) (int, error)
	SetTimerDuration(ctx context.Context, player string, duration int) error
}

// TimerService loads and saves the countdown preference for one player.
type TimerService struct {
	store  Store
	player string
	logger *slog.Logger
}

// NewTimerService returns a service for player. An empty player has no identity.
func NewTimerService(store Store, player string, logger *slog.Logger) *TimerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TimerService{
		store:  store,
		player: strings.TrimSpace(player),
		logger: logger,
	}
}

// HasIdentity reports whether preferences can be saved.
func (s *TimerService) HasIdentity() bool {
	return s.player != "" && s.store != nil
}

// Load returns the saved duration, or DefaultDuration on any failure.
func (s *TimerService) Load(ctx context.Context) int {
	if !s.HasIdentity() {
		return DefaultDuration
	}
	d, err := s.store.TimerDuration(ctx, s.player)
	if err != nil {
		s.logger.Debug("timer preference unavailable", "player", s.player, "error", err)
		return DefaultDuration
	}
	if !Valid(d) {
		s.logger.Warn("ignoring stored timer preference", "player", s.player, "duration", d)
		return DefaultDuration
	}
	return d
}

// Save stores duration for the player.
func (s *TimerService) Save(ctx context.Context, duration int) error {
	if !Valid(duration) {
		return ErrInvalidDuration
	}
	if !s.HasIdentity() {
		return ErrNoIdentity
	}
	if err := s.store.SetTimerDuration(ctx, s.player, duration); err != nil {
		return fmt.Errorf("failed to save timer preference: %w", err)
	}
	return nil
}

// Valid reports whether duration is a supported countdown.
func Valid(duration int) bool {
	return duration == 15 || duration == 30
}

// Toggle flips between the two supported durations.
func Toggle(duration int) int {
	if duration == 30 {
		return 15
	}
	return 30
}

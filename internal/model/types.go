// Package model defines shared data structures.
package model

import "time"

// Config defines game settings.
type Config struct {
	Player   string
	Duration int
	Race     bool
	Mode     string
	Words    int
	WordList string
	CapsPct  float64
	PunctPct float64
	ShareURL string
}

// WPMSample is one point of a session's WPM history.
type WPMSample struct {
	TimeSeconds int `json:"time" validate:"min=0"`
	WPM         int `json:"wpm" validate:"min=0,max=999"`
}

// FinalResult captures the metrics of a finished session.
type FinalResult struct {
	WPM        int
	Accuracy   int
	Duration   int
	WPMHistory []WPMSample
}

// GhostTarget is the pace the race-mode ghost follows.
type GhostTarget struct {
	WPM         int
	DisplayName *string
}

// Name returns the display name or "Anonymous".
func (g GhostTarget) Name() string {
	if g.DisplayName == nil || *g.DisplayName == "" {
		return "Anonymous"
	}
	return *g.DisplayName
}

// Submission is a finished result prepared for persistence.
type Submission struct {
	Player     *string     `json:"player,omitempty"`
	Excerpt    string      `json:"textExcerpt" validate:"required"`
	WPM        int         `json:"wpm" validate:"min=0,max=350"`
	Accuracy   int         `json:"accuracy" validate:"min=0,max=100"`
	Duration   int         `json:"duration" validate:"min=0,max=300"`
	WPMHistory []WPMSample `json:"wpmHistory,omitempty" validate:"dive"`
	ShortID    string      `json:"shortId,omitempty" validate:"omitempty,len=8"`
}

// LeaderboardEntry is one row of the leaderboard.
type LeaderboardEntry struct {
	ResultID   int64     `json:"-"`
	PlayerName *string   `json:"playerName"`
	WPM        int       `json:"wpm"`
	Accuracy   int       `json:"accuracy"`
	Duration   int       `json:"duration"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SharedResult is a result resolved from a share identifier.
type SharedResult struct {
	ShortID    string      `json:"shortId"`
	PlayerName *string     `json:"playerName"`
	WPM        int         `json:"wpm"`
	Accuracy   int         `json:"accuracy"`
	Duration   int         `json:"duration"`
	Excerpt    string      `json:"textExcerpt"`
	WPMHistory []WPMSample `json:"wpmHistory"`
	CreatedAt  time.Time   `json:"createdAt"`
}

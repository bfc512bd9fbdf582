package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/typerace/internal/model"
)

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{1, 2, 3, 4}, 2)
	want := []float64{1, 1.5, 2.5, 3.5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); len(got) != 3 {
		t.Fatalf("expected flat sparkline of 3, got %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
}

func TestHistorySparklineFillsGaps(t *testing.T) {
	history := []model.WPMSample{{TimeSeconds: 0, WPM: 10}, {TimeSeconds: 3, WPM: 40}}
	got := HistorySparkline(history)
	if len(got) != 4 {
		t.Fatalf("expected one cell per second, got %q", got)
	}
	if got[0] != got[2] || got[3] != '@' {
		t.Fatalf("unexpected sparkline %q", got)
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	results := []model.LeaderboardEntry{{WPM: 40, Accuracy: 90}, {WPM: 60, Accuracy: 100}}
	if err := RenderSummary(&buf, results, 2); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Results: 2", "Avg WPM: 50.0", "Best WPM: 60", "Avg Accuracy: 95.0%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %s", want, out)
		}
	}
}

func TestRenderLeaderboard(t *testing.T) {
	var buf bytes.Buffer
	name := "ada"
	entries := []model.LeaderboardEntry{
		{PlayerName: &name, WPM: 120, Accuracy: 99, Duration: 30},
		{WPM: 80, Accuracy: 95, Duration: 15},
	}
	if err := RenderLeaderboard(&buf, entries); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"ada", "Anonymous", "120", "95%", "15s"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %s", want, out)
		}
	}
}

func TestRenderLeaderboardEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderLeaderboard(&buf, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No results yet") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestRenderShared(t *testing.T) {
	var buf bytes.Buffer
	err := RenderShared(&buf, model.SharedResult{
		WPM:        26,
		Accuracy:   100,
		Duration:   6,
		Excerpt:    "the quick fox",
		WPMHistory: []model.WPMSample{{TimeSeconds: 0, WPM: 20}, {TimeSeconds: 1, WPM: 30}},
		CreatedAt:  time.Unix(0, 0),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Anonymous · 26 WPM · 100% accuracy · 6s") || !strings.Contains(out, "WPM   @") {
		t.Fatalf("unexpected output %s", out)
	}
}

// Package stats contains result summaries and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/typerace/internal/model"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// HistorySparkline renders a session's WPM history, one cell per second.
// Seconds without a sample repeat the previous value.
func HistorySparkline(history []model.WPMSample) string {
	if len(history) == 0 {
		return ""
	}
	last := history[len(history)-1].TimeSeconds
	values := make([]float64, 0, last+1)
	j := 0
	current := 0.0
	for sec := history[0].TimeSeconds; sec <= last; sec++ {
		for j < len(history) && history[j].TimeSeconds <= sec {
			current = float64(history[j].WPM)
			j++
		}
		values = append(values, current)
	}
	return Sparkline(values)
}

// RenderSummary prints a summary of results.
func RenderSummary(w io.Writer, results []model.LeaderboardEntry, window int) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	var totalWPM, totalAcc float64
	best := 0
	wpms := make([]float64, len(results))
	for i, r := range results {
		totalWPM += float64(r.WPM)
		totalAcc += float64(r.Accuracy)
		if r.WPM > best {
			best = r.WPM
		}
		wpms[i] = float64(r.WPM)
	}
	count := float64(len(results))
	lines := []string{
		"Summary",
		fmt.Sprintf("Results: %d", len(results)),
		fmt.Sprintf("Avg WPM: %.1f", totalWPM/count),
		fmt.Sprintf("Best WPM: %d", best),
		fmt.Sprintf("Avg Accuracy: %.1f%%", totalAcc/count),
		fmt.Sprintf("Trend: %s", Sparkline(MovingAverage(wpms, window))),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

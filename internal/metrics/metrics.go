// Package metrics computes typing speed and accuracy.
package metrics

import (
	"math"
	"time"
)

const (
	// CharsPerWord is the standardized word length used for WPM.
	CharsPerWord = 5
	// MaxWPM bounds every WPM value the engine produces.
	MaxWPM = 999
)

// CorrectChars counts positions where input matches text.
// Untyped trailing text and input beyond the text are ignored.
func CorrectChars(text, input []rune) int {
	n := len(input)
	if len(text) < n {
		n = len(text)
	}
	correct := 0
	for i := 0; i < n; i++ {
		if input[i] == text[i] {
			correct++
		}
	}
	return correct
}

// Accuracy returns the rounded percentage of typed characters that are correct.
func Accuracy(text, input []rune) int {
	if len(input) == 0 {
		return 0
	}
	return int(math.Round(100 * float64(CorrectChars(text, input)) / float64(len(input))))
}

// LiveWPM computes WPM for a session in progress.
// A non-positive elapsed time yields last unchanged.
func LiveWPM(text, input []rune, elapsed time.Duration, last int) int {
	if elapsed <= 0 {
		return last
	}
	return wpm(CorrectChars(text, input), elapsed.Seconds())
}

// Final holds the immutable metrics of a finished session.
type Final struct {
	WPM      int
	Accuracy int
	Duration int
}

// FinalMetrics computes the end-of-session metrics over whole seconds.
func FinalMetrics(text, input []rune, durationSeconds int) Final {
	if durationSeconds < 0 {
		durationSeconds = 0
	}
	out := Final{
		Accuracy: Accuracy(text, input),
		Duration: durationSeconds,
	}
	if durationSeconds > 0 {
		out.WPM = wpm(CorrectChars(text, input), float64(durationSeconds))
	}
	return out
}

func wpm(correct int, seconds float64) int {
	minutes := seconds / 60
	if minutes <= 0 {
		return 0
	}
	v := int(math.Round((float64(correct) / CharsPerWord) / minutes))
	if v > MaxWPM {
		return MaxWPM
	}
	return v
}

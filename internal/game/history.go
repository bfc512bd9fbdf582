package game

import "github.com/verte-zerg/typerace/internal/model"

// History is a per-second WPM record with at most one sample per second.
type History struct {
	samples []model.WPMSample
}

// Record stores wpm for the given whole second. A second equal to the last
// one overwrites it; an earlier second is dropped.
func (h *History) Record(second, wpm int) {
	if second < 0 {
		return
	}
	n := len(h.samples)
	if n > 0 {
		last := &h.samples[n-1]
		switch {
		case second == last.TimeSeconds:
			last.WPM = wpm
			return
		case second < last.TimeSeconds:
			return
		}
	}
	h.samples = append(h.samples, model.WPMSample{TimeSeconds: second, WPM: wpm})
}

// Samples returns a copy of the recorded samples.
func (h *History) Samples() []model.WPMSample {
	out := make([]model.WPMSample, len(h.samples))
	copy(out, h.samples)
	return out
}

// Len returns the number of samples.
func (h *History) Len() int {
	return len(h.samples)
}

// Reset clears the history.
func (h *History) Reset() {
	h.samples = nil
}

// Package report hands finished results to the host application.
package report

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/verte-zerg/typerace/internal/model"
)

// Storage range limits. Displayed WPM may go up to 999; submissions are
// clamped to these before they leave the core.
const (
	MaxStoredWPM      = 350
	MaxStoredAccuracy = 100
	MaxStoredDuration = 300
)

// NotifyFunc receives a finished result.
type NotifyFunc func(model.FinalResult)

// Reporter emits one notification per session.
type Reporter struct {
	notify   NotifyFunc
	reported uint64
	any      bool
}

// NewReporter returns a Reporter that calls notify.
func NewReporter(notify NotifyFunc) *Reporter {
	return &Reporter{notify: notify}
}

// Report notifies the host about result for the session identified by
// sessionID. Repeated calls for the same session are ignored.
func (r *Reporter) Report(sessionID uint64, result model.FinalResult) bool {
	if r.any && r.reported == sessionID {
		return false
	}
	r.any = true
	r.reported = sessionID
	if r.notify != nil {
		r.notify(result)
	}
	return true
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validator returns the validator used for submissions.
func Validator() *validator.Validate {
	return validate
}

// ForSubmission clamps result into storage ranges and validates it.
func ForSubmission(result model.FinalResult, excerpt string, player string) (model.Submission, error) {
	sub := model.Submission{
		Excerpt:    excerpt,
		WPM:        clamp(result.WPM, 0, MaxStoredWPM),
		Accuracy:   clamp(result.Accuracy, 0, MaxStoredAccuracy),
		Duration:   clamp(result.Duration, 0, MaxStoredDuration),
		WPMHistory: append([]model.WPMSample(nil), result.WPMHistory...),
	}
	if player = strings.TrimSpace(player); player != "" {
		sub.Player = &player
	}
	if err := validate.Struct(sub); err != nil {
		return model.Submission{}, fmt.Errorf("invalid submission: %w", err)
	}
	return sub, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

const shareAlphabet = "useandom-26T198340PX75pxJACKVERYMINDBUSHWOLF_GQZbfghjklqvwyzrict"

// ShareIDLength is the length of a share identifier.
const ShareIDLength = 8

// Bytes 6 and 8 of a v4 UUID carry version and variant bits.
var shareIDBytes = [ShareIDLength]int{0, 1, 2, 3, 4, 5, 7, 9}

// NewShareID returns a short random URL-safe identifier.
func NewShareID() string {
	id := uuid.New()
	var b strings.Builder
	b.Grow(ShareIDLength)
	for _, i := range shareIDBytes {
		b.WriteByte(shareAlphabet[int(id[i])&63])
	}
	return b.String()
}

// ShareURL joins base and id into a share link.
func ShareURL(base, id string) string {
	return strings.TrimRight(base, "/") + "/s/" + id
}

package schedule

import (
	"fmt"

	"github.com/zchut-miluim/mentoring-api/internal/models"
	appErrors "github.com/zchut-miluim/mentoring-api/pkg/errors"
)

// Interval is a half-open [Start, End) time range in minutes since midnight.
type Interval struct {
	Start int
	End   int
}

// ParseClock converts an "HH:MM" string to minutes since midnight. The clock
// must be zero-padded: stored times are compared as strings by the database
// overlap check, so an unpadded form like "9:30" would order after "10:00"
// and slip past it.
func ParseClock(clock string) (int, error) {
	if len(clock) != 5 || clock[2] != ':' {
		return 0, fmt.Errorf("invalid clock %q, want HH:MM", clock)
	}
	for i := 0; i < len(clock); i++ {
		if i == 2 {
			continue
		}
		if clock[i] < '0' || clock[i] > '9' {
			return 0, fmt.Errorf("invalid clock %q, want HH:MM", clock)
		}
	}
	hours := int(clock[0]-'0')*10 + int(clock[1]-'0')
	minutes := int(clock[3]-'0')*10 + int(clock[4]-'0')
	if hours > 23 || minutes > 59 {
		return 0, fmt.Errorf("clock %q out of range", clock)
	}
	return hours*60 + minutes, nil
}

// NewInterval parses a start/end clock pair. Zero-duration and inverted
// ranges are rejected.
func NewInterval(start, end string) (Interval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, appErrors.ErrInvalidInput.Status, "invalid start time")
	}
	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, appErrors.ErrInvalidInput.Status, "invalid end time")
	}
	if e <= s {
		return Interval{}, appErrors.Clone(appErrors.ErrInvalidInput, "start must precede end")
	}
	return Interval{Start: s, End: e}, nil
}

// Overlaps reports whether two half-open intervals intersect. Touching
// endpoints do not count as overlap.
func Overlaps(a, b Interval) bool {
	return !(a.End <= b.Start || a.Start >= b.End)
}

// Duration returns the interval length in hours.
func (iv Interval) Duration() float64 {
	return float64(iv.End-iv.Start) / 60.0
}

// FindConflict returns the first session that occupies the candidate range on
// the given date. Declined and cancelled sessions never conflict. Sessions
// whose times fail to parse are skipped; the booking path validates times
// before persisting, so such rows cannot hold a slot.
func FindConflict(date string, candidate Interval, sessions []models.Session) *models.Session {
	for i := range sessions {
		s := &sessions[i]
		if s.Status.Terminal() {
			continue
		}
		if s.Date != date {
			continue
		}
		existing, err := NewInterval(s.StartTime, s.EndTime)
		if err != nil {
			continue
		}
		if Overlaps(candidate, existing) {
			return s
		}
	}
	return nil
}

// WithinWindow reports whether the candidate range fits inside a recurring
// availability window.
func WithinWindow(candidate Interval, slot models.MentorSlot) (bool, error) {
	window, err := NewInterval(slot.StartTime, slot.EndTime)
	if err != nil {
		return false, err
	}
	return candidate.Start >= window.Start && candidate.End <= window.End, nil
}

package booking

import (
	"fmt"
	"time"

	"carbooking/models"
)

const clockLayout = "15:04"

// Interval is a half-open [Start, End) window in minutes from midnight.
type Interval struct {
	Start int
	End   int
}

// Valid reports whether the interval has positive length.
func (iv Interval) Valid() bool {
	return iv.Start < iv.End
}

// Overlaps reports whether a and b intersect. Touching intervals do not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// IntervalOf returns the stored window of a booking.
func IntervalOf(b models.Booking) Interval {
	return Interval{Start: b.StartMinute, End: b.EndMinute}
}

// FindOverlap returns the first existing booking whose window intersects candidate.
func FindOverlap(candidate Interval, existing []models.Booking) (models.Booking, bool) {
	for _, b := range existing {
		if Overlaps(candidate, IntervalOf(b)) {
			return b, true
		}
	}
	return models.Booking{}, false
}

// endOfDay lets a booking run until midnight.
const endOfDay = "24:00"

// ParseClock converts "HH:MM" into minutes from midnight. "24:00" is accepted as 1440.
func ParseClock(s string) (int, error) {
	if s == endOfDay {
		return 24 * 60, nil
	}
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock is the inverse of ParseClock.
func FormatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// Package schedule holds the weekly-slot time arithmetic: HH:MM parsing,
// half-open interval overlap, and conflict detection within one scope.
package schedule

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeFormat means a time string is not HH:MM with HH 00-23 and MM 00-59.
	ErrTimeFormat = errors.New("invalid time format, want HH:MM")
	// ErrDay means a day string is not one of the seven day names.
	ErrDay = errors.New("invalid day")
	// ErrInterval means start is not strictly before end.
	ErrInterval = errors.New("start time must be before end time")
)

// MinutesPerDay is the exclusive upper bound for a minute-of-day value.
const MinutesPerDay = 24 * 60

// ParseMinutes converts a strict "HH:MM" string to minutes since midnight.
func ParseMinutes(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrTimeFormat, s)
	}
	h, ok1 := twoDigits(s[0], s[1])
	m, ok2 := twoDigits(s[3], s[4])
	if !ok1 || !ok2 || h > 23 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrTimeFormat, s)
	}
	return h*60 + m, nil
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

// FormatMinutes is the inverse of ParseMinutes: zero-padded "HH:MM".
func FormatMinutes(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// Interval is a half-open [Start, End) range of minutes within one day.
type Interval struct {
	Start int
	End   int
}

// NewInterval parses both bounds and enforces start < end.
func NewInterval(start, end string) (Interval, error) {
	s, err := ParseMinutes(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseMinutes(end)
	if err != nil {
		return Interval{}, err
	}
	if s >= e {
		return Interval{}, fmt.Errorf("%w: %s >= %s", ErrInterval, start, end)
	}
	return Interval{Start: s, End: e}, nil
}

// Overlaps reports whether [aStart,aEnd) and [bStart,bEnd) intersect.
// Touching intervals (aEnd == bStart) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// Slot is the minimal tuple conflict detection needs. Callers adapt their
// entities; the set is assumed pre-filtered to a single scope.
type Slot struct {
	ID    int64
	Day   Day
	Start int
	End   int
}

// HasConflict reports whether the candidate (day, start, end) overlaps any
// existing slot on the same day. A slot whose ID equals excludeID is skipped,
// so an update does not conflict with itself. Pass excludeID 0 for creates.
func HasConflict(day Day, start, end int, existing []Slot, excludeID int64) bool {
	for _, s := range existing {
		if excludeID != 0 && s.ID == excludeID {
			continue
		}
		if s.Day != day {
			continue
		}
		if Overlaps(start, end, s.Start, s.End) {
			return true
		}
	}
	return false
}

package schedule

import (
	"fmt"
	"time"
)

// Day is one of the seven English weekday names, case-sensitive.
// Slots are weekly recurrences; no calendar date is modeled.
type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
	Sunday    Day = "Sunday"
)

// Days lists all days in Monday-first order.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// dayByWeekday maps time.Weekday (0=Sunday..6=Saturday) to Day.
var dayByWeekday = [7]Day{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// ParseDay validates s against the seven day names.
func ParseDay(s string) (Day, error) {
	for _, d := range Days {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: unknown day %q", ErrDay, s)
}

// DayOfWeek converts a time.Weekday to its Day name.
func DayOfWeek(wd time.Weekday) Day {
	return dayByWeekday[int(wd)%7]
}

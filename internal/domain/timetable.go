package domain

import "time"

// TimetableEntry is a weekly recurring personal slot. Times are stored as
// minutes since midnight; the HH:MM form exists only at the JSON boundary.
type TimetableEntry struct {
	ID       int64
	UserID   int64
	Subject  string
	Day      string
	StartMin int
	EndMin   int
	Reminder bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

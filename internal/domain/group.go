package domain

import "time"

// Group is a set of users sharing a schedule. CreatedBy is always a member.
type Group struct {
	ID          int64
	Name        string
	Description string
	CreatedBy   int64
	MemberIDs   []int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasMember reports whether userID is a member or the creator.
func (g Group) HasMember(userID int64) bool {
	if g.CreatedBy == userID {
		return true
	}
	for _, id := range g.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// GroupSchedule is a weekly recurring slot owned by a group.
type GroupSchedule struct {
	ID          int64
	GroupID     int64
	Title       string
	Description string
	Day         string
	StartMin    int
	EndMin      int
	CreatedBy   int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

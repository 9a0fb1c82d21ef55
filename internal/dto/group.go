package dto

import "time"

// CreateGroupRequest is the JSON body for POST /groups.
type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=120"`
	Description string `json:"description" binding:"max=1000"`
}

// UpdateGroupRequest is the JSON body for PUT /groups/{id}.
type UpdateGroupRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=120"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

// AddMemberRequest adds a user to a group by email.
type AddMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// GroupResponse is the wire form of a group.
type GroupResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   int64     `json:"created_by"`
	MemberIDs   []int64   `json:"member_ids"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListGroupsResponse wraps a group listing.
type ListGroupsResponse struct {
	Items []GroupResponse `json:"items"`
}

// CreateGroupScheduleRequest is the JSON body for POST /group-schedules.
type CreateGroupScheduleRequest struct {
	GroupID     int64  `json:"groupId" binding:"required"`
	Title       string `json:"title" binding:"required,min=1,max=120"`
	Description string `json:"description" binding:"max=1000"`
	Day         string `json:"day" binding:"required"`
	StartTime   string `json:"startTime" binding:"required"`
	EndTime     string `json:"endTime" binding:"required"`
}

// UpdateGroupScheduleRequest is the JSON body for PUT /group-schedules/{id}.
type UpdateGroupScheduleRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=120"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Day         *string `json:"day"`
	StartTime   *string `json:"startTime"`
	EndTime     *string `json:"endTime"`
}

// GroupScheduleResponse is the wire form of a group schedule.
type GroupScheduleResponse struct {
	ID          int64     `json:"id"`
	GroupID     int64     `json:"groupId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Day         string    `json:"day"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListGroupSchedulesResponse wraps a schedule listing.
type ListGroupSchedulesResponse struct {
	Items []GroupScheduleResponse `json:"items"`
}

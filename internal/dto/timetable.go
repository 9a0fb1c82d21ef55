package dto

import "time"

// CreateEntryRequest is the JSON body for POST /timetable. Times are HH:MM
// strings; strict format and ordering are validated in the service layer.
type CreateEntryRequest struct {
	Subject   string `json:"subject" binding:"required,min=1,max=120"`
	Day       string `json:"day" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	Reminder  bool   `json:"reminder"`
}

// UpdateEntryRequest is the JSON body for PATCH /timetable/{id}.
// Nil fields keep their current value.
type UpdateEntryRequest struct {
	Subject   *string `json:"subject" binding:"omitempty,min=1,max=120"`
	Day       *string `json:"day"`
	StartTime *string `json:"startTime"`
	EndTime   *string `json:"endTime"`
	Reminder  *bool   `json:"reminder"`
}

// EntryResponse is the wire form of a timetable entry.
type EntryResponse struct {
	ID        int64     `json:"id"`
	Subject   string    `json:"subject"`
	Day       string    `json:"day"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	Reminder  bool      `json:"reminder"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListEntriesResponse wraps a timetable listing.
type ListEntriesResponse struct {
	Items []EntryResponse `json:"items"`
}

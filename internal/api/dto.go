package api

import (
	"github.com/starford/tracker/internal/meetingservice"
)

// CreateMeetingRequest is the request body for adding a meeting.
type CreateMeetingRequest = meetingservice.AddInput

// MeetingDetail is a meeting with its display fields (aliased from the domain layer).
type MeetingDetail = meetingservice.Detail

// MeetingListResponse wraps a list of meetings.
type MeetingListResponse struct {
	Meetings []MeetingDetail `json:"meetings" validate:"required"`
	Total    int             `json:"total" example:"2" validate:"required"`
}

// ViewResponse is one tab of meetings after search filtering.
type ViewResponse struct {
	Tab      string          `json:"tab" example:"upcoming" validate:"required"`
	Query    string          `json:"query" example:"acme"`
	Meetings []MeetingDetail `json:"meetings" validate:"required"`
	Total    int             `json:"total" example:"1" validate:"required"`
}

// DeleteRequest lists meeting ids to delete.
type DeleteRequest struct {
	IDs []string `json:"ids" validate:"required"`
}

// DeleteAtRequest deletes by position in a tab's displayed list.
type DeleteAtRequest struct {
	Query   string `json:"query" example:""`
	Offsets []int  `json:"offsets" validate:"required"`
}

// DeleteResponse reports how many meetings were removed.
type DeleteResponse struct {
	Deleted int `json:"deleted" example:"1"`
}

// ImportResponse reports how many meetings were imported.
type ImportResponse struct {
	Imported int `json:"imported" example:"2"`
}

// PhoneResponse is the formatting of a phone number.
type PhoneResponse struct {
	Input     string `json:"input" example:"7058134343"`
	Digits    string `json:"digits" example:"7058134343"`
	Formatted string `json:"formatted" example:"(705) 813-4343"`
	DialURI   string `json:"dialURI,omitempty" example:"tel://7058134343"`
}

// PurposesResponse lists the purpose labels.
type PurposesResponse struct {
	Purposes []string `json:"purposes" validate:"required"`
}

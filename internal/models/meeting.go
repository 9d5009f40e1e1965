// Package models defines the domain types for the meeting tracker.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Meeting is one recorded contact with a person. PhoneNumber is kept exactly
// as entered; formatting happens at display time.
type Meeting struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Company     string    `json:"company"`
	Position    string    `json:"position"`
	PhoneNumber string    `json:"phoneNumber"`
	Date        time.Time `json:"date"`
	Purpose     Purpose   `json:"purpose"`
	Notes       string    `json:"notes"`
}

// New creates a meeting with a freshly generated id.
func New(name, company, position, phoneNumber string, date time.Time, purpose Purpose, notes string) Meeting {
	return Meeting{
		ID:          uuid.New(),
		Name:        name,
		Company:     company,
		Position:    position,
		PhoneNumber: phoneNumber,
		Date:        date.Round(0),
		Purpose:     purpose,
		Notes:       notes,
	}
}

// Subtitle is the "position @ company" line shown under the name.
func (m Meeting) Subtitle() string {
	return m.Position + " @ " + m.Company
}

// Equal reports whether both meetings hold the same values. Dates compare by instant.
func (m Meeting) Equal(o Meeting) bool {
	return m.ID == o.ID &&
		m.Name == o.Name &&
		m.Company == o.Company &&
		m.Position == o.Position &&
		m.PhoneNumber == o.PhoneNumber &&
		m.Date.Equal(o.Date) &&
		m.Purpose == o.Purpose &&
		m.Notes == o.Notes
}

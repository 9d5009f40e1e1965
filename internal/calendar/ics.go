// Package calendar renders meetings as an iCalendar feed.
package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/starford/tracker/internal/apperr"
	"github.com/starford/tracker/internal/models"
	"github.com/starford/tracker/internal/phone"
)

// ProdID identifies this application in generated calendars.
const ProdID = "-//Starford//Tracker//EN"

// DefaultDuration is the length given to every exported event; meetings only
// carry a start time.
const DefaultDuration = 30 * time.Minute

// ErrEmpty is returned by Encode when there are no meetings to export. An
// iCalendar object must contain at least one component.
var ErrEmpty = fmt.Errorf("calendar: no meetings to export: %w", apperr.ErrNotFound)

// Build returns a calendar with one VEVENT per meeting. stamp is written as
// DTSTAMP on every event.
func Build(meetings []models.Meeting, stamp time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProdID)

	for _, m := range meetings {
		ev := ical.NewEvent()
		ev.Props.SetText(ical.PropUID, m.ID.String())
		ev.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
		ev.Props.SetDateTime(ical.PropDateTimeStart, m.Date.UTC())
		ev.Props.SetDateTime(ical.PropDateTimeEnd, m.Date.Add(DefaultDuration).UTC())
		ev.Props.SetText(ical.PropSummary, fmt.Sprintf("%s: %s", m.Purpose, m.Name))
		ev.Props.SetText(ical.PropDescription, description(m))
		ev.Props.SetText(ical.PropCategories, m.Purpose.String())
		cal.Children = append(cal.Children, ev.Component)
	}
	return cal
}

// Encode writes the calendar for meetings to w. It returns ErrEmpty and
// writes nothing when meetings is empty.
func Encode(w io.Writer, meetings []models.Meeting, stamp time.Time) error {
	if len(meetings) == 0 {
		return ErrEmpty
	}
	if err := ical.NewEncoder(w).Encode(Build(meetings, stamp)); err != nil {
		return fmt.Errorf("calendar: encode: %w", err)
	}
	return nil
}

func description(m models.Meeting) string {
	lines := []string{m.Subtitle()}
	if m.PhoneNumber != "" {
		lines = append(lines, "Phone: "+phone.Format(m.PhoneNumber))
	}
	if m.Notes != "" {
		lines = append(lines, "", m.Notes)
	}
	return strings.Join(lines, "\n")
}

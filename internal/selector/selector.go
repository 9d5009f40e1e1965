// Package selector derives the Upcoming and History views and filters them by
// a search query. All functions are pure; callers pass the current time.
package selector

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/search"

	"github.com/starford/tracker/internal/models"
)

// Upcoming returns the meetings dated at or after now, in list order.
func Upcoming(list []models.Meeting, now time.Time) []models.Meeting {
	out := make([]models.Meeting, 0, len(list))
	for _, m := range list {
		if !m.Date.Before(now) {
			out = append(out, m)
		}
	}
	return out
}

// History returns the meetings dated before now, in list order.
func History(list []models.Meeting, now time.Time) []models.Meeting {
	out := make([]models.Meeting, 0, len(list))
	for _, m := range list {
		if m.Date.Before(now) {
			out = append(out, m)
		}
	}
	return out
}

// Partition splits list into Upcoming and History in a single pass.
func Partition(list []models.Meeting, now time.Time) (upcoming, history []models.Meeting) {
	upcoming = make([]models.Meeting, 0, len(list))
	history = make([]models.Meeting, 0, len(list))
	for _, m := range list {
		if m.Date.Before(now) {
			history = append(history, m)
		} else {
			upcoming = append(upcoming, m)
		}
	}
	return upcoming, history
}

// Search keeps the meetings whose name, company, or position contains query,
// ignoring case under the matching rules of lang. An empty query returns list
// as is.
func Search(list []models.Meeting, query string, lang language.Tag) []models.Meeting {
	if query == "" {
		return list
	}
	pat := search.New(lang, search.IgnoreCase).CompileString(query)
	contains := func(s string) bool {
		start, _ := pat.IndexString(s)
		return start >= 0
	}

	out := make([]models.Meeting, 0, len(list))
	for _, m := range list {
		if contains(m.Name) || contains(m.Company) || contains(m.Position) {
			out = append(out, m)
		}
	}
	return out
}

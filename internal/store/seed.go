package store

import (
	"time"

	"github.com/starford/tracker/internal/models"
)

// Seed returns the sample meetings shown on first launch: one an hour after
// now, one a day before it.
func Seed(now time.Time) []models.Meeting {
	return []models.Meeting{
		models.New("Alice Smith", "Acme Inc.", "Software Engineer", "7058134343",
			now.Add(time.Hour), models.PurposeNetworking,
			"Had a great conversation about SwiftUI."),
		models.New("Bob Johnson", "TechCorp", "Product Manager", "14344343434",
			now.Add(-24*time.Hour), models.PurposeJobInquiry,
			"Discussed upcoming opportunities."),
	}
}

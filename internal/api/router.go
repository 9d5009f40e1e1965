package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/tracker/internal/meetingservice"
)

// NewRouter creates a chi router with all API routes mounted.
// sseHandler, if non-nil, is mounted at GET /events behind the same auth.
func NewRouter(svc *meetingservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/meetings", h.ListMeetings)
	r.Post("/meetings", h.CreateMeeting)
	r.Post("/meetings/delete", h.DeleteMeetings)
	r.Get("/meetings/{id}", h.GetMeeting)
	r.Delete("/meetings/{id}", h.DeleteMeeting)

	r.Get("/views/{tab}", h.View)
	r.Post("/views/{tab}/delete", h.DeleteAt)
	r.Get("/views/{tab}/calendar.ics", h.Calendar)

	r.Get("/purposes", h.Purposes)
	r.Get("/phone", h.Phone)

	r.Get("/export", h.Export)
	r.Post("/import", h.Import)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}

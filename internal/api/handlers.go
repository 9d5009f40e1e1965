package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/starford/tracker/internal/apperr"
	"github.com/starford/tracker/internal/calendar"
	"github.com/starford/tracker/internal/codec"
	"github.com/starford/tracker/internal/meetingservice"
	"github.com/starford/tracker/internal/models"
	"github.com/starford/tracker/internal/phone"
)

// maxBodyBytes caps JSON bodies and import documents.
const maxBodyBytes = 8 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *meetingservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *meetingservice.Service) *Handler {
	return &Handler{svc: svc}
}

func meetingID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid meeting id", apperr.ErrValidation)
	}
	return id, nil
}

func viewTab(r *http.Request) (meetingservice.Tab, error) {
	return meetingservice.ParseTab(chi.URLParam(r, "tab"))
}

// ListMeetings handles GET /api/meetings.
//
//	@Summary		List all meetings in insertion order
//	@Tags			meetings
//	@Produce		json
//	@Success		200	{object}	MeetingListResponse
//	@Security		BearerAuth
//	@Router			/meetings [get]
func (h *Handler) ListMeetings(w http.ResponseWriter, r *http.Request) {
	items := h.svc.List(r.Context())
	writeJSON(w, http.StatusOK, MeetingListResponse{Meetings: items, Total: len(items)})
}

// GetMeeting handles GET /api/meetings/{id}.
//
//	@Summary		Get a single meeting by id
//	@Tags			meetings
//	@Produce		json
//	@Param			id	path		string	true	"Meeting id (UUID)"
//	@Success		200	{object}	MeetingDetail
//	@Failure		400	{object}	errResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/meetings/{id} [get]
func (h *Handler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	id, err := meetingID(r)
	if err != nil {
		writeError(w, "get meeting", err)
		return
	}
	d, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, "get meeting", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// CreateMeeting handles POST /api/meetings.
//
//	@Summary		Add a meeting
//	@Tags			meetings
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateMeetingRequest	true	"Meeting fields"
//	@Success		201		{object}	MeetingDetail
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/meetings [post]
func (h *Handler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	var req CreateMeetingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	d, err := h.svc.Add(r.Context(), req)
	if err != nil {
		writeError(w, "create meeting", err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// DeleteMeeting handles DELETE /api/meetings/{id}. Deleting an unknown id
// still answers 204.
//
//	@Summary		Delete a meeting
//	@Tags			meetings
//	@Param			id	path	string	true	"Meeting id (UUID)"
//	@Success		204
//	@Failure		400	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/meetings/{id} [delete]
func (h *Handler) DeleteMeeting(w http.ResponseWriter, r *http.Request) {
	id, err := meetingID(r)
	if err != nil {
		writeError(w, "delete meeting", err)
		return
	}
	h.svc.Delete(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteMeetings handles POST /api/meetings/delete.
//
//	@Summary		Delete several meetings by id
//	@Tags			meetings
//	@Accept			json
//	@Produce		json
//	@Param			body	body		DeleteRequest	true	"Ids to delete"
//	@Success		200		{object}	DeleteResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/meetings/delete [post]
func (h *Handler) DeleteMeetings(w http.ResponseWriter, r *http.Request) {
	var req DeleteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, s := range req.IDs {
		id, err := uuid.Parse(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(fmt.Sprintf("invalid meeting id %q", s)))
			return
		}
		ids = append(ids, id)
	}
	n := h.svc.Delete(r.Context(), ids...)
	writeJSON(w, http.StatusOK, DeleteResponse{Deleted: n})
}

// View handles GET /api/views/{tab}.
//
//	@Summary		List the meetings on a tab, filtered by a search query
//	@Tags			views
//	@Produce		json
//	@Param			tab	path		string	true	"Tab"	Enums(upcoming, history)
//	@Param			q	query		string	false	"Case-insensitive search over name, company and position"
//	@Success		200	{object}	ViewResponse
//	@Failure		400	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/views/{tab} [get]
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	tab, err := viewTab(r)
	if err != nil {
		writeError(w, "view", err)
		return
	}
	q := r.URL.Query().Get("q")
	items, err := h.svc.View(r.Context(), tab, q)
	if err != nil {
		writeError(w, "view", err)
		return
	}
	writeJSON(w, http.StatusOK, ViewResponse{Tab: string(tab), Query: q, Meetings: items, Total: len(items)})
}

// DeleteAt handles POST /api/views/{tab}/delete.
//
//	@Summary		Delete meetings by their position in a tab's list
//	@Tags			views
//	@Accept			json
//	@Produce		json
//	@Param			tab		path		string			true	"Tab"	Enums(upcoming, history)
//	@Param			body	body		DeleteAtRequest	true	"Query and offsets"
//	@Success		200		{object}	DeleteResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/views/{tab}/delete [post]
func (h *Handler) DeleteAt(w http.ResponseWriter, r *http.Request) {
	tab, err := viewTab(r)
	if err != nil {
		writeError(w, "delete at", err)
		return
	}
	var req DeleteAtRequest
	if !decodeBody(w, r, &req) {
		return
	}
	n, err := h.svc.DeleteAt(r.Context(), tab, req.Query, req.Offsets)
	if err != nil {
		writeError(w, "delete at", err)
		return
	}
	writeJSON(w, http.StatusOK, DeleteResponse{Deleted: n})
}

// Calendar handles GET /api/views/{tab}/calendar.ics.
//
//	@Summary		Export a tab as an iCalendar document
//	@Tags			views
//	@Produce		text/calendar
//	@Param			tab	path		string	true	"Tab"	Enums(upcoming, history)
//	@Param			q	query		string	false	"Search query"
//	@Success		200	{string}	string
//	@Failure		400	{object}	errResponse
//	@Failure		404	{object}	errResponse	"No meetings on the tab after filtering"
//	@Security		BearerAuth
//	@Router			/views/{tab}/calendar.ics [get]
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	tab, err := viewTab(r)
	if err != nil {
		writeError(w, "calendar", err)
		return
	}
	data, err := h.svc.Calendar(r.Context(), tab, r.URL.Query().Get("q"))
	if errors.Is(err, calendar.ErrEmpty) {
		writeJSON(w, http.StatusNotFound, errorBody("no meetings to export"))
		return
	}
	if err != nil {
		writeError(w, "calendar", err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", string(tab)+".ics"))
	_, _ = w.Write(data)
}

// Purposes handles GET /api/purposes.
//
//	@Summary		List the meeting purpose labels in display order
//	@Tags			meetings
//	@Produce		json
//	@Success		200	{object}	PurposesResponse
//	@Security		BearerAuth
//	@Router			/purposes [get]
func (h *Handler) Purposes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, PurposesResponse{Purposes: models.PurposeLabels()})
}

// Phone handles GET /api/phone.
//
//	@Summary		Format a phone number for display and dialing
//	@Tags			phone
//	@Produce		json
//	@Param			number	query		string	true	"Phone number in any notation"
//	@Success		200		{object}	PhoneResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/phone [get]
func (h *Handler) Phone(w http.ResponseWriter, r *http.Request) {
	number := r.URL.Query().Get("number")
	if number == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'number' is required"))
		return
	}
	writeJSON(w, http.StatusOK, PhoneResponse{
		Input:     number,
		Digits:    phone.OnlyDigits(number),
		Formatted: phone.Format(number),
		DialURI:   phone.DialURI(number),
	})
}

// Export handles GET /api/export.
//
//	@Summary		Export every meeting as a record document
//	@Tags			transfer
//	@Produce		json
//	@Param			format	query		string	false	"Document format"	Enums(json, yaml, msgpack)
//	@Success		200		{string}	string
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/export [get]
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	f, err := codec.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, "export", err)
		return
	}
	data, err := h.svc.Export(r.Context(), f)
	if err != nil {
		writeError(w, "export", err)
		return
	}
	w.Header().Set("Content-Type", f.ContentType())
	_, _ = w.Write(data)
}

// Import handles POST /api/import. The body is a record document in the
// given format; nothing is imported when any record is rejected.
//
//	@Summary		Import meetings from a record document
//	@Tags			transfer
//	@Accept			json
//	@Produce		json
//	@Param			format	query		string	false	"Document format"	Enums(json, yaml, msgpack)
//	@Success		201		{object}	ImportResponse
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/import [post]
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	f, err := codec.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, "import", err)
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}
	n, err := h.svc.Import(r.Context(), f, data)
	if err != nil {
		writeError(w, "import", err)
		return
	}
	writeJSON(w, http.StatusCreated, ImportResponse{Imported: n})
}

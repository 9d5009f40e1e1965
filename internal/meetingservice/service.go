// Package meetingservice coordinates the meeting store, the clock, and the
// derived views for every boundary (REST, MCP).
package meetingservice

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/starford/tracker/internal/apperr"
	"github.com/starford/tracker/internal/calendar"
	"github.com/starford/tracker/internal/codec"
	"github.com/starford/tracker/internal/models"
	"github.com/starford/tracker/internal/phone"
	"github.com/starford/tracker/internal/selector"
	"github.com/starford/tracker/internal/store"
)

// Tab names one of the two meeting lists.
type Tab string

// Tabs.
const (
	TabUpcoming Tab = "upcoming"
	TabHistory  Tab = "history"
)

// ParseTab validates a tab name.
func ParseTab(s string) (Tab, error) {
	switch Tab(s) {
	case TabUpcoming, TabHistory:
		return Tab(s), nil
	}
	return "", fmt.Errorf("%w: unknown tab %q", apperr.ErrValidation, s)
}

// AddInput is the data entered on the "new meeting" form.
type AddInput struct {
	Name        string    `json:"name"`
	Company     string    `json:"company"`
	Position    string    `json:"position"`
	PhoneNumber string    `json:"phoneNumber"`
	Date        time.Time `json:"date"`
	Purpose     string    `json:"purpose"`
	Notes       string    `json:"notes"`
}

// Validate enforces the form rules: contact fields must be filled in and the
// purpose must be a known label.
func (in AddInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required),
		validation.Field(&in.Company, validation.Required),
		validation.Field(&in.Position, validation.Required),
		validation.Field(&in.PhoneNumber, validation.Required),
		validation.Field(&in.Purpose, validation.Required, validation.In(toAny(models.PurposeLabels())...)),
	)
}

// Detail is a meeting plus its display-ready fields.
type Detail struct {
	models.Meeting
	Subtitle       string `json:"subtitle"`
	FormattedPhone string `json:"formattedPhone"`
	DialURI        string `json:"dialURI,omitempty"`
	Upcoming       bool   `json:"upcoming"`
}

// Service exposes meeting operations to the boundaries.
type Service struct {
	store  store.Store
	now    func() time.Time
	lang   language.Tag
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLanguage sets the language used for search matching.
func WithLanguage(tag language.Tag) Option {
	return func(s *Service) { s.lang = tag }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a new meeting service over st.
func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		now:    time.Now,
		lang:   language.Und,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the service clock reading.
func (s *Service) Now() time.Time {
	return s.now()
}

// Add validates in, creates the meeting, and stores it.
func (s *Service) Add(_ context.Context, in AddInput) (*Detail, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	purpose, err := models.ParsePurpose(in.Purpose)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	date := in.Date
	if date.IsZero() {
		date = s.now()
	}

	m := models.New(in.Name, in.Company, in.Position, in.PhoneNumber, date, purpose, in.Notes)
	s.store.Add(m)
	s.logger.Debug("meeting added", slog.String("id", m.ID.String()), slog.String("purpose", purpose.String()))
	return s.detail(m, s.now()), nil
}

// Get returns one meeting by id.
func (s *Service) Get(_ context.Context, id uuid.UUID) (*Detail, error) {
	m, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	return s.detail(m, s.now()), nil
}

// List returns every meeting in insertion order.
func (s *Service) List(_ context.Context) []Detail {
	return s.details(s.store.Snapshot(), s.now())
}

// View returns the meetings shown on tab, filtered by query. The tab is
// evaluated against the current clock on every call.
func (s *Service) View(_ context.Context, tab Tab, query string) ([]Detail, error) {
	now := s.now()
	list, err := s.view(tab, query, now)
	if err != nil {
		return nil, err
	}
	return s.details(list, now), nil
}

// Delete removes the meetings with the given ids and reports how many were
// removed. Unknown ids are ignored.
func (s *Service) Delete(_ context.Context, ids ...uuid.UUID) int {
	n := s.store.Delete(ids...)
	s.logger.Debug("meetings deleted", slog.Int("requested", len(ids)), slog.Int("removed", n))
	return n
}

// DeleteAt removes meetings by their position in the list currently shown for
// tab and query. Out-of-range offsets are ignored.
func (s *Service) DeleteAt(ctx context.Context, tab Tab, query string, offsets []int) (int, error) {
	list, err := s.view(tab, query, s.now())
	if err != nil {
		return 0, err
	}
	ids := make([]uuid.UUID, 0, len(offsets))
	for _, o := range offsets {
		if o < 0 || o >= len(list) {
			continue
		}
		ids = append(ids, list[o].ID)
	}
	return s.Delete(ctx, ids...), nil
}

// Export encodes every meeting in format f.
func (s *Service) Export(_ context.Context, f codec.Format) ([]byte, error) {
	return codec.Marshal(f, s.store.Snapshot())
}

// Import decodes a document and adds every meeting in it. Nothing is added
// when any record fails to decode or already exists in the store.
func (s *Service) Import(_ context.Context, f codec.Format, data []byte) (int, error) {
	meetings, err := codec.Unmarshal(f, data)
	if err != nil {
		return 0, err
	}

	if err := s.store.AddAll(meetings...); err != nil {
		return 0, err
	}
	s.logger.Info("meetings imported", slog.Int("count", len(meetings)), slog.String("format", string(f)))
	return len(meetings), nil
}

// Calendar renders the meetings on tab as an iCalendar document.
func (s *Service) Calendar(_ context.Context, tab Tab, query string) ([]byte, error) {
	now := s.now()
	list, err := s.view(tab, query, now)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := calendar.Encode(&buf, list, now); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Subscribe forwards store changes to fn.
func (s *Service) Subscribe(fn store.Observer) func() {
	return s.store.Subscribe(fn)
}

func (s *Service) view(tab Tab, query string, now time.Time) ([]models.Meeting, error) {
	snap := s.store.Snapshot()
	var list []models.Meeting
	switch tab {
	case TabUpcoming:
		list = selector.Upcoming(snap, now)
	case TabHistory:
		list = selector.History(snap, now)
	default:
		return nil, fmt.Errorf("%w: unknown tab %q", apperr.ErrValidation, tab)
	}
	return selector.Search(list, query, s.lang), nil
}

func (s *Service) detail(m models.Meeting, now time.Time) *Detail {
	return &Detail{
		Meeting:        m,
		Subtitle:       m.Subtitle(),
		FormattedPhone: phone.Format(m.PhoneNumber),
		DialURI:        phone.DialURI(m.PhoneNumber),
		Upcoming:       !m.Date.Before(now),
	}
}

func (s *Service) details(list []models.Meeting, now time.Time) []Detail {
	out := make([]Detail, 0, len(list))
	for _, m := range list {
		out = append(out, *s.detail(m, now))
	}
	return out
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

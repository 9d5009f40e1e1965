package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/starford/tracker/internal/meetingservice"
	"github.com/starford/tracker/internal/testutil"
)

// testEnv builds a seeded service and router. A non-empty authToken enables
// token mode.
func testEnv(t *testing.T, authToken string) (*meetingservice.Service, http.Handler) {
	t.Helper()
	svc, _, _ := testutil.TestService(t)
	return svc, NewRouter(svc, authToken != "", authToken, nil)
}

func doJSON(t *testing.T, router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

func TestListMeetings(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodGet, "/meetings", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d: %s", w.Code, w.Body.String())
	}
	resp := decode[MeetingListResponse](t, w)
	if resp.Total != 2 || resp.Meetings[0].Name != "Alice Smith" || resp.Meetings[1].Name != "Bob Johnson" {
		t.Errorf("list = %+v", resp)
	}
	if resp.Meetings[0].FormattedPhone != "(705) 813-4343" {
		t.Errorf("formattedPhone = %q", resp.Meetings[0].FormattedPhone)
	}
}

func TestCreateAndGetMeeting(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/meetings", map[string]any{
		"name":        "Carol White",
		"company":     "Initech",
		"position":    "CTO",
		"phoneNumber": "555-123-4567",
		"date":        testutil.Epoch.Add(48 * time.Hour),
		"purpose":     "Advice",
		"notes":       "Bring resume",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", w.Code, w.Body.String())
	}
	created := decode[MeetingDetail](t, w)
	if created.Subtitle != "CTO @ Initech" || !created.Upcoming {
		t.Errorf("created = %+v", created)
	}
	if created.DialURI != "tel://5551234567" {
		t.Errorf("dialURI = %q", created.DialURI)
	}

	w = doJSON(t, router, http.MethodGet, "/meetings/"+created.ID.String(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get = %d", w.Code)
	}
	got := decode[MeetingDetail](t, w)
	if got.Name != "Carol White" || got.Purpose.String() != "Advice" {
		t.Errorf("get = %+v", got)
	}
}

func TestCreateMeeting_Validation(t *testing.T) {
	_, router := testEnv(t, "")

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"company": "A", "position": "B", "phoneNumber": "1", "purpose": "Other"}},
		{"blank phone", map[string]any{"name": "A", "company": "B", "position": "C", "phoneNumber": "", "purpose": "Other"}},
		{"unknown purpose", map[string]any{"name": "A", "company": "B", "position": "C", "phoneNumber": "1", "purpose": "Lunch"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/meetings", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("create = %d, want 400: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestCreateMeeting_InvalidJSON(t *testing.T) {
	_, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodPost, "/meetings", strings.NewReader("{"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid JSON = %d, want 400", w.Code)
	}
}

func TestGetMeeting_NotFound(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodGet, "/meetings/6f1c1f5e-8d7a-4b8e-9a55-3f0f7e2b9c11", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get missing = %d, want 404", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, "/meetings/not-a-uuid", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("get bad id = %d, want 400", w.Code)
	}
}

func TestDeleteMeeting(t *testing.T) {
	svc, router := testEnv(t, "")
	id := svc.List(context.Background())[0].ID.String()

	w := doJSON(t, router, http.MethodDelete, "/meetings/"+id, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, "/meetings/"+id, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", w.Code)
	}

	// Second delete is a no-op.
	w = doJSON(t, router, http.MethodDelete, "/meetings/"+id, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("repeat delete = %d, want 204", w.Code)
	}
}

func TestDeleteMeetings(t *testing.T) {
	svc, router := testEnv(t, "")
	list := svc.List(context.Background())

	w := doJSON(t, router, http.MethodPost, "/meetings/delete", DeleteRequest{
		IDs: []string{list[0].ID.String(), list[1].ID.String(), "6f1c1f5e-8d7a-4b8e-9a55-3f0f7e2b9c11"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("bulk delete = %d", w.Code)
	}
	if resp := decode[DeleteResponse](t, w); resp.Deleted != 2 {
		t.Errorf("deleted = %d, want 2", resp.Deleted)
	}
	if n := len(svc.List(context.Background())); n != 0 {
		t.Errorf("remaining = %d, want 0", n)
	}

	w = doJSON(t, router, http.MethodPost, "/meetings/delete", DeleteRequest{IDs: []string{"nope"}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad id = %d, want 400", w.Code)
	}
}

func TestViews(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodGet, "/views/upcoming", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("upcoming = %d", w.Code)
	}
	up := decode[ViewResponse](t, w)
	if up.Total != 1 || up.Meetings[0].Name != "Alice Smith" {
		t.Errorf("upcoming = %+v", up)
	}

	w = doJSON(t, router, http.MethodGet, "/views/history?q=techcorp", nil)
	hist := decode[ViewResponse](t, w)
	if hist.Total != 1 || hist.Meetings[0].Name != "Bob Johnson" || hist.Query != "techcorp" {
		t.Errorf("history = %+v", hist)
	}

	w = doJSON(t, router, http.MethodGet, "/views/upcoming?q=techcorp", nil)
	if got := decode[ViewResponse](t, w); got.Total != 0 {
		t.Errorf("upcoming techcorp = %d, want 0", got.Total)
	}

	w = doJSON(t, router, http.MethodGet, "/views/archive", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown tab = %d, want 400", w.Code)
	}
}

func TestDeleteAt(t *testing.T) {
	svc, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/views/history/delete", DeleteAtRequest{Offsets: []int{0, 5}})
	if w.Code != http.StatusOK {
		t.Fatalf("delete at = %d: %s", w.Code, w.Body.String())
	}
	if resp := decode[DeleteResponse](t, w); resp.Deleted != 1 {
		t.Errorf("deleted = %d, want 1", resp.Deleted)
	}
	list := svc.List(context.Background())
	if len(list) != 1 || list[0].Name != "Alice Smith" {
		t.Errorf("remaining = %+v", list)
	}
}

func TestCalendarExport(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodGet, "/views/upcoming/calendar.ics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("calendar = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("content type = %q", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, "BEGIN:VCALENDAR") || !strings.Contains(body, "Alice Smith") {
		t.Errorf("calendar body = %s", body)
	}
	if strings.Contains(body, "Bob Johnson") {
		t.Error("history meeting leaked into upcoming calendar")
	}
}

func TestCalendarExport_EmptyTab(t *testing.T) {
	svc, router := testEnv(t, "")

	for _, target := range []string{
		"/views/upcoming/calendar.ics?q=nobody",
		"/views/history/calendar.ics?q=acme",
	} {
		w := doJSON(t, router, http.MethodGet, target, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("%s = %d, want 404: %s", target, w.Code, w.Body.String())
		}
	}

	svc.Delete(context.Background(), idsOf(svc)...)
	w := doJSON(t, router, http.MethodGet, "/views/upcoming/calendar.ics", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("calendar of empty store = %d, want 404", w.Code)
	}
	if resp := decode[errResponse](t, w); resp.Error != "no meetings to export" {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestPurposesEndpoint(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodGet, "/purposes", nil)
	resp := decode[PurposesResponse](t, w)
	want := []string{"Networking", "Job Inquiry", "Advice", "Collaboration", "Other"}
	if len(resp.Purposes) != len(want) {
		t.Fatalf("purposes = %v", resp.Purposes)
	}
	for i := range want {
		if resp.Purposes[i] != want[i] {
			t.Errorf("purposes[%d] = %q, want %q", i, resp.Purposes[i], want[i])
		}
	}
}

func TestPhoneEndpoint(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodGet, "/phone?number=1-434-434-3434", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("phone = %d", w.Code)
	}
	resp := decode[PhoneResponse](t, w)
	if resp.Digits != "14344343434" || resp.Formatted != "+1 (434) 434-3434" || resp.DialURI != "tel://14344343434" {
		t.Errorf("phone = %+v", resp)
	}

	w = doJSON(t, router, http.MethodGet, "/phone", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("phone no number = %d, want 400", w.Code)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	_, src := testEnv(t, "")

	for _, format := range []string{"json", "yaml", "msgpack"} {
		t.Run(format, func(t *testing.T) {
			w := doJSON(t, src, http.MethodGet, "/export?format="+format, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("export = %d", w.Code)
			}
			exported := w.Body.Bytes()

			dstSvc, dst := testEnv(t, "")
			dstSvc.Delete(context.Background(), idsOf(dstSvc)...)

			req := httptest.NewRequest(http.MethodPost, "/import?format="+format, bytes.NewReader(exported))
			rw := httptest.NewRecorder()
			dst.ServeHTTP(rw, req)
			if rw.Code != http.StatusCreated {
				t.Fatalf("import = %d: %s", rw.Code, rw.Body.String())
			}
			if resp := decode[ImportResponse](t, rw); resp.Imported != 2 {
				t.Errorf("imported = %d, want 2", resp.Imported)
			}
		})
	}
}

func TestImport_Conflict(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodGet, "/export", nil)
	req := httptest.NewRequest(http.MethodPost, "/import", bytes.NewReader(w.Body.Bytes()))
	rw := httptest.NewRecorder()
	router.ServeHTTP(rw, req)
	if rw.Code != http.StatusConflict {
		t.Errorf("re-import = %d, want 409", rw.Code)
	}
}

func TestImport_Rejected(t *testing.T) {
	_, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodPost, "/import", strings.NewReader(`[{"name":"x"}]`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad record = %d, want 400", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/export?format=xml", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown format = %d, want 400", w.Code)
	}
}

func idsOf(svc *meetingservice.Service) []uuid.UUID {
	var out []uuid.UUID
	for _, d := range svc.List(context.Background()) {
		out = append(out, d.ID)
	}
	return out
}

// Auth middleware tests.

func TestAuthMiddleware_ValidToken(t *testing.T) {
	_, router := testEnv(t, "secret")

	req := httptest.NewRequest(http.MethodGet, "/meetings", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid token = %d, want 200", w.Code)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	_, router := testEnv(t, "secret")

	w := doJSON(t, router, http.MethodGet, "/meetings", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("missing token = %d, want 401", w.Code)
	}
	if got := w.Header().Get("WWW-Authenticate"); got != `Bearer realm="tracker"` {
		t.Errorf("WWW-Authenticate = %q", got)
	}
}

func TestAuthMiddleware_WrongToken(t *testing.T) {
	_, router := testEnv(t, "secret")

	req := httptest.NewRequest(http.MethodGet, "/meetings", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	_, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/meetings", nil)
	req.Header.Set("Authorization", "Bearer anything")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("disabled auth = %d, want 200", w.Code)
	}
}

func TestAuthMiddleware_WrongScheme(t *testing.T) {
	_, router := testEnv(t, "secret")

	req := httptest.NewRequest(http.MethodGet, "/meetings", nil)
	req.Header.Set("Authorization", "Basic secret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("basic scheme = %d, want 401", w.Code)
	}
}

// SSE endpoint auth tests.

func TestSSEEvents_AuthProtected(t *testing.T) {
	router := testEnvWithSSE(t, true, "secret")

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("SSE no auth = %d, want 401", w.Code)
	}
}

func TestSSEEvents_ValidToken(t *testing.T) {
	router := testEnvWithSSE(t, true, "tok")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code == http.StatusUnauthorized {
		t.Error("SSE with valid token should not 401")
	}
}

// testEnvWithSSE mounts a stub SSE handler that blocks until the request ends.
func testEnvWithSSE(t *testing.T, authEnabled bool, token string) http.Handler {
	t.Helper()
	svc, _, _ := testutil.TestService(t)
	sseHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-r.Context().Done()
	})
	return NewRouter(svc, authEnabled, token, sseHandler)
}

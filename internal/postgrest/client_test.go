package postgrest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"golang.org/x/oauth2"

	"github.com/studiowebux/catalog/internal/config"
	"github.com/studiowebux/catalog/internal/types"
)

const jwtKey = "eyJhbGciOiJIUzI1NiJ9.anon.sig"

type memoryRecorder struct {
	mu      sync.Mutex
	entries []types.HistoryEntry
}

func (r *memoryRecorder) Record(e types.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

type failingTokens struct{ err error }

func (f failingTokens) Token() (*oauth2.Token, error) { return nil, f.err }

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := New(config.Backend{URL: server.URL + "/", APIKey: jwtKey}, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

func TestGet_Headers(t *testing.T) {
	var got http.Header
	var gotURL string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		gotURL = r.URL.String()
		w.Write([]byte(`[{"id":1,"title":"Atlas"}]`))
	})

	projects, err := Get[[]types.Project](context.Background(), c, Path("projects", Select()))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(projects) != 1 || projects[0].Title != "Atlas" {
		t.Errorf("Unexpected projects: %+v", projects)
	}

	if gotURL != "/rest/v1/projects?select=*" {
		t.Errorf("Expected select path, got %s", gotURL)
	}
	if got.Get("apikey") != jwtKey {
		t.Errorf("Expected apikey header, got %q", got.Get("apikey"))
	}
	if got.Get("Authorization") != "Bearer "+jwtKey {
		t.Errorf("Expected JWT key as bearer, got %q", got.Get("Authorization"))
	}
	if got.Get("Accept") != MediaJSON {
		t.Errorf("Expected array accept header, got %q", got.Get("Accept"))
	}
	if got.Get(RequestIDHeader) == "" {
		t.Error("Expected request id header")
	}
	if got.Get("Prefer") != "" {
		t.Errorf("Expected no Prefer header on GET, got %q", got.Get("Prefer"))
	}
}

func TestPost_SingleObject(t *testing.T) {
	var headers http.Header
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &body)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":9,"title":"New"}`))
	})

	saved, err := Post[types.Project](context.Background(), c, Path("projects"), types.ProjectDto{Title: "New"})
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	if saved.ID != 9 {
		t.Errorf("Expected id 9, got %d", saved.ID)
	}
	if headers.Get("Accept") != MediaObject {
		t.Errorf("Expected object accept header, got %q", headers.Get("Accept"))
	}
	if headers.Get("Prefer") != "return=representation" {
		t.Errorf("Expected Prefer header, got %q", headers.Get("Prefer"))
	}
	if headers.Get("Content-Type") != MediaJSON {
		t.Errorf("Expected JSON content type, got %q", headers.Get("Content-Type"))
	}
	if body["title"] != "New" {
		t.Errorf("Expected title in payload, got %v", body)
	}
}

func TestStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"duplicate key","details":"id exists"}`))
	})

	_, err := Patch[types.Project](context.Background(), c, Path("projects", Eq("id", 1)), map[string]string{})
	if err == nil {
		t.Fatal("Expected error")
	}
	if err.Error() != "PATCH /rest/v1/projects?id=eq.1 failed: HTTP 409" {
		t.Errorf("Unexpected message: %s", err)
	}
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("Expected *StatusError, got %T", err)
	}
	if se.Detail() != "duplicate key: id exists" {
		t.Errorf("Unexpected detail: %s", se.Detail())
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("Expected conflict not to match ErrNotFound")
	}
	if StatusOf(err) != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", StatusOf(err))
	}
}

func TestGetOne_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotAcceptable)
		w.Write([]byte(`{"message":"JSON object requested, multiple (or no) rows returned"}`))
	})

	_, err := GetOne[types.Project](context.Background(), c, Path("projects", Eq("id", 404)))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	rec := &memoryRecorder{}
	c, err := New(config.Backend{URL: url}, WithRecorder(rec))
	if err != nil {
		t.Fatal(err)
	}

	if err := Delete(context.Background(), c, Path("projects", Eq("id", 1))); err == nil {
		t.Fatal("Expected transport error")
	}
	if len(rec.entries) != 1 || rec.entries[0].Error == "" {
		t.Errorf("Expected failed write to be recorded with its error, got %+v", rec.entries)
	}
}

func TestRecorder_WritesOnly(t *testing.T) {
	rec := &memoryRecorder{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`[]`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	}, WithRecorder(rec), WithProfile("Default"))

	ctx := context.Background()
	if _, err := Get[[]types.Area](ctx, c, Path("areas", Select())); err != nil {
		t.Fatal(err)
	}
	if err := Delete(ctx, c, Path("areas", Eq("id", 3))); err != nil {
		t.Fatal(err)
	}

	if len(rec.entries) != 1 {
		t.Fatalf("Expected 1 recorded write, got %d", len(rec.entries))
	}
	e := rec.entries[0]
	if e.Method != http.MethodDelete || e.Path != "/rest/v1/areas?id=eq.3" || e.Status != http.StatusNoContent {
		t.Errorf("Unexpected entry: %+v", e)
	}
	if e.ProfileName != "Default" || e.RequestID == "" {
		t.Errorf("Expected profile and request id, got %+v", e)
	}
}

func TestBearer(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		tokens  oauth2.TokenSource
		want    string
		wantErr bool
	}{
		{"user token", jwtKey, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "user"}), "user", false},
		{"signed out falls back to jwt key", jwtKey, failingTokens{ErrNoToken}, jwtKey, false},
		{"publishable key is not a bearer", "sb_publishable_x", nil, "", false},
		{"refresh failure", jwtKey, failingTokens{errors.New("refresh failed")}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []Option
			if tt.tokens != nil {
				opts = append(opts, WithTokenSource(tt.tokens))
			}
			c, err := New(config.Backend{URL: "http://localhost:1", APIKey: tt.key}, opts...)
			if err != nil {
				t.Fatal(err)
			}
			req, err := c.NewRequest(http.MethodGet, Path("projects"), nil, false)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			got := req.Headers["Authorization"]
			want := ""
			if tt.want != "" {
				want = "Bearer " + tt.want
			}
			if got != want {
				t.Errorf("Expected %q, got %q", want, got)
			}
		})
	}
}

func TestNew_InvalidBackend(t *testing.T) {
	if _, err := New(config.Backend{}); err == nil {
		t.Error("Expected error for empty URL")
	}
}

func TestQueryHelpers(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{Path("areas", Select()), "/rest/v1/areas?select=*"},
		{Path("content", Eq("project_id", 4), Select()), "/rest/v1/content?project_id=eq.4&select=*"},
		{Path("catalog"), "/rest/v1/catalog"},
		{Select("id", "title"), "select=id,title"},
		{Order("order.asc", "id"), "order=order.asc,id"},
		{In("id", []int64{1, 2}), "id=in.(1,2)"},
		{Eq("title", "a b"), "title=eq.a+b"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("Expected %q, got %q", tt.want, tt.got)
		}
	}
}

package mock

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(DefaultConfig(), nil)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func do(t *testing.T, method, url, body string, headers map[string]string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp, string(data)
}

func decodeList(t *testing.T, body string) []Row {
	t.Helper()
	var rows []Row
	if err := json.Unmarshal([]byte(body), &rows); err != nil {
		t.Fatalf("Expected JSON array, got %s", body)
	}
	return rows
}

func TestRest_SelectFilterOrder(t *testing.T) {
	_, ts := newTestServer(t)

	resp, body := do(t, http.MethodGet, ts.URL+"/rest/v1/areas?select=*&category=eq.Scale&order=order.desc", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, body)
	}
	rows := decodeList(t, body)
	if len(rows) != 3 {
		t.Fatalf("Expected 3 Scale areas, got %d", len(rows))
	}
	if rows[0]["title"] != "11" || rows[2]["title"] != "-6" {
		t.Errorf("Expected descending order, got %v", rows)
	}

	_, body = do(t, http.MethodGet, ts.URL+"/rest/v1/catalog?project_id=eq.1&select=area_id", "", nil)
	rows = decodeList(t, body)
	if len(rows) != 2 {
		t.Fatalf("Expected 2 links, got %d", len(rows))
	}
	if _, ok := rows[0]["id"]; ok {
		t.Error("Expected select to project columns")
	}

	_, body = do(t, http.MethodGet, ts.URL+"/rest/v1/areas?id=in.(1,4)", "", nil)
	if rows = decodeList(t, body); len(rows) != 2 {
		t.Errorf("Expected 2 rows for in filter, got %d", len(rows))
	}
}

func TestRest_SingleObject(t *testing.T) {
	_, ts := newTestServer(t)
	object := map[string]string{"Accept": mediaObject}

	resp, body := do(t, http.MethodGet, ts.URL+"/rest/v1/projects?id=eq.2", "", object)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var p Row
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("Expected object, got %s", body)
	}
	if p["title"] != "Cell Atlas" {
		t.Errorf("Unexpected project: %v", p)
	}

	resp, body = do(t, http.MethodGet, ts.URL+"/rest/v1/projects?id=eq.99", "", object)
	if resp.StatusCode != http.StatusNotAcceptable {
		t.Errorf("Expected 406 for no rows, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "PGRST116") {
		t.Errorf("Expected PGRST116 code, got %s", body)
	}
}

func TestRest_WriteCycle(t *testing.T) {
	s, ts := newTestServer(t)
	rep := map[string]string{
		"Prefer":       "return=representation",
		"Accept":       mediaObject,
		"Content-Type": "application/json",
	}

	resp, body := do(t, http.MethodPost, ts.URL+"/rest/v1/projects", `{"title":"Deep Sea","order":3}`, rep)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", resp.StatusCode, body)
	}
	var created Row
	json.Unmarshal([]byte(body), &created)
	if created["id"] != float64(3) {
		t.Errorf("Expected id 3, got %v", created["id"])
	}
	if created["created_at"] == nil {
		t.Error("Expected created_at to be set")
	}

	resp, body = do(t, http.MethodPatch, ts.URL+"/rest/v1/projects?id=eq.3", `{"title":"Deep Sea 2","id":42}`, rep)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, body)
	}
	var updated Row
	json.Unmarshal([]byte(body), &updated)
	if updated["title"] != "Deep Sea 2" || updated["id"] != float64(3) {
		t.Errorf("Unexpected update result: %v", updated)
	}

	resp, _ = do(t, http.MethodDelete, ts.URL+"/rest/v1/projects?id=eq.3", "", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", resp.StatusCode)
	}
	if got := s.Store().Count("projects"); got != 2 {
		t.Errorf("Expected 2 projects after delete, got %d", got)
	}

	if got := testutil.ToFloat64(s.metrics.requests.WithLabelValues("POST", "projects", "201")); got != 1 {
		t.Errorf("Expected 1 counted POST, got %v", got)
	}
	if got := testutil.ToFloat64(s.metrics.rows.WithLabelValues("projects")); got != 2 {
		t.Errorf("Expected rows gauge 2, got %v", got)
	}
}

func TestRest_Errors(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"unknown table", http.MethodGet, "/rest/v1/nope", "", http.StatusNotFound},
		{"bad filter", http.MethodGet, "/rest/v1/areas?id=gt.1", "", http.StatusBadRequest},
		{"bad body", http.MethodPost, "/rest/v1/areas", "not json", http.StatusBadRequest},
		{"bad method", http.MethodPut, "/rest/v1/areas", "{}", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, tt.method, ts.URL+tt.path, tt.body, nil)
			if resp.StatusCode != tt.want {
				t.Errorf("Expected %d, got %d: %s", tt.want, resp.StatusCode, body)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestServer(t)
	do(t, http.MethodGet, ts.URL+"/rest/v1/projects", "", nil)

	_, body := do(t, http.MethodGet, ts.URL+"/metrics", "", nil)
	if !strings.Contains(body, "catalog_mock_requests_total") {
		t.Errorf("Expected request counter in metrics output")
	}
	if !strings.Contains(body, `catalog_mock_table_rows{table="areas"} 5`) {
		t.Errorf("Expected seeded row gauge in metrics output")
	}
}

func TestRequestLogs(t *testing.T) {
	s, ts := newTestServer(t)
	do(t, http.MethodGet, ts.URL+"/rest/v1/projects", "", map[string]string{"X-Request-Id": "req-1"})

	logs := s.GetLogs()
	if len(logs) != 1 {
		t.Fatalf("Expected 1 log, got %d", len(logs))
	}
	if logs[0].RequestID != "req-1" || logs[0].Table != "projects" {
		t.Errorf("Unexpected log entry: %+v", logs[0])
	}
	select {
	case <-s.NotifyChannel():
	default:
		t.Error("Expected a notification for the new log")
	}

	s.ClearLogs()
	if len(s.GetLogs()) != 0 {
		t.Error("Expected logs to be cleared")
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "seed.yaml")
	if err := SaveConfig(DefaultConfig(), path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if len(cfg.Tables["areas"]) != 5 {
		t.Errorf("Expected 5 seeded areas, got %d", len(cfg.Tables["areas"]))
	}

	invalid := []struct {
		name    string
		content string
	}{
		{"unknown table", "tables:\n  widgets:\n    - id: 1\n"},
		{"missing id", "tables:\n  projects:\n    - title: x\n"},
		{"duplicate id", "tables:\n  projects:\n    - id: 1\n    - id: 1\n"},
		{"user without password", "users:\n  - email: a@b.c\n"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			p := filepath.Join(dir, "bad.yaml")
			if err := os.WriteFile(p, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfig(p); err == nil {
				t.Error("Expected validation error")
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(dir, "seed.toml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestServer_StartStop(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Port = 0
	cfg.Host = "127.0.0.1"
	s := NewServer(cfg, nil)
	// Port 0 falls back to the default port; bind an ephemeral one instead.
	s.config.Port = 0
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	resp, _ := do(t, http.MethodGet, s.GetAddress()+"/rest/v1/projects", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200 from started server, got %d", resp.StatusCode)
	}
}

package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewer(t *testing.T) {
	tests := []struct {
		name     string
		latest   string
		current  string
		expected bool
	}{
		{"same version", "0.1.0", "0.1.0", false},
		{"patch upgrade", "0.1.1", "0.1.0", true},
		{"patch downgrade", "0.0.9", "0.1.0", false},
		{"multi-digit patch", "0.0.100", "0.0.99", true},
		{"different lengths", "1.0", "0.9.28", true},
		{"shorter is older", "0.9", "1.0.1", false},
		{"pre-release same base", "0.2.0-alpha", "0.2.0", false},
		{"build metadata", "0.2.1+build7", "0.2.0", true},
		{"garbage parts", "x.1", "0.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Newer(tt.latest, tt.current); got != tt.expected {
				t.Errorf("Newer(%q, %q) = %v, want %v", tt.latest, tt.current, got, tt.expected)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "catalog/v0.1.0" {
			t.Errorf("Expected user agent catalog/v0.1.0, got %s", got)
		}
		w.Write([]byte(`{"tag_name":"v0.2.0","html_url":"https://example.com/r/0.2.0"}`))
	}))
	defer server.Close()

	c := &Checker{URL: server.URL, HTTP: server.Client()}
	status, err := c.Check(context.Background(), "v0.1.0")
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !status.Available || status.Latest.Version != "0.2.0" || status.Current != "0.1.0" {
		t.Errorf("Expected update to 0.2.0, got %+v", status)
	}
}

func TestCheckStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	c := &Checker{URL: server.URL, HTTP: server.Client()}
	if _, err := c.Check(context.Background(), "0.1.0"); err == nil {
		t.Error("Expected error for 403")
	}
}

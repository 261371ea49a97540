package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type area struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

func TestQuery_StructTags(t *testing.T) {
	areas := []area{
		{ID: 1, Title: "Cell", Category: "Scale"},
		{ID: 2, Title: "Biology", Category: "Field"},
		{ID: 3, Title: "Planet", Category: "Scale"},
	}

	got, err := Query(areas, "[?category=='Scale'].title")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	want := []any{"Cell", "Planet"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Query mismatch (-want +got):\n%s", diff)
	}
}

func TestQuery_EmptyExpression(t *testing.T) {
	got, err := Query(area{ID: 4, Title: "Atom"}, "")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	want := map[string]any{"id": float64(4), "title": "Atom", "category": ""}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Query mismatch (-want +got):\n%s", diff)
	}
}

func TestQuery_InvalidExpression(t *testing.T) {
	if _, err := Query([]int{1}, "[?"); err == nil {
		t.Error("Expected error for invalid expression")
	}
}

func TestApply(t *testing.T) {
	body := `[{"id":1,"title":"A","order":2},{"id":2,"title":"B","order":null}]`

	tests := []struct {
		name    string
		filter  string
		query   string
		want    string
		wantErr bool
	}{
		{name: "passthrough", want: "[\n  {\n    \"id\": 1,\n    \"order\": 2,\n    \"title\": \"A\"\n  },\n  {\n    \"id\": 2,\n    \"order\": null,\n    \"title\": \"B\"\n  }\n]"},
		{name: "filter and query", filter: "[?order != null]", query: "[].title", want: "[\n  \"A\"\n]"},
		{name: "null result", query: "missing", want: "null"},
		{name: "bad filter", filter: "[?", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(body, tt.filter, tt.query)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}

	if _, err := Apply("not json", "", ""); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestIsValidJMESPath(t *testing.T) {
	if !IsValidJMESPath("[].title") {
		t.Error("Expected [].title to be valid")
	}
	if IsValidJMESPath("[?") {
		t.Error("Expected [? to be invalid")
	}
}

package catalog

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/studiowebux/catalog/internal/config"
	"github.com/studiowebux/catalog/internal/mock"
	"github.com/studiowebux/catalog/internal/postgrest"
	"github.com/studiowebux/catalog/internal/types"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func newTestStore(t *testing.T) (*Store, *mock.Server) {
	t.Helper()
	server := mock.NewServer(mock.DefaultConfig(), nil)
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	client, err := postgrest.New(config.Backend{URL: ts.URL})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return New(client), server
}

func TestLoadAll(t *testing.T) {
	store, _ := newTestStore(t)

	snap, err := store.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(snap.Projects) != 2 || len(snap.Areas) != 5 || len(snap.Links) != 4 {
		t.Errorf("Unexpected snapshot sizes: %d projects, %d areas, %d links", len(snap.Projects), len(snap.Areas), len(snap.Links))
	}
	if diff := cmp.Diff([]int64{3, 5}, AreaIDs(snap.Links, 1)); diff != "" {
		t.Errorf("AreaIDs mismatch (-want +got):\n%s", diff)
	}
}

func TestProjects_CRUD(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	created, err := store.Projects.Save(ctx, types.Project{Title: "Deep Sea", Desc: strPtr(""), Order: intPtr(0)})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == 0 || created.CreatedAt == nil {
		t.Fatalf("Expected server assigned id and created_at, got %+v", created)
	}

	created.Title = "Deep Sea Trench"
	updated, err := store.Projects.Save(ctx, created)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Title != "Deep Sea Trench" || updated.ID != created.ID {
		t.Errorf("Unexpected update result: %+v", updated)
	}

	got, err := store.Projects.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if diff := cmp.Diff(updated, got); diff != "" {
		t.Errorf("Get mismatch (-want +got):\n%s", diff)
	}

	list, err := store.Projects.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if list[0].ID != created.ID {
		t.Errorf("Expected order 0 project first, got %+v", list[0])
	}

	if err := store.Projects.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Projects.Get(ctx, created.ID); !errors.Is(err, postgrest.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestAreas_CRUD(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	dec := types.FormatDecimal
	created, err := store.Areas.Create(ctx, types.AreaDto{Title: "3.5", Category: "Scale", Format: &dec})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Format == nil || *created.Format != types.FormatDecimal {
		t.Errorf("Expected format to round-trip, got %v", created.Format)
	}

	created.Desc = strPtr("half step")
	updated, err := store.Areas.Update(ctx, created)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Desc == nil || *updated.Desc != "half step" {
		t.Errorf("Expected description, got %v", updated.Desc)
	}

	if err := store.Areas.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	areas, err := store.Areas.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(areas) != 5 {
		t.Errorf("Expected 5 areas, got %d", len(areas))
	}
}

func TestContents_Save(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	// Project 2 has no content yet: Save creates it.
	none, err := store.Contents.ForProject(ctx, 2)
	if err != nil || none != nil {
		t.Fatalf("Expected no content, got %v, %v", none, err)
	}
	created, err := store.Contents.Save(ctx, types.Content{ProjectID: 2, Text: strPtr("# Cells")})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("Expected created content id")
	}

	// Saving again without an id updates the existing row.
	again, err := store.Contents.Save(ctx, types.Content{ProjectID: 2, Text: strPtr("# Cells v2")})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if again.ID != created.ID {
		t.Errorf("Expected update of content %d, got %d", created.ID, again.ID)
	}

	got, err := store.Contents.ForProject(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || *got.Text != "# Cells v2" {
		t.Errorf("Expected updated text, got %+v", got)
	}

	if err := store.Contents.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
}

func TestLinks_Sync(t *testing.T) {
	store, server := newTestStore(t)
	ctx := context.Background()

	links, err := store.Links.Sync(ctx, 1, []int64{4, 1, 4, 2})
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if len(links) != 3 {
		t.Fatalf("Expected 3 links, got %d", len(links))
	}
	for i, want := range []int64{4, 1, 2} {
		if links[i].AreaID != want || links[i].ProjectID != 1 {
			t.Errorf("link %d: expected area %d, got %+v", i, want, links[i])
		}
	}

	current, err := store.Links.ForProject(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int64{1, 2, 4}, AreaIDs(current, 1)); diff != "" {
		t.Errorf("AreaIDs mismatch (-want +got):\n%s", diff)
	}

	// Links of the other project are untouched.
	if got := server.Store().Count("catalog"); got != 5 {
		t.Errorf("Expected 5 links in total, got %d", got)
	}

	if _, err := store.Links.Sync(ctx, 1, nil); err != nil {
		t.Fatalf("Sync to empty failed: %v", err)
	}
	current, _ = store.Links.ForProject(ctx, 1)
	if len(current) != 0 {
		t.Errorf("Expected no links, got %d", len(current))
	}
}

func TestLinks_SyncPartialFailure(t *testing.T) {
	server := mock.NewServer(mock.DefaultConfig(), nil)
	handler := server.Handler()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && strings.Contains(r.URL.Path, TableLinks) {
			body, _ := io.ReadAll(r.Body)
			if strings.Contains(string(body), `"area_id":2`) {
				http.Error(w, `{"message":"insert rejected"}`, http.StatusInternalServerError)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		handler.ServeHTTP(w, r)
	}))
	defer ts.Close()

	client, err := postgrest.New(config.Backend{URL: ts.URL})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	store := New(client)

	links, err := store.Links.Sync(context.Background(), 1, []int64{4, 2, 1})
	if err == nil {
		t.Fatal("Expected error when an insert fails")
	}
	if diff := cmp.Diff([]int64{1, 4}, AreaIDs(links, 1)); diff != "" {
		t.Errorf("Inserted links mismatch (-want +got):\n%s", diff)
	}

	current, err := store.Links.ForProject(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(AreaIDs(current, 1), AreaIDs(links, 1)); diff != "" {
		t.Errorf("Returned links differ from the server (-server +returned):\n%s", diff)
	}
}

func TestCategories(t *testing.T) {
	areas := []types.Area{
		{ID: 1, Title: "b", Category: "Scale"},
		{ID: 2, Title: "a", Category: "Field"},
		{ID: 3, Title: "c", Category: "Scale"},
	}
	if diff := cmp.Diff([]string{"Field", "Scale"}, Categories(areas)); diff != "" {
		t.Errorf("Categories mismatch (-want +got):\n%s", diff)
	}
	grouped := ByCategory(areas)
	if len(grouped["Scale"]) != 2 || grouped["Scale"][1].ID != 3 {
		t.Errorf("Unexpected grouping: %+v", grouped)
	}
}

func TestSortAreas(t *testing.T) {
	areas := []types.Area{
		{ID: 1, Order: nil},
		{ID: 2, Order: intPtr(5)},
		{ID: 3, Order: intPtr(1)},
		{ID: 4, Order: nil},
	}
	SortAreas(areas)
	var ids []int64
	for _, a := range areas {
		ids = append(ids, a.ID)
	}
	if diff := cmp.Diff([]int64{3, 2, 1, 4}, ids); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatArea(t *testing.T) {
	exp := types.FormatExponential
	pct := types.FormatPercentage

	tests := []struct {
		area     types.Area
		wantHTML string
		wantText string
	}{
		{types.Area{Title: "3", Format: &exp}, "<var>10<sup>3</sup></var>&nbsp;m", "10^3 m"},
		{types.Area{Title: "-6", Format: &exp}, "<var>10<sup>-6</sup></var>&nbsp;m", "10^-6 m"},
		{types.Area{Title: "0", Format: &exp}, "<var>1</var>&nbsp;m", "1 m"},
		{types.Area{Title: "abc", Format: &exp}, "<var>1</var>&nbsp;m", "1 m"},
		{types.Area{Title: "50%", Format: &pct}, "<span>50%</span>", "50%"},
		{types.Area{Title: "Biology"}, "<span>Biology</span>", "Biology"},
	}

	for _, tt := range tests {
		if got := FormatArea(tt.area); got != tt.wantHTML {
			t.Errorf("FormatArea(%q): expected %q, got %q", tt.area.Title, tt.wantHTML, got)
		}
		if got := FormatAreaText(tt.area); got != tt.wantText {
			t.Errorf("FormatAreaText(%q): expected %q, got %q", tt.area.Title, tt.wantText, got)
		}
	}
}

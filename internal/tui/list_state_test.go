package tui

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func labels(items []ListItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Label
	}
	return out
}

func newTestList() *ListState {
	s := NewListState()
	s.SetItems([]ListItem{
		{ID: 1, Label: "Solar Survey"},
		{ID: 2, Label: "Cell Atlas"},
		{ID: 3, Label: "Deep Sea"},
	})
	return s
}

func TestListState_NavigateWraps(t *testing.T) {
	s := newTestList()

	s.Navigate(-1)
	if item, _ := s.Selected(); item.ID != 3 {
		t.Errorf("Expected wrap to last item, got %d", item.ID)
	}
	s.Navigate(1)
	if item, _ := s.Selected(); item.ID != 1 {
		t.Errorf("Expected wrap to first item, got %d", item.ID)
	}
}

func TestListState_PageClamps(t *testing.T) {
	s := newTestList()

	s.Page(10)
	if s.Index() != 2 {
		t.Errorf("Expected index 2, got %d", s.Index())
	}
	s.Page(-10)
	if s.Index() != 0 {
		t.Errorf("Expected index 0, got %d", s.Index())
	}
}

func TestListState_FilterIsFuzzy(t *testing.T) {
	s := newTestList()
	s.SetQuery("sa")

	got := labels(s.Visible())
	if len(got) == 0 {
		t.Fatal("Expected matches for 'sa'")
	}
	for _, l := range got {
		if l == "Cell Atlas" {
			// 'a' before 's' only, no ordered match
			t.Errorf("Unexpected match %q", l)
		}
	}
	if len(s.Matches(0)) != 2 {
		t.Errorf("Expected 2 matched offsets, got %v", s.Matches(0))
	}

	s.StopFilter(true)
	if len(s.Visible()) != 3 {
		t.Errorf("Expected all items after clearing, got %d", len(s.Visible()))
	}
}

func TestListState_FilterNoMatch(t *testing.T) {
	s := newTestList()
	s.SetQuery("zzz")

	if len(s.Visible()) != 0 {
		t.Errorf("Expected no visible items, got %v", labels(s.Visible()))
	}
	if _, ok := s.Selected(); ok {
		t.Error("Expected no selection")
	}
}

func TestListState_SetItemsKeepsSelection(t *testing.T) {
	s := newTestList()
	s.SelectID(2)

	s.SetItems([]ListItem{
		{ID: 4, Label: "New"},
		{ID: 2, Label: "Cell Atlas"},
	})
	if item, _ := s.Selected(); item.ID != 2 {
		t.Errorf("Expected selection to follow id 2, got %d", item.ID)
	}

	s.SetItems([]ListItem{{ID: 4, Label: "New"}})
	if item, ok := s.Selected(); !ok || item.ID != 4 {
		t.Errorf("Expected selection clamped to remaining item, got %v", item)
	}
}

func TestListState_NextGroup(t *testing.T) {
	s := NewListState()
	s.SetItems([]ListItem{
		{ID: 1, Label: "a", Group: "Field"},
		{ID: 2, Label: "b", Group: "Field"},
		{ID: 3, Label: "c", Group: "Scale"},
	})

	s.NextGroup()
	if item, _ := s.Selected(); item.ID != 3 {
		t.Errorf("Expected first item of next group, got %d", item.ID)
	}
	s.NextGroup()
	if item, _ := s.Selected(); item.ID != 1 {
		t.Errorf("Expected wrap to first group, got %d", item.ID)
	}
}

func TestListState_Scroll(t *testing.T) {
	s := NewListState()
	var items []ListItem
	for i := range 20 {
		items = append(items, ListItem{ID: int64(i), Label: "row"})
	}
	s.SetItems(items)

	s.Bottom()
	if got := s.Scroll(5); got != 15 {
		t.Errorf("Expected offset 15, got %d", got)
	}
	s.Top()
	if got := s.Scroll(5); got != 0 {
		t.Errorf("Expected offset 0, got %d", got)
	}
}

func TestListState_ItemsIgnoresFilter(t *testing.T) {
	s := newTestList()
	s.SetQuery("deep")

	if diff := cmp.Diff([]string{"Solar Survey", "Cell Atlas", "Deep Sea"}, labels(s.Items())); diff != "" {
		t.Errorf("Items mismatch (-want +got):\n%s", diff)
	}
}

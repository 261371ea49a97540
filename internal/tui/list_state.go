package tui

import (
	"sync"

	"github.com/sahilm/fuzzy"

	"github.com/studiowebux/catalog/internal/textedit"
)

// ListItem is one row of a record list
type ListItem struct {
	ID     int64
	Label  string // text the filter matches against
	Detail string
	Group  string // heading the row is listed under, if any
}

// listSource adapts items to fuzzy.Source
type listSource []ListItem

func (s listSource) String(i int) string { return s[i].Label }
func (s listSource) Len() int            { return len(s) }

// ListState holds a record list with its selection and fuzzy filter
type ListState struct {
	mu sync.RWMutex

	items   []ListItem
	visible []int         // indices into items in display order
	matches map[int][]int // item index -> matched byte offsets in Label
	index   int           // position in visible
	offset  int           // first rendered row

	filtering bool
	query     textedit.Buffer
}

// NewListState creates an empty list
func NewListState() *ListState {
	return &ListState{matches: make(map[int][]int)}
}

// SetItems replaces the items and keeps the selection on the same id when
// it is still listed
func (s *ListState) SetItems(items []ListItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	selected, hadSelection := s.selectedLocked()
	s.items = items
	s.applyFilterLocked()
	if hadSelection {
		s.selectIDLocked(selected.ID)
	}
}

// Items returns a copy of all items, ignoring the filter
func (s *ListState) Items() []ListItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ListItem, len(s.items))
	copy(out, s.items)
	return out
}

// Visible returns the items that pass the filter, in display order
func (s *ListState) Visible() []ListItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ListItem, len(s.visible))
	for i, idx := range s.visible {
		out[i] = s.items[idx]
	}
	return out
}

// Matches returns the matched byte offsets of the visible row i
func (s *ListState) Matches(i int) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.visible) {
		return nil
	}
	return s.matches[s.visible[i]]
}

// Selected returns the selected item
func (s *ListState) Selected() (ListItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedLocked()
}

func (s *ListState) selectedLocked() (ListItem, bool) {
	if s.index < 0 || s.index >= len(s.visible) {
		return ListItem{}, false
	}
	return s.items[s.visible[s.index]], true
}

// Index returns the selected row
func (s *ListState) Index() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Navigate moves the selection by delta, wrapping around
func (s *ListState) Navigate(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.visible)
	if n == 0 {
		return
	}
	s.index = ((s.index+delta)%n + n) % n
}

// Page moves the selection by delta without wrapping
func (s *ListState) Page(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = max(0, min(len(s.visible)-1, s.index+delta))
}

// Top selects the first row
func (s *ListState) Top() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = 0
}

// Bottom selects the last row
func (s *ListState) Bottom() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = max(0, len(s.visible)-1)
}

// SelectID selects the row with the id and reports whether it is visible
func (s *ListState) SelectID(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectIDLocked(id)
}

func (s *ListState) selectIDLocked(id int64) bool {
	for i, idx := range s.visible {
		if s.items[idx].ID == id {
			s.index = i
			return true
		}
	}
	s.index = max(0, min(s.index, len(s.visible)-1))
	return false
}

// NextGroup selects the first row of the next group, wrapping around
func (s *ListState) NextGroup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.visible)
	if n == 0 {
		return
	}
	current := s.items[s.visible[s.index]].Group
	for step := 1; step < n; step++ {
		i := (s.index + step) % n
		if s.items[s.visible[i]].Group != current {
			s.index = i
			return
		}
	}
}

// Scroll returns the first row to render so the selection fits in height
// rows
func (s *ListState) Scroll(height int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if height <= 0 {
		return 0
	}
	if s.index < s.offset {
		s.offset = s.index
	}
	if s.index >= s.offset+height {
		s.offset = s.index - height + 1
	}
	s.offset = max(0, min(s.offset, max(0, len(s.visible)-height)))
	return s.offset
}

// StartFilter begins editing the filter query
func (s *ListState) StartFilter() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filtering = true
	s.query = textedit.NewBuffer(s.query.Text, textedit.Len(s.query.Text))
}

// StopFilter ends editing. Clearing also drops the query.
func (s *ListState) StopFilter(clear bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filtering = false
	if clear {
		s.query = textedit.Buffer{}
		s.applyFilterLocked()
	}
}

// Filtering reports whether the query is being edited
func (s *ListState) Filtering() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filtering
}

// Query returns the filter query and its cursor
func (s *ListState) Query() textedit.Buffer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// EditQuery applies fn to the query buffer and refilters
func (s *ListState) EditQuery(fn func(textedit.Buffer) textedit.Buffer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = fn(s.query)
	s.applyFilterLocked()
	s.index = 0
}

// SetQuery replaces the filter query
func (s *ListState) SetQuery(q string) {
	s.EditQuery(func(textedit.Buffer) textedit.Buffer {
		return textedit.NewBuffer(q, textedit.Len(q))
	})
}

func (s *ListState) applyFilterLocked() {
	s.visible = s.visible[:0]
	s.matches = make(map[int][]int)

	if s.query.Text == "" {
		for i := range s.items {
			s.visible = append(s.visible, i)
		}
	} else {
		// fuzzy orders by score, best first
		for _, m := range fuzzy.FindFrom(s.query.Text, listSource(s.items)) {
			s.visible = append(s.visible, m.Index)
			s.matches[m.Index] = m.MatchedIndexes
		}
	}

	if s.index >= len(s.visible) {
		s.index = max(0, len(s.visible)-1)
	}
}

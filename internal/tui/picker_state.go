package tui

import (
	"slices"
	"sync"
)

// PickerState selects the areas linked to a project
type PickerState struct {
	mu sync.RWMutex

	projectID int64
	list      *ListState
	initial   map[int64]bool
	selected  map[int64]bool
}

// NewPickerState lists items with the given ids checked
func NewPickerState(projectID int64, items []ListItem, checked []int64) *PickerState {
	s := &PickerState{
		projectID: projectID,
		list:      NewListState(),
		initial:   make(map[int64]bool, len(checked)),
		selected:  make(map[int64]bool, len(checked)),
	}
	s.list.SetItems(items)
	for _, id := range checked {
		s.initial[id] = true
		s.selected[id] = true
	}
	return s
}

// ProjectID returns the project whose links are picked
func (s *PickerState) ProjectID() int64 {
	return s.projectID
}

// List returns the underlying list
func (s *PickerState) List() *ListState {
	return s.list
}

// Toggle flips the selected row
func (s *PickerState) Toggle() {
	item, ok := s.list.Selected()
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected[item.ID] {
		delete(s.selected, item.ID)
	} else {
		s.selected[item.ID] = true
	}
}

// IsSelected reports whether id is checked
func (s *PickerState) IsSelected(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected[id]
}

// Selected returns the checked ids in ascending order
func (s *PickerState) Selected() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]int64, 0, len(s.selected))
	for id := range s.selected {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Changed reports whether the checked set differs from the initial one
func (s *PickerState) Changed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.initial) != len(s.selected) {
		return true
	}
	for id := range s.selected {
		if !s.initial[id] {
			return true
		}
	}
	return false
}

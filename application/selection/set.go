// Package selection maintains the set of currently selected sketch entities.
//
// The set is owned by the per-sketch session and shared by every view of the
// open sketch: the virtualized table, the canvas and the context menus all
// read the same set and mutate it only through these operations. Selection
// membership is independent of filter state; a node stays selected while a
// filter hides it.
package selection

import (
	"caseboard/domain/core/valueobjects"
)

// Set is the selection set manager. It is not safe for concurrent use on its
// own; the owning session serializes access.
type Set struct {
	members map[valueobjects.NodeID]struct{}
	version int
}

// NewSet creates an empty selection set
func NewSet() *Set {
	return &Set{
		members: make(map[valueobjects.NodeID]struct{}),
	}
}

// Toggle adds the id if absent and removes it if present
func (s *Set) Toggle(id valueobjects.NodeID) {
	if _, ok := s.members[id]; ok {
		delete(s.members, id)
	} else {
		s.members[id] = struct{}{}
	}
	s.version++
}

// Add inserts an id; adding an existing member is a no-op
func (s *Set) Add(id valueobjects.NodeID) {
	if _, ok := s.members[id]; ok {
		return
	}
	s.members[id] = struct{}{}
	s.version++
}

// Remove deletes an id; removing a non-member is a no-op
func (s *Set) Remove(id valueobjects.NodeID) {
	if _, ok := s.members[id]; !ok {
		return
	}
	delete(s.members, id)
	s.version++
}

// SetAll replaces the membership wholesale. Select-all passes the currently
// filtered id set here, not the full registry.
func (s *Set) SetAll(ids []valueobjects.NodeID) {
	members := make(map[valueobjects.NodeID]struct{}, len(ids))
	for _, id := range ids {
		members[id] = struct{}{}
	}
	s.members = members
	s.version++
}

// Clear empties the selection
func (s *Set) Clear() {
	if len(s.members) == 0 {
		return
	}
	s.members = make(map[valueobjects.NodeID]struct{})
	s.version++
}

// Contains reports membership in O(1)
func (s *Set) Contains(id valueobjects.NodeID) bool {
	_, ok := s.members[id]
	return ok
}

// Len returns the number of selected entities
func (s *Set) Len() int {
	return len(s.members)
}

// IDs returns the selected identifiers. Order is unspecified.
func (s *Set) IDs() []valueobjects.NodeID {
	ids := make([]valueobjects.NodeID, 0, len(s.members))
	for id := range s.members {
		ids = append(ids, id)
	}
	return ids
}

// Version returns a counter bumped on every effective mutation
func (s *Set) Version() int {
	return s.version
}

// DisplayState describes the select-all checkbox of a view
type DisplayState struct {
	AllSelected   bool `json:"all_selected"`
	Indeterminate bool `json:"indeterminate"`
}

// DisplayStateFor derives the checkbox state for the given visible id set:
// all-selected when the visible set is non-empty and every visible id is
// selected, indeterminate when some but not all visible ids are selected.
func (s *Set) DisplayStateFor(visible []valueobjects.NodeID) DisplayState {
	if len(visible) == 0 {
		return DisplayState{}
	}

	selected := 0
	for _, id := range visible {
		if s.Contains(id) {
			selected++
		}
	}

	return DisplayState{
		AllSelected:   selected == len(visible),
		Indeterminate: selected > 0 && selected < len(visible),
	}
}

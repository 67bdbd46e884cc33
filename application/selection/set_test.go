package selection

import (
	"testing"

	"caseboard/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
)

func ids(n int) []valueobjects.NodeID {
	out := make([]valueobjects.NodeID, n)
	for i := range out {
		out[i] = valueobjects.NewNodeID()
	}
	return out
}

func TestSet_Toggle(t *testing.T) {
	s := NewSet()
	id := valueobjects.NewNodeID()

	s.Toggle(id)
	assert.True(t, s.Contains(id))
	assert.Equal(t, 1, s.Len())

	s.Toggle(id)
	assert.False(t, s.Contains(id))
	assert.Equal(t, 0, s.Len())
}

func TestSet_AddRemoveIdempotent(t *testing.T) {
	s := NewSet()
	id := valueobjects.NewNodeID()

	s.Add(id)
	v := s.Version()
	s.Add(id)
	assert.Equal(t, v, s.Version(), "re-adding a member must not bump the version")
	assert.Equal(t, 1, s.Len())

	s.Remove(id)
	v = s.Version()
	s.Remove(id)
	assert.Equal(t, v, s.Version(), "removing a non-member must not bump the version")
}

func TestSet_SetAllAndClear(t *testing.T) {
	s := NewSet()
	first := ids(3)
	s.SetAll(first)
	assert.Equal(t, 3, s.Len())

	// Wholesale replacement drops prior members
	second := ids(2)
	s.SetAll(second)
	assert.Equal(t, 2, s.Len())
	assert.False(t, s.Contains(first[0]))
	assert.True(t, s.Contains(second[0]))

	s.Clear()
	assert.Equal(t, 0, s.Len())
}

func TestSet_DisplayStateFor(t *testing.T) {
	visible := ids(4)

	tests := []struct {
		name              string
		selectCount       int
		visible           []valueobjects.NodeID
		wantAllSelected   bool
		wantIndeterminate bool
	}{
		{
			name:        "none selected",
			selectCount: 0,
			visible:     visible,
		},
		{
			name:              "some selected",
			selectCount:       2,
			visible:           visible,
			wantIndeterminate: true,
		},
		{
			name:            "all selected",
			selectCount:     4,
			visible:         visible,
			wantAllSelected: true,
		},
		{
			name:        "empty visible set",
			selectCount: 4,
			visible:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSet()
			for i := 0; i < tt.selectCount; i++ {
				s.Add(visible[i])
			}
			state := s.DisplayStateFor(tt.visible)
			assert.Equal(t, tt.wantAllSelected, state.AllSelected)
			assert.Equal(t, tt.wantIndeterminate, state.Indeterminate)
		})
	}
}

func TestSet_DisplayStateIgnoresHiddenSelection(t *testing.T) {
	s := NewSet()
	visible := ids(2)
	hidden := valueobjects.NewNodeID()

	s.Add(visible[0])
	s.Add(visible[1])
	s.Add(hidden)

	// A selected-but-hidden id must not break the all-selected derivation
	state := s.DisplayStateFor(visible)
	assert.True(t, state.AllSelected)
	assert.False(t, state.Indeterminate)
}

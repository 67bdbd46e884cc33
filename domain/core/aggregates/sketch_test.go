package aggregates

import (
	"testing"

	"caseboard/domain/core/entities"
	"caseboard/domain/core/valueobjects"
	pkgerrors "caseboard/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNode(t *testing.T, label, typeTag string) *entities.Node {
	t.Helper()
	return entities.NewNode(map[string]interface{}{
		entities.AttrLabel: label,
		entities.AttrType:  typeTag,
	})
}

func newTestSketch(t *testing.T) *Sketch {
	t.Helper()
	sketch, err := NewSketch("inv-1", "Test Sketch")
	require.NoError(t, err)
	return sketch
}

func TestNewSketch(t *testing.T) {
	tests := []struct {
		name            string
		investigationID string
		sketchName      string
		wantErr         bool
	}{
		{
			name:            "valid sketch",
			investigationID: "inv-1",
			sketchName:      "Fraud ring",
			wantErr:         false,
		},
		{
			name:            "missing investigation",
			investigationID: "",
			sketchName:      "Fraud ring",
			wantErr:         true,
		},
		{
			name:            "missing name",
			investigationID: "inv-1",
			sketchName:      "",
			wantErr:         true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sketch, err := NewSketch(tt.investigationID, tt.sketchName)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, sketch)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, sketch.ID().String())
				assert.Equal(t, tt.sketchName, sketch.Name())
				assert.Equal(t, 0, sketch.NodeCount())
			}
		})
	}
}

func TestSketch_UpsertNode(t *testing.T) {
	sketch := newTestSketch(t)

	alice := newTestNode(t, "Alice", "person")
	require.NoError(t, sketch.UpsertNode(alice))
	bob := newTestNode(t, "Bob", "person")
	require.NoError(t, sketch.UpsertNode(bob))

	assert.Equal(t, 2, sketch.NodeCount())

	// Replacing keeps the original insertion position
	replacement, err := entities.NewNodeWithID(alice.ID(), map[string]interface{}{
		entities.AttrLabel: "Alice Smith",
		entities.AttrType:  "person",
	})
	require.NoError(t, err)
	require.NoError(t, sketch.UpsertNode(replacement))

	nodes := sketch.Nodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, "Alice Smith", nodes[0].Label())
	assert.Equal(t, "Bob", nodes[1].Label())

	assert.Error(t, sketch.UpsertNode(nil))
}

func TestSketch_RemoveNode_CascadesEdges(t *testing.T) {
	sketch := newTestSketch(t)

	alice := newTestNode(t, "Alice", "person")
	bob := newTestNode(t, "Bob", "person")
	corp := newTestNode(t, "Acme", "organization")
	for _, n := range []*entities.Node{alice, bob, corp} {
		require.NoError(t, sketch.UpsertNode(n))
	}

	_, err := sketch.ConnectNodes(alice.ID(), bob.ID(), "knows")
	require.NoError(t, err)
	_, err = sketch.ConnectNodes(alice.ID(), corp.ID(), "works_at")
	require.NoError(t, err)
	_, err = sketch.ConnectNodes(bob.ID(), corp.ID(), "works_at")
	require.NoError(t, err)
	require.Equal(t, 3, sketch.EdgeCount())

	require.NoError(t, sketch.RemoveNode(alice.ID()))

	assert.Equal(t, 2, sketch.NodeCount())
	assert.Equal(t, 1, sketch.EdgeCount(), "both edges touching alice must go")
	assert.False(t, sketch.HasNode(alice.ID()))
	require.NoError(t, sketch.Validate())

	// Removing an unknown node is a not-found error
	err = sketch.RemoveNode(valueobjects.NewNodeID())
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestSketch_ConnectNodes(t *testing.T) {
	sketch := newTestSketch(t)
	alice := newTestNode(t, "Alice", "person")
	bob := newTestNode(t, "Bob", "person")
	require.NoError(t, sketch.UpsertNode(alice))
	require.NoError(t, sketch.UpsertNode(bob))

	edge, err := sketch.ConnectNodes(alice.ID(), bob.ID(), "knows")
	require.NoError(t, err)
	assert.NotEmpty(t, edge.ID)

	t.Run("duplicate edge rejected", func(t *testing.T) {
		_, err := sketch.ConnectNodes(alice.ID(), bob.ID(), "knows")
		assert.True(t, pkgerrors.IsConflict(err))
	})

	t.Run("same endpoints different label allowed", func(t *testing.T) {
		_, err := sketch.ConnectNodes(alice.ID(), bob.ID(), "pays")
		assert.NoError(t, err)
	})

	t.Run("self edge rejected", func(t *testing.T) {
		_, err := sketch.ConnectNodes(alice.ID(), alice.ID(), "loop")
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("missing endpoint rejected", func(t *testing.T) {
		_, err := sketch.ConnectNodes(alice.ID(), valueobjects.NewNodeID(), "knows")
		assert.True(t, pkgerrors.IsValidation(err))
	})
}

func TestSketch_Load(t *testing.T) {
	sketch := newTestSketch(t)
	old := newTestNode(t, "Old", "person")
	require.NoError(t, sketch.UpsertNode(old))

	alice := newTestNode(t, "Alice", "person")
	bob := newTestNode(t, "Bob", "person")
	ghost := valueobjects.NewNodeID()

	edges := []*Edge{
		{ID: "e1", SourceID: alice.ID(), TargetID: bob.ID(), Label: "knows"},
		{ID: "e2", SourceID: alice.ID(), TargetID: ghost, Label: "dangling"},
	}

	require.NoError(t, sketch.Load([]*entities.Node{alice, bob}, edges))

	// Wholesale replacement: the old node is gone
	assert.False(t, sketch.HasNode(old.ID()))
	assert.Equal(t, 2, sketch.NodeCount())

	// The dangling edge is pruned silently
	assert.Equal(t, 1, sketch.EdgeCount())
	require.NoError(t, sketch.Validate())

	t.Run("duplicate IDs rejected", func(t *testing.T) {
		err := sketch.Load([]*entities.Node{alice, alice}, nil)
		assert.True(t, pkgerrors.IsConflict(err))
	})
}

func TestSketch_RemoveEdge(t *testing.T) {
	sketch := newTestSketch(t)
	alice := newTestNode(t, "Alice", "person")
	bob := newTestNode(t, "Bob", "person")
	require.NoError(t, sketch.UpsertNode(alice))
	require.NoError(t, sketch.UpsertNode(bob))

	edge, err := sketch.ConnectNodes(alice.ID(), bob.ID(), "knows")
	require.NoError(t, err)

	require.NoError(t, sketch.RemoveEdge(edge.ID))
	assert.Equal(t, 0, sketch.EdgeCount())

	// Endpoints survive edge removal
	assert.True(t, sketch.HasNode(alice.ID()))
	assert.True(t, sketch.HasNode(bob.ID()))

	assert.True(t, pkgerrors.IsNotFound(sketch.RemoveEdge(edge.ID)))
}

func TestSketch_NodesInsertionOrder(t *testing.T) {
	sketch := newTestSketch(t)
	labels := []string{"c", "a", "b", "e", "d"}
	for _, l := range labels {
		require.NoError(t, sketch.UpsertNode(newTestNode(t, l, "person")))
	}

	nodes := sketch.Nodes()
	require.Len(t, nodes, len(labels))
	for i, l := range labels {
		assert.Equal(t, l, nodes[i].Label())
	}
}

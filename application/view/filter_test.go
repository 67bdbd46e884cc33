package view

import (
	"testing"

	"caseboard/domain/core/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNodes(t *testing.T) []*entities.Node {
	t.Helper()
	specs := []struct{ label, typeTag string }{
		{"Alice Johnson", "person"},
		{"Bob Stone", "person"},
		{"Acme Corp", "organization"},
		{"alice@acme.test", "email"},
		{"10.0.0.1", "ip"},
	}
	nodes := make([]*entities.Node, 0, len(specs))
	for _, s := range specs {
		nodes = append(nodes, entities.NewNode(map[string]interface{}{
			entities.AttrLabel: s.label,
			entities.AttrType:  s.typeTag,
		}))
	}
	return nodes
}

func TestFilter(t *testing.T) {
	nodes := testNodes(t)

	tests := []struct {
		name       string
		query      string
		typeFilter string
		wantLabels []string
	}{
		{
			name:       "empty query matches everything",
			query:      "",
			wantLabels: []string{"Alice Johnson", "Bob Stone", "Acme Corp", "alice@acme.test", "10.0.0.1"},
		},
		{
			name:       "case-insensitive label substring",
			query:      "ALICE",
			wantLabels: []string{"Alice Johnson", "alice@acme.test"},
		},
		{
			name:       "query matches type attribute too",
			query:      "organiz",
			wantLabels: []string{"Acme Corp"},
		},
		{
			name:       "type predicate alone",
			typeFilter: "person",
			wantLabels: []string{"Alice Johnson", "Bob Stone"},
		},
		{
			name:       "all sentinel disables the predicate",
			typeFilter: TypeAll,
			wantLabels: []string{"Alice Johnson", "Bob Stone", "Acme Corp", "alice@acme.test", "10.0.0.1"},
		},
		{
			name:       "query and predicate are ANDed",
			query:      "alice",
			typeFilter: "email",
			wantLabels: []string{"alice@acme.test"},
		},
		{
			name:       "no matches",
			query:      "zzz",
			wantLabels: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched := Filter(nodes, tt.query, tt.typeFilter)
			labels := make([]string, 0, len(matched))
			for _, n := range matched {
				labels = append(labels, n.Label())
			}
			assert.Equal(t, tt.wantLabels, labels)
		})
	}
}

func TestFilter_PreservesOrder(t *testing.T) {
	nodes := testNodes(t)
	matched := Filter(nodes, "", "person")
	require.Len(t, matched, 2)
	assert.Equal(t, "Alice Johnson", matched[0].Label())
	assert.Equal(t, "Bob Stone", matched[1].Label())
}

func TestFilterIDs(t *testing.T) {
	nodes := testNodes(t)
	ids := FilterIDs(nodes, "alice", "")
	require.Len(t, ids, 2)
	assert.Equal(t, nodes[0].ID(), ids[0])
	assert.Equal(t, nodes[3].ID(), ids[1])
}

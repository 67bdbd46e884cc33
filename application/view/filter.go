// Package view holds the read-only derivations behind the virtualized table:
// the filter/search index and the viewport windower. Both are pure functions
// over a registry snapshot and are recomputed fully on every change; at
// sketch scale there is nothing to gain from incremental indexing.
package view

import (
	"strings"

	"caseboard/domain/core/entities"
	"caseboard/domain/core/valueobjects"
)

// TypeAll is the type predicate value that matches every entity type.
const TypeAll = "all"

// Filter returns the nodes matching a case-insensitive substring query and
// an optional exact type predicate. The query matches the label OR the type
// attribute; the predicate is ANDed when set to something other than "all".
// An empty query matches everything. Input order (the registry's insertion
// order) is preserved.
func Filter(nodes []*entities.Node, query, typePredicate string) []*entities.Node {
	query = strings.ToLower(strings.TrimSpace(query))
	typed := typePredicate != "" && typePredicate != TypeAll

	matched := make([]*entities.Node, 0, len(nodes))
	for _, node := range nodes {
		if typed && node.TypeTag() != typePredicate {
			continue
		}
		if query != "" && !matchesQuery(node, query) {
			continue
		}
		matched = append(matched, node)
	}
	return matched
}

// FilterIDs is Filter reduced to the matching identifiers, the shape
// filtered select-all consumes.
func FilterIDs(nodes []*entities.Node, query, typePredicate string) []valueobjects.NodeID {
	matched := Filter(nodes, query, typePredicate)
	ids := make([]valueobjects.NodeID, len(matched))
	for i, node := range matched {
		ids[i] = node.ID()
	}
	return ids
}

func matchesQuery(node *entities.Node, lowered string) bool {
	if strings.Contains(strings.ToLower(node.Label()), lowered) {
		return true
	}
	return strings.Contains(strings.ToLower(node.TypeTag()), lowered)
}

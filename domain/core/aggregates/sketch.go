package aggregates

import (
	"time"

	"caseboard/domain/core/entities"
	"caseboard/domain/core/valueobjects"
	pkgerrors "caseboard/pkg/errors"

	"github.com/google/uuid"
)

// SketchID represents a unique sketch identifier
type SketchID string

// NewSketchID creates a new random SketchID
func NewSketchID() SketchID {
	return SketchID(uuid.New().String())
}

// String returns the string representation
func (id SketchID) String() string {
	return string(id)
}

// Sketch is the aggregate root for one relationship map. It is the single
// source of truth for nodes and edges while a sketch is open: the table
// view, canvas and menus all derive from it and never hold private copies.
//
// Invariants: node identifiers are unique; every edge's endpoints exist in
// the node set; insertion order of nodes is preserved for list views.
type Sketch struct {
	id            SketchID
	investigation string
	name          string
	nodes         map[valueobjects.NodeID]*entities.Node
	order         []valueobjects.NodeID
	edges         map[string]*Edge
	createdAt     time.Time
	updatedAt     time.Time
	version       int
}

// Edge is a labeled, ordered connection between two nodes. Its lifecycle is
// bound to its endpoints: removing either endpoint removes the edge.
type Edge struct {
	ID        string
	SourceID  valueobjects.NodeID
	TargetID  valueobjects.NodeID
	Label     string
	CreatedAt time.Time
}

// NewSketch creates a new sketch aggregate
func NewSketch(investigationID, name string) (*Sketch, error) {
	if investigationID == "" {
		return nil, pkgerrors.NewValidationError("investigation ID is required")
	}
	if name == "" {
		return nil, pkgerrors.NewValidationError("sketch name is required")
	}

	now := time.Now()
	return &Sketch{
		id:            NewSketchID(),
		investigation: investigationID,
		name:          name,
		nodes:         make(map[valueobjects.NodeID]*entities.Node),
		edges:         make(map[string]*Edge),
		createdAt:     now,
		updatedAt:     now,
		version:       1,
	}, nil
}

// ReconstructSketch recreates a sketch from stored data
func ReconstructSketch(id, investigationID, name string, createdAt, updatedAt time.Time) (*Sketch, error) {
	if id == "" || investigationID == "" || name == "" {
		return nil, pkgerrors.NewValidationError("required fields missing for sketch reconstruction")
	}

	return &Sketch{
		id:            SketchID(id),
		investigation: investigationID,
		name:          name,
		nodes:         make(map[valueobjects.NodeID]*entities.Node),
		edges:         make(map[string]*Edge),
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		version:       1,
	}, nil
}

// ID returns the sketch's unique identifier
func (s *Sketch) ID() SketchID {
	return s.id
}

// InvestigationID returns the owning investigation's ID
func (s *Sketch) InvestigationID() string {
	return s.investigation
}

// Name returns the sketch's name
func (s *Sketch) Name() string {
	return s.name
}

// Rename changes the sketch's name
func (s *Sketch) Rename(name string) error {
	if name == "" {
		return pkgerrors.NewValidationError("sketch name is required")
	}
	s.name = name
	s.touch()
	return nil
}

// Load replaces the working set wholesale, used on sketch switch. Edges
// referencing nodes absent from the new set are pruned silently.
func (s *Sketch) Load(nodes []*entities.Node, edges []*Edge) error {
	newNodes := make(map[valueobjects.NodeID]*entities.Node, len(nodes))
	newOrder := make([]valueobjects.NodeID, 0, len(nodes))

	for _, node := range nodes {
		if node == nil {
			return pkgerrors.NewValidationError("node cannot be nil")
		}
		if _, exists := newNodes[node.ID()]; exists {
			return pkgerrors.NewConflictError("duplicate node ID in load set: " + node.ID().String())
		}
		newNodes[node.ID()] = node
		newOrder = append(newOrder, node.ID())
	}

	newEdges := make(map[string]*Edge, len(edges))
	for _, edge := range edges {
		if edge == nil || edge.ID == "" {
			continue
		}
		_, sourceExists := newNodes[edge.SourceID]
		_, targetExists := newNodes[edge.TargetID]
		if !sourceExists || !targetExists {
			// Referential auto-prune, never surfaced as an error
			continue
		}
		newEdges[edge.ID] = edge
	}

	s.nodes = newNodes
	s.order = newOrder
	s.edges = newEdges
	s.touch()
	return nil
}

// UpsertNode inserts a node or replaces the node with the same identifier.
// A replaced node keeps its original place in insertion order. Attribute
// mappings are accepted as-is; schema enforcement is a collaborator's concern.
func (s *Sketch) UpsertNode(node *entities.Node) error {
	if node == nil {
		return pkgerrors.NewValidationError("node cannot be nil")
	}

	nodeID := node.ID()
	if _, exists := s.nodes[nodeID]; !exists {
		s.order = append(s.order, nodeID)
	}
	s.nodes[nodeID] = node
	s.touch()
	return nil
}

// RemoveNode deletes the node and cascades to every edge referencing it
func (s *Sketch) RemoveNode(nodeID valueobjects.NodeID) error {
	if _, exists := s.nodes[nodeID]; !exists {
		return pkgerrors.NewNotFoundError("node")
	}

	for key, edge := range s.edges {
		if edge.SourceID.Equals(nodeID) || edge.TargetID.Equals(nodeID) {
			delete(s.edges, key)
		}
	}

	delete(s.nodes, nodeID)
	for i, id := range s.order {
		if id.Equals(nodeID) {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.touch()
	return nil
}

// ConnectNodes creates a labeled edge between two existing nodes
func (s *Sketch) ConnectNodes(sourceID, targetID valueobjects.NodeID, label string) (*Edge, error) {
	_, sourceExists := s.nodes[sourceID]
	_, targetExists := s.nodes[targetID]
	if !sourceExists || !targetExists {
		return nil, pkgerrors.NewValidationError("both nodes must exist in sketch")
	}

	if sourceID.Equals(targetID) {
		return nil, pkgerrors.NewValidationError("cannot connect node to itself")
	}

	for _, edge := range s.edges {
		if edge.SourceID.Equals(sourceID) && edge.TargetID.Equals(targetID) && edge.Label == label {
			return nil, pkgerrors.NewConflictError("edge already exists")
		}
	}

	edge := &Edge{
		ID:        uuid.New().String(),
		SourceID:  sourceID,
		TargetID:  targetID,
		Label:     label,
		CreatedAt: time.Now(),
	}
	s.edges[edge.ID] = edge
	s.touch()
	return edge, nil
}

// RemoveEdge deletes a single edge by its identifier
func (s *Sketch) RemoveEdge(edgeID string) error {
	if _, exists := s.edges[edgeID]; !exists {
		return pkgerrors.NewNotFoundError("edge")
	}
	delete(s.edges, edgeID)
	s.touch()
	return nil
}

// Node retrieves a node by ID
func (s *Sketch) Node(nodeID valueobjects.NodeID) (*entities.Node, error) {
	node, exists := s.nodes[nodeID]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("node")
	}
	return node, nil
}

// HasNode checks if a node exists without error
func (s *Sketch) HasNode(nodeID valueobjects.NodeID) bool {
	_, exists := s.nodes[nodeID]
	return exists
}

// Nodes returns all nodes in insertion order. The slice is a copy; the
// nodes themselves are the shared entities.
func (s *Sketch) Nodes() []*entities.Node {
	nodes := make([]*entities.Node, 0, len(s.order))
	for _, id := range s.order {
		nodes = append(nodes, s.nodes[id])
	}
	return nodes
}

// Edges returns all edges
func (s *Sketch) Edges() []*Edge {
	edges := make([]*Edge, 0, len(s.edges))
	for _, edge := range s.edges {
		edges = append(edges, edge)
	}
	return edges
}

// EdgesTouching returns the edges whose source or target is the given node
func (s *Sketch) EdgesTouching(nodeID valueobjects.NodeID) []*Edge {
	var touching []*Edge
	for _, edge := range s.edges {
		if edge.SourceID.Equals(nodeID) || edge.TargetID.Equals(nodeID) {
			touching = append(touching, edge)
		}
	}
	return touching
}

// NodeCount returns the number of nodes
func (s *Sketch) NodeCount() int {
	return len(s.nodes)
}

// EdgeCount returns the number of edges
func (s *Sketch) EdgeCount() int {
	return len(s.edges)
}

// CreatedAt returns when the sketch was created
func (s *Sketch) CreatedAt() time.Time {
	return s.createdAt
}

// UpdatedAt returns when the sketch was last updated
func (s *Sketch) UpdatedAt() time.Time {
	return s.updatedAt
}

// Version returns the mutation counter
func (s *Sketch) Version() int {
	return s.version
}

// Validate ensures sketch invariants
func (s *Sketch) Validate() error {
	for _, edge := range s.edges {
		if _, sourceExists := s.nodes[edge.SourceID]; !sourceExists {
			return pkgerrors.NewInternalError("edge references non-existent source node")
		}
		if _, targetExists := s.nodes[edge.TargetID]; !targetExists {
			return pkgerrors.NewInternalError("edge references non-existent target node")
		}
	}

	if len(s.order) != len(s.nodes) {
		return pkgerrors.NewInternalError("node order out of sync with node set")
	}
	for _, id := range s.order {
		if _, exists := s.nodes[id]; !exists {
			return pkgerrors.NewInternalError("ordered node missing from node set")
		}
	}
	return nil
}

func (s *Sketch) touch() {
	s.updatedAt = time.Now()
	s.version++
}

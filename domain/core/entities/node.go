package entities

import (
	"fmt"
	"time"

	"caseboard/domain/core/valueobjects"
	pkgerrors "caseboard/pkg/errors"
)

// Attribute keys every sketch node is expected (but not required) to carry.
const (
	AttrLabel     = "label"
	AttrType      = "type"
	AttrCreatedAt = "created_at"
)

// Node is an entity on a relationship sketch: a person, organization,
// account or any other investigated object. Attributes are a free-form
// mapping written by sketch edits and enrichment results; no schema is
// enforced at this layer, validation is the record service's concern.
type Node struct {
	id        valueobjects.NodeID
	attrs     map[string]interface{}
	position  valueobjects.Position
	size      float64
	color     string
	createdAt time.Time
	updatedAt time.Time
}

// NewNode creates a node with a fresh identifier
func NewNode(attrs map[string]interface{}) *Node {
	return newNode(valueobjects.NewNodeID(), attrs)
}

// NewNodeWithID creates a node with a caller-supplied identifier
func NewNodeWithID(id valueobjects.NodeID, attrs map[string]interface{}) (*Node, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("node ID cannot be empty")
	}
	return newNode(id, attrs), nil
}

func newNode(id valueobjects.NodeID, attrs map[string]interface{}) *Node {
	if attrs == nil {
		attrs = make(map[string]interface{})
	}
	now := time.Now()
	return &Node{
		id:        id,
		attrs:     attrs,
		size:      1.0,
		createdAt: now,
		updatedAt: now,
	}
}

// ReconstructNode recreates a node from stored data with preserved timestamps
func ReconstructNode(
	id valueobjects.NodeID,
	attrs map[string]interface{},
	position valueobjects.Position,
	size float64,
	color string,
	createdAt, updatedAt time.Time,
) (*Node, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("node ID cannot be empty")
	}
	if attrs == nil {
		attrs = make(map[string]interface{})
	}
	return &Node{
		id:        id,
		attrs:     attrs,
		position:  position,
		size:      size,
		color:     color,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

// ID returns the node's unique identifier
func (n *Node) ID() valueobjects.NodeID {
	return n.id
}

// Attributes returns a copy of the attribute mapping
func (n *Node) Attributes() map[string]interface{} {
	attrs := make(map[string]interface{}, len(n.attrs))
	for k, v := range n.attrs {
		attrs[k] = v
	}
	return attrs
}

// Attribute returns a single attribute value
func (n *Node) Attribute(key string) (interface{}, bool) {
	v, ok := n.attrs[key]
	return v, ok
}

// SetAttribute writes one attribute. Values are accepted as-is.
func (n *Node) SetAttribute(key string, value interface{}) {
	n.attrs[key] = value
	n.updatedAt = time.Now()
}

// ReplaceAttributes swaps the whole attribute mapping. A nil mapping is
// treated as empty; malformed mappings are accepted as-is.
func (n *Node) ReplaceAttributes(attrs map[string]interface{}) {
	if attrs == nil {
		attrs = make(map[string]interface{})
	}
	n.attrs = attrs
	n.updatedAt = time.Now()
}

// Label returns the display label, or the identifier when no label is set
func (n *Node) Label() string {
	if v, ok := n.attrs[AttrLabel]; ok {
		return stringify(v)
	}
	return n.id.String()
}

// TypeTag returns the entity type attribute ("person", "organization", ...)
func (n *Node) TypeTag() string {
	if v, ok := n.attrs[AttrType]; ok {
		return stringify(v)
	}
	return ""
}

// Position returns the node's canvas position hint
func (n *Node) Position() valueobjects.Position {
	return n.position
}

// MoveTo updates the canvas position hint
func (n *Node) MoveTo(position valueobjects.Position) {
	if position.Equals(n.position) {
		return
	}
	n.position = position
	n.updatedAt = time.Now()
}

// Size returns the node's display size hint
func (n *Node) Size() float64 {
	return n.size
}

// Resize updates the display size hint
func (n *Node) Resize(size float64) error {
	if size <= 0 {
		return pkgerrors.NewValidationError("node size must be positive")
	}
	n.size = size
	n.updatedAt = time.Now()
	return nil
}

// Color returns the node's display color hint
func (n *Node) Color() string {
	return n.color
}

// Recolor updates the display color hint
func (n *Node) Recolor(color string) {
	n.color = color
	n.updatedAt = time.Now()
}

// CreatedAt returns when the node was created
func (n *Node) CreatedAt() time.Time {
	return n.createdAt
}

// UpdatedAt returns when the node was last updated
func (n *Node) UpdatedAt() time.Time {
	return n.updatedAt
}

// stringify renders an attribute value for matching and display
func stringify(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

package ports

import (
	"context"

	"caseboard/domain/core/aggregates"
	"caseboard/domain/core/entities"
)

// SketchRepository is the record-service boundary for sketches. The engine
// only needs load/save/delete of whole sketches plus node persistence; the
// remote wire format is the implementation's concern.
type SketchRepository interface {
	// Save persists sketch metadata, nodes and edges
	Save(ctx context.Context, sketch *aggregates.Sketch) error

	// FindByID loads a sketch with its full node and edge sets
	FindByID(ctx context.Context, id aggregates.SketchID) (*aggregates.Sketch, error)

	// FindByInvestigation lists sketches belonging to one investigation
	FindByInvestigation(ctx context.Context, investigationID string) ([]*aggregates.Sketch, error)

	// SaveNode persists a single node of a sketch
	SaveNode(ctx context.Context, sketchID aggregates.SketchID, node *entities.Node) error

	// DeleteNode removes a single node record
	DeleteNode(ctx context.Context, sketchID aggregates.SketchID, nodeID string) error

	// Delete removes the sketch and all of its nodes and edges
	Delete(ctx context.Context, id aggregates.SketchID) error
}

// SettingsStore persists the category -> field-key -> value mapping keyed by
// sketch identifier. Readers must tolerate unknown keys (ignore) and missing
// keys (fall back to field defaults).
type SettingsStore interface {
	// SaveValue writes one field value
	SaveValue(ctx context.Context, sketchID, category, key string, value interface{}) error

	// LoadValues reads the stored mapping for a sketch
	LoadValues(ctx context.Context, sketchID string) (map[string]map[string]interface{}, error)

	// Delete removes all stored settings for a sketch
	Delete(ctx context.Context, sketchID string) error
}

// ActionRunner triggers a long-running server-side enricher or flow job and
// returns immediately. Result delivery happens out of band via refetch.
type ActionRunner interface {
	Run(ctx context.Context, job ActionJob) error
}

// ActionJob describes one enrichment or flow invocation
type ActionJob struct {
	JobID     string   `json:"job_id"`
	SketchID  string   `json:"sketch_id"`
	Action    string   `json:"action"`
	Kind      string   `json:"kind"`
	TargetIDs []string `json:"target_ids"`
}

// MetricsPublisher records operational counters for the engine
type MetricsPublisher interface {
	IncrementCounter(ctx context.Context, name string, value float64)
}

// Package session binds the entity registry, selection set and settings
// registry of one open sketch into a single shared state container. Every
// view of the sketch (table, canvas, menus) operates on the same session
// instance and receives change notifications through Subscribe, so no view
// ever holds a private copy that could drift.
//
// A session mutex stands in for the browser's single-threaded event loop:
// the contained structures have no locking of their own and rely on the
// session to never preempt an operation mid-mutation.
package session

import (
	"context"
	"sync"

	"caseboard/application/selection"
	"caseboard/application/settings"
	"caseboard/application/view"
	"caseboard/domain/core/aggregates"
	"caseboard/domain/core/entities"
	"caseboard/domain/core/valueobjects"
	pkgerrors "caseboard/pkg/errors"

	"go.uber.org/zap"
)

// EventType classifies a session change notification
type EventType string

const (
	EventGraphChanged     EventType = "graph_changed"
	EventSelectionChanged EventType = "selection_changed"
	EventSettingsChanged  EventType = "settings_changed"
)

// Event is delivered to subscribers after a session mutation
type Event struct {
	Type     EventType
	SketchID string
}

// Session is the engine state for one open sketch
type Session struct {
	mu sync.Mutex

	sketch    *aggregates.Sketch
	selection *selection.Set
	settings  *settings.Registry
	flusher   *settings.Flusher

	subscribers map[int]func(Event)
	nextSubID   int
	closed      bool

	logger *zap.Logger
}

func newSession(sketch *aggregates.Sketch, reg *settings.Registry, flusher *settings.Flusher, logger *zap.Logger) *Session {
	return &Session{
		sketch:      sketch,
		selection:   selection.NewSet(),
		settings:    reg,
		flusher:     flusher,
		subscribers: make(map[int]func(Event)),
		logger:      logger,
	}
}

// SketchID returns the identifier of the open sketch
func (s *Session) SketchID() aggregates.SketchID {
	return s.sketch.ID()
}

// Subscribe registers a change listener and returns its unsubscribe func.
// Listeners run synchronously after the mutation, outside the session lock.
func (s *Session) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// snapshotSubscribers must be called with the lock held
func (s *Session) snapshotSubscribers() []func(Event) {
	subs := make([]func(Event), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

func broadcast(subs []func(Event), event Event) {
	for _, fn := range subs {
		fn(event)
	}
}

// --- entity registry operations ---

// LoadGraph replaces the working set wholesale, as on sketch switch.
// Selected identifiers no longer present in the new set are dropped.
func (s *Session) LoadGraph(nodes []*entities.Node, edges []*aggregates.Edge) error {
	s.mu.Lock()
	if err := s.sketch.Load(nodes, edges); err != nil {
		s.mu.Unlock()
		return err
	}
	s.pruneSelectionLocked()
	subs := s.snapshotSubscribers()
	id := s.sketch.ID().String()
	s.mu.Unlock()

	broadcast(subs, Event{Type: EventGraphChanged, SketchID: id})
	return nil
}

// UpsertNode inserts or replaces a node by identifier
func (s *Session) UpsertNode(node *entities.Node) error {
	s.mu.Lock()
	if err := s.sketch.UpsertNode(node); err != nil {
		s.mu.Unlock()
		return err
	}
	subs := s.snapshotSubscribers()
	id := s.sketch.ID().String()
	s.mu.Unlock()

	broadcast(subs, Event{Type: EventGraphChanged, SketchID: id})
	return nil
}

// RemoveNode deletes a node, cascades to its edges, and deselects it
func (s *Session) RemoveNode(nodeID valueobjects.NodeID) error {
	s.mu.Lock()
	if err := s.sketch.RemoveNode(nodeID); err != nil {
		s.mu.Unlock()
		return err
	}
	s.selection.Remove(nodeID)
	subs := s.snapshotSubscribers()
	id := s.sketch.ID().String()
	s.mu.Unlock()

	broadcast(subs, Event{Type: EventGraphChanged, SketchID: id})
	return nil
}

// ConnectNodes creates a labeled edge between two existing nodes
func (s *Session) ConnectNodes(sourceID, targetID valueobjects.NodeID, label string) (*aggregates.Edge, error) {
	s.mu.Lock()
	edge, err := s.sketch.ConnectNodes(sourceID, targetID, label)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	subs := s.snapshotSubscribers()
	id := s.sketch.ID().String()
	s.mu.Unlock()

	broadcast(subs, Event{Type: EventGraphChanged, SketchID: id})
	return edge, nil
}

// RemoveEdge deletes a single edge
func (s *Session) RemoveEdge(edgeID string) error {
	s.mu.Lock()
	if err := s.sketch.RemoveEdge(edgeID); err != nil {
		s.mu.Unlock()
		return err
	}
	subs := s.snapshotSubscribers()
	id := s.sketch.ID().String()
	s.mu.Unlock()

	broadcast(subs, Event{Type: EventGraphChanged, SketchID: id})
	return nil
}

// Node returns one node by identifier
func (s *Session) Node(nodeID valueobjects.NodeID) (*entities.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sketch.Node(nodeID)
}

// GraphSnapshot returns the current nodes (insertion order) and edges
func (s *Session) GraphSnapshot() ([]*entities.Node, []*aggregates.Edge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sketch.Nodes(), s.sketch.Edges()
}

// pruneSelectionLocked drops selected ids that left the registry
func (s *Session) pruneSelectionLocked() {
	for _, id := range s.selection.IDs() {
		if !s.sketch.HasNode(id) {
			s.selection.Remove(id)
		}
	}
}

// --- derived table view ---

// ViewportParams are the virtualization inputs of the table view
type ViewportParams struct {
	RowHeight      int
	ViewportHeight int
	ScrollOffset   int
	Overscan       int
}

// TableRow is one materialized row: the node plus its selection flag
type TableRow struct {
	Index    int
	Offset   int
	Node     *entities.Node
	Selected bool
}

// TableView is everything the virtualized table renders from: the window of
// rows, the scrollable extent, and the select-all checkbox state derived
// from the filtered (not total) id set.
type TableView struct {
	Total    int
	Filtered int
	Extent   int
	Start    int
	End      int
	Rows     []TableRow
	Display  selection.DisplayState
}

// TableView derives the rendered rows for the given filter and viewport in
// one consistent read of the registry and selection set.
func (s *Session) TableView(query, typePredicate string, vp ViewportParams) TableView {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.sketch.Nodes()
	filtered := view.Filter(all, query, typePredicate)
	window := view.ComputeWindow(len(filtered), vp.RowHeight, vp.ViewportHeight, vp.ScrollOffset, vp.Overscan)

	rows := make([]TableRow, 0, len(window.Rows))
	for _, r := range window.Rows {
		node := filtered[r.Index]
		rows = append(rows, TableRow{
			Index:    r.Index,
			Offset:   r.Offset,
			Node:     node,
			Selected: s.selection.Contains(node.ID()),
		})
	}

	visible := make([]valueobjects.NodeID, len(filtered))
	for i, node := range filtered {
		visible[i] = node.ID()
	}

	return TableView{
		Total:    len(all),
		Filtered: len(filtered),
		Extent:   window.Extent,
		Start:    window.Start,
		End:      window.End,
		Rows:     rows,
		Display:  s.selection.DisplayStateFor(visible),
	}
}

// --- selection operations ---

// ToggleSelection adds the id if absent, removes it if present
func (s *Session) ToggleSelection(nodeID valueobjects.NodeID) {
	s.mu.Lock()
	s.selection.Toggle(nodeID)
	subs := s.snapshotSubscribers()
	id := s.sketch.ID().String()
	s.mu.Unlock()

	broadcast(subs, Event{Type: EventSelectionChanged, SketchID: id})
}

// SelectVisible implements select-all scoped to the current filter: only
// the filtered id set is selected, never the full registry.
func (s *Session) SelectVisible(query, typePredicate string) {
	s.mu.Lock()
	ids := view.FilterIDs(s.sketch.Nodes(), query, typePredicate)
	s.selection.SetAll(ids)
	subs := s.snapshotSubscribers()
	id := s.sketch.ID().String()
	s.mu.Unlock()

	broadcast(subs, Event{Type: EventSelectionChanged, SketchID: id})
}

// SetSelection replaces the selection wholesale
func (s *Session) SetSelection(ids []valueobjects.NodeID) {
	s.mu.Lock()
	s.selection.SetAll(ids)
	subs := s.snapshotSubscribers()
	id := s.sketch.ID().String()
	s.mu.Unlock()

	broadcast(subs, Event{Type: EventSelectionChanged, SketchID: id})
}

// ClearSelection empties the selection
func (s *Session) ClearSelection() {
	s.mu.Lock()
	s.selection.Clear()
	subs := s.snapshotSubscribers()
	id := s.sketch.ID().String()
	s.mu.Unlock()

	broadcast(subs, Event{Type: EventSelectionChanged, SketchID: id})
}

// SelectionContains reports membership
func (s *Session) SelectionContains(nodeID valueobjects.NodeID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Contains(nodeID)
}

// SelectionIDs returns the selected identifiers
func (s *Session) SelectionIDs() []valueobjects.NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.IDs()
}

// --- settings operations ---

// UpdateSetting applies a local edit immediately and schedules the
// debounced remote write
func (s *Session) UpdateSetting(category, key string, value interface{}) (interface{}, error) {
	s.mu.Lock()
	stored, err := s.settings.UpdateSetting(category, key, value)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.flusher.Enqueue(category, key, stored)
	subs := s.snapshotSubscribers()
	id := s.sketch.ID().String()
	s.mu.Unlock()

	broadcast(subs, Event{Type: EventSettingsChanged, SketchID: id})
	return stored, nil
}

// ApplyPreset atomically applies a named bundle, then schedules writes for
// exactly the fields the bundle touched
func (s *Session) ApplyPreset(category, name string) error {
	s.mu.Lock()
	presets, err := s.settings.ListPresets(category)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.settings.ApplyPreset(category, name); err != nil {
		s.mu.Unlock()
		return err
	}
	for _, p := range presets {
		if p.Name != name {
			continue
		}
		for key := range p.Values {
			if stored, verr := s.settings.Value(category, key); verr == nil {
				s.flusher.Enqueue(category, key, stored)
			}
		}
	}
	subs := s.snapshotSubscribers()
	id := s.sketch.ID().String()
	s.mu.Unlock()

	broadcast(subs, Event{Type: EventSettingsChanged, SketchID: id})
	return nil
}

// SettingsControls renders one category's fields as control descriptors
func (s *Session) SettingsControls(category string) ([]settings.Control, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Controls(category)
}

// SettingsSnapshot returns the full category -> key -> value mapping
func (s *Session) SettingsSnapshot() map[string]map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Snapshot()
}

// ListPresets returns the named bundles for a category
func (s *Session) ListPresets(category string) ([]settings.Preset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.ListPresets(category)
}

// SettingsCategories returns the category names in declaration order
func (s *Session) SettingsCategories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var names []string
	for _, c := range s.settings.Categories() {
		names = append(names, c.Name())
	}
	return names
}

// --- lifecycle ---

// Close tears the session down: pending debounce timers are flushed and
// subscribers dropped. Remote writes already issued are not cancelled.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.subscribers = make(map[int]func(Event))
	s.mu.Unlock()

	if err := s.flusher.Close(ctx); err != nil {
		return pkgerrors.Wrap(err, "flush on session close")
	}
	return nil
}

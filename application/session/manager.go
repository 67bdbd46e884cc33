package session

import (
	"context"
	"sync"
	"time"

	"caseboard/application/ports"
	"caseboard/application/settings"
	"caseboard/domain/core/aggregates"

	"go.uber.org/zap"
)

// Manager owns the live sessions, keyed by sketch id. Opening the same
// sketch twice returns the identical session instance, so every caller
// shares one registry, one selection set and one settings registry.
type Manager struct {
	sketches   ports.SketchRepository
	store      ports.SettingsStore
	flushDelay time.Duration
	logger     *zap.Logger
	metrics    ports.MetricsPublisher

	mu       sync.Mutex
	sessions map[aggregates.SketchID]*Session
}

// NewManager creates a session manager
func NewManager(sketches ports.SketchRepository, store ports.SettingsStore, flushDelay time.Duration, logger *zap.Logger, metrics ports.MetricsPublisher) *Manager {
	return &Manager{
		sketches:   sketches,
		store:      store,
		flushDelay: flushDelay,
		logger:     logger,
		metrics:    metrics,
		sessions:   make(map[aggregates.SketchID]*Session),
	}
}

// Open returns the live session for a sketch, loading it on first access.
// The sketch and its stored settings are fetched from persistence; stored
// values overlay the declared defaults, with unknown or stale entries
// ignored.
func (m *Manager) Open(ctx context.Context, sketchID aggregates.SketchID) (*Session, error) {
	m.mu.Lock()
	if existing, ok := m.sessions[sketchID]; ok {
		m.mu.Unlock()
		return existing, nil
	}
	m.mu.Unlock()

	sketch, err := m.sketches.FindByID(ctx, sketchID)
	if err != nil {
		return nil, err
	}

	reg := settings.DefaultRegistry()
	stored, err := m.store.LoadValues(ctx, sketchID.String())
	if err != nil {
		// Defaults are a valid state; a degraded settings store must not
		// block opening the sketch.
		m.logger.Warn("stored settings unavailable, using defaults",
			zap.String("sketchID", sketchID.String()),
			zap.Error(err),
		)
	} else {
		reg.ApplyStored(stored)
	}

	flusher := settings.NewFlusher(m.store, sketchID.String(), m.flushDelay, m.logger, m.metrics)
	created := newSession(sketch, reg, flusher, m.logger)

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[sketchID]; ok {
		// Lost the race to a concurrent Open; discard our copy.
		_ = flusher.Close(ctx)
		return existing, nil
	}
	m.sessions[sketchID] = created

	m.logger.Info("session opened",
		zap.String("sketchID", sketchID.String()),
		zap.Int("nodes", sketch.NodeCount()),
		zap.Int("edges", sketch.EdgeCount()),
	)
	return created, nil
}

// Get returns the live session for a sketch without loading it
func (m *Manager) Get(sketchID aggregates.SketchID) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sketchID]
	return s, ok
}

// Close tears down one session, flushing its pending settings writes.
// Closing an unknown sketch is a no-op.
func (m *Manager) Close(ctx context.Context, sketchID aggregates.SketchID) error {
	m.mu.Lock()
	s, ok := m.sessions[sketchID]
	if ok {
		delete(m.sessions, sketchID)
	}
	m.mu.Unlock()

	if !ok {
		return nil
	}
	return s.Close(ctx)
}

// CloseAll tears down every live session, used on server shutdown
func (m *Manager) CloseAll(ctx context.Context) error {
	m.mu.Lock()
	drained := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		drained = append(drained, s)
	}
	m.sessions = make(map[aggregates.SketchID]*Session)
	m.mu.Unlock()

	var firstErr error
	for _, s := range drained {
		if err := s.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

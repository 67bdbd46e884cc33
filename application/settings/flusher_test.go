package settings

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordedWrite struct {
	Category string
	Key      string
	Value    interface{}
}

type fakeStore struct {
	mu     sync.Mutex
	writes []recordedWrite
	err    error
}

func (f *fakeStore) SaveValue(ctx context.Context, sketchID, category, key string, value interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.writes = append(f.writes, recordedWrite{Category: category, Key: key, Value: value})
	return nil
}

func (f *fakeStore) LoadValues(ctx context.Context, sketchID string) (map[string]map[string]interface{}, error) {
	return nil, nil
}

func (f *fakeStore) Delete(ctx context.Context, sketchID string) error {
	return nil
}

func (f *fakeStore) recorded() []recordedWrite {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]recordedWrite, len(f.writes))
	copy(out, f.writes)
	return out
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestFlusher_CoalescesRapidEdits(t *testing.T) {
	store := &fakeStore{}
	f := NewFlusher(store, "sketch-1", 50*time.Millisecond, zap.NewNop(), nil)
	defer f.Close(context.Background())

	// Three rapid edits to the same field, as from a dragged slider
	f.Enqueue("graph", "charge_strength", -100.0)
	f.Enqueue("graph", "charge_strength", -200.0)
	f.Enqueue("graph", "charge_strength", -300.0)

	waitFor(t, 2*time.Second, func() bool { return len(store.recorded()) > 0 })

	writes := store.recorded()
	require.Len(t, writes, 1, "rapid edits must collapse into one write")
	assert.Equal(t, -300.0, writes[0].Value, "the write must carry the latest value")
}

func TestFlusher_IndependentFields(t *testing.T) {
	store := &fakeStore{}
	f := NewFlusher(store, "sketch-1", 30*time.Millisecond, zap.NewNop(), nil)
	defer f.Close(context.Background())

	f.Enqueue("graph", "charge_strength", -100.0)
	f.Enqueue("graph", "link_distance", 150.0)
	f.Enqueue("appearance", "theme", "dark")

	waitFor(t, 2*time.Second, func() bool { return len(store.recorded()) == 3 })

	seen := map[string]interface{}{}
	for _, w := range store.recorded() {
		seen[w.Category+"."+w.Key] = w.Value
	}
	assert.Equal(t, -100.0, seen["graph.charge_strength"])
	assert.Equal(t, 150.0, seen["graph.link_distance"])
	assert.Equal(t, "dark", seen["appearance.theme"])
}

func TestFlusher_FlushWritesPendingImmediately(t *testing.T) {
	store := &fakeStore{}
	f := NewFlusher(store, "sketch-1", time.Hour, zap.NewNop(), nil)

	f.Enqueue("graph", "charge_strength", -42.0)
	require.Equal(t, 1, f.PendingCount())

	require.NoError(t, f.Flush(context.Background()))

	writes := store.recorded()
	require.Len(t, writes, 1)
	assert.Equal(t, -42.0, writes[0].Value)
	assert.Equal(t, 0, f.PendingCount())
}

func TestFlusher_CloseFlushesAndRejectsFurtherEnqueues(t *testing.T) {
	store := &fakeStore{}
	f := NewFlusher(store, "sketch-1", time.Hour, zap.NewNop(), nil)

	f.Enqueue("appearance", "theme", "dark")
	require.NoError(t, f.Close(context.Background()))
	require.Len(t, store.recorded(), 1)

	f.Enqueue("appearance", "theme", "light")
	assert.Equal(t, 0, f.PendingCount(), "enqueue after close must be a no-op")

	// Closing twice is fine
	assert.NoError(t, f.Close(context.Background()))
}

func TestFlusher_FlushSurfacesStoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("throttled")}
	f := NewFlusher(store, "sketch-1", time.Hour, zap.NewNop(), nil)

	f.Enqueue("graph", "charge_strength", -42.0)
	err := f.Flush(context.Background())
	assert.Error(t, err)
}

func TestFlusher_TimerWriteFailureIsSilent(t *testing.T) {
	store := &fakeStore{err: errors.New("throttled")}
	f := NewFlusher(store, "sketch-1", 20*time.Millisecond, zap.NewNop(), nil)
	defer f.Close(context.Background())

	f.Enqueue("graph", "charge_strength", -42.0)

	// The pending entry drains even though the write failed; there is no
	// retry, the next edit re-triggers it
	waitFor(t, 2*time.Second, func() bool { return f.PendingCount() == 0 })
	assert.Empty(t, store.recorded())
}

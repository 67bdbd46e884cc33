package settings

import (
	"testing"

	pkgerrors "caseboard/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ApplyPreset(t *testing.T) {
	r := DefaultRegistry()

	// Drift the fields away from defaults first
	_, err := r.UpdateSetting("graph", "charge_strength", -50.0)
	require.NoError(t, err)
	_, err = r.UpdateSetting("graph", "show_labels", false)
	require.NoError(t, err)

	require.NoError(t, r.ApplyPreset("graph", "tight"))

	snap := r.Snapshot()["graph"]
	assert.Equal(t, -120.0, snap["charge_strength"])
	assert.Equal(t, 40.0, snap["link_distance"])
	assert.Equal(t, 12.0, snap["collision_radius"])
	assert.Equal(t, 0.25, snap["center_gravity"])

	// Fields outside the bundle keep their current value
	assert.Equal(t, false, snap["show_labels"])
}

func TestRegistry_ApplyPresetIdempotent(t *testing.T) {
	r := DefaultRegistry()
	require.NoError(t, r.ApplyPreset("graph", "spread"))
	first := r.Snapshot()["graph"]

	require.NoError(t, r.ApplyPreset("graph", "spread"))
	assert.Equal(t, first, r.Snapshot()["graph"])
}

func TestRegistry_ApplyPresetUnknownName(t *testing.T) {
	r := DefaultRegistry()
	before := r.Snapshot()

	err := r.ApplyPreset("graph", "nope")
	assert.True(t, pkgerrors.IsNotFound(err))
	assert.Equal(t, before, r.Snapshot(), "failed lookup must leave state unchanged")
}

func TestRegistry_ApplyPresetAtomic(t *testing.T) {
	r := DefaultRegistry()
	require.NoError(t, r.RegisterPreset("graph", Preset{
		Name:  "broken",
		Label: "Broken",
		Values: map[string]interface{}{
			"charge_strength": -500.0,
			"show_labels":     "maybe", // uncoercible
		},
	}))

	before := r.Snapshot()["graph"]
	err := r.ApplyPreset("graph", "broken")
	require.Error(t, err)

	// No field changed: coercion of every value happens before any commit
	assert.Equal(t, before, r.Snapshot()["graph"])
}

func TestRegistry_RegisterPresetReplacesSameName(t *testing.T) {
	r := DefaultRegistry()
	require.NoError(t, r.RegisterPreset("graph", Preset{
		Name:   "tight",
		Label:  "Tighter",
		Values: map[string]interface{}{"link_distance": 20.0},
	}))

	presets, err := r.ListPresets("graph")
	require.NoError(t, err)

	count := 0
	for _, p := range presets {
		if p.Name == "tight" {
			count++
			assert.Equal(t, "Tighter", p.Label)
		}
	}
	assert.Equal(t, 1, count)
}

func TestRegistry_ListPresetsOrder(t *testing.T) {
	r := DefaultRegistry()
	presets, err := r.ListPresets("graph")
	require.NoError(t, err)
	require.Len(t, presets, 3)
	assert.Equal(t, "default", presets[0].Name)
	assert.Equal(t, "tight", presets[1].Name)
	assert.Equal(t, "spread", presets[2].Name)

	_, err = r.ListPresets("nope")
	assert.True(t, pkgerrors.IsNotFound(err))
}

package settings

import (
	"testing"

	pkgerrors "caseboard/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_UpdateSetting(t *testing.T) {
	r := DefaultRegistry()

	t.Run("valid update returns stored value", func(t *testing.T) {
		stored, err := r.UpdateSetting("graph", "link_distance", 200.0)
		require.NoError(t, err)
		assert.Equal(t, 200.0, stored)

		v, err := r.Value("graph", "link_distance")
		require.NoError(t, err)
		assert.Equal(t, 200.0, v)
	})

	t.Run("out-of-bounds numeric is clamped", func(t *testing.T) {
		stored, err := r.UpdateSetting("graph", "link_distance", 100000.0)
		require.NoError(t, err)
		assert.Equal(t, 400.0, stored)
	})

	t.Run("uncoercible value keeps last valid value", func(t *testing.T) {
		_, err := r.UpdateSetting("graph", "link_distance", "tall")
		require.Error(t, err)

		v, err := r.Value("graph", "link_distance")
		require.NoError(t, err)
		assert.Equal(t, 400.0, v, "failed edit must not change the field")
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := r.UpdateSetting("nope", "x", 1)
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := r.UpdateSetting("graph", "nope", 1)
		assert.True(t, pkgerrors.IsNotFound(err))
	})
}

func TestRegistry_ApplyStored(t *testing.T) {
	r := DefaultRegistry()

	r.ApplyStored(map[string]map[string]interface{}{
		"graph": {
			"link_distance": 150.0,
			"ghost_key":     true,    // unknown key: ignored
			"show_labels":   "maybe", // uncoercible: field keeps default
		},
		"ghost_category": {
			"anything": 1,
		},
	})

	v, err := r.Value("graph", "link_distance")
	require.NoError(t, err)
	assert.Equal(t, 150.0, v)

	v, err = r.Value("graph", "show_labels")
	require.NoError(t, err)
	assert.Equal(t, true, v, "uncoercible stored value falls back to the default")
}

func TestRegistry_Snapshot(t *testing.T) {
	r := DefaultRegistry()
	_, err := r.UpdateSetting("appearance", "theme", "dark")
	require.NoError(t, err)

	snap := r.Snapshot()
	require.Contains(t, snap, "graph")
	require.Contains(t, snap, "appearance")
	assert.Equal(t, "dark", snap["appearance"]["theme"])
	assert.Equal(t, -300.0, snap["graph"]["charge_strength"])
}

func TestRegistry_Controls(t *testing.T) {
	r := DefaultRegistry()

	controls, err := r.Controls("graph")
	require.NoError(t, err)
	require.Len(t, controls, 5)

	// Declaration order is preserved
	assert.Equal(t, "charge_strength", controls[0].Key)
	assert.Equal(t, "show_labels", controls[4].Key)

	// Numeric fields of the force layout category all render as sliders
	for _, c := range controls[:4] {
		assert.Equal(t, ControlSlider, c.Type, c.Key)
	}
	assert.Equal(t, ControlCheckbox, controls[4].Type)

	_, err = r.Controls("nope")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestRegistry_VersionBumpsOnMutation(t *testing.T) {
	r := DefaultRegistry()
	v := r.Version()

	_, err := r.UpdateSetting("graph", "center_gravity", 0.5)
	require.NoError(t, err)
	assert.Greater(t, r.Version(), v)
}

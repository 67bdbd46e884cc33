package settings

import (
	"fmt"

	pkgerrors "caseboard/pkg/errors"
)

// Preset is a named bundle of field values scoped to one category. Applying
// it overwrites exactly the fields present in the bundle.
type Preset struct {
	Name   string                 `json:"name"`
	Label  string                 `json:"label"`
	Values map[string]interface{} `json:"values"`
}

// RegisterPreset adds a preset for a category, replacing a same-named one
func (r *Registry) RegisterPreset(category string, preset Preset) error {
	if _, err := r.Category(category); err != nil {
		return err
	}
	for i, existing := range r.presets[category] {
		if existing.Name == preset.Name {
			r.presets[category][i] = preset
			return nil
		}
	}
	r.presets[category] = append(r.presets[category], preset)
	return nil
}

// ListPresets returns the named bundles for a category in registration order
func (r *Registry) ListPresets(category string) ([]Preset, error) {
	if _, err := r.Category(category); err != nil {
		return nil, err
	}
	presets := make([]Preset, len(r.presets[category]))
	copy(presets, r.presets[category])
	return presets, nil
}

// ApplyPreset overwrites exactly the fields named in the bundle, walking the
// category's declaration order, as a single atomic operation: every value is
// coerced before any field is written, so observers never see a partial
// application. An unknown preset name is a lookup error with no state change.
func (r *Registry) ApplyPreset(category, name string) error {
	c, err := r.Category(category)
	if err != nil {
		return err
	}

	var preset *Preset
	for i := range r.presets[category] {
		if r.presets[category][i].Name == name {
			preset = &r.presets[category][i]
			break
		}
	}
	if preset == nil {
		return pkgerrors.NewNotFoundError(fmt.Sprintf("preset %q in category %q", name, category))
	}

	// First pass: coerce everything without writing
	type pendingValue struct {
		field *Field
		value interface{}
	}
	pending := make([]pendingValue, 0, len(preset.Values))
	for _, key := range c.keys {
		raw, included := preset.Values[key]
		if !included {
			continue
		}
		f := c.fields[key]
		coerced, err := f.Coerce(raw)
		if err != nil {
			return pkgerrors.Wrapf(err, "preset %q value for %s.%s", name, category, key)
		}
		pending = append(pending, pendingValue{field: f, value: coerced})
	}

	// Second pass: commit
	for _, p := range pending {
		p.field.Value = p.value
	}
	r.version++
	return nil
}

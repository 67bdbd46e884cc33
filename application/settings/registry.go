package settings

import (
	"fmt"

	pkgerrors "caseboard/pkg/errors"
)

// Category is a named, ordered mapping of field-key -> Field
type Category struct {
	name   string
	label  string
	keys   []string
	fields map[string]*Field
}

// NewCategory creates an empty category
func NewCategory(name, label string) *Category {
	return &Category{
		name:   name,
		label:  label,
		fields: make(map[string]*Field),
	}
}

// Name returns the category's identifier
func (c *Category) Name() string {
	return c.name
}

// Label returns the category's display label
func (c *Category) Label() string {
	return c.label
}

// AddField appends a field under the given key, preserving declaration order
func (c *Category) AddField(key string, f *Field) *Category {
	if _, exists := c.fields[key]; !exists {
		c.keys = append(c.keys, key)
	}
	c.fields[key] = f
	return c
}

// Field returns the field for a key
func (c *Category) Field(key string) (*Field, bool) {
	f, ok := c.fields[key]
	return f, ok
}

// Keys returns the field keys in declaration order
func (c *Category) Keys() []string {
	keys := make([]string, len(c.keys))
	copy(keys, c.keys)
	return keys
}

// Registry owns the active set of setting categories for one open sketch,
// plus the named presets scoped to each category. It is not safe for
// concurrent use on its own; the owning session serializes access.
type Registry struct {
	names      []string
	categories map[string]*Category
	presets    map[string][]Preset
	version    int
}

// NewRegistry creates a registry over the given categories
func NewRegistry(categories ...*Category) *Registry {
	r := &Registry{
		categories: make(map[string]*Category),
		presets:    make(map[string][]Preset),
	}
	for _, c := range categories {
		if _, exists := r.categories[c.name]; !exists {
			r.names = append(r.names, c.name)
		}
		r.categories[c.name] = c
	}
	return r
}

// Category returns a category by name
func (r *Registry) Category(name string) (*Category, error) {
	c, ok := r.categories[name]
	if !ok {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("settings category %q", name))
	}
	return c, nil
}

// Categories returns all categories in declaration order
func (r *Registry) Categories() []*Category {
	out := make([]*Category, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.categories[name])
	}
	return out
}

// UpdateSetting coerces the value to the field's declared kind, clamps it to
// the declared bounds, stores it, and returns the stored value. On failure
// the field keeps its last valid value.
func (r *Registry) UpdateSetting(category, key string, value interface{}) (interface{}, error) {
	c, err := r.Category(category)
	if err != nil {
		return nil, err
	}
	f, ok := c.Field(key)
	if !ok {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("setting %s.%s", category, key))
	}

	coerced, err := f.Coerce(value)
	if err != nil {
		return nil, err
	}
	f.Value = coerced
	r.version++
	return coerced, nil
}

// Value returns the current value of a field
func (r *Registry) Value(category, key string) (interface{}, error) {
	c, err := r.Category(category)
	if err != nil {
		return nil, err
	}
	f, ok := c.Field(key)
	if !ok {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("setting %s.%s", category, key))
	}
	return f.Value, nil
}

// Snapshot returns the category -> field-key -> value mapping, the shape the
// settings store persists
func (r *Registry) Snapshot() map[string]map[string]interface{} {
	out := make(map[string]map[string]interface{}, len(r.names))
	for _, name := range r.names {
		c := r.categories[name]
		values := make(map[string]interface{}, len(c.keys))
		for _, key := range c.keys {
			values[key] = c.fields[key].Value
		}
		out[name] = values
	}
	return out
}

// ApplyStored overlays remotely stored values onto the declared fields.
// Unknown categories and keys are ignored and values that no longer coerce
// leave the field at its default, so old and new clients can share a store.
func (r *Registry) ApplyStored(stored map[string]map[string]interface{}) {
	for name, values := range stored {
		c, ok := r.categories[name]
		if !ok {
			continue
		}
		for key, value := range values {
			f, ok := c.Field(key)
			if !ok {
				continue
			}
			coerced, err := f.Coerce(value)
			if err != nil {
				continue
			}
			f.Value = coerced
		}
	}
	r.version++
}

// Controls renders every field of a category in declaration order
func (r *Registry) Controls(category string) ([]Control, error) {
	c, err := r.Category(category)
	if err != nil {
		return nil, err
	}
	controls := make([]Control, 0, len(c.keys))
	for _, key := range c.keys {
		controls = append(controls, RenderControl(c.name, key, c.fields[key]))
	}
	return controls, nil
}

// Version returns a counter bumped on every effective mutation
func (r *Registry) Version() int {
	return r.version
}

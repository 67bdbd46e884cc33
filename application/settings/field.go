// Package settings hosts the schema-driven settings registry: typed fields
// grouped into named categories, rendered generically from their kind, with
// named presets and a debounced remote flusher. No field needs per-field UI
// code; adding a setting is adding a Field declaration.
package settings

import (
	"fmt"
	"strconv"
	"strings"

	pkgerrors "caseboard/pkg/errors"
)

// Kind discriminates the typed variants a setting field can take
type Kind string

const (
	KindBoolean       Kind = "boolean"
	KindNumber        Kind = "number"
	KindSlider        Kind = "slider"
	KindSelect        Kind = "select"
	KindText          Kind = "text"
	KindMultilineText Kind = "multilineText"
	KindColor         Kind = "color"
)

// Field is one typed setting. Value always matches Kind at runtime: boolean
// fields hold bool, number/slider hold float64, the rest hold string.
type Field struct {
	Kind    Kind          `json:"kind"`
	Label   string        `json:"label"`
	Help    string        `json:"help,omitempty"`
	Value   interface{}   `json:"value"`
	Default interface{}   `json:"default"`
	Min     *float64      `json:"min,omitempty"`
	Max     *float64      `json:"max,omitempty"`
	Step    *float64      `json:"step,omitempty"`
	Options []string      `json:"options,omitempty"`
}

// BoolField declares a boolean setting
func BoolField(label string, def bool) *Field {
	return &Field{Kind: KindBoolean, Label: label, Value: def, Default: def}
}

// NumberField declares a numeric setting with inclusive bounds
func NumberField(label string, def, min, max float64) *Field {
	return &Field{Kind: KindNumber, Label: label, Value: def, Default: def, Min: &min, Max: &max}
}

// SliderField declares a numeric setting rendered as a continuous slider
func SliderField(label string, def, min, max, step float64) *Field {
	return &Field{Kind: KindSlider, Label: label, Value: def, Default: def, Min: &min, Max: &max, Step: &step}
}

// SelectField declares a single-select setting
func SelectField(label, def string, options []string) *Field {
	return &Field{Kind: KindSelect, Label: label, Value: def, Default: def, Options: options}
}

// TextField declares a free text setting
func TextField(label, def string) *Field {
	return &Field{Kind: KindText, Label: label, Value: def, Default: def}
}

// MultilineTextField declares a multi-line text setting
func MultilineTextField(label, def string) *Field {
	return &Field{Kind: KindMultilineText, Label: label, Value: def, Default: def}
}

// ColorField declares a hex color setting
func ColorField(label, def string) *Field {
	return &Field{Kind: KindColor, Label: label, Value: def, Default: def}
}

// WithHelp attaches help text to a field
func (f *Field) WithHelp(help string) *Field {
	f.Help = help
	return f
}

// IsNumeric reports whether the field holds a numeric value
func (f *Field) IsNumeric() bool {
	return f.Kind == KindNumber || f.Kind == KindSlider
}

// Coerce converts an incoming edit to the field's declared kind, clamping
// numerics into the declared bounds. Inputs that cannot be coerced are
// rejected with a validation error and the field keeps its last valid value.
func (f *Field) Coerce(value interface{}) (interface{}, error) {
	switch f.Kind {
	case KindBoolean:
		return coerceBool(value)
	case KindNumber, KindSlider:
		n, err := coerceNumber(value)
		if err != nil {
			return nil, err
		}
		return f.clamp(n), nil
	case KindSelect:
		s, err := coerceString(value)
		if err != nil {
			return nil, err
		}
		for _, opt := range f.Options {
			if opt == s {
				return s, nil
			}
		}
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("value %q is not an option for %q", s, f.Label))
	case KindText, KindMultilineText:
		return coerceString(value)
	case KindColor:
		s, err := coerceString(value)
		if err != nil {
			return nil, err
		}
		if !isHexColor(s.(string)) {
			return nil, pkgerrors.NewValidationError(fmt.Sprintf("value %q is not a hex color", s))
		}
		return s, nil
	default:
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("unsupported field kind %q", f.Kind))
	}
}

func (f *Field) clamp(n float64) float64 {
	if f.Min != nil && n < *f.Min {
		n = *f.Min
	}
	if f.Max != nil && n > *f.Max {
		n = *f.Max
	}
	return n
}

func coerceBool(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(v) {
		case "true", "1", "on":
			return true, nil
		case "false", "0", "off":
			return false, nil
		}
	}
	return nil, pkgerrors.NewValidationError(fmt.Sprintf("cannot interpret %v as boolean", value))
}

func coerceNumber(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil {
			return n, nil
		}
	}
	return 0, pkgerrors.NewValidationError(fmt.Sprintf("cannot interpret %v as number", value))
}

func coerceString(value interface{}) (interface{}, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	return nil, pkgerrors.NewValidationError(fmt.Sprintf("expected string, got %T", value))
}

func isHexColor(s string) bool {
	if len(s) != 4 && len(s) != 7 {
		return false
	}
	if s[0] != '#' {
		return false
	}
	for _, c := range s[1:] {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

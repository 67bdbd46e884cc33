package settings

import (
	"testing"

	pkgerrors "caseboard/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestField_Coerce(t *testing.T) {
	tests := []struct {
		name    string
		field   *Field
		input   interface{}
		want    interface{}
		wantErr bool
	}{
		{
			name:  "bool passthrough",
			field: BoolField("Show labels", true),
			input: false,
			want:  false,
		},
		{
			name:  "bool from string",
			field: BoolField("Show labels", true),
			input: "on",
			want:  true,
		},
		{
			name:    "bool rejects number",
			field:   BoolField("Show labels", true),
			input:   1.0,
			wantErr: true,
		},
		{
			name:  "number passthrough",
			field: NumberField("Link distance", 100, 10, 400),
			input: 250.0,
			want:  250.0,
		},
		{
			name:  "number from int",
			field: NumberField("Link distance", 100, 10, 400),
			input: 250,
			want:  250.0,
		},
		{
			name:  "number from numeric string",
			field: NumberField("Link distance", 100, 10, 400),
			input: " 42 ",
			want:  42.0,
		},
		{
			name:  "number clamps above max",
			field: NumberField("Link distance", 100, 10, 400),
			input: 9000.0,
			want:  400.0,
		},
		{
			name:  "slider clamps below min",
			field: SliderField("Charge", -300, -1000, 0, 10),
			input: -5000.0,
			want:  -1000.0,
		},
		{
			name:    "number rejects garbage string",
			field:   NumberField("Link distance", 100, 10, 400),
			input:   "lots",
			wantErr: true,
		},
		{
			name:  "select accepts listed option",
			field: SelectField("Theme", "system", []string{"light", "dark", "system"}),
			input: "dark",
			want:  "dark",
		},
		{
			name:    "select rejects unlisted option",
			field:   SelectField("Theme", "system", []string{"light", "dark", "system"}),
			input:   "sepia",
			wantErr: true,
		},
		{
			name:  "text passthrough",
			field: TextField("Watermark", ""),
			input: "CONFIDENTIAL",
			want:  "CONFIDENTIAL",
		},
		{
			name:    "text rejects non-string",
			field:   TextField("Watermark", ""),
			input:   12,
			wantErr: true,
		},
		{
			name:  "color accepts short hex",
			field: ColorField("Node color", "#4f86f7"),
			input: "#abc",
			want:  "#abc",
		},
		{
			name:  "color accepts long hex",
			field: ColorField("Node color", "#4f86f7"),
			input: "#7AA2F7",
			want:  "#7AA2F7",
		},
		{
			name:    "color rejects malformed value",
			field:   ColorField("Node color", "#4f86f7"),
			input:   "blue",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.field.Coerce(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, pkgerrors.IsValidation(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestField_CoerceUnknownKind(t *testing.T) {
	f := &Field{Kind: Kind("hologram"), Label: "Future"}
	_, err := f.Coerce("x")
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestRenderControl(t *testing.T) {
	tests := []struct {
		name     string
		category string
		field    *Field
		want     ControlType
	}{
		{"boolean renders checkbox", "appearance", BoolField("Show", true), ControlCheckbox},
		{"number renders number input", "appearance", NumberField("Size", 3, 1, 10), ControlNumberInput},
		{"slider renders slider", "appearance", SliderField("Gravity", 0.1, 0, 1, 0.01), ControlSlider},
		{"select renders dropdown", "appearance", SelectField("Theme", "light", []string{"light"}), ControlDropdown},
		{"text renders text input", "appearance", TextField("Watermark", ""), ControlTextInput},
		{"multiline renders text area", "appearance", MultilineTextField("Note", ""), ControlTextArea},
		{"color renders color picker", "appearance", ColorField("Color", "#fff"), ControlColorPicker},
		{"unknown kind degrades to unsupported", "appearance", &Field{Kind: Kind("hologram")}, ControlUnsupported},
		{"graph category forces numbers to sliders", ForceLayoutCategory, NumberField("Distance", 100, 10, 400), ControlSlider},
		{"graph category leaves booleans alone", ForceLayoutCategory, BoolField("Show", true), ControlCheckbox},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := RenderControl(tt.category, "key", tt.field)
			assert.Equal(t, tt.want, c.Type)
		})
	}
}

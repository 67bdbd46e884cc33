package settings

// ControlType names the interactive widget a field renders as
type ControlType string

const (
	ControlCheckbox    ControlType = "checkbox"
	ControlNumberInput ControlType = "number_input"
	ControlSlider      ControlType = "slider"
	ControlDropdown    ControlType = "dropdown"
	ControlTextInput   ControlType = "text_input"
	ControlTextArea    ControlType = "text_area"
	ControlColorPicker ControlType = "color_picker"

	// ControlUnsupported is the visible placeholder for a field kind the
	// rendering layer does not recognize; rendering never fails.
	ControlUnsupported ControlType = "unsupported"
)

// ForceLayoutCategory is the category whose numeric fields always render as
// sliders: tuning force parameters benefits from continuous control. This is
// a presentation override only, the stored kind is unchanged.
const ForceLayoutCategory = "graph"

// Control is the render-ready descriptor of one field
type Control struct {
	Key     string      `json:"key"`
	Type    ControlType `json:"type"`
	Label   string      `json:"label"`
	Help    string      `json:"help,omitempty"`
	Value   interface{} `json:"value"`
	Min     *float64    `json:"min,omitempty"`
	Max     *float64    `json:"max,omitempty"`
	Step    *float64    `json:"step,omitempty"`
	Options []string    `json:"options,omitempty"`
}

// RenderControl maps (kind, field) to an interactive control. The switch is
// exhaustive over the declared kinds and degrades to an "unsupported"
// placeholder for anything else.
func RenderControl(category, key string, f *Field) Control {
	c := Control{
		Key:     key,
		Label:   f.Label,
		Help:    f.Help,
		Value:   f.Value,
		Min:     f.Min,
		Max:     f.Max,
		Step:    f.Step,
		Options: f.Options,
	}

	switch f.Kind {
	case KindBoolean:
		c.Type = ControlCheckbox
	case KindNumber:
		c.Type = ControlNumberInput
	case KindSlider:
		c.Type = ControlSlider
	case KindSelect:
		c.Type = ControlDropdown
	case KindText:
		c.Type = ControlTextInput
	case KindMultilineText:
		c.Type = ControlTextArea
	case KindColor:
		c.Type = ControlColorPicker
	default:
		c.Type = ControlUnsupported
	}

	if category == ForceLayoutCategory && f.IsNumeric() {
		c.Type = ControlSlider
	}

	return c
}

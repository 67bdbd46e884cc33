package settings

// DefaultRegistry builds the categories every open sketch starts from.
// Stored values are overlaid via ApplyStored; fields absent from the store
// keep these defaults.
func DefaultRegistry() *Registry {
	graph := NewCategory(ForceLayoutCategory, "Force Layout").
		AddField("charge_strength", SliderField("Charge strength", -300, -1000, 0, 10).
			WithHelp("Repulsion between nodes; more negative spreads the graph")).
		AddField("link_distance", NumberField("Link distance", 100, 10, 400)).
		AddField("collision_radius", NumberField("Collision radius", 24, 0, 100)).
		AddField("center_gravity", SliderField("Center gravity", 0.1, 0, 1, 0.01)).
		AddField("show_labels", BoolField("Show labels", true))

	appearance := NewCategory("appearance", "Appearance").
		AddField("theme", SelectField("Theme", "system", []string{"light", "dark", "system"})).
		AddField("node_color", ColorField("Node color", "#4f86f7")).
		AddField("edge_style", SelectField("Edge style", "solid", []string{"solid", "dashed", "dotted"})).
		AddField("node_size", NumberField("Node size", 3, 1, 10)).
		AddField("legend_note", MultilineTextField("Legend note", "")).
		AddField("sketch_watermark", TextField("Watermark", ""))

	r := NewRegistry(graph, appearance)

	r.RegisterPreset(ForceLayoutCategory, Preset{
		Name:  "default",
		Label: "Default",
		Values: map[string]interface{}{
			"charge_strength":  -300.0,
			"link_distance":    100.0,
			"collision_radius": 24.0,
			"center_gravity":   0.1,
		},
	})
	r.RegisterPreset(ForceLayoutCategory, Preset{
		Name:  "tight",
		Label: "Tight clusters",
		Values: map[string]interface{}{
			"charge_strength":  -120.0,
			"link_distance":    40.0,
			"collision_radius": 12.0,
			"center_gravity":   0.25,
		},
	})
	r.RegisterPreset(ForceLayoutCategory, Preset{
		Name:  "spread",
		Label: "Spread out",
		Values: map[string]interface{}{
			"charge_strength":  -800.0,
			"link_distance":    220.0,
			"collision_radius": 40.0,
			"center_gravity":   0.05,
		},
	})
	r.RegisterPreset("appearance", Preset{
		Name:  "dark",
		Label: "Dark room",
		Values: map[string]interface{}{
			"theme":      "dark",
			"node_color": "#7aa2f7",
			"edge_style": "dashed",
		},
	})

	return r
}

// Package palette provides the color palettes used for word cloud rendering.
package palette

// Default is the palette used when none is requested or the name is unknown.
const Default = "pastel"

var palettes = map[string][]string{
	"pastel":  {"#ffe6e6", "#ffd7be", "#ffffb3", "#c9e4ca", "#b2bec3", "#eaebef"},
	"bright":  {"#ff69b4", "#ffb31a", "#ffff00", "#33cc33", "#0099cc", "#6600cc"},
	"dark":    {"#333333", "#666666", "#999999", "#cccccc", "#b3b3b3", "#e6e6e6"},
	"neutral": {"#f5f5f5", "#e5e5e5", "#d3d3d3", "#bdbdbd", "#9c9c9c", "#808080"},
	"rgb":     {"#ff0000", "#00ff00", "#0000ff", "#ffff00", "#ff00ff", "#00ffff"},
}

// Colors returns the named palette, falling back to the default for unknown
// names.
func Colors(name string) []string {
	if colors, ok := palettes[name]; ok {
		return colors
	}
	return palettes[Default]
}

// Has reports whether a palette with the given name exists.
func Has(name string) bool {
	_, ok := palettes[name]
	return ok
}

// All returns every palette keyed by name. The returned slices are copies.
func All() map[string][]string {
	out := make(map[string][]string, len(palettes))
	for name, colors := range palettes {
		out[name] = append([]string(nil), colors...)
	}
	return out
}

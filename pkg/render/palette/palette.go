// Package palette maps slice style handles to colors.
//
// A [pie.StyleHandle] is an index; palettes cycle, so handle n uses color
// n mod len. Colors are hex strings ("#rgb", "#rrggbb" or "#rrggbbaa") so
// the same palette feeds the SVG writer verbatim and the raster surface
// through [gg.Hex].
package palette

import (
	"strings"

	"github.com/gogpu/gg"

	"github.com/matzehuels/piesweep/pkg/errors"
	"github.com/matzehuels/piesweep/pkg/pie"
)

// DefaultColors is the palette used when a configuration names none.
var DefaultColors = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

// Palette is an ordered, non-empty list of colors.
type Palette struct {
	colors []string
}

// Default returns a palette of [DefaultColors].
func Default() Palette {
	return Palette{colors: DefaultColors}
}

// New validates colors and builds a palette. An empty list yields the
// default palette.
func New(colors ...string) (Palette, error) {
	if len(colors) == 0 {
		return Default(), nil
	}
	out := make([]string, len(colors))
	for i, c := range colors {
		norm, err := normalize(c)
		if err != nil {
			return Palette{}, err
		}
		out[i] = norm
	}
	return Palette{colors: out}, nil
}

// Len returns the number of colors.
func (p Palette) Len() int { return len(p.list()) }

// Hex returns the color of h as "#rrggbb" or "#rrggbbaa".
func (p Palette) Hex(h pie.StyleHandle) string {
	list := p.list()
	i := int(h) % len(list)
	if i < 0 {
		i += len(list)
	}
	return list[i]
}

// RGBA returns the color of h for the raster surface.
func (p Palette) RGBA(h pie.StyleHandle) gg.RGBA {
	return gg.Hex(p.Hex(h))
}

func (p Palette) list() []string {
	if len(p.colors) == 0 {
		return DefaultColors
	}
	return p.colors
}

// normalize lowercases a hex color and expands the 3-digit form.
func normalize(c string) (string, error) {
	s := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c), "#"))
	for _, r := range s {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			return "", errors.New(errors.ErrCodeInvalidConfig, "palette color %q is not a hex color", c)
		}
	}
	switch len(s) {
	case 3:
		return "#" + string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]}), nil
	case 6, 8:
		return "#" + s, nil
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "palette color %q must have 3, 6 or 8 hex digits", c)
}

package color

import (
	"maps"
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/regionmap/pkg/errors"
)

// Fallback is assigned when the palette is exhausted for a region.
const Fallback = "#000000"

// Palette is an ordered list of #rrggbb colors.
type Palette []string

// Builtin palettes by name.
var palettes = map[string]Palette{
	"default": {
		"#8dd3c7", "#ffffb3", "#bebada", "#fb8072", "#80b1d3", "#fdb462",
		"#b3de69", "#fccde5", "#d9d9d9", "#bc80bd", "#ccebc5", "#ffed6f",
	},
	"pastel": {
		"#fbb4ae", "#b3cde3", "#ccebc5", "#decbe4", "#fed9a6", "#ffffcc",
		"#e5d8bd", "#fddaec",
	},
	"vivid": {
		"#e41a1c", "#377eb8", "#4daf4a", "#984ea3", "#ff7f00", "#ffff33",
		"#a65628", "#f781bf",
	},
}

// DefaultPalette returns a copy of the "default" palette.
func DefaultPalette() Palette { return slices.Clone(palettes["default"]) }

// PaletteNames returns the builtin palette names, sorted.
func PaletteNames() []string { return slices.Sorted(maps.Keys(palettes)) }

// LookupPalette returns a copy of a builtin palette.
func LookupPalette(name string) (Palette, error) {
	p, ok := palettes[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidPalette,
			"unknown palette %q (available: %s)", name, strings.Join(PaletteNames(), ", "))
	}
	return slices.Clone(p), nil
}

// ParsePalette validates and normalizes a list of hex colors to lowercase.
func ParsePalette(hexes []string) (Palette, error) {
	if len(hexes) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidPalette, "palette is empty")
	}
	p := make(Palette, len(hexes))
	for i, h := range hexes {
		if err := errors.ValidateHexColor(h); err != nil {
			return nil, err
		}
		p[i] = strings.ToLower(h)
	}
	return p, nil
}

// colors decodes the palette. Invalid entries decode to black.
func (p Palette) colors() []colorful.Color {
	out := make([]colorful.Color, len(p))
	for i, h := range p {
		c, err := colorful.Hex(h)
		if err == nil {
			out[i] = c
		}
	}
	return out
}

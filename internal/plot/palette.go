package plot

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
)

// ErrUnknownPalette is returned for a palette name that is not defined.
var ErrUnknownPalette = errors.New("unknown palette")

// DefaultPalette is the palette used when none is configured.
const DefaultPalette = "dark"

// palettes holds the ten-colour qualitative palettes available for the
// category fill colours.
var palettes = map[string][]color.Color{
	"dark": {
		rgb(0x00, 0x1c, 0x7f), rgb(0xb1, 0x40, 0x0d), rgb(0x12, 0x71, 0x1c),
		rgb(0x8c, 0x08, 0x00), rgb(0x59, 0x1e, 0x71), rgb(0x59, 0x2f, 0x0d),
		rgb(0xa2, 0x35, 0x82), rgb(0x3c, 0x3c, 0x3c), rgb(0xb8, 0x85, 0x0a),
		rgb(0x00, 0x63, 0x74),
	},
	"deep": {
		rgb(0x4c, 0x72, 0xb0), rgb(0xdd, 0x84, 0x52), rgb(0x55, 0xa8, 0x68),
		rgb(0xc4, 0x4e, 0x52), rgb(0x81, 0x72, 0xb3), rgb(0x93, 0x78, 0x60),
		rgb(0xda, 0x8b, 0xc3), rgb(0x8c, 0x8c, 0x8c), rgb(0xcc, 0xb9, 0x74),
		rgb(0x64, 0xb5, 0xcd),
	},
	"muted": {
		rgb(0x48, 0x78, 0xd0), rgb(0xee, 0x85, 0x4a), rgb(0x6a, 0xcc, 0x64),
		rgb(0xd6, 0x5f, 0x5f), rgb(0x95, 0x6c, 0xb4), rgb(0x8c, 0x61, 0x3c),
		rgb(0xdc, 0x7e, 0xc0), rgb(0x79, 0x79, 0x79), rgb(0xd5, 0xbb, 0x67),
		rgb(0x82, 0xc6, 0xe2),
	},
}

func rgb(r, g, b uint8) color.Color {
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Palette returns the colours of the named palette.
func Palette(name string) ([]color.Color, error) {
	p, ok := palettes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPalette, name)
	}
	return p, nil
}

// PaletteNames lists the defined palettes.
func PaletteNames() []string {
	return []string{"dark", "deep", "muted"}
}

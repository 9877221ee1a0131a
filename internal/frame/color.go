package frame

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ParseColor decodes "#RRGGBB" or "#RRGGBBAA" into an RGBA color. The alpha
// channel is independent of the fill so a frame can be tinted without
// affecting its border.
func ParseColor(s string) (color.RGBA, error) {
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, fmt.Errorf("color must start with #")
	}
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		return color.RGBA{
			R: uint8(val >> 16),
			G: uint8((val >> 8) & 0xFF),
			B: uint8(val & 0xFF),
			A: 255,
		}, nil
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		return color.RGBA{
			R: uint8(val >> 24),
			G: uint8((val >> 16) & 0xFF),
			B: uint8((val >> 8) & 0xFF),
			A: uint8(val & 0xFF),
		}, nil
	}
	return color.RGBA{}, fmt.Errorf("invalid hex length")
}

// FormatColor encodes c as "#RRGGBB", appending the alpha byte only when it
// is not fully opaque.
func FormatColor(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// PaletteColor is a fill color offered for new frames.
type PaletteColor struct {
	Name  string
	Color color.RGBA
}

var palette = []PaletteColor{
	{"Slate", color.RGBA{100, 116, 139, 255}},
	{"Red", color.RGBA{239, 68, 68, 255}},
	{"Orange", color.RGBA{249, 115, 22, 255}},
	{"Amber", color.RGBA{245, 158, 11, 255}},
	{"Green", color.RGBA{34, 197, 94, 255}},
	{"Teal", color.RGBA{20, 184, 166, 255}},
	{"Blue", color.RGBA{59, 130, 246, 255}},
	{"Violet", color.RGBA{139, 92, 246, 255}},
	{"Pink", color.RGBA{236, 72, 153, 255}},
}

// Palette returns a copy of the fill colors offered for new frames.
func Palette() []PaletteColor {
	out := make([]PaletteColor, len(palette))
	copy(out, palette)
	return out
}

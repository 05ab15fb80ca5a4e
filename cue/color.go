package cue

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an RGBA color with 8 bits per channel. The zero value is fully
// transparent black, which the display treats as "no color set".
type Color struct {
	R, G, B, A uint8
}

// ColorFromPacked unpacks a 32-bit color in 0xRRGGBBAA layout, matching
// the byte order of the OSC 'r' type.
func ColorFromPacked(v uint32) Color {
	return Color{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}
}

// ParseHexColor parses a CSS style hex color: #RGB, #RRGGBB or #RRGGBBAA,
// with the leading '#' optional. It reports false for anything else.
func ParseHexColor(s string) (Color, bool) {
	s = strings.TrimPrefix(s, "#")

	var digits string
	switch len(s) {
	case 3:
		// Each digit doubles, so "f0a" means "ff00aa".
		var sb strings.Builder
		for _, b := range []byte(s) {
			sb.WriteByte(b)
			sb.WriteByte(b)
		}
		digits = sb.String()
	case 6, 8:
		digits = s
	default:
		return Color{}, false
	}

	v, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return Color{}, false
	}

	if len(digits) == 6 {
		v = v<<8 | 0xff
	}
	return ColorFromPacked(uint32(v)), true
}

// Hex renders the color as #rrggbb, dropping alpha. The display styles
// text with it, where alpha has no meaning.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// IsZero reports whether the color is the unset zero value.
func (c Color) IsZero() bool {
	return c == Color{}
}

func (c Color) String() string {
	if c.A == 0xff {
		return c.Hex()
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

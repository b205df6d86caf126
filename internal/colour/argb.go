// Package colour provides colour extraction and Material scheme generation.
package colour

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ARGB is a colour packed as 0xAARRGGBB.
type ARGB uint32

// FromRGB returns an opaque ARGB colour from 8-bit channels.
func FromRGB(r, g, b uint8) ARGB {
	return ARGB(0xff<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// FromColor converts any color.Color to an opaque ARGB value.
func FromColor(c color.Color) ARGB {
	r, g, b, _ := c.RGBA()
	// RGBA returns values in the range [0, 65535], convert to [0, 255]
	return FromRGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// R returns the red channel.
func (a ARGB) R() uint8 { return uint8(a >> 16) }

// G returns the green channel.
func (a ARGB) G() uint8 { return uint8(a >> 8) }

// B returns the blue channel.
func (a ARGB) B() uint8 { return uint8(a) }

// Alpha returns the alpha channel.
func (a ARGB) Alpha() uint8 { return uint8(a >> 24) }

// RGBA implements color.Color.
func (a ARGB) RGBA() (r, g, b, alpha uint32) {
	return color.NRGBA{R: a.R(), G: a.G(), B: a.B(), A: a.Alpha()}.RGBA()
}

// Colorful returns the colour as a go-colorful value (alpha is dropped).
func (a ARGB) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(a.R()) / 255.0,
		G: float64(a.G()) / 255.0,
		B: float64(a.B()) / 255.0,
	}
}

// Hex returns the colour as a lowercase "#rrggbb" string.
func (a ARGB) Hex() string {
	return HexFromARGB(a)
}

// String implements fmt.Stringer.
func (a ARGB) String() string {
	return a.Hex()
}

// MarshalText encodes the colour as "#rrggbb".
func (a ARGB) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

// UnmarshalText decodes "#rrggbb" or "#rgb".
func (a *ARGB) UnmarshalText(text []byte) error {
	v, err := ARGBFromHex(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// HexFromARGB formats the RGB part of a colour as "#rrggbb".
func HexFromARGB(a ARGB) string {
	return fmt.Sprintf("#%06x", uint32(a)&0xffffff)
}

// ARGBFromHex parses "#rrggbb", "rrggbb", "#rgb" or "rgb" into an opaque colour.
func ARGBFromHex(s string) (ARGB, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return 0, fmt.Errorf("invalid hex colour %q: expected 3 or 6 digits", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return ARGB(0xff000000 | uint32(v)), nil
}

// MustHex parses a hex colour and panics on error. Intended for constants.
func MustHex(s string) ARGB {
	a, err := ARGBFromHex(s)
	if err != nil {
		panic(err)
	}
	return a
}

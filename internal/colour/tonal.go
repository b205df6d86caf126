package colour

import (
	"math"

	"cogentcore.org/core/colors/cam/hct"
)

// Tones 0 and 100 are pinned so schemes always get true black and white.
var (
	black = FromRGB(0, 0, 0)
	white = FromRGB(255, 255, 255)
)

// TonalPalette is a family of colours sharing one HCT hue and chroma,
// addressed by tone. Tone is L* (0 black, 100 white). Chroma is CAM16 chroma;
// where a tone cannot reach it inside sRGB the solver gives up chroma and
// keeps hue and tone.
type TonalPalette struct {
	Hue    float64
	Chroma float64
}

// NewTonalPalette returns a palette with the hue normalised to [0, 360).
func NewTonalPalette(hue, chroma float64) TonalPalette {
	return TonalPalette{Hue: normaliseHue(hue), Chroma: math.Max(0, chroma)}
}

// TonalPaletteFromARGB derives a palette from the HCT hue and chroma of a colour.
func TonalPaletteFromARGB(a ARGB) TonalPalette {
	h := hct.FromColor(a)
	return NewTonalPalette(float64(h.Hue), float64(h.Chroma))
}

// Tone renders the palette at the given tone.
func (p TonalPalette) Tone(tone float64) ARGB {
	if tone <= 0 {
		return black
	}
	if tone >= 100 {
		return white
	}
	return FromColor(hct.New(float32(p.Hue), float32(p.Chroma), float32(tone)).AsRGBA())
}

// HCT returns the hue, chroma and tone of a colour.
func (a ARGB) HCT() (hue, chroma, tone float64) {
	h := hct.FromColor(a)
	return float64(h.Hue), float64(h.Chroma), float64(h.Tone)
}

func normaliseHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// HueDistance is the shortest angular distance between two hues, 0 to 180.
func HueDistance(h1, h2 float64) float64 {
	d := math.Abs(normaliseHue(h1) - normaliseHue(h2))
	return math.Min(d, 360-d)
}

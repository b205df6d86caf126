package colour

import (
	"image"

	"github.com/cenkalti/dominantcolor"
)

// DominantQuantizer finds the dominant colour with cenkalti/dominantcolor.
type DominantQuantizer struct{}

// NewDominantQuantizer creates a new DominantQuantizer.
func NewDominantQuantizer() *DominantQuantizer {
	return &DominantQuantizer{}
}

// Dominant implements Quantizer.
func (q *DominantQuantizer) Dominant(img image.Image) (ARGB, error) {
	if err := checkImage(img); err != nil {
		return 0, err
	}
	return FromColor(dominantcolor.Find(img)), nil
}

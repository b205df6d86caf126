package colour

import (
	"fmt"
	"image"

	"github.com/EdlinOrg/prominentcolor"
)

// ProminentQuantizer finds the most prominent colour with EdlinOrg/prominentcolor.
// Cropping is disabled because callers already downsample the whole image.
type ProminentQuantizer struct{}

// NewProminentQuantizer creates a new ProminentQuantizer.
func NewProminentQuantizer() *ProminentQuantizer {
	return &ProminentQuantizer{}
}

// Dominant implements Quantizer.
func (q *ProminentQuantizer) Dominant(img image.Image) (ARGB, error) {
	if err := checkImage(img); err != nil {
		return 0, err
	}

	items, err := prominentcolor.KmeansWithArgs(prominentcolor.ArgumentNoCropping, img)
	if err != nil {
		return 0, fmt.Errorf("prominentcolor failed: %w", err)
	}
	if len(items) == 0 {
		return 0, fmt.Errorf("prominentcolor returned no colours")
	}

	best := items[0]
	for _, item := range items[1:] {
		if item.Cnt > best.Cnt {
			best = item
		}
	}

	return FromRGB(uint8(best.Color.R), uint8(best.Color.G), uint8(best.Color.B)), nil
}

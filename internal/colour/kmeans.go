package colour

import (
	"fmt"
	"image"
	"math"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// KMeansQuantizer clusters sampled pixels and returns the centre of the most
// populated cluster.
type KMeansQuantizer struct {
	k          int
	maxSamples int
}

// NewKMeansQuantizer creates a new KMeansQuantizer with default settings.
func NewKMeansQuantizer() *KMeansQuantizer {
	return &KMeansQuantizer{
		k:          5,
		maxSamples: 2000,
	}
}

// Dominant implements Quantizer.
func (q *KMeansQuantizer) Dominant(img image.Image) (ARGB, error) {
	if err := checkImage(img); err != nil {
		return 0, err
	}

	dataset := samplePixels(img, q.maxSamples)
	if len(dataset) == 0 {
		return 0, fmt.Errorf("no opaque pixels found in image")
	}

	k := min(q.k, len(dataset))
	cc, err := kmeans.New().Partition(dataset, k)
	if err != nil {
		return 0, fmt.Errorf("failed to partition pixels: %w", err)
	}

	var best *clusters.Cluster
	for i := range cc {
		if len(cc[i].Center) < 3 {
			continue
		}
		if best == nil || len(cc[i].Observations) > len(best.Observations) {
			best = &cc[i]
		}
	}
	if best == nil {
		return 0, fmt.Errorf("k-means produced no clusters")
	}

	return FromRGB(unit8(best.Center[0]), unit8(best.Center[1]), unit8(best.Center[2])), nil
}

// samplePixels grid-samples up to maxSamples opaque pixels as RGB coordinates in [0, 1].
func samplePixels(img image.Image, maxSamples int) clusters.Observations {
	b := img.Bounds()
	total := b.Dx() * b.Dy()

	step := 1
	if total > maxSamples {
		step = int(math.Sqrt(float64(total)/float64(maxSamples))) + 1
	}

	dataset := make(clusters.Observations, 0, min(total, maxSamples))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			r, g, bl, a := img.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			dataset = append(dataset, clusters.Coordinates{
				float64(r) / 65535.0,
				float64(g) / 65535.0,
				float64(bl) / 65535.0,
			})
		}
	}
	return dataset
}

func unit8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

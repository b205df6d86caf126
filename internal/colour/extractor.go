package colour

import (
	"fmt"
	"image"
	"slices"
)

// Quantizer reduces an image to its single most dominant colour.
type Quantizer interface {
	Dominant(img image.Image) (ARGB, error)
}

// QuantizerFunc adapts a plain function to the Quantizer interface.
type QuantizerFunc func(img image.Image) (ARGB, error)

// Dominant calls f(img).
func (f QuantizerFunc) Dominant(img image.Image) (ARGB, error) {
	return f(img)
}

// Algorithm represents the dominant colour algorithm.
type Algorithm string

const (
	// AlgorithmDominant uses cenkalti/dominantcolor.
	AlgorithmDominant Algorithm = "dominant"

	// AlgorithmKMeans clusters pixels with muesli/kmeans and picks the largest cluster.
	AlgorithmKMeans Algorithm = "kmeans"

	// AlgorithmProminent uses EdlinOrg/prominentcolor.
	AlgorithmProminent Algorithm = "prominent"
)

// ValidAlgorithms returns a list of valid algorithm names.
func ValidAlgorithms() []Algorithm {
	return []Algorithm{
		AlgorithmDominant,
		AlgorithmKMeans,
		AlgorithmProminent,
	}
}

// IsValidAlgorithm checks if the given algorithm name is valid.
func IsValidAlgorithm(alg Algorithm) bool {
	return slices.Contains(ValidAlgorithms(), alg)
}

// NewQuantizer creates a Quantizer for the specified algorithm.
func NewQuantizer(alg Algorithm) (Quantizer, error) {
	switch alg {
	case AlgorithmDominant, "":
		return NewDominantQuantizer(), nil
	case AlgorithmKMeans:
		return NewKMeansQuantizer(), nil
	case AlgorithmProminent:
		return NewProminentQuantizer(), nil
	default:
		return nil, fmt.Errorf("unknown algorithm: %s (valid algorithms: %v)", alg, ValidAlgorithms())
	}
}

func checkImage(img image.Image) error {
	if img == nil {
		return fmt.Errorf("image cannot be nil")
	}
	if img.Bounds().Empty() {
		return fmt.Errorf("image has no pixels")
	}
	return nil
}

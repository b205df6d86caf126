package colour

import (
	"image"
	"image/color"
	"testing"
)

func solidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestNewQuantizer(t *testing.T) {
	tests := []struct {
		alg     Algorithm
		wantErr bool
	}{
		{AlgorithmDominant, false},
		{AlgorithmKMeans, false},
		{AlgorithmProminent, false},
		{"", false},
		{"mediancut", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.alg), func(t *testing.T) {
			q, err := NewQuantizer(tt.alg)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NewQuantizer(%q) expected error", tt.alg)
				}
				return
			}
			if err != nil || q == nil {
				t.Fatalf("NewQuantizer(%q) = %v, %v", tt.alg, q, err)
			}
		})
	}
}

func TestIsValidAlgorithm(t *testing.T) {
	if !IsValidAlgorithm(AlgorithmKMeans) {
		t.Error("kmeans should be valid")
	}
	if IsValidAlgorithm("bogus") {
		t.Error("bogus should be invalid")
	}
}

func TestQuantizersRejectNilImage(t *testing.T) {
	for _, alg := range ValidAlgorithms() {
		q, err := NewQuantizer(alg)
		if err != nil {
			t.Fatalf("NewQuantizer(%q): %v", alg, err)
		}
		if _, err := q.Dominant(nil); err == nil {
			t.Errorf("%s: expected error for nil image", alg)
		}
	}
}

func TestKMeansSolidImage(t *testing.T) {
	img := solidImage(20, 20, color.RGBA{R: 200, G: 30, B: 40, A: 255})

	got, err := NewKMeansQuantizer().Dominant(img)
	if err != nil {
		t.Fatalf("Dominant failed: %v", err)
	}
	if got != FromRGB(200, 30, 40) {
		t.Errorf("Dominant() = %s, want #c81e28", got)
	}
}

func TestKMeansTransparentImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if _, err := NewKMeansQuantizer().Dominant(img); err == nil {
		t.Error("expected error for fully transparent image")
	}
}

func TestDominantSolidImage(t *testing.T) {
	img := solidImage(32, 32, color.RGBA{R: 220, G: 20, B: 20, A: 255})

	got, err := NewDominantQuantizer().Dominant(img)
	if err != nil {
		t.Fatalf("Dominant failed: %v", err)
	}

	h, _, _ := got.Colorful().Hcl()
	want, _, _ := FromRGB(220, 20, 20).Colorful().Hcl()
	if HueDistance(h, want) > 10 {
		t.Errorf("Dominant() = %s, expected a red", got)
	}
}

func TestQuantizerFunc(t *testing.T) {
	q := QuantizerFunc(func(image.Image) (ARGB, error) { return 0xff010203, nil })
	got, err := q.Dominant(nil)
	if err != nil || got != 0xff010203 {
		t.Errorf("QuantizerFunc.Dominant() = %s, %v", got, err)
	}
}

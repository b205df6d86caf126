package colour

// Luminance is the WCAG relative luminance of a, from 0 (black) to 1 (white).
func (a ARGB) Luminance() float64 {
	r, g, b := a.Colorful().LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// Contrast returns the WCAG contrast ratio of two colours, between 1 and 21.
func Contrast(a, b ARGB) float64 {
	la, lb := a.Luminance(), b.Luminance()
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

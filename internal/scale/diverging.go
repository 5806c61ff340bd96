package scale

import (
	"fmt"
	"math"
)

// Diverging is a three-stop colour scale (low, mid, high) interpolated in RGB.
// Inputs outside [min, max] are clamped to the end colours.
type Diverging struct {
	stops      [3]float64
	colors     [3]Color
	degenerate bool
}

// NewDiverging requires min < mid < max. When min == max every value maps to
// the mid colour.
func NewDiverging(min, mid, max float64, low, midColor, high Color) (*Diverging, error) {
	d := &Diverging{
		stops:  [3]float64{min, mid, max},
		colors: [3]Color{low, midColor, high},
	}
	if min == max {
		d.degenerate = true
		return d, nil
	}
	if !(min < mid && mid < max) {
		return nil, fmt.Errorf("%w: stops %v, %v, %v", ErrDomain, min, mid, max)
	}
	return d, nil
}

// NewDivergingAuto places the mid stop at the arithmetic mean of min and max.
func NewDivergingAuto(min, max float64, low, mid, high Color) (*Diverging, error) {
	return NewDiverging(min, (min+max)/2, max, low, mid, high)
}

func (d *Diverging) At(v float64) Color {
	s, c := d.stops, d.colors
	switch {
	case d.degenerate, math.IsNaN(v):
		return c[1]
	case v <= s[0]:
		return c[0]
	case v >= s[2]:
		return c[2]
	case v == s[1]:
		return c[1]
	case v < s[1]:
		return lerpColor(c[0], c[1], (v-s[0])/(s[1]-s[0]))
	default:
		return lerpColor(c[1], c[2], (v-s[1])/(s[2]-s[1]))
	}
}

func (d *Diverging) Stops() [3]float64 { return d.stops }
func (d *Diverging) Colors() [3]Color  { return d.colors }

// Degenerate reports whether the scale was built from an empty extent.
func (d *Diverging) Degenerate() bool { return d.degenerate }

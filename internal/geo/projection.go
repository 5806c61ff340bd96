package geo

import "math"

// Projection maps longitude/latitude degrees to screen pixels.
type Projection interface {
	Project(lon, lat float64) (x, y float64)
}

const rad = math.Pi / 180

// conicEqualArea is an Albers equal-area conic projection with a longitude
// rotation, scaled and translated so that its center lands on (tx, ty).
type conicEqualArea struct {
	n, c, r0 float64
	rotate   float64
	k        float64
	dx, dy   float64
}

func newConic(k, tx, ty, rotateDeg, centerLon, centerLat, p0, p1 float64) conicEqualArea {
	sy0 := math.Sin(p0 * rad)
	n := (sy0 + math.Sin(p1*rad)) / 2
	c := 1 + sy0*(2*n-sy0)
	p := conicEqualArea{n: n, c: c, r0: math.Sqrt(c) / n, rotate: rotateDeg * rad, k: k}
	px, py := p.raw(centerLon*rad, centerLat*rad)
	p.dx = tx - k*px
	p.dy = ty + k*py
	return p
}

func (p conicEqualArea) raw(lambda, phi float64) (float64, float64) {
	r := math.Sqrt(math.Max(0, p.c-2*p.n*math.Sin(phi))) / p.n
	return r * math.Sin(lambda*p.n), p.r0 - r*math.Cos(lambda*p.n)
}

func (p conicEqualArea) Project(lon, lat float64) (float64, float64) {
	lambda := math.Remainder(lon*rad+p.rotate, 2*math.Pi)
	x, y := p.raw(lambda, lat*rad)
	return p.dx + p.k*x, p.dy - p.k*y
}

// AlbersUSA is the usual composite US projection: the lower 48 states on one
// conic with Alaska and Hawaii moved into insets at the lower left.
type AlbersUSA struct {
	lower48, alaska, hawaii conicEqualArea
}

// NewAlbersUSA builds the composite for a given scale (1000 for a 960x600
// canvas) centered on (tx, ty).
func NewAlbersUSA(scale, tx, ty float64) *AlbersUSA {
	return &AlbersUSA{
		lower48: newConic(scale, tx, ty, 96, -0.6, 38.7, 29.5, 45.5),
		alaska:  newConic(scale*0.35, tx-0.307*scale, ty+0.201*scale, 154, -2, 58.5, 55, 65),
		hawaii:  newConic(scale, tx-0.205*scale, ty+0.212*scale, 157, -3, 19.9, 8, 18),
	}
}

func (a *AlbersUSA) Project(lon, lat float64) (float64, float64) {
	return a.pick(lon, lat).Project(lon, lat)
}

func (a *AlbersUSA) pick(lon, lat float64) conicEqualArea {
	switch {
	case lat >= 50 && (lon <= -129 || lon >= 170):
		return a.alaska
	case lat < 25 && lon <= -150:
		return a.hawaii
	default:
		return a.lower48
	}
}

// forPolygon keeps every ring of a polygon on the same inset.
func (a *AlbersUSA) forPolygon(lon, lat float64) Projection {
	return a.pick(lon, lat)
}

package geo

import (
	"strconv"

	"github.com/twpayne/go-geom"
)

// Path renders a feature as SVG path data ("M..L..Z" per ring).
func Path(mp *geom.MultiPolygon, p Projection) string {
	if mp == nil {
		return ""
	}
	buf := make([]byte, 0, 256)
	for _, poly := range mp.Coords() {
		proj := p
		if a, ok := p.(*AlbersUSA); ok && len(poly) > 0 && len(poly[0]) > 0 {
			proj = a.forPolygon(poly[0][0].X(), poly[0][0].Y())
		}
		for _, ring := range poly {
			if len(ring) == 0 {
				continue
			}
			for i, c := range ring {
				x, y := proj.Project(c.X(), c.Y())
				if i == 0 {
					buf = append(buf, 'M')
				} else {
					buf = append(buf, 'L')
				}
				buf = strconv.AppendFloat(buf, x, 'f', 1, 64)
				buf = append(buf, ',')
				buf = strconv.AppendFloat(buf, y, 'f', 1, 64)
			}
			buf = append(buf, 'Z')
		}
	}
	return string(buf)
}

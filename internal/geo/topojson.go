package geo

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/twpayne/go-geom"
)

type topology struct {
	Type      string                     `json:"type"`
	Transform *topoTransform             `json:"transform"`
	Arcs      [][][]float64              `json:"arcs"`
	Objects   map[string]json.RawMessage `json:"objects"`
}

type topoTransform struct {
	Scale     [2]float64 `json:"scale"`
	Translate [2]float64 `json:"translate"`
}

type topoGeometry struct {
	Type       string                 `json:"type"`
	Arcs       json.RawMessage        `json:"arcs"`
	Properties map[string]interface{} `json:"properties"`
	Geometries []topoGeometry         `json:"geometries"`
}

// decodeTopology extracts the named object (or the first object when the
// name is absent) as a list of features.
func decodeTopology(data []byte, object string) ([]Feature, error) {
	var t topology
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("topojson: %w", err)
	}
	raw, ok := t.Objects[object]
	if !ok {
		keys := make([]string, 0, len(t.Objects))
		for k := range t.Objects {
			keys = append(keys, k)
		}
		if len(keys) == 0 {
			return nil, fmt.Errorf("%w: topology has no objects", ErrFormat)
		}
		sort.Strings(keys)
		raw = t.Objects[keys[0]]
	}
	var root topoGeometry
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("topojson object: %w", err)
	}

	arcs := t.decodeArcs()
	geoms := root.Geometries
	if root.Type != "GeometryCollection" {
		geoms = []topoGeometry{root}
	}
	out := make([]Feature, 0, len(geoms))
	for _, g := range geoms {
		mp, err := g.multiPolygon(arcs)
		if err != nil {
			return nil, fmt.Errorf("feature %q: %w", nameOf(g.Properties), err)
		}
		out = append(out, Feature{Name: nameOf(g.Properties), Geometry: mp})
	}
	return out, nil
}

// decodeArcs resolves quantized, delta-encoded arcs into absolute positions.
func (t *topology) decodeArcs() [][]geom.Coord {
	out := make([][]geom.Coord, len(t.Arcs))
	for i, arc := range t.Arcs {
		pts := make([]geom.Coord, 0, len(arc))
		var x, y float64
		for _, p := range arc {
			if len(p) < 2 {
				continue
			}
			if t.Transform == nil {
				pts = append(pts, geom.Coord{p[0], p[1]})
				continue
			}
			x += p[0]
			y += p[1]
			pts = append(pts, geom.Coord{
				x*t.Transform.Scale[0] + t.Transform.Translate[0],
				y*t.Transform.Scale[1] + t.Transform.Translate[1],
			})
		}
		out[i] = pts
	}
	return out
}

func (g topoGeometry) multiPolygon(arcs [][]geom.Coord) (*geom.MultiPolygon, error) {
	var polys [][][]int
	switch g.Type {
	case "Polygon":
		var rings [][]int
		if err := json.Unmarshal(g.Arcs, &rings); err != nil {
			return nil, err
		}
		polys = [][][]int{rings}
	case "MultiPolygon":
		if err := json.Unmarshal(g.Arcs, &polys); err != nil {
			return nil, err
		}
	case "", "null":
		return geom.NewMultiPolygon(geom.XY), nil
	default:
		return nil, fmt.Errorf("%w: geometry %q", ErrFormat, g.Type)
	}

	coords := make([][][]geom.Coord, 0, len(polys))
	for _, rings := range polys {
		pc := make([][]geom.Coord, 0, len(rings))
		for _, ring := range rings {
			rc, err := stitch(arcs, ring)
			if err != nil {
				return nil, err
			}
			pc = append(pc, rc)
		}
		coords = append(coords, pc)
	}
	return geom.NewMultiPolygon(geom.XY).SetCoords(coords)
}

// stitch joins arcs into one ring. A negative index ~i means arc i reversed;
// the shared point between consecutive arcs is kept once.
func stitch(arcs [][]geom.Coord, refs []int) ([]geom.Coord, error) {
	var ring []geom.Coord
	for k, ref := range refs {
		idx, reversed := ref, false
		if ref < 0 {
			idx, reversed = ^ref, true
		}
		if idx >= len(arcs) {
			return nil, fmt.Errorf("arc %d out of range", idx)
		}
		arc := arcs[idx]
		if k > 0 && len(ring) > 0 {
			ring = ring[:len(ring)-1]
		}
		if reversed {
			for i := len(arc) - 1; i >= 0; i-- {
				ring = append(ring, arc[i])
			}
		} else {
			ring = append(ring, arc...)
		}
	}
	return ring, nil
}

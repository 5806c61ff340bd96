// Package geo decodes state boundary datasets and turns them into SVG paths.
package geo

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// Feature is one named region. Polygons are always normalized to a
// MultiPolygon so callers have a single geometry shape to deal with.
type Feature struct {
	Name     string
	Geometry *geom.MultiPolygon
}

var ErrFormat = errors.New("unsupported boundary format")

// Decode accepts either a TopoJSON topology or a GeoJSON FeatureCollection.
func Decode(data []byte) ([]Feature, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("boundary json: %w", err)
	}
	switch head.Type {
	case "Topology":
		return decodeTopology(data, "states")
	case "FeatureCollection":
		return decodeGeoJSON(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormat, head.Type)
	}
}

func decodeGeoJSON(data []byte) ([]Feature, error) {
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("geojson: %w", err)
	}
	out := make([]Feature, 0, len(fc.Features))
	for _, f := range fc.Features {
		mp, err := asMultiPolygon(f.Geometry)
		if err != nil {
			return nil, fmt.Errorf("feature %q: %w", nameOf(f.Properties), err)
		}
		out = append(out, Feature{Name: nameOf(f.Properties), Geometry: mp})
	}
	return out, nil
}

func asMultiPolygon(g geom.T) (*geom.MultiPolygon, error) {
	switch t := g.(type) {
	case *geom.MultiPolygon:
		return t, nil
	case *geom.Polygon:
		return geom.NewMultiPolygon(geom.XY).SetCoords([][][]geom.Coord{t.Coords()})
	case nil:
		return geom.NewMultiPolygon(geom.XY), nil
	default:
		return nil, fmt.Errorf("%w: geometry %T", ErrFormat, g)
	}
}

func nameOf(props map[string]interface{}) string {
	if v, ok := props["name"].(string); ok {
		return v
	}
	return ""
}

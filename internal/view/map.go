package view

import (
	"fmt"

	"github.com/mind-engage/creditmap/internal/dataset"
	"github.com/mind-engage/creditmap/internal/geo"
	"github.com/mind-engage/creditmap/internal/scale"
	"github.com/mind-engage/creditmap/internal/scene"
)

type MapConfig struct {
	Width           float64 `yaml:"width" json:"width"`
	Height          float64 `yaml:"height" json:"height"`
	ProjectionScale float64 `yaml:"projection_scale" json:"projectionScale"`
	Low             string  `yaml:"low" json:"low"`
	Mid             string  `yaml:"mid" json:"mid"`
	High            string  `yaml:"high" json:"high"`
	Fallback        string  `yaml:"fallback" json:"fallback"`
	Stroke          string  `yaml:"stroke" json:"stroke"`
	LegendWidth     float64 `yaml:"legend_width" json:"legendWidth"`
	LegendHeight    float64 `yaml:"legend_height" json:"legendHeight"`
	LegendTicks     int     `yaml:"legend_ticks" json:"legendTicks"`
	Title           string  `yaml:"title" json:"title"`
}

func DefaultMapConfig() MapConfig {
	return MapConfig{
		Width:           960,
		Height:          600,
		ProjectionScale: 1000,
		Low:             "#d73027",
		Mid:             "#fee08b",
		High:            "#1a9850",
		Fallback:        "#ccc",
		Stroke:          "#fff",
		LegendWidth:     300,
		LegendHeight:    10,
		LegendTicks:     5,
		Title:           "FICO Score Gradient",
	}
}

// MapData is what one choropleth paint needs.
type MapData struct {
	Features []geo.Feature
	Index    *dataset.Index
}

// Map is the state choropleth coloured by average FICO score.
type Map struct {
	base
	cfg            MapConfig
	proj           geo.Projection
	low, mid, high scale.Color
	fill           *scale.Diverging
}

func NewMap(cfg MapConfig) (*Map, error) {
	cs, err := parseColors(cfg.Low, cfg.Mid, cfg.High)
	if err != nil {
		return nil, fmt.Errorf("map colours: %w", err)
	}
	if _, err := scale.ParseHex(cfg.Fallback); err != nil {
		return nil, fmt.Errorf("map fallback colour: %w", err)
	}
	return &Map{
		base: newBase(cfg.Width, cfg.Height),
		cfg:  cfg,
		proj: geo.NewAlbersUSA(cfg.ProjectionScale, cfg.Width/2, cfg.Height/2),
		low:  cs[0], mid: cs[1], high: cs[2],
	}, nil
}

// Scale returns the fill scale of the last paint, nil when no record had a
// usable FICO score.
func (m *Map) Scale() *scale.Diverging { return m.fill }

// Update repaints every state. States without a record keep their shape and
// get the fallback fill.
func (m *Map) Update(d MapData) error {
	if err := m.reset(); err != nil {
		return err
	}
	var records []dataset.StateRecord
	if d.Index != nil {
		records = d.Index.Records()
	}
	values, _ := dataset.ExtractColumn(records, dataset.FieldFICO)
	lo, hi, ok := dataset.Extent(values)
	m.fill = nil
	if ok {
		s, err := scale.NewDivergingAuto(lo, hi, m.low, m.mid, m.high)
		if err != nil {
			return fmt.Errorf("fico scale: %w", err)
		}
		m.fill = s
	}

	states := scene.El("g", scene.A("class", "states"))
	for _, f := range d.Features {
		fill := m.cfg.Fallback
		if r, found := d.Index.Lookup(f.Name); found && m.fill != nil {
			fill = m.fill.At(r.FICOScore).Hex()
		}
		states.Append(scene.El("path",
			scene.A("class", "state"),
			scene.A("data-name", f.Name),
			scene.A("d", geo.Path(f.Geometry, m.proj)),
			scene.A("fill", fill),
			scene.A("stroke", m.cfg.Stroke),
		))
	}
	m.root.Append(states)
	if m.fill != nil {
		m.root.Append(m.legend(lo, hi)...)
	}
	return nil
}

func (m *Map) legend(lo, hi float64) []*scene.Node {
	grad := scene.El("linearGradient", scene.A("id", "fico-gradient"),
		scene.A("x1", "0%"), scene.A("y1", "0%"), scene.A("x2", "100%"), scene.A("y2", "0%"))
	for i, off := range []string{"0%", "50%", "100%"} {
		grad.Append(scene.El("stop", scene.A("offset", off), scene.A("stop-color", m.fill.Colors()[i].Hex())))
	}
	defs := scene.El("defs").Append(grad)

	lw, lh := m.cfg.LegendWidth, m.cfg.LegendHeight
	axisScale := scale.NewLinear(lo, hi, 0, lw)
	g := scene.El("g", scene.A("class", "legend"),
		scene.A("transform", fmt.Sprintf("translate(%s,%s)", num(m.cfg.Width-lw-40), num(m.cfg.Height-50))))
	axis := axisBottom(axisScale, m.cfg.LegendTicks, func(v float64) string { return fmt.Sprintf("%.0f", v) })
	axis.Set("transform", fmt.Sprintf("translate(0,%s)", num(lh)))
	g.Append(
		scene.El("rect", scene.F("width", lw), scene.F("height", lh), scene.A("style", "fill: url(#fico-gradient)")),
		axis,
		scene.El("text", scene.A("class", "legend-title"), scene.F("x", lw/2), scene.F("y", -10),
			scene.A("text-anchor", "middle")).WithText(m.cfg.Title),
	)
	return []*scene.Node{defs, g}
}

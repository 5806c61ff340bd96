package view

import (
	"fmt"
	"math"

	"github.com/mind-engage/creditmap/internal/scale"
	"github.com/mind-engage/creditmap/internal/scene"
)

type GaugeKind string

const (
	GaugeLoan   GaugeKind = "loan"
	GaugeCredit GaugeKind = "credit"
)

type GaugeConfig struct {
	Kind            GaugeKind         `yaml:"kind" json:"kind"`
	Width           float64           `yaml:"width" json:"width"`
	Height          float64           `yaml:"height" json:"height"`
	InnerRadius     float64           `yaml:"inner_radius" json:"innerRadius"`
	OuterRadius     float64           `yaml:"outer_radius" json:"outerRadius"`
	PointerOverhang float64           `yaml:"pointer_overhang" json:"pointerOverhang"`
	Lo              float64           `yaml:"lo" json:"lo"`
	Hi              float64           `yaml:"hi" json:"hi"`
	Floor           string            `yaml:"floor" json:"floor"`
	Steps           []scale.Step      `yaml:"steps" json:"steps"`
	Colors          map[string]string `yaml:"colors" json:"colors"`
	Tips            map[string]string `yaml:"tips" json:"tips"`
}

func segmentColors() map[string]string {
	return map[string]string{
		"Poor":      "#d73027",
		"Fair":      "#fee08b",
		"Good":      "#91cf60",
		"Excellent": "#1a9850",
	}
}

func DefaultLoanGauge() GaugeConfig {
	return GaugeConfig{
		Kind: GaugeLoan, Width: 500, Height: 150, InnerRadius: 90, OuterRadius: 130, PointerOverhang: 15,
		Lo: 0, Hi: 1, Floor: "Poor",
		Steps:  []scale.Step{{Min: 0.75, Label: "Excellent"}, {Min: 0.5, Label: "Good"}, {Min: 0.25, Label: "Fair"}},
		Colors: segmentColors(),
		Tips: map[string]string{
			"Poor":      "Loan approval probability is poor. Consider reducing outstanding debt or improving your credit score.",
			"Fair":      "Loan approval probability is fair. Paying off credit card debt can help improve your chances.",
			"Good":      "Loan approval probability is good. Maintain your financial profile to keep improving.",
			"Excellent": "Loan approval probability is excellent. Great job keeping a strong credit history!",
		},
	}
}

func DefaultCreditGauge() GaugeConfig {
	return GaugeConfig{
		Kind: GaugeCredit, Width: 500, Height: 150, InnerRadius: 90, OuterRadius: 130, PointerOverhang: 15,
		Lo: 300, Hi: 850, Floor: "Poor",
		Steps:  []scale.Step{{Min: 740, Label: "Excellent"}, {Min: 670, Label: "Good"}, {Min: 580, Label: "Fair"}},
		Colors: segmentColors(),
		Tips: map[string]string{
			"Poor":      "Predicted score below 580. Late payments and high balances weigh heavily here.",
			"Fair":      "Predicted score 580 to 669. Lowering utilization is the quickest lever.",
			"Good":      "Predicted score 670 to 739. Most lenders will offer standard terms.",
			"Excellent": "Predicted score 740 or above. Expect the best available rates.",
		},
	}
}

// Gauge is a half-dial with coloured bands, a pointer and a caption.
type Gauge struct {
	base
	cfg     GaugeConfig
	scale   scale.Gauge
	ladder  scale.Ladder
	reading scale.Reading
	painted bool
}

func NewGauge(cfg GaugeConfig) (*Gauge, error) {
	if cfg.Hi <= cfg.Lo {
		return nil, fmt.Errorf("gauge %s: %w: range [%v, %v]", cfg.Kind, scale.ErrDomain, cfg.Lo, cfg.Hi)
	}
	if cfg.InnerRadius <= 0 || cfg.OuterRadius <= cfg.InnerRadius {
		return nil, fmt.Errorf("gauge %s: radii %v/%v", cfg.Kind, cfg.InnerRadius, cfg.OuterRadius)
	}
	ladder, err := scale.NewLadder(cfg.Floor, cfg.Steps...)
	if err != nil {
		return nil, fmt.Errorf("gauge %s: %w", cfg.Kind, err)
	}
	for label, c := range cfg.Colors {
		if _, err := scale.ParseHex(c); err != nil {
			return nil, fmt.Errorf("gauge %s colour %q: %w", cfg.Kind, label, err)
		}
	}
	return &Gauge{
		// room below the dial for the caption
		base:   newBase(cfg.Width, cfg.Height+30),
		cfg:    cfg,
		scale:  scale.Gauge{Lo: cfg.Lo, Hi: cfg.Hi},
		ladder: ladder,
	}, nil
}

func (g *Gauge) Kind() GaugeKind { return g.cfg.Kind }

// Midpoint is the raw value shown before the first prediction.
func (g *Gauge) Midpoint() float64 { return (g.cfg.Lo + g.cfg.Hi) / 2 }

// Reading returns the last painted reading.
func (g *Gauge) Reading() (scale.Reading, bool) { return g.reading, g.painted }

// Tips returns the hover text per band label.
func (g *Gauge) Tips() map[string]string {
	out := make(map[string]string, len(g.cfg.Tips))
	for label, tip := range g.cfg.Tips {
		out[label] = label + "\n" + tip
	}
	return out
}

func (g *Gauge) Classify(raw float64) string { return g.ladder.Classify(raw) }

// Update redraws the dial for raw, which is clamped onto the gauge range.
func (g *Gauge) Update(raw float64) error {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return fmt.Errorf("gauge %s: %w: value %v", g.cfg.Kind, scale.ErrDomain, raw)
	}
	if err := g.reset(); err != nil {
		return err
	}
	r := g.scale.Read(raw, g.ladder)
	cx, cy := g.cfg.Width/2, g.cfg.Height*0.9

	bands := scene.El("g", scene.A("class", "segments"))
	for _, s := range g.scale.Segments(g.ladder) {
		fill := g.cfg.Colors[s.Label]
		if fill == "" {
			fill = "#999"
		}
		bands.Append(scene.El("path",
			scene.A("class", "segment"),
			scene.A("data-target", s.Label),
			scene.A("d", annulus(cx, cy, g.cfg.InnerRadius, g.cfg.OuterRadius, scale.Angle(s.T0), scale.Angle(s.T1))),
			scene.A("fill", fill),
		))
	}

	l := g.cfg.OuterRadius + g.cfg.PointerOverhang
	px, py := polar(cx, cy, l, r.Angle)
	g.root.Append(
		bands,
		scene.El("line", scene.A("class", "pointer"),
			scene.F("x1", cx), scene.F("y1", cy), scene.F("x2", px), scene.F("y2", py),
			scene.A("stroke", "#000"), scene.F("stroke-width", 4)),
		scene.El("circle", scene.A("class", "hub"), scene.F("cx", cx), scene.F("cy", cy), scene.F("r", 6), scene.A("fill", "#000")),
		scene.El("text", scene.A("class", "gauge-label"), scene.F("x", cx), scene.F("y", g.cfg.Height+10),
			scene.A("text-anchor", "middle"), scene.A("font-size", "20px"), scene.A("font-weight", "bold")).
			WithText(g.caption(r)),
	)
	g.reading, g.painted = r, true
	return nil
}

func (g *Gauge) caption(r scale.Reading) string {
	if g.cfg.Kind == GaugeCredit {
		return fmt.Sprintf("Predicted Credit Score: %.0f (%s)", r.Raw, r.Category)
	}
	return fmt.Sprintf("Approval Probability: %.1f%%", r.T*100)
}

// polar places angle a on the dial: 0 points left, π/2 up, π right.
func polar(cx, cy, radius, a float64) (float64, float64) {
	return cx - radius*math.Cos(a), cy - radius*math.Sin(a)
}

// annulus is the band between radii r0 and r1 from angle a0 to a1.
func annulus(cx, cy, r0, r1, a0, a1 float64) string {
	large := 0
	if a1-a0 > math.Pi {
		large = 1
	}
	ox0, oy0 := polar(cx, cy, r1, a0)
	ox1, oy1 := polar(cx, cy, r1, a1)
	ix1, iy1 := polar(cx, cy, r0, a1)
	ix0, iy0 := polar(cx, cy, r0, a0)
	return fmt.Sprintf("M%s,%sA%s,%s 0 %d 1 %s,%sL%s,%sA%s,%s 0 %d 0 %s,%sZ",
		num(ox0), num(oy0), num(r1), num(r1), large, num(ox1), num(oy1),
		num(ix1), num(iy1), num(r0), num(r0), large, num(ix0), num(iy0))
}

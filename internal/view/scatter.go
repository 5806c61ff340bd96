package view

import (
	"fmt"
	"math"

	"github.com/mind-engage/creditmap/internal/samples"
	"github.com/mind-engage/creditmap/internal/scale"
	"github.com/mind-engage/creditmap/internal/scene"
)

// PointClass tags every scatter marker; redraws remove exactly these.
const PointClass = "data-point"

type Margin struct {
	Top    float64 `yaml:"top" json:"top"`
	Right  float64 `yaml:"right" json:"right"`
	Bottom float64 `yaml:"bottom" json:"bottom"`
	Left   float64 `yaml:"left" json:"left"`
}

type ScatterConfig struct {
	Width    float64    `yaml:"width" json:"width"`
	Height   float64    `yaml:"height" json:"height"`
	Margin   Margin     `yaml:"margin" json:"margin"`
	Radius   float64    `yaml:"radius" json:"radius"`
	Approved string     `yaml:"approved" json:"approved"`
	Denied   string     `yaml:"denied" json:"denied"`
	XLabel   string     `yaml:"x_label" json:"xLabel"`
	YLabel   string     `yaml:"y_label" json:"yLabel"`
	Ticks    int        `yaml:"ticks" json:"ticks"`
	XDomain  [2]float64 `yaml:"x_domain" json:"xDomain"`
	YDomain  [2]float64 `yaml:"y_domain" json:"yDomain"`
}

func DefaultScatterConfig() ScatterConfig {
	return ScatterConfig{
		Width:    640,
		Height:   420,
		Margin:   Margin{Top: 20, Right: 20, Bottom: 50, Left: 70},
		Radius:   4,
		Approved: "#1a9850",
		Denied:   "#d73027",
		XLabel:   "Credit Score",
		YLabel:   "Annual Income",
		Ticks:    6,
		XDomain:  [2]float64{300, 850},
		YDomain:  [2]float64{0, 100000},
	}
}

// Scatter plots applicant samples, credit score against income, coloured by
// approval. Both axes follow the extent of the latest batch only.
type Scatter struct {
	base
	cfg  ScatterConfig
	x, y *scale.Linear

	plot, axes, points *scene.Node
}

func NewScatter(cfg ScatterConfig) (*Scatter, error) {
	if _, err := parseColors(cfg.Approved, cfg.Denied); err != nil {
		return nil, fmt.Errorf("scatter colours: %w", err)
	}
	m := cfg.Margin
	if cfg.Width-m.Left-m.Right <= 0 || cfg.Height-m.Top-m.Bottom <= 0 {
		return nil, fmt.Errorf("scatter: margins leave no plot area")
	}
	s := &Scatter{
		base: newBase(cfg.Width, cfg.Height),
		cfg:  cfg,
		x:    scale.NewLinear(cfg.XDomain[0], cfg.XDomain[1], 0, cfg.Width-m.Left-m.Right),
		y:    scale.NewLinear(cfg.YDomain[0], cfg.YDomain[1], cfg.Height-m.Top-m.Bottom, 0),
	}
	s.layout()
	return s, nil
}

// layout builds the static frame: plot group, axis group and point group.
func (s *Scatter) layout() {
	m := s.cfg.Margin
	s.plot = scene.El("g", scene.A("class", "plot"),
		scene.A("transform", fmt.Sprintf("translate(%s,%s)", num(m.Left), num(m.Top))))
	s.axes = scene.El("g", scene.A("class", "axes"))
	s.points = scene.El("g", scene.A("class", "points"))
	s.plot.Append(s.axes, s.points)
	s.root.Append(s.plot)
	s.drawAxes()
}

// X and Y expose the current scales.
func (s *Scatter) X() *scale.Linear { return s.x }
func (s *Scatter) Y() *scale.Linear { return s.y }

// Update replaces every point. Points with a non-finite coordinate are left
// out. A batch with no drawable points resets the axes to the configured
// domains.
func (s *Scatter) Update(pts []samples.Point) error {
	if s.destroyed {
		return ErrDestroyed
	}
	s.points.RemoveClass(PointClass)

	finite := pts[:0:0]
	for _, p := range pts {
		if isFinite(p.CreditScore) && isFinite(p.AnnualIncome) {
			finite = append(finite, p)
		}
	}

	xs, ys := s.cfg.XDomain, s.cfg.YDomain
	if len(finite) > 0 {
		xs = [2]float64{math.Inf(1), math.Inf(-1)}
		ys = xs
		for _, p := range finite {
			xs[0], xs[1] = math.Min(xs[0], p.CreditScore), math.Max(xs[1], p.CreditScore)
			ys[0], ys[1] = math.Min(ys[0], p.AnnualIncome), math.Max(ys[1], p.AnnualIncome)
		}
	}
	s.x.Rescale(xs[0], xs[1])
	s.y.Rescale(ys[0], ys[1])
	s.drawAxes()

	for _, p := range finite {
		fill := s.cfg.Denied
		status := "denied"
		if p.Approved {
			fill, status = s.cfg.Approved, "approved"
		}
		s.points.Append(scene.El("circle",
			scene.A("class", PointClass+" "+status),
			scene.F("cx", s.x.Map(p.CreditScore)),
			scene.F("cy", s.y.Map(p.AnnualIncome)),
			scene.F("r", s.cfg.Radius),
			scene.A("fill", fill),
			scene.A("opacity", "0.7"),
		))
	}
	return nil
}

func (s *Scatter) drawAxes() {
	s.axes.Clear()
	_, xw := s.x.Range()
	h, _ := s.y.Range()

	xa := axisBottom(s.x, s.cfg.Ticks, func(v float64) string { return fmt.Sprintf("%.0f", v) })
	xa.Set("transform", fmt.Sprintf("translate(0,%s)", num(h)))
	ya := axisLeft(s.y, s.cfg.Ticks, incomeTick)

	s.axes.Append(xa, ya,
		scene.El("text", scene.A("class", "axis-label"), scene.F("x", xw/2), scene.F("y", h+40),
			scene.A("text-anchor", "middle")).WithText(s.cfg.XLabel),
		scene.El("text", scene.A("class", "axis-label"), scene.A("transform", "rotate(-90)"),
			scene.F("x", -h/2), scene.F("y", -55), scene.A("text-anchor", "middle")).WithText(s.cfg.YLabel),
	)
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func incomeTick(v float64) string {
	if math.Abs(v) >= 1000 {
		return fmt.Sprintf("$%sk", num(v/1000))
	}
	return fmt.Sprintf("$%.0f", v)
}

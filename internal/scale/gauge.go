package scale

import (
	"fmt"
	"math"
	"sort"
)

// Gauge maps a raw score in [Lo, Hi] onto a half-circle sweep.
type Gauge struct {
	Lo, Hi float64
}

var (
	// Probability readings are already normalized.
	Probability = Gauge{Lo: 0, Hi: 1}
	// CreditScore is the FICO-style 300–850 range.
	CreditScore = Gauge{Lo: 300, Hi: 850}
)

// Normalize returns clamp((s-lo)/(hi-lo), 0, 1).
func (g Gauge) Normalize(s float64) float64 {
	if g.Hi == g.Lo {
		return 0.5
	}
	return clamp01((s - g.Lo) / (g.Hi - g.Lo))
}

// Angle converts a normalized value to radians, 0 at the left end of the dial
// and π at the right.
func Angle(t float64) float64 { return math.Pi * clamp01(t) }

// Reading is one gauge update.
type Reading struct {
	Raw      float64 `json:"raw"`
	T        float64 `json:"t"`
	Angle    float64 `json:"angle"`
	Category string  `json:"category"`
}

func (g Gauge) Read(s float64, l Ladder) Reading {
	t := g.Normalize(s)
	return Reading{Raw: s, T: t, Angle: Angle(t), Category: l.Classify(s)}
}

// Step is one rung of a Ladder: values >= Min get Label.
type Step struct {
	Min   float64 `yaml:"min" json:"min"`
	Label string  `yaml:"label" json:"label"`
}

// Ladder classifies a value by descending thresholds; the highest matching
// threshold wins and anything below the last rung gets Floor.
type Ladder struct {
	steps []Step
	floor string
}

func NewLadder(floor string, steps ...Step) (Ladder, error) {
	s := append([]Step(nil), steps...)
	sort.SliceStable(s, func(i, j int) bool { return s[i].Min > s[j].Min })
	for i := 1; i < len(s); i++ {
		if s[i].Min == s[i-1].Min {
			return Ladder{}, fmt.Errorf("%w: duplicate threshold %v", ErrDomain, s[i].Min)
		}
	}
	return Ladder{steps: s, floor: floor}, nil
}

func MustLadder(floor string, steps ...Step) Ladder {
	l, err := NewLadder(floor, steps...)
	if err != nil {
		panic(err)
	}
	return l
}

var (
	CreditLadder = MustLadder("Poor",
		Step{Min: 740, Label: "Excellent"},
		Step{Min: 670, Label: "Good"},
		Step{Min: 580, Label: "Fair"},
	)
	ProbabilityLadder = MustLadder("Poor",
		Step{Min: 0.75, Label: "Excellent"},
		Step{Min: 0.5, Label: "Good"},
		Step{Min: 0.25, Label: "Fair"},
	)
)

func (l Ladder) Classify(v float64) string {
	for _, s := range l.steps {
		if v >= s.Min {
			return s.Label
		}
	}
	return l.floor
}

// Segment is a contiguous band of the dial in normalized units.
type Segment struct {
	Label  string
	T0, T1 float64
}

// Segments lays the ladder's bands out over the gauge, lowest band first.
func (g Gauge) Segments(l Ladder) []Segment {
	out := make([]Segment, 0, len(l.steps)+1)
	lo := g.Lo
	label := l.floor
	for i := len(l.steps) - 1; i >= 0; i-- {
		s := l.steps[i]
		if s.Min <= g.Lo {
			label = s.Label
			continue
		}
		if s.Min >= g.Hi {
			break
		}
		out = append(out, Segment{Label: label, T0: g.Normalize(lo), T1: g.Normalize(s.Min)})
		lo, label = s.Min, s.Label
	}
	return append(out, Segment{Label: label, T0: g.Normalize(lo), T1: 1})
}

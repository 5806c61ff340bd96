package scale

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red    = MustHex("#d73027")
	yellow = MustHex("#fee08b")
	green  = MustHex("#1a9850")
)

func TestDivergingStopsAreExact(t *testing.T) {
	domains := [][3]float64{
		{650, 700, 750},
		{0, 0.1, 1},
		{-5, 2, 3},
		{684.5, 713.25, 742},
	}
	for _, d := range domains {
		s, err := NewDiverging(d[0], d[1], d[2], red, yellow, green)
		require.NoError(t, err)
		assert.Equal(t, red, s.At(d[0]), "min of %v", d)
		assert.Equal(t, yellow, s.At(d[1]), "mid of %v", d)
		assert.Equal(t, green, s.At(d[2]), "max of %v", d)
	}
}

func TestDivergingAutoMid(t *testing.T) {
	s, err := NewDivergingAuto(660, 740, red, yellow, green)
	require.NoError(t, err)
	assert.Equal(t, [3]float64{660, 700, 740}, s.Stops())
	assert.Equal(t, yellow, s.At(700))

	between := s.At(680)
	assert.NotEqual(t, red, between)
	assert.NotEqual(t, yellow, between)
}

func TestDivergingClampsOutOfDomain(t *testing.T) {
	s, err := NewDivergingAuto(600, 800, red, yellow, green)
	require.NoError(t, err)
	assert.Equal(t, red, s.At(100))
	assert.Equal(t, green, s.At(900))
}

func TestDivergingRejectsUnorderedStops(t *testing.T) {
	_, err := NewDiverging(10, 5, 20, red, yellow, green)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDomain))
}

func TestDivergingDegenerateDomain(t *testing.T) {
	s, err := NewDivergingAuto(700, 700, red, yellow, green)
	require.NoError(t, err)
	assert.True(t, s.Degenerate())
	assert.Equal(t, yellow, s.At(700))
	assert.Equal(t, yellow, s.At(12))
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#ccc")
	require.NoError(t, err)
	assert.Equal(t, "#cccccc", c.Hex())

	_, err = ParseHex("#12345")
	assert.Error(t, err)
	_, err = ParseHex("zzzzzz")
	assert.Error(t, err)
}

func TestLinearMapInvertRescale(t *testing.T) {
	s := NewLinear(300, 850, 0, 550)
	assert.InDelta(t, 0, s.Map(300), 1e-9)
	assert.InDelta(t, 550, s.Map(850), 1e-9)
	assert.InDelta(t, 700, s.Invert(s.Map(700)), 1e-9)

	s.Rescale(500, 600)
	assert.InDelta(t, 275, s.Map(550), 1e-9)
	lo, hi := s.Domain()
	assert.Equal(t, 500.0, lo)
	assert.Equal(t, 600.0, hi)
}

func TestLinearDegenerateDomainMapsToMidRange(t *testing.T) {
	s := NewLinear(42, 42, 0, 100)
	assert.Equal(t, 50.0, s.Map(42))
	assert.Equal(t, 50.0, s.Map(-1))
	assert.Equal(t, []float64{42}, s.Ticks(5))
}

func TestLinearTicks(t *testing.T) {
	assert.Equal(t, []float64{660, 680, 700, 720, 740}, NewLinear(650, 750, 0, 300).Ticks(5))
	assert.Equal(t, []float64{0, 0.2, 0.4, 0.6, 0.8, 1}, NewLinear(0, 1, 0, 1).Ticks(5))
	assert.Equal(t, []float64{0, 20000, 40000, 60000, 80000, 100000}, NewLinear(100000, 0, 0, 1).Ticks(5))
	assert.Nil(t, NewLinear(0, 1, 0, 1).Ticks(0))
}

func TestGaugeNormalize(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{300, 0},
		{850, 1},
		{577, 0.504},
		{100, 0},
		{1000, 1},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, CreditScore.Normalize(c.in), 1e-3, "score %v", c.in)
	}
	assert.Equal(t, 0.0, CreditScore.Normalize(math.NaN()))
	assert.Equal(t, 0.5, Gauge{Lo: 1, Hi: 1}.Normalize(3))
}

func TestAngle(t *testing.T) {
	assert.Equal(t, 0.0, Angle(0))
	assert.InDelta(t, math.Pi/2, Angle(0.5), 1e-12)
	assert.InDelta(t, math.Pi, Angle(1.7), 1e-12)
}

func TestCreditLadder(t *testing.T) {
	cases := map[float64]string{
		740: "Excellent",
		739: "Good",
		670: "Good",
		669: "Fair",
		580: "Fair",
		579: "Poor",
		850: "Excellent",
		300: "Poor",
	}
	for score, want := range cases {
		assert.Equal(t, want, CreditLadder.Classify(score), "score %v", score)
	}
}

func TestLadderRejectsDuplicateThresholds(t *testing.T) {
	_, err := NewLadder("low", Step{Min: 1, Label: "a"}, Step{Min: 1, Label: "b"})
	assert.ErrorIs(t, err, ErrDomain)
}

func TestLadderOrderIndependent(t *testing.T) {
	l := MustLadder("Poor", Step{Min: 580, Label: "Fair"}, Step{Min: 740, Label: "Excellent"}, Step{Min: 670, Label: "Good"})
	assert.Equal(t, "Good", l.Classify(700))
}

func TestGaugeSegments(t *testing.T) {
	segs := Probability.Segments(ProbabilityLadder)
	require.Len(t, segs, 4)
	assert.Equal(t, Segment{Label: "Poor", T0: 0, T1: 0.25}, segs[0])
	assert.Equal(t, Segment{Label: "Excellent", T0: 0.75, T1: 1}, segs[3])

	credit := CreditScore.Segments(CreditLadder)
	require.Len(t, credit, 4)
	assert.Equal(t, "Poor", credit[0].Label)
	assert.InDelta(t, 280.0/550.0, credit[0].T1, 1e-12)
	assert.Equal(t, "Excellent", credit[3].Label)
}

func TestGaugeRead(t *testing.T) {
	r := CreditScore.Read(712, CreditLadder)
	assert.Equal(t, "Good", r.Category)
	assert.InDelta(t, math.Pi*r.T, r.Angle, 1e-12)
}

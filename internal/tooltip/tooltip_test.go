package tooltip

import (
	"testing"

	"github.com/mind-engage/creditmap/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMachine() Machine {
	return Machine{
		Content: StaticContent(map[string]string{"Kansas": "KS card", "Ohio": "OH card"}),
		Offset:  MapOffset,
	}
}

func TestLifecycle(t *testing.T) {
	m := testMachine()

	s, fx := m.Step(Hidden, Event{Kind: Enter, Target: "Kansas", X: 100, Y: 100})
	require.True(t, s.Visible)
	assert.Equal(t, "KS card", s.Content)
	assert.Equal(t, 110.0, s.X)
	assert.Equal(t, 72.0, s.Y)
	assert.Equal(t, []Effect{{Kind: Show, Content: "KS card", X: 110, Y: 72}}, fx)

	s, fx = m.Step(s, Event{Kind: Move, Target: "Kansas", X: 200, Y: 50})
	assert.Equal(t, "KS card", s.Content, "move keeps content")
	assert.Equal(t, 210.0, s.X)
	assert.Equal(t, 22.0, s.Y)
	assert.Equal(t, []Effect{{Kind: Position, X: 210, Y: 22}}, fx)

	s, fx = m.Step(s, Event{Kind: Leave, Target: "Kansas"})
	assert.Equal(t, Hidden, s)
	assert.Equal(t, []Effect{{Kind: Hide}}, fx)
}

func TestEnterNewTargetReplacesContent(t *testing.T) {
	m := testMachine()
	s, _ := m.Step(Hidden, Event{Kind: Enter, Target: "Kansas"})
	s, fx := m.Step(s, Event{Kind: Enter, Target: "Ohio", X: 5, Y: 40})
	assert.Equal(t, "Ohio", s.Target)
	assert.Equal(t, "OH card", s.Content)
	require.Len(t, fx, 1)
	assert.Equal(t, Show, fx[0].Kind)
}

func TestMoveWhileHiddenIsIgnored(t *testing.T) {
	s, fx := testMachine().Step(Hidden, Event{Kind: Move, X: 1, Y: 1})
	assert.Equal(t, Hidden, s)
	assert.Empty(t, fx)

	s, fx = testMachine().Step(Hidden, Event{Kind: Leave})
	assert.Equal(t, Hidden, s)
	assert.Empty(t, fx)
}

func TestEnterWithoutContent(t *testing.T) {
	m := testMachine()
	s, fx := m.Step(Hidden, Event{Kind: Enter, Target: "Atlantis"})
	assert.Equal(t, Hidden, s)
	assert.Empty(t, fx)

	visible, _ := m.Step(Hidden, Event{Kind: Enter, Target: "Ohio"})
	s, fx = m.Step(visible, Event{Kind: Enter, Target: "Atlantis"})
	assert.Equal(t, Hidden, s)
	assert.Equal(t, []Effect{{Kind: Hide}}, fx)
}

func TestStateContent(t *testing.T) {
	ix := dataset.BuildIndex([]dataset.StateRecord{{
		State: "Texas", FICOScore: 694, AvgDebt: 6312.5, AvgIncome: 66963, DebtToIncomeRatio: 0.0943,
	}})
	content, ok := StateContent(ix)("Texas")
	require.True(t, ok)
	assert.Equal(t, "Texas\nFICO Score: 694\nIncome: $66,963\nCredit Card Debt: $6,312.5\nDebt-to-Income Ratio: 0.0943", content)

	_, ok = StateContent(ix)("Puerto Rico")
	assert.False(t, ok)
	_, ok = StateContent(nil)("Texas")
	assert.False(t, ok)
}

func TestGrouped(t *testing.T) {
	cases := map[float64]string{
		0:          "0",
		999:        "999",
		1000:       "1,000",
		1234567.25: "1,234,567.25",
		-4500:      "-4,500",
		0.1234:     "0.123",
	}
	for in, want := range cases {
		assert.Equal(t, want, Grouped(in), "input %v", in)
	}
}

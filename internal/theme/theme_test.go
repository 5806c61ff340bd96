package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/creditmap/internal/scale"
	"github.com/mind-engage/creditmap/internal/view"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestParse_Overrides(t *testing.T) {
	th, err := Parse([]byte(`
map:
  width: 800
  fallback: "#999999"
credit_gauge:
  steps:
    - {min: 800, label: Exceptional}
    - {min: 740, label: "Very Good"}
    - {min: 670, label: Good}
    - {min: 580, label: Fair}
  colors:
    Exceptional: "#006837"
`))
	require.NoError(t, err)
	assert.Equal(t, 800.0, th.Map.Width)
	assert.Equal(t, 600.0, th.Map.Height)
	assert.Equal(t, "#999999", th.Map.Fallback)
	require.Len(t, th.CreditGauge.Steps, 4)
	assert.Equal(t, "#006837", th.CreditGauge.Colors["Exceptional"])
	assert.Equal(t, "#d73027", th.CreditGauge.Colors["Poor"])

	l := scale.MustLadder(th.CreditGauge.Floor, th.CreditGauge.Steps...)
	assert.Equal(t, "Exceptional", l.Classify(810))

	// defaults are not shared between themes
	assert.NotContains(t, Default().CreditGauge.Colors, "Exceptional")
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("map: [1, 2"))
	assert.Error(t, err)

	_, err = Parse([]byte("loan_gauge:\n  lo: 1\n  hi: 0\n"))
	assert.ErrorIs(t, err, scale.ErrDomain)

	_, err = Parse([]byte("loan_gauge:\n  kind: credit\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	th, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, view.DefaultMapConfig(), th.Map)

	th, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 960.0, th.Map.Width)

	p := filepath.Join(t.TempDir(), "theme.yaml")
	require.NoError(t, os.WriteFile(p, []byte("scatter:\n  radius: 6\n"), 0o644))
	th, err = Load(p)
	require.NoError(t, err)
	assert.Equal(t, 6.0, th.Scatter.Radius)
}

// Package theme loads widget dimensions, colours and gauge ladders from YAML.
package theme

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mind-engage/creditmap/internal/view"
)

// Theme configures every widget on the dashboard.
type Theme struct {
	Map         view.MapConfig     `yaml:"map"`
	Scatter     view.ScatterConfig `yaml:"scatter"`
	LoanGauge   view.GaugeConfig   `yaml:"loan_gauge"`
	CreditGauge view.GaugeConfig   `yaml:"credit_gauge"`
}

// Default returns the built-in theme.
func Default() *Theme {
	return &Theme{
		Map:         view.DefaultMapConfig(),
		Scatter:     view.DefaultScatterConfig(),
		LoanGauge:   view.DefaultLoanGauge(),
		CreditGauge: view.DefaultCreditGauge(),
	}
}

// Load reads a theme file over the defaults. An empty path or a missing file
// yields the defaults.
func Load(path string) (*Theme, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read theme: %w", err)
	}
	return Parse(data)
}

// Parse decodes data over the defaults and validates the result.
func Parse(data []byte) (*Theme, error) {
	t := Default()
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("failed to parse theme: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate builds every widget once so a bad theme fails at startup.
func (t *Theme) Validate() error {
	if _, err := view.NewMap(t.Map); err != nil {
		return fmt.Errorf("theme map: %w", err)
	}
	if _, err := view.NewScatter(t.Scatter); err != nil {
		return fmt.Errorf("theme scatter: %w", err)
	}
	if t.LoanGauge.Kind != view.GaugeLoan || t.CreditGauge.Kind != view.GaugeCredit {
		return fmt.Errorf("theme gauges: kinds must be %q and %q", view.GaugeLoan, view.GaugeCredit)
	}
	for _, g := range []view.GaugeConfig{t.LoanGauge, t.CreditGauge} {
		if _, err := view.NewGauge(g); err != nil {
			return fmt.Errorf("theme %s gauge: %w", g.Kind, err)
		}
	}
	return nil
}

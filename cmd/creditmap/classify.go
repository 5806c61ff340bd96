package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mind-engage/creditmap/internal/theme"
	"github.com/mind-engage/creditmap/internal/view"
)

var classifyCmd = &cobra.Command{
	Use:   "classify (loan|credit) VALUE",
	Short: "Show which gauge band a probability or credit score falls in",
	Example: `  creditmap classify loan 0.62
  creditmap classify credit 712`,
	Args: cobra.ExactArgs(2),
	RunE: runClassify,
}

var bandColors = map[string]*color.Color{
	"Excellent": color.New(color.FgGreen, color.Bold),
	"Good":      color.New(color.FgGreen),
	"Fair":      color.New(color.FgYellow),
	"Poor":      color.New(color.FgRed),
}

func runClassify(cmd *cobra.Command, args []string) error {
	th, err := theme.Load(cfg.ThemeFile)
	if err != nil {
		return err
	}
	var gc view.GaugeConfig
	switch args[0] {
	case string(view.GaugeLoan):
		gc = th.LoanGauge
	case string(view.GaugeCredit):
		gc = th.CreditGauge
	default:
		return fmt.Errorf("unknown gauge %q, want loan or credit", args[0])
	}
	raw, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("value %q: %w", args[1], err)
	}
	g, err := view.NewGauge(gc)
	if err != nil {
		return err
	}
	return printBand(cmd.OutOrStdout(), g, raw)
}

func printBand(w io.Writer, g *view.Gauge, raw float64) error {
	label := g.Classify(raw)
	c, ok := bandColors[label]
	if !ok {
		c = color.New(color.Reset)
	}
	if _, err := fmt.Fprintf(w, "%s %s\n", strconv.FormatFloat(raw, 'f', -1, 64), c.Sprint(label)); err != nil {
		return err
	}
	if tip := g.Tips()[label]; tip != "" {
		_, err := fmt.Fprintln(w, tip)
		return err
	}
	return nil
}

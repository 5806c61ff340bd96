package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mind-engage/creditmap/internal/dashboard"
	"github.com/mind-engage/creditmap/internal/theme"
)

var (
	renderOut     string
	renderSamples int
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Write every widget as a standalone SVG file",
	Long: `Loads the datasets, plots the first --samples rows of the sample dataset
and writes map.svg, scatter.svg, loan.svg and credit.svg into --out. The
gauges are drawn at their resting values.`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", ".", "output directory")
	renderCmd.Flags().IntVar(&renderSamples, "samples", 200, "number of sample rows to plot, 0 for all")
}

func runRender(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	bs, err := openBlobs()
	if err != nil {
		return err
	}
	th, err := theme.Load(cfg.ThemeFile)
	if err != nil {
		return err
	}
	b, err := dashboard.New(dashboard.Options{
		Loader:  newLoader(bs),
		Theme:   th,
		Samples: fileSamples{src: blobSource(bs), key: cfg.SamplesDataset, n: renderSamples},
		Log:     logger,
	})
	if err != nil {
		return err
	}
	if err := b.Load(ctx); err != nil {
		return err
	}
	if _, err := b.GenerateScatter(ctx); err != nil {
		logger.Warn("scatter left empty", zap.Error(err))
	}

	if err := os.MkdirAll(renderOut, 0o755); err != nil {
		return err
	}
	for _, w := range dashboard.Widgets {
		path := filepath.Join(renderOut, string(w)+".svg")
		if err := writeWidget(b, w, path); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
	}
	return nil
}

func writeWidget(b *dashboard.Board, w dashboard.Widget, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := b.WriteSVG(f, w); err != nil {
		_ = f.Close()
		return fmt.Errorf("render %s: %w", w, err)
	}
	return f.Close()
}

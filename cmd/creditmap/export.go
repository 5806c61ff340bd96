package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mind-engage/creditmap/internal/export"
	"github.com/mind-engage/creditmap/internal/history"
	"github.com/mind-engage/creditmap/internal/samples"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:       "export (states|samples|predictions)",
	Short:     "Write a dataset as Parquet",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"states", "samples", "predictions"},
	RunE:      runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default <dataset>.parquet)")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	name := args[0]
	write, err := exporter(ctx, name)
	if err != nil {
		return err
	}
	path := exportOut
	if path == "" {
		path = name + ".parquet"
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("export %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
	return nil
}

// exporter loads the named dataset and returns its parquet writer.
func exporter(ctx context.Context, name string) (func(io.Writer) error, error) {
	switch name {
	case "states":
		bs, err := openBlobs()
		if err != nil {
			return nil, err
		}
		bundle, err := newLoader(bs).Load(ctx)
		if err != nil {
			return nil, err
		}
		recs := bundle.Index.Records()
		return func(w io.Writer) error { return export.WriteStates(w, recs) }, nil
	case "samples", "predictions":
		dbh, err := openDB(ctx)
		if err != nil {
			return nil, err
		}
		defer dbh.Close()
		if name == "samples" {
			pts, err := samples.NewStore(dbh).All(ctx)
			if err != nil {
				return nil, err
			}
			return func(w io.Writer) error { return export.WriteSamples(w, pts) }, nil
		}
		recs, err := history.NewRepo(dbh).List(ctx, "", 1000)
		if err != nil {
			return nil, err
		}
		return func(w io.Writer) error { return export.WritePredictions(w, recs) }, nil
	}
	return nil, fmt.Errorf("unknown dataset %q", name)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mind-engage/creditmap/internal/samples"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace the local sample table with the rows of SAMPLES_DATASET",
	RunE:  runSeed,
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	bs, err := openBlobs()
	if err != nil {
		return err
	}
	pts, err := readSamples(ctx, blobSource(bs), cfg.SamplesDataset)
	if err != nil {
		return err
	}
	dbh, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer dbh.Close()

	store := samples.NewStore(dbh)
	if err := store.Seed(ctx, pts); err != nil {
		return err
	}
	n, err := store.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d samples\n", n)
	return nil
}

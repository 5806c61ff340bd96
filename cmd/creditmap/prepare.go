package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mind-engage/creditmap/internal/dataset"
)

var (
	prepareFICO   string
	prepareIncome string
)

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Merge the FICO/debt and income tables into the combined state profile",
	Long: `Reads the per-state FICO and credit card debt table and the per-state income
table from the blob store, joins them on state name and stores the result
under FINANCIAL_DATASET.`,
	RunE: runPrepare,
}

func init() {
	prepareCmd.Flags().StringVar(&prepareFICO, "fico", "data/FICO_Debt_by_State.csv", "FICO and debt table key")
	prepareCmd.Flags().StringVar(&prepareIncome, "income", "data/Income_by_State.csv", "income table key")
}

func runPrepare(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	bs, err := openBlobs()
	if err != nil {
		return err
	}
	src := blobSource(bs)

	rc, err := src.Open(ctx, prepareFICO)
	if err != nil {
		return err
	}
	fico, err := dataset.ParseFICODebtCSV(rc)
	_ = rc.Close()
	if err != nil {
		return err
	}
	rc, err = src.Open(ctx, prepareIncome)
	if err != nil {
		return err
	}
	income, err := dataset.ParseIncomeCSV(rc)
	_ = rc.Close()
	if err != nil {
		return err
	}

	merged := dataset.MergeProfiles(fico, income)
	var buf bytes.Buffer
	if err := dataset.WriteFinancialCSV(&buf, merged); err != nil {
		return err
	}
	key, err := bs.Put(cfg.FinancialDataset, &buf)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d states to %s\n", len(merged), key)
	return nil
}

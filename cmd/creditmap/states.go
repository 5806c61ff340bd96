package main

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/mind-engage/creditmap/internal/dataset"
	"github.com/mind-engage/creditmap/internal/theme"
	"github.com/mind-engage/creditmap/internal/tooltip"
	"github.com/mind-engage/creditmap/internal/view"
)

var statesSort string

var statesCmd = &cobra.Command{
	Use:   "states",
	Short: "Print the state financial profile as a table",
	RunE:  runStates,
}

func init() {
	statesCmd.Flags().StringVar(&statesSort, "sort", "state", "sort by state, fico, debt, income or ratio")
}

var sortFields = map[string]dataset.Field{
	"fico":   dataset.FieldFICO,
	"debt":   dataset.FieldDebt,
	"income": dataset.FieldIncome,
	"ratio":  dataset.FieldRatio,
}

func runStates(cmd *cobra.Command, _ []string) error {
	bs, err := openBlobs()
	if err != nil {
		return err
	}
	bundle, err := newLoader(bs).Load(cmd.Context())
	if err != nil {
		return err
	}
	th, err := theme.Load(cfg.ThemeFile)
	if err != nil {
		return err
	}
	g, err := view.NewGauge(th.CreditGauge)
	if err != nil {
		return err
	}

	recs := bundle.Index.Records()
	if statesSort != "state" {
		f, ok := sortFields[statesSort]
		if !ok {
			return fmt.Errorf("unknown sort %q", statesSort)
		}
		sortDescending(recs, f)
	}
	return writeStatesTable(cmd.OutOrStdout(), recs, g.Classify, len(bundle.Report.Invalid))
}

// sortDescending orders by f, highest first, NaN last.
func sortDescending(recs []dataset.StateRecord, f dataset.Field) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i].Value(f), recs[j].Value(f)
		if math.IsNaN(b) {
			return !math.IsNaN(a)
		}
		return a > b
	})
}

func writeStatesTable(w io.Writer, recs []dataset.StateRecord, band func(float64) string, invalid int) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"State", "FICO", "Band", "Income", "Card Debt", "Debt/Income"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range recs {
		fico, label := "n/a", "n/a"
		if !math.IsNaN(r.FICOScore) {
			fico = strconv.FormatFloat(r.FICOScore, 'f', -1, 64)
			label = band(r.FICOScore)
		}
		data = append(data, []string{
			r.State,
			fico,
			label,
			"$" + tooltip.Grouped(r.AvgIncome),
			"$" + tooltip.Grouped(r.AvgDebt),
			strconv.FormatFloat(r.DebtToIncomeRatio, 'f', 4, 64),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d states, %d invalid cells\n", len(recs), invalid)
	return err
}

// Package export writes dashboard data as Parquet for offline analysis.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/mind-engage/creditmap/internal/dataset"
	"github.com/mind-engage/creditmap/internal/history"
	"github.com/mind-engage/creditmap/internal/samples"
)

// StateRow is one state financial profile.
type StateRow struct {
	State             string  `parquet:"state,snappy"`
	FICOScore         float64 `parquet:"fico_score,snappy"`
	AvgDebt           float64 `parquet:"avg_credit_card_debt,snappy"`
	AvgIncome         float64 `parquet:"avg_income,snappy"`
	DebtToIncomeRatio float64 `parquet:"debt_to_income_ratio,snappy"`
}

type SampleRow struct {
	CreditScore  float64 `parquet:"credit_score,snappy"`
	AnnualIncome float64 `parquet:"annual_income,snappy"`
	Approved     bool    `parquet:"approved,snappy"`
}

type PredictionRow struct {
	ID        string    `parquet:"id,snappy"`
	Kind      string    `parquet:"kind,snappy,dict"`
	Request   string    `parquet:"request_json,snappy"`
	Result    float64   `parquet:"result,snappy"`
	Category  string    `parquet:"category,snappy,dict"`
	CreatedAt time.Time `parquet:"created_at,snappy"`
}

func WriteStates(w io.Writer, recs []dataset.StateRecord) error {
	rows := make([]StateRow, len(recs))
	for i, r := range recs {
		rows[i] = StateRow{r.State, r.FICOScore, r.AvgDebt, r.AvgIncome, r.DebtToIncomeRatio}
	}
	return write(w, rows)
}

func WriteSamples(w io.Writer, pts []samples.Point) error {
	rows := make([]SampleRow, len(pts))
	for i, p := range pts {
		rows[i] = SampleRow{p.CreditScore, p.AnnualIncome, p.Approved}
	}
	return write(w, rows)
}

func WritePredictions(w io.Writer, recs []history.Record) error {
	rows := make([]PredictionRow, len(recs))
	for i, r := range recs {
		rows[i] = PredictionRow{
			ID:        r.ID,
			Kind:      string(r.Kind),
			Request:   string(r.RequestJSON),
			Result:    r.Result,
			Category:  r.Category,
			CreatedAt: time.Unix(r.CreatedAt, 0).UTC(),
		}
	}
	return write(w, rows)
}

func write[T any](w io.Writer, rows []T) error {
	pw := parquet.NewGenericWriter[T](w)
	if _, err := pw.Write(rows); err != nil {
		_ = pw.Close()
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

// FICODebtRow is a row of the state FICO / credit card debt source table.
type FICODebtRow struct {
	State   string
	FICO    float64
	AvgDebt float64
}

// IncomeRow is a row of the state income table.
type IncomeRow struct {
	State  string
	Income float64
}

// ParseFICODebtCSV reads the FICO table positionally (state, score, debt);
// the source headers vary between releases.
func ParseFICODebtCSV(r io.Reader) ([]FICODebtRow, error) {
	rows, err := readAll(r)
	if err != nil {
		return nil, err
	}
	out := make([]FICODebtRow, 0, len(rows))
	for i, rec := range rows {
		if len(rec) < 3 {
			return nil, fmt.Errorf("fico csv row %d: want 3 columns, got %d", i, len(rec))
		}
		fico, ok1 := ParseNumber(rec[1])
		debt, ok2 := ParseNumber(rec[2])
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("fico csv row %d: non-numeric value", i)
		}
		out = append(out, FICODebtRow{State: strings.TrimSpace(rec[0]), FICO: fico, AvgDebt: debt})
	}
	return out, nil
}

// ParseIncomeCSV reads the income table using its "Name" and "2021" columns.
func ParseIncomeCSV(r io.Reader) ([]IncomeRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHeader, err)
	}
	nameCol, yearCol := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case "Name":
			nameCol = i
		case "2021":
			yearCol = i
		}
	}
	if nameCol < 0 || yearCol < 0 {
		return nil, fmt.Errorf("%w: income table needs Name and 2021 columns", ErrHeader)
	}
	var out []IncomeRow
	for i := 0; ; i++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("income csv row %d: %w", i, err)
		}
		if nameCol >= len(rec) || yearCol >= len(rec) {
			continue
		}
		v, ok := ParseNumber(rec[yearCol])
		if !ok {
			return nil, fmt.Errorf("income csv row %d: non-numeric 2021 value %q", i, rec[yearCol])
		}
		out = append(out, IncomeRow{State: strings.TrimSpace(rec[nameCol]), Income: v})
	}
}

func readAll(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrHeader)
	}
	return rows[1:], nil
}

// MergeProfiles inner-joins the two tables on state name in FICO table order.
// The ratio is computed from unrounded values, then debt and income are
// rounded to cents and the ratio to four places.
func MergeProfiles(fico []FICODebtRow, income []IncomeRow) []StateRecord {
	inc := make(map[string]float64, len(income))
	for _, r := range income {
		inc[r.State] = r.Income
	}
	out := make([]StateRecord, 0, len(fico))
	for _, f := range fico {
		in, ok := inc[f.State]
		if !ok {
			continue
		}
		ratio := math.NaN()
		if in != 0 {
			ratio = f.AvgDebt / in
		}
		out = append(out, StateRecord{
			State:             f.State,
			FICOScore:         f.FICO,
			AvgDebt:           round(f.AvgDebt, 2),
			AvgIncome:         round(in, 2),
			DebtToIncomeRatio: round(ratio, 4),
		})
	}
	return out
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

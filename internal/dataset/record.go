// Package dataset loads the state boundary and state financial datasets and
// indexes the financial rows by state name.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// StateRecord is one row of the combined state financial profile.
type StateRecord struct {
	State             string  `json:"state"`
	FICOScore         float64 `json:"ficoScore"`
	AvgDebt           float64 `json:"avgDebt"`
	AvgIncome         float64 `json:"avgIncome"`
	DebtToIncomeRatio float64 `json:"debtToIncomeRatio"`
}

// Field names a numeric column, using the CSV header text.
type Field string

const (
	FieldState  = "State"
	FieldFICO   Field = "Avg FICO Score"
	FieldDebt   Field = "Avg Credit Card Debt"
	FieldIncome Field = "Avg Income 2021"
	FieldRatio  Field = "Credit Card Debt to Income Ratio"
)

// NumericFields lists the numeric columns in file order.
var NumericFields = []Field{FieldFICO, FieldDebt, FieldIncome, FieldRatio}

// Value returns the field's value, NaN for an unknown field.
func (r StateRecord) Value(f Field) float64 {
	switch f {
	case FieldFICO:
		return r.FICOScore
	case FieldDebt:
		return r.AvgDebt
	case FieldIncome:
		return r.AvgIncome
	case FieldRatio:
		return r.DebtToIncomeRatio
	}
	return math.NaN()
}

func (r *StateRecord) set(f Field, v float64) {
	switch f {
	case FieldFICO:
		r.FICOScore = v
	case FieldDebt:
		r.AvgDebt = v
	case FieldIncome:
		r.AvgIncome = v
	case FieldRatio:
		r.DebtToIncomeRatio = v
	}
}

// CellError flags a cell that could not be read as a number. Row is the
// zero-based data row (header excluded).
type CellError struct {
	Row    int    `json:"row"`
	Column Field  `json:"column"`
	Value  string `json:"value"`
}

// ParseReport summarizes a parse: bad cells are kept as NaN and listed here
// instead of failing the whole load.
type ParseReport struct {
	Rows    int         `json:"rows"`
	Invalid []CellError `json:"invalid,omitempty"`
}

var ErrHeader = errors.New("financial csv header")

// ParseFinancialCSV reads the combined profile. Columns are located by header
// name so extra or reordered columns are fine.
func ParseFinancialCSV(r io.Reader) ([]StateRecord, ParseReport, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, ParseReport{}, fmt.Errorf("%w: %v", ErrHeader, err)
	}
	cols := map[string]int{}
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	stateCol, ok := cols[FieldState]
	if !ok {
		return nil, ParseReport{}, fmt.Errorf("%w: missing %q", ErrHeader, FieldState)
	}
	for _, f := range NumericFields {
		if _, ok := cols[string(f)]; !ok {
			return nil, ParseReport{}, fmt.Errorf("%w: missing %q", ErrHeader, f)
		}
	}

	var (
		out []StateRecord
		rep ParseReport
	)
	for row := 0; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, rep, fmt.Errorf("financial csv row %d: %w", row, err)
		}
		cell := func(i int) string {
			if i < len(rec) {
				return rec[i]
			}
			return ""
		}
		sr := StateRecord{State: strings.TrimSpace(cell(stateCol))}
		for _, f := range NumericFields {
			raw := cell(cols[string(f)])
			v, ok := ParseNumber(raw)
			if !ok {
				rep.Invalid = append(rep.Invalid, CellError{Row: row, Column: f, Value: raw})
				v = math.NaN()
			}
			sr.set(f, v)
		}
		out = append(out, sr)
		rep.Rows++
	}
	return out, rep, nil
}

// ParseNumber coerces a textual number, tolerating surrounding spaces, a
// leading "$" and thousands separators.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// WriteFinancialCSV writes records with the canonical header.
func WriteFinancialCSV(w io.Writer, records []StateRecord) error {
	cw := csv.NewWriter(w)
	header := []string{FieldState}
	for _, f := range NumericFields {
		header = append(header, string(f))
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{r.State}
		for _, f := range NumericFields {
			row = append(row, strconv.FormatFloat(r.Value(f), 'f', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

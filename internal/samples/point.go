// Package samples holds loan applicant samples for the credit score vs income
// scatterplot: the wire format of the sample endpoint, a CSV reader for the
// cleaned loan dataset and a SQL-backed store.
package samples

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Point is one applicant sample.
type Point struct {
	CreditScore  float64 `json:"creditScore"`
	AnnualIncome float64 `json:"annualIncome"`
	Approved     bool    `json:"approved"`
}

// Wire is the sample endpoint's JSON shape.
type Wire struct {
	CreditScore        float64 `json:"Credit_Score"`
	AnnualIncome       float64 `json:"Annual_Income"`
	LoanApprovalStatus int     `json:"Loan_Approval_Status"`
}

func (w Wire) Point() Point {
	return Point{CreditScore: w.CreditScore, AnnualIncome: w.AnnualIncome, Approved: w.LoanApprovalStatus == 1}
}

func (p Point) Wire() Wire {
	w := Wire{CreditScore: p.CreditScore, AnnualIncome: p.AnnualIncome}
	if p.Approved {
		w.LoanApprovalStatus = 1
	}
	return w
}

// FromWire validates and converts a batch; an approval status other than 0
// or 1 makes the whole batch malformed.
func FromWire(ws []Wire) ([]Point, error) {
	out := make([]Point, 0, len(ws))
	for i, w := range ws {
		if w.LoanApprovalStatus != 0 && w.LoanApprovalStatus != 1 {
			return nil, fmt.Errorf("sample %d: Loan_Approval_Status %d", i, w.LoanApprovalStatus)
		}
		out = append(out, w.Point())
	}
	return out, nil
}

// ParseCSV reads Credit_Score, Annual_Income and Loan_Approval_Status from a
// loan dataset; other columns are ignored. Rows with unreadable or non-finite
// values are skipped and counted.
func ParseCSV(r io.Reader) ([]Point, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("samples csv header: %w", err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	need := []string{"Credit_Score", "Annual_Income", "Loan_Approval_Status"}
	for _, n := range need {
		if _, ok := col[n]; !ok {
			return nil, 0, fmt.Errorf("samples csv: missing column %q", n)
		}
	}
	var (
		out     []Point
		skipped int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, skipped, nil
		}
		if err != nil {
			return nil, skipped, err
		}
		get := func(name string) (float64, bool) {
			i := col[name]
			if i >= len(rec) {
				return 0, false
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return 0, false
			}
			return v, true
		}
		cs, ok1 := get("Credit_Score")
		inc, ok2 := get("Annual_Income")
		st, ok3 := get("Loan_Approval_Status")
		if !ok1 || !ok2 || !ok3 || (st != 0 && st != 1) {
			skipped++
			continue
		}
		out = append(out, Point{CreditScore: cs, AnnualIncome: inc, Approved: st == 1})
	}
}

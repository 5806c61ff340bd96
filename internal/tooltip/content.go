package tooltip

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mind-engage/creditmap/internal/dataset"
)

// StateContent formats the map hover card for a state, or ok=false when the
// state has no financial record.
func StateContent(ix *dataset.Index) ContentFunc {
	return func(name string) (string, bool) {
		if ix == nil {
			return "", false
		}
		r, ok := ix.Lookup(name)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("%s\nFICO Score: %s\nIncome: $%s\nCredit Card Debt: $%s\nDebt-to-Income Ratio: %s",
			r.State,
			strconv.FormatFloat(r.FICOScore, 'f', -1, 64),
			Grouped(r.AvgIncome),
			Grouped(r.AvgDebt),
			strconv.FormatFloat(r.DebtToIncomeRatio, 'f', -1, 64),
		), true
	}
}

// StaticContent serves fixed texts keyed by target, e.g. gauge segment tips.
func StaticContent(texts map[string]string) ContentFunc {
	return func(target string) (string, bool) {
		s, ok := texts[target]
		return s, ok
	}
}

// Grouped formats v with comma thousands separators and up to three
// fraction digits, like the en-US locale.
func Grouped(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	s := strconv.FormatFloat(math.Abs(v), 'f', 3, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")

	var b strings.Builder
	if v < 0 {
		b.WriteByte('-')
	}
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

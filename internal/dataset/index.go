package dataset

import (
	"math"
	"sort"
)

// Index maps a state name to its financial record.
type Index struct {
	byName map[string]StateRecord
}

// BuildIndex keys records by state name. Duplicate names are not an error:
// the last occurrence wins.
func BuildIndex(records []StateRecord) *Index {
	m := make(map[string]StateRecord, len(records))
	for _, r := range records {
		m[r.State] = r
	}
	return &Index{byName: m}
}

// Lookup tolerates absence; callers render a neutral fallback.
func (ix *Index) Lookup(name string) (StateRecord, bool) {
	if ix == nil {
		return StateRecord{}, false
	}
	r, ok := ix.byName[name]
	return r, ok
}

func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.byName)
}

// Records returns the indexed records sorted by state name.
func (ix *Index) Records() []StateRecord {
	if ix == nil {
		return nil
	}
	out := make([]StateRecord, 0, len(ix.byName))
	for _, r := range ix.byName {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].State < out[j].State })
	return out
}

// ExtractColumn returns the finite values of a column. Row positions holding
// NaN or infinite values are returned in skipped so they never poison an
// extent.
func ExtractColumn(records []StateRecord, f Field) (values []float64, skipped []int) {
	values = make([]float64, 0, len(records))
	for i, r := range records {
		v := r.Value(f)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			skipped = append(skipped, i)
			continue
		}
		values = append(values, v)
	}
	return values, skipped
}

// Extent returns min and max; ok is false for an empty input.
func Extent(values []float64) (lo, hi float64, ok bool) {
	if len(values) == 0 {
		return 0, 0, false
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi, true
}

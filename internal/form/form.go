// Package form projects the loan and credit input forms into prediction
// requests. Validation happens here so that an invalid form never reaches
// the network.
package form

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// FieldErrors maps a request key to a human readable message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Field is the render state of one input.
type Field struct {
	Value    string `json:"value"`
	Disabled bool   `json:"disabled"`
	Required bool   `json:"required"`
}

// input binds a request key and its HTML id to a raw value.
type input struct {
	key, id string
	raw     *string
}

func lookup(v url.Values, key, id string) string {
	if s := v.Get(key); s != "" {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(v.Get(id))
}

func (fe FieldErrors) number(in input) float64 {
	if *in.raw == "" {
		fe[in.key] = "is required"
		return 0
	}
	f, err := strconv.ParseFloat(*in.raw, 64)
	switch {
	case err != nil || math.IsNaN(f) || math.IsInf(f, 0):
		fe[in.key] = "must be a number"
	case f < 0:
		fe[in.key] = "must not be negative"
	}
	return f
}

func (fe FieldErrors) choice(in input) string {
	if *in.raw == "" {
		fe[in.key] = "is required"
	}
	return *in.raw
}

// ValuesFromJSON flattens a JSON object into form values so API clients and
// HTML forms share one parse path.
func ValuesFromJSON(r io.Reader) (url.Values, error) {
	var m map[string]any
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("decode form: %w", err)
	}
	v := url.Values{}
	for k, x := range m {
		switch t := x.(type) {
		case nil:
		case string:
			v.Set(k, t)
		case json.Number:
			v.Set(k, t.String())
		case bool:
			if t {
				v.Set(k, "Yes")
			} else {
				v.Set(k, "No")
			}
		default:
			v.Set(k, fmt.Sprint(t))
		}
	}
	return v, nil
}

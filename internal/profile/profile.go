// Package profile classifies the columns of a sample table.
//
// Profiles are computed exactly once from the original sample and treated as
// immutable afterwards; every downstream stage (synthesis, corruption)
// consumes the same profile map.
//
// Classification is intentionally coarse and never fails: a column that is
// neither numeric nor temporal degrades to categorical or text, and a column
// with no non-null values degrades to MixedEmpty.
package profile

import (
	"time"

	"messygen/internal/table"
)

// Kind is the closed set of column categories.
type Kind int

const (
	Numeric Kind = iota
	Datetime
	Categorical
	Text
	MixedEmpty
)

// String returns the lower-case label used in logs and reports.
func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Datetime:
		return "datetime"
	case Categorical:
		return "categorical"
	case Text:
		return "text"
	case MixedEmpty:
		return "mixed_empty"
	default:
		return "unknown"
	}
}

// A string column is categorical when distinct/total stays below this ratio.
// Fixed constant, not configurable.
const categoricalMaxDistinctRatio = 0.8

// Profile is the per-column summary derived from the sample.
//
// Field presence depends on Kind:
//   - Samples: every kind except MixedEmpty (non-null observed values).
//   - NumMin/NumMax: Numeric only.
//   - TimeMin/TimeMax: Datetime only.
//   - Unique: Categorical only (distinct values in first-seen order).
type Profile struct {
	Kind    Kind
	Samples []any

	NumMin float64
	NumMax float64

	TimeMin time.Time
	TimeMax time.Time

	Unique []any
}

// Columns profiles every column of the sample table.
//
// Per column: nulls are dropped first; if nothing remains the column is
// MixedEmpty. A column is Numeric only when every non-null value is int64 or
// float64, and Datetime only when every non-null value is time.Time. All
// other columns are split into Categorical vs Text by the distinct ratio of
// their rendered values.
func Columns(t *table.Table) map[string]Profile {
	out := make(map[string]Profile, len(t.Columns))
	for _, col := range t.Columns {
		out[col] = profileColumn(t, col)
	}
	return out
}

func profileColumn(t *table.Table, col string) Profile {
	values := make([]any, 0, len(t.Rows))
	for _, r := range t.Rows {
		if v := r[col]; v != nil {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return Profile{Kind: MixedEmpty}
	}

	allNumeric := true
	allTime := true
	for _, v := range values {
		switch v.(type) {
		case int64, float64:
			allTime = false
		case time.Time:
			allNumeric = false
		default:
			allNumeric = false
			allTime = false
		}
	}

	switch {
	case allNumeric:
		p := Profile{Kind: Numeric, Samples: values}
		p.NumMin, p.NumMax = numericRange(values)
		return p

	case allTime:
		p := Profile{Kind: Datetime, Samples: values}
		p.TimeMin, p.TimeMax = timeRange(values)
		return p
	}

	unique := distinctValues(values)
	p := Profile{Samples: values, Unique: unique}
	if float64(len(unique)) < float64(len(values))*categoricalMaxDistinctRatio {
		p.Kind = Categorical
	} else {
		p.Kind = Text
		p.Unique = nil
	}
	return p
}

func numericRange(values []any) (min, max float64) {
	min = asFloat(values[0])
	max = min
	for _, v := range values[1:] {
		f := asFloat(v)
		if f < min {
			min = f
		}
		if f > max {
			max = f
		}
	}
	return min, max
}

func timeRange(values []any) (min, max time.Time) {
	min = values[0].(time.Time)
	max = min
	for _, v := range values[1:] {
		ts := v.(time.Time)
		if ts.Before(min) {
			min = ts
		}
		if ts.After(max) {
			max = ts
		}
	}
	return min, max
}

// distinctValues returns the distinct values in first-seen order, comparing
// by fingerprint so mixed types cannot collide.
func distinctValues(values []any) []any {
	seen := make(map[string]struct{}, len(values))
	out := make([]any, 0, len(values))
	for _, v := range values {
		k := table.FingerprintValue(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}

func asFloat(v any) float64 {
	switch x := v.(type) {
	case int64:
		return float64(x)
	case float64:
		return x
	default:
		return 0
	}
}

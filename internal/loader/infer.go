package loader

import (
	"strconv"
	"strings"
	"time"

	"messygen/internal/table"
)

// cellKind is the loader's internal per-column typing decision. It is
// distinct from profile.Kind: the loader decides how to *parse* strings,
// the profiler decides how to *classify* the resulting values.
type cellKind int

const (
	cellText cellKind = iota
	cellInt
	cellFloat
	cellBool
	cellDate
	cellTimestamp
)

// inferColumnKind picks the most specific kind that every non-empty cell in
// column ci parses as. Columns with no non-empty cells stay text.
func inferColumnKind(rows [][]string, ci int) cellKind {
	var seen bool
	allInt := true
	allFloat := true
	allBool := true
	allDate := true
	allTS := true

	for _, rec := range rows {
		v := strings.TrimSpace(rec[ci])
		if v == "" {
			continue
		}
		seen = true

		if allInt {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				allInt = false
			}
		}
		if allFloat {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				allFloat = false
			}
		}
		if allBool {
			if _, ok := parseBoolLoose(v); !ok {
				allBool = false
			}
		}
		if allDate {
			if _, ok := parseDateLoose(v); !ok {
				allDate = false
			}
		}
		if allTS {
			if _, ok := parseTimestampLoose(v); !ok {
				allTS = false
			}
		}
	}

	if !seen {
		return cellText
	}
	// Prefer more specific kinds.
	switch {
	case allInt:
		return cellInt
	case allBool:
		return cellBool
	case allDate:
		return cellDate
	case allTS:
		return cellTimestamp
	case allFloat:
		return cellFloat
	default:
		return cellText
	}
}

// convertCell parses a raw cell according to the column kind. Empty cells
// are nil. A cell that fails to parse despite the column decision (possible
// only with whitespace oddities) falls back to its string form.
func convertCell(raw string, kind cellKind) any {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil
	}

	switch kind {
	case cellInt:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	case cellFloat:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	case cellBool:
		if b, ok := parseBoolLoose(v); ok {
			return b
		}
	case cellDate:
		if ts, ok := parseDateLoose(v); ok {
			return ts
		}
	case cellTimestamp:
		if ts, ok := parseTimestampLoose(v); ok {
			return ts
		}
	}
	return v
}

func parseBoolLoose(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "yes", "y":
		return true, true
	case "0", "f", "false", "no", "n":
		return false, true
	default:
		return false, false
	}
}

var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"02/01/2006",
	"01/02/2006",
}

var tsLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.000Z07:00",
	"02.01.2006 15:04:05",
}

func parseDateLoose(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, lay := range dateLayouts {
		if t, err := time.Parse(lay, s); err == nil {
			return t, true
		}
	}
	return table.InvalidTime, false
}

func parseTimestampLoose(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, lay := range tsLayouts {
		if t, err := time.Parse(lay, s); err == nil {
			return t, true
		}
	}
	return table.InvalidTime, false
}

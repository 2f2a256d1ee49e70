// Package report computes summary data-quality metrics over a final table.
//
// The report is derived and read-only: shape, exact full-row duplicates,
// per-column null and distinct counts, and an approximate memory footprint
// used only for human-readable diagnostics.
package report

import (
	"time"

	"github.com/google/uuid"

	"messygen/internal/table"
)

// ColumnStats summarizes one column of the analyzed table.
type ColumnStats struct {
	Nulls    int
	NullPct  float64
	Distinct int
}

// Report is the derived quality summary.
type Report struct {
	// RunID uniquely identifies this analysis run in logs and report files.
	RunID string

	Rows         int
	Columns      int
	Duplicates   int
	DuplicatePct float64

	// ColumnOrder preserves table column order for deterministic rendering.
	ColumnOrder []string
	PerColumn   map[string]ColumnStats

	// MemoryBytes is a rough estimate of the table's in-memory size.
	MemoryBytes int64
}

// Analyze computes the quality report for t.
//
// Duplicate counting follows the "all but first occurrence" convention: a
// value appearing m times contributes m-1 duplicates. Nil cells are excluded
// from distinct counts but included in null counts; the invalid-timestamp
// sentinel is a real (non-null) value.
func Analyze(t *table.Table) Report {
	rep := Report{
		RunID:       uuid.NewString(),
		Rows:        len(t.Rows),
		Columns:     len(t.Columns),
		ColumnOrder: append([]string(nil), t.Columns...),
		PerColumn:   make(map[string]ColumnStats, len(t.Columns)),
	}

	seen := make(map[string]struct{}, len(t.Rows))
	for _, r := range t.Rows {
		fp := r.Fingerprint(t.Columns)
		if _, ok := seen[fp]; ok {
			rep.Duplicates++
		} else {
			seen[fp] = struct{}{}
		}
	}
	if rep.Rows > 0 {
		rep.DuplicatePct = float64(rep.Duplicates) / float64(rep.Rows) * 100
	}

	for _, col := range t.Columns {
		rep.PerColumn[col] = analyzeColumn(t, col)
		rep.MemoryBytes += columnBytes(t, col)
	}
	// Row map overhead: one bucket header per cell plus slice headers.
	rep.MemoryBytes += int64(t.CellCount()) * 16

	return rep
}

func analyzeColumn(t *table.Table, col string) ColumnStats {
	st := ColumnStats{}
	distinct := make(map[string]struct{})
	for _, r := range t.Rows {
		v := r[col]
		if v == nil {
			st.Nulls++
			continue
		}
		distinct[table.FingerprintValue(v)] = struct{}{}
	}
	st.Distinct = len(distinct)
	if len(t.Rows) > 0 {
		st.NullPct = float64(st.Nulls) / float64(len(t.Rows)) * 100
	}
	return st
}

// columnBytes estimates the payload size of one column. Deliberately crude:
// fixed widths for scalars, length for strings.
func columnBytes(t *table.Table, col string) int64 {
	var n int64
	for _, r := range t.Rows {
		switch v := r[col].(type) {
		case nil:
			// counted in map overhead only
		case string:
			n += int64(len(v)) + 16
		case time.Time:
			n += 24
		case bool:
			n++
		default:
			n += 8
		}
	}
	return n
}

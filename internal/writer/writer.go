// Package writer persists the generated table and its quality report.
//
// Two artifacts only: a delimited text file with the table and a plain-text
// analysis report. Both are human-oriented; no wire protocol exists.
package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"messygen/internal/report"
	"messygen/internal/table"
)

const timestampLayout = "2006-01-02 15:04:05"

// WriteCSV renders the table with a header row in column order.
//
// Rendering rules: nil and the invalid-timestamp sentinel become empty
// fields; floats use the shortest round-trip form; timestamps use
// "2006-01-02 15:04:05".
func WriteCSV(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	rec := make([]string, len(t.Columns))
	for _, r := range t.Rows {
		for i, col := range t.Columns {
			rec[i] = renderValue(r[col])
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func renderValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.IsZero() {
			return "" // unrepresentable timestamp
		}
		return x.Format(timestampLayout)
	default:
		return fmt.Sprint(v)
	}
}

// WriteReport renders the quality report as a plain-text analysis file.
func WriteReport(w io.Writer, rep report.Report, inputPath, outputPath string) error {
	var err error
	p := func(format string, args ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, format, args...)
	}

	p("Data Quality Analysis Report\n")
	p("==============================\n")
	p("Run id: %s\n", rep.RunID)
	p("Original file: %s\n", inputPath)
	p("Generated file: %s\n", outputPath)
	p("Dataset shape: (%d, %d)\n", rep.Rows, rep.Columns)
	p("Memory usage: %.2f MB\n", float64(rep.MemoryBytes)/(1024*1024))
	p("\nExact duplicates: %d (%.2f%%)\n", rep.Duplicates, rep.DuplicatePct)

	p("\nNull values by column:\n")
	for _, col := range rep.ColumnOrder {
		st := rep.PerColumn[col]
		if st.Nulls == 0 {
			continue
		}
		p("  %s: %d (%.2f%%)\n", col, st.Nulls, st.NullPct)
	}

	p("\nDistinct values by column:\n")
	for _, col := range rep.ColumnOrder {
		p("  %s: %d\n", col, rep.PerColumn[col].Distinct)
	}

	return err
}

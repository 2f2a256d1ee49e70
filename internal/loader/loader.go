// Package loader reads a sample table from a tabular source and produces a
// typed in-memory table.
//
// The loader is responsible for:
//   - Detecting the input format (CSV, JSON, XLSX, HTML table)
//   - Normalizing header names into safe column identifiers
//   - Promoting string cells to int64/float64/bool/time.Time when the whole
//     column parses as that type
//
// Parsing is best-effort: malformed records are skipped rather than failing
// the load. Only boundary errors (unreadable
// file, empty input, zero columns) surface to the caller.
package loader

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"messygen/internal/table"
)

type format int

const (
	formatUnknown format = iota
	formatCSV
	formatJSON
	formatHTML
	formatXLSX
)

// Load reads the file at path, detects its format, and returns a typed table.
func Load(path string) (*table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	ff := sniffFormat(data)
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		ff = formatXLSX
	}

	var t *table.Table
	switch ff {
	case formatCSV:
		t, err = fromCSV(data)
	case formatJSON:
		t, err = fromJSON(data)
	case formatHTML:
		t, err = fromHTML(data)
	case formatXLSX:
		t, err = fromXLSX(data)
	default:
		return nil, fmt.Errorf("load %s: empty or unrecognized input", path)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return t, nil
}

// sniffFormat infers the input format from leading bytes. Heuristic and
// intentionally conservative: markup wins over JSON wins over CSV. XLSX is
// a zip container, recognizable by its magic bytes.
func sniffFormat(sample []byte) format {
	if bytes.HasPrefix(sample, []byte("PK\x03\x04")) {
		return formatXLSX
	}
	trim := bytes.TrimSpace(sample)
	if len(trim) == 0 {
		return formatUnknown
	}
	switch trim[0] {
	case '<':
		return formatHTML
	case '{', '[':
		return formatJSON
	default:
		return formatCSV
	}
}

// FromRecords builds a typed table from a header row and string records.
//
// Records with a field count different from the header are skipped. Headers
// are normalized; duplicates get a numeric suffix. Cell typing is
// all-or-nothing per column: a column becomes int64/bool/time.Time/float64
// only when every non-empty cell parses as that type, otherwise cells stay
// strings. Empty cells become nil in every case.
func FromRecords(headers []string, records [][]string) (*table.Table, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("input has no columns")
	}

	columns := normalizeHeaders(headers)

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		if len(rec) != len(headers) {
			continue
		}
		rows = append(rows, rec)
	}

	t := table.New(columns)
	t.Rows = make([]table.Row, len(rows))
	for i := range t.Rows {
		t.Rows[i] = make(table.Row, len(columns))
	}

	for ci, col := range columns {
		kind := inferColumnKind(rows, ci)
		for ri, rec := range rows {
			t.Rows[ri][col] = convertCell(rec[ci], kind)
		}
	}
	return t, nil
}

// normalizeHeaders maps raw headers to safe column names: BOM stripped, edge
// space trimmed, diacritics folded, lower-cased, spaces replaced with
// underscores. Duplicates are disambiguated with _2, _3, … suffixes and an
// empty header becomes column_<n>.
func normalizeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	used := make(map[string]int, len(headers))
	for i, h := range headers {
		if i == 0 {
			h = strings.TrimPrefix(h, "\uFEFF")
		}
		name := normalizeHeader(h)
		if name == "" {
			name = "column_" + strconv.Itoa(i+1)
		}
		if n := used[name]; n > 0 {
			used[name] = n + 1
			name = name + "_" + strconv.Itoa(n+1)
		}
		used[name]++
		out[i] = name
	}
	return out
}

// foldDiacritics decomposes to NFD, drops combining marks, and recomposes.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func normalizeHeader(h string) string {
	h = strings.TrimSpace(h)
	if folded, _, err := transform.String(foldDiacritics, h); err == nil {
		h = folded
	}
	h = strings.ToLower(h)
	return strings.ReplaceAll(h, " ", "_")
}

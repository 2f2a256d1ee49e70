// Package table defines the in-memory table model shared by every stage of
// the generator.
//
// A Table is a fixed, ordered column list plus a slice of rows. Rows map
// column names to values. Cell values are restricted to a small closed set:
//
//	nil, int64, float64, bool, string, time.Time
//
// The whole table is memory-resident; there is no streaming mode. Corruption
// stages mutate rows in place, so callers that need to preserve an input
// table must Clone() it first.
package table

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// Row maps column name to cell value.
type Row map[string]any

// Clone returns a shallow value copy of the row. Cell values are immutable
// scalars, so a map copy is a full copy.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// InvalidTime is the sentinel for a timestamp that cannot be represented
// (the zero time). Writers render it as an empty field; the reporter does
// not count it as null.
var InvalidTime time.Time

// Table is an ordered collection of rows over a fixed column set.
//
// Invariants:
//   - Columns never changes after construction.
//   - Every row holds a value (possibly nil) for every column; keys outside
//     Columns are ignored by all consumers.
type Table struct {
	Columns []string
	Rows    []Row
}

// New returns an empty table with the given column order.
func New(columns []string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Clone returns a deep copy: new column slice, new row slice, new row maps.
func (t *Table) Clone() *Table {
	out := New(t.Columns)
	out.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}

// Append adds a row to the table. The row is stored as-is, not copied.
func (t *Table) Append(r Row) {
	t.Rows = append(t.Rows, r)
}

// CellCount returns rows × columns.
func (t *Table) CellCount() int {
	return len(t.Rows) * len(t.Columns)
}

// Shuffle permutes row order uniformly at random using rng.
func (t *Table) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(t.Rows), func(i, j int) {
		t.Rows[i], t.Rows[j] = t.Rows[j], t.Rows[i]
	})
}

// Fingerprint returns a canonical string for the row restricted to the given
// columns, suitable for exact-duplicate detection and distinct counting.
//
// Values of different types never collide: each cell is rendered with a type
// tag, and cells are joined with an unprintable separator.
func (r Row) Fingerprint(columns []string) string {
	var b strings.Builder
	for i, c := range columns {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		b.WriteString(FingerprintValue(r[c]))
	}
	return b.String()
}

// FingerprintValue renders a single cell with a type tag. nil maps to the
// empty string so "no value" is distinct from every real value.
func FingerprintValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return "s:" + x
	case int64:
		return "i:" + strconv.FormatInt(x, 10)
	case float64:
		return "f:" + strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return "b:" + strconv.FormatBool(x)
	case time.Time:
		return "t:" + strconv.FormatInt(x.UnixNano(), 10)
	default:
		return "x:" + fmt.Sprint(v)
	}
}

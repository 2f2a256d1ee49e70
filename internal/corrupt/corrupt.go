// Package corrupt injects controlled data-quality defects into an expanded
// table.
//
// Five passes run in a fixed order (duplication, null injection, range
// violation, timestamp violation, text corruption), each operating on the
// output of the previous one. Passes that need a column kind absent from the
// table degrade to no-ops. After the last pass the row order is shuffled so
// injected rows are not clustered at the tail.
//
// Apply works on a private copy; the caller's table is never mutated.
package corrupt

import (
	"math"
	"math/rand"
	"strings"
	"time"

	"messygen/internal/profile"
	"messygen/internal/synth"
	"messygen/internal/table"
)

// Rates are the five independent corruption rates, each in [0,1].
//
// Duplicate, WrongRange, WrongTimestamp and TextCorruption are fractions of
// the current row count; Null is a fraction of the total cell count. Values
// are trusted to be in range; the boundary layer validates them.
type Rates struct {
	Duplicate      float64
	Null           float64
	WrongRange     float64
	WrongTimestamp float64
	TextCorruption float64
}

// DefaultRates mirrors the CLI defaults.
func DefaultRates() Rates {
	return Rates{
		Duplicate:      0.15,
		Null:           0.10,
		WrongRange:     0.08,
		WrongTimestamp: 0.05,
		TextCorruption: 0.05,
	}
}

// Probability that a duplicated row is turned into a near-duplicate by
// mutating one text/categorical cell.
const nearDuplicateProb = 0.3

// PassCounts reports how many cells each overwrite pass actually changed.
// Counts are draws applied, not distinct cells: a cell drawn twice counts
// twice. Duplication is a row-level pass and is not counted here.
type PassCounts struct {
	Nulls           int
	WrongRanges     int
	WrongTimestamps int
	CorruptedText   int
}

// Engine applies corruption passes using column targeting derived from the
// sample profiles. Profiles are read-only here.
type Engine struct {
	profiles map[string]profile.Profile
	rng      *rand.Rand
}

func NewEngine(profiles map[string]profile.Profile, rng *rand.Rand) *Engine {
	return &Engine{profiles: profiles, rng: rng}
}

// Apply runs all five passes plus the final shuffle on a copy of t and
// returns the copy with per-pass overwrite counts. Row count can only grow
// (duplication); columns are untouched.
func (e *Engine) Apply(t *table.Table, rates Rates) (*table.Table, PassCounts) {
	out := t.Clone()

	var counts PassCounts
	e.addDuplicates(out, rates.Duplicate)
	counts.Nulls = e.injectNulls(out, rates.Null)
	counts.WrongRanges = e.violateRanges(out, rates.WrongRange)
	counts.WrongTimestamps = e.violateTimestamps(out, rates.WrongTimestamp)
	counts.CorruptedText = e.corruptText(out, rates.TextCorruption)

	out.Shuffle(e.rng)
	return out, counts
}

// columnsOfKind returns table columns (in column order) whose profile kind is
// one of the given kinds.
func (e *Engine) columnsOfKind(t *table.Table, kinds ...profile.Kind) []string {
	var out []string
	for _, col := range t.Columns {
		k := e.profiles[col].Kind
		for _, want := range kinds {
			if k == want {
				out = append(out, col)
				break
			}
		}
	}
	return out
}

// drawOverwrite performs n independent (row, column) draws and overwrites the
// chosen cell when next approves, returning the number of overwrites applied.
// The row index and the column are drawn independently; repeated picks of the
// same cell simply overwrite again.
//
// This is the shared shape of passes 2–5: only the eligible column pool and
// the candidate-value function differ.
func (e *Engine) drawOverwrite(t *table.Table, n int, pool []string, next func(col string, cur any) (any, bool)) int {
	if n <= 0 || len(pool) == 0 || len(t.Rows) == 0 {
		return 0
	}
	applied := 0
	for i := 0; i < n; i++ {
		row := t.Rows[e.rng.Intn(len(t.Rows))]
		col := pool[e.rng.Intn(len(pool))]
		if v, ok := next(col, row[col]); ok {
			row[col] = v
			applied++
		}
	}
	return applied
}

// addDuplicates appends floor(rows × rate) copies of uniformly drawn rows
// (with replacement). Each copy has a 30% chance of becoming a near-duplicate:
// one random text/categorical cell is superficially altered.
func (e *Engine) addDuplicates(t *table.Table, rate float64) {
	k := int(float64(len(t.Rows)) * rate)
	if k <= 0 || len(t.Rows) == 0 {
		return
	}

	textCols := e.columnsOfKind(t, profile.Text, profile.Categorical)

	copies := make([]table.Row, 0, k)
	for i := 0; i < k; i++ {
		dup := t.Rows[e.rng.Intn(len(t.Rows))].Clone()
		if e.rng.Float64() < nearDuplicateProb && len(textCols) > 0 {
			col := textCols[e.rng.Intn(len(textCols))]
			if s, ok := dup[col].(string); ok {
				dup[col] = e.nearDuplicateVariant(s)
			}
		}
		copies = append(copies, dup)
	}
	t.Rows = append(t.Rows, copies...)
}

func (e *Engine) nearDuplicateVariant(s string) string {
	switch e.rng.Intn(4) {
	case 0:
		return s + " "
	case 1:
		return strings.ToUpper(s)
	case 2:
		return strings.ToLower(s)
	default:
		return strings.ReplaceAll(s, " ", "")
	}
}

// injectNulls sets floor(cells × rate) randomly chosen cells to nil, where
// the cell count is taken before this pass. Text/categorical columns are
// three times as likely to be hit as other columns. Collisions on the same
// cell are allowed, so the realized null count may undershoot.
func (e *Engine) injectNulls(t *table.Table, rate float64) int {
	n := int(float64(t.CellCount()) * rate)

	pool := make([]string, 0, 3*len(t.Columns))
	for _, col := range t.Columns {
		switch e.profiles[col].Kind {
		case profile.Text, profile.Categorical:
			pool = append(pool, col, col, col)
		default:
			pool = append(pool, col)
		}
	}

	return e.drawOverwrite(t, n, pool, func(string, any) (any, bool) {
		return nil, true
	})
}

// violateRanges overwrites floor(rows × rate) numeric cells with values from
// a fixed out-of-range candidate set derived from the column's own profile.
// A table without numeric columns makes this a no-op.
func (e *Engine) violateRanges(t *table.Table, rate float64) int {
	n := int(float64(len(t.Rows)) * rate)
	numericCols := e.columnsOfKind(t, profile.Numeric)

	return e.drawOverwrite(t, n, numericCols, func(col string, _ any) (any, bool) {
		p := e.profiles[col]
		span := math.Abs(p.NumMax - p.NumMin)
		edge := float64(-1)
		if p.NumMin > 0 {
			edge = 0
		}
		candidates := []float64{
			p.NumMin - span,
			p.NumMax + span,
			-999999,
			999999,
			edge,
		}
		return candidates[e.rng.Intn(len(candidates))], true
	})
}

// violateTimestamps overwrites floor(rows × rate) datetime cells with one of
// a fixed set of wrong dates: too old, future, unrepresentable, epoch.
func (e *Engine) violateTimestamps(t *table.Table, rate float64) int {
	n := int(float64(len(t.Rows)) * rate)
	datetimeCols := e.columnsOfKind(t, profile.Datetime)

	candidates := []time.Time{
		time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC),
		table.InvalidTime,
		time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	return e.drawOverwrite(t, n, datetimeCols, func(string, any) (any, bool) {
		return candidates[e.rng.Intn(len(candidates))], true
	})
}

// corruptText mangles floor(rows × rate) text/categorical cells. Draws that
// land on a non-string or empty cell are left untouched.
func (e *Engine) corruptText(t *table.Table, rate float64) int {
	n := int(float64(len(t.Rows)) * rate)
	textCols := e.columnsOfKind(t, profile.Text, profile.Categorical)

	return e.drawOverwrite(t, n, textCols, func(_ string, cur any) (any, bool) {
		s, ok := cur.(string)
		if !ok || s == "" {
			return nil, false
		}
		return e.textCorruption(s), true
	})
}

func (e *Engine) textCorruption(s string) string {
	switch e.rng.Intn(8) {
	case 0:
		return strings.ToUpper(s)
	case 1:
		return strings.ToLower(s)
	case 2:
		return s + "???"
	case 3:
		first := string([]rune(s)[0])
		return strings.ReplaceAll(s, first, "X")
	case 4:
		return reverse(s)
	case 5:
		return s + s
	case 6:
		return ""
	default:
		return synth.RandomAlphaNum(e.rng, len([]rune(s)))
	}
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

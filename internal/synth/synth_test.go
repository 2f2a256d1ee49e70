package synth

import (
	"math/rand"
	"regexp"
	"strings"
	"testing"
	"time"
	"unicode"

	"messygen/internal/profile"
)

func TestValueMixedEmptyAlwaysNil(t *testing.T) {
	t.Parallel()

	s := New(rand.New(rand.NewSource(1)))
	for i := 0; i < 100; i++ {
		if v := s.Value(profile.Profile{Kind: profile.MixedEmpty}); v != nil {
			t.Fatalf("mixed-empty draw %d = %v, want nil", i, v)
		}
	}
}

func TestValueEmptySamplesYieldNil(t *testing.T) {
	t.Parallel()

	s := New(rand.New(rand.NewSource(1)))
	if v := s.Value(profile.Profile{Kind: profile.Numeric}); v != nil {
		t.Fatalf("numeric profile without samples = %v, want nil", v)
	}
}

func TestValueNumericStaysInRange(t *testing.T) {
	t.Parallel()

	p := profile.Profile{
		Kind:    profile.Numeric,
		Samples: []any{int64(10), int64(20), 15.5},
		NumMin:  10,
		NumMax:  20,
	}

	s := New(rand.New(rand.NewSource(42)))
	sawFloat := false
	for i := 0; i < 2000; i++ {
		var f float64
		switch v := s.Value(p).(type) {
		case int64:
			f = float64(v)
		case float64:
			f = v
			sawFloat = true
		default:
			t.Fatalf("draw %d has type %T, want int64 or float64", i, v)
		}
		if f < 10 || f > 20 {
			t.Fatalf("draw %d = %v outside [10, 20]", i, f)
		}
	}
	if !sawFloat {
		t.Fatal("no interpolated draw in 2000 attempts")
	}
}

func TestValueDatetimeStaysInRange(t *testing.T) {
	t.Parallel()

	lo := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	hi := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	p := profile.Profile{
		Kind:    profile.Datetime,
		Samples: []any{lo, hi},
		TimeMin: lo,
		TimeMax: hi,
	}

	s := New(rand.New(rand.NewSource(42)))
	for i := 0; i < 2000; i++ {
		ts, ok := s.Value(p).(time.Time)
		if !ok {
			t.Fatalf("draw %d is not a time.Time", i)
		}
		if ts.Before(lo) || ts.After(hi) {
			t.Fatalf("draw %d = %v outside [%v, %v]", i, ts, lo, hi)
		}
	}
}

func TestValueCategoricalDrawsFromUnique(t *testing.T) {
	t.Parallel()

	p := profile.Profile{
		Kind:    profile.Categorical,
		Samples: []any{"red", "red", "red", "blue"},
		Unique:  []any{"red", "blue"},
	}

	s := New(rand.New(rand.NewSource(3)))
	counts := map[any]int{}
	for i := 0; i < 1000; i++ {
		v := s.Value(p)
		if v != "red" && v != "blue" {
			t.Fatalf("draw %d = %v, want red or blue", i, v)
		}
		counts[v]++
	}
	// Uniform over distinct values, not over the skewed samples.
	if counts["blue"] < 300 {
		t.Fatalf("blue drawn %d/1000 times, want roughly uniform", counts["blue"])
	}
}

func TestTextVariationShapes(t *testing.T) {
	t.Parallel()

	const orig = "Acme Widgets"
	suffixed := regexp.MustCompile(`^Acme Widgets( Jr| Sr| II| Inc| LLC)$`)
	numbered := regexp.MustCompile(`^Acme Widgets[1-9][0-9]{0,2}$`)

	isLetters := func(s string) bool {
		for _, r := range s {
			if !unicode.IsLetter(r) {
				return false
			}
		}
		return s != ""
	}

	s := New(rand.New(rand.NewSource(11)))
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		got, ok := s.textVariation(orig).(string)
		if !ok {
			t.Fatalf("variation %d is not a string", i)
		}
		switch {
		case numbered.MatchString(got):
			seen["number"] = true
		case got == "Acme_Widgets":
			seen["underscore"] = true
		case suffixed.MatchString(got):
			seen["suffix"] = true
		case len([]rune(got)) == len([]rune(orig)) && isLetters(strings.ReplaceAll(got, " ", "x")) && got != orig:
			seen["scramble"] = true
		default:
			t.Fatalf("variation %d = %q matches no known shape", i, got)
		}
	}
	for _, shape := range []string{"number", "underscore", "suffix", "scramble"} {
		if !seen[shape] {
			t.Fatalf("shape %q never produced in 500 draws", shape)
		}
	}
}

func TestTextVariationPassesThroughNonStrings(t *testing.T) {
	t.Parallel()

	s := New(rand.New(rand.NewSource(1)))
	if v := s.textVariation(int64(5)); v != int64(5) {
		t.Fatalf("non-string variation = %v, want passthrough", v)
	}
	if v := s.textVariation(""); v != "" {
		t.Fatalf("empty-string variation = %q, want passthrough", v)
	}
}

func TestRandomAlphaNumLengthAndAlphabet(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(5))
	for _, n := range []int{0, 1, 8, 64} {
		got := RandomAlphaNum(rng, n)
		if len(got) != n {
			t.Fatalf("len = %d, want %d", len(got), n)
		}
		for _, r := range got {
			if !strings.ContainsRune(asciiAlphaNum, r) {
				t.Fatalf("unexpected rune %q in %q", r, got)
			}
		}
	}
}

func TestExpandRowAndColumnShape(t *testing.T) {
	t.Parallel()

	profiles := map[string]profile.Profile{
		"id":   {Kind: profile.Numeric, Samples: []any{int64(1), int64(2)}, NumMin: 1, NumMax: 2},
		"name": {Kind: profile.Text, Samples: []any{"a", "b"}},
		"gap":  {Kind: profile.MixedEmpty},
	}
	columns := []string{"id", "name", "gap"}

	got := Expand(profiles, columns, 50, rand.New(rand.NewSource(9)))
	if len(got.Rows) != 50 {
		t.Fatalf("rows = %d, want 50", len(got.Rows))
	}
	for i, r := range got.Rows {
		if len(r) != 3 {
			t.Fatalf("row %d has %d cells, want 3", i, len(r))
		}
		if r["gap"] != nil {
			t.Fatalf("row %d gap = %v, want nil", i, r["gap"])
		}
	}
	if len(got.Columns) != 3 {
		t.Fatalf("columns = %v, want 3 entries", got.Columns)
	}
}

func TestExpandZeroTarget(t *testing.T) {
	t.Parallel()

	got := Expand(nil, []string{"a"}, 0, rand.New(rand.NewSource(1)))
	if len(got.Rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(got.Rows))
	}
}

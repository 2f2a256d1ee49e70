// Package synth generates plausible new values from column profiles and
// expands a profile map into a synthetic table.
//
// Resampling (uniform over raw observed values) preserves sample frequency;
// interpolation (uniform over the observed min..max range) can produce values
// never seen in the sample. Categorical columns deliberately resample
// uniformly over *distinct* values, ignoring original frequency, so rare
// categories show up more often.
package synth

import (
	"math/rand"
	"strconv"
	"strings"
	"time"

	"messygen/internal/profile"
	"messygen/internal/table"
)

// How often a numeric/datetime draw resamples an observed value instead of
// interpolating, and how often a text draw returns a verbatim sample instead
// of a variation.
const (
	resampleProb     = 0.7
	verbatimTextProb = 0.8
)

// Synthesizer produces single values from column profiles. All randomness
// comes from the injected rng, so a seeded source gives reproducible output.
type Synthesizer struct {
	rng *rand.Rand
}

func New(rng *rand.Rand) *Synthesizer {
	return &Synthesizer{rng: rng}
}

// Value synthesizes one value for a column with the given profile.
//
// MixedEmpty columns always yield nil. Every other kind resamples or
// interpolates as described in the package comment. A profile with no
// samples yields nil regardless of kind.
func (s *Synthesizer) Value(p profile.Profile) any {
	if p.Kind == profile.MixedEmpty || len(p.Samples) == 0 {
		return nil
	}

	switch p.Kind {
	case profile.Numeric:
		if s.rng.Float64() < resampleProb {
			return s.resample(p.Samples)
		}
		return p.NumMin + s.rng.Float64()*(p.NumMax-p.NumMin)

	case profile.Datetime:
		if s.rng.Float64() < resampleProb {
			return s.resample(p.Samples)
		}
		// Uniform instant via elapsed time, so intra-day results are possible
		// even when the samples are whole dates.
		span := p.TimeMax.Sub(p.TimeMin)
		return p.TimeMin.Add(time.Duration(s.rng.Float64() * float64(span)))

	case profile.Categorical:
		if len(p.Unique) == 0 {
			return s.resample(p.Samples)
		}
		return p.Unique[s.rng.Intn(len(p.Unique))]

	case profile.Text:
		v := s.resample(p.Samples)
		if s.rng.Float64() < verbatimTextProb {
			return v
		}
		return s.textVariation(v)

	default:
		return s.resample(p.Samples)
	}
}

func (s *Synthesizer) resample(samples []any) any {
	return samples[s.rng.Intn(len(samples))]
}

// textVariation returns a superficially altered copy of a sampled text value.
// Non-string or empty inputs are returned unchanged.
func (s *Synthesizer) textVariation(v any) any {
	orig, ok := v.(string)
	if !ok || orig == "" {
		return v
	}

	switch s.rng.Intn(4) {
	case 0:
		return orig + strconv.Itoa(1+s.rng.Intn(999))
	case 1:
		return strings.ReplaceAll(orig, " ", "_")
	case 2:
		suffixes := []string{" Jr", " Sr", " II", " Inc", " LLC"}
		return orig + suffixes[s.rng.Intn(len(suffixes))]
	default:
		return randomLetters(s.rng, len([]rune(orig)))
	}
}

const (
	asciiLetters  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	asciiAlphaNum = asciiLetters + "0123456789"
)

func randomLetters(rng *rand.Rand, n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(asciiLetters[rng.Intn(len(asciiLetters))])
	}
	return b.String()
}

// RandomAlphaNum returns a random alphanumeric string of length n. Shared
// with the corruption stage's same-length scramble transform.
func RandomAlphaNum(rng *rand.Rand, n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(asciiAlphaNum[rng.Intn(len(asciiAlphaNum))])
	}
	return b.String()
}

// Expand builds a table of exactly targetRows rows over the given column
// order, synthesizing every cell independently from its column profile.
// No cross-column correlation is modeled.
func Expand(profiles map[string]profile.Profile, columns []string, targetRows int, rng *rand.Rand) *table.Table {
	s := New(rng)
	t := table.New(columns)
	if targetRows <= 0 {
		return t
	}
	t.Rows = make([]table.Row, 0, targetRows)
	for i := 0; i < targetRows; i++ {
		r := make(table.Row, len(columns))
		for _, col := range columns {
			r[col] = s.Value(profiles[col])
		}
		t.Append(r)
	}
	return t
}

// Package pipeline wires the generator stages into one linear run:
// profile → expand → corrupt → shuffle → report.
//
// The pipeline is single-threaded and memory-resident; it runs to completion
// or fails outright. All randomness comes from the caller's rng.
package pipeline

import (
	"fmt"
	"math/rand"
	"time"

	"messygen/internal/corrupt"
	"messygen/internal/metrics"
	"messygen/internal/profile"
	"messygen/internal/report"
	"messygen/internal/synth"
	"messygen/internal/table"
)

// Params are the six knobs of a run, mirroring the CLI flags.
type Params struct {
	TargetRows int
	Rates      corrupt.Rates
}

// Result bundles the run artifacts.
type Result struct {
	Table    *table.Table
	Report   report.Report
	Profiles map[string]profile.Profile
}

// Run executes the full pipeline over the sample table.
//
// The sample must have at least one column; an empty row set is allowed
// (every column profiles as mixed-empty and synthesizes nulls). The sample
// itself is never mutated.
func Run(sample *table.Table, p Params, rng *rand.Rand) (Result, error) {
	if len(sample.Columns) == 0 {
		return Result{}, fmt.Errorf("sample table has no columns")
	}

	profiles := step("profile", func() map[string]profile.Profile {
		return profile.Columns(sample)
	})

	expanded := step("expand", func() *table.Table {
		return synth.Expand(profiles, sample.Columns, p.TargetRows, rng)
	})
	metrics.IncCounter("messygen_rows_total", float64(len(expanded.Rows)), metrics.Labels{"kind": "expanded"})

	var passCounts corrupt.PassCounts
	messy := step("corrupt", func() *table.Table {
		eng := corrupt.NewEngine(profiles, rng)
		out, counts := eng.Apply(expanded, p.Rates)
		passCounts = counts
		return out
	})
	metrics.IncCounter("messygen_rows_total", float64(len(messy.Rows)-len(expanded.Rows)), metrics.Labels{"kind": "duplicated"})
	metrics.IncCounter("messygen_rows_total", float64(len(messy.Rows)), metrics.Labels{"kind": "final"})
	for pass, n := range map[string]int{
		"nulls":            passCounts.Nulls,
		"wrong_ranges":     passCounts.WrongRanges,
		"wrong_timestamps": passCounts.WrongTimestamps,
		"text_corruption":  passCounts.CorruptedText,
	} {
		metrics.IncCounter("messygen_cells_corrupted_total", float64(n), metrics.Labels{"pass": pass})
	}

	rep := step("report", func() report.Report {
		return report.Analyze(messy)
	})

	return Result{Table: messy, Report: rep, Profiles: profiles}, nil
}

// step times a stage and records step metrics. Stages cannot fail mid-run
// by design; boundary errors are handled before and after the pipeline.
func step[T any](name string, fn func() T) T {
	start := time.Now()
	out := fn()
	secs := time.Since(start).Seconds()
	metrics.IncCounter("messygen_step_total", 1, metrics.Labels{"step": name, "status": "ok"})
	metrics.ObserveHistogram("messygen_step_duration_seconds", secs, metrics.Labels{"step": name, "status": "ok"})
	return out
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"messygen/internal/config"
	"messygen/internal/corrupt"
	"messygen/internal/loader"
	"messygen/internal/metrics"
	"messygen/internal/metrics/datadog"
	"messygen/internal/pipeline"
	"messygen/internal/storage"
	"messygen/internal/writer"

	// register all storage backends with the factory.
	_ "messygen/internal/storage/all"
)

// main is the entry point for the messygen binary. It loads the clean sample
// table, runs the generation pipeline, writes the messy CSV plus the quality
// report, and optionally sinks the table into a database.
func main() {
	var (
		inputPath  string
		outputPath string
		reportPath string

		rows            int
		duplicateRate   float64
		nullRate        float64
		wrongRangeRate  float64
		wrongTSRate     float64
		textCorruptRate float64

		seed int64

		metricsBackendFlg string
		storageKind       string
		storageDSN        string
		storageTable      string
	)

	flag.StringVar(&inputPath, "input", "", "input sample file (CSV, JSON, XLSX, or HTML table)")
	flag.StringVar(&outputPath, "output", "messy_data.csv", "output CSV path")
	flag.StringVar(&reportPath, "report", "", "analysis report path (default: <output>_analysis.txt)")
	flag.IntVar(&rows, "rows", 10000, "target number of rows before corruption")
	flag.Float64Var(&duplicateRate, "duplicates", 0.15, "duplicate rate (0-1)")
	flag.Float64Var(&nullRate, "nulls", 0.10, "null rate (0-1)")
	flag.Float64Var(&wrongRangeRate, "wrong-ranges", 0.08, "wrong range rate (0-1)")
	flag.Float64Var(&wrongTSRate, "wrong-timestamps", 0.05, "wrong timestamp rate (0-1)")
	flag.Float64Var(&textCorruptRate, "text-corruption", 0.05, "text corruption rate (0-1)")
	flag.Int64Var(&seed, "seed", 0, "random seed (0 = time-based, non-deterministic)")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend (datadog, none)")
	flag.StringVar(&storageKind, "storage-kind", "", "optional DB sink kind (sqlite, postgres, mssql)")
	flag.StringVar(&storageDSN, "storage-dsn", "", "DB sink DSN")
	flag.StringVar(&storageTable, "storage-table", "", "DB sink table name (default: messy_data)")
	verbose := flag.Bool("v", false, "enable verbose logs")
	flag.Parse()

	if inputPath == "" && flag.NArg() > 0 {
		inputPath = flag.Arg(0)
	}
	if inputPath == "" {
		fatalf("missing input file (use -input or a positional argument)")
	}
	if reportPath == "" {
		reportPath = deriveReportPath(outputPath)
	}

	if rows <= 0 {
		fatalf("rows must be positive, got %d", rows)
	}
	rates := corrupt.Rates{
		Duplicate:      duplicateRate,
		Null:           nullRate,
		WrongRange:     wrongRangeRate,
		WrongTimestamp: wrongTSRate,
		TextCorruption: textCorruptRate,
	}
	for name, r := range map[string]float64{
		"duplicates":       rates.Duplicate,
		"nulls":            rates.Null,
		"wrong-ranges":     rates.WrongRange,
		"wrong-timestamps": rates.WrongTimestamp,
		"text-corruption":  rates.TextCorruption,
	} {
		if r < 0 || r > 1 {
			fatalf("%s must be in [0,1], got %g", name, r)
		}
	}

	env, err := config.FromEnv()
	if err != nil {
		fatalf("config: %v", err)
	}

	// Decide metrics backend: flag → env → default (none).
	backendName := metricsBackendFlg
	if backendName == "" {
		backendName = env.MetricsBackend
	}
	switch backendName {
	case "datadog":
		b, err := datadog.NewBackend(context.Background(), datadog.Options{
			JobName: "messygen",
			Tags:    datadog.ParseTagsCSV(env.MetricsTags),
		})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
		} else {
			metrics.SetBackend(b)
			defer func() {
				if err := b.Close(); err != nil {
					log.Printf("metrics: datadog close/flush error: %v", err)
				}
			}()
		}
	case "", "none":
		// metrics disabled; nop backend remains
	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	start := time.Now()

	sample, err := loader.Load(inputPath)
	if err != nil {
		fatalf("%v", err)
	}
	log.Printf("loaded %d rows, %d columns from %s", len(sample.Rows), len(sample.Columns), inputPath)

	if *verbose {
		log.Printf("generating messy dataset with %d rows (seed=%d)...", rows, seed)
	}

	res, err := pipeline.Run(sample, pipeline.Params{TargetRows: rows, Rates: rates}, rng)
	if err != nil {
		fatalf("generate: %v", err)
	}
	log.Printf("generated dataset: %d rows", len(res.Table.Rows))

	// Push run counters out before the write phase; Close flushes whatever
	// the writers add afterwards.
	if err := metrics.Flush(); err != nil {
		log.Printf("metrics: flush error: %v", err)
	}

	if err := writeFile(outputPath, func(f *os.File) error {
		return writer.WriteCSV(f, res.Table)
	}); err != nil {
		fatalf("write output %s: %v", outputPath, err)
	}
	log.Printf("messy data saved to: %s", outputPath)

	if err := writeFile(reportPath, func(f *os.File) error {
		return writer.WriteReport(f, res.Report, inputPath, outputPath)
	}); err != nil {
		fatalf("write report %s: %v", reportPath, err)
	}
	log.Printf("analysis report saved to: %s", reportPath)

	// Optional DB sink: flag → env.
	kind := storageKind
	if kind == "" {
		kind = env.StorageKind
	}
	if kind != "" {
		dsn := storageDSN
		if dsn == "" {
			dsn = env.StorageDSN
		}
		tableName := storageTable
		if tableName == "" {
			tableName = env.StorageTable
		}
		if tableName == "" {
			tableName = "messy_data"
		}

		if err := sinkToStorage(context.Background(), kind, dsn, tableName, res); err != nil {
			fatalf("storage sink: %v", err)
		}
		log.Printf("messy data inserted into %s table %s", kind, tableName)
	}

	if *verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}

func sinkToStorage(ctx context.Context, kind, dsn, tableName string, res pipeline.Result) error {
	repo, err := storage.New(ctx, storage.Config{Kind: kind, DSN: dsn})
	if err != nil {
		return err
	}
	defer repo.Close()

	spec := storage.SpecFromProfiles(tableName, res.Table.Columns, res.Profiles)
	if err := repo.EnsureTable(ctx, spec); err != nil {
		return err
	}
	_, err = repo.InsertRows(ctx, tableName, res.Table.Columns, storage.InsertArgs(res.Table))
	return err
}

func writeFile(path string, fn func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func deriveReportPath(outputPath string) string {
	if strings.HasSuffix(outputPath, ".csv") {
		return strings.TrimSuffix(outputPath, ".csv") + "_analysis.txt"
	}
	return outputPath + "_analysis.txt"
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}

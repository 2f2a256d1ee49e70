// Package storage persists a generated table to a relational backend.
//
// Backends register themselves by kind; the CLI blank-imports storage/all to
// pull every backend in. The interface is intentionally minimal: the
// generator only ever creates one table and bulk-inserts rows into it.
package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"messygen/internal/profile"
	"messygen/internal/table"
)

// Config selects and connects a backend.
//
// Kind must match a registered backend ("sqlite", "postgres", "mssql").
// DSN validation is backend-specific.
type Config struct {
	Kind string
	DSN  string
}

// ColType is the backend-independent column type. Each backend maps it to
// its own SQL type.
type ColType int

const (
	ColText ColType = iota
	ColFloat
	ColTimestamp
)

type ColumnSpec struct {
	Name string
	Type ColType
}

type TableSpec struct {
	Name    string
	Columns []ColumnSpec
}

// Repository is the minimal sink interface for the generated table.
type Repository interface {
	// Close releases backend resources. Call once at shutdown.
	Close()

	// EnsureTable creates the destination table if it does not exist.
	EnsureTable(ctx context.Context, spec TableSpec) error

	// InsertRows bulk-inserts rows aligned to columns and returns the number
	// of rows written.
	InsertRows(ctx context.Context, tableName string, columns []string, rows [][]any) (int64, error)
}

type factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]factory{}
)

// Register registers a backend under a kind. Called from backend init()
// functions. Panics on empty kind, nil factory, or duplicate registration,
// to fail fast on ambiguous backend selection.
func Register(kind string, f factory) {
	mu.Lock()
	defer mu.Unlock()

	if kind == "" {
		panic("storage: Register called with empty kind")
	}
	if f == nil {
		panic("storage: Register called with nil factory")
	}
	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("storage: factory already registered for kind=%q", kind))
	}
	factories[kind] = f
}

// New constructs a Repository for the configured backend kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	if cfg.Kind == "" {
		return nil, fmt.Errorf("storage: missing kind")
	}

	mu.RLock()
	f := factories[cfg.Kind]
	mu.RUnlock()

	if f == nil {
		return nil, fmt.Errorf("unsupported storage kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// SpecFromProfiles derives the destination table spec from column profiles.
// Numeric columns get a float type because corruption can replace integers
// with interpolated or out-of-range floats; everything non-temporal and
// non-numeric is text.
func SpecFromProfiles(name string, columns []string, profiles map[string]profile.Profile) TableSpec {
	spec := TableSpec{Name: name, Columns: make([]ColumnSpec, 0, len(columns))}
	for _, col := range columns {
		ct := ColText
		switch profiles[col].Kind {
		case profile.Numeric:
			ct = ColFloat
		case profile.Datetime:
			ct = ColTimestamp
		}
		spec.Columns = append(spec.Columns, ColumnSpec{Name: col, Type: ct})
	}
	return spec
}

// InsertArgs flattens the table into driver-ready rows aligned to
// t.Columns. The invalid-timestamp sentinel becomes NULL; every other value
// passes through as-is.
func InsertArgs(t *table.Table) [][]any {
	out := make([][]any, len(t.Rows))
	for i, r := range t.Rows {
		args := make([]any, len(t.Columns))
		for j, col := range t.Columns {
			v := r[col]
			if ts, ok := v.(time.Time); ok && ts.IsZero() {
				v = nil
			}
			args[j] = v
		}
		out[i] = args
	}
	return out
}

// Package mssql implements the storage.Repository sink for Microsoft SQL
// Server via database/sql.
//
// This package does not blank-import a driver; storage/all registers the
// "sqlserver" driver alongside the backend factories.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"messygen/internal/storage"
)

type Repo struct {
	db *sql.DB
}

func init() {
	storage.Register("mssql", New)
}

func New(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repo{db: db}, nil
}

func (r *Repo) Close() { _ = r.db.Close() }

func (r *Repo) EnsureTable(ctx context.Context, spec storage.TableSpec) error {
	ddl, err := buildCreateTableSQL(spec)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", spec.Name, err)
	}
	return nil
}

func (r *Repo) InsertRows(ctx context.Context, tableName string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(sqlIdent(tableName))
	b.WriteString(" (")
	for i, c := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(sqlIdent(c))
	}
	b.WriteString(") VALUES (")
	for i := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("@p" + strconv.Itoa(i+1))
	}
	b.WriteString(")")

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	stmt, err := tx.PrepareContext(ctx, b.String())
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	defer stmt.Close()

	var inserted int64
	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("insert into %s: %w", tableName, err)
		}
		inserted++
	}
	return inserted, tx.Commit()
}

func sqlIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}

func buildCreateTableSQL(spec storage.TableSpec) (string, error) {
	if strings.TrimSpace(spec.Name) == "" {
		return "", fmt.Errorf("table name is empty")
	}

	var b strings.Builder
	b.WriteString("IF OBJECT_ID(N'")
	b.WriteString(strings.ReplaceAll(spec.Name, "'", "''"))
	b.WriteString("', N'U') IS NULL CREATE TABLE ")
	b.WriteString(sqlIdent(spec.Name))
	b.WriteString(" (")
	for i, c := range spec.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(sqlIdent(c.Name))
		switch c.Type {
		case storage.ColFloat:
			b.WriteString(" FLOAT")
		case storage.ColTimestamp:
			b.WriteString(" DATETIME2")
		default:
			b.WriteString(" NVARCHAR(MAX)")
		}
	}
	b.WriteString(")")
	return b.String(), nil
}

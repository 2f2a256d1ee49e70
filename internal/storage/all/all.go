// Package all registers every storage backend with the factory, plus the
// SQL Server driver used by the mssql backend. Binaries blank-import this
// package; config selects which backend actually runs.
package all

import (
	_ "github.com/microsoft/go-mssqldb"

	_ "messygen/internal/storage/mssql"
	_ "messygen/internal/storage/postgres"
	_ "messygen/internal/storage/sqlite"
)

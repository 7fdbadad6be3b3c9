package source

import (
	// Registers the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
	// Registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

// Driver names accepted by NewSQL.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

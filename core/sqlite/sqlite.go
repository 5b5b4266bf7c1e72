// Package sqlite opens the SQLite Bible modules read by the corpus package.
//
// Build modes:
//   - Default: pure Go modernc.org/sqlite, registered as "sqlite"
//   - -tags cgo_sqlite (CGO_ENABLED=1): mattn/go-sqlite3, registered as "sqlite3"
//
// Use Open instead of sql.Open so the driver matching the build is used.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// DriverName returns the SQL driver name registered by this build.
func DriverName() string {
	return driverName
}

// DriverType returns "cgo" for mattn/go-sqlite3 and "purego" for modernc.org/sqlite.
func DriverType() string {
	return driverType
}

// IsCGO returns true if the CGO implementation is being used.
func IsCGO() bool {
	return driverType == "cgo"
}

// Open opens a SQLite database using the driver selected at build time.
func Open(dataSourceName string) (*sql.DB, error) {
	return sql.Open(driverName, dataSourceName)
}

// OpenReadOnly opens a SQLite database file in read-only mode.
func OpenReadOnly(path string) (*sql.DB, error) {
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	return Open(path + "?mode=ro")
}

// TableExists reports whether the database has a table with the given name.
func TableExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("sqlite: lookup table %s: %w", name, err)
	}
	return n > 0, nil
}

// Info contains information about the SQLite driver configuration.
type Info struct {
	DriverName string `json:"driver_name"`
	DriverType string `json:"driver_type"`
	IsCGO      bool   `json:"is_cgo"`
	Package    string `json:"package"`
}

// GetInfo returns information about the current SQLite configuration.
func GetInfo() Info {
	return Info{
		DriverName: driverName,
		DriverType: driverType,
		IsCGO:      IsCGO(),
		Package:    driverPackage,
	}
}

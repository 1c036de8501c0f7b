package database

import (
	"path/filepath"
	"strings"
)

// Driver names a database backend.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// DetectDriver picks the backend for a DATABASE_URL. An empty URL selects the
// local SQLite file; anything not recognizably SQLite is treated as PostgreSQL.
func DetectDriver(url string) Driver {
	if url == "" {
		return DriverSQLite
	}
	if scheme, _, ok := strings.Cut(url, "://"); ok {
		switch strings.ToLower(scheme) {
		case "sqlite", "file":
			return DriverSQLite
		}
		return DriverPostgres
	}
	if strings.HasPrefix(url, "file:") {
		return DriverSQLite
	}
	switch strings.ToLower(filepath.Ext(url)) {
	case ".db", ".sqlite", ".sqlite3":
		return DriverSQLite
	}
	return DriverPostgres
}

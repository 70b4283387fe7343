// Package database handles database connections and schema inspection.
//
// It wraps GORM to configure either a MySQL connection (production) or a SQLite
// database (local runs and tests) from the application's configuration.
//
// # Connect
//
// Connect opens the configured driver, tunes the connection pool and pings the
// database before returning. In-memory SQLite databases are pinned to a single
// connection so every query sees the same database. File databases run in WAL mode
// with a busy timeout and a small pool, so searches proceed while a sync transaction
// is open.
//
// # Schema Inspection
//
// GetTableColumns lists a table's columns through the dialect's migrator. The
// directory store uses it to verify that the ffl_records table carries every column
// the gateway writes, at least as wide as the model declares.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "ffl_records")
package database

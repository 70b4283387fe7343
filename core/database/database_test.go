package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	t.Run("Invalid Connection", func(t *testing.T) {
		cfg := Config{
			Host:           "localhost",
			Port:           9999, // Unused port
			User:           "root",
			Password:       "wrongpassword",
			Name:           "ffl_directory",
			Driver:         DriverMySQL,
			TimeoutSeconds: 1,
		}

		db, err := Connect(cfg)
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("Unsupported Driver", func(t *testing.T) {
		db, err := Connect(Config{Driver: "oracle"})
		assert.EqualError(t, err, "unsupported database driver: oracle")
		assert.Nil(t, db)
	})

	t.Run("SQLite Memory", func(t *testing.T) {
		db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
		assert.NoError(t, err)
		assert.NotNil(t, db)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"mysql", Config{Driver: DriverMySQL, Name: "ffl_directory", Port: 3306}, false},
		{"sqlite ignores port", Config{Driver: DriverSQLite, Name: "ffl.db"}, false},
		{"unknown driver", Config{Driver: "oracle", Name: "ffl"}, true},
		{"missing name", Config{Driver: DriverSQLite}, true},
		{"mysql without port", Config{Driver: DriverMySQL, Name: "ffl_directory"}, true},
		{"negative timeout", Config{Driver: DriverSQLite, Name: "ffl.db", TimeoutSeconds: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, ":memory:", sqliteDSN(":memory:", 30))
	assert.Equal(t, "file::memory:?cache=shared", sqliteDSN("file::memory:?cache=shared", 30))
	assert.Equal(t, "ffl.db?_journal_mode=WAL&_busy_timeout=5000", sqliteDSN("ffl.db", 5))
	assert.Equal(t, "file:ffl.db?cache=shared&_journal_mode=WAL&_busy_timeout=5000", sqliteDSN("file:ffl.db?cache=shared", 5))
}

func TestConnect_SQLiteFile(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: filepath.Join(t.TempDir(), "ffl.db")})
	require.NoError(t, err)

	var mode string
	require.NoError(t, db.Raw("PRAGMA journal_mode").Scan(&mode).Error)
	assert.Equal(t, "wal", mode)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, sqliteMaxConns, sqlDB.Stats().MaxOpenConnections)

	mem, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	memDB, err := mem.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, memDB.Stats().MaxOpenConnections)
}

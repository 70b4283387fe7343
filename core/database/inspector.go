package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ColumnInfo describes one live column, as reported by the dialect's migrator.
type ColumnInfo struct {
	Field      string
	Type       string
	Length     int64
	Nullable   bool
	PrimaryKey bool
}

// GetTableColumns lists the columns of tableName. A missing table yields no columns and no error.
func GetTableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection not available")
	}

	m := db.Migrator()
	if !m.HasTable(tableName) {
		return nil, nil
	}

	types, err := m.ColumnTypes(tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}

	columns := make([]ColumnInfo, 0, len(types))
	for _, ct := range types {
		info := ColumnInfo{Field: strings.ToLower(ct.Name())}

		// ColumnType keeps the full declaration (varchar(32)); not every dialect reports it.
		if full, ok := ct.ColumnType(); ok && full != "" {
			info.Type = strings.ToLower(full)
		} else {
			info.Type = strings.ToLower(ct.DatabaseTypeName())
		}
		if n, ok := ct.Length(); ok {
			info.Length = n
		}
		if null, ok := ct.Nullable(); ok {
			info.Nullable = null
		}
		if pk, ok := ct.PrimaryKey(); ok {
			info.PrimaryKey = pk
		}
		columns = append(columns, info)
	}
	return columns, nil
}

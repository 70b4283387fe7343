package store

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"ffl-directory/core/database"
	"ffl-directory/feature/ffl/models"

	"gorm.io/gorm"
)

// Migrate creates or updates the directory tables and seeds the sync lock row.
func Migrate(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	if err := db.AutoMigrate(&models.FflRow{}, &models.SyncLock{}); err != nil {
		return fmt.Errorf("failed to migrate directory tables: %w", err)
	}
	lock := models.SyncLock{Name: syncLockName}
	if err := db.Where(models.SyncLock{Name: syncLockName}).FirstOrCreate(&lock).Error; err != nil {
		return fmt.Errorf("failed to seed sync lock: %w", err)
	}
	return nil
}

// SchemaReport is the result of a schema check.
type SchemaReport struct {
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	Status         string   `json:"status"` // "ok", "error"
}

// CheckSchema compares the live tables against the gorm models.
func CheckSchema(db *gorm.DB) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{
		Matched: true,
		Tables:  make(map[string]TableReport),
		Errors:  []string{},
	}

	for _, model := range []interface{ TableName() string }{models.FflRow{}, models.SyncLock{}} {
		tableName := model.TableName()
		actual, err := database.GetTableColumns(db, tableName)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("failed to inspect table %s: %v", tableName, err))
			report.Matched = false
			continue
		}
		if len(actual) == 0 {
			report.Errors = append(report.Errors, fmt.Sprintf("table %s does not exist", tableName))
			report.Matched = false
			continue
		}

		tbl := checkTable(reflect.TypeOf(model), actual)
		if tbl.Status != "ok" {
			report.Matched = false
		}
		report.Tables[tableName] = tbl
	}

	return report, nil
}

func checkTable(model reflect.Type, actual []database.ColumnInfo) TableReport {
	tbl := TableReport{
		MissingColumns: []string{},
		TypeMismatches: []string{},
		Status:         "ok",
	}

	byName := make(map[string]database.ColumnInfo, len(actual))
	for _, col := range actual {
		byName[col.Field] = col
	}

	for i := 0; i < model.NumField(); i++ {
		tag := model.Field(i).Tag.Get("gorm")
		name := gormTagValue(tag, "column")
		if name == "" {
			continue
		}

		col, ok := byName[name]
		if !ok {
			tbl.MissingColumns = append(tbl.MissingColumns, name)
			tbl.Status = "error"
			continue
		}

		// Only columns with an explicit type are type checked.
		if want := strings.ToLower(gormTagValue(tag, "type")); want != "" && !strings.Contains(col.Type, want) {
			tbl.TypeMismatches = append(tbl.TypeMismatches, fmt.Sprintf("%s: expected %s, got %s", name, want, col.Type))
			tbl.Status = "error"
		}

		// A column narrower than the model rejects values the normalizer accepts.
		if size, err := strconv.ParseInt(gormTagValue(tag, "size"), 10, 64); err == nil && col.Length > 0 && col.Length < size {
			tbl.TypeMismatches = append(tbl.TypeMismatches, fmt.Sprintf("%s: expected size %d, got %d", name, size, col.Length))
			tbl.Status = "error"
		}
	}
	return tbl
}

func gormTagValue(tag, key string) string {
	for _, part := range strings.Split(tag, ";") {
		if v, ok := strings.CutPrefix(part, key+":"); ok {
			return v
		}
	}
	return ""
}

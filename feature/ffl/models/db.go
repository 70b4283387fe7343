package models

import "time"

// Column widths of ffl_records. They must match the size tags on FflRow.
const (
	MaxNameLen        = 255
	MaxStreetLen      = 255
	MaxCityLen        = 100
	MaxZipLen         = 10
	MaxPhoneLen       = 32
	MaxLicenseTypeLen = 8
)

// FflRow is the persisted form of an FflRecord in the 'ffl_records' table.
type FflRow struct {
	LicenseNumber  string     `gorm:"column:license_number;primaryKey;size:32"`
	BusinessName   string     `gorm:"column:business_name;size:255"`
	TradeName      string     `gorm:"column:trade_name;size:255"`
	Street         string     `gorm:"column:premise_street;size:255"`
	City           string     `gorm:"column:premise_city;size:100"`
	State          string     `gorm:"column:premise_state;size:2;index"`
	Zip            string     `gorm:"column:premise_zip;size:10"`
	Phone          string     `gorm:"column:phone;size:32"`
	LicenseType    string     `gorm:"column:license_type;size:8"`
	ExpirationDate *time.Time `gorm:"column:expiration_date;type:date"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

// TableName overrides the table name.
func (FflRow) TableName() string {
	return "ffl_records"
}

// ComparableColumns are the columns rewritten when an existing license is updated.
var ComparableColumns = []string{
	"business_name",
	"trade_name",
	"premise_street",
	"premise_city",
	"premise_state",
	"premise_zip",
	"phone",
	"license_type",
	"expiration_date",
	"updated_at",
}

// ToRecord converts the persisted row to a directory record.
func (r FflRow) ToRecord() FflRecord {
	return FflRecord{
		LicenseNumber: r.LicenseNumber,
		BusinessName:  r.BusinessName,
		TradeName:     r.TradeName,
		Address: Address{
			Street: r.Street,
			City:   r.City,
			State:  r.State,
			Zip:    r.Zip,
		},
		Phone:          r.Phone,
		LicenseType:    r.LicenseType,
		ExpirationDate: DateOnly(r.ExpirationDate),
	}
}

// FromRecord converts a directory record to its persisted row.
func FromRecord(rec FflRecord) FflRow {
	return FflRow{
		LicenseNumber:  rec.LicenseNumber,
		BusinessName:   rec.BusinessName,
		TradeName:      rec.TradeName,
		Street:         rec.Address.Street,
		City:           rec.Address.City,
		State:          rec.Address.State,
		Zip:            rec.Address.Zip,
		Phone:          rec.Phone,
		LicenseType:    rec.LicenseType,
		ExpirationDate: DateOnly(rec.ExpirationDate),
	}
}

// SyncLock is the single row locked for the duration of a sync.
type SyncLock struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name;size:32;uniqueIndex"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName overrides the table name.
func (SyncLock) TableName() string {
	return "ffl_sync_locks"
}

// DateOnly truncates t to its calendar date in UTC. nil stays nil.
func DateOnly(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	u := t.UTC()
	y, m, d := u.Date()
	out := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &out
}

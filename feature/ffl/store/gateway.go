package store

import (
	"context"

	"ffl-directory/core/reconcile"
	"ffl-directory/feature/ffl/models"
)

// Field is a searchable column of the directory table.
type Field string

const (
	FieldLicense  Field = "license_number"
	FieldBusiness Field = "business_name"
	FieldTrade    Field = "trade_name"
	FieldStreet   Field = "premise_street"
	FieldCity     Field = "premise_city"
	FieldZip      Field = "premise_zip"
)

// AllFields lists every searchable column.
var AllFields = []Field{FieldLicense, FieldBusiness, FieldTrade, FieldStreet, FieldCity, FieldZip}

// ScanFilter narrows a Scan. Empty Text matches every row; empty State matches every state.
type ScanFilter struct {
	Text   string
	Fields []Field
	State  string
}

// Gateway is the store contract the engine depends on.
type Gateway interface {
	reconcile.Snapshotter[models.FflRecord]
	reconcile.Mutator[models.FflRecord]

	// GetByLicense returns nil without error when the license is unknown.
	GetByLicense(ctx context.Context, license string) (*models.FflRecord, error)

	// Scan returns at most limit records ordered by relevance, then license number.
	Scan(ctx context.Context, filter ScanFilter, limit int) ([]models.FflRecord, error)
}

// Serializer runs fn exclusively with respect to every other Serialize call.
// fn must use the Gateway it is handed; its writes commit only if fn returns nil.
type Serializer interface {
	Serialize(ctx context.Context, fn func(Gateway) error) error
}

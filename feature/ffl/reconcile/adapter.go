package reconcile

import (
	"time"

	"ffl-directory/core/reconcile"
	"ffl-directory/feature/ffl/models"
	"ffl-directory/feature/ffl/normalize"
)

// Adapter reconciles directory records keyed by canonical license number.
type Adapter struct{}

var _ reconcile.Adapter[models.FflRecord] = Adapter{}

// Name returns the adapter name.
func (Adapter) Name() string { return "ffl" }

// Key returns the canonical license number.
func (Adapter) Key(r models.FflRecord) string {
	return normalize.CanonicalLicense(r.LicenseNumber)
}

// Row returns the upload row the record came from.
func (Adapter) Row(r models.FflRecord) int { return r.SourceRowNumber }

// Compare lists the comparable fields that differ. Text is compared byte for byte,
// so case or whitespace changes count as updates.
func (Adapter) Compare(current, incoming models.FflRecord) []string {
	var changed []string
	check := func(field, a, b string) {
		if a != b {
			changed = append(changed, field)
		}
	}

	check("businessName", current.BusinessName, incoming.BusinessName)
	check("tradeName", current.TradeName, incoming.TradeName)
	check("street", current.Address.Street, incoming.Address.Street)
	check("city", current.Address.City, incoming.Address.City)
	check("state", current.Address.State, incoming.Address.State)
	check("zip", current.Address.Zip, incoming.Address.Zip)
	check("phone", current.Phone, incoming.Phone)
	check("licenseType", current.LicenseType, incoming.LicenseType)
	if !sameDate(current.ExpirationDate, incoming.ExpirationDate) {
		changed = append(changed, "expirationDate")
	}
	return changed
}

func sameDate(a, b *time.Time) bool {
	a, b = models.DateOnly(a), models.DateOnly(b)
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

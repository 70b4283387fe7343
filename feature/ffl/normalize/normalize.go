package normalize

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"ffl-directory/feature/ffl/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	errLicenseFormat = errors.New("must be letters and digits separated by '-'")
	errLicenseLength = fmt.Errorf("must have %d to %d letters or digits", minLicenseAlnum, maxLicenseAlnum)
)

type field int

const (
	fieldLicense field = iota
	fieldBusiness
	fieldTrade
	fieldStreet
	fieldCity
	fieldState
	fieldZip
	fieldPhone
	fieldType
	fieldExpiration
	fieldRegion
	fieldDistrict
	fieldCounty
	fieldExpiryCode
	fieldSequence
)

// aliases lists accepted header spellings per field, in priority order.
// Headers are compared after lowercasing and dropping everything but letters and digits.
var aliases = map[field][]string{
	fieldLicense:    {"licensenumber", "license", "licenseno", "licnumber", "fflnumber", "fflno", "ffl"},
	fieldBusiness:   {"businessname", "name", "company", "licensename", "licensee"},
	fieldTrade:      {"tradename", "dba", "doingbusinessas"},
	fieldStreet:     {"street", "premisestreet", "streetaddress", "address", "address1"},
	fieldCity:       {"city", "premisecity"},
	fieldState:      {"state", "premisestate", "st"},
	fieldZip:        {"zip", "zipcode", "postalcode", "premisezipcode", "premisezip"},
	fieldPhone:      {"phone", "voicephone", "phonenumber", "telephone"},
	fieldType:       {"licensetype", "lictype", "type"},
	fieldExpiration: {"expirationdate", "expiration", "expires", "expdate", "licenseexpiration"},
	fieldRegion:     {"licregn"},
	fieldDistrict:   {"licdist"},
	fieldCounty:     {"liccnty"},
	fieldExpiryCode: {"licxprdte"},
	fieldSequence:   {"licseqn"},
}

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"1/2/06",
	"2006/01/02",
	"01-02-2006",
	"20060102",
	time.RFC3339,
}

// checked holds the values run through validation, tagged with report names.
type checked struct {
	License  string `json:"license_number"`
	State    string `json:"state"`
	Expiry   string `json:"expiration_date"`
	Business string `json:"business_name"`
	Trade    string `json:"trade_name"`
	Street   string `json:"premise_street"`
	City     string `json:"premise_city"`
	Zip      string `json:"premise_zip"`
	Phone    string `json:"phone"`
	Type     string `json:"license_type"`
}

// Normalize turns one raw row into a validated record, or a row error.
// It is pure: no I/O and no dependency on store state.
func Normalize(raw models.RawRow) (models.FflRecord, *models.RowError) {
	cols := headerIndex(raw)

	license := CanonicalLicense(cols.get(fieldLicense))
	if license == "" {
		license = composeLicense(cols)
	}
	state, _ := State(cols.get(fieldState))
	expiry := cols.get(fieldExpiration)

	in := checked{
		License:  license,
		State:    state,
		Expiry:   expiry,
		Business: cols.get(fieldBusiness),
		Trade:    cols.get(fieldTrade),
		Street:   cols.get(fieldStreet),
		City:     cols.get(fieldCity),
		Zip:      cols.get(fieldZip),
		Phone:    cols.get(fieldPhone),
		Type:     cols.get(fieldType),
	}
	var expiration *time.Time
	err := validation.ValidateStruct(&in,
		validation.Field(&in.License,
			validation.Required.Error("is required"),
			validation.By(func(any) error { return checkLicense(in.License) }),
		),
		validation.Field(&in.State,
			validation.Required.Error("is required"),
			validation.In(stateCodes...).Error("is not a recognized 2-letter state code"),
		),
		validation.Field(&in.Expiry, validation.By(func(any) error {
			t, perr := parseDate(in.Expiry)
			expiration = t
			return perr
		})),
		validation.Field(&in.Business, maxLength(models.MaxNameLen)),
		validation.Field(&in.Trade, maxLength(models.MaxNameLen)),
		validation.Field(&in.Street, maxLength(models.MaxStreetLen)),
		validation.Field(&in.City, maxLength(models.MaxCityLen)),
		validation.Field(&in.Zip, maxLength(models.MaxZipLen)),
		validation.Field(&in.Phone, maxLength(models.MaxPhoneLen)),
		validation.Field(&in.Type, maxLength(models.MaxLicenseTypeLen)),
	)
	if err != nil {
		return models.FflRecord{}, &models.RowError{Row: raw.Number, Key: license, Reason: err.Error()}
	}

	rec := models.FflRecord{
		LicenseNumber: license,
		BusinessName:  in.Business,
		TradeName:     in.Trade,
		Address: models.Address{
			Street: in.Street,
			City:   in.City,
			State:  state,
			Zip:    in.Zip,
		},
		Phone:           in.Phone,
		LicenseType:     in.Type,
		ExpirationDate:  expiration,
		SourceRowNumber: raw.Number,
	}
	return rec, nil
}

// NormalizeBatch normalizes every row, collecting row errors instead of stopping.
func NormalizeBatch(rows []models.RawRow) ([]models.FflRecord, []models.RowError) {
	records := make([]models.FflRecord, 0, len(rows))
	var errs []models.RowError
	for _, raw := range rows {
		rec, rowErr := Normalize(raw)
		if rowErr != nil {
			errs = append(errs, *rowErr)
			continue
		}
		records = append(records, rec)
	}
	return records, errs
}

type columns map[string]string

// headerIndex keys the row by normalized header. When two headers normalize alike, the
// leftmost one with a value wins; rows without a column order fall back to sorted headers.
func headerIndex(raw models.RawRow) columns {
	order := raw.Columns
	if order == nil {
		order = make([]string, 0, len(raw.Values))
		for k := range raw.Values {
			order = append(order, k)
		}
		sort.Strings(order)
	}

	out := make(columns, len(order))
	for _, k := range order {
		v, ok := raw.Values[k]
		if !ok {
			continue
		}
		key := headerKey(k)
		if key == "" {
			continue
		}
		if prev, ok := out[key]; ok && prev != "" {
			continue
		}
		out[key] = strings.TrimSpace(v)
	}
	return out
}

func (c columns) get(f field) string {
	for _, alias := range aliases[f] {
		if v := c[alias]; v != "" {
			return v
		}
	}
	return ""
}

func headerKey(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// composeLicense joins the split license columns of the ATF public list.
func composeLicense(c columns) string {
	parts := []string{
		c.get(fieldRegion),
		c.get(fieldDistrict),
		c.get(fieldCounty),
		c.get(fieldType),
		c.get(fieldExpiryCode),
		c.get(fieldSequence),
	}
	for _, p := range parts {
		if p == "" {
			return ""
		}
	}
	return CanonicalLicense(strings.Join(parts, "-"))
}

// maxLength bounds a value to its column width, counted in characters.
func maxLength(n int) validation.Rule {
	return validation.RuneLength(0, n).Error(fmt.Sprintf("must be at most %d characters", n))
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return models.DateOnly(&t), nil
		}
	}
	return nil, errors.New("is not a recognized date")
}

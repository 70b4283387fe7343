package normalize

import (
	"strings"
	"testing"
	"time"

	"ffl-directory/feature/ffl/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(n int, kv ...string) models.RawRow {
	values := make(map[string]string, len(kv)/2)
	var columns []string
	for i := 0; i+1 < len(kv); i += 2 {
		values[kv[i]] = kv[i+1]
		columns = append(columns, kv[i])
	}
	return models.RawRow{Number: n, Values: values, Columns: columns}
}

func TestCanonicalLicense(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1-23-456-78-9A-12345", "1-23-456-78-9A-12345"},
		{" 1 23 456 78 9a 12345 ", "1-23-456-78-9A-12345"},
		{"1.23.456/78--9a__12345", "1-23-456-78-9A-12345"},
		{"-abc123-", "ABC123"},
		{"123456789A12345", "1-23-456-78-9A-12345"},
		{"123456789a 12345", "1-23-456-78-9A-12345"},
		{"1-23-45678-9A-12345", "1-23-456-78-9A-12345"},
		{"01-23456", "01-23456"},
		{"ABCDEFGHIJKLMNO", "ABCDEFGHIJKLMNO"},
		{"", ""},
		{"  ---  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalLicense(tt.in))
		})
	}
}

func TestValidLicense(t *testing.T) {
	assert.True(t, ValidLicense("1-23-456-78-9A-12345"))
	assert.True(t, ValidLicense("ABCDE"))
	assert.False(t, ValidLicense("ABCD"))
	assert.False(t, ValidLicense("1-2-3"))
	assert.False(t, ValidLicense("A123456789012345678901"))
	assert.False(t, ValidLicense("1--23456"))
	assert.False(t, ValidLicense("abc12"))
}

func TestLooksLikeLicense(t *testing.T) {
	assert.True(t, LooksLikeLicense("1 23 456 78 9a 12345"))
	assert.False(t, LooksLikeLicense("smith guns"))
	assert.False(t, LooksLikeLicense("12"))
}

func TestState(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"tx", "TX", true},
		{" Texas ", "TX", true},
		{"new  york", "NY", true},
		{"PR", "PR", true},
		{"AE", "AE", true},
		{"ZZ", "ZZ", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			code, ok := State(tt.in)
			assert.Equal(t, tt.want, code)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestNormalize_Valid(t *testing.T) {
	rec, rowErr := Normalize(row(4,
		"License Number", " 1-23-456-78-9a-12345 ",
		"Business Name", "  Lone Star Arms LLC ",
		"Trade Name", "Lone Star",
		"Street", "100 Main Street",
		"City", " Austin",
		"State", "tx",
		"Zip", "78701",
		"Phone", "512-555-0100",
		"License Type", "01",
		"Expiration Date", "03/01/2027",
		"Notes", "ignored",
	))

	require.Nil(t, rowErr)
	assert.Equal(t, "1-23-456-78-9A-12345", rec.LicenseNumber)
	assert.Equal(t, "Lone Star Arms LLC", rec.BusinessName)
	assert.Equal(t, "Lone Star", rec.TradeName)
	assert.Equal(t, models.Address{Street: "100 Main Street", City: "Austin", State: "TX", Zip: "78701"}, rec.Address)
	assert.Equal(t, "512-555-0100", rec.Phone)
	assert.Equal(t, "01", rec.LicenseType)
	require.NotNil(t, rec.ExpirationDate)
	assert.Equal(t, time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC), *rec.ExpirationDate)
	assert.Equal(t, 4, rec.SourceRowNumber)
}

func TestNormalize_MissingOptionalColumns(t *testing.T) {
	rec, rowErr := Normalize(row(1, "license_number", "1-23-456-78-9A-12345", "state", "TX"))

	require.Nil(t, rowErr)
	assert.Empty(t, rec.BusinessName)
	assert.Empty(t, rec.Address.City)
	assert.Nil(t, rec.ExpirationDate)
}

func TestNormalize_ATFColumns(t *testing.T) {
	rec, rowErr := Normalize(row(2,
		"LIC_REGN", "1",
		"LIC_DIST", "23",
		"LIC_CNTY", "456",
		"LIC_TYPE", "78",
		"LIC_XPRDTE", "9A",
		"LIC_SEQN", "12345",
		"LICENSE_NAME", "SMITH, JOHN",
		"BUSINESS_NAME", "SMITH GUNS",
		"PREMISE_STREET", "1 ELM ST",
		"PREMISE_CITY", "DALLAS",
		"PREMISE_STATE", "TX",
		"PREMISE_ZIP_CODE", "75201",
		"VOICE_PHONE", "2145550100",
	))

	require.Nil(t, rowErr)
	assert.Equal(t, "1-23-456-78-9A-12345", rec.LicenseNumber)
	assert.Equal(t, "SMITH GUNS", rec.BusinessName)
	assert.Equal(t, "78", rec.LicenseType)
	assert.Equal(t, "DALLAS", rec.Address.City)
	assert.Equal(t, "75201", rec.Address.Zip)
	assert.Equal(t, "2145550100", rec.Phone)
}

func TestNormalize_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		raw    models.RawRow
		reason string
	}{
		{"missing license", row(3, "state", "TX"), "license_number: is required"},
		{"short license", row(3, "license", "12-3", "state", "TX"), "license_number: must have 5 to 20"},
		{"symbols only", row(3, "license", "--", "state", "TX"), "license_number: is required"},
		{"unknown state", row(3, "license", "1-23-456-78-9A-12345", "state", "ZZ"), "state: is not a recognized"},
		{"missing state", row(3, "license", "1-23-456-78-9A-12345"), "state: is required"},
		{"bad date", row(3, "license", "1-23-456-78-9A-12345", "state", "TX", "expires", "soon"), "expiration_date: is not a recognized date"},
		{"oversized name", row(3, "license", "1-23-456-78-9A-12345", "state", "TX", "business name", strings.Repeat("A", 300)), "business_name: must be at most 255 characters"},
		{"oversized license type", row(3, "license", "1-23-456-78-9A-12345", "state", "TX", "license type", "Dealer in Firearms"), "license_type: must be at most 8 characters"},
		{"padded zip", row(3, "license", "1-23-456-78-9A-12345", "state", "TX", "zip", "12345 - 6789"), "premise_zip: must be at most 10 characters"},
		{"oversized city", row(3, "license", "1-23-456-78-9A-12345", "state", "TX", "city", strings.Repeat("x", 101)), "premise_city: must be at most 100 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rowErr := Normalize(tt.raw)
			require.NotNil(t, rowErr)
			assert.Equal(t, 3, rowErr.Row)
			assert.Contains(t, rowErr.Reason, tt.reason)
		})
	}
}

func TestNormalize_DateLayouts(t *testing.T) {
	want := time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2027-03-01", "03/01/2027", "3/1/2027", "3/1/27", "2027/03/01", "03-01-2027", "20270301"} {
		t.Run(in, func(t *testing.T) {
			rec, rowErr := Normalize(row(1, "license", "1-23-456-78-9A-12345", "state", "TX", "expiration", in))
			require.Nil(t, rowErr)
			require.NotNil(t, rec.ExpirationDate)
			assert.Equal(t, want, *rec.ExpirationDate)
		})
	}
}

func TestNormalizeBatch(t *testing.T) {
	rows := []models.RawRow{
		row(1, "license", "1-23-456-78-9A-12345", "state", "TX"),
		row(2, "license", "", "state", "TX"),
		row(3, "license", "9-87-654-32-1B-54321", "state", "Oklahoma"),
	}

	records, errs := NormalizeBatch(rows)

	require.Len(t, records, 2)
	require.Len(t, errs, 1)
	assert.Equal(t, 2, errs[0].Row)
	assert.Equal(t, "OK", records[1].Address.State)
}

func TestNormalize_FieldsAtColumnWidth(t *testing.T) {
	rec, rowErr := Normalize(row(1,
		"license", "1-23-456-78-9A-12345",
		"state", "TX",
		"business name", strings.Repeat("é", 255),
		"zip", "78701-1234",
		"license type", "01",
	))

	require.Nil(t, rowErr)
	assert.Len(t, []rune(rec.BusinessName), 255)
	assert.Equal(t, "78701-1234", rec.Address.Zip)
}

func TestNormalize_HeaderCollisionFollowsColumnOrder(t *testing.T) {
	rec, rowErr := Normalize(row(1, "license", "1-23-456-78-9A-12345", "State", "TX", "STATE", "OK"))
	require.Nil(t, rowErr)
	assert.Equal(t, "TX", rec.Address.State)

	rec, rowErr = Normalize(row(1, "license", "1-23-456-78-9A-12345", "STATE", "OK", "State", "TX"))
	require.Nil(t, rowErr)
	assert.Equal(t, "OK", rec.Address.State)

	rec, rowErr = Normalize(row(1, "license", "1-23-456-78-9A-12345", "State", "", "STATE", "OK"))
	require.Nil(t, rowErr)
	assert.Equal(t, "OK", rec.Address.State, "blank leftmost column yields to the next spelling")
}

func TestNormalize_HeaderCollisionWithoutColumnOrder(t *testing.T) {
	raw := models.RawRow{Number: 1, Values: map[string]string{
		"license": "1-23-456-78-9A-12345",
		"state":   "OK",
		"STATE":   "TX",
	}}

	for i := 0; i < 20; i++ {
		rec, rowErr := Normalize(raw)
		require.Nil(t, rowErr)
		assert.Equal(t, "TX", rec.Address.State, "sorted headers put STATE first")
	}
}

func TestNormalize_UndashedLicenseMatchesDashed(t *testing.T) {
	dashed, rowErr := Normalize(row(1, "license", "1-23-456-78-9A-12345", "state", "TX"))
	require.Nil(t, rowErr)
	plain, rowErr := Normalize(row(2, "license", "123456789A12345", "state", "TX"))
	require.Nil(t, rowErr)

	assert.Equal(t, dashed.LicenseNumber, plain.LicenseNumber)
}

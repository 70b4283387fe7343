package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	minLicenseAlnum = 5
	maxLicenseAlnum = 20
	maxLicenseLen   = 32
)

var (
	licensePattern = regexp.MustCompile(`^[A-Z0-9]+(-[A-Z0-9]+)*$`)
	// atfPattern is a federal license with separators removed: region, district, county,
	// type, expiration code and sequence.
	atfPattern = regexp.MustCompile(`^([0-9])([0-9]{2})([0-9]{3})([0-9]{2})([0-9][A-Z])([0-9]{5})$`)
)

// CanonicalLicense uppercases a license number and collapses every run of whitespace
// or punctuation into a single '-'. "1 23 456.78-9a--12345" becomes "1-23-456-78-9A-12345".
// Federal license numbers always take the dashed X-XX-XXX-XX-XX-XXXXX layout, however
// they were separated.
func CanonicalLicense(raw string) string {
	c := collapse(raw)
	if m := atfPattern.FindStringSubmatch(strings.ReplaceAll(c, "-", "")); m != nil {
		return strings.Join(m[1:], "-")
	}
	return c
}

func collapse(raw string) string {
	var b strings.Builder
	sep := false
	for _, r := range strings.ToUpper(strings.TrimSpace(raw)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if sep && b.Len() > 0 {
				b.WriteByte('-')
			}
			sep = false
			b.WriteRune(r)
			continue
		}
		sep = true
	}
	return b.String()
}

// ValidLicense reports whether a canonical license number passes the format check.
func ValidLicense(canonical string) bool {
	return checkLicense(canonical) == nil
}

// LooksLikeLicense reports whether a free-text query should be tried as a license number.
func LooksLikeLicense(query string) bool {
	c := CanonicalLicense(query)
	return ValidLicense(c) && strings.ContainsAny(c, "0123456789")
}

func checkLicense(canonical string) error {
	if len(canonical) > maxLicenseLen {
		return errLicenseLength
	}
	if !licensePattern.MatchString(canonical) {
		return errLicenseFormat
	}
	n := len(strings.ReplaceAll(canonical, "-", ""))
	if n < minLicenseAlnum || n > maxLicenseAlnum {
		return errLicenseLength
	}
	return nil
}

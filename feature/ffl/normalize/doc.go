// Package normalize turns raw uploaded rows into validated directory records.
//
// Header names are matched case- and punctuation-insensitively against known aliases, so
// "License Number", "license_number" and the split LIC_REGN..LIC_SEQN columns of the ATF
// public list all resolve to the same field. Every value is trimmed, the license number is
// canonicalized, and the state is reduced to its 2-letter code.
//
// A row is rejected with a RowError when the license number is missing or malformed, the
// state is not recognized, or a present expiration date cannot be parsed. Unknown columns
// are ignored and missing optional columns stay empty. Normalization is pure, so one bad
// row never blocks the rest of a batch.
package normalize

// Package utils provides common utility functions for the directory service.
// It holds the loose value conversions used when translating third-party payloads
// (spreadsheet cells, external directory API JSON) into directory records.
package utils

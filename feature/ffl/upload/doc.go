// Package upload decodes uploaded directory files (CSV or XLSX) into raw rows.
package upload

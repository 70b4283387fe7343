package upload

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"ffl-directory/feature/ffl/models"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
	ErrUnsupportedFormat = errors.New("unsupported upload format")
	// ErrNoHeader is returned when the upload has no header row.
	ErrNoHeader = errors.New("upload has no header row")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Supported reports whether name has an extension Decode understands.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xlsx":
		return true
	}
	return false
}

// Decode reads an upload into raw rows, choosing the format by file extension.
func Decode(name string, r io.Reader) ([]models.RawRow, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return DecodeCSV(r)
	case ".xlsx":
		return DecodeXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// DecodeCSV reads a comma separated upload. A leading UTF-8 BOM is skipped and
// invalid UTF-8 is replaced.
func DecodeCSV(r io.Reader) ([]models.RawRow, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var records [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		for i := range rec {
			rec[i] = strings.ToValidUTF8(rec[i], "\uFFFD")
		}
		records = append(records, rec)
	}
	return toRows(records)
}

// DecodeXLSX reads the first sheet of a workbook.
func DecodeXLSX(r io.Reader) ([]models.RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoHeader
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return toRows(records)
}

// toRows pairs data rows with the header. Rows are numbered from 1 after the header;
// blank spreadsheet rows keep their number but are not returned.
func toRows(records [][]string) ([]models.RawRow, error) {
	if len(records) == 0 || blank(records[0]) {
		return nil, ErrNoHeader
	}
	header := make([]string, len(records[0]))
	var columns []string
	seen := make(map[string]struct{}, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
		if _, dup := seen[header[i]]; header[i] != "" && !dup {
			seen[header[i]] = struct{}{}
			columns = append(columns, header[i])
		}
	}

	rows := make([]models.RawRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		values := make(map[string]string, len(header))
		for col, name := range header {
			if name == "" {
				continue
			}
			if _, dup := values[name]; dup {
				continue
			}
			if col < len(rec) {
				values[name] = rec[col]
			} else {
				values[name] = ""
			}
		}
		rows = append(rows, models.RawRow{Number: i + 1, Values: values, Columns: columns})
	}
	return rows, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

package upload

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDecodeCSV(t *testing.T) {
	input := "\xEF\xBB\xBFLicense Number,Business Name,State\n" +
		"1-23-456-78-9A-12345,\"Smith, Guns\",TX\n" +
		"\n" +
		"9-87-654-32-1B-54321,Short Row\n" +
		"1-11-111-11-1A-11111,Extra,OK,ignored\n"

	rows, err := DecodeCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 1, rows[0].Number)
	assert.Equal(t, "1-23-456-78-9A-12345", rows[0].Values["License Number"])
	assert.Equal(t, "Smith, Guns", rows[0].Values["Business Name"])

	// encoding/csv drops empty lines, so they do not consume a row number.
	assert.Equal(t, 2, rows[1].Number)
	assert.Equal(t, "", rows[1].Values["State"])

	assert.Equal(t, 3, rows[2].Number)
	assert.Len(t, rows[2].Values, 3)
}

func TestDecodeCSV_NoHeader(t *testing.T) {
	_, err := DecodeCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestDecodeCSV_InvalidUTF8(t *testing.T) {
	rows, err := DecodeCSV(strings.NewReader("name\nbad\xffbyte\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "bad\uFFFDbyte", rows[0].Values["name"])
}

func TestDecodeXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"LICENSE_NUMBER", "BUSINESS_NAME", "PREMISE_STATE"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"1-23-456-78-9A-12345", "Smith Guns", "TX"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"9-87-654-32-1B-54321", "Jones Arms", "OK"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := Decode("directory.XLSX", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Smith Guns", rows[0].Values["BUSINESS_NAME"])
	assert.Equal(t, "OK", rows[1].Values["PREMISE_STATE"])
	assert.Equal(t, 2, rows[1].Number)
}

func TestDecode_Unsupported(t *testing.T) {
	_, err := Decode("directory.pdf", strings.NewReader("%PDF"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	assert.True(t, Supported("a.CSV"))
	assert.True(t, Supported("b.xlsx"))
	assert.False(t, Supported("c.xls"))
}

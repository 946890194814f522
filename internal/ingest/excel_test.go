package ingest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()

	book := excelize.NewFile()
	defer book.Close() //nolint:errcheck

	sheet := book.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, book.SetSheetRow(sheet, cell, &row))
	}

	buf, err := book.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseWorkbook(t *testing.T) {
	parser := NewParser()

	buf := buildWorkbook(t, [][]interface{}{
		{"Tarih", "Giris", "Cikis", "Notlar"},
		{"2025-03-03", "09:00", "17:30", "ignored"},
		{"2025-03-04", "08:45", "17:00", ""},
	})

	records, err := parser.Parse(buf, "attendance.xlsx", 2025)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "2025-03-03", records[0].Date)
	assert.Equal(t, "09:00", records[0].CheckIn)
	assert.Equal(t, "17:30", records[0].CheckOut)
	assert.Equal(t, 8.5, records[0].Hours)
	assert.Equal(t, 8.25, records[1].Hours)
}

func TestParseCSV(t *testing.T) {
	parser := NewParser()

	csv := strings.Join([]string{
		"Date,Check In,Check Out",
		"2025-01-06,09:00,18:00",
		"2025-01-07,9:30 AM,6:00 PM",
		"2024-12-30,09:00,17:00",
	}, "\n")

	records, err := parser.Parse(strings.NewReader(csv), "attendance.csv", 2025)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 9.0, records[0].Hours)
	assert.Equal(t, "09:30", records[1].CheckIn)
	assert.Equal(t, "18:00", records[1].CheckOut)
	assert.Equal(t, 8.5, records[1].Hours)
}

func TestParseFiltersOtherYears(t *testing.T) {
	parser := NewParser()

	csv := strings.Join([]string{
		"Date,In,Out",
		"2024-06-03,09:00,17:00",
		"2026-06-03,09:00,17:00",
	}, "\n")

	_, err := parser.Parse(strings.NewReader(csv), "attendance.csv", 2025)
	assert.ErrorIs(t, err, ErrNoValidRecords)
}

func TestParseOvernightShift(t *testing.T) {
	parser := NewParser()

	csv := strings.Join([]string{
		"Date,In,Out",
		"2025-02-10,22:00,06:00",
	}, "\n")

	records, err := parser.Parse(strings.NewReader(csv), "attendance.csv", 2025)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 8.0, records[0].Hours)
}

func TestParseSkipsMalformedRows(t *testing.T) {
	parser := NewParser()

	csv := strings.Join([]string{
		"Date,In,Out",
		"not a date,09:00,17:00",
		"2025-04-01,banana,17:00",
		"2025-04-02,17:00,17:00",
		"2025-04-03,09:00,17:00",
	}, "\n")

	records, err := parser.Parse(strings.NewReader(csv), "attendance.csv", 2025)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2025-04-03", records[0].Date)
}

func TestParseExcelDayFractions(t *testing.T) {
	parser := NewParser()

	// 0.375 of a day is 09:00, 0.75 is 18:00.
	csv := strings.Join([]string{
		"Date,In,Out",
		"2025-05-05,0.375,0.75",
	}, "\n")

	records, err := parser.Parse(strings.NewReader(csv), "attendance.csv", 2025)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "09:00", records[0].CheckIn)
	assert.Equal(t, "18:00", records[0].CheckOut)
	assert.Equal(t, 9.0, records[0].Hours)
}

func TestParseDottedDates(t *testing.T) {
	parser := NewParser()

	csv := strings.Join([]string{
		"Tarih,Giris,Cikis",
		"03.03.2025,09:00,17:00",
		"4.3.2025,09:00,17:00",
	}, "\n")

	records, err := parser.Parse(strings.NewReader(csv), "attendance.csv", 2025)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2025-03-03", records[0].Date)
	assert.Equal(t, "2025-03-04", records[1].Date)
}

func TestParseRejectsEmptyAndNarrowFiles(t *testing.T) {
	parser := NewParser()

	_, err := parser.Parse(strings.NewReader(""), "attendance.csv", 2025)
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = parser.Parse(strings.NewReader("Date,In\n2025-01-01,09:00\n"), "attendance.csv", 2025)
	assert.ErrorIs(t, err, ErrTooFewColumns)
}

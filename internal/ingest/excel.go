package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hrlab/worktime-api/internal/engine"
	"github.com/hrlab/worktime-api/internal/models"
)

// Sentinel errors surfaced to callers as upload validation failures.
var (
	ErrEmptyFile      = errors.New("attendance file is empty")
	ErrTooFewColumns  = errors.New("attendance file must have at least 3 columns: date, check-in, check-out")
	ErrNoValidRecords = errors.New("no valid attendance records found in file")
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2/1/2006",
	"2.1.2006",
	"2-1-2006",
}

var timeLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04:05 PM",
}

// Parser reads attendance workbooks and CSV exports into structured records.
// The first three columns are always date, check-in and check-out, header
// names are ignored and malformed rows are skipped.
type Parser struct{}

// NewParser builds an attendance file parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads the file and returns the attendance records matching the year.
func (p *Parser) Parse(r io.Reader, filename string, year int) (models.AttendanceList, error) {
	var rows [][]string
	var err error
	if strings.HasSuffix(strings.ToLower(filename), ".csv") {
		rows, err = readCSV(r)
	} else {
		rows, err = readWorkbook(r)
	}
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	if len(rows[0]) < 3 {
		return nil, ErrTooFewColumns
	}

	records := make(models.AttendanceList, 0, len(rows))
	for _, row := range rows[1:] {
		if len(row) < 3 {
			continue
		}

		date, ok := parseDate(row[0])
		if !ok || date.Year() != year {
			continue
		}

		checkIn, ok := parseClockTime(row[1])
		if !ok {
			continue
		}
		checkOut, ok := parseClockTime(row[2])
		if !ok {
			continue
		}

		hours := shiftHours(checkIn, checkOut)
		if hours <= 0 {
			continue
		}

		records = append(records, models.AttendanceRecord{
			Date:     date.Format("2006-01-02"),
			CheckIn:  checkIn,
			CheckOut: checkOut,
			Hours:    engine.Round2(hours),
		})
	}

	if len(records) == 0 {
		return nil, ErrNoValidRecords
	}
	return records, nil
}

func readWorkbook(r io.Reader) ([][]string, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer book.Close() //nolint:errcheck

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read workbook rows: %w", err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv rows: %w", err)
	}
	return rows, nil
}

// parseDate accepts common date notations plus raw Excel serial numbers.
func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}

	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// parseClockTime normalizes a cell into HH:MM. It accepts clock strings,
// am/pm notation and Excel day fractions.
func parseClockTime(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, strings.ToUpper(raw)); err == nil {
			return t.Format("15:04"), true
		}
	}

	if fraction, err := strconv.ParseFloat(raw, 64); err == nil && fraction >= 0 {
		totalSeconds := int(fraction * 24 * 3600)
		hours := (totalSeconds / 3600) % 24
		minutes := (totalSeconds % 3600) / 60
		return fmt.Sprintf("%02d:%02d", hours, minutes), true
	}

	return "", false
}

// shiftHours computes worked hours between two HH:MM stamps, wrapping
// shifts that end past midnight into the next day.
func shiftHours(checkIn, checkOut string) float64 {
	in, err := time.Parse("15:04", checkIn)
	if err != nil {
		return 0
	}
	out, err := time.Parse("15:04", checkOut)
	if err != nil {
		return 0
	}

	if out.Before(in) {
		out = out.Add(24 * time.Hour)
	}
	return out.Sub(in).Hours()
}

package models

import "database/sql/driver"

// DayStatus classifies a single calendar day after reconciliation.
type DayStatus string

const (
	DayStatusWorked        DayStatus = "worked"
	DayStatusHolidayWorked DayStatus = "holiday_worked"
	DayStatusHoliday       DayStatus = "holiday"
	DayStatusWeekend       DayStatus = "weekend"
	DayStatusMissing       DayStatus = "missing"
	DayStatusLeave         DayStatus = "leave"
)

// Valid returns true when the status is a supported value.
func (s DayStatus) Valid() bool {
	switch s {
	case DayStatusWorked, DayStatusHolidayWorked, DayStatusHoliday, DayStatusWeekend, DayStatusMissing, DayStatusLeave:
		return true
	default:
		return false
	}
}

// DayEntry is a single reconciled calendar day.
type DayEntry struct {
	Date        string    `json:"date"`
	Day         int       `json:"day"`
	Weekday     int       `json:"weekday"`
	WeekdayName string    `json:"weekday_name"`
	Status      DayStatus `json:"status"`
	Hours       *float64  `json:"hours,omitempty"`
	Note        string    `json:"note,omitempty"`
}

// StatusCounts tallies day statuses over a month or a year.
type StatusCounts struct {
	Worked        int `json:"worked"`
	HolidayWorked int `json:"holiday_worked"`
	Holiday       int `json:"holiday"`
	Weekend       int `json:"weekend"`
	Missing       int `json:"missing"`
	Leave         int `json:"leave"`
}

// Add accumulates another tally into the receiver.
func (c *StatusCounts) Add(other StatusCounts) {
	c.Worked += other.Worked
	c.HolidayWorked += other.HolidayWorked
	c.Holiday += other.Holiday
	c.Weekend += other.Weekend
	c.Missing += other.Missing
	c.Leave += other.Leave
}

// MonthSummary groups the reconciled days of one calendar month.
type MonthSummary struct {
	Month       int          `json:"month"`
	Name        string       `json:"name"`
	Days        []DayEntry   `json:"days"`
	Counts      StatusCounts `json:"counts"`
	WorkedHours float64      `json:"worked_hours"`
}

// CalendarData is the JSONB-persisted reconciled calendar, one entry per month.
type CalendarData []MonthSummary

// Value marshals the calendar to JSON for persistence.
func (d CalendarData) Value() (driver.Value, error) {
	if d == nil {
		d = CalendarData{}
	}
	return marshalJSON(d, "CalendarData")
}

// Scan unmarshals JSON payloads into the calendar.
func (d *CalendarData) Scan(value interface{}) error {
	return scanJSON(value, d, "CalendarData")
}

// CalculationResult carries the engine outputs persisted onto an analysis.
// The actual and difference figures are nil when no attendance data entered
// the calculation.
type CalculationResult struct {
	PossibleDays     float64
	TheoreticalDays  float64
	TheoreticalHours float64
	ActualDays       *float64
	ActualHours      *float64
	DifferenceHours  *float64
	Calendar         CalendarData
	Counts           StatusCounts
}

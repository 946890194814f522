package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// WorkRule describes the contractual working pattern for a year.
type WorkRule struct {
	Year          int     `json:"year"`
	DailyHours    float64 `json:"daily_working_hours"`
	WeeklyPattern float64 `json:"weekly_working_days"`
}

// LeaveBudget captures the leave allowances entering the calculation.
type LeaveBudget struct {
	AnnualTotal float64 `json:"annual_leave_total"`
	AnnualUsed  float64 `json:"annual_leave_used"`
	ExtraDays   float64 `json:"extra_leave_days"`
}

// Holiday is a public holiday entry, optionally marked as worked.
type Holiday struct {
	Date   string `json:"date"`
	Name   string `json:"name"`
	Worked bool   `json:"worked"`
}

// HolidayList is a JSONB-persisted slice of holidays.
type HolidayList []Holiday

// Value marshals the holiday list to JSON for persistence.
func (l HolidayList) Value() (driver.Value, error) {
	if l == nil {
		l = HolidayList{}
	}
	return marshalJSON(l, "HolidayList")
}

// Scan unmarshals JSON payloads into the holiday list.
func (l *HolidayList) Scan(value interface{}) error {
	return scanJSON(value, l, "HolidayList")
}

// AttendanceRecord is one parsed attendance row with its computed hours.
type AttendanceRecord struct {
	Date     string  `json:"date"`
	CheckIn  string  `json:"check_in"`
	CheckOut string  `json:"check_out"`
	Hours    float64 `json:"hours"`
}

// AttendanceList is a JSONB-persisted slice of attendance records.
type AttendanceList []AttendanceRecord

// Value marshals the attendance list to JSON for persistence.
func (l AttendanceList) Value() (driver.Value, error) {
	if l == nil {
		l = AttendanceList{}
	}
	return marshalJSON(l, "AttendanceList")
}

// Scan unmarshals JSON payloads into the attendance list.
func (l *AttendanceList) Scan(value interface{}) error {
	return scanJSON(value, l, "AttendanceList")
}

// Analysis is a persisted working-time analysis for an employee and year.
type Analysis struct {
	ID         string `db:"id" json:"id"`
	EmployeeID string `db:"employee_id" json:"employee_id"`

	Year          int     `db:"year" json:"year"`
	DailyHours    float64 `db:"daily_working_hours" json:"daily_working_hours"`
	WeeklyPattern float64 `db:"weekly_working_days" json:"weekly_working_days"`

	AnnualLeaveTotal float64 `db:"annual_leave_total" json:"annual_leave_total"`
	AnnualLeaveUsed  float64 `db:"annual_leave_used" json:"annual_leave_used"`
	ExtraLeaveDays   float64 `db:"extra_leave_days" json:"extra_leave_days"`

	Holidays   HolidayList    `db:"holidays_data" json:"holidays_data"`
	Attendance AttendanceList `db:"attendance_data" json:"attendance_data"`

	PossibleDays     float64  `db:"possible_days" json:"possible_working_days"`
	TheoreticalDays  float64  `db:"theoretical_days" json:"theoretical_working_days"`
	TheoreticalHours float64  `db:"theoretical_hours" json:"theoretical_working_hours"`
	ActualDays       *float64 `db:"actual_days" json:"actual_working_days"`
	ActualHours      *float64 `db:"actual_hours" json:"actual_working_hours"`
	DifferenceHours  *float64 `db:"difference_hours" json:"difference_hours"`

	Calendar CalendarData `db:"calendar_data" json:"calendar_data"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// WorkRule returns the analysis working pattern.
func (a *Analysis) WorkRule() WorkRule {
	return WorkRule{
		Year:          a.Year,
		DailyHours:    a.DailyHours,
		WeeklyPattern: a.WeeklyPattern,
	}
}

// LeaveBudget returns the analysis leave allowances.
func (a *Analysis) LeaveBudget() LeaveBudget {
	return LeaveBudget{
		AnnualTotal: a.AnnualLeaveTotal,
		AnnualUsed:  a.AnnualLeaveUsed,
		ExtraDays:   a.ExtraLeaveDays,
	}
}

// AnalysisFilter scopes analysis listing queries.
type AnalysisFilter struct {
	EmployeeID string
	Year       *int
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

func marshalJSON(src interface{}, name string) (driver.Value, error) {
	data, err := json.Marshal(src)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", name, err)
	}
	return data, nil
}

func scanJSON(value interface{}, dest interface{}, name string) error {
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for %s", value, name)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal %s: %w", name, err)
	}
	return nil
}

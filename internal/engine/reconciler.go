package engine

import (
	"fmt"
	"time"

	"github.com/hrlab/worktime-api/internal/models"
)

const dateLayout = "2006-01-02"

const holidayMarkedNote = " (marked as worked but no attendance)"

// Reconciler builds the day-by-day calendar for an analysis year.
type Reconciler struct {
	accountant *Accountant
}

// NewReconciler builds a reconciler with its own accountant.
func NewReconciler() *Reconciler {
	return &Reconciler{accountant: NewAccountant()}
}

// Reconcile classifies every day of the year and computes the totals.
// Attendance takes priority over holidays, holidays over weekends, and any
// remaining day is reported as missing.
func (r *Reconciler) Reconcile(rule models.WorkRule, holidays models.HolidayList, attendance models.AttendanceList) models.CalculationResult {
	holidayByDate := indexHolidays(holidays)
	attendanceByDate := indexAttendance(attendance)

	calendar := make(models.CalendarData, 0, 12)
	yearCounts := models.StatusCounts{}

	day := time.Date(rule.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	var current *models.MonthSummary
	for day.Year() == rule.Year {
		if current == nil || current.Month != int(day.Month()) {
			calendar = append(calendar, models.MonthSummary{
				Month: int(day.Month()),
				Name:  day.Month().String(),
				Days:  make([]models.DayEntry, 0, 31),
			})
			current = &calendar[len(calendar)-1]
		}

		entry := r.classify(day, rule, holidayByDate, attendanceByDate)
		current.Days = append(current.Days, entry)
		tally(&current.Counts, entry.Status)
		if entry.Hours != nil {
			current.WorkedHours += *entry.Hours
		}

		day = day.AddDate(0, 0, 1)
	}

	for i := range calendar {
		yearCounts.Add(calendar[i].Counts)
		calendar[i].WorkedHours = Round2(calendar[i].WorkedHours)
	}

	// Without attendance records the actual figures stay nil, so callers
	// can tell "no data" apart from "zero hours worked".
	var actualDays, actualHours *float64
	if len(attendance) > 0 {
		days := float64(len(attendance))
		hours := 0.0
		for _, record := range attendance {
			hours += record.Hours
		}
		hours = Round2(hours)
		actualDays, actualHours = &days, &hours
	}

	return models.CalculationResult{
		ActualDays:  actualDays,
		ActualHours: actualHours,
		Calendar:    calendar,
		Counts:      yearCounts,
	}
}

// Calculate runs the full calculation for an analysis, combining the
// accountant totals with the reconciled calendar.
func (r *Reconciler) Calculate(rule models.WorkRule, leave models.LeaveBudget, holidays models.HolidayList, attendance models.AttendanceList) models.CalculationResult {
	result := r.Reconcile(rule, holidays, attendance)

	possible := r.accountant.PossibleWorkingDays(rule.Year, rule.WeeklyPattern)
	notWorked := countNotWorked(holidays)
	theoreticalDays := r.accountant.TheoreticalWorkingDays(possible, leave, notWorked)

	result.PossibleDays = Round2(possible)
	result.TheoreticalDays = Round2(theoreticalDays)
	result.TheoreticalHours = Round2(r.accountant.TheoreticalWorkingHours(theoreticalDays, rule.DailyHours))
	if result.ActualHours != nil {
		diff := Round2(*result.ActualHours - result.TheoreticalHours)
		result.DifferenceHours = &diff
	}
	return result
}

func (r *Reconciler) classify(day time.Time, rule models.WorkRule, holidayByDate map[string]models.Holiday, attendanceByDate map[string]models.AttendanceRecord) models.DayEntry {
	date := day.Format(dateLayout)
	entry := models.DayEntry{
		Date:        date,
		Day:         day.Day(),
		Weekday:     mondayIndex(day),
		WeekdayName: day.Weekday().String(),
	}

	record, attended := attendanceByDate[date]
	holiday, isHoliday := holidayByDate[date]

	switch {
	case attended && !isHoliday:
		entry.Status = models.DayStatusWorked
		hours := record.Hours
		entry.Hours = &hours
	case attended && isHoliday:
		entry.Status = models.DayStatusHolidayWorked
		hours := record.Hours
		entry.Hours = &hours
		entry.Note = holiday.Name
	case isHoliday:
		entry.Status = models.DayStatusHoliday
		entry.Note = holiday.Name
		if holiday.Worked {
			entry.Note += holidayMarkedNote
		}
	case IsWeekend(day, rule.WeeklyPattern):
		entry.Status = models.DayStatusWeekend
	default:
		entry.Status = models.DayStatusMissing
	}

	return entry
}

// indexHolidays maps holidays by date. Duplicate dates keep the last entry.
func indexHolidays(holidays models.HolidayList) map[string]models.Holiday {
	byDate := make(map[string]models.Holiday, len(holidays))
	for _, holiday := range holidays {
		byDate[holiday.Date] = holiday
	}
	return byDate
}

func indexAttendance(attendance models.AttendanceList) map[string]models.AttendanceRecord {
	byDate := make(map[string]models.AttendanceRecord, len(attendance))
	for _, record := range attendance {
		byDate[record.Date] = record
	}
	return byDate
}

// countNotWorked counts unworked entries over the raw list, so duplicate
// dates each deduct from the theoretical days.
func countNotWorked(holidays models.HolidayList) float64 {
	count := 0.0
	for _, holiday := range holidays {
		if !holiday.Worked {
			count++
		}
	}
	return count
}

func tally(counts *models.StatusCounts, status models.DayStatus) {
	switch status {
	case models.DayStatusWorked:
		counts.Worked++
	case models.DayStatusHolidayWorked:
		counts.HolidayWorked++
	case models.DayStatusHoliday:
		counts.Holiday++
	case models.DayStatusWeekend:
		counts.Weekend++
	case models.DayStatusMissing:
		counts.Missing++
	case models.DayStatusLeave:
		counts.Leave++
	}
}

// ParseDate validates a calendar date string in YYYY-MM-DD form.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", raw, err)
	}
	return t, nil
}

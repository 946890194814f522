package engine

import (
	"math"
	"time"

	"github.com/hrlab/worktime-api/internal/models"
)

// Accountant derives theoretical working capacity from a yearly work rule.
type Accountant struct{}

// NewAccountant builds a calculation accountant.
func NewAccountant() *Accountant {
	return &Accountant{}
}

// PossibleWorkingDays sums the day weights of every calendar day in the year.
// A weekly pattern of 5.5 weights Monday through Friday at 1.0 and Saturday
// at 0.5. The fractional part of the pattern always lands on the first day
// after the full working days.
func (a *Accountant) PossibleWorkingDays(year int, weeklyPattern float64) float64 {
	total := 0.0
	day := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	for day.Year() == year {
		total += dayWeight(day, weeklyPattern)
		day = day.AddDate(0, 0, 1)
	}
	return total
}

// TheoreticalWorkingDays subtracts leave and unworked holidays from the
// possible working days. The result never goes below zero.
func (a *Accountant) TheoreticalWorkingDays(possible float64, leave models.LeaveBudget, holidaysNotWorked float64) float64 {
	days := possible - leave.AnnualUsed - leave.ExtraDays - holidaysNotWorked
	if days < 0 {
		return 0
	}
	return days
}

// TheoreticalWorkingHours converts theoretical days into hours.
func (a *Accountant) TheoreticalWorkingHours(theoreticalDays, dailyHours float64) float64 {
	return theoreticalDays * dailyHours
}

// IsWeekend reports whether the day counts as a rest day under the pattern.
// The common patterns keep their conventional meaning, 5.5 and 6.0 rest on
// Sunday only while 5.0 rests on both Saturday and Sunday.
func IsWeekend(day time.Time, weeklyPattern float64) bool {
	idx := mondayIndex(day)
	switch weeklyPattern {
	case 5.5, 6.0:
		return idx == 6
	case 5.0:
		return idx >= 5
	default:
		return idx >= int(math.Floor(weeklyPattern))
	}
}

// Round2 rounds to two decimal places for presentation values.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// dayWeight returns the fraction of a working day this date contributes.
func dayWeight(day time.Time, weeklyPattern float64) float64 {
	idx := mondayIndex(day)
	full := int(math.Floor(weeklyPattern))
	switch {
	case idx < full:
		return 1.0
	case idx == full:
		return weeklyPattern - math.Floor(weeklyPattern)
	default:
		return 0.0
	}
}

// mondayIndex maps time.Weekday to a Monday-based index, Monday is 0.
func mondayIndex(day time.Time) int {
	return (int(day.Weekday()) + 6) % 7
}

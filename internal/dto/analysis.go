package dto

import (
	"time"

	"github.com/hrlab/worktime-api/internal/models"
)

// AnalysisCreateRequest captures the multipart POST /analyses form.
// The attendance file arrives as a separate multipart part and the
// holiday list as a JSON encoded string field.
type AnalysisCreateRequest struct {
	EmployeeID        string  `form:"employee_id" binding:"required,uuid" validate:"required,uuid"`
	Year              int     `form:"year" binding:"required,min=2000,max=2100" validate:"required,min=2000,max=2100"`
	DailyWorkingHours float64 `form:"daily_working_hours" binding:"required,gt=0,lte=24" validate:"required,gt=0,lte=24"`
	WeeklyWorkingDays float64 `form:"weekly_working_days" binding:"required,gt=0,lte=7" validate:"required,gt=0,lte=7"`
	AnnualLeaveTotal  float64 `form:"annual_leave_total" binding:"gte=0" validate:"gte=0"`
	AnnualLeaveUsed   float64 `form:"annual_leave_used" binding:"gte=0" validate:"gte=0"`
	ExtraLeaveDays    float64 `form:"extra_leave_days" binding:"gte=0" validate:"gte=0"`
	HolidaysData      string  `form:"holidays_data"`
}

// AnalysisUpdateRequest captures the multipart PUT /analyses/:id form.
type AnalysisUpdateRequest struct {
	Year              int     `form:"year" binding:"required,min=2000,max=2100" validate:"required,min=2000,max=2100"`
	DailyWorkingHours float64 `form:"daily_working_hours" binding:"required,gt=0,lte=24" validate:"required,gt=0,lte=24"`
	WeeklyWorkingDays float64 `form:"weekly_working_days" binding:"required,gt=0,lte=7" validate:"required,gt=0,lte=7"`
	AnnualLeaveTotal  float64 `form:"annual_leave_total" binding:"gte=0" validate:"gte=0"`
	AnnualLeaveUsed   float64 `form:"annual_leave_used" binding:"gte=0" validate:"gte=0"`
	ExtraLeaveDays    float64 `form:"extra_leave_days" binding:"gte=0" validate:"gte=0"`
	HolidaysData      string  `form:"holidays_data"`
}

// AnalysisListQuery captures analysis listing query parameters.
type AnalysisListQuery struct {
	EmployeeID string `form:"employee_id"`
	Year       *int   `form:"year"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
}

// Filter converts the query into a repository filter.
func (q AnalysisListQuery) Filter() models.AnalysisFilter {
	return models.AnalysisFilter{
		EmployeeID: q.EmployeeID,
		Year:       q.Year,
		Page:       q.Page,
		PageSize:   q.PageSize,
		SortBy:     q.SortBy,
		SortOrder:  q.SortOrder,
	}
}

// MonthBreakdown summarises one month of the reconciled calendar.
type MonthBreakdown struct {
	Month       int     `json:"month"`
	MonthName   string  `json:"month_name"`
	WorkedDays  int     `json:"worked_days"`
	WorkedHours float64 `json:"worked_hours"`
	Holidays    int     `json:"holidays"`
	Weekends    int     `json:"weekends"`
	Missing     int     `json:"missing"`
}

// AnalysisResponse is the full analysis payload returned to clients.
type AnalysisResponse struct {
	ID              string    `json:"id"`
	EmployeeID      string    `json:"employee_id"`
	EmployeeName    string    `json:"employee_name"`
	EmployeeSurname string    `json:"employee_surname"`
	Year            int       `json:"year"`
	CreatedAt       time.Time `json:"created_at"`

	DailyWorkingHours float64 `json:"daily_working_hours"`
	WeeklyWorkingDays float64 `json:"weekly_working_days"`

	AnnualLeaveTotal float64 `json:"annual_leave_total"`
	AnnualLeaveUsed  float64 `json:"annual_leave_used"`
	ExtraLeaveDays   float64 `json:"extra_leave_days"`

	HolidaysData      models.HolidayList `json:"holidays_data"`
	TotalHolidays     int                `json:"total_holidays"`
	HolidaysWorked    int                `json:"holidays_worked"`
	HolidaysNotWorked int                `json:"holidays_not_worked"`

	PossibleWorkingDays     float64  `json:"possible_working_days"`
	TheoreticalWorkingDays  float64  `json:"theoretical_working_days"`
	TheoreticalWorkingHours float64  `json:"theoretical_working_hours"`
	ActualWorkingDays       *float64 `json:"actual_working_days"`
	ActualWorkingHours      *float64 `json:"actual_working_hours"`
	HoursDifference         *float64 `json:"hours_difference"`

	HasAttendanceData bool `json:"has_attendance_data"`
	IsOvertime        bool `json:"is_overtime"`
	IsMissingHours    bool `json:"is_missing_hours"`

	MonthlyBreakdown []MonthBreakdown    `json:"monthly_breakdown"`
	StatusCounts     models.StatusCounts `json:"status_counts"`
	CalendarData     models.CalendarData `json:"calendar_data"`
}

// NewAnalysisResponse assembles the response from the stored rows.
func NewAnalysisResponse(analysis *models.Analysis, employee *models.Employee) AnalysisResponse {
	resp := AnalysisResponse{
		ID:              analysis.ID,
		EmployeeID:      analysis.EmployeeID,
		Year:            analysis.Year,
		CreatedAt:       analysis.CreatedAt,

		DailyWorkingHours: analysis.DailyHours,
		WeeklyWorkingDays: analysis.WeeklyPattern,

		AnnualLeaveTotal: analysis.AnnualLeaveTotal,
		AnnualLeaveUsed:  analysis.AnnualLeaveUsed,
		ExtraLeaveDays:   analysis.ExtraLeaveDays,

		HolidaysData:  analysis.Holidays,
		TotalHolidays: len(analysis.Holidays),

		PossibleWorkingDays:     analysis.PossibleDays,
		TheoreticalWorkingDays:  analysis.TheoreticalDays,
		TheoreticalWorkingHours: analysis.TheoreticalHours,
		ActualWorkingDays:       analysis.ActualDays,
		ActualWorkingHours:      analysis.ActualHours,
		HoursDifference:         analysis.DifferenceHours,

		// Without attendance data the actuals are null and the overtime
		// flags stay false.
		HasAttendanceData: analysis.ActualHours != nil,
		IsOvertime:        analysis.DifferenceHours != nil && *analysis.DifferenceHours > 0,
		IsMissingHours:    analysis.DifferenceHours != nil && *analysis.DifferenceHours < 0,

		CalendarData: analysis.Calendar,
	}

	if employee != nil {
		resp.EmployeeName = employee.Name
		resp.EmployeeSurname = employee.Surname
	}

	if resp.HolidaysData == nil {
		resp.HolidaysData = models.HolidayList{}
	}
	for _, holiday := range analysis.Holidays {
		if holiday.Worked {
			resp.HolidaysWorked++
		} else {
			resp.HolidaysNotWorked++
		}
	}

	resp.MonthlyBreakdown = make([]MonthBreakdown, 0, len(analysis.Calendar))
	for _, month := range analysis.Calendar {
		resp.StatusCounts.Add(month.Counts)
		resp.MonthlyBreakdown = append(resp.MonthlyBreakdown, MonthBreakdown{
			Month:       month.Month,
			MonthName:   month.Name,
			WorkedDays:  month.Counts.Worked + month.Counts.HolidayWorked,
			WorkedHours: month.WorkedHours,
			Holidays:    month.Counts.Holiday + month.Counts.HolidayWorked,
			Weekends:    month.Counts.Weekend,
			Missing:     month.Counts.Missing,
		})
	}

	return resp
}

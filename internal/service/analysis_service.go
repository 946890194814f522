package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hrlab/worktime-api/internal/dto"
	"github.com/hrlab/worktime-api/internal/engine"
	"github.com/hrlab/worktime-api/internal/holidays"
	"github.com/hrlab/worktime-api/internal/ingest"
	"github.com/hrlab/worktime-api/internal/models"
	appErrors "github.com/hrlab/worktime-api/pkg/errors"
)

const analysisCachePattern = "analysis:*"

func analysisCacheKey(id string) string {
	return fmt.Sprintf("analysis:%s", id)
}

type analysisRepository interface {
	List(ctx context.Context, filter models.AnalysisFilter) ([]models.Analysis, int, error)
	FindByID(ctx context.Context, id string) (*models.Analysis, error)
	Create(ctx context.Context, analysis *models.Analysis) error
	Update(ctx context.Context, analysis *models.Analysis) error
	Delete(ctx context.Context, id string) (bool, error)
}

type employeeFinder interface {
	FindByID(ctx context.Context, id string) (*models.Employee, error)
}

type attendanceParser interface {
	Parse(r io.Reader, filename string, year int) (models.AttendanceList, error)
}

// AttendanceUpload carries an optional uploaded attendance file.
type AttendanceUpload struct {
	Reader   io.Reader
	Filename string
}

// AnalysisService orchestrates the working-time calculation pipeline.
type AnalysisService struct {
	repo       analysisRepository
	employees  employeeFinder
	parser     attendanceParser
	reconciler *engine.Reconciler
	holidays   holidays.Provider
	cache      *CacheService
	metrics    *MetricsService
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewAnalysisService constructs the analysis service.
func NewAnalysisService(repo analysisRepository, employees employeeFinder, parser attendanceParser, provider holidays.Provider, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *AnalysisService {
	if parser == nil {
		parser = ingest.NewParser()
	}
	if provider == nil {
		provider = holidays.NewTurkeyProvider()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisService{
		repo:       repo,
		employees:  employees,
		parser:     parser,
		reconciler: engine.NewReconciler(),
		holidays:   provider,
		cache:      cache,
		metrics:    metrics,
		validate:   validator.New(),
		logger:     logger,
	}
}

// List returns analyses and pagination metadata.
func (s *AnalysisService) List(ctx context.Context, filter models.AnalysisFilter) ([]models.Analysis, *models.Pagination, error) {
	analyses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list analyses")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return analyses, pagination, nil
}

// Get returns the formatted analysis, served from cache when possible.
// The second return value reports whether the cache satisfied the read.
func (s *AnalysisService) Get(ctx context.Context, id string) (*dto.AnalysisResponse, bool, error) {
	var cached dto.AnalysisResponse
	if hit, err := s.cache.Get(ctx, analysisCacheKey(id), &cached); err == nil && hit {
		return &cached, true, nil
	}

	analysis, err := s.loadAnalysis(ctx, id)
	if err != nil {
		return nil, false, err
	}
	employee, err := s.loadEmployee(ctx, analysis.EmployeeID)
	if err != nil {
		return nil, false, err
	}

	resp := dto.NewAnalysisResponse(analysis, employee)
	if err := s.cache.Set(ctx, analysisCacheKey(id), resp, 0); err != nil {
		s.logger.Sugar().Warnw("analysis cache write failed", "analysis_id", id, "error", err)
	}
	return &resp, false, nil
}

// Create runs the calculation pipeline and persists a new analysis.
func (s *AnalysisService) Create(ctx context.Context, req dto.AnalysisCreateRequest, upload *AttendanceUpload) (*dto.AnalysisResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid analysis parameters")
	}
	employee, err := s.loadEmployee(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	holidayList, err := s.resolveHolidays(req.HolidaysData, req.Year)
	if err != nil {
		return nil, err
	}

	attendance, err := s.parseUpload(upload, req.Year)
	if err != nil {
		return nil, err
	}

	analysis := &models.Analysis{
		EmployeeID:       req.EmployeeID,
		Year:             req.Year,
		DailyHours:       req.DailyWorkingHours,
		WeeklyPattern:    req.WeeklyWorkingDays,
		AnnualLeaveTotal: req.AnnualLeaveTotal,
		AnnualLeaveUsed:  req.AnnualLeaveUsed,
		ExtraLeaveDays:   req.ExtraLeaveDays,
		Holidays:         holidayList,
		Attendance:       attendance,
	}
	s.calculate(analysis)

	if err := s.repo.Create(ctx, analysis); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create analysis")
	}
	s.invalidateCache(ctx)

	resp := dto.NewAnalysisResponse(analysis, employee)
	return &resp, nil
}

// Update re-runs the calculation with new inputs for an existing analysis.
// A nil upload keeps the stored attendance records.
func (s *AnalysisService) Update(ctx context.Context, id string, req dto.AnalysisUpdateRequest, upload *AttendanceUpload) (*dto.AnalysisResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid analysis parameters")
	}
	analysis, err := s.loadAnalysis(ctx, id)
	if err != nil {
		return nil, err
	}
	employee, err := s.loadEmployee(ctx, analysis.EmployeeID)
	if err != nil {
		return nil, err
	}

	holidayList := analysis.Holidays
	if req.HolidaysData != "" {
		holidayList, err = s.resolveHolidays(req.HolidaysData, req.Year)
		if err != nil {
			return nil, err
		}
	} else if req.Year != analysis.Year {
		holidayList = s.holidays.ForYear(req.Year)
	}

	attendance := analysis.Attendance
	if upload != nil && upload.Reader != nil {
		attendance, err = s.parseUpload(upload, req.Year)
		if err != nil {
			return nil, err
		}
	}

	analysis.Year = req.Year
	analysis.DailyHours = req.DailyWorkingHours
	analysis.WeeklyPattern = req.WeeklyWorkingDays
	analysis.AnnualLeaveTotal = req.AnnualLeaveTotal
	analysis.AnnualLeaveUsed = req.AnnualLeaveUsed
	analysis.ExtraLeaveDays = req.ExtraLeaveDays
	analysis.Holidays = holidayList
	analysis.Attendance = attendance
	s.calculate(analysis)

	if err := s.repo.Update(ctx, analysis); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update analysis")
	}
	s.invalidateCache(ctx)

	resp := dto.NewAnalysisResponse(analysis, employee)
	return &resp, nil
}

// Delete removes an analysis.
func (s *AnalysisService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete analysis")
	}
	if !deleted {
		return appErrors.ErrAnalysisNotFound
	}
	s.invalidateCache(ctx)
	return nil
}

// Snapshot assembles the response for an already loaded analysis row.
func (s *AnalysisService) Snapshot(ctx context.Context, analysis *models.Analysis) (*dto.AnalysisResponse, error) {
	employee, err := s.loadEmployee(ctx, analysis.EmployeeID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewAnalysisResponse(analysis, employee)
	return &resp, nil
}

// Load fetches the raw analysis row by ID.
func (s *AnalysisService) Load(ctx context.Context, id string) (*models.Analysis, error) {
	return s.loadAnalysis(ctx, id)
}

func (s *AnalysisService) calculate(analysis *models.Analysis) {
	start := time.Now()
	result := s.reconciler.Calculate(analysis.WorkRule(), analysis.LeaveBudget(), analysis.Holidays, analysis.Attendance)
	if s.metrics != nil {
		s.metrics.ObserveCalculation(time.Since(start))
	}

	analysis.PossibleDays = result.PossibleDays
	analysis.TheoreticalDays = result.TheoreticalDays
	analysis.TheoreticalHours = result.TheoreticalHours
	analysis.ActualDays = result.ActualDays
	analysis.ActualHours = result.ActualHours
	analysis.DifferenceHours = result.DifferenceHours
	analysis.Calendar = result.Calendar
}

// resolveHolidays decodes the submitted holiday JSON or falls back to the
// official catalogue for the year.
func (s *AnalysisService) resolveHolidays(raw string, year int) (models.HolidayList, error) {
	if raw == "" {
		return s.holidays.ForYear(year), nil
	}
	var list models.HolidayList
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "holidays_data must be a JSON array of holidays")
	}
	for _, holiday := range list {
		if _, err := engine.ParseDate(holiday.Date); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid holiday date %q, expected YYYY-MM-DD", holiday.Date))
		}
	}
	return list, nil
}

func (s *AnalysisService) parseUpload(upload *AttendanceUpload, year int) (models.AttendanceList, error) {
	if upload == nil || upload.Reader == nil {
		return models.AttendanceList{}, nil
	}
	records, err := s.parser.Parse(upload.Reader, upload.Filename, year)
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrEmptyFile),
			errors.Is(err, ingest.ErrTooFewColumns),
			errors.Is(err, ingest.ErrNoValidRecords):
			return nil, appErrors.Clone(appErrors.ErrInvalidUpload, err.Error())
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrInvalidUpload.Code, appErrors.ErrInvalidUpload.Status, "attendance file could not be parsed")
		}
	}
	return records, nil
}

func (s *AnalysisService) loadAnalysis(ctx context.Context, id string) (*models.Analysis, error) {
	analysis, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrAnalysisNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load analysis")
	}
	return analysis, nil
}

func (s *AnalysisService) loadEmployee(ctx context.Context, id string) (*models.Employee, error) {
	employee, err := s.employees.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrEmployeeNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}
	return employee, nil
}

func (s *AnalysisService) invalidateCache(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, analysisCachePattern); err != nil {
		s.logger.Sugar().Warnw("analysis cache invalidation failed", "error", err)
	}
}

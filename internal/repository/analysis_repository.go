package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hrlab/worktime-api/internal/models"
)

const analysisColumns = `id, employee_id, year, daily_working_hours, weekly_working_days,
        annual_leave_total, annual_leave_used, extra_leave_days,
        holidays_data, attendance_data,
        possible_days, theoretical_days, theoretical_hours, actual_days, actual_hours, difference_hours,
        calendar_data, created_at, updated_at`

// AnalysisRepository manages persistence for working-time analyses.
type AnalysisRepository struct {
	db *sqlx.DB
}

// NewAnalysisRepository constructs an AnalysisRepository.
func NewAnalysisRepository(db *sqlx.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// List returns analyses matching the provided filters.
func (r *AnalysisRepository) List(ctx context.Context, filter models.AnalysisFilter) ([]models.Analysis, int, error) {
	base := "FROM analyses"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", len(args)+1))
		args = append(args, filter.EmployeeID)
	}
	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("year = $%d", len(args)+1))
		args = append(args, *filter.Year)
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	allowedSorts := map[string]string{
		"year":       "year",
		"created_at": "created_at",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d",
		analysisColumns, base, column, order, size, offset)

	var analyses []models.Analysis
	if err := r.db.SelectContext(ctx, &analyses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list analyses: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count analyses: %w", err)
	}
	return analyses, total, nil
}

// FindByID fetches an analysis by ID.
func (r *AnalysisRepository) FindByID(ctx context.Context, id string) (*models.Analysis, error) {
	query := fmt.Sprintf("SELECT %s FROM analyses WHERE id = $1", analysisColumns)
	var analysis models.Analysis
	if err := r.db.GetContext(ctx, &analysis, query, id); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// Create inserts a new analysis row.
func (r *AnalysisRepository) Create(ctx context.Context, analysis *models.Analysis) error {
	if analysis.ID == "" {
		analysis.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if analysis.CreatedAt.IsZero() {
		analysis.CreatedAt = now
	}
	analysis.UpdatedAt = now
	const query = `INSERT INTO analyses (id, employee_id, year, daily_working_hours, weekly_working_days,
        annual_leave_total, annual_leave_used, extra_leave_days,
        holidays_data, attendance_data,
        possible_days, theoretical_days, theoretical_hours, actual_days, actual_hours, difference_hours,
        calendar_data, created_at, updated_at)
        VALUES (:id, :employee_id, :year, :daily_working_hours, :weekly_working_days,
        :annual_leave_total, :annual_leave_used, :extra_leave_days,
        :holidays_data, :attendance_data,
        :possible_days, :theoretical_days, :theoretical_hours, :actual_days, :actual_hours, :difference_hours,
        :calendar_data, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, analysis); err != nil {
		return fmt.Errorf("create analysis: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of an analysis row.
func (r *AnalysisRepository) Update(ctx context.Context, analysis *models.Analysis) error {
	analysis.UpdatedAt = time.Now().UTC()
	const query = `UPDATE analyses SET year = :year, daily_working_hours = :daily_working_hours,
        weekly_working_days = :weekly_working_days, annual_leave_total = :annual_leave_total,
        annual_leave_used = :annual_leave_used, extra_leave_days = :extra_leave_days,
        holidays_data = :holidays_data, attendance_data = :attendance_data,
        possible_days = :possible_days, theoretical_days = :theoretical_days, theoretical_hours = :theoretical_hours,
        actual_days = :actual_days, actual_hours = :actual_hours, difference_hours = :difference_hours,
        calendar_data = :calendar_data, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, analysis); err != nil {
		return fmt.Errorf("update analysis: %w", err)
	}
	return nil
}

// Delete removes an analysis and returns whether a row was affected.
func (r *AnalysisRepository) Delete(ctx context.Context, id string) (bool, error) {
	const query = `DELETE FROM analyses WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete analysis: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete analysis result: %w", err)
	}
	return affected > 0, nil
}

// DeleteByEmployee removes every analysis belonging to an employee.
func (r *AnalysisRepository) DeleteByEmployee(ctx context.Context, employeeID string) error {
	const query = `DELETE FROM analyses WHERE employee_id = $1`
	if _, err := r.db.ExecContext(ctx, query, employeeID); err != nil {
		return fmt.Errorf("delete analyses for employee: %w", err)
	}
	return nil
}

package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/hrlab/worktime-api/internal/dto"
	"github.com/hrlab/worktime-api/internal/models"
	appErrors "github.com/hrlab/worktime-api/pkg/errors"
)

type employeeRepository interface {
	List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, int, error)
	FindByID(ctx context.Context, id string) (*models.Employee, error)
	Create(ctx context.Context, employee *models.Employee) error
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, id string) (bool, error)
}

type analysisRemover interface {
	DeleteByEmployee(ctx context.Context, employeeID string) error
}

// EmployeeService handles employee use-cases.
type EmployeeService struct {
	repo     employeeRepository
	analyses analysisRemover
	cache    *CacheService
	logger   *zap.Logger
}

// NewEmployeeService constructs the employee service.
func NewEmployeeService(repo employeeRepository, analyses analysisRemover, cache *CacheService, logger *zap.Logger) *EmployeeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{repo: repo, analyses: analyses, cache: cache, logger: logger}
}

// List returns employees and pagination metadata.
func (s *EmployeeService) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, *models.Pagination, error) {
	employees, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list employees")
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
	return employees, pagination, nil
}

// Get returns a single employee.
func (s *EmployeeService) Get(ctx context.Context, id string) (*models.Employee, error) {
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrEmployeeNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}
	return employee, nil
}

// Create registers a new employee.
func (s *EmployeeService) Create(ctx context.Context, req dto.EmployeeCreateRequest) (*models.Employee, error) {
	employee := &models.Employee{
		Name:    req.Name,
		Surname: req.Surname,
	}
	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create employee")
	}
	return employee, nil
}

// Update modifies an existing employee record.
func (s *EmployeeService) Update(ctx context.Context, id string, req dto.EmployeeUpdateRequest) (*models.Employee, error) {
	employee, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	employee.Name = req.Name
	employee.Surname = req.Surname
	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update employee")
	}
	s.invalidateAnalysisCache(ctx)
	return employee, nil
}

// Delete removes an employee together with their analyses.
func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	if s.analyses != nil {
		if err := s.analyses.DeleteByEmployee(ctx, id); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete employee analyses")
		}
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete employee")
	}
	if !deleted {
		return appErrors.ErrEmployeeNotFound
	}
	s.invalidateAnalysisCache(ctx)
	return nil
}

func (s *EmployeeService) invalidateAnalysisCache(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, analysisCachePattern); err != nil {
		s.logger.Sugar().Warnw("analysis cache invalidation failed", "error", err)
	}
}

package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hrlab/worktime-api/internal/dto"
	"github.com/hrlab/worktime-api/internal/models"
	appErrors "github.com/hrlab/worktime-api/pkg/errors"
)

type employeeRepoStub struct {
	items map[string]*models.Employee
}

func newEmployeeRepoStub() *employeeRepoStub {
	return &employeeRepoStub{items: map[string]*models.Employee{}}
}

func (r *employeeRepoStub) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, int, error) {
	var out []models.Employee
	for _, e := range r.items {
		out = append(out, *e)
	}
	return out, len(out), nil
}

func (r *employeeRepoStub) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	e, ok := r.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *e
	return &copied, nil
}

func (r *employeeRepoStub) Create(ctx context.Context, employee *models.Employee) error {
	if employee.ID == "" {
		employee.ID = uuid.NewString()
	}
	employee.CreatedAt = time.Now().UTC()
	employee.UpdatedAt = employee.CreatedAt
	r.items[employee.ID] = employee
	return nil
}

func (r *employeeRepoStub) Update(ctx context.Context, employee *models.Employee) error {
	if _, ok := r.items[employee.ID]; !ok {
		return sql.ErrNoRows
	}
	r.items[employee.ID] = employee
	return nil
}

func (r *employeeRepoStub) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

func newEmployeeServiceForTest(t *testing.T) (*EmployeeService, *employeeRepoStub, *analysisRepoStub) {
	t.Helper()
	repo := newEmployeeRepoStub()
	analyses := newAnalysisRepoStub()
	return NewEmployeeService(repo, analyses, nil, zap.NewNop()), repo, analyses
}

func TestEmployeeServiceCreateAndGet(t *testing.T) {
	svc, _, _ := newEmployeeServiceForTest(t)

	created, err := svc.Create(context.Background(), dto.EmployeeCreateRequest{Name: "Mehmet", Surname: "Demir"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	fetched, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mehmet", fetched.Name)
	assert.Equal(t, "Demir", fetched.Surname)
}

func TestEmployeeServiceGetNotFound(t *testing.T) {
	svc, _, _ := newEmployeeServiceForTest(t)

	_, err := svc.Get(context.Background(), uuid.NewString())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrEmployeeNotFound.Code, appErrors.FromError(err).Code)
}

func TestEmployeeServiceListPaginationDefaults(t *testing.T) {
	svc, repo, _ := newEmployeeServiceForTest(t)
	repo.items["e1"] = &models.Employee{ID: "e1", Name: "Ali", Surname: "Kaya"}

	employees, pagination, err := svc.List(context.Background(), models.EmployeeFilter{})
	require.NoError(t, err)
	assert.Len(t, employees, 1)
	require.NotNil(t, pagination)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
	assert.Equal(t, 1, pagination.TotalCount)
}

func TestEmployeeServiceUpdate(t *testing.T) {
	svc, _, _ := newEmployeeServiceForTest(t)

	created, err := svc.Create(context.Background(), dto.EmployeeCreateRequest{Name: "Ali", Surname: "Kaya"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, dto.EmployeeUpdateRequest{Name: "Ali", Surname: "Celik"})
	require.NoError(t, err)
	assert.Equal(t, "Celik", updated.Surname)
}

func TestEmployeeServiceDeleteCascadesAnalyses(t *testing.T) {
	svc, repo, analyses := newEmployeeServiceForTest(t)
	repo.items["e1"] = &models.Employee{ID: "e1", Name: "Ali", Surname: "Kaya"}
	analyses.items["a1"] = &models.Analysis{ID: "a1", EmployeeID: "e1", Year: 2025}
	analyses.items["a2"] = &models.Analysis{ID: "a2", EmployeeID: "other", Year: 2025}

	require.NoError(t, svc.Delete(context.Background(), "e1"))
	assert.NotContains(t, repo.items, "e1")
	assert.NotContains(t, analyses.items, "a1")
	assert.Contains(t, analyses.items, "a2")
}

func TestEmployeeServiceDeleteNotFound(t *testing.T) {
	svc, _, _ := newEmployeeServiceForTest(t)

	err := svc.Delete(context.Background(), uuid.NewString())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrEmployeeNotFound.Code, appErrors.FromError(err).Code)
}

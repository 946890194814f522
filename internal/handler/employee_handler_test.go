package handler

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hrlab/worktime-api/internal/models"
	"github.com/hrlab/worktime-api/internal/service"
)

type emptyEmployeeRepo struct{}

func (emptyEmployeeRepo) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, int, error) {
	return nil, 0, nil
}

func (emptyEmployeeRepo) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	return nil, sql.ErrNoRows
}

func (emptyEmployeeRepo) Create(ctx context.Context, employee *models.Employee) error {
	employee.ID = "emp-1"
	return nil
}

func (emptyEmployeeRepo) Update(ctx context.Context, employee *models.Employee) error {
	return nil
}

func (emptyEmployeeRepo) Delete(ctx context.Context, id string) (bool, error) {
	return false, nil
}

func newEmployeeHandlerForTest() *EmployeeHandler {
	employees := service.NewEmployeeService(emptyEmployeeRepo{}, nil, nil, zap.NewNop())
	return NewEmployeeHandler(employees)
}

func TestEmployeeHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newEmployeeHandlerForTest()

	c, w := newGinContext(http.MethodPost, "/employees", []byte(`{"name":"Ayse","surname":"Yilmaz"}`))

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), "emp-1")
}

func TestEmployeeHandlerCreateInvalidPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newEmployeeHandlerForTest()

	c, w := newGinContext(http.MethodPost, "/employees", []byte(`{"name":""}`))

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestEmployeeHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newEmployeeHandlerForTest()

	c, w := newGinContext(http.MethodGet, "/employees/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "EMPLOYEE_NOT_FOUND")
}

func TestEmployeeHandlerDeleteNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newEmployeeHandlerForTest()

	c, w := newGinContext(http.MethodDelete, "/employees/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Delete(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestHolidayHandlerForYear(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHolidayHandler(nil)

	c, w := newGinContext(http.MethodGet, "/holidays/2025", nil)
	c.Params = gin.Params{{Key: "year", Value: "2025"}}

	handler.ForYear(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "2025-04-23")
}

func TestHolidayHandlerForYearInvalid(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHolidayHandler(nil)

	c, w := newGinContext(http.MethodGet, "/holidays/abc", nil)
	c.Params = gin.Params{{Key: "year", Value: "abc"}}

	handler.ForYear(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHolidayHandlerYears(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHolidayHandler(nil)

	c, w := newGinContext(http.MethodGet, "/holidays", nil)

	handler.Years(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "2022")
	require.Contains(t, w.Body.String(), "2026")
}

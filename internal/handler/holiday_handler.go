package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hrlab/worktime-api/internal/holidays"
	appErrors "github.com/hrlab/worktime-api/pkg/errors"
	"github.com/hrlab/worktime-api/pkg/response"
)

// HolidayHandler serves the built-in public holiday catalogue.
type HolidayHandler struct {
	provider holidays.Provider
}

// NewHolidayHandler constructs HolidayHandler.
func NewHolidayHandler(provider holidays.Provider) *HolidayHandler {
	if provider == nil {
		provider = holidays.NewTurkeyProvider()
	}
	return &HolidayHandler{provider: provider}
}

// Years godoc
// @Summary List years covered by the holiday catalogue
// @Tags Holidays
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /holidays [get]
func (h *HolidayHandler) Years(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.provider.Years(), nil)
}

// ForYear godoc
// @Summary List public holidays for a year
// @Tags Holidays
// @Produce json
// @Param year path int true "Year"
// @Success 200 {object} response.Envelope
// @Router /holidays/{year} [get]
func (h *HolidayHandler) ForYear(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 2000 || year > 2100 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year must be a number between 2000 and 2100"))
		return
	}
	response.JSON(c, http.StatusOK, h.provider.ForYear(year), nil)
}

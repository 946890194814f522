package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hrlab/worktime-api/internal/dto"
	"github.com/hrlab/worktime-api/internal/service"
	"github.com/hrlab/worktime-api/pkg/config"
	appErrors "github.com/hrlab/worktime-api/pkg/errors"
	"github.com/hrlab/worktime-api/pkg/response"
)

const attendanceFileField = "attendance_file"

// AnalysisHandler exposes working-time analysis endpoints.
type AnalysisHandler struct {
	analyses *service.AnalysisService
	exporter *service.ExportService
	uploads  config.UploadsConfig
}

// NewAnalysisHandler constructs AnalysisHandler.
func NewAnalysisHandler(analyses *service.AnalysisService, exporter *service.ExportService, uploads config.UploadsConfig) *AnalysisHandler {
	return &AnalysisHandler{analyses: analyses, exporter: exporter, uploads: uploads}
}

// List godoc
// @Summary List analyses
// @Tags Analyses
// @Produce json
// @Param employee_id query string false "Filter by employee"
// @Param year query int false "Filter by year"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /analyses [get]
func (h *AnalysisHandler) List(c *gin.Context) {
	var query dto.AnalysisListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	analyses, pagination, err := h.analyses.List(c.Request.Context(), query.Filter())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, analyses, pagination)
}

// Get godoc
// @Summary Get a calculated analysis
// @Tags Analyses
// @Produce json
// @Param id path string true "Analysis ID"
// @Success 200 {object} response.Envelope
// @Router /analyses/{id} [get]
func (h *AnalysisHandler) Get(c *gin.Context) {
	resp, cached, err := h.analyses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	var meta map[string]interface{}
	if cached {
		meta = map[string]interface{}{"cache": "hit"}
	}
	response.JSON(c, http.StatusOK, resp, nil, meta)
}

// Create godoc
// @Summary Create and calculate an analysis
// @Tags Analyses
// @Accept mpfd
// @Produce json
// @Param employee_id formData string true "Employee ID"
// @Param year formData int true "Year"
// @Param daily_working_hours formData number true "Daily working hours"
// @Param weekly_working_days formData number true "Weekly working day pattern"
// @Param annual_leave_total formData number false "Annual leave total"
// @Param annual_leave_used formData number false "Annual leave used"
// @Param extra_leave_days formData number false "Extra leave days"
// @Param holidays_data formData string false "Holiday list as JSON"
// @Param attendance_file formData file false "Attendance workbook or CSV"
// @Success 201 {object} response.Envelope
// @Router /analyses [post]
func (h *AnalysisHandler) Create(c *gin.Context) {
	var req dto.AnalysisCreateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid form payload"))
		return
	}
	upload, closeUpload, err := h.attendanceUpload(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closeUpload()

	resp, err := h.analyses.Create(c.Request.Context(), req, upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resp)
}

// Update godoc
// @Summary Recalculate an analysis with new inputs
// @Tags Analyses
// @Accept mpfd
// @Produce json
// @Param id path string true "Analysis ID"
// @Param year formData int true "Year"
// @Param daily_working_hours formData number true "Daily working hours"
// @Param weekly_working_days formData number true "Weekly working day pattern"
// @Param attendance_file formData file false "Attendance workbook or CSV"
// @Success 200 {object} response.Envelope
// @Router /analyses/{id} [put]
func (h *AnalysisHandler) Update(c *gin.Context) {
	var req dto.AnalysisUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid form payload"))
		return
	}
	upload, closeUpload, err := h.attendanceUpload(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closeUpload()

	resp, err := h.analyses.Update(c.Request.Context(), c.Param("id"), req, upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Delete godoc
// @Summary Delete an analysis
// @Tags Analyses
// @Produce json
// @Param id path string true "Analysis ID"
// @Success 204
// @Router /analyses/{id} [delete]
func (h *AnalysisHandler) Delete(c *gin.Context) {
	if err := h.analyses.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ExportPDF godoc
// @Summary Download the analysis report as PDF
// @Tags Analyses
// @Produce application/pdf
// @Param id path string true "Analysis ID"
// @Success 200 {file} binary
// @Router /analyses/{id}/pdf [get]
func (h *AnalysisHandler) ExportPDF(c *gin.Context) {
	payload, filename, err := h.exporter.RenderAnalysisPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", payload)
}

// attendanceUpload extracts the optional attendance file part. The returned
// closer is always safe to defer.
func (h *AnalysisHandler) attendanceUpload(c *gin.Context) (*service.AttendanceUpload, func(), error) {
	noop := func() {}
	fileHeader, err := c.FormFile(attendanceFileField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, appErrors.Clone(appErrors.ErrInvalidUpload, "attendance_file could not be read")
	}
	if h.uploads.MaxFileSizeBytes > 0 && fileHeader.Size > h.uploads.MaxFileSizeBytes {
		return nil, noop, appErrors.Clone(appErrors.ErrInvalidUpload,
			fmt.Sprintf("attendance_file exceeds the %d byte limit", h.uploads.MaxFileSizeBytes))
	}
	if len(h.uploads.AllowedMIMEs) > 0 {
		contentType := fileHeader.Header.Get("Content-Type")
		if !mimeAllowed(contentType, h.uploads.AllowedMIMEs) {
			return nil, noop, appErrors.Clone(appErrors.ErrInvalidUpload,
				fmt.Sprintf("unsupported attendance_file content type %q", contentType))
		}
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, noop, appErrors.Wrap(err, appErrors.ErrInvalidUpload.Code, appErrors.ErrInvalidUpload.Status, "attendance_file could not be opened")
	}
	upload := &service.AttendanceUpload{Reader: file, Filename: fileHeader.Filename}
	return upload, func() { _ = file.Close() }, nil
}

func mimeAllowed(contentType string, allowed []string) bool {
	if contentType == "" {
		return true
	}
	base := contentType
	if idx := strings.Index(base, ";"); idx >= 0 {
		base = base[:idx]
	}
	base = strings.TrimSpace(strings.ToLower(base))
	for _, mime := range allowed {
		if strings.ToLower(mime) == base {
			return true
		}
	}
	return false
}

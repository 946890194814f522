package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hrlab/worktime-api/internal/dto"
	"github.com/hrlab/worktime-api/internal/models"
	"github.com/hrlab/worktime-api/pkg/export"
	"github.com/hrlab/worktime-api/pkg/storage"
)

type reportFileStore interface {
	Save(relPath string, data []byte) (string, error)
	Open(relPath string) (*os.File, error)
	Delete(relPath string) error
	Sweep(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(table export.Table) ([]byte, error)
}

type pdfRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	ExpiresAt    time.Time
}

// ExportService renders analysis reports and persists the generated files.
type ExportService struct {
	analyses *AnalysisService
	storage  reportFileStore
	csv      csvRenderer
	pdf      pdfRenderer
	signer   *storage.DownloadSigner
	metrics  *MetricsService
	logger   *zap.Logger
	cfg      ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(analyses *AnalysisService, store reportFileStore, signer *storage.DownloadSigner, metrics *MetricsService, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		analyses: analyses,
		storage:  store,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		signer:   signer,
		metrics:  metrics,
		logger:   logger,
		cfg:      cfg,
	}
}

// Generate renders the report for a job and stores the result file.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}

	analysis, err := s.analyses.Load(ctx, job.Params.AnalysisID)
	if err != nil {
		return nil, err
	}
	resp, err := s.analyses.Snapshot(ctx, analysis)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(s.buildTable(job.Type, resp))
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(s.buildDocument(job.Type, resp))
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	relPath, err := s.storage.Save(s.buildFilename(job, resp), payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Sign(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	signedURL := fmt.Sprintf("%s/reports/download/%s", prefix, token)

	if s.metrics != nil {
		s.metrics.RecordReport(job.Type, job.Params.Format)
	}

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// RenderAnalysisPDF produces the full analysis report synchronously.
func (s *ExportService) RenderAnalysisPDF(ctx context.Context, analysisID string) ([]byte, string, error) {
	analysis, err := s.analyses.Load(ctx, analysisID)
	if err != nil {
		return nil, "", err
	}
	resp, err := s.analyses.Snapshot(ctx, analysis)
	if err != nil {
		return nil, "", err
	}
	payload, err := s.pdf.Render(s.buildDocument(models.ReportTypeSummary, resp))
	if err != nil {
		return nil, "", err
	}
	if s.metrics != nil {
		s.metrics.RecordReport(models.ReportTypeSummary, models.ReportFormatPDF)
	}
	filename := fmt.Sprintf("analysis_%s_%d.pdf", sanitizeFilename(resp.EmployeeSurname), resp.Year)
	return payload, filename, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Verify(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored report file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl, defaulting to the configured TTL.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.Sweep(ttl)
}

func (s *ExportService) buildFilename(job *models.ReportJob, resp *dto.AnalysisResponse) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	return fmt.Sprintf("%s_%s_%d_%s.%s",
		strings.ToLower(string(job.Type)),
		sanitizeFilename(resp.EmployeeSurname),
		resp.Year,
		timestamp,
		job.Params.Format,
	)
}

// buildTable renders the flat CSV view of a report.
func (s *ExportService) buildTable(reportType models.ReportType, resp *dto.AnalysisResponse) export.Table {
	if reportType == models.ReportTypeCalendar {
		rows := make([][]string, 0, 366)
		for _, month := range resp.CalendarData {
			for _, day := range month.Days {
				hours := ""
				if day.Hours != nil {
					hours = fmt.Sprintf("%.2f", *day.Hours)
				}
				rows = append(rows, []string{day.Date, day.WeekdayName, string(day.Status), hours, day.Note})
			}
		}
		return export.Table{
			Columns: []string{"Date", "Weekday", "Status", "Hours", "Note"},
			Rows:    rows,
		}
	}

	rows := make([][]string, 0, len(resp.MonthlyBreakdown))
	for _, month := range resp.MonthlyBreakdown {
		rows = append(rows, []string{
			month.MonthName,
			fmt.Sprintf("%d", month.WorkedDays),
			fmt.Sprintf("%.2f", month.WorkedHours),
			fmt.Sprintf("%d", month.Holidays),
			fmt.Sprintf("%d", month.Weekends),
			fmt.Sprintf("%d", month.Missing),
		})
	}
	return export.Table{
		Columns: []string{"Month", "Worked Days", "Worked Hours", "Holidays", "Weekends", "Missing"},
		Rows:    rows,
	}
}

// buildDocument renders the structured PDF view of a report.
func (s *ExportService) buildDocument(reportType models.ReportType, resp *dto.AnalysisResponse) export.Document {
	doc := export.Document{
		Title:    "Working Time Analysis Report",
		Subtitle: fmt.Sprintf("%s %s - %d", resp.EmployeeName, resp.EmployeeSurname, resp.Year),
	}

	doc.Sections = append(doc.Sections, export.Section{
		Heading: "Summary",
		Fields: []export.Field{
			{Label: "Daily Working Hours", Value: fmt.Sprintf("%.2f", resp.DailyWorkingHours)},
			{Label: "Weekly Working Days", Value: fmt.Sprintf("%.1f", resp.WeeklyWorkingDays)},
			{Label: "Annual Leave Used", Value: fmt.Sprintf("%.1f / %.1f", resp.AnnualLeaveUsed, resp.AnnualLeaveTotal)},
			{Label: "Extra Leave Days", Value: fmt.Sprintf("%.1f", resp.ExtraLeaveDays)},
			{Label: "Total Holidays", Value: fmt.Sprintf("%d", resp.TotalHolidays)},
			{Label: "Possible Working Days", Value: fmt.Sprintf("%.2f", resp.PossibleWorkingDays)},
			{Label: "Theoretical Working Days", Value: fmt.Sprintf("%.2f", resp.TheoreticalWorkingDays)},
			{Label: "Theoretical Working Hours", Value: fmt.Sprintf("%.2f", resp.TheoreticalWorkingHours)},
			{Label: "Actual Working Days", Value: formatOptional(resp.ActualWorkingDays, "%.2f")},
			{Label: "Actual Working Hours", Value: formatOptional(resp.ActualWorkingHours, "%.2f")},
			{Label: "Hours Difference", Value: formatOptional(resp.HoursDifference, "%+.2f")},
		},
	})

	monthTable := s.buildTable(models.ReportTypeSummary, resp)
	doc.Sections = append(doc.Sections, export.Section{
		Heading: "Monthly Breakdown",
		Table:   &monthTable,
	})

	if reportType == models.ReportTypeCalendar {
		calendarTable := s.buildTable(models.ReportTypeCalendar, resp)
		doc.Sections = append(doc.Sections, export.Section{
			Heading: "Calendar",
			Table:   &calendarTable,
		})
	}

	return doc
}

// formatOptional renders nil figures as a dash, matching the null JSON
// fields of analyses created without attendance data.
func formatOptional(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(strings.ToLower(raw))
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

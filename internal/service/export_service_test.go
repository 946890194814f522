package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hrlab/worktime-api/internal/models"
	"github.com/hrlab/worktime-api/pkg/storage"
)

func newExportServiceForTest(t *testing.T) (*ExportService, string) {
	t.Helper()
	svc, _, _ := newAnalysisServiceForTest(t, parserStub{})
	created, err := svc.Create(context.Background(), createRequest(), nil)
	require.NoError(t, err)

	store, err := storage.NewReportStore(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewDownloadSigner("test-secret", time.Hour)
	exporter := NewExportService(svc, store, signer, nil, ExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour}, zap.NewNop())
	return exporter, created.ID
}

func TestExportServiceGenerateCSV(t *testing.T) {
	exporter, analysisID := newExportServiceForTest(t)
	job := &models.ReportJob{
		ID:     "job-csv",
		Type:   models.ReportTypeSummary,
		Params: models.ReportJobParams{AnalysisID: analysisID, Format: models.ReportFormatCSV},
	}

	result, err := exporter.Generate(context.Background(), job)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.URL, "/api/v1/reports/download/"))
	assert.True(t, strings.HasSuffix(result.RelativePath, ".csv"))

	file, err := exporter.Open(result.RelativePath)
	require.NoError(t, err)
	defer file.Close()
	info, err := file.Stat()
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	jobID, relPath, _, err := exporter.ParseToken(result.Token, false)
	require.NoError(t, err)
	assert.Equal(t, job.ID, jobID)
	assert.Equal(t, result.RelativePath, relPath)
}

func TestExportServiceGeneratePDF(t *testing.T) {
	exporter, analysisID := newExportServiceForTest(t)
	job := &models.ReportJob{
		ID:     "job-pdf",
		Type:   models.ReportTypeCalendar,
		Params: models.ReportJobParams{AnalysisID: analysisID, Format: models.ReportFormatPDF},
	}

	result, err := exporter.Generate(context.Background(), job)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(result.RelativePath, ".pdf"))

	file, err := exporter.Open(result.RelativePath)
	require.NoError(t, err)
	defer file.Close()
	header := make([]byte, 4)
	_, err = file.Read(header)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(header))
}

func TestExportServiceGenerateUnknownAnalysis(t *testing.T) {
	exporter, _ := newExportServiceForTest(t)
	job := &models.ReportJob{
		ID:     "job-missing",
		Type:   models.ReportTypeSummary,
		Params: models.ReportJobParams{AnalysisID: "00000000-0000-0000-0000-000000000000", Format: models.ReportFormatCSV},
	}

	_, err := exporter.Generate(context.Background(), job)
	require.Error(t, err)
}

func TestExportServiceRenderAnalysisPDF(t *testing.T) {
	exporter, analysisID := newExportServiceForTest(t)

	payload, filename, err := exporter.RenderAnalysisPDF(context.Background(), analysisID)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("analysis_yilmaz_%d.pdf", 2025), filename)
	require.Greater(t, len(payload), 4)
	assert.Equal(t, "%PDF", string(payload[:4]))
}

func TestExportServiceDelete(t *testing.T) {
	exporter, analysisID := newExportServiceForTest(t)
	job := &models.ReportJob{
		ID:     "job-delete",
		Type:   models.ReportTypeSummary,
		Params: models.ReportJobParams{AnalysisID: analysisID, Format: models.ReportFormatCSV},
	}
	result, err := exporter.Generate(context.Background(), job)
	require.NoError(t, err)

	require.NoError(t, exporter.Delete(result.RelativePath))
	_, err = exporter.Open(result.RelativePath)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hrlab/worktime-api/internal/dto"
	"github.com/hrlab/worktime-api/internal/ingest"
	"github.com/hrlab/worktime-api/internal/models"
	appErrors "github.com/hrlab/worktime-api/pkg/errors"
)

type analysisRepoStub struct {
	items map[string]*models.Analysis
}

func newAnalysisRepoStub() *analysisRepoStub {
	return &analysisRepoStub{items: map[string]*models.Analysis{}}
}

func (r *analysisRepoStub) List(ctx context.Context, filter models.AnalysisFilter) ([]models.Analysis, int, error) {
	var out []models.Analysis
	for _, a := range r.items {
		out = append(out, *a)
	}
	return out, len(out), nil
}

func (r *analysisRepoStub) FindByID(ctx context.Context, id string) (*models.Analysis, error) {
	a, ok := r.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *a
	return &copied, nil
}

func (r *analysisRepoStub) Create(ctx context.Context, analysis *models.Analysis) error {
	if analysis.ID == "" {
		analysis.ID = uuid.NewString()
	}
	analysis.CreatedAt = time.Now().UTC()
	r.items[analysis.ID] = analysis
	return nil
}

func (r *analysisRepoStub) Update(ctx context.Context, analysis *models.Analysis) error {
	if _, ok := r.items[analysis.ID]; !ok {
		return sql.ErrNoRows
	}
	r.items[analysis.ID] = analysis
	return nil
}

func (r *analysisRepoStub) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

func (r *analysisRepoStub) DeleteByEmployee(ctx context.Context, employeeID string) error {
	for id, a := range r.items {
		if a.EmployeeID == employeeID {
			delete(r.items, id)
		}
	}
	return nil
}

type employeeFinderStub struct {
	items map[string]*models.Employee
}

func (r employeeFinderStub) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	e, ok := r.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return e, nil
}

type parserStub struct {
	records models.AttendanceList
	err     error
}

func (p parserStub) Parse(r io.Reader, filename string, year int) (models.AttendanceList, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.records, nil
}

type providerStub struct {
	byYear map[int]models.HolidayList
}

func (p providerStub) ForYear(year int) models.HolidayList {
	return p.byYear[year]
}

func (p providerStub) Years() []int {
	years := make([]int, 0, len(p.byYear))
	for y := range p.byYear {
		years = append(years, y)
	}
	return years
}

type cacheRepoStub struct {
	data map[string][]byte
}

func newCacheRepoStub() *cacheRepoStub {
	return &cacheRepoStub{data: map[string][]byte{}}
}

func (c *cacheRepoStub) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *cacheRepoStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *cacheRepoStub) DeleteByPattern(ctx context.Context, pattern string) error {
	c.data = map[string][]byte{}
	return nil
}

const testEmployeeID = "6f1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d"

func testProvider() providerStub {
	return providerStub{byYear: map[int]models.HolidayList{
		2024: {
			{Date: "2024-01-01", Name: "New Year"},
		},
		2025: {
			{Date: "2025-01-01", Name: "New Year"},
			{Date: "2025-04-23", Name: "National Day"},
		},
	}}
}

func newAnalysisServiceForTest(t *testing.T, parser attendanceParser) (*AnalysisService, *analysisRepoStub, *cacheRepoStub) {
	t.Helper()
	repo := newAnalysisRepoStub()
	employees := employeeFinderStub{items: map[string]*models.Employee{
		testEmployeeID: {ID: testEmployeeID, Name: "Ayse", Surname: "Yilmaz"},
	}}
	cacheRepo := newCacheRepoStub()
	cache := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true)
	svc := NewAnalysisService(repo, employees, parser, testProvider(), cache, nil, zap.NewNop())
	return svc, repo, cacheRepo
}

func createRequest() dto.AnalysisCreateRequest {
	return dto.AnalysisCreateRequest{
		EmployeeID:        testEmployeeID,
		Year:              2025,
		DailyWorkingHours: 8,
		WeeklyWorkingDays: 5.5,
		AnnualLeaveTotal:  14,
		AnnualLeaveUsed:   10,
		ExtraLeaveDays:    2,
		HolidaysData:      "[]",
	}
}

func TestAnalysisServiceCreateComputesTotals(t *testing.T) {
	svc, repo, _ := newAnalysisServiceForTest(t, parserStub{})

	resp, err := svc.Create(context.Background(), createRequest(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)
	assert.Contains(t, repo.items, resp.ID)

	// 287 possible days at a 5.5 day week, minus 10 used and 2 extra leave days.
	assert.Equal(t, 287.0, resp.PossibleWorkingDays)
	assert.Equal(t, 275.0, resp.TheoreticalWorkingDays)
	assert.Equal(t, 2200.0, resp.TheoreticalWorkingHours)
	assert.Zero(t, resp.TotalHolidays)
	assert.Equal(t, "Ayse", resp.EmployeeName)
	assert.Equal(t, "Yilmaz", resp.EmployeeSurname)
	assert.Len(t, resp.MonthlyBreakdown, 12)

	// No attendance file: actual figures are null, not zero.
	assert.Nil(t, resp.ActualWorkingDays)
	assert.Nil(t, resp.ActualWorkingHours)
	assert.Nil(t, resp.HoursDifference)
	assert.False(t, resp.HasAttendanceData)
	assert.False(t, resp.IsMissingHours)
	assert.False(t, resp.IsOvertime)
}

func TestAnalysisServiceCreateWithoutAttendanceSerializesNulls(t *testing.T) {
	svc, _, _ := newAnalysisServiceForTest(t, parserStub{})

	resp, err := svc.Create(context.Background(), createRequest(), nil)
	require.NoError(t, err)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"actual_working_days":null`)
	assert.Contains(t, string(raw), `"actual_working_hours":null`)
	assert.Contains(t, string(raw), `"hours_difference":null`)
	assert.Contains(t, string(raw), `"is_missing_hours":false`)
}

func TestAnalysisServiceCreateDefaultHolidays(t *testing.T) {
	svc, _, _ := newAnalysisServiceForTest(t, parserStub{})

	req := createRequest()
	req.HolidaysData = ""
	resp, err := svc.Create(context.Background(), req, nil)
	require.NoError(t, err)
	require.Len(t, resp.HolidaysData, 2)
	assert.Equal(t, "2025-04-23", resp.HolidaysData[1].Date)
	assert.Equal(t, 2, resp.TotalHolidays)
}

func TestAnalysisServiceCreateEmployeeNotFound(t *testing.T) {
	svc, _, _ := newAnalysisServiceForTest(t, parserStub{})

	req := createRequest()
	req.EmployeeID = uuid.NewString()
	_, err := svc.Create(context.Background(), req, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrEmployeeNotFound.Code, appErrors.FromError(err).Code)
}

func TestAnalysisServiceCreateInvalidHolidayJSON(t *testing.T) {
	svc, _, _ := newAnalysisServiceForTest(t, parserStub{})

	req := createRequest()
	req.HolidaysData = "not json"
	_, err := svc.Create(context.Background(), req, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAnalysisServiceCreateInvalidHolidayDate(t *testing.T) {
	svc, _, _ := newAnalysisServiceForTest(t, parserStub{})

	req := createRequest()
	req.HolidaysData = `[{"date":"31-12-2025","name":"Broken"}]`
	_, err := svc.Create(context.Background(), req, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAnalysisServiceCreateWithUpload(t *testing.T) {
	parser := parserStub{records: models.AttendanceList{
		{Date: "2025-01-06", CheckIn: "09:00", CheckOut: "17:00", Hours: 8},
		{Date: "2025-01-07", CheckIn: "09:00", CheckOut: "16:30", Hours: 7.5},
	}}
	svc, _, _ := newAnalysisServiceForTest(t, parser)

	upload := &AttendanceUpload{Reader: strings.NewReader("irrelevant"), Filename: "attendance.xlsx"}
	resp, err := svc.Create(context.Background(), createRequest(), upload)
	require.NoError(t, err)
	require.NotNil(t, resp.ActualWorkingDays)
	assert.Equal(t, 2.0, *resp.ActualWorkingDays)
	require.NotNil(t, resp.ActualWorkingHours)
	assert.Equal(t, 15.5, *resp.ActualWorkingHours)
	assert.True(t, resp.HasAttendanceData)
	require.NotNil(t, resp.HoursDifference)
	assert.Equal(t, -2184.5, *resp.HoursDifference)
	assert.True(t, resp.IsMissingHours)
}

func TestAnalysisServiceCreateUploadError(t *testing.T) {
	svc, _, _ := newAnalysisServiceForTest(t, parserStub{err: ingest.ErrNoValidRecords})

	upload := &AttendanceUpload{Reader: strings.NewReader("irrelevant"), Filename: "attendance.csv"}
	_, err := svc.Create(context.Background(), createRequest(), upload)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidUpload.Code, appErrors.FromError(err).Code)
}

func TestAnalysisServiceGetCachesResponse(t *testing.T) {
	svc, _, cacheRepo := newAnalysisServiceForTest(t, parserStub{})

	created, err := svc.Create(context.Background(), createRequest(), nil)
	require.NoError(t, err)

	first, hit, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NotEmpty(t, cacheRepo.data)

	second, hit, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first.TheoreticalWorkingHours, second.TheoreticalWorkingHours)
}

func TestAnalysisServiceGetNotFound(t *testing.T) {
	svc, _, _ := newAnalysisServiceForTest(t, parserStub{})

	_, _, err := svc.Get(context.Background(), uuid.NewString())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAnalysisNotFound.Code, appErrors.FromError(err).Code)
}

func TestAnalysisServiceUpdateYearRefetchesHolidays(t *testing.T) {
	svc, _, _ := newAnalysisServiceForTest(t, parserStub{})

	req := createRequest()
	req.HolidaysData = ""
	created, err := svc.Create(context.Background(), req, nil)
	require.NoError(t, err)
	require.Len(t, created.HolidaysData, 2)

	update := dto.AnalysisUpdateRequest{
		Year:              2024,
		DailyWorkingHours: 8,
		WeeklyWorkingDays: 5.5,
		AnnualLeaveTotal:  14,
		AnnualLeaveUsed:   10,
		ExtraLeaveDays:    2,
	}
	resp, err := svc.Update(context.Background(), created.ID, update, nil)
	require.NoError(t, err)
	require.Len(t, resp.HolidaysData, 1)
	assert.Equal(t, "2024-01-01", resp.HolidaysData[0].Date)
	assert.Equal(t, 2024, resp.Year)
}

func TestAnalysisServiceDeleteNotFound(t *testing.T) {
	svc, _, _ := newAnalysisServiceForTest(t, parserStub{})

	err := svc.Delete(context.Background(), uuid.NewString())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAnalysisNotFound.Code, appErrors.FromError(err).Code)
}

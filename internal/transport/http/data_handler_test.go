package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecdash/internal/dataprocessing"
	apierrors "ecdash/internal/errors"
	"ecdash/internal/services"
	"ecdash/pkg/contracts/domain"
)

// stubDataService is a canned-response implementation for handler tests.
type stubDataService struct {
	environment *services.EnvironmentTable
	growth      *services.GrowthTable
	summary     *services.SummaryReport
	envSummary  []domain.EnvironmentSummary
	overview    *services.Overview
	dataset     *dataprocessing.Dataset
	err         error
}

func (s *stubDataService) checkFilter(filter string) error {
	if filter == "서울고" {
		return fmt.Errorf("%w: %q", services.ErrUnknownSchool, filter)
	}
	return nil
}

func (s *stubDataService) Environment(_ context.Context, filter string) (*services.EnvironmentTable, error) {
	if err := s.checkFilter(filter); err != nil {
		return nil, err
	}
	return s.environment, s.err
}

func (s *stubDataService) Growth(_ context.Context, filter string) (*services.GrowthTable, error) {
	if err := s.checkFilter(filter); err != nil {
		return nil, err
	}
	return s.growth, s.err
}

func (s *stubDataService) Summary(context.Context) (*services.SummaryReport, error) {
	return s.summary, s.err
}

func (s *stubDataService) EnvironmentSummary(context.Context) ([]domain.EnvironmentSummary, error) {
	return s.envSummary, s.err
}

func (s *stubDataService) Overview(context.Context) (*services.Overview, error) {
	return s.overview, s.err
}

func (s *stubDataService) Schools() []domain.SchoolConfig {
	return []domain.SchoolConfig{{Name: "송도고", ECTarget: 1.0}}
}

func (s *stubDataService) Refresh(context.Context) (*dataprocessing.Dataset, error) {
	return s.dataset, s.err
}

func (s *stubDataService) Ready(context.Context) error {
	return s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestHandler(stub *stubDataService) *DataHandler {
	logger := testLogger()
	return NewDataHandler(stub, logger, apierrors.NewErrorHandler(logger))
}

func doRequest(t *testing.T, h *DataHandler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGetEnvironment(t *testing.T) {
	stub := &stubDataService{
		environment: &services.EnvironmentTable{
			Records: []domain.EnvironmentRecord{
				{Time: "2021-11-01 09:00", Temperature: 21.5, School: "송도고", TargetEC: 1.0},
			},
			MissingSchools: []domain.School{"하늘고"},
		},
	}

	rec := doRequest(t, newTestHandler(stub), http.MethodGet, "/environment")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, []interface{}{"하늘고"}, body["missing_schools"])
}

func TestGetEnvironmentUnknownSchool(t *testing.T) {
	rec := doRequest(t, newTestHandler(&stubDataService{}), http.MethodGet,
		"/environment?school=%EC%84%9C%EC%9A%B8%EA%B3%A0")
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "UNKNOWN_SCHOOL", errObj["error_code"])
}

func TestGetEnvironmentDataDirMissing(t *testing.T) {
	stub := &stubDataService{err: dataprocessing.ErrDataDirNotFound}
	rec := doRequest(t, newTestHandler(stub), http.MethodGet, "/environment")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	body := decodeBody(t, rec)
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "DATA_DIR_MISSING", errObj["error_code"])
}

func TestGetGrowth(t *testing.T) {
	stub := &stubDataService{
		growth: &services.GrowthTable{
			Records: []domain.GrowthRecord{
				{School: "송도고", FreshWeightG: 105.2, LeafCount: 12, ShootLengthMM: 210.5},
			},
			ExtraColumns: []string{"근장(mm)"},
		},
	}

	rec := doRequest(t, newTestHandler(stub), http.MethodGet, "/growth")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, []interface{}{"근장(mm)"}, body["extra_columns"])
}

func TestGetSummary(t *testing.T) {
	stub := &stubDataService{
		summary: &services.SummaryReport{
			Summaries: []domain.SchoolSummary{
				{School: "하늘고", ECTarget: 2.0, Specimens: 10, MeanFreshWeightG: 150.1},
			},
			BestSchool: "하늘고",
		},
	}

	rec := doRequest(t, newTestHandler(stub), http.MethodGet, "/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "하늘고", body["best_school"])
	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	row := data[0].(map[string]interface{})
	assert.Equal(t, 150.1, row["mean_fresh_weight_g"])
}

func TestGetOverview(t *testing.T) {
	stub := &stubDataService{
		overview: &services.Overview{
			TotalSpecimens: 40,
			BestSchool:     "동산고",
			BestECTarget:   8.0,
		},
	}

	rec := doRequest(t, newTestHandler(stub), http.MethodGet, "/overview")
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, float64(40), data["total_specimens"])
	assert.Equal(t, "동산고", data["best_school"])
}

func TestGetSchools(t *testing.T) {
	rec := doRequest(t, newTestHandler(&stubDataService{}), http.MethodGet, "/schools")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["count"])
}

func TestExportEnvironmentCSV(t *testing.T) {
	stub := &stubDataService{
		environment: &services.EnvironmentTable{
			Records: []domain.EnvironmentRecord{
				{Time: "2021-11-01 09:00", Temperature: 21.5, School: "송도고", TargetEC: 1.0},
			},
		},
	}

	rec := doRequest(t, newTestHandler(stub), http.MethodGet, "/export/environment.csv")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="env_data.csv"`)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte{0xEF, 0xBB, 0xBF}),
		"CSV export must start with a UTF-8 BOM")
	assert.Contains(t, rec.Body.String(), "송도고")
}

func TestExportGrowthXLSX(t *testing.T) {
	stub := &stubDataService{
		growth: &services.GrowthTable{
			Records: []domain.GrowthRecord{
				{School: "송도고", FreshWeightG: 105.2, LeafCount: 12, ShootLengthMM: 210.5},
			},
		},
	}

	rec := doRequest(t, newTestHandler(stub), http.MethodGet, "/export/growth.xlsx")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "growth_data.xlsx")
	// XLSX is a zip container.
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}

func TestRefresh(t *testing.T) {
	stub := &stubDataService{
		dataset: &dataprocessing.Dataset{
			Environment: make([]domain.EnvironmentRecord, 8),
			Growth:      make([]domain.GrowthRecord, 4),
		},
	}

	rec := doRequest(t, newTestHandler(stub), http.MethodPost, "/refresh")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, float64(8), body["environment_rows"])
	assert.Equal(t, float64(4), body["growth_rows"])
}

func TestRefreshFailure(t *testing.T) {
	stub := &stubDataService{err: dataprocessing.ErrNoEnvironmentData}
	rec := doRequest(t, newTestHandler(stub), http.MethodPost, "/refresh")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	errObj := decodeBody(t, rec)["error"].(map[string]interface{})
	assert.Equal(t, "ENVIRONMENT_DATA_EMPTY", errObj["error_code"])
}

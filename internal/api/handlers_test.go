package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"expdata/internal/analysis"
	"expdata/internal/models"
	"expdata/internal/service"
	"expdata/internal/state"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const exportDoc = `{
  "participants": [{
    "uniqueId": "p1",
    "conditionName": "Reflection",
    "parameters": {"timezone": "Europe/Berlin", "morningTime": "08:00", "eveningTime": "18:00", "PID": "team-a"},
    "stages": {"activity": [{"name": "Onboarding"}]},
    "answers": [
      {"qId": "Goal-Setting.survey", "answer": ["Good"], "answerTimeStamp": "2021-05-04T18:00:00+02:00", "stageName": "Goal-Setting", "stageDay": 1},
      {"qId": "Goal-Setting.survey", "answer": ["Fine"], "answerTimeStamp": "2021-05-04T18:01:00+02:00", "stageName": "Goal-Setting", "stageDay": 1}
    ]
  }]
}`

func newTestRouter(t *testing.T) (http.Handler, string) {
	t.Helper()
	results := t.TempDir()

	an, err := analysis.NewService(analysis.DefaultSchema(), zap.NewNop())
	require.NoError(t, err)
	export := service.NewExportService()
	extraction := service.NewExtractionService(results, an, export, zap.NewNop())
	h := NewHandler(extraction, export, service.NewListService(nil), state.NewAppState(), nil)

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r, results
}

func stage(t *testing.T, results, experimentID, doc string) {
	t.Helper()
	dir := filepath.Join(results, experimentID)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, service.DataFileName), []byte(doc), 0o644))
}

func do(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := do(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestConvertList(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := do(router, http.MethodPost, "/api/lists/json", "  apple \nbanana\n cherry")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, `["apple","banana","cherry"]`, rec.Body.String())
}

func TestExtractUpload(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("csv", func(t *testing.T) {
		rec := do(router, http.MethodPost, "/api/extract", exportDoc)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), service.CSVFileName)

		lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
		require.Len(t, lines, 1+9)
		assert.True(t, strings.HasPrefix(lines[0], "uniqueId,"))
		assert.Contains(t, lines[3], "Good|Fine")
	})

	t.Run("json", func(t *testing.T) {
		rec := do(router, http.MethodPost, "/api/extract?format=json", exportDoc)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp models.TableResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Participants)
		assert.Equal(t, analysis.DefaultSchema().Columns, resp.Headers)
		assert.Len(t, resp.Rows, 9)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := do(router, http.MethodPost, "/api/extract", `{"participants": [`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown category", func(t *testing.T) {
		doc := strings.ReplaceAll(exportDoc, "Goal-Setting.survey", "Mystery.survey")
		rec := do(router, http.MethodPost, "/api/extract", doc)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var resp models.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Error, "Mystery")
	})
}

func TestExperimentLifecycle(t *testing.T) {
	router, results := newTestRouter(t)
	stage(t, results, "exp1", exportDoc)

	rec := do(router, http.MethodGet, "/api/experiments/exp1/preview", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(router, http.MethodPost, "/api/experiments/exp1/extract", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var extracted models.ExtractResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &extracted))
	assert.Equal(t, "exp1", extracted.ExperimentID)
	assert.Equal(t, 1, extracted.Participants)
	assert.Equal(t, 9, extracted.Rows)
	assert.FileExists(t, filepath.Join(results, "exp1", service.CSVFileName))

	rec = do(router, http.MethodGet, "/api/experiments/exp1/preview?rows=3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var preview models.PreviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &preview))
	assert.Equal(t, 9, preview.TotalRows)
	require.Len(t, preview.Data, 3)
	assert.Equal(t, "Goal-Setting", preview.Data[2]["stageName"])
	assert.Equal(t, "Good|Fine", preview.Data[2]["survey"])
	assert.Equal(t, "60", preview.Data[2]["reflectionLength(s)"])

	rec = do(router, http.MethodGet, "/api/experiments/exp1/coverage", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var coverage models.CoverageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &coverage))
	require.Len(t, coverage.Columns, len(analysis.DefaultSchema().Columns))
	assert.Equal(t, "uniqueId", coverage.Columns[0].Column)
	assert.Equal(t, 9, coverage.Columns[0].Filled)

	rec = do(router, http.MethodGet, "/api/experiments/exp1/csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "uniqueId,"))

	rec = do(router, http.MethodDelete, "/api/experiments/exp1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(router, http.MethodGet, "/api/experiments/exp1/preview", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExtractExperimentErrors(t *testing.T) {
	router, results := newTestRouter(t)
	stage(t, results, "broken", strings.ReplaceAll(exportDoc, "Goal-Setting.survey", "Mystery.survey"))

	rec := do(router, http.MethodPost, "/api/experiments/missing/extract", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(router, http.MethodPost, "/api/experiments/../extract", "")
	assert.NotEqual(t, http.StatusOK, rec.Code)

	rec = do(router, http.MethodPost, "/api/experiments/broken/extract", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.NoFileExists(t, filepath.Join(results, "broken", service.CSVFileName))

	rec = do(router, http.MethodGet, "/api/experiments/missing/csv", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExtractionStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, extractionStatus(os.ErrNotExist))
	assert.Equal(t, http.StatusBadRequest, extractionStatus(service.ValidateExperimentID("..")))
	assert.Equal(t, http.StatusUnprocessableEntity, extractionStatus(analysis.ErrDayOutOfRange))
	assert.Equal(t, http.StatusBadRequest, extractionStatus(&json.SyntaxError{}))
	assert.Equal(t, http.StatusInternalServerError, extractionStatus(assert.AnError))
}

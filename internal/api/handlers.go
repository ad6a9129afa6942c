package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"expdata/internal/analysis"
	"expdata/internal/models"
	"expdata/internal/service"
	"expdata/internal/state"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	MaxBodySize        = 100 * 1024 * 1024 // 100MB
	DefaultPreviewRows = 10
)

type Handler struct {
	ExtractionService *service.ExtractionService
	ExportService     *service.ExportService
	ListService       *service.ListService
	Coverage          *service.CoverageProfiler
	State             *state.AppState
	Logger            *zap.Logger
}

func NewHandler(extraction *service.ExtractionService, export *service.ExportService, list *service.ListService, st *state.AppState, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		ExtractionService: extraction,
		ExportService:     export,
		ListService:       list,
		Coverage:          service.NewCoverageProfiler(),
		State:             st,
		Logger:            logger,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HealthCheck)

	r.Post("/api/extract", h.ExtractUpload)
	r.Post("/api/lists/json", h.ConvertList)

	r.Post("/api/experiments/{experimentID}/extract", h.ExtractExperiment)
	r.Get("/api/experiments/{experimentID}/preview", h.GetPreview)
	r.Get("/api/experiments/{experimentID}/coverage", h.GetCoverage)
	r.Get("/api/experiments/{experimentID}/csv", h.DownloadCSV)
	r.Delete("/api/experiments/{experimentID}", h.ClearExperiment)
}

// ============================================================================
// Health
// ============================================================================

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

// ============================================================================
// Extraction
// ============================================================================

// ExtractUpload runs the extractor on an export posted in the request body
func (h *Handler) ExtractUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	result, err := h.ExtractionService.Run(r.Body)
	if err != nil {
		h.writeError(w, extractionStatus(err), err)
		return
	}

	if r.URL.Query().Get("format") == "json" {
		writeJSON(w, http.StatusOK, models.TableResponse{
			Participants: len(result.Records),
			Headers:      result.Table.Headers,
			Rows:         result.Table.Rows,
		})
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", service.CSVFileName))
	if err := h.ExportService.WriteCSV(w, result.Table); err != nil {
		h.Logger.Error("Failed to stream csv", zap.Error(err))
	}
}

// ExtractExperiment extracts an experiment from the results directory and caches the table
func (h *Handler) ExtractExperiment(w http.ResponseWriter, r *http.Request) {
	experimentID := chi.URLParam(r, "experimentID")

	extraction, err := h.ExtractionService.Extract(experimentID)
	if err != nil {
		h.writeError(w, extractionStatus(err), err)
		return
	}
	h.State.SetExtraction(extraction)

	writeJSON(w, http.StatusOK, models.ExtractResponse{
		Message:      fmt.Sprintf("Experiment '%s' extracted successfully", experimentID),
		ExperimentID: experimentID,
		Participants: extraction.Participants,
		Rows:         len(extraction.Table.Rows),
		OutputPath:   extraction.OutputPath,
	})
}

// GetPreview returns the preview columns of the last extraction
func (h *Handler) GetPreview(w http.ResponseWriter, r *http.Request) {
	experimentID := chi.URLParam(r, "experimentID")
	rows := getIntParam(r, "rows", DefaultPreviewRows)

	extraction := h.State.GetExtraction(experimentID)
	if extraction == nil {
		h.writeError(w, http.StatusNotFound, fmt.Errorf("experiment %s not extracted", experimentID))
		return
	}

	columns := h.ExtractionService.Schema().PreviewColumns
	projected := extraction.Table.Project(columns)

	limit := rows
	if limit > len(projected) || limit < 0 {
		limit = len(projected)
	}

	data := make([]map[string]string, limit)
	for i := 0; i < limit; i++ {
		row := make(map[string]string, len(columns))
		for j, column := range columns {
			row[column] = projected[i][j]
		}
		data[i] = row
	}

	writeJSON(w, http.StatusOK, models.PreviewResponse{
		ExperimentID: experimentID,
		TotalRows:    len(projected),
		Columns:      columns,
		Data:         data,
	})
}

// GetCoverage reports how many rows of the last extraction fill each column
func (h *Handler) GetCoverage(w http.ResponseWriter, r *http.Request) {
	experimentID := chi.URLParam(r, "experimentID")

	extraction := h.State.GetExtraction(experimentID)
	if extraction == nil {
		h.writeError(w, http.StatusNotFound, fmt.Errorf("experiment %s not extracted", experimentID))
		return
	}

	writeJSON(w, http.StatusOK, models.CoverageResponse{
		ExperimentID: experimentID,
		Columns:      h.Coverage.Profile(extraction.Table),
	})
}

// DownloadCSV serves the csv written by the last extraction
func (h *Handler) DownloadCSV(w http.ResponseWriter, r *http.Request) {
	experimentID := chi.URLParam(r, "experimentID")

	_, output, err := h.ExtractionService.Paths(experimentID)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	if _, err := os.Stat(output); err != nil {
		h.writeError(w, http.StatusNotFound, fmt.Errorf("no csv for experiment %s", experimentID))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	http.ServeFile(w, r, output)
}

// ClearExperiment forgets the cached extraction of an experiment
func (h *Handler) ClearExperiment(w http.ResponseWriter, r *http.Request) {
	experimentID := chi.URLParam(r, "experimentID")
	h.State.ClearExtraction(&experimentID)
	w.WriteHeader(http.StatusNoContent)
}

// ============================================================================
// Lists
// ============================================================================

// ConvertList returns the JSON array of the trimmed lines in the request body
func (h *Handler) ConvertList(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	out, err := h.ListService.Convert(r.Body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(out)
}

// ============================================================================
// Helpers
// ============================================================================

func extractionStatus(err error) int {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidExperimentID):
		return http.StatusBadRequest
	case errors.Is(err, analysis.ErrUnknownCategory), errors.Is(err, analysis.ErrDayOutOfRange):
		return http.StatusUnprocessableEntity
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.As(err, &maxErr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		h.Logger.Error("Request failed", zap.Error(err))
	} else {
		h.Logger.Debug("Request rejected", zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, models.ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func getIntParam(r *http.Request, name string, defaultVal int) int {
	valStr := r.URL.Query().Get(name)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}

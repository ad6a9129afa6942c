package service

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"expdata/internal/analysis"
	"expdata/internal/models"
	"expdata/internal/state"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// File names inside an experiment's results directory
const (
	DataFileName = "data.json"
	CSVFileName  = "csv_data.csv"
)

// ErrInvalidExperimentID is returned for ids that are not a single path element
var ErrInvalidExperimentID = errors.New("invalid experiment id")

// ExtractionService runs the extractor against experiment results on disk
type ExtractionService struct {
	resultsDir string
	analysis   *analysis.Service
	export     *ExportService
	logger     *zap.Logger
}

// NewExtractionService creates a service reading from and writing to resultsDir
func NewExtractionService(resultsDir string, an *analysis.Service, export *ExportService, logger *zap.Logger) *ExtractionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExtractionService{
		resultsDir: resultsDir,
		analysis:   an,
		export:     export,
		logger:     logger,
	}
}

// Schema returns the lookup tables extraction runs on
func (s *ExtractionService) Schema() analysis.Schema {
	return s.analysis.Schema()
}

// ValidateExperimentID rejects ids that would escape the results directory
func ValidateExperimentID(experimentID string) error {
	if experimentID == "" || experimentID == "." || experimentID == ".." ||
		strings.ContainsAny(experimentID, `/\`) {
		return errors.Wrapf(ErrInvalidExperimentID, "%q", experimentID)
	}
	return nil
}

// Paths returns the input and output file of an experiment
func (s *ExtractionService) Paths(experimentID string) (input, output string, err error) {
	if err := ValidateExperimentID(experimentID); err != nil {
		return "", "", err
	}
	dir := filepath.Join(s.resultsDir, experimentID)
	return filepath.Join(dir, DataFileName), filepath.Join(dir, CSVFileName), nil
}

// DecodeExport reads a platform export document
func DecodeExport(r io.Reader) (*models.Export, error) {
	var export models.Export
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, errors.Wrap(err, "parsing export json")
	}
	return &export, nil
}

// Run extracts the table from an export read from r
func (s *ExtractionService) Run(r io.Reader) (*analysis.Result, error) {
	export, err := DecodeExport(r)
	if err != nil {
		return nil, err
	}
	return s.analysis.Run(export)
}

// Extract reads <resultsDir>/<experimentID>/data.json and writes csv_data.csv next to it
func (s *ExtractionService) Extract(experimentID string) (*state.Extraction, error) {
	input, output, err := s.Paths(experimentID)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(input)
	if err != nil {
		return nil, errors.Wrap(err, "opening export")
	}
	defer f.Close()

	s.logger.Debug("Reading export", zap.String("path", input))
	result, err := s.Run(f)
	if err != nil {
		return nil, errors.Wrapf(err, "extracting %s", experimentID)
	}

	if err := s.export.WriteCSVFile(output, result.Table); err != nil {
		return nil, errors.Wrapf(err, "writing %s", output)
	}
	s.logger.Info("Wrote csv",
		zap.String("experiment", experimentID),
		zap.String("path", output),
		zap.Int("rows", len(result.Table.Rows)))

	return &state.Extraction{
		ExperimentID: experimentID,
		Participants: len(result.Records),
		Table:        result.Table,
		OutputPath:   output,
		CompletedAt:  time.Now(),
	}, nil
}

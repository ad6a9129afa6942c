package analysis

import (
	"expdata/internal/models"
	"expdata/internal/state"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Result holds everything one extraction run produced
type Result struct {
	Records []*ParticipantRecord
	Rows    []Row
	Table   *state.Table
}

// Service runs segmentation, aggregation and flattening over an export
type Service struct {
	schema     Schema
	aggregator *Aggregator
	logger     *zap.Logger
}

// NewService creates a service for a validated schema
func NewService(schema Schema, logger *zap.Logger) (*Service, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		schema:     schema,
		aggregator: NewAggregator(schema),
		logger:     logger,
	}, nil
}

// Schema returns the lookup tables the service runs on
func (s *Service) Schema() Schema {
	return s.schema
}

// Run processes every participant of the export in order
func (s *Service) Run(export *models.Export) (*Result, error) {
	result := &Result{}

	for _, p := range export.Participants {
		if !s.aggregator.Include(p) {
			s.logger.Debug("Skipping participant without stage activity", zap.String("participant", p.UniqueID))
			continue
		}

		interactions, err := ExtractInteractions(p.Answers, s.schema.States)
		if err != nil {
			return nil, errors.Wrapf(err, "participant %s", p.UniqueID)
		}

		record, err := s.aggregator.Aggregate(p, interactions)
		if err != nil {
			return nil, errors.Wrapf(err, "participant %s", p.UniqueID)
		}
		s.logger.Debug("Aggregated participant",
			zap.String("participant", p.UniqueID),
			zap.Int("answers", len(p.Answers)),
			zap.Int("interactions", len(interactions)),
			zap.Int("stages", len(record.Stages)))

		result.Records = append(result.Records, record)
	}

	rows, err := Flatten(result.Records, s.schema.Stages, s.schema.MaxDays)
	if err != nil {
		return nil, err
	}
	result.Rows = rows
	result.Table = TableFromRows(rows, s.schema.Columns)

	if unlisted := UnlistedFields(rows, s.schema.Columns); len(unlisted) > 0 {
		s.logger.Debug("Fields without an output column", zap.Strings("fields", unlisted))
	}

	s.logger.Info("Extraction finished",
		zap.Int("participants", len(result.Records)),
		zap.Int("rows", len(rows)))
	return result, nil
}

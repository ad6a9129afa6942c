package analysis

import (
	"strconv"

	"expdata/internal/models"

	"github.com/pkg/errors"
)

// Columns filled from the participant rather than from answers
const (
	ColumnUniqueID    = "uniqueId"
	ColumnTeamName    = "teamName"
	ColumnCondition   = "condition"
	ColumnTimezone    = "timezone"
	ColumnMorningTime = "morningTime"
	ColumnEveningTime = "eveningTime"
	ColumnStageName   = "stageName"
	ColumnStageDay    = "stageDay"
)

// Suffixes of the fields derived from a timed interaction
const (
	suffixComplete = "Complete"
	suffixStart    = "Start"
	suffixLength   = "Length(s)"
)

// Profile holds the static participant values repeated on every row
type Profile struct {
	Timezone    string
	MorningTime string
	EveningTime string
	TeamName    string
	Condition   string
}

// Fields returns the profile keyed by output column
func (p Profile) Fields() map[string]string {
	return map[string]string{
		ColumnTimezone:    p.Timezone,
		ColumnMorningTime: p.MorningTime,
		ColumnEveningTime: p.EveningTime,
		ColumnTeamName:    p.TeamName,
		ColumnCondition:   p.Condition,
	}
}

// ParticipantRecord is a participant with its aggregated stage table
type ParticipantRecord struct {
	UniqueID string
	Profile  Profile
	Stages   StageTable
}

// Aggregator builds the stage table of a participant from answers and interactions
type Aggregator struct {
	timedFields        map[models.InteractionType]string
	excludedQuestions  map[string]bool
	excludedCategories map[string]bool
	timestamps         *TimestampParser
}

// NewAggregator creates an aggregator for the given schema
func NewAggregator(schema Schema) *Aggregator {
	return &Aggregator{
		timedFields:        schema.TimedFields,
		excludedQuestions:  toSet(schema.ExcludedQuestions),
		excludedCategories: toSet(schema.ExcludedCategories),
		timestamps:         NewTimestampParser(),
	}
}

// Include reports whether a participant takes part in the output.
// Participants that never entered a stage are left out.
func (a *Aggregator) Include(p models.Participant) bool {
	return p.HasActivity()
}

// Aggregate writes the timed interaction fields and every relevant raw answer into a new
// stage table for the participant
func (a *Aggregator) Aggregate(p models.Participant, interactions []models.Interaction) (*ParticipantRecord, error) {
	record := &ParticipantRecord{
		UniqueID: p.UniqueID,
		Profile: Profile{
			Timezone:    p.Parameters.Timezone,
			MorningTime: p.Parameters.MorningTime,
			EveningTime: p.Parameters.EveningTime,
			TeamName:    p.Parameters.PID,
			Condition:   p.ConditionName,
		},
		Stages: make(StageTable),
	}

	for _, interaction := range interactions {
		prefix, timed := a.timedFields[interaction.Type]
		if !timed {
			continue
		}
		elapsed, err := a.timestamps.ElapsedSeconds(interaction.Start.AnswerTimeStamp, interaction.End.AnswerTimeStamp)
		if err != nil {
			return nil, errors.Wrapf(err, "%s interaction starting at %q", interaction.Type, interaction.Start.QID)
		}

		stage, day := interaction.Start.StageName, interaction.Start.StageDay
		record.Stages.Add(stage, day, prefix+suffixComplete, formatFlag(interaction.Complete()))
		record.Stages.Add(stage, day, prefix+suffixStart, interaction.Start.AnswerTimeStamp)
		record.Stages.Add(stage, day, prefix+suffixLength, strconv.FormatInt(elapsed, 10))
	}

	for _, answer := range p.Answers {
		category, questionID, err := answer.SplitQID()
		if err != nil {
			return nil, err
		}
		if a.excludedQuestions[questionID] || a.excludedCategories[category] {
			continue
		}
		record.Stages.Add(answer.StageName, answer.StageDay, questionID, answer.Joined(ValueSeparator))
	}

	return record, nil
}

// formatFlag renders booleans the way the analysis notebooks expect them
func formatFlag(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

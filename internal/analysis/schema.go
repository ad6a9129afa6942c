package analysis

import (
	"expdata/internal/models"

	"github.com/pkg/errors"
)

// StageDays is the number of days a stage is expected to produce rows for
type StageDays struct {
	Name string `yaml:"name"`
	Days int    `yaml:"days"`
}

// Schema bundles the lookup tables the extractor runs on
type Schema struct {
	// States maps a qId category to the interaction it belongs to.
	States StateMap `yaml:"states"`
	// TimedFields maps an interaction type to the column prefix of its
	// Complete/Start/Length(s) fields. Types not listed are not timed.
	TimedFields map[models.InteractionType]string `yaml:"timedFields"`

	ExcludedQuestions  []string `yaml:"excludedQuestions"`
	ExcludedCategories []string `yaml:"excludedCategories"`

	// Stages lists the expected stages in output order.
	Stages []StageDays `yaml:"stages"`

	Columns        []string `yaml:"columns"`
	PreviewColumns []string `yaml:"previewColumns"`

	// MaxDays bounds the number of rows per participant and stage. Zero disables the bound.
	MaxDays int `yaml:"maxDays"`
}

// DefaultSchema returns the lookup tables for the Reflective Learning in Organizations study
func DefaultSchema() Schema {
	return Schema{
		States: StateMap{
			"setupQuestions":    models.InteractionSetup,
			"Onboarding":        models.InteractionOnboarding,
			"Morning-Goals-All": models.InteractionGoal,
			"Pre-Reflection":    models.InteractionReflection,
			"Int-Reflection":    models.InteractionReflection,
			"Post-Test":         models.InteractionPost,
			"Pre-Test":          models.InteractionPre,
			"Pre-Test-2":        models.InteractionMid,
			"Goal-Setting":      models.InteractionReflection,
			"Follow-Up":         models.InteractionFollowUp,
			"Update-Times":      models.InteractionUpdate,
		},
		TimedFields: map[models.InteractionType]string{
			models.InteractionGoal:       "goalSet",
			models.InteractionReflection: "reflection",
		},
		ExcludedQuestions: []string{
			"readyToStart", "firstRelationshipPrompt", "askAddTaskGoals", "anythingElse",
			"wantRelationshipGoal", "continueFromInfo", "continueFromExample",
			"continueFromRelInfo", "continueFromRelExample", "addGoalsLater",
			"askReflectTaskGoals", "wantContinue",
		},
		ExcludedCategories: []string{"setupQuestions"},
		Stages: []StageDays{
			{Name: "Onboarding", Days: 1},
			{Name: "Pre-Test", Days: 1},
			{Name: "Goal-Setting", Days: 2},
			{Name: "Pre-Test-2", Days: 1},
			{Name: "Intervention", Days: 2},
			{Name: "Post-Test", Days: 1},
			{Name: "Follow-Up", Days: 1},
		},
		Columns: []string{
			ColumnUniqueID, ColumnTeamName, ColumnCondition, ColumnTimezone, ColumnMorningTime, ColumnEveningTime,
			ColumnStageName, ColumnStageDay,
			"goalSetComplete", "goalSetStart", "goalSetLength(s)",
			"wantGoalInfo", "wantGoalExample", "firstTaskGoal", "addTaskGoals", "addWorkGoalsLater",
			"wantRelGoalInfo", "wantRelGoalExample", "addFirstRelGoal", "addRelGoals", "addRelGoalsLater",
			"reflectionComplete", "reflectionStart", "reflectionLength(s)",
			"relGoalsProgress", "relMoreWork", "relImpact", "relEmotions", "relPursuit", "relRelevance",
			"day1RelPursuit", "day1RelRelevance", "day1RelMetaDescription", "day1RelMetaJudgement",
			"dayNRelPursuit", "dayNRelRelevance", "dayNRelMetaDescription", "dayNRelWhatChanged", "dayNRelOtherChange",
			"dayNRelChangeMoreRelevant", "dayNRelChangeLessRelevant", "dayNRelChangeEquallyRelevant",
			"dayNRelCanYouImprove", "dayNRelChangeIdeas", "dayNRelChangeSuggestions",
			"relImproveGoalSetting", "relHowImprove", "relPlan", "relPlanRemember",
			"taskGoalsProgress", "moreWork", "impact", "emotions", "pursuitSatisfaction", "goalsImportance",
			"day1Pursuit", "day1Relevance", "day1MetaDescription", "day1MetaJudgement",
			"dayNPursuit", "dayNRelevance", "dayNMetaDescription", "dayNWhatChanged", "dayNOtherChange",
			"dayNChangeMoreRelevant", "dayNChangeLessRelevant", "dayNChangeEquallyRelevant",
			"dayNCanYouImprove", "dayNChangeIdeas", "dayNChangeSuggestions",
			"improveGoalSetting", "howImprove", "plan", "planRemember",
			"survey",
		},
		PreviewColumns: []string{
			ColumnUniqueID, ColumnStageName, ColumnStageDay,
			"reflectionComplete", "reflectionStart", "reflectionLength(s)", "survey",
		},
		MaxDays: 366,
	}
}

// Validate checks that the tables are usable by the pipeline
func (s Schema) Validate() error {
	if len(s.States) == 0 {
		return errors.New("schema: states must not be empty")
	}
	if len(s.Columns) == 0 {
		return errors.New("schema: columns must not be empty")
	}
	if len(s.Stages) == 0 {
		return errors.New("schema: stages must not be empty")
	}
	seen := make(map[string]bool, len(s.Stages))
	for _, stage := range s.Stages {
		if stage.Name == "" {
			return errors.New("schema: stage without a name")
		}
		if seen[stage.Name] {
			return errors.Errorf("schema: stage %q listed twice", stage.Name)
		}
		seen[stage.Name] = true
		if stage.Days < 1 {
			return errors.Errorf("schema: stage %q must expect at least one day", stage.Name)
		}
		if s.MaxDays > 0 && stage.Days > s.MaxDays {
			return errors.Errorf("schema: stage %q expects %d days, above maxDays %d", stage.Name, stage.Days, s.MaxDays)
		}
	}
	columns := make(map[string]bool, len(s.Columns))
	for _, c := range s.Columns {
		if columns[c] {
			return errors.Errorf("schema: column %q listed twice", c)
		}
		columns[c] = true
	}
	for _, c := range s.PreviewColumns {
		if !columns[c] {
			return errors.Errorf("schema: preview column %q is not an output column", c)
		}
	}
	return nil
}

package models

// InteractionType is the inferred experiment state a run of answers belongs to
type InteractionType string

// Interaction types
const (
	InteractionSetup      InteractionType = "setup"
	InteractionOnboarding InteractionType = "onboarding"
	InteractionGoal       InteractionType = "goal"
	InteractionReflection InteractionType = "reflection"
	InteractionPre        InteractionType = "pre"
	InteractionMid        InteractionType = "mid"
	InteractionPost       InteractionType = "post"
	InteractionFollowUp   InteractionType = "followup"
	InteractionUpdate     InteractionType = "update"
)

// Interaction is a contiguous run of answers sharing the same inferred state
type Interaction struct {
	Type  InteractionType `json:"type"`
	Start Answer          `json:"start"`
	End   Answer          `json:"end"`
}

// Complete reports whether the run ended with something other than a missed response
func (i Interaction) Complete() bool {
	return i.End.First() != AnswerNoResponse
}

package models

import "encoding/json"

// Export is the top level document written by the platform's download script
type Export struct {
	Experiment   json.RawMessage `json:"experiment,omitempty"`
	Participants []Participant   `json:"participants"`
}

// Parameters holds the static profile values a participant set up during onboarding
type Parameters struct {
	Timezone    string `json:"timezone"`
	MorningTime string `json:"morningTime"`
	EveningTime string `json:"eveningTime"`
	PID         string `json:"PID"`
}

// ParticipantStages lists the stage activity log of a participant
type ParticipantStages struct {
	Activity []json.RawMessage `json:"activity"`
}

// Participant represents one exported participant with all recorded answers
type Participant struct {
	UniqueID      string            `json:"uniqueId"`
	ExperimentID  string            `json:"experimentId,omitempty"`
	ConditionName string            `json:"conditionName"`
	Parameters    Parameters        `json:"parameters"`
	Stages        ParticipantStages `json:"stages"`
	Answers       []Answer          `json:"answers"`
}

// HasActivity reports whether the participant ever entered a stage
func (p Participant) HasActivity() bool {
	return len(p.Stages.Activity) > 0
}

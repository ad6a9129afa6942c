package analysis

import (
	"expdata/internal/models"

	"github.com/pkg/errors"
)

// ErrUnknownCategory is returned when a qId category has no entry in the state map
var ErrUnknownCategory = errors.New("unknown qId category")

// stateStart is the state before the first answer. It never matches a mapped state.
const stateStart models.InteractionType = "start"

// StateMap maps a qId category to an interaction type
type StateMap map[string]models.InteractionType

// StateFor returns the interaction type the answer's category maps to
func (m StateMap) StateFor(answer models.Answer) (models.InteractionType, error) {
	state, ok := m[answer.Category()]
	if !ok {
		return "", errors.Wrapf(ErrUnknownCategory, "qId %q", answer.QID)
	}
	return state, nil
}

// ExtractInteractions groups an ordered answer list into runs of the same mapped state.
// A run's start skips leading sentinel answers; its end is the last answer of the run.
func ExtractInteractions(answers []models.Answer, states StateMap) ([]models.Interaction, error) {
	var (
		interactions []models.Interaction
		current      *models.Interaction
		currentState = stateStart
	)

	for _, answer := range answers {
		nextState, err := states.StateFor(answer)
		if err != nil {
			return nil, err
		}

		if current == nil || nextState != currentState {
			if current != nil {
				interactions = append(interactions, *current)
			}
			// End defaults to the start until a later answer of the same run arrives.
			current = &models.Interaction{Type: nextState, Start: answer, End: answer}
		} else {
			if current.Start.IsNonAnswer() {
				current.Start = answer
			}
			current.End = answer
		}
		currentState = nextState
	}

	if current != nil {
		interactions = append(interactions, *current)
	}
	return interactions, nil
}

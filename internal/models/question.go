package models

import (
	"strings"

	"github.com/pkg/errors"
)

// Sentinel answers recorded when a participant did not really answer a question
const (
	AnswerNoResponse     = "[No Response]"
	AnswerRepeatQuestion = "[Repeat Question]"
)

// Answer is a single question-response event as exported by the experiment platform
type Answer struct {
	QID             string   `json:"qId"`
	Text            string   `json:"text,omitempty"`
	AskTimeStamp    string   `json:"askTimeStamp,omitempty"`
	AnswerTimeStamp string   `json:"answerTimeStamp"`
	StageName       string   `json:"stageName"`
	StageDay        int      `json:"stageDay"`
	Answer          []string `json:"answer"`
}

// Category returns the qId prefix before the first '.'.
// A qId without a separator is its own category.
func (a Answer) Category() string {
	category, _, _ := strings.Cut(a.QID, ".")
	return category
}

// SplitQID splits the qId into its category and question id.
func (a Answer) SplitQID() (category, questionID string, err error) {
	category, questionID, ok := strings.Cut(a.QID, ".")
	if !ok {
		return "", "", errors.Errorf("malformed qId %q: expected <category>.<questionId>", a.QID)
	}
	return category, questionID, nil
}

// First returns the first answer value, or "" when the answer list is empty
func (a Answer) First() string {
	if len(a.Answer) == 0 {
		return ""
	}
	return a.Answer[0]
}

// IsNonAnswer reports whether the first value is one of the sentinel answers
func (a Answer) IsNonAnswer() bool {
	switch a.First() {
	case AnswerNoResponse, AnswerRepeatQuestion:
		return true
	}
	return false
}

// Joined returns all answer values joined with sep
func (a Answer) Joined(sep string) string {
	return strings.Join(a.Answer, sep)
}

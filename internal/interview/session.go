// Package interview walks a user through the questionnaire on a terminal and
// stores the finished assessment.
package interview

import (
	"strings"

	"kodex/pkg/schema"
)

// SessionState represents the in-memory interview state.
type SessionState struct {
	Answers   schema.AnswerMap
	Preview   *schema.Classification
	Committed bool
}

// NewSessionState creates an empty session state.
func NewSessionState() *SessionState {
	return &SessionState{
		Answers: make(schema.AnswerMap),
	}
}

// SetAnswer records value for id. A blank value clears the answer.
func (s *SessionState) SetAnswer(id, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		delete(s.Answers, id)
		return
	}
	s.Answers[id] = value
}

// Clone creates a deep copy of the session state.
func (s *SessionState) Clone() *SessionState {
	clone := &SessionState{
		Answers:   s.Answers.Clone(),
		Committed: s.Committed,
	}
	if s.Preview != nil {
		p := *s.Preview
		clone.Preview = &p
	}
	return clone
}

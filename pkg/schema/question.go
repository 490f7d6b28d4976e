package schema

import "strings"

// Option is one selectable answer of a single-choice question.
type Option struct {
	Value string `json:"value" yaml:"value" validate:"required,max=64"`
	Label string `json:"label" yaml:"label" validate:"required"`
}

// Question describes one entry of the questionnaire.
type Question struct {
	ID           string       `json:"id" yaml:"id" validate:"required,max=64"`
	Kind         QuestionKind `json:"type" yaml:"type" validate:"required,oneof=single text"`
	Label        string       `json:"label" yaml:"label" validate:"required,max=200"`
	HelpText     string       `json:"helpText,omitempty" yaml:"help_text,omitempty"`
	Placeholder  string       `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options      []Option     `json:"options,omitempty" yaml:"options,omitempty" validate:"dive"`
	Required     bool         `json:"required" yaml:"required"`
	WhyItMatters string       `json:"whyItMatters,omitempty" yaml:"why_it_matters,omitempty"`
	FollowUp     string       `json:"followUpQuestion,omitempty" yaml:"follow_up,omitempty"`
}

// HasOption reports whether value is a declared option of q.
func (q Question) HasOption(value string) bool {
	for _, o := range q.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// OptionLabel returns the human label for value, or value itself when unknown.
func (q Question) OptionLabel(value string) string {
	for _, o := range q.Options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// AnswerMap maps question IDs to submitted values. Values decoded from JSON or
// YAML arrive as any; only strings are meaningful.
type AnswerMap map[string]any

// Text returns the trimmed string answer for id. The second result is false
// when the key is absent, not a string, or blank.
func (a AnswerMap) Text(id string) (string, bool) {
	raw, ok := a[id]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

// Has reports whether id is a key of the map, regardless of its value.
func (a AnswerMap) Has(id string) bool {
	_, ok := a[id]
	return ok
}

// Clone returns a shallow copy of the map.
func (a AnswerMap) Clone() AnswerMap {
	out := make(AnswerMap, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

package schema

import "time"

// Assessment is the immutable snapshot stored when a project's answers are finalized.
type Assessment struct {
	ID                 string           `json:"id" yaml:"id"`
	ProjectID          string           `json:"projectId" yaml:"project_id"`
	Version            int              `json:"version" yaml:"version"`
	QuestionSetVersion string           `json:"questionSetVersion" yaml:"question_set_version"`
	RulesVersion       string           `json:"rulesVersion" yaml:"rules_version"`
	Answers            AnswerMap        `json:"answers" yaml:"answers"`
	Classification     Classification   `json:"classification" yaml:"classification"`
	EstimatorInputs    *EstimatorInputs `json:"estimatorInputs,omitempty" yaml:"estimator_inputs,omitempty"`
	EstimatorOutput    *Estimate        `json:"estimatorOutput,omitempty" yaml:"estimator_output,omitempty"`
	Roadmap            []Task           `json:"roadmap" yaml:"roadmap"`
	CreatedAt          time.Time        `json:"createdAt" yaml:"created_at"`
}

// AssessmentRecorded is the changelog entry appended for every stored assessment.
type AssessmentRecorded struct {
	EventID      string    `json:"eventId" yaml:"event_id"`
	AssessmentID string    `json:"assessmentId" yaml:"assessment_id"`
	Version      int       `json:"version" yaml:"version"`
	Bucket       Bucket    `json:"bucket" yaml:"bucket"`
	DuplicatedOf int       `json:"duplicatedOf,omitempty" yaml:"duplicated_of,omitempty"`
	Timestamp    time.Time `json:"timestamp" yaml:"timestamp"`
}

package httpapi

import (
	"kodex/internal/catalog"
	"kodex/pkg/schema"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// QuestionsResponse is returned by GET /api/questions.
type QuestionsResponse struct {
	Questions []schema.Question `json:"questions"`
	Steps     []catalog.Step    `json:"steps"`
	Version   string            `json:"version"`
}

// ClassifyRequest is the body of POST /api/classify. Absent answers classify
// as an empty answer set.
type ClassifyRequest struct {
	Answers schema.AnswerMap `json:"answers"`
}

// EstimateRequest is the body of POST /api/estimate.
type EstimateRequest struct {
	Bucket         schema.Bucket    `json:"bucket" binding:"required"`
	Turnover       *float64         `json:"turnover"`
	Currency       string           `json:"currency" binding:"omitempty,len=3,uppercase"`
	TierParameters schema.TierTable `json:"tierParameters"`
}

// AssessRequest is the body of POST /api/assessments. An empty projectId
// starts a new project.
type AssessRequest struct {
	ProjectID       string                  `json:"projectId" binding:"omitempty,max=64"`
	Answers         schema.AnswerMap        `json:"answers"`
	EstimatorInputs *schema.EstimatorInputs `json:"estimatorInputs"`
}

// HistoryResponse lists a project's stored versions, newest first.
type HistoryResponse struct {
	ProjectID   string              `json:"projectId"`
	Assessments []schema.Assessment `json:"assessments"`
}

// ProjectsResponse lists stored project IDs.
type ProjectsResponse struct {
	Projects []string `json:"projects"`
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status             string `json:"status"`
	QuestionSetVersion string `json:"questionSetVersion"`
	RulesVersion       string `json:"rulesVersion"`
}

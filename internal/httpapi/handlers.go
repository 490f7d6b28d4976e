package httpapi

import (
	"net/http"
	"strconv"

	"kodex/internal/assess"
	"kodex/internal/classify"
	"kodex/internal/core"
	"kodex/pkg/schema"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:             "ok",
		QuestionSetVersion: s.svc.Catalog().Version(),
		RulesVersion:       classify.RulesVersion,
	})
}

func (s *Server) handleQuestions(c *gin.Context) {
	cat := s.svc.Catalog()
	c.JSON(http.StatusOK, QuestionsResponse{
		Questions: cat.All(),
		Steps:     cat.Steps(),
		Version:   cat.Version(),
	})
}

func (s *Server) handleSettings(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.Settings())
}

// handleClassify handles POST /api/classify. Any JSON object is a valid
// answer set; unknown keys and malformed values are reported as assumptions.
func (s *Server) handleClassify(c *gin.Context) {
	logger := s.requestLogger(c, "classify")

	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Code: "INVALID_REQUEST"})
		return
	}

	result := s.svc.Classify(req.Answers)
	classificationsTotal.WithLabelValues(string(result.Bucket)).Inc()
	c.JSON(http.StatusOK, result)
}

// handleEstimate handles POST /api/estimate. A missing turnover or tier is
// not an HTTP error: the body carries {"error": ...} with status 200.
func (s *Server) handleEstimate(c *gin.Context) {
	logger := s.requestLogger(c, "estimate")

	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Code: "INVALID_REQUEST"})
		return
	}

	est, err := s.svc.Estimate(assess.EstimateRequest{
		Bucket:         req.Bucket,
		Turnover:       req.Turnover,
		Currency:       req.Currency,
		TierParameters: req.TierParameters,
	})
	if err != nil {
		writeError(c, logger, err)
		return
	}
	if !est.OK() {
		estimateFailuresTotal.WithLabelValues(est.Error).Inc()
	}
	c.JSON(http.StatusOK, est)
}

func (s *Server) handleAssess(c *gin.Context) {
	logger := s.requestLogger(c, "assess")

	var req AssessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Code: "INVALID_REQUEST"})
		return
	}

	a, err := s.svc.Assess(assess.AssessRequest{
		ProjectID:       req.ProjectID,
		Answers:         req.Answers,
		EstimatorInputs: req.EstimatorInputs,
	})
	if err != nil {
		writeError(c, logger, err)
		return
	}
	s.countStored(a)
	c.JSON(http.StatusCreated, a)
}

func (s *Server) handleProjects(c *gin.Context) {
	ids, err := s.svc.Projects()
	if err != nil {
		writeError(c, s.requestLogger(c, "projects"), err)
		return
	}
	c.JSON(http.StatusOK, ProjectsResponse{Projects: ids})
}

func (s *Server) handleHistory(c *gin.Context) {
	project := c.Param("project")
	list, err := s.svc.History(project)
	if err != nil {
		writeError(c, s.requestLogger(c, "history"), err)
		return
	}
	c.JSON(http.StatusOK, HistoryResponse{ProjectID: project, Assessments: list})
}

func (s *Server) handleGetAssessment(c *gin.Context) {
	logger := s.requestLogger(c, "get_assessment")
	project := c.Param("project")

	var (
		a   *schema.Assessment
		err error
	)
	if c.Param("version") == "latest" {
		a, err = s.svc.Latest(project)
	} else {
		version, ok := parseVersion(c)
		if !ok {
			return
		}
		a, err = s.svc.Get(project, version)
	}
	if err != nil {
		writeError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) handleDuplicate(c *gin.Context) {
	logger := s.requestLogger(c, "duplicate")

	version, ok := parseVersion(c)
	if !ok {
		return
	}

	a, err := s.svc.Duplicate(c.Param("project"), version)
	if err != nil {
		writeError(c, logger, err)
		return
	}
	s.countStored(a)
	c.JSON(http.StatusCreated, a)
}

func (s *Server) countStored(a *schema.Assessment) {
	assessmentsStoredTotal.Inc()
	classificationsTotal.WithLabelValues(string(a.Classification.Bucket)).Inc()
	if a.EstimatorOutput != nil && !a.EstimatorOutput.OK() {
		estimateFailuresTotal.WithLabelValues(a.EstimatorOutput.Error).Inc()
	}
}

// parseVersion reads the :version parameter, writing a 400 when it is not a
// positive integer.
func parseVersion(c *gin.Context) (int, bool) {
	raw := c.Param("version")
	version, err := strconv.Atoi(raw)
	if err != nil || version < 1 {
		verr := &core.ValidationError{Field: "version", Message: "must be a positive integer, got " + strconv.Quote(raw)}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: verr.Error(), Code: "INVALID_REQUEST"})
		return 0, false
	}
	return version, true
}

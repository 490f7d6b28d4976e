// Package assess composes the catalog, the classification engine, the roadmap
// generator, the exposure estimator and the assessment repository into the
// operations the CLI and the HTTP API expose.
package assess

import (
	"fmt"
	"maps"

	"kodex/internal/catalog"
	"kodex/internal/classify"
	"kodex/internal/core"
	"kodex/internal/estimate"
	"kodex/internal/repository"
	"kodex/internal/roadmap"
	"kodex/pkg/schema"
)

// Service runs assessments. The engines it wraps are pure, so a Service is
// safe for concurrent use; only Assess and Duplicate touch the repository,
// which serializes writers per project.
type Service struct {
	catalog  *catalog.Catalog
	engine   *classify.Engine
	repo     *repository.Repository
	settings schema.Settings
	logger   core.Logger
}

// EstimateRequest asks for an exposure estimate. Zero fields fall back to
// the organization settings.
type EstimateRequest struct {
	Bucket         schema.Bucket
	Turnover       *float64
	Currency       string
	TierParameters schema.TierTable
}

// AssessRequest finalizes one answer set for a project.
type AssessRequest struct {
	ProjectID       string
	Answers         schema.AnswerMap
	EstimatorInputs *schema.EstimatorInputs
}

// NewService creates a service. A nil settings uses the defaults and a nil
// logger discards output.
func NewService(cat *catalog.Catalog, engine *classify.Engine, repo *repository.Repository, settings *schema.Settings, logger core.Logger) *Service {
	if settings == nil {
		settings = core.DefaultSettings()
	}
	if logger == nil {
		logger = core.NopLogger()
	}
	return &Service{
		catalog:  cat,
		engine:   engine,
		repo:     repo,
		settings: cloneSettings(*settings),
		logger:   logger,
	}
}

// New builds the full service stack from configuration.
func New(cfg *core.Config, owner string, logger core.Logger) (*Service, error) {
	cat := catalog.Default()
	if cfg.CatalogFile != "" {
		loaded, err := catalog.LoadFile(cfg.CatalogFile)
		if err != nil {
			return nil, err
		}
		cat = loaded
	}

	engine, err := classify.New(cat)
	if err != nil {
		return nil, err
	}

	settings, err := core.LoadSettings(cfg.SettingsFile)
	if err != nil {
		return nil, err
	}

	logger.Debug("service configured",
		"question_set_version", cat.Version(),
		"rules_version", classify.RulesVersion,
		"data_dir", cfg.DataDir)

	return NewService(cat, engine, repository.NewRepository(cfg.DataDir, owner), settings, logger), nil
}

// Catalog returns the question catalog the service classifies against.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Settings returns a copy of the organization settings.
func (s *Service) Settings() schema.Settings {
	return cloneSettings(s.settings)
}

// Classify runs the classification engine.
func (s *Service) Classify(answers schema.AnswerMap) schema.Classification {
	c := s.engine.Classify(answers)
	s.logger.Debug("classified",
		"bucket", c.Bucket,
		"confidence", c.Confidence,
		"missing", len(c.MissingInfo))
	return c
}

// Roadmap generates the remediation tasks for a classification.
func (s *Service) Roadmap(c schema.Classification, answers schema.AnswerMap) []schema.Task {
	return roadmap.Generate(c, answers)
}

// Estimate computes the exposure for req. Only an unknown bucket is a Go
// error; missing turnover or tier configuration come back in Estimate.Error.
func (s *Service) Estimate(req EstimateRequest) (schema.Estimate, error) {
	if !req.Bucket.Valid() {
		return schema.Estimate{}, &core.ValidationError{Field: "bucket", Message: fmt.Sprintf("unknown bucket %q", req.Bucket)}
	}

	turnover := 0.0
	switch {
	case req.Turnover != nil:
		turnover = *req.Turnover
	case s.settings.DefaultTurnover != nil:
		turnover = *s.settings.DefaultTurnover
	}

	currency := req.Currency
	if currency == "" {
		currency = s.settings.Currency
	}

	params := req.TierParameters
	if len(params) == 0 {
		params = s.settings.TierParameters
	}

	est := estimate.Estimate(req.Bucket, turnover, currency, params)
	if !est.OK() {
		s.logger.Warn("estimate unavailable", "bucket", req.Bucket, "reason", est.Error)
	}
	return est, nil
}

// Assess classifies req.Answers, builds the roadmap and, when any turnover is
// known, the exposure estimate, then stores the result as the project's next
// version. An empty ProjectID starts a new project.
func (s *Service) Assess(req AssessRequest) (*schema.Assessment, error) {
	if req.ProjectID == "" {
		id, err := schema.NewProjectID()
		if err != nil {
			return nil, fmt.Errorf("generate project id: %w", err)
		}
		req.ProjectID = id
	}
	if !schema.ValidProjectID(req.ProjectID) {
		return nil, &core.ValidationError{Field: "projectId", Message: fmt.Sprintf("invalid project id %q", req.ProjectID)}
	}
	return s.record(req.ProjectID, req.Answers, req.EstimatorInputs, 0)
}

// Duplicate re-runs a stored version's answers through the current catalog
// and rules and stores the result as a new version.
func (s *Service) Duplicate(projectID string, version int) (*schema.Assessment, error) {
	source, err := s.repo.GetAssessment(projectID, version)
	if err != nil {
		return nil, err
	}
	return s.record(projectID, source.Answers, source.EstimatorInputs, source.Version)
}

func (s *Service) record(projectID string, answers schema.AnswerMap, inputs *schema.EstimatorInputs, duplicatedOf int) (*schema.Assessment, error) {
	if answers == nil {
		answers = schema.AnswerMap{}
	}

	c := s.Classify(answers)
	a := schema.Assessment{
		ProjectID:          projectID,
		QuestionSetVersion: c.QuestionSetVersion,
		RulesVersion:       c.RulesVersion,
		Answers:            answers.Clone(),
		Classification:     c,
		EstimatorInputs:    inputs,
		Roadmap:            s.Roadmap(c, answers),
	}

	if inputs != nil || s.settings.DefaultTurnover != nil {
		req := EstimateRequest{Bucket: c.Bucket}
		if inputs != nil {
			req.Turnover = inputs.Turnover
			req.Currency = inputs.Currency
			req.TierParameters = inputs.TierParameters
		}
		est, err := s.Estimate(req)
		if err != nil {
			return nil, err
		}
		a.EstimatorOutput = &est
	}

	stored, err := s.repo.SaveAssessment(a, duplicatedOf)
	if err != nil {
		return nil, fmt.Errorf("save assessment: %w", err)
	}

	s.logger.Info("assessment stored",
		"project", stored.ProjectID,
		"version", stored.Version,
		"bucket", stored.Classification.Bucket,
		"duplicated_of", duplicatedOf)
	return stored, nil
}

// History returns every stored version of a project, newest first.
func (s *Service) History(projectID string) ([]schema.Assessment, error) {
	return s.repo.ListAssessments(projectID)
}

// Get returns one stored version.
func (s *Service) Get(projectID string, version int) (*schema.Assessment, error) {
	return s.repo.GetAssessment(projectID, version)
}

// Latest returns the newest stored version of a project.
func (s *Service) Latest(projectID string) (*schema.Assessment, error) {
	return s.repo.LatestAssessment(projectID)
}

// Projects lists the stored projects.
func (s *Service) Projects() ([]string, error) {
	return s.repo.ListProjects()
}

func cloneSettings(in schema.Settings) schema.Settings {
	out := in
	out.TierParameters = maps.Clone(in.TierParameters)
	if in.DefaultTurnover != nil {
		v := *in.DefaultTurnover
		out.DefaultTurnover = &v
	}
	return out
}

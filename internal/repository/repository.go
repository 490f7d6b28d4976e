// Package repository stores finalized assessments as immutable, versioned
// YAML snapshots, one directory per project:
//
//	<data>/projects/<project>/assessments/v0001.yaml
//	<data>/projects/<project>/changelog.yaml
//	<data>/locks/<project>.lock
//
// Every write runs under the project's file lock. A new version's snapshot is
// published before the changelog that lists it, so readers never observe a
// half-written version.
package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"kodex/internal/core"
	"kodex/pkg/schema"

	"gopkg.in/yaml.v3"
)

const (
	projectsDir    = "projects"
	locksDir       = "locks"
	assessmentsDir = "assessments"
	changelogFile  = "changelog.yaml"
)

// Changelog is the append-only record of a project's stored versions.
type Changelog struct {
	Project       string                      `yaml:"project"`
	LatestVersion int                         `yaml:"latest_version"`
	Events        []schema.AssessmentRecorded `yaml:"events"`
}

// Repository reads and writes assessment snapshots under a data directory.
type Repository struct {
	baseDir string
	owner   string
	now     func() time.Time
}

// NewRepository creates a repository rooted at baseDir. owner tags the lock
// files this process writes ("cli" or "web").
func NewRepository(baseDir, owner string) *Repository {
	return &Repository{
		baseDir: baseDir,
		owner:   owner,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// BaseDir returns the data directory.
func (r *Repository) BaseDir() string {
	return r.baseDir
}

// SaveAssessment stores a as the next version of its project and returns the
// stored copy with ID, Version and CreatedAt assigned. duplicatedOf records
// the source version when a is a re-run of an earlier one, or 0.
func (r *Repository) SaveAssessment(a schema.Assessment, duplicatedOf int) (*schema.Assessment, error) {
	if !schema.ValidProjectID(a.ProjectID) {
		return nil, &core.ValidationError{Field: "projectId", Message: fmt.Sprintf("invalid project id %q", a.ProjectID)}
	}

	lock := NewFileLock(r.lockPath(a.ProjectID), a.ProjectID, r.owner)
	if err := lock.Acquire(); err != nil {
		return nil, err
	}
	defer lock.Release()

	tx, err := beginVersionTx(r.projectDir(a.ProjectID))
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	stored, err := r.appendVersion(tx, a, duplicatedOf)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return stored, nil
}

func (r *Repository) appendVersion(tx *versionTx, a schema.Assessment, duplicatedOf int) (*schema.Assessment, error) {
	log := Changelog{Project: a.ProjectID}
	data, err := tx.ReadFile(changelogFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read changelog: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &log); err != nil {
			return nil, fmt.Errorf("parse changelog: %w", err)
		}
	}

	id, err := schema.NewAssessmentID()
	if err != nil {
		return nil, fmt.Errorf("generate assessment id: %w", err)
	}
	eventID, err := schema.NewEventID()
	if err != nil {
		return nil, fmt.Errorf("generate event id: %w", err)
	}

	now := r.now()
	a.ID = id
	a.Version = log.LatestVersion + 1
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}

	snapshot, err := yaml.Marshal(&a)
	if err != nil {
		return nil, fmt.Errorf("marshal assessment: %w", err)
	}
	if err := tx.WriteFile(versionFile(a.Version), snapshot); err != nil {
		return nil, fmt.Errorf("write assessment: %w", err)
	}

	log.LatestVersion = a.Version
	log.Events = append(log.Events, schema.AssessmentRecorded{
		EventID:      eventID,
		AssessmentID: a.ID,
		Version:      a.Version,
		Bucket:       a.Classification.Bucket,
		DuplicatedOf: duplicatedOf,
		Timestamp:    now,
	})

	data, err = yaml.Marshal(&log)
	if err != nil {
		return nil, fmt.Errorf("marshal changelog: %w", err)
	}
	if err := tx.WriteFile(changelogFile, data); err != nil {
		return nil, fmt.Errorf("write changelog: %w", err)
	}

	return &a, nil
}

// GetAssessment reads one stored version.
func (r *Repository) GetAssessment(projectID string, version int) (*schema.Assessment, error) {
	if !schema.ValidProjectID(projectID) || version < 1 {
		return nil, &core.NotFoundError{Kind: "assessment", ID: fmt.Sprintf("%s/v%d", projectID, version)}
	}

	data, err := os.ReadFile(filepath.Join(r.projectDir(projectID), versionFile(version)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &core.NotFoundError{Kind: "assessment", ID: fmt.Sprintf("%s/v%d", projectID, version)}
		}
		return nil, fmt.Errorf("read assessment: %w", err)
	}

	var a schema.Assessment
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse assessment %s/v%d: %w", projectID, version, err)
	}
	return &a, nil
}

// ListAssessments returns every stored version of a project, newest first.
func (r *Repository) ListAssessments(projectID string) ([]schema.Assessment, error) {
	log, err := r.ReadChangelog(projectID)
	if err != nil {
		return nil, err
	}

	out := make([]schema.Assessment, 0, len(log.Events))
	for i := len(log.Events) - 1; i >= 0; i-- {
		a, err := r.GetAssessment(projectID, log.Events[i].Version)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, nil
}

// LatestAssessment returns the newest stored version of a project.
func (r *Repository) LatestAssessment(projectID string) (*schema.Assessment, error) {
	log, err := r.ReadChangelog(projectID)
	if err != nil {
		return nil, err
	}
	return r.GetAssessment(projectID, log.LatestVersion)
}

// ReadChangelog returns the project's changelog. A project that was never
// written yields a NotFoundError.
func (r *Repository) ReadChangelog(projectID string) (*Changelog, error) {
	if !schema.ValidProjectID(projectID) {
		return nil, &core.NotFoundError{Kind: "project", ID: projectID}
	}

	data, err := os.ReadFile(filepath.Join(r.projectDir(projectID), changelogFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &core.NotFoundError{Kind: "project", ID: projectID}
		}
		return nil, fmt.Errorf("read changelog: %w", err)
	}

	var log Changelog
	if err := yaml.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("parse changelog: %w", err)
	}
	if log.LatestVersion == 0 {
		return nil, &core.NotFoundError{Kind: "project", ID: projectID}
	}
	return &log, nil
}

// ListProjects returns the IDs of every project directory, sorted.
// Transaction leftovers never pass ValidProjectID and are skipped.
func (r *Repository) ListProjects() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(r.baseDir, projectsDir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read projects: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() && schema.ValidProjectID(e.Name()) {
			ids = append(ids, e.Name())
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (r *Repository) projectDir(projectID string) string {
	return filepath.Join(r.baseDir, projectsDir, projectID)
}

func (r *Repository) lockPath(projectID string) string {
	return filepath.Join(r.baseDir, locksDir, projectID+".lock")
}

func versionFile(version int) string {
	return filepath.Join(assessmentsDir, fmt.Sprintf("v%04d.yaml", version))
}

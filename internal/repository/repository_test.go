package repository

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"kodex/internal/core"
	"kodex/pkg/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	r := NewRepository(t.TempDir(), "test")
	r.now = func() time.Time { return fixedNow }
	return r
}

func sampleAssessment(project string, bucket schema.Bucket) schema.Assessment {
	turnover := 5_000_000.0
	return schema.Assessment{
		ProjectID:          project,
		QuestionSetVersion: "1.0.0",
		RulesVersion:       "1.0.0",
		Answers:            schema.AnswerMap{"domain": "hiring_hr", "decisionImpact": "significant_impact"},
		Classification: schema.Classification{
			Bucket:     bucket,
			Confidence: schema.ConfidenceMedium,
			DecisiveFactors: []schema.DecisiveFactor{
				{QuestionID: "domain", Answer: "hiring_hr", Reason: "matched", RuleID: "R003"},
			},
		},
		EstimatorInputs: &schema.EstimatorInputs{Turnover: &turnover, Currency: "EUR"},
		EstimatorOutput: &schema.Estimate{Min: 75000, Max: 350000, Currency: "EUR", Tier: schema.TierB},
		Roadmap: []schema.Task{
			{ID: "gov_register", Title: "Create an AI Use-Case Register", Priority: schema.PriorityP0, Order: 1, IsTop5: true},
		},
	}
}

func TestSaveAssessmentAssignsVersions(t *testing.T) {
	r := newTestRepo(t)

	first, err := r.SaveAssessment(sampleAssessment("acme", schema.BucketHighRisk), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Version)
	assert.Regexp(t, `^ASM-`, first.ID)
	assert.Equal(t, fixedNow, first.CreatedAt)

	second, err := r.SaveAssessment(sampleAssessment("acme", schema.BucketLimitedRisk), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)
	assert.NotEqual(t, first.ID, second.ID)

	other, err := r.SaveAssessment(sampleAssessment("globex", schema.BucketMinimalRisk), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, other.Version, "versions are per project")

	log, err := r.ReadChangelog("acme")
	require.NoError(t, err)
	assert.Equal(t, 2, log.LatestVersion)
	require.Len(t, log.Events, 2)
	assert.Equal(t, schema.BucketHighRisk, log.Events[0].Bucket)
	assert.Equal(t, 1, log.Events[1].DuplicatedOf)
	assert.Regexp(t, `^EVT-`, log.Events[1].EventID)
}

func TestGetAssessmentRoundTrip(t *testing.T) {
	r := newTestRepo(t)
	saved, err := r.SaveAssessment(sampleAssessment("acme", schema.BucketHighRisk), 0)
	require.NoError(t, err)

	got, err := r.GetAssessment("acme", 1)
	require.NoError(t, err)
	assert.Equal(t, saved, got)
}

func TestListAndLatest(t *testing.T) {
	r := newTestRepo(t)
	for _, b := range []schema.Bucket{schema.BucketNeedsClarification, schema.BucketHighRisk, schema.BucketLimitedRisk} {
		_, err := r.SaveAssessment(sampleAssessment("acme", b), 0)
		require.NoError(t, err)
	}

	list, err := r.ListAssessments("acme")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int{3, 2, 1}, []int{list[0].Version, list[1].Version, list[2].Version})

	latest, err := r.LatestAssessment("acme")
	require.NoError(t, err)
	assert.Equal(t, 3, latest.Version)
	assert.Equal(t, schema.BucketLimitedRisk, latest.Classification.Bucket)

	projects, err := r.ListProjects()
	require.NoError(t, err)
	assert.Equal(t, []string{"acme"}, projects)
}

func TestNotFound(t *testing.T) {
	r := newTestRepo(t)

	tests := []struct {
		name string
		call func() error
	}{
		{"unknown project changelog", func() error { _, err := r.ReadChangelog("nobody"); return err }},
		{"unknown project list", func() error { _, err := r.ListAssessments("nobody"); return err }},
		{"unknown project latest", func() error { _, err := r.LatestAssessment("nobody"); return err }},
		{"unknown version", func() error { _, err := r.GetAssessment("acme", 7); return err }},
		{"zero version", func() error { _, err := r.GetAssessment("acme", 0); return err }},
		{"path traversal", func() error { _, err := r.GetAssessment("../etc", 1); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var nf *core.NotFoundError
			assert.True(t, errors.As(tt.call(), &nf))
		})
	}
}

func TestSaveRejectsInvalidProject(t *testing.T) {
	r := newTestRepo(t)

	_, err := r.SaveAssessment(sampleAssessment("../escape", schema.BucketHighRisk), 0)

	var ve *core.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "projectId", ve.Field)
	_, statErr := os.Stat(filepath.Join(r.BaseDir(), "escape"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestSaveFailsWhileProjectLocked(t *testing.T) {
	r := newTestRepo(t)
	held := NewFileLock(r.lockPath("acme"), "acme", "cli")
	require.NoError(t, held.Acquire())
	defer held.Release()

	_, err := r.SaveAssessment(sampleAssessment("acme", schema.BucketHighRisk), 0)

	var lockErr *core.LockError
	assert.True(t, errors.As(err, &lockErr))
	_, err = r.ReadChangelog("acme")
	assert.Error(t, err, "nothing may be written without the lock")
}

func TestListProjectsEmpty(t *testing.T) {
	r := newTestRepo(t)

	projects, err := r.ListProjects()
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestSequentialWritersFromGoroutines(t *testing.T) {
	r := newTestRepo(t)

	// Writers contend on the same lock; retry until each one lands.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				_, err := r.SaveAssessment(sampleAssessment("acme", schema.BucketHighRisk), 0)
				var lockErr *core.LockError
				if errors.As(err, &lockErr) {
					time.Sleep(time.Millisecond)
					continue
				}
				assert.NoError(t, err)
				return
			}
		}()
	}
	wg.Wait()

	log, err := r.ReadChangelog("acme")
	require.NoError(t, err)
	assert.Equal(t, 4, log.LatestVersion)
	assert.Len(t, log.Events, 4)
}

package estimate

import (
	"math"
	"sync"
	"testing"

	"kodex/pkg/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestEstimateNominal(t *testing.T) {
	params := schema.TierTable{
		schema.TierB: {MinPercent: 1.5, MaxPercent: 7},
	}

	got := Estimate(schema.BucketHighRisk, 5_000_000, "EUR", params)

	require.True(t, got.OK(), "unexpected error: %s", got.Error)
	assert.Equal(t, 75000.0, got.Min)
	assert.Equal(t, 350000.0, got.Max)
	assert.Equal(t, schema.TierB, got.Tier)
	assert.Equal(t, "EUR", got.Currency)
	assert.Equal(t, []string{
		"Annual turnover: EUR 5,000,000",
		"Penalty tier: B (Based on classification)",
		"Percentage range: 1.5% - 7%",
	}, got.Assumptions)
}

func TestEstimateFixedCap(t *testing.T) {
	params := schema.TierTable{
		schema.TierC: {MinPercent: 2, MaxPercent: 6, FixedMax: ptr(35_000_000), Description: "Prohibited AI practices"},
	}

	// 1bn * 6% = 60m, well above the ceiling.
	got := Estimate(schema.BucketProhibited, 1_000_000_000, "EUR", params)

	require.True(t, got.OK())
	assert.Equal(t, schema.TierC, got.Tier)
	assert.Equal(t, 35_000_000.0, got.Max)
	assert.Equal(t, 20_000_000.0, got.Min)
	assert.Contains(t, got.Assumptions, "Maximum capped at fixed ceiling of EUR 35,000,000")
	assert.Contains(t, got.Assumptions, "Penalty tier: C (Prohibited AI practices)")
}

func TestEstimateCeilingNeverRaises(t *testing.T) {
	params := schema.TierTable{
		schema.TierC: {MinPercent: 2, MaxPercent: 6, FixedMax: ptr(35_000_000)},
	}

	got := Estimate(schema.BucketProhibited, 10_000_000, "EUR", params)

	require.True(t, got.OK())
	assert.Equal(t, 600_000.0, got.Max)
	for _, a := range got.Assumptions {
		assert.NotContains(t, a, "capped")
	}
}

func TestEstimateCeilingLeavesMinimum(t *testing.T) {
	// 2bn * 2% = 40m, above the 35m ceiling.
	got := Estimate(schema.BucketProhibited, 2_000_000_000, "EUR", DefaultTierTable())

	require.True(t, got.OK())
	assert.Equal(t, 40_000_000.0, got.Min)
	assert.Equal(t, 35_000_000.0, got.Max)
	assert.Contains(t, got.Assumptions, "Percentage minimum exceeds the fixed ceiling")
}

func TestEstimateFailures(t *testing.T) {
	full := DefaultTierTable()

	tests := []struct {
		name     string
		bucket   schema.Bucket
		turnover float64
		params   schema.TierTable
		want     string
	}{
		{"zero turnover", schema.BucketHighRisk, 0, full, ErrTurnoverNotConfigured},
		{"negative turnover", schema.BucketHighRisk, -10, full, ErrTurnoverNotConfigured},
		{"NaN turnover", schema.BucketHighRisk, math.NaN(), full, ErrTurnoverNotConfigured},
		{"infinite turnover", schema.BucketHighRisk, math.Inf(1), full, ErrTurnoverNotConfigured},
		{"missing tier", schema.BucketProhibited, 1_000_000, schema.TierTable{schema.TierA: full[schema.TierA]}, ErrTierNotConfigured},
		{"nil table", schema.BucketMinimalRisk, 1_000_000, nil, ErrTierNotConfigured},
		{"turnover checked before tier", schema.BucketHighRisk, 0, nil, ErrTurnoverNotConfigured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Estimate(tt.bucket, tt.turnover, "EUR", tt.params)
			assert.False(t, got.OK())
			assert.Equal(t, tt.want, got.Error)
		})
	}
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		bucket schema.Bucket
		want   schema.Tier
	}{
		{schema.BucketProhibited, schema.TierC},
		{schema.BucketHighRisk, schema.TierB},
		{schema.BucketLimitedRisk, schema.TierA},
		{schema.BucketMinimalRisk, schema.TierA},
		{schema.BucketNeedsClarification, schema.TierA},
		{schema.Bucket("bogus"), schema.TierA},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TierFor(tt.bucket), "bucket %s", tt.bucket)
	}
}

func TestEstimateNeedsClarificationAssumption(t *testing.T) {
	got := Estimate(schema.BucketNeedsClarification, 1_000_000, "USD", DefaultTierTable())

	require.True(t, got.OK())
	assert.Equal(t, schema.TierA, got.Tier)
	assert.Equal(t, 5000.0, got.Min)
	assert.Equal(t, 30000.0, got.Max)
	assert.Contains(t, got.Assumptions, "Annual turnover: USD 1,000,000")
	assert.Contains(t, got.Assumptions, "Classification unresolved; estimated against the general tier")
}

func TestEstimateRoundsToCents(t *testing.T) {
	params := schema.TierTable{schema.TierA: {MinPercent: 0.333, MaxPercent: 1}}

	got := Estimate(schema.BucketMinimalRisk, 1234.56, "EUR", params)

	require.True(t, got.OK())
	assert.Equal(t, 4.11, got.Min)
	assert.Equal(t, 12.35, got.Max)
}

func TestEstimateConcurrentCalls(t *testing.T) {
	params := DefaultTierTable()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := Estimate(schema.BucketHighRisk, 5_000_000, "EUR", params)
			assert.Equal(t, 350000.0, got.Max)
		}()
	}
	wg.Wait()
}

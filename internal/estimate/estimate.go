// Package estimate turns a risk bucket and an organization's turnover into a
// penalty-exposure range.
package estimate

import (
	"math"
	"strconv"

	"kodex/pkg/schema"

	"github.com/dustin/go-humanize"
)

// Failure messages of the tagged Estimate result.
const (
	ErrTurnoverNotConfigured = "turnover not configured"
	ErrTierNotConfigured     = "tier not configured"
)

// bucketTiers is the fixed bucket-to-tier table. An unresolved classification
// is estimated against the general tier.
var bucketTiers = map[schema.Bucket]schema.Tier{
	schema.BucketProhibited:         schema.TierC,
	schema.BucketHighRisk:           schema.TierB,
	schema.BucketLimitedRisk:        schema.TierA,
	schema.BucketMinimalRisk:        schema.TierA,
	schema.BucketNeedsClarification: schema.TierA,
}

// TierFor returns the penalty tier for bucket. Unknown buckets map to tier A.
func TierFor(bucket schema.Bucket) schema.Tier {
	if tier, ok := bucketTiers[bucket]; ok {
		return tier
	}
	return schema.TierA
}

// DefaultTierTable returns the tier parameters a new organization starts with.
func DefaultTierTable() schema.TierTable {
	fixedMax := 35000000.0
	return schema.TierTable{
		schema.TierA: {MinPercent: 0.5, MaxPercent: 3, Description: "General AI Act violations"},
		schema.TierB: {MinPercent: 1.5, MaxPercent: 7, Description: "High-risk system violations"},
		schema.TierC: {MinPercent: 2, MaxPercent: 6, FixedMax: &fixedMax, Description: "Prohibited AI practices"},
	}
}

// Estimate computes the exposure range for bucket. It never returns a Go
// error: missing configuration is reported through Estimate.Error.
func Estimate(bucket schema.Bucket, turnover float64, currency string, params schema.TierTable) schema.Estimate {
	if math.IsNaN(turnover) || math.IsInf(turnover, 0) || turnover <= 0 {
		return schema.Estimate{Error: ErrTurnoverNotConfigured}
	}

	tier := TierFor(bucket)
	p, ok := params[tier]
	if !ok {
		return schema.Estimate{Error: ErrTierNotConfigured}
	}

	low := turnover * p.MinPercent / 100
	high := turnover * p.MaxPercent / 100
	capped := false
	if p.FixedMax != nil && high > *p.FixedMax {
		high = *p.FixedMax
		capped = true
	}

	assumptions := []string{
		"Annual turnover: " + formatMoney(currency, turnover),
		"Penalty tier: " + string(tier) + " (" + describeTier(p) + ")",
		"Percentage range: " + formatPercent(p.MinPercent) + "% - " + formatPercent(p.MaxPercent) + "%",
	}
	if capped {
		assumptions = append(assumptions, "Maximum capped at fixed ceiling of "+formatMoney(currency, *p.FixedMax))
	}
	if low > high {
		assumptions = append(assumptions, "Percentage minimum exceeds the fixed ceiling")
	}
	if bucket == schema.BucketNeedsClarification {
		assumptions = append(assumptions, "Classification unresolved; estimated against the general tier")
	}

	return schema.Estimate{
		Min:         roundCents(low),
		Max:         roundCents(high),
		Currency:    currency,
		Tier:        tier,
		Assumptions: assumptions,
	}
}

func describeTier(p schema.TierParameters) string {
	if p.Description != "" {
		return p.Description
	}
	return "Based on classification"
}

func formatMoney(currency string, amount float64) string {
	if currency == "" {
		return humanize.Commaf(amount)
	}
	return currency + " " + humanize.Commaf(amount)
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

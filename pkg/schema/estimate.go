package schema

import "encoding/json"

// TierParameters is the percentage-of-turnover band for one penalty tier.
// FixedMax, when set, is a ceiling on the computed maximum.
type TierParameters struct {
	MinPercent  float64  `json:"minPercent" yaml:"min_percent" validate:"gte=0,lte=100"`
	MaxPercent  float64  `json:"maxPercent" yaml:"max_percent" validate:"gte=0,lte=100,gtefield=MinPercent"`
	FixedMax    *float64 `json:"fixedMax,omitempty" yaml:"fixed_max,omitempty" validate:"omitempty,gt=0"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// TierTable holds the parameters per tier letter.
type TierTable map[Tier]TierParameters

// Settings is the organization-level configuration supplied by the caller.
type Settings struct {
	Currency         string    `json:"currency" yaml:"currency" validate:"required,len=3,uppercase"`
	DefaultTurnover  *float64  `json:"defaultTurnover,omitempty" yaml:"default_turnover,omitempty" validate:"omitempty,gt=0"`
	PenaltyTierModel Tier      `json:"penaltyTierModel" yaml:"penalty_tier_model" validate:"omitempty,oneof=A B C"`
	TierParameters   TierTable `json:"tierParameters" yaml:"tier_parameters" validate:"required,dive,keys,oneof=A B C,endkeys"`
	DisclaimerText   string    `json:"disclaimerText" yaml:"disclaimer_text" validate:"required"`
}

// Estimate is the tagged result of a penalty-exposure calculation. A non-empty
// Error marks a failure; the remaining fields are then meaningless.
type Estimate struct {
	Min         float64  `json:"min" yaml:"min"`
	Max         float64  `json:"max" yaml:"max"`
	Currency    string   `json:"currency" yaml:"currency"`
	Tier        Tier     `json:"tier" yaml:"tier"`
	Assumptions []string `json:"assumptions" yaml:"assumptions"`
	Error       string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// OK reports whether the estimate succeeded.
func (e Estimate) OK() bool {
	return e.Error == ""
}

// MarshalJSON emits only the error field for failed estimates.
func (e Estimate) MarshalJSON() ([]byte, error) {
	if !e.OK() {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{Error: e.Error})
	}
	type plain Estimate
	return json.Marshal(plain(e))
}

// EstimatorInputs are the caller-supplied values an assessment was estimated with.
type EstimatorInputs struct {
	Turnover       *float64  `json:"turnover,omitempty" yaml:"turnover,omitempty"`
	Currency       string    `json:"currency,omitempty" yaml:"currency,omitempty"`
	TierParameters TierTable `json:"tierParameters,omitempty" yaml:"tier_parameters,omitempty"`
}

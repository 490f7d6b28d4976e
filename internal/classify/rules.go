package classify

import "kodex/pkg/schema"

// RulesVersion identifies the rule table below. Bump it whenever a rule,
// condition or reason changes so stored classifications stay attributable.
const RulesVersion = "1.0.0"

// Stage is a rule's evaluation tier. Lower stages are evaluated first and
// win over higher ones.
type Stage int

const (
	StageProhibited Stage = iota
	StageHighRisk
	StageTransparency
	StageMinimal
)

// Bucket returns the bucket a firing rule of this stage produces.
func (s Stage) Bucket() schema.Bucket {
	switch s {
	case StageProhibited:
		return schema.BucketProhibited
	case StageHighRisk:
		return schema.BucketHighRisk
	case StageTransparency:
		return schema.BucketLimitedRisk
	default:
		return schema.BucketMinimalRisk
	}
}

func (s Stage) String() string {
	switch s {
	case StageProhibited:
		return "prohibited"
	case StageHighRisk:
		return "high-risk"
	case StageTransparency:
		return "transparency"
	case StageMinimal:
		return "minimal"
	}
	return "unknown"
}

func (s Stage) valid() bool {
	return s >= StageProhibited && s <= StageMinimal
}

// Condition is met when the answer to QuestionID is one of Values.
type Condition struct {
	QuestionID string
	Values     []string
}

// Rule is one typed entry of the ordered rule table. A rule fires when every
// condition is met.
type Rule struct {
	ID         string
	Name       string
	Stage      Stage
	Confidence schema.Confidence
	Conditions []Condition
	Reason     string
}

// criticalQuestions are the inputs whose "not sure" answers force the
// clarification fallback (two or more, or one next to a high-risk verdict).
var criticalQuestions = []string{
	"decisionImpact",
	"dataTypes",
	"biometric",
	"safetyCritical",
	"humanOversight",
}

var externalDeployment = []string{"external", "both"}

var rules = []Rule{
	{
		ID:         "R001",
		Name:       "Prohibited: Real-time biometric identification in public spaces",
		Stage:      StageProhibited,
		Confidence: schema.ConfidenceHigh,
		Conditions: []Condition{
			{QuestionID: "biometric", Values: []string{"yes"}},
			{QuestionID: "deployment", Values: externalDeployment},
		},
		Reason: "Real-time biometric identification systems for law enforcement purposes in publicly accessible spaces are prohibited under Art. 5 of the AI Act.",
	},
	{
		ID:         "R002",
		Name:       "Prohibited: Social scoring by public authorities",
		Stage:      StageProhibited,
		Confidence: schema.ConfidenceHigh,
		Conditions: []Condition{
			{QuestionID: "domain", Values: []string{"public_sector"}},
			{QuestionID: "behavior", Values: []string{"scores_ranks"}},
			{QuestionID: "decisionImpact", Values: []string{"significant_impact"}},
		},
		Reason: "AI systems used by public authorities for social scoring that leads to detrimental treatment are prohibited under Art. 5.",
	},
	{
		ID:         "R003",
		Name:       "High-risk: HR recruitment and selection",
		Stage:      StageHighRisk,
		Confidence: schema.ConfidenceHigh,
		Conditions: []Condition{
			{QuestionID: "domain", Values: []string{"hiring_hr"}},
			{QuestionID: "decisionImpact", Values: []string{"significant_impact"}},
		},
		Reason: "AI systems used in employment for recruitment, screening, filtering applications, or evaluating candidates are classified as high-risk under Annex III.",
	},
	{
		ID:         "R004",
		Name:       "High-risk: HR decisions affecting workers",
		Stage:      StageHighRisk,
		Confidence: schema.ConfidenceHigh,
		Conditions: []Condition{
			{QuestionID: "domain", Values: []string{"hiring_hr"}},
			{QuestionID: "behavior", Values: []string{"scores_ranks"}},
			{QuestionID: "humanOversight", Values: []string{"fully_automated"}},
		},
		Reason: "AI systems making decisions on promotion, termination, task allocation, or performance monitoring with significant impact are high-risk.",
	},
	{
		ID:         "R005",
		Name:       "High-risk: Credit/finance decisions",
		Stage:      StageHighRisk,
		Confidence: schema.ConfidenceHigh,
		Conditions: []Condition{
			{QuestionID: "domain", Values: []string{"finance"}},
			{QuestionID: "decisionImpact", Values: []string{"significant_impact"}},
		},
		Reason: "AI systems evaluating creditworthiness or establishing credit scores are high-risk under Annex III.",
	},
	{
		ID:         "R006",
		Name:       "High-risk: Healthcare/medical context",
		Stage:      StageHighRisk,
		Confidence: schema.ConfidenceHigh,
		Conditions: []Condition{
			{QuestionID: "domain", Values: []string{"healthcare"}},
			{QuestionID: "safetyCritical", Values: []string{"yes"}},
		},
		Reason: "AI systems intended to be used as safety components of medical devices are high-risk.",
	},
	{
		ID:         "R007",
		Name:       "High-risk: Education assessment",
		Stage:      StageHighRisk,
		Confidence: schema.ConfidenceHigh,
		Conditions: []Condition{
			{QuestionID: "domain", Values: []string{"education"}},
			{QuestionID: "decisionImpact", Values: []string{"significant_impact"}},
		},
		Reason: "AI systems determining access to education or evaluating learning outcomes are high-risk.",
	},
	{
		// A single self-declared answer, regardless of domain.
		ID:         "R008",
		Name:       "High-risk: Safety-critical infrastructure",
		Stage:      StageHighRisk,
		Confidence: schema.ConfidenceMedium,
		Conditions: []Condition{
			{QuestionID: "safetyCritical", Values: []string{"yes"}},
		},
		Reason: "AI systems used in critical infrastructure management are classified as high-risk.",
	},
	{
		ID:         "R009",
		Name:       "High-risk: Biometric categorization",
		Stage:      StageHighRisk,
		Confidence: schema.ConfidenceHigh,
		Conditions: []Condition{
			{QuestionID: "biometric", Values: []string{"yes"}},
			{QuestionID: "dataTypes", Values: []string{"sensitive"}},
		},
		Reason: "Biometric categorization systems using sensitive attributes are high-risk.",
	},
	{
		ID:         "R010",
		Name:       "Limited risk: AI-generated content",
		Stage:      StageTransparency,
		Confidence: schema.ConfidenceHigh,
		Conditions: []Condition{
			{QuestionID: "behavior", Values: []string{"generates_content"}},
			{QuestionID: "deployment", Values: externalDeployment},
		},
		Reason: "AI systems generating synthetic content must disclose that content is AI-generated (transparency obligation).",
	},
	{
		ID:         "R011",
		Name:       "Limited risk: Chatbots/conversational AI",
		Stage:      StageTransparency,
		Confidence: schema.ConfidenceHigh,
		Conditions: []Condition{
			{QuestionID: "behavior", Values: []string{"generates_content", "recommends"}},
			{QuestionID: "deployment", Values: externalDeployment},
			{QuestionID: "decisionImpact", Values: []string{"low_impact", "no_impact"}},
		},
		Reason: "Chatbots and AI systems interacting with users must disclose they are AI (transparency obligation).",
	},
	{
		ID:         "R012",
		Name:       "Minimal risk: Internal productivity tools",
		Stage:      StageMinimal,
		Confidence: schema.ConfidenceHigh,
		Conditions: []Condition{
			{QuestionID: "deployment", Values: []string{"internal"}},
			{QuestionID: "decisionImpact", Values: []string{"no_impact", "low_impact"}},
			{QuestionID: "domain", Values: []string{"general_productivity"}},
		},
		Reason: "Internal AI tools for general productivity with no significant impact on individuals are minimal risk.",
	},
	{
		ID:         "R013",
		Name:       "Minimal risk: Low-impact advisory systems",
		Stage:      StageMinimal,
		Confidence: schema.ConfidenceMedium,
		Conditions: []Condition{
			{QuestionID: "humanOversight", Values: []string{"advisory"}},
			{QuestionID: "decisionImpact", Values: []string{"no_impact"}},
		},
		Reason: "AI systems providing advisory information without direct impact are generally minimal risk.",
	},
}

// DefaultRules returns a copy of the built-in rule table in evaluation order.
func DefaultRules() []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		out[i] = r.clone()
	}
	return out
}

func (r Rule) clone() Rule {
	conds := make([]Condition, len(r.Conditions))
	for i, c := range r.Conditions {
		conds[i] = Condition{QuestionID: c.QuestionID, Values: append([]string(nil), c.Values...)}
	}
	r.Conditions = conds
	return r
}

func (c Condition) matches(value string) bool {
	for _, v := range c.Values {
		if v == value {
			return true
		}
	}
	return false
}

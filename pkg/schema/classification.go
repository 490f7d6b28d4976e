package schema

// DecisiveFactor cites one answer that drove the bucket decision.
type DecisiveFactor struct {
	QuestionID string `json:"questionId" yaml:"question_id"`
	Answer     string `json:"answer" yaml:"answer"`
	Reason     string `json:"reason" yaml:"reason"`
	RuleID     string `json:"ruleId,omitempty" yaml:"rule_id,omitempty"`
}

// MissingInfo names a required question whose answer could change the result.
type MissingInfo struct {
	QuestionID       string `json:"questionId" yaml:"question_id"`
	Label            string `json:"label" yaml:"label"`
	WhyItMatters     string `json:"whyItMatters" yaml:"why_it_matters"`
	FollowUpQuestion string `json:"followUpQuestion" yaml:"follow_up_question"`
}

// RuleStatus is the evaluation outcome of a single rule.
type RuleStatus string

const (
	RuleFired         RuleStatus = "fired"
	RulePartial       RuleStatus = "partial"
	RuleUncertain     RuleStatus = "uncertain"
	RuleNotApplicable RuleStatus = "not_applicable"
	RuleSkipped       RuleStatus = "skipped"
)

// RuleResult records how one rule evaluated against the answers.
type RuleResult struct {
	RuleID          string     `json:"ruleId" yaml:"rule_id"`
	Status          RuleStatus `json:"status" yaml:"status"`
	ConditionsMet   int        `json:"conditionsMet" yaml:"conditions_met"`
	ConditionsTotal int        `json:"conditionsTotal" yaml:"conditions_total"`
	Note            string     `json:"note" yaml:"note"`
}

// Classification is the full, explainable verdict for one answer set.
type Classification struct {
	Bucket             Bucket           `json:"bucket" yaml:"bucket"`
	Confidence         Confidence       `json:"confidence" yaml:"confidence"`
	Summary            string           `json:"summary" yaml:"summary"`
	DecisiveFactors    []DecisiveFactor `json:"decisiveFactors" yaml:"decisive_factors"`
	Assumptions        []string         `json:"assumptions" yaml:"assumptions"`
	MissingInfo        []MissingInfo    `json:"missingInfo" yaml:"missing_info"`
	WhatChangesOutcome []string         `json:"whatChangesOutcome" yaml:"what_changes_outcome"`
	RuleTrace          []RuleResult     `json:"ruleTrace" yaml:"rule_trace"`
	RulesVersion       string           `json:"rulesVersion" yaml:"rules_version"`
	QuestionSetVersion string           `json:"questionSetVersion" yaml:"question_set_version"`
}

// Task is one remediation step of a compliance roadmap.
type Task struct {
	ID           string   `json:"id" yaml:"id"`
	Title        string   `json:"title" yaml:"title"`
	Theme        string   `json:"theme" yaml:"theme"`
	Why          string   `json:"why" yaml:"why"`
	Checklist    []string `json:"checklist" yaml:"checklist"`
	Deliverable  string   `json:"deliverable" yaml:"deliverable"`
	Owner        string   `json:"owner" yaml:"owner"`
	Effort       Effort   `json:"effort" yaml:"effort"`
	Priority     Priority `json:"priority" yaml:"priority"`
	IsTop5       bool     `json:"isTop5" yaml:"is_top5"`
	Order        int      `json:"order" yaml:"order"`
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// Package classify maps an answer set onto an AI Act risk bucket using an
// ordered table of typed rules. Classification is deterministic and total:
// every input, including an empty or malformed one, yields a Classification.
package classify

import (
	"fmt"
	"strings"

	"kodex/internal/catalog"
	"kodex/internal/core"
	"kodex/pkg/schema"
)

// Engine evaluates the rule table against answer sets. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	catalog   *catalog.Catalog
	questions []schema.Question
	byID      map[string]schema.Question
	rules     []Rule

	// inputs lists every question a rule reads, in catalog order.
	inputs []string
	// feeds maps an input to the most severe bucket its rules can produce.
	feeds map[string]int
	// gated lists required inputs of the stages before minimal.
	gated    []string
	critical []string
}

// evaluation is the outcome of one rule against one answer set.
type evaluation struct {
	status    schema.RuleStatus
	met       int
	uncertain int
	total     int
}

// verdict is the decision without its explanation, cheap enough to compute
// repeatedly while probing counterfactuals.
type verdict struct {
	bucket     schema.Bucket
	confidence schema.Confidence
	fallback   bool
	winners    []int
	evals      []evaluation
	notSure    []string
}

// New builds an engine over the default rule table.
func New(cat *catalog.Catalog) (*Engine, error) {
	return NewWithRules(cat, DefaultRules())
}

// NewWithRules builds an engine over a custom rule table. The table must be
// ordered by stage and may only reference single-choice catalog questions and
// their declared options.
func NewWithRules(cat *catalog.Catalog, rs []Rule) (*Engine, error) {
	if cat == nil {
		return nil, ruleErr("catalog is required")
	}
	if len(rs) == 0 {
		return nil, ruleErr("rule table is empty")
	}

	e := &Engine{
		catalog:   cat,
		questions: cat.All(),
		byID:      make(map[string]schema.Question),
		feeds:     make(map[string]int),
	}
	for _, q := range e.questions {
		e.byID[q.ID] = q
	}

	seen := make(map[string]bool, len(rs))
	prev := StageProhibited
	for _, r := range rs {
		if r.ID == "" {
			return nil, ruleErr("rule without id")
		}
		if seen[r.ID] {
			return nil, ruleErr("duplicate rule id %q", r.ID)
		}
		seen[r.ID] = true

		if !r.Stage.valid() {
			return nil, ruleErr("rule %s: unknown stage %d", r.ID, r.Stage)
		}
		if r.Stage < prev {
			return nil, ruleErr("rule %s: %s rule listed after %s rules", r.ID, r.Stage, prev)
		}
		prev = r.Stage

		if !r.Confidence.Valid() {
			return nil, ruleErr("rule %s: invalid confidence %q", r.ID, r.Confidence)
		}
		if len(r.Conditions) == 0 {
			return nil, ruleErr("rule %s: no conditions", r.ID)
		}

		sev, _ := r.Stage.Bucket().Severity()
		for _, c := range r.Conditions {
			q, ok := e.byID[c.QuestionID]
			if !ok {
				return nil, ruleErr("rule %s: unknown question %q", r.ID, c.QuestionID)
			}
			if q.Kind != schema.KindSingleChoice {
				return nil, ruleErr("rule %s: question %q is not single-choice", r.ID, c.QuestionID)
			}
			if len(c.Values) == 0 {
				return nil, ruleErr("rule %s: condition on %q has no values", r.ID, c.QuestionID)
			}
			for _, v := range c.Values {
				if v == schema.AnswerNotSure || !q.HasOption(v) {
					return nil, ruleErr("rule %s: %q is not a usable option of %q", r.ID, v, c.QuestionID)
				}
			}
			if cur, ok := e.feeds[c.QuestionID]; !ok || sev > cur {
				e.feeds[c.QuestionID] = sev
			}
		}
		e.rules = append(e.rules, r.clone())
	}

	minimal, _ := schema.BucketMinimalRisk.Severity()
	for _, q := range e.questions {
		sev, ok := e.feeds[q.ID]
		if !ok {
			continue
		}
		e.inputs = append(e.inputs, q.ID)
		if q.Required && sev > minimal {
			e.gated = append(e.gated, q.ID)
		}
	}
	for _, id := range criticalQuestions {
		if _, ok := e.byID[id]; ok {
			e.critical = append(e.critical, id)
		}
	}

	return e, nil
}

// Rules returns a copy of the engine's rule table.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	for i, r := range e.rules {
		out[i] = r.clone()
	}
	return out
}

// Classify evaluates answers. Unknown keys are ignored; values that are not a
// string, or not a declared option, count as unanswered.
func (e *Engine) Classify(answers schema.AnswerMap) schema.Classification {
	values, malformed := e.resolve(answers)
	v := e.decide(values)
	missing := e.missingInfo(v, values)

	return schema.Classification{
		Bucket:             v.bucket,
		Confidence:         v.confidence,
		Summary:            summarize(v, values, len(missing)),
		DecisiveFactors:    e.decisiveFactors(v, values),
		Assumptions:        e.assumptions(values, malformed),
		MissingInfo:        missing,
		WhatChangesOutcome: e.counterfactuals(v, values),
		RuleTrace:          e.trace(v),
		RulesVersion:       RulesVersion,
		QuestionSetVersion: e.catalog.Version(),
	}
}

// resolve keeps the usable answers of catalog questions. The second result
// lists questions whose value was present but unusable, in catalog order.
func (e *Engine) resolve(answers schema.AnswerMap) (map[string]string, []string) {
	values := make(map[string]string, len(e.questions))
	var malformed []string

	for _, q := range e.questions {
		raw, present := answers[q.ID]
		if !present || raw == nil {
			continue
		}
		if _, isString := raw.(string); !isString {
			malformed = append(malformed, q.ID)
			continue
		}
		s, ok := answers.Text(q.ID)
		if !ok {
			continue
		}
		if q.Kind == schema.KindSingleChoice && !q.HasOption(s) {
			malformed = append(malformed, q.ID)
			continue
		}
		values[q.ID] = s
	}

	return values, malformed
}

// decide runs the staged decision procedure over resolved answers.
func (e *Engine) decide(values map[string]string) verdict {
	v := verdict{evals: make([]evaluation, len(e.rules))}

	for _, id := range e.critical {
		if values[id] == schema.AnswerNotSure {
			v.notSure = append(v.notSure, id)
		}
	}

	for i, r := range e.rules {
		if r.Stage == StageProhibited {
			v.evals[i] = evaluate(r, values)
		}
	}
	if fired := v.firing(e.rules, StageProhibited); len(fired) > 0 {
		for i, r := range e.rules {
			if r.Stage != StageProhibited {
				v.evals[i] = evaluation{status: schema.RuleSkipped, total: len(r.Conditions)}
			}
		}
		v.bucket = schema.BucketProhibited
		v.confidence = schema.ConfidenceHigh
		v.winners = fired
		return v
	}

	for i, r := range e.rules {
		if r.Stage != StageProhibited {
			v.evals[i] = evaluate(r, values)
		}
	}

	if len(v.notSure) >= 2 {
		return v.clarify()
	}

	if fired := v.firing(e.rules, StageHighRisk); len(fired) > 0 {
		if len(v.notSure) == 1 {
			return v.clarify()
		}
		v.bucket = schema.BucketHighRisk
		v.winners = fired
	} else if fired := v.firing(e.rules, StageTransparency); len(fired) > 0 {
		v.bucket = schema.BucketLimitedRisk
		v.winners = fired
	} else {
		for _, id := range e.gated {
			if val, ok := values[id]; !ok || val == schema.AnswerNotSure {
				return v.clarify()
			}
		}
		v.bucket = schema.BucketMinimalRisk
		v.winners = v.firing(e.rules, StageMinimal)
	}

	v.confidence = e.confidence(v.winners, values)
	return v
}

// confidence is the best base confidence among the winning rules, lowered to
// Medium when any required rule input is missing or uncertain.
func (e *Engine) confidence(winners []int, values map[string]string) schema.Confidence {
	c := schema.ConfidenceHigh
	if len(winners) > 0 {
		c = schema.ConfidenceLow
		for _, i := range winners {
			c = c.Max(e.rules[i].Confidence)
		}
	}
	for _, id := range e.inputs {
		if !e.byID[id].Required {
			continue
		}
		if val, ok := values[id]; !ok || val == schema.AnswerNotSure {
			return c.Min(schema.ConfidenceMedium)
		}
	}
	return c
}

func (v verdict) clarify() verdict {
	v.bucket = schema.BucketNeedsClarification
	v.confidence = schema.ConfidenceLow
	v.fallback = true
	v.winners = nil
	return v
}

func (v verdict) firing(rs []Rule, stage Stage) []int {
	var idx []int
	for i, r := range rs {
		if r.Stage == stage && v.evals[i].status == schema.RuleFired {
			idx = append(idx, i)
		}
	}
	return idx
}

func evaluate(r Rule, values map[string]string) evaluation {
	ev := evaluation{total: len(r.Conditions)}
	for _, c := range r.Conditions {
		val, ok := values[c.QuestionID]
		switch {
		case !ok || val == schema.AnswerNotSure:
			ev.uncertain++
		case c.matches(val):
			ev.met++
		}
	}

	failed := ev.total - ev.met - ev.uncertain
	switch {
	case ev.met == ev.total:
		ev.status = schema.RuleFired
	case failed > 0 && ev.met > 0:
		ev.status = schema.RulePartial
	case failed > 0:
		ev.status = schema.RuleNotApplicable
	default:
		ev.status = schema.RuleUncertain
	}
	return ev
}

func (e *Engine) trace(v verdict) []schema.RuleResult {
	out := make([]schema.RuleResult, len(e.rules))
	for i, r := range e.rules {
		ev := v.evals[i]
		var note string
		switch ev.status {
		case schema.RuleFired:
			note = r.Reason
		case schema.RulePartial:
			note = fmt.Sprintf("Partially matched (%d/%d)", ev.met, ev.total)
		case schema.RuleUncertain:
			note = fmt.Sprintf("Awaiting answers (%d/%d matched, %d open)", ev.met, ev.total, ev.uncertain)
		case schema.RuleSkipped:
			note = "Not evaluated: a prohibited practice matched first"
		default:
			note = "Not applicable"
		}
		out[i] = schema.RuleResult{
			RuleID:          r.ID,
			Status:          ev.status,
			ConditionsMet:   ev.met,
			ConditionsTotal: ev.total,
			Note:            note,
		}
	}
	return out
}

// decisiveFactors cites only resolved answers, so every factor refers to a
// key the caller supplied.
func (e *Engine) decisiveFactors(v verdict, values map[string]string) []schema.DecisiveFactor {
	factors := make([]schema.DecisiveFactor, 0)
	cited := make(map[string]bool)
	add := func(id, reason, ruleID string) {
		val, ok := values[id]
		if !ok || cited[id] {
			return
		}
		cited[id] = true
		factors = append(factors, schema.DecisiveFactor{
			QuestionID: id,
			Answer:     val,
			Reason:     reason,
			RuleID:     ruleID,
		})
	}

	switch {
	case v.fallback:
		for _, id := range e.inputs {
			if values[id] == schema.AnswerNotSure {
				add(id, "Answered 'Not sure' on an input the classification depends on", "")
			}
		}
	case len(v.winners) > 0:
		for _, i := range v.winners {
			r := e.rules[i]
			for _, c := range r.Conditions {
				label := e.byID[c.QuestionID].OptionLabel(values[c.QuestionID])
				add(c.QuestionID, fmt.Sprintf("Answer '%s' matched condition for %s", label, r.Name), r.ID)
			}
		}
	default:
		for _, id := range []string{"domain", "decisionImpact"} {
			add(id, "No rule above minimal risk matched this answer", "")
		}
	}

	return factors
}

var domainAssumptions = map[string]string{
	"general_productivity": "General productivity domain",
	"hiring_hr":            "HR/Hiring domain",
	"finance":              "Finance domain",
	"healthcare":           "Healthcare domain",
	"education":            "Education domain",
	"public_sector":        "Public sector domain",
}

var roleAssumptions = map[string]string{
	"developer":     "You develop the AI system (provider obligations may apply)",
	"integrator":    "You integrate third-party AI (deployer obligations may apply)",
	"internal_user": "You use AI internally (user obligations may apply)",
}

func (e *Engine) assumptions(values map[string]string, malformed []string) []string {
	out := make([]string, 0)

	if d, ok := values["domain"]; ok {
		label, known := domainAssumptions[d]
		if !known {
			label = e.byID["domain"].OptionLabel(d)
		}
		out = append(out, "Domain: "+label)
	}
	if r, ok := values["companyRole"]; ok {
		label, known := roleAssumptions[r]
		if !known {
			label = "Role not specified"
		}
		out = append(out, label)
	}

	for _, id := range malformed {
		out = append(out, fmt.Sprintf("Answer to %q was not a recognized option and was treated as unanswered", e.byID[id].Label))
	}
	for _, q := range e.questions {
		if _, ok := values[q.ID]; !ok && !q.Required {
			out = append(out, fmt.Sprintf("No answer to optional question %q; no extra context assumed", strings.TrimSuffix(q.Label, " (optional)")))
		}
	}

	return append(out, "Classification based on answers provided; actual classification may differ with more context")
}

// missingInfo lists required rule inputs that are open and could still move
// the outcome. A definite bucket only cares about inputs of rules at least as
// severe as itself.
func (e *Engine) missingInfo(v verdict, values map[string]string) []schema.MissingInfo {
	floor := 0
	if !v.fallback {
		floor, _ = v.bucket.Severity()
	}

	out := make([]schema.MissingInfo, 0)
	for _, id := range e.inputs {
		q := e.byID[id]
		if !q.Required || e.feeds[id] < floor {
			continue
		}
		if val, ok := values[id]; ok && val != schema.AnswerNotSure {
			continue
		}
		out = append(out, schema.MissingInfo{
			QuestionID:       q.ID,
			Label:            q.Label,
			WhyItMatters:     q.WhyItMatters,
			FollowUpQuestion: q.FollowUp,
		})
	}
	return out
}

func ruleErr(format string, args ...any) error {
	return &core.ConfigurationError{Source: "rules", Message: fmt.Sprintf(format, args...)}
}

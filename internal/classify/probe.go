package classify

import (
	"fmt"

	"kodex/pkg/schema"
)

// flip is one single-answer perturbation that changes the bucket.
type flip struct {
	question schema.Question
	from     string
	to       string
	bucket   schema.Bucket
}

// probe re-runs the decision procedure once per alternative option of every
// rule input and keeps the flips that land on a different bucket. Results
// follow catalog order, then option order.
func (e *Engine) probe(values map[string]string, current schema.Bucket) []flip {
	var flips []flip
	trial := make(map[string]string, len(values)+1)

	for _, id := range e.inputs {
		q := e.byID[id]
		from := values[id]

		for _, opt := range q.Options {
			if opt.Value == schema.AnswerNotSure || opt.Value == from {
				continue
			}

			clear(trial)
			for k, val := range values {
				trial[k] = val
			}
			trial[id] = opt.Value

			b := e.decide(trial).bucket
			if b == current {
				continue
			}
			flips = append(flips, flip{question: q, from: from, to: opt.Value, bucket: b})
		}
	}

	return flips
}

// counterfactuals describes what would change the outcome. A definite bucket
// reports the flips reaching the nearest bucket on each side of the severity
// scale, or the flips that break its condition when no definite bucket is
// reachable. The fallback reports every flip that resolves it.
func (e *Engine) counterfactuals(v verdict, values map[string]string) []string {
	flips := e.probe(values, v.bucket)
	out := make([]string, 0)

	if v.fallback {
		for _, f := range flips {
			out = append(out, f.describe())
		}
		return append(out, "Answering the missing questions would allow a definitive classification")
	}

	sev, _ := v.bucket.Severity()
	up, down := -1, -1
	for _, f := range flips {
		s, ok := f.bucket.Severity()
		if !ok {
			continue
		}
		if s > sev && (up < 0 || s < up) {
			up = s
		}
		if s < sev && s > down {
			down = s
		}
	}

	for _, f := range flips {
		if s, ok := f.bucket.Severity(); ok && (s == up || s == down) {
			out = append(out, f.describe())
		}
	}
	if len(out) > 0 {
		return out
	}

	for _, f := range flips {
		if f.bucket == schema.BucketNeedsClarification {
			out = append(out, f.describeLoss(v.bucket))
		}
	}
	return out
}

func (f flip) describe() string {
	to := f.question.OptionLabel(f.to)
	if f.from == "" || f.from == schema.AnswerNotSure {
		return fmt.Sprintf("Answering %q with %q would change the classification to %s",
			f.question.Label, to, f.bucket)
	}
	return fmt.Sprintf("Changing %q from %q to %q would change the classification to %s",
		f.question.Label, f.question.OptionLabel(f.from), to, f.bucket)
}

// describeLoss words a flip that leaves no rule standing for current.
func (f flip) describeLoss(current schema.Bucket) string {
	to := f.question.OptionLabel(f.to)
	if f.from == "" || f.from == schema.AnswerNotSure {
		return fmt.Sprintf("Answering %q with %q would no longer meet the %s condition",
			f.question.Label, to, current)
	}
	return fmt.Sprintf("Changing %q from %q to %q would no longer meet the %s condition",
		f.question.Label, f.question.OptionLabel(f.from), to, current)
}

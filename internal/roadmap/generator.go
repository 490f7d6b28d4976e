// Package roadmap turns a classification into an ordered list of remediation
// tasks drawn from a static template table.
package roadmap

import (
	"slices"

	"kodex/pkg/schema"
)

// Generate selects every template that applies to c and answers and returns
// them as tasks ordered by priority, then declaration order. Order runs from 1
// without gaps and the first schema.TopTaskCount tasks are flagged IsTop5.
func Generate(c schema.Classification, answers schema.AnswerMap) []schema.Task {
	type candidate struct {
		index int
		tmpl  Template
	}

	var picked []candidate
	for i, t := range templates {
		if t.applies(c.Bucket, answers) {
			picked = append(picked, candidate{index: i, tmpl: t})
		}
	}

	slices.SortStableFunc(picked, func(a, b candidate) int {
		if d := a.tmpl.Priority.Rank() - b.tmpl.Priority.Rank(); d != 0 {
			return d
		}
		return a.index - b.index
	})

	present := make(map[string]bool, len(picked))
	for _, p := range picked {
		present[p.tmpl.ID] = true
	}

	tasks := make([]schema.Task, 0, len(picked))
	for i, p := range picked {
		t := p.tmpl
		var deps []string
		for _, dep := range t.Requires {
			if present[dep] {
				deps = append(deps, dep)
			}
		}
		tasks = append(tasks, schema.Task{
			ID:           t.ID,
			Title:        t.Title,
			Theme:        t.Theme,
			Why:          t.Why,
			Checklist:    append([]string(nil), t.Checklist...),
			Deliverable:  t.Deliverable,
			Owner:        t.Owner,
			Effort:       t.Effort,
			Priority:     t.Priority,
			IsTop5:       i < schema.TopTaskCount,
			Order:        i + 1,
			Dependencies: deps,
		})
	}

	return tasks
}

// Top returns the tasks flagged IsTop5, keeping their order.
func Top(tasks []schema.Task) []schema.Task {
	var top []schema.Task
	for _, t := range tasks {
		if t.IsTop5 {
			top = append(top, t)
		}
	}
	return top
}

func (t Template) applies(bucket schema.Bucket, answers schema.AnswerMap) bool {
	if slices.Contains(t.Buckets, bucket) {
		return true
	}
	for _, tr := range t.When {
		if v, ok := answers.Text(tr.QuestionID); ok && slices.Contains(tr.Values, v) {
			return true
		}
	}
	return false
}

// Package catalog holds the versioned questionnaire every classification is
// evaluated against. A Catalog is validated once at construction and is
// read-only afterwards, so concurrent readers need no locking.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"kodex/internal/core"
	"kodex/pkg/schema"

	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var defaultDocument []byte

// Step groups questions into one page of the answer wizard.
type Step struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Questions   []string `json:"questions" yaml:"questions"`
}

// document is the on-disk shape of a catalog.
type document struct {
	Version   string            `yaml:"version"`
	Questions []schema.Question `yaml:"questions"`
	Steps     []Step            `yaml:"steps"`
}

// Catalog is an immutable, validated question set.
type Catalog struct {
	version   string
	questions []schema.Question
	index     map[string]int
	steps     []Step
}

// New validates questions and steps and builds a catalog.
func New(version string, questions []schema.Question, steps []Step) (*Catalog, error) {
	if err := schema.ValidateVersion(version); err != nil {
		return nil, configErr("%v", err)
	}
	if len(questions) == 0 {
		return nil, configErr("catalog declares no questions")
	}

	c := &Catalog{
		version:   version,
		questions: make([]schema.Question, len(questions)),
		index:     make(map[string]int, len(questions)),
	}

	for i, q := range questions {
		if err := schema.ValidateQuestion(&q); err != nil {
			return nil, configErr("question %d (%q): %v", i, q.ID, err)
		}
		if _, dup := c.index[q.ID]; dup {
			return nil, configErr("duplicate question id %q", q.ID)
		}
		c.index[q.ID] = i
		c.questions[i] = cloneQuestion(q)
	}

	stepIDs := make(map[string]bool, len(steps))
	for _, s := range steps {
		if s.ID == "" {
			return nil, configErr("wizard step without id")
		}
		if stepIDs[s.ID] {
			return nil, configErr("duplicate wizard step id %q", s.ID)
		}
		stepIDs[s.ID] = true
		for _, qid := range s.Questions {
			if _, ok := c.index[qid]; !ok {
				return nil, configErr("wizard step %q references unknown question %q", s.ID, qid)
			}
		}
		c.steps = append(c.steps, Step{
			ID:          s.ID,
			Title:       s.Title,
			Description: s.Description,
			Questions:   append([]string(nil), s.Questions...),
		})
	}

	return c, nil
}

// Load parses and validates a YAML catalog document.
func Load(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &core.ConfigurationError{Source: "catalog", Message: "parse document", Err: err}
	}
	return New(doc.Version, doc.Questions, doc.Steps)
}

// LoadFile reads a catalog document from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Load(data)
}

// Default returns the embedded catalog. The embedded document is covered by
// tests, so a failure here is a build defect.
func Default() *Catalog {
	c, err := Load(defaultDocument)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog invalid: %v", err))
	}
	return c
}

// Version returns the question-set version.
func (c *Catalog) Version() string {
	return c.version
}

// All returns every question in catalog order. The result is a copy.
func (c *Catalog) All() []schema.Question {
	out := make([]schema.Question, len(c.questions))
	for i, q := range c.questions {
		out[i] = cloneQuestion(q)
	}
	return out
}

// ByID looks up a question.
func (c *Catalog) ByID(id string) (schema.Question, bool) {
	i, ok := c.index[id]
	if !ok {
		return schema.Question{}, false
	}
	return cloneQuestion(c.questions[i]), true
}

// Required returns the IDs of required questions in catalog order.
func (c *Catalog) Required() []string {
	var ids []string
	for _, q := range c.questions {
		if q.Required {
			ids = append(ids, q.ID)
		}
	}
	return ids
}

// Steps returns the wizard grouping.
func (c *Catalog) Steps() []Step {
	out := make([]Step, len(c.steps))
	for i, s := range c.steps {
		out[i] = s
		out[i].Questions = append([]string(nil), s.Questions...)
	}
	return out
}

func cloneQuestion(q schema.Question) schema.Question {
	q.Options = append([]schema.Option(nil), q.Options...)
	return q
}

func configErr(format string, args ...any) error {
	return &core.ConfigurationError{Source: "catalog", Message: fmt.Sprintf(format, args...)}
}

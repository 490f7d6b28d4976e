package interview

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"kodex/internal/assess"
	"kodex/pkg/schema"
)

// CLISession manages an interactive questionnaire session.
type CLISession struct {
	State   *SessionState
	Project string

	svc *assess.Service
	in  *bufio.Reader
	out io.Writer
}

// NewCLISession creates a session reading answers from in and writing
// prompts to out. An empty project starts a new one on save.
func NewCLISession(svc *assess.Service, project string, in io.Reader, out io.Writer) *CLISession {
	return &CLISession{
		State:   NewSessionState(),
		Project: project,
		svc:     svc,
		in:      bufio.NewReader(in),
		out:     out,
	}
}

// Run asks every question step by step, previews the classification and
// stores the assessment once the user confirms. It returns nil, nil when the
// user discards the result.
func (s *CLISession) Run() (*schema.Assessment, error) {
	cat := s.svc.Catalog()
	fmt.Fprintf(s.out, "AI Act risk scan (question set %s)\n", cat.Version())
	fmt.Fprintln(s.out, "Press Enter to skip a question.")

	for _, step := range cat.Steps() {
		fmt.Fprintf(s.out, "\n== %s ==\n%s\n", step.Title, step.Description)
		for _, id := range step.Questions {
			q, _ := cat.ByID(id)
			if err := s.ask(q); err != nil {
				return nil, err
			}
		}
	}

	for !s.State.Committed {
		c := s.svc.Classify(s.State.Answers)
		s.State.Preview = &c
		displayPreview(s.out, c, s.svc.Roadmap(c, s.State.Answers))

		fmt.Fprint(s.out, "\nSave this assessment? [yes/no/<question id> to change]: ")
		response, err := s.readLine()
		if err != nil {
			return nil, err
		}

		switch strings.ToLower(response) {
		case "yes", "y":
			a, err := s.svc.Assess(assess.AssessRequest{ProjectID: s.Project, Answers: s.State.Answers})
			if err != nil {
				return nil, fmt.Errorf("save assessment: %w", err)
			}
			s.State.Committed = true
			fmt.Fprintf(s.out, "\nSaved %s version %d (%s).\n", a.ProjectID, a.Version, a.ID)
			return a, nil

		case "no", "n":
			fmt.Fprintln(s.out, "Assessment discarded.")
			return nil, nil

		default:
			q, ok := cat.ByID(response)
			if !ok {
				fmt.Fprintf(s.out, "Unknown question %q.\n", response)
				continue
			}
			if err := s.ask(q); err != nil {
				return nil, err
			}
		}
	}
	return nil, nil
}

// ask prompts for one question until the reply is blank or acceptable.
// Single-choice replies may be the option number or its value.
func (s *CLISession) ask(q schema.Question) error {
	fmt.Fprintf(s.out, "\n%s\n", q.Label)
	if q.HelpText != "" {
		fmt.Fprintf(s.out, "  %s\n", q.HelpText)
	}
	for i, o := range q.Options {
		fmt.Fprintf(s.out, "  %d) %s\n", i+1, o.Label)
	}

	for {
		fmt.Fprint(s.out, "> ")
		reply, err := s.readLine()
		if err != nil {
			return err
		}

		if reply == "" || q.Kind == schema.KindFreeText {
			s.State.SetAnswer(q.ID, reply)
			return nil
		}
		if value, ok := pickOption(q, reply); ok {
			s.State.SetAnswer(q.ID, value)
			return nil
		}
		fmt.Fprintf(s.out, "Please enter a number between 1 and %d.\n", len(q.Options))
	}
}

func pickOption(q schema.Question, reply string) (string, bool) {
	if n, err := strconv.Atoi(reply); err == nil {
		if n >= 1 && n <= len(q.Options) {
			return q.Options[n-1].Value, true
		}
		return "", false
	}
	if q.HasOption(reply) {
		return reply, true
	}
	return "", false
}

// readLine returns the next trimmed line. A final line without a newline is
// accepted; running out of input is an error.
func (s *CLISession) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read input: %w", io.ErrUnexpectedEOF)
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// displayPreview prints the classification and the top roadmap tasks.
func displayPreview(w io.Writer, c schema.Classification, tasks []schema.Task) {
	fmt.Fprintf(w, "\nClassification: %s (confidence %s)\n", c.Bucket, c.Confidence)
	fmt.Fprintf(w, "  %s\n", c.Summary)

	if len(c.DecisiveFactors) > 0 {
		fmt.Fprintln(w, "\nDecisive factors:")
		for _, f := range c.DecisiveFactors {
			fmt.Fprintf(w, "  [%s] %s\n", f.RuleID, f.Reason)
		}
	}
	if len(c.MissingInfo) > 0 {
		fmt.Fprintln(w, "\nMissing information:")
		for _, m := range c.MissingInfo {
			fmt.Fprintf(w, "  %s: %s\n", m.QuestionID, m.FollowUpQuestion)
		}
	}
	if len(c.WhatChangesOutcome) > 0 {
		fmt.Fprintln(w, "\nWhat would change the outcome:")
		for _, line := range c.WhatChangesOutcome {
			fmt.Fprintf(w, "  - %s\n", line)
		}
	}

	fmt.Fprintln(w, "\nTop tasks:")
	for _, t := range tasks {
		if !t.IsTop5 {
			break
		}
		fmt.Fprintf(w, "  %d. [%s] %s\n", t.Order, t.Priority, t.Title)
	}
}

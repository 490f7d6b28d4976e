package main

import (
	"github.com/spf13/cobra"

	"kodex/internal/assess"
	"kodex/pkg/schema"
)

var assessFlags struct {
	project  string
	answers  string
	turnover float64
	currency string
}

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Classify, plan and store an assessment as the project's next version",
	RunE:  runAssess,
}

func init() {
	f := assessCmd.Flags()
	f.StringVar(&assessFlags.project, "project", "", "Project ID (a new one is generated when empty)")
	f.StringVar(&assessFlags.answers, "answers", "", "Answers file, YAML or JSON (- for stdin) (required)")
	f.Float64Var(&assessFlags.turnover, "turnover", 0, "Annual turnover for the exposure estimate")
	f.StringVar(&assessFlags.currency, "currency", "", "ISO currency code")

	_ = assessCmd.MarkFlagRequired("answers")
}

func runAssess(cmd *cobra.Command, _ []string) error {
	answers, err := readAnswers(cmd, assessFlags.answers)
	if err != nil {
		return err
	}

	svc, _, _, err := newService("cli")
	if err != nil {
		return err
	}

	req := assess.AssessRequest{ProjectID: assessFlags.project, Answers: answers}
	if turnover := floatFlag(cmd, "turnover", assessFlags.turnover); turnover != nil || assessFlags.currency != "" {
		req.EstimatorInputs = &schema.EstimatorInputs{Turnover: turnover, Currency: assessFlags.currency}
	}

	a, err := svc.Assess(req)
	if err != nil {
		return err
	}
	return render(cmd, a)
}

package main

import (
	"github.com/spf13/cobra"

	"kodex/pkg/schema"
)

var classifyFlags struct {
	answers string
	roadmap bool
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify an answer set without storing it",
	RunE:  runClassify,
}

func init() {
	f := classifyCmd.Flags()
	f.StringVar(&classifyFlags.answers, "answers", "", "Answers file, YAML or JSON (- for stdin) (required)")
	f.BoolVar(&classifyFlags.roadmap, "roadmap", false, "Include the compliance roadmap")

	_ = classifyCmd.MarkFlagRequired("answers")
}

func runClassify(cmd *cobra.Command, _ []string) error {
	answers, err := readAnswers(cmd, classifyFlags.answers)
	if err != nil {
		return err
	}

	svc, _, _, err := newService("cli")
	if err != nil {
		return err
	}

	c := svc.Classify(answers)
	if !classifyFlags.roadmap {
		return render(cmd, c)
	}
	return render(cmd, struct {
		Classification schema.Classification `json:"classification" yaml:"classification"`
		Roadmap        []schema.Task         `json:"roadmap" yaml:"roadmap"`
	}{c, svc.Roadmap(c, answers)})
}

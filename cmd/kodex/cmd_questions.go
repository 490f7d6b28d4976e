package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"kodex/internal/catalog"
)

var questionsFlags struct {
	text bool
}

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Show the questionnaire",
	RunE:  runQuestions,
}

func init() {
	questionsCmd.Flags().BoolVar(&questionsFlags.text, "text", false, "Print a readable outline instead of structured output")
}

func runQuestions(cmd *cobra.Command, _ []string) error {
	cat := catalog.Default()
	if rootFlags.catalogFile != "" {
		loaded, err := catalog.LoadFile(rootFlags.catalogFile)
		if err != nil {
			return err
		}
		cat = loaded
	}

	if !questionsFlags.text {
		return render(cmd, map[string]any{
			"version":   cat.Version(),
			"questions": cat.All(),
			"steps":     cat.Steps(),
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Question set %s\n", cat.Version())
	for _, step := range cat.Steps() {
		fmt.Fprintf(out, "\n%s\n", step.Title)
		for _, id := range step.Questions {
			q, _ := cat.ByID(id)
			marker := " "
			if q.Required {
				marker = "*"
			}
			fmt.Fprintf(out, " %s %-15s %s\n", marker, q.ID, q.Label)
			for _, o := range q.Options {
				fmt.Fprintf(out, "     - %-22s %s\n", o.Value, o.Label)
			}
		}
	}
	return nil
}

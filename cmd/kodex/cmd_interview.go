package main

import (
	"github.com/spf13/cobra"

	"kodex/internal/interview"
)

var interviewFlags struct {
	project string
}

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Answer the questionnaire interactively and store the result",
	RunE:  runInterview,
}

func init() {
	interviewCmd.Flags().StringVar(&interviewFlags.project, "project", "", "Project ID (a new one is generated when empty)")
}

func runInterview(cmd *cobra.Command, _ []string) error {
	svc, _, _, err := newService("cli")
	if err != nil {
		return err
	}

	_, err = interview.NewCLISession(svc, interviewFlags.project, cmd.InOrStdin(), cmd.OutOrStdout()).Run()
	return err
}

package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var historyFlags struct {
	project string
	full    bool
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List a project's stored assessment versions",
	RunE:  runHistory,
}

var duplicateFlags struct {
	project string
	version int
}

var duplicateCmd = &cobra.Command{
	Use:   "duplicate",
	Short: "Re-run a stored version with the current rules and store it as a new version",
	RunE:  runDuplicate,
}

func init() {
	f := historyCmd.Flags()
	f.StringVar(&historyFlags.project, "project", "", "Project ID (required)")
	f.BoolVar(&historyFlags.full, "full", false, "Print full assessments instead of a summary")
	_ = historyCmd.MarkFlagRequired("project")

	f = duplicateCmd.Flags()
	f.StringVar(&duplicateFlags.project, "project", "", "Project ID (required)")
	f.IntVar(&duplicateFlags.version, "version", 0, "Version to duplicate (required)")
	_ = duplicateCmd.MarkFlagRequired("project")
	_ = duplicateCmd.MarkFlagRequired("version")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	svc, _, _, err := newService("cli")
	if err != nil {
		return err
	}

	list, err := svc.History(historyFlags.project)
	if err != nil {
		return err
	}
	if historyFlags.full {
		return render(cmd, list)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Project %s (%d versions)\n", historyFlags.project, len(list))
	for _, a := range list {
		fmt.Fprintf(out, "  v%-4d %-20s %-12s %-7s %s\n",
			a.Version, a.Classification.Bucket, a.Classification.Confidence,
			a.ID, humanize.Time(a.CreatedAt))
	}
	return nil
}

func runDuplicate(cmd *cobra.Command, _ []string) error {
	svc, _, _, err := newService("cli")
	if err != nil {
		return err
	}

	a, err := svc.Duplicate(duplicateFlags.project, duplicateFlags.version)
	if err != nil {
		return err
	}
	return render(cmd, a)
}

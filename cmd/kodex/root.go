// kodex scores an AI system against the EU AI Act risk tiers.
//
// Usage:
//
//	kodex questions
//	kodex classify --answers answers.yaml [--roadmap]
//	kodex estimate --bucket High-risk --turnover 10000000 [--currency EUR]
//	kodex assess --project acme --answers answers.yaml [--turnover N]
//	kodex duplicate --project acme --version 1
//	kodex history --project acme
//	kodex interview [--project acme]
//	kodex serve [--addr :8080]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	dataDir      string
	settingsFile string
	catalogFile  string
	output       string
}

var rootCmd = &cobra.Command{
	Use:   "kodex",
	Short: "AI Act risk scanner",
	Long: "kodex classifies an AI system into an EU AI Act risk bucket from a short\n" +
		"questionnaire, explains the decision, builds a compliance roadmap and\n" +
		"estimates penalty exposure. Educational information only - not legal advice.",
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&rootFlags.dataDir, "data-dir", "", "Assessment store directory (default $KODEX_DATA_DIR or .kodex)")
	f.StringVar(&rootFlags.settingsFile, "settings", "", "Settings YAML file (default $KODEX_SETTINGS_FILE)")
	f.StringVar(&rootFlags.catalogFile, "catalog", "", "Question catalog YAML file (default: built in)")
	f.StringVarP(&rootFlags.output, "output", "o", "json", "Output format: json or yaml")

	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(duplicateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(interviewCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

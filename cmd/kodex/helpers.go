package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"kodex/internal/assess"
	"kodex/internal/core"
	"kodex/pkg/schema"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// loadConfig reads the environment and applies the persistent flags on top.
func loadConfig() (*core.Config, error) {
	cfg, err := core.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if rootFlags.dataDir != "" {
		cfg.DataDir = rootFlags.dataDir
	}
	if rootFlags.settingsFile != "" {
		cfg.SettingsFile = rootFlags.settingsFile
	}
	if rootFlags.catalogFile != "" {
		cfg.CatalogFile = rootFlags.catalogFile
	}
	return cfg, nil
}

// newService builds the service stack for a command. owner tags the lock
// files the process writes.
func newService(owner string) (*assess.Service, *core.Config, core.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger := core.NewLogger(cfg.LogLevel)
	svc, err := assess.New(cfg, owner, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return svc, cfg, logger, nil
}

// readAnswers loads an answer map from a YAML or JSON file, or stdin for "-".
func readAnswers(cmd *cobra.Command, path string) (schema.AnswerMap, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}

	answers := schema.AnswerMap{}
	if err := yaml.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("parse answers %s: %w", path, err)
	}
	return answers, nil
}

// render writes v to the command's stdout in the selected format.
func render(cmd *cobra.Command, v any) error {
	out := cmd.OutOrStdout()
	switch rootFlags.output {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case "json", "":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want json or yaml)", rootFlags.output)
	}
}

func floatFlag(cmd *cobra.Command, name string, v float64) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

package core

import (
	"fmt"
	"os"

	"kodex/internal/estimate"
	"kodex/pkg/schema"

	"gopkg.in/yaml.v3"
)

// DefaultDisclaimer accompanies every exported assessment unless overridden.
const DefaultDisclaimer = "Educational information only - not legal advice. Consult qualified counsel."

// DefaultSettings returns the settings a new organization starts with.
func DefaultSettings() *schema.Settings {
	return &schema.Settings{
		Currency:         "EUR",
		PenaltyTierModel: schema.TierA,
		TierParameters:   estimate.DefaultTierTable(),
		DisclaimerText:   DefaultDisclaimer,
	}
}

// LoadSettings reads a YAML settings document. Fields the document omits keep
// their defaults. An empty path returns the defaults unchanged.
func LoadSettings(path string) (*schema.Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, &ConfigurationError{Source: "settings", Message: "parse " + path, Err: err}
	}

	if err := schema.ValidateSettings(settings); err != nil {
		return nil, &ConfigurationError{Source: "settings", Message: err.Error(), Err: err}
	}

	return settings, nil
}

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Templates maps workflow moments to messaging-provider content-template
// IDs (Twilio content SIDs). An empty ID makes the messaging layer fall
// back to plain text for that moment.
type Templates struct {
	// ReviewAction carries the Approve / Revise buttons shown after each
	// presented review.
	ReviewAction string `yaml:"review_action"`
	// SessionStart announces a fresh batch with total / excluded / pending
	// counts as template variables 1-3.
	SessionStart string `yaml:"session_start"`
	// SessionEnd offers the reset trigger once every review is done.
	SessionEnd string `yaml:"session_end"`
	// AdvisorWelcome greets a manager who has no active session.
	AdvisorWelcome string `yaml:"advisor_welcome"`
}

// LoadTemplates reads the template-ID file. A missing path yields the zero
// value, meaning plain-text fallbacks everywhere.
func LoadTemplates(path string) (Templates, error) {
	var t Templates
	if path == "" {
		return t, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("reading templates file: %w", err)
	}

	var doc struct {
		Templates Templates `yaml:"templates"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return t, fmt.Errorf("parsing templates file: %w", err)
	}

	return doc.Templates, nil
}

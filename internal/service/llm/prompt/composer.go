// Package prompt assembles the system instruction sent with every resume
// generation.
package prompt

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompt.yaml
var promptFile []byte

// promptConfig mirrors prompt.yaml
type promptConfig struct {
	Template    string `yaml:"template"`
	Transitions struct {
		Preference    string `yaml:"preference"`
		Customization string `yaml:"customization"`
	} `yaml:"transitions"`
	JobDescriptionInstruction string `yaml:"job_description_instruction"`
}

// Composer builds system prompts from the embedded template.
// It holds no mutable state and is safe for concurrent use.
type Composer struct {
	base                      *template.Template
	preferenceTransition      string
	customizationTransition   string
	jobDescriptionInstruction string
}

// Input holds the optional values a system prompt is composed from.
type Input struct {
	JobDescription       string
	UserPreference       string
	SpecialCustomization string
}

// NewComposer parses the embedded prompt definition.
func NewComposer() (*Composer, error) {
	var cfg promptConfig
	if err := yaml.Unmarshal(promptFile, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prompt.yaml: %w", err)
	}
	if cfg.Template == "" || cfg.JobDescriptionInstruction == "" {
		return nil, fmt.Errorf("prompt.yaml is missing template or job_description_instruction")
	}

	base, err := template.New("system_prompt").Option("missingkey=error").Parse(cfg.Template)
	if err != nil {
		return nil, fmt.Errorf("failed to parse system prompt template: %w", err)
	}

	return &Composer{
		base:                      base,
		preferenceTransition:      cfg.Transitions.Preference,
		customizationTransition:   cfg.Transitions.Customization,
		jobDescriptionInstruction: cfg.JobDescriptionInstruction,
	}, nil
}

// Compose renders the base template and appends, in this order, the
// stored preference and the request customization. Empty values are skipped.
func (c *Composer) Compose(in Input) (string, error) {
	var b strings.Builder
	if err := c.base.Execute(&b, struct{ JobDescription string }{in.JobDescription}); err != nil {
		return "", fmt.Errorf("render system prompt: %w", err)
	}

	out := strings.TrimSpace(b.String())
	if in.UserPreference != "" {
		out += "\n\n" + c.preferenceTransition + "\n" + in.UserPreference
	}
	if in.SpecialCustomization != "" {
		out += "\n\n" + c.customizationTransition + "\n" + in.SpecialCustomization
	}
	return out, nil
}

// JobDescriptionInstruction is the synthetic trailing user turn sent when a
// job description was supplied.
func (c *Composer) JobDescriptionInstruction() string {
	return c.jobDescriptionInstruction
}

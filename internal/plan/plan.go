package plan

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Plan is an ordered list of independent evaluation cases. Each case is a
// single prompt; there is no conversation state between cases.
type Plan struct {
	Name  string `yaml:"name"`
	Cases []Case `yaml:"cases"`
}

// Case names one prompt and, optionally, a substring the answer must contain
// for the case to pass.
type Case struct {
	Name     string `yaml:"name"`
	Prompt   string `yaml:"prompt"`
	Expected string `yaml:"expected,omitempty"`
}

// Load reads and validates a plan file.
func Load(path string) (*Plan, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan %s: %w", path, err)
	}

	var p Plan
	if err := yaml.Unmarshal(content, &p); err != nil {
		return nil, fmt.Errorf("parse plan %s: %w", path, err)
	}

	if len(p.Cases) == 0 {
		return nil, fmt.Errorf("plan %s has no cases", path)
	}
	seen := map[string]bool{}
	for i, c := range p.Cases {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("plan %s: case %d has no name", path, i+1)
		}
		if strings.TrimSpace(c.Prompt) == "" {
			return nil, fmt.Errorf("plan %s: case %q has no prompt", path, c.Name)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("plan %s: duplicate case name %q", path, c.Name)
		}
		seen[c.Name] = true
	}
	return &p, nil
}

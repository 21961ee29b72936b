package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/YoanLn/Kiwi/internal/core/domain"
)

// VerifyRules is the optional operator-maintained rules file. It only
// extends the built-in classifier keyword table; it cannot remove entries.
type VerifyRules struct {
	ExtraKeywords map[string][]string `yaml:"extra_keywords"`
}

// LoadVerifyRules reads the YAML rules file at path. An empty path means no
// overrides; an unknown category label in the file is a configuration error.
func LoadVerifyRules(path string) (map[domain.Category][]string, error) {
	if path == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read verify rules: %w", err)
	}

	var rules VerifyRules
	if err := yaml.Unmarshal(raw, &rules); err != nil {
		return nil, fmt.Errorf("parse verify rules: %w", err)
	}

	if len(rules.ExtraKeywords) == 0 {
		return nil, nil
	}
	out := make(map[domain.Category][]string, len(rules.ExtraKeywords))
	for label, keywords := range rules.ExtraKeywords {
		if !domain.KnownCategory(label) {
			return nil, fmt.Errorf("verify rules: unknown category %q", label)
		}
		cat := domain.NormalizeCategory(label)
		out[cat] = append(out[cat], keywords...)
	}
	return out, nil
}

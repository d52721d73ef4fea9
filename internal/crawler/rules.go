package crawler

import (
	"fmt"
	"os"

	"github.com/hyperjump/smartdata/pkg/utils"
	"gopkg.in/yaml.v3"
)

// Rules is the free-form crawler rule document.
type Rules map[string]interface{}

// LoadRules reads the rule document at path. A missing or empty file yields empty rules.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Rules{}, nil
		}
		return nil, fmt.Errorf("failed to read crawler rules: %w", err)
	}
	// Decoding into the plain map keeps nested mappings as map[string]interface{}.
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse crawler rules: %w", err)
	}
	if doc == nil {
		return Rules{}, nil
	}
	return Rules(doc), nil
}

// SaveRules replaces the rule document at path.
func SaveRules(path string, rules Rules) error {
	if rules == nil {
		rules = Rules{}
	}
	data, err := yaml.Marshal(rules)
	if err != nil {
		return fmt.Errorf("failed to marshal crawler rules: %w", err)
	}
	return utils.WriteFileAtomic(path, data, 0644)
}

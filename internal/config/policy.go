package config

import (
	"fmt"
	"os"

	"github.com/aristath/cryptorisk/internal/domain"
	"gopkg.in/yaml.v3"
)

// PolicyFile is the YAML layout of a risk policy file. Every field is optional;
// anything left out keeps its built-in default.
//
//	volatility_by_class:
//	  altcoin: 0.08
//	hhi_thresholds:
//	  high: 0.1
//	  low: 0.3
//	symbol_classes:
//	  BONK: altcoin
type PolicyFile struct {
	Policy        domain.RiskPolicy                 `yaml:",inline"`
	SymbolClasses map[string]domain.VolatilityClass `yaml:"symbol_classes"`
}

// LoadPolicy overlays the YAML file at path onto the default policy and validates the
// result. An empty path returns the defaults.
func LoadPolicy(path string) (domain.RiskPolicy, *domain.Classifier, error) {
	file := PolicyFile{Policy: domain.DefaultRiskPolicy()}
	if path == "" {
		return file.Policy, domain.NewClassifier(nil), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.RiskPolicy{}, nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return domain.RiskPolicy{}, nil, fmt.Errorf("failed to parse policy file %s: %w", path, err)
	}
	if err := file.Policy.Validate(); err != nil {
		return domain.RiskPolicy{}, nil, fmt.Errorf("invalid policy file %s: %w", path, err)
	}

	return file.Policy, domain.NewClassifier(file.SymbolClasses), nil
}

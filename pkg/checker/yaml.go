// pkg/checker/yaml.go
package checker

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// CheckersConfig is the root YAML structure for checker definitions.
type CheckersConfig struct {
	Checkers []CheckerDef `yaml:"checkers"`
}

// CheckerDef defines a single HTTP-based checker.
type CheckerDef struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Kind        string  `yaml:"kind,omitempty"` // defaults to name
	Pattern     string  `yaml:"pattern,omitempty"`
	HTTP        HTTPDef `yaml:"http"`
}

// HTTPDef defines the HTTP probe configuration.
type HTTPDef struct {
	Method       string   `yaml:"method"`
	URL          string   `yaml:"url"`
	Auth         AuthDef  `yaml:"auth"`
	Headers      []Header `yaml:"headers,omitempty"`
	Body         string   `yaml:"body,omitempty"` // Static request body for POST/PUT
	SuccessCodes []int    `yaml:"success_codes"`
	FailureCodes []int    `yaml:"failure_codes"`
}

// AuthDef defines how the secret is attached to the probe request.
type AuthDef struct {
	Type       string `yaml:"type"`                   // bearer, token, basic, header, query
	HeaderName string `yaml:"header_name,omitempty"`  // for type=header
	QueryParam string `yaml:"query_param,omitempty"`  // for type=query
	Username   string `yaml:"username,omitempty"`     // for type=basic (if static)
}

// Header is a custom header key-value pair.
type Header struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// LoadCheckersFromYAML parses YAML and creates HTTPChecker instances.
func LoadCheckersFromYAML(data []byte) ([]Checker, error) {
	var cfg CheckersConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	checkers := make([]Checker, 0, len(cfg.Checkers))
	for _, def := range cfg.Checkers {
		c, err := NewHTTPChecker(def, nil)
		if err != nil {
			return nil, fmt.Errorf("checker %q: %w", def.Name, err)
		}
		checkers = append(checkers, c)
	}

	return checkers, nil
}

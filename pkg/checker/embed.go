// pkg/checker/embed.go
package checker

import (
	"embed"
	"fmt"
	"path/filepath"
)

//go:embed checkers/*.yaml
var checkersFS embed.FS

// LoadEmbeddedCheckers loads all embedded YAML checker definitions.
func LoadEmbeddedCheckers() ([]Checker, error) {
	entries, err := checkersFS.ReadDir("checkers")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded checkers: %w", err)
	}

	var checkers []Checker
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}

		data, err := checkersFS.ReadFile("checkers/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}

		loaded, err := LoadCheckersFromYAML(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", entry.Name(), err)
		}

		checkers = append(checkers, loaded...)
	}

	return checkers, nil
}

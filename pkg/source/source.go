// pkg/source/source.go
package source

import "context"

// Secret is one candidate credential supplied by a source: the raw value,
// a declared kind selecting the checker, and source-specific metadata.
type Secret struct {
	Value    string            `json:"secret"`
	Kind     string            `json:"kind"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Source yields candidate secrets for validation.
type Source interface {
	// Name returns a human-readable name for this source.
	Name() string

	// Each yields secrets to the callback in source order. Records
	// without a secret value are filtered out before the callback.
	Each(ctx context.Context, callback func(Secret) error) error
}

// Collect materializes a source into an ordered slice.
func Collect(ctx context.Context, s Source) ([]Secret, error) {
	var secrets []Secret
	err := s.Each(ctx, func(secret Secret) error {
		secrets = append(secrets, secret)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return secrets, nil
}

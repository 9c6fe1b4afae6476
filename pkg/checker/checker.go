// pkg/checker/checker.go
package checker

import (
	"context"

	"github.com/praetorian-inc/vouch/pkg/types"
)

// Checker validates one kind of leaked credential against its source API.
//
// A Checker is constructed once at registry-build time and reused for every
// secret of its kind for the life of the process. Implementations holding a
// shared HTTP client must be safe for concurrent Check calls.
type Checker interface {
	// Name returns the unique registry key for this checker. For secrets
	// sourced from GitHub secret scanning this matches the alert's
	// secret_type so alerts resolve directly to a checker.
	Name() string

	// Description returns human-readable text for listings.
	Description() string

	// Kind returns the secret-type string this checker handles, matched
	// against the "type" column of structured inputs.
	Kind() string

	// Check determines whether the secret is still active. A format
	// mismatch the checker detects itself is an invalid Outcome, not an
	// error; a non-nil error means the check was inconclusive and is
	// converted to an error Outcome at the engine boundary.
	Check(ctx context.Context, secret string) (types.Outcome, error)
}

// Notifier is an optional secondary capability: alert the owner of a
// credential that was confirmed valid. It is invoked only when the caller
// explicitly opts in, never as a side effect of Check.
type Notifier interface {
	Notify(ctx context.Context, secret string) error
}

// Descriptor is the static identity metadata of a registered checker.
type Descriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
}

// Describe extracts a checker's identity fields.
func Describe(c Checker) Descriptor {
	return Descriptor{
		Name:        c.Name(),
		Description: c.Description(),
		Kind:        c.Kind(),
	}
}

// pkg/checker/registry.go
package checker

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
)

// ErrUnknownChecker is returned by Resolve and ResolveKind when no
// registered checker matches.
var ErrUnknownChecker = errors.New("unknown validator")

// RegistrationError reports a candidate rejected at registration time.
// It is fatal only to the offending checker; registration of the others
// continues.
type RegistrationError struct {
	Name   string
	Reason string
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("cannot register checker %q: %s", e.Name, e.Reason)
}

// Registry indexes checkers by name and by the secret kind they handle.
// It is populated once at startup and treated as immutable afterwards,
// making unsynchronized concurrent lookups safe.
type Registry struct {
	byName map[string]Checker
	byKind map[string]Checker
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Checker),
		byKind: make(map[string]Checker),
	}
}

// Register adds a checker. A candidate with an empty name, or whose name
// collides with an already-registered checker, is rejected with a
// *RegistrationError and the registry is left unchanged.
func (r *Registry) Register(c Checker) error {
	name := c.Name()
	if name == "" {
		return &RegistrationError{Name: name, Reason: "empty name"}
	}
	if _, exists := r.byName[name]; exists {
		return &RegistrationError{Name: name, Reason: "duplicate name"}
	}

	r.byName[name] = c
	if kind := c.Kind(); kind != "" {
		if _, exists := r.byKind[kind]; !exists {
			r.byKind[kind] = c
		}
	}
	return nil
}

// RegisterAll registers every candidate, collecting per-candidate
// registration errors. One broken checker never blocks the rest.
func (r *Registry) RegisterAll(checkers ...Checker) []error {
	var errs []error
	for _, c := range checkers {
		if err := r.Register(c); err != nil {
			log.Warn().Err(err).Msg("skipping checker")
			errs = append(errs, err)
		}
	}
	return errs
}

// Resolve returns the checker registered under name.
func (r *Registry) Resolve(name string) (Checker, error) {
	c, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownChecker, name, r.Names())
	}
	return c, nil
}

// ResolveKind returns the checker handling the given secret kind. Checker
// names double as kinds, so an explicit name also resolves here.
func (r *Registry) ResolveKind(kind string) (Checker, error) {
	if c, ok := r.byKind[kind]; ok {
		return c, nil
	}
	return r.Resolve(kind)
}

// Names returns all registered checker names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns descriptors for every registered checker in stable
// name order, for deterministic CLI listing.
func (r *Registry) List() []Descriptor {
	names := r.Names()
	descriptors := make([]Descriptor, 0, len(names))
	for _, name := range names {
		descriptors = append(descriptors, Describe(r.byName[name]))
	}
	return descriptors
}

// Len returns the number of registered checkers.
func (r *Registry) Len() int {
	return len(r.byName)
}

// NewDefaultRegistry builds a registry from the builtin checker table plus
// the embedded YAML-defined HTTP checkers. Per-candidate registration
// failures are returned alongside the registry; the caller decides whether
// an empty registry is fatal.
func NewDefaultRegistry() (*Registry, []error) {
	r := NewRegistry()

	builtins := []Checker{
		NewGoogleAPIKeyChecker(),
		NewTeamsWebhookChecker(),
		NewSnykTokenChecker(),
		NewFodselsnummerChecker(),
		NewAWSAccessKeyChecker(),
		NewPostgresChecker(),
		NewGitLabTokenChecker(),
		NewAzureStorageChecker(),
	}
	errs := r.RegisterAll(builtins...)

	embedded, err := LoadEmbeddedCheckers()
	if err != nil {
		errs = append(errs, err)
	} else {
		errs = append(errs, r.RegisterAll(embedded...)...)
	}

	log.Debug().Int("checkers", r.Len()).Msg("registry built")
	return r, errs
}

// pkg/checker/registry_test.go
package checker

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/praetorian-inc/vouch/pkg/types"
)

func TestRegistry_RegisterAndResolve(t *testing.T) {
	r := NewRegistry()
	stub := &stubChecker{name: "echo_valid", outcome: types.Valid("")}

	err := r.Register(stub)
	assert.NoError(t, err)

	resolved, err := r.Resolve("echo_valid")
	assert.NoError(t, err)
	assert.Same(t, Checker(stub), resolved)
}

func TestRegistry_ResolveUnknown(t *testing.T) {
	r := NewRegistry()
	assert.NoError(t, r.Register(&stubChecker{name: "known"}))

	_, err := r.Resolve("missing")
	assert.ErrorIs(t, err, ErrUnknownChecker)
	assert.Contains(t, err.Error(), "known", "error should list available checkers")
}

func TestRegistry_RejectsEmptyName(t *testing.T) {
	r := NewRegistry()

	err := r.Register(&stubChecker{name: ""})

	var regErr *RegistrationError
	assert.ErrorAs(t, err, &regErr)
	assert.Equal(t, "empty name", regErr.Reason)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_RejectsDuplicateName(t *testing.T) {
	r := NewRegistry()
	first := &stubChecker{name: "dup", outcome: types.Valid("first")}
	second := &stubChecker{name: "dup", outcome: types.Valid("second")}

	assert.NoError(t, r.Register(first))

	err := r.Register(second)
	var regErr *RegistrationError
	assert.ErrorAs(t, err, &regErr)
	assert.Equal(t, "dup", regErr.Name)

	// First registration wins.
	resolved, err := r.Resolve("dup")
	assert.NoError(t, err)
	assert.Same(t, Checker(first), resolved)
}

func TestRegistry_RegisterAllContinuesPastFailures(t *testing.T) {
	r := NewRegistry()

	errs := r.RegisterAll(
		&stubChecker{name: "a"},
		&stubChecker{name: ""},
		&stubChecker{name: "a"},
		&stubChecker{name: "b"},
	)

	assert.Len(t, errs, 2)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"a", "b"}, r.Names())
}

func TestRegistry_ResolveKind(t *testing.T) {
	r := NewRegistry()
	assert.NoError(t, r.Register(&stubChecker{name: "gitlab_pat", kind: "gitlab_personal_access_token"}))

	byKind, err := r.ResolveKind("gitlab_personal_access_token")
	assert.NoError(t, err)
	assert.Equal(t, "gitlab_pat", byKind.Name())

	// Checker names double as kinds.
	byName, err := r.ResolveKind("gitlab_pat")
	assert.NoError(t, err)
	assert.Equal(t, "gitlab_pat", byName.Name())

	_, err = r.ResolveKind("nope")
	assert.ErrorIs(t, err, ErrUnknownChecker)
}

func TestRegistry_NamesSorted(t *testing.T) {
	r := NewRegistry()
	r.RegisterAll(
		&stubChecker{name: "zeta"},
		&stubChecker{name: "alpha"},
		&stubChecker{name: "mid"},
	)

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.Names())
}

func TestRegistry_List(t *testing.T) {
	r := NewRegistry()
	r.RegisterAll(
		&stubChecker{name: "b", kind: "kind_b"},
		&stubChecker{name: "a", kind: "kind_a"},
	)

	descriptors := r.List()
	assert.Len(t, descriptors, 2)
	assert.Equal(t, "a", descriptors[0].Name)
	assert.Equal(t, "kind_a", descriptors[0].Kind)
	assert.Equal(t, "b", descriptors[1].Name)
}

func TestNewDefaultRegistry(t *testing.T) {
	r, errs := NewDefaultRegistry()
	assert.Empty(t, errs)

	for _, name := range []string{
		"google_api_key",
		"microsoft_teams_webhook",
		"snyk_api_token",
		"fodselsnummer",
		"aws_access_key",
		"postgres",
		"gitlab_personal_access_token",
		"azure_storage_account_key",
		"stripe_api_key",
		"sendgrid_api_key",
	} {
		c, err := r.Resolve(name)
		assert.NoError(t, err, "builtin %s should resolve", name)
		if assert.NotNil(t, c) {
			assert.Equal(t, name, c.Name())
			assert.NotEmpty(t, c.Description())
		}
	}
}

func TestRegistrationError_Message(t *testing.T) {
	err := &RegistrationError{Name: "x", Reason: "duplicate name"}
	assert.Equal(t, `cannot register checker "x": duplicate name`, err.Error())
	assert.False(t, errors.Is(err, ErrUnknownChecker))
}

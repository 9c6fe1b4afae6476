// pkg/checker/azure_test.go
package checker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/praetorian-inc/vouch/pkg/types"
)

func TestAzureStorageChecker_ShapeMismatch(t *testing.T) {
	c := NewAzureStorageChecker()

	for _, secret := range []string{
		"not a connection string",
		"AccountName=myaccount",                           // no key
		"AccountKey=c2VjcmV0a2V5==",                       // no account
		"DefaultEndpointsProtocol=https;AccountKey=;",     // empty key
		"",
	} {
		outcome, err := c.Check(context.Background(), secret)
		assert.NoError(t, err)
		assert.Equal(t, types.StatusInvalid, outcome.Status, "secret %q", secret)
	}
}

func TestParseConnectionString(t *testing.T) {
	name, ok := parseConnectionString(
		"DefaultEndpointsProtocol=https;AccountName=myaccount;AccountKey=c2VjcmV0a2V5Cg==;EndpointSuffix=core.windows.net",
	)
	assert.True(t, ok)
	assert.Equal(t, "myaccount", name)

	_, ok = parseConnectionString("AccountName=myaccount;EndpointSuffix=core.windows.net")
	assert.False(t, ok)

	_, ok = parseConnectionString("AccountName=;AccountKey=abc")
	assert.False(t, ok)
}

func TestIsAzureAuthError(t *testing.T) {
	assert.True(t, isAzureAuthError(errors.New("RESPONSE 403: AuthenticationFailed")))
	assert.True(t, isAzureAuthError(errors.New("InvalidAuthenticationInfo: signature fields not well formed")))
	assert.False(t, isAzureAuthError(errors.New("dial tcp: no route to host")))
	assert.False(t, isAzureAuthError(nil))
}
